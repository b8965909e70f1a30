// Package coordination exposes the agent coordination service's public call
// contract. The service itself runs elsewhere; this package only defines the
// contract and a thin NATS request/reply client for it.
package coordination

import (
	"context"
	"encoding/json"
	"time"
)

// AgentRecord is an agent as the coordination service reports it.
// The record's lifecycle is owned entirely by the remote service.
type AgentRecord struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	Capabilities []string        `json:"capabilities,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// TaskRecord is a task as the coordination service reports it.
type TaskRecord struct {
	ID        string          `json:"id"`
	AgentID   string          `json:"agentId"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AgentMetrics is the per-agent performance snapshot.
type AgentMetrics struct {
	AgentID        string    `json:"agentId"`
	TasksCompleted int       `json:"tasksCompleted"`
	TasksFailed    int       `json:"tasksFailed"`
	SuccessRate    float64   `json:"successRate"`
	LastActive     time.Time `json:"lastActive"`
}

// Service is the coordination service call contract. The HTTP layer receives
// an implementation at construction time instead of reaching for a process
// global, so tests control the instance.
type Service interface {
	RegisterAgent(ctx context.Context, payload map[string]interface{}) (*AgentRecord, error)
	AssignTask(ctx context.Context, payload map[string]interface{}, agentID string) (*TaskRecord, error)
	UpdateTaskStatus(ctx context.Context, taskID, status string, result map[string]interface{}) error
	GetAgentMetrics(ctx context.Context, agentID string) (*AgentMetrics, error)
}
