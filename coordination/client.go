package coordination

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subjects the coordination service answers on.
const (
	SubjectRegisterAgent    = "coordination.agent.register"
	SubjectAssignTask       = "coordination.task.assign"
	SubjectUpdateTaskStatus = "coordination.task.status"
	SubjectAgentMetrics     = "coordination.agent.metrics"
)

const requestTimeout = 5 * time.Second

// Client talks to the coordination service over NATS request/reply.
type Client struct {
	nc *nats.Conn
}

// NewClient connects to the NATS server at url.
func NewClient(url string) (*Client, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc}, nil
}

// NewClientConn wraps an existing connection. The caller keeps ownership.
func NewClientConn(nc *nats.Conn) *Client {
	return &Client{nc: nc}
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.nc.Close()
}

// envelope is the reply wrapper the coordination service uses. A non-empty
// Error means the call failed remotely.
type envelope struct {
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func (c *Client) request(ctx context.Context, subject string, req interface{}, out interface{}) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, requestTimeout)
		defer cancel()
	}

	msg, err := c.nc.RequestWithContext(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("coordination request %s failed: %w", subject, err)
	}

	var env envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		return fmt.Errorf("coordination reply on %s is malformed: %w", subject, err)
	}
	if env.Error != "" {
		return fmt.Errorf("coordination service error: %s", env.Error)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) RegisterAgent(ctx context.Context, payload map[string]interface{}) (*AgentRecord, error) {
	var agent AgentRecord
	if err := c.request(ctx, SubjectRegisterAgent, payload, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (c *Client) AssignTask(ctx context.Context, payload map[string]interface{}, agentID string) (*TaskRecord, error) {
	req := map[string]interface{}{
		"agentId": agentID,
		"payload": payload,
	}
	var task TaskRecord
	if err := c.request(ctx, SubjectAssignTask, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, status string, result map[string]interface{}) error {
	req := map[string]interface{}{
		"taskId": taskID,
		"status": status,
		"result": result,
	}
	return c.request(ctx, SubjectUpdateTaskStatus, req, nil)
}

func (c *Client) GetAgentMetrics(ctx context.Context, agentID string) (*AgentMetrics, error) {
	req := map[string]interface{}{"agentId": agentID}
	var metrics AgentMetrics
	if err := c.request(ctx, SubjectAgentMetrics, req, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}
