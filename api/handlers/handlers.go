package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hivemindlabs/agent-relay/communication"
	"github.com/hivemindlabs/agent-relay/coordination"
)

// Handler carries the injected coordination service and the live event
// manager. Every route is an independent request/response cycle; nothing here
// holds per-request state.
type Handler struct {
	svc    coordination.Service
	events *communication.Manager
}

func New(svc coordination.Service, events *communication.Manager) *Handler {
	return &Handler{svc: svc, events: events}
}

// Health - liveness probe
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterAgent - registers a new agent with the coordination service
func (h *Handler) RegisterAgent(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("Failed to register agent: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register agent"})
		return
	}

	agent, err := h.svc.RegisterAgent(c.Request.Context(), payload)
	if err != nil {
		log.Printf("Failed to register agent: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register agent"})
		return
	}

	h.notify(communication.EventAgentRegistered, agent)
	c.JSON(http.StatusCreated, agent)
}

// AssignTask - creates a task for an agent. The agent id rides in the body;
// everything else is forwarded untouched as the task payload.
func (h *Handler) AssignTask(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to assign task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign task"})
		return
	}

	agentID, _ := body["agentId"].(string)
	delete(body, "agentId")

	task, err := h.svc.AssignTask(c.Request.Context(), body, agentID)
	if err != nil {
		log.Printf("Failed to assign task for agent %s: %v", agentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign task"})
		return
	}

	h.notify(communication.EventTaskAssigned, task)
	c.JSON(http.StatusCreated, task)
}

// UpdateTaskStatus - records a task's new status and result
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	taskID := c.Param("taskId")

	var body struct {
		Status string                 `json:"status"`
		Result map[string]interface{} `json:"result"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to update status for task %s: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task status"})
		return
	}

	if err := h.svc.UpdateTaskStatus(c.Request.Context(), taskID, body.Status, body.Result); err != nil {
		log.Printf("Failed to update status for task %s: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task status"})
		return
	}

	h.notify(communication.EventTaskStatusUpdated, gin.H{"taskId": taskID, "status": body.Status})
	c.JSON(http.StatusOK, gin.H{"message": "Task status updated successfully"})
}

// GetAgentMetrics - fetches the performance snapshot for one agent
func (h *Handler) GetAgentMetrics(c *gin.Context) {
	agentID := c.Param("agentId")

	metrics, err := h.svc.GetAgentMetrics(c.Request.Context(), agentID)
	if err != nil {
		log.Printf("Failed to get metrics for agent %s: %v", agentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get agent metrics"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) notify(eventType string, payload interface{}) {
	if h.events != nil {
		h.events.Broadcast(eventType, payload)
	}
}
