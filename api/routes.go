package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hivemindlabs/agent-relay/api/handlers"
)

// SetupRoutes initializes all API endpoints
func SetupRoutes(router *gin.Engine, h *handlers.Handler) {
	router.GET("/health", h.Health)
	router.POST("/agents", h.RegisterAgent)
	router.POST("/tasks", h.AssignTask)
	router.PATCH("/tasks/:taskId/status", h.UpdateTaskStatus)
	router.GET("/agents/:agentId/metrics", h.GetAgentMetrics)
	router.GET("/ws", h.HandleWebSocket)
}
