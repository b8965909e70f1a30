package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hivemindlabs/agent-relay/api/handlers"
	"github.com/hivemindlabs/agent-relay/api/middleware"
	"github.com/hivemindlabs/agent-relay/communication"
	"github.com/hivemindlabs/agent-relay/coordination"
)

// Server is the REST layer over the coordination service. The service
// instance is injected so tests and multi-tenant setups control its
// lifecycle.
type Server struct {
	router *gin.Engine
	addr   string
}

// NewServer builds the gin engine with middleware and routes wired.
func NewServer(svc coordination.Service, events *communication.Manager, addr string) *Server {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorFlattener())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	SetupRoutes(router, handlers.New(svc, events))

	return &Server{router: router, addr: addr}
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	return s.router.Run(s.addr)
}
