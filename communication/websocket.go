package communication

import (
	"log"

	"github.com/gorilla/websocket"
)

// Event is one live update pushed to connected dashboard clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventAgentRegistered   = "AGENT_REGISTERED"
	EventTaskAssigned      = "TASK_ASSIGNED"
	EventTaskStatusUpdated = "TASK_STATUS_UPDATED"
)

// Manager fans Event values out to every connected websocket client.
// The client set is owned exclusively by the pump goroutine; all access goes
// through the channels.
type Manager struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
}

// NewManager starts a manager and its pump goroutine.
func NewManager() *Manager {
	m := &Manager{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Event, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
	go m.run()
	return m
}

func (m *Manager) run() {
	for {
		select {
		case client := <-m.register:
			m.clients[client] = true

		case client := <-m.unregister:
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				client.Close()
			}

		case event := <-m.broadcast:
			for client := range m.clients {
				if err := client.WriteJSON(event); err != nil {
					log.Printf("WebSocket error: %v", err)
					client.Close()
					delete(m.clients, client)
				}
			}
		}
	}
}

// Broadcast queues an event for every connected client. It never blocks the
// caller; if the pump is saturated the event is dropped.
func (m *Manager) Broadcast(eventType string, payload interface{}) {
	select {
	case m.broadcast <- Event{Type: eventType, Payload: payload}:
	default:
		log.Printf("Dropping %s event, broadcast queue full", eventType)
	}
}

// Register returns the channel new connections are announced on.
func (m *Manager) Register() chan<- *websocket.Conn {
	return m.register
}

// Unregister returns the channel closed connections are announced on.
func (m *Manager) Unregister() chan<- *websocket.Conn {
	return m.unregister
}
