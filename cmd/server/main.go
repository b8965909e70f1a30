package main

import (
	"log"

	"github.com/hivemindlabs/agent-relay/api"
	"github.com/hivemindlabs/agent-relay/communication"
	"github.com/hivemindlabs/agent-relay/config"
	"github.com/hivemindlabs/agent-relay/coordination"
)

func main() {
	client, err := coordination.NewClient(config.NATSURL())
	if err != nil {
		log.Fatalf("Failed to connect to coordination service: %v", err)
	}
	defer client.Close()

	events := communication.NewManager()

	addr := config.ServerAddr()
	log.Printf("Agent coordination API listening on %s", addr)

	server := api.NewServer(client, events, addr)
	if err := server.Run(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
