package coordination

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBroker(t *testing.T) (*natsserver.Server, *nats.Conn) {
	t.Helper()

	srv, err := natsserver.NewServer(&natsserver.Options{Port: -1})
	require.NoError(t, err)
	go srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS server did not start")
	}
	t.Cleanup(srv.Shutdown)

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	return srv, nc
}

func respondWith(t *testing.T, nc *nats.Conn, subject string, env envelope) {
	t.Helper()
	reply, err := json.Marshal(env)
	require.NoError(t, err)
	_, err = nc.Subscribe(subject, func(msg *nats.Msg) {
		msg.Respond(reply)
	})
	require.NoError(t, err)
	require.NoError(t, nc.Flush())
}

func TestRegisterAgentRoundTrip(t *testing.T) {
	_, nc := startBroker(t)

	agent := AgentRecord{ID: "a-1", Name: "scout", Role: "worker"}
	data, err := json.Marshal(agent)
	require.NoError(t, err)
	respondWith(t, nc, SubjectRegisterAgent, envelope{Data: data})

	client := NewClientConn(nc)
	got, err := client.RegisterAgent(context.Background(), map[string]interface{}{"name": "scout"})
	require.NoError(t, err)
	assert.Equal(t, "a-1", got.ID)
	assert.Equal(t, "scout", got.Name)
}

func TestAssignTaskWrapsPayload(t *testing.T) {
	_, nc := startBroker(t)

	received := make(chan map[string]interface{}, 1)
	_, err := nc.Subscribe(SubjectAssignTask, func(msg *nats.Msg) {
		var req map[string]interface{}
		if json.Unmarshal(msg.Data, &req) == nil {
			received <- req
		}
		task := TaskRecord{ID: "t-1", AgentID: "a-1", Status: "pending"}
		data, _ := json.Marshal(task)
		reply, _ := json.Marshal(envelope{Data: data})
		msg.Respond(reply)
	})
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	client := NewClientConn(nc)
	task, err := client.AssignTask(context.Background(), map[string]interface{}{"kind": "scrape"}, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", task.ID)

	req := <-received
	assert.Equal(t, "a-1", req["agentId"])
	payload, ok := req["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "scrape", payload["kind"])
}

func TestUpdateTaskStatus(t *testing.T) {
	_, nc := startBroker(t)
	respondWith(t, nc, SubjectUpdateTaskStatus, envelope{})

	client := NewClientConn(nc)
	err := client.UpdateTaskStatus(context.Background(), "t-1", "done", map[string]interface{}{"ok": true})
	assert.NoError(t, err)
}

func TestRemoteErrorSurfaces(t *testing.T) {
	_, nc := startBroker(t)
	respondWith(t, nc, SubjectAgentMetrics, envelope{Error: "agent not found"})

	client := NewClientConn(nc)
	_, err := client.GetAgentMetrics(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent not found")
}

func TestRequestTimesOutWithoutResponder(t *testing.T) {
	_, nc := startBroker(t)
	client := NewClientConn(nc)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := client.GetAgentMetrics(ctx, "a-1")
	assert.Error(t, err)
}
