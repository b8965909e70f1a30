package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemindlabs/agent-relay/config"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func TestNewRejectsEmptyToken(t *testing.T) {
	_, err := New(config.Discord{GuildID: "g-1"}, nil)
	assert.Error(t, err)
}

func TestSendMessage(t *testing.T) {
	var gotPath, gotAuth string
	var gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotContent = body["content"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewUnchecked(config.Discord{Token: "tok", GuildID: "g-1"}, nil)
	c.SetBaseURL(srv.URL)

	require.NoError(t, c.SendMessage(context.Background(), "chan-7", "hello"))
	assert.Equal(t, "/channels/chan-7/messages", gotPath)
	assert.Equal(t, "Bot tok", gotAuth)
	assert.Equal(t, "hello", gotContent)
}

func TestSendMessageRequiresChannel(t *testing.T) {
	c := NewUnchecked(config.Discord{Token: "tok"}, nil)
	assert.Error(t, c.SendMessage(context.Background(), "", "hello"))
}

func TestSendMessageSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewUnchecked(config.Discord{Token: "tok"}, nil)
	c.SetBaseURL(srv.URL)

	assert.Error(t, c.SendMessage(context.Background(), "chan-7", "hello"))
}

func TestComposeReply(t *testing.T) {
	var gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		gotContent = body["content"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewUnchecked(config.Discord{Token: "tok"}, &stubGenerator{reply: "generated reply"})
	c.SetBaseURL(srv.URL)

	require.NoError(t, c.ComposeReply(context.Background(), "chan-7", "say hi"))
	assert.Equal(t, "generated reply", gotContent)
}

func TestComposeReplyWithoutGenerator(t *testing.T) {
	c := NewUnchecked(config.Discord{Token: "tok"}, nil)
	assert.Error(t, c.ComposeReply(context.Background(), "chan-7", "say hi"))
}
