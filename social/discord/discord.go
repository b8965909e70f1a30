package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hivemindlabs/agent-relay/ai"
	"github.com/hivemindlabs/agent-relay/config"
)

const defaultBaseURL = "https://discord.com/api/v10"

// Client is a thin chat REST adapter. Unlike the microblog client it is
// self-initializing: New validates the token immediately and there is no
// separate Initialize step.
type Client struct {
	token     string
	guildID   string
	generator ai.Generator

	baseURL string
	http    *http.Client
}

// New builds the client and validates the token against the gateway endpoint.
func New(cfg config.Discord, gen ai.Generator) (*Client, error) {
	c := &Client{
		token:     cfg.Token,
		guildID:   cfg.GuildID,
		generator: gen,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
	if err := c.validateToken(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewUnchecked builds the client without the eager token validation.
// Used by tests that point the client at a local server after construction.
func NewUnchecked(cfg config.Discord, gen ai.Generator) *Client {
	return &Client{
		token:     cfg.Token,
		guildID:   cfg.GuildID,
		generator: gen,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) validateToken() error {
	if c.token == "" {
		return fmt.Errorf("discord token is empty")
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/gateway/bot", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("discord token check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discord token check returned status: %d", resp.StatusCode)
	}
	return nil
}

// SendMessage posts content to the given channel.
func (c *Client) SendMessage(ctx context.Context, channelID, content string) error {
	if channelID == "" {
		return fmt.Errorf("discord channel id is empty")
	}

	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("discord message post returned status: %d", resp.StatusCode)
	}
	return nil
}

// ComposeReply generates a response for prompt and posts it to channelID.
func (c *Client) ComposeReply(ctx context.Context, channelID, prompt string) error {
	if c.generator == nil {
		return fmt.Errorf("no generator configured")
	}
	reply, err := c.generator.GenerateResponse(ctx, prompt)
	if err != nil {
		return err
	}
	return c.SendMessage(ctx, channelID, reply)
}

// GuildID returns the guild this client is scoped to.
func (c *Client) GuildID() string {
	return c.guildID
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}
