package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hivemindlabs/agent-relay/config"
	"github.com/hivemindlabs/agent-relay/market"
)

const defaultBaseURL = "https://api.twitter.com/2"

// Client is a thin microblog REST adapter. Retry counts, delays and content
// rules are pass-through configuration; the client applies them but never
// invents policy of its own.
type Client struct {
	cfg       config.Twitter
	marketKey string
	processor *market.DataProcessor

	baseURL string
	http    *http.Client

	mu       sync.Mutex
	lastPost time.Time
}

// New builds the client. Nothing is verified until Initialize.
func New(cfg config.Twitter, marketKey string, processor *market.DataProcessor) *Client {
	return &Client{
		cfg:       cfg,
		marketKey: marketKey,
		processor: processor,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Initialize verifies the credential bundle against the API. In dry-run mode
// it only checks that credentials are present.
func (c *Client) Initialize(ctx context.Context) error {
	if c.cfg.APIKey == "" || c.cfg.AccessToken == "" {
		return fmt.Errorf("twitter credentials incomplete")
	}
	if c.cfg.DryRun {
		log.Println("Twitter client initialized in dry-run mode")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("twitter credential check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("twitter credential check returned status: %d", resp.StatusCode)
	}
	return nil
}

// Send posts content. replyTo, when non-empty, is the id of the post being
// replied to. The configured content rules are enforced before any network
// call; failures are retried MaxRetries times with RetryDelay between tries.
func (c *Client) Send(ctx context.Context, content, replyTo string) error {
	if err := c.checkContentRules(content); err != nil {
		return err
	}

	if c.cfg.DryRun {
		log.Printf("Twitter dry-run, would post: %s", content)
		c.recordPost()
		return nil
	}

	body := map[string]interface{}{"text": content}
	if replyTo != "" {
		body["reply"] = map[string]string{"in_reply_to_tweet_id": replyTo}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	attempts := c.cfg.MaxRetries + 1
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && c.cfg.RetryDelay > 0 {
			time.Sleep(c.cfg.RetryDelay)
		}
		if lastErr = c.post(ctx, payload); lastErr == nil {
			c.recordPost()
			return nil
		}
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tweet post returned status: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
}

func (c *Client) checkContentRules(content string) error {
	if c.cfg.MaxHashtags > 0 {
		if n := strings.Count(content, "#"); n > c.cfg.MaxHashtags {
			return fmt.Errorf("content has %d hashtags, limit is %d", n, c.cfg.MaxHashtags)
		}
	}
	if c.cfg.MaxEmojis > 0 {
		if n := countEmojis(content); n > c.cfg.MaxEmojis {
			return fmt.Errorf("content has %d emojis, limit is %d", n, c.cfg.MaxEmojis)
		}
	}
	if c.cfg.MinInterval > 0 {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.lastPost.IsZero() && time.Since(c.lastPost) < c.cfg.MinInterval {
			return fmt.Errorf("posting too fast, minimum interval is %s", c.cfg.MinInterval)
		}
	}
	return nil
}

func (c *Client) recordPost() {
	c.mu.Lock()
	c.lastPost = time.Now()
	c.mu.Unlock()
}

func countEmojis(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x1F300 && r <= 0x1FAFF {
			n++
		}
	}
	return n
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}
