package twitter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemindlabs/agent-relay/config"
)

func testConfig() config.Twitter {
	return config.Twitter{
		APIKey:      "key",
		APISecret:   "secret",
		AccessToken: "token",
	}
}

func TestInitializeRequiresCredentials(t *testing.T) {
	c := New(config.Twitter{}, "market-key", nil)
	assert.Error(t, c.Initialize(context.Background()))
}

func TestInitializeDryRunSkipsNetwork(t *testing.T) {
	cfg := testConfig()
	cfg.DryRun = true
	c := New(cfg, "market-key", nil)
	c.SetBaseURL("http://127.0.0.1:1") // would fail if dialed

	assert.NoError(t, c.Initialize(context.Background()))
}

func TestSendRetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxRetries = 2
	c := New(cfg, "market-key", nil)
	c.SetBaseURL(srv.URL)

	require.NoError(t, c.Send(context.Background(), "gm", ""))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSendExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxRetries = 1
	c := New(cfg, "market-key", nil)
	c.SetBaseURL(srv.URL)

	assert.Error(t, c.Send(context.Background(), "gm", ""))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestContentRules(t *testing.T) {
	t.Run("hashtag limit", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxHashtags = 2
		cfg.DryRun = true
		c := New(cfg, "market-key", nil)

		assert.NoError(t, c.Send(context.Background(), "#one #two", ""))
		assert.Error(t, c.Send(context.Background(), "#one #two #three", ""))
	})

	t.Run("emoji limit", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxEmojis = 1
		cfg.DryRun = true
		c := New(cfg, "market-key", nil)

		assert.NoError(t, c.Send(context.Background(), "to the moon \U0001F680", ""))
		assert.Error(t, c.Send(context.Background(), "\U0001F680\U0001F680", ""))
	})

	t.Run("minimum interval", func(t *testing.T) {
		cfg := testConfig()
		cfg.MinInterval = time.Hour
		cfg.DryRun = true
		c := New(cfg, "market-key", nil)

		require.NoError(t, c.Send(context.Background(), "first", ""))
		assert.Error(t, c.Send(context.Background(), "second", ""))
	})

	t.Run("zero limits disable the rules", func(t *testing.T) {
		cfg := testConfig()
		cfg.DryRun = true
		c := New(cfg, "market-key", nil)

		assert.NoError(t, c.Send(context.Background(), "#a #b #c \U0001F680\U0001F680", ""))
	})
}

func TestSendIncludesReplyTarget(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(testConfig(), "market-key", nil)
	c.SetBaseURL(srv.URL)

	require.NoError(t, c.Send(context.Background(), "reply text", "tweet-42"))
	assert.Contains(t, gotBody, `"in_reply_to_tweet_id":"tweet-42"`)
}
