package social

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hivemindlabs/agent-relay/ai"
	"github.com/hivemindlabs/agent-relay/cache"
	"github.com/hivemindlabs/agent-relay/config"
	"github.com/hivemindlabs/agent-relay/market"
	"github.com/hivemindlabs/agent-relay/social/discord"
	"github.com/hivemindlabs/agent-relay/social/twitter"
)

// Microblog is the contract the facade needs from a microblog client.
type Microblog interface {
	Initialize(ctx context.Context) error
	Send(ctx context.Context, content, replyTo string) error
}

// Chat is the contract the facade needs from a chat client.
// Chat clients are self-initializing at construction.
type Chat interface {
	SendMessage(ctx context.Context, channelID, content string) error
}

// CommunityMetrics is an aggregate engagement snapshot.
type CommunityMetrics struct {
	Followers  int     `json:"followers"`
	Engagement float64 `json:"engagement"`
	Activity   string  `json:"activity"`
}

// sink is one configured notification target. target is the platform-specific
// destination: a reply id for the microblog, a channel id for chat.
type sink struct {
	name       string
	initialize func(ctx context.Context) error
	send       func(ctx context.Context, content, target string) error
}

// Service fronts the configured social platforms behind one API.
// Sinks are built once at construction and never reassigned.
type Service struct {
	sinks []sink

	cache     cache.Cache
	tokens    *market.TokenProvider
	wallet    *market.WalletProvider
	processor *market.DataProcessor
}

// New builds the facade from cfg. The market API key is mandatory; every
// other section only gates which platform clients come up.
func New(cfg config.Social, gen ai.Generator) (*Service, error) {
	if cfg.Market == nil || cfg.Market.APIKey == "" {
		return nil, fmt.Errorf("market data API key is required")
	}

	var store cache.Cache = cache.NoOp{}
	if cfg.Redis != nil {
		store = cache.NewRedis(cfg.Redis)
	}

	processor := market.NewDataProcessor(cfg.Market.APIKey, cfg.Market.TokenListURL, cfg.Market.WalletPublicKey)

	s := &Service{
		cache: store,
		// Providers start with placeholder identifiers; callers supply the
		// real ones per request.
		tokens:    market.NewTokenProvider("", store, processor),
		wallet:    market.NewWalletProvider(cfg.Market.WalletPublicKey, store),
		processor: processor,
	}

	if cfg.Twitter != nil {
		s.addMicroblog(twitter.New(*cfg.Twitter, cfg.Market.APIKey, processor))
	}

	if cfg.Discord != nil {
		chat, err := discord.New(*cfg.Discord, gen)
		if err != nil {
			return nil, fmt.Errorf("failed to build discord client: %w", err)
		}
		s.addChat(chat, cfg.Discord.GuildID)
	}

	return s, nil
}

// addMicroblog registers a microblog client as the "twitter" sink.
// Its broadcast failures are logged at the point of detection before they
// surface through the join.
func (s *Service) addMicroblog(client Microblog) {
	s.sinks = append(s.sinks, sink{
		name:       "twitter",
		initialize: client.Initialize,
		send: func(ctx context.Context, content, target string) error {
			if err := client.Send(ctx, content, target); err != nil {
				log.Printf("Failed to send to twitter: %v", err)
				return err
			}
			return nil
		},
	})
}

// addChat registers a chat client as the "discord" sink. The client already
// initialized itself at construction, so its initialize member is trivially
// satisfied. Broadcasts that carry no explicit target go to defaultChannel.
func (s *Service) addChat(client Chat, defaultChannel string) {
	s.sinks = append(s.sinks, sink{
		name: "discord",
		initialize: func(ctx context.Context) error {
			return nil
		},
		send: func(ctx context.Context, content, target string) error {
			if target == "" {
				target = defaultChannel
			}
			return client.SendMessage(ctx, target, content)
		},
	})
}

// Initialize runs platform-specific startup concurrently and returns the
// first failure. With no platforms configured it is a no-op success.
func (s *Service) Initialize(ctx context.Context) error {
	var g errgroup.Group
	for _, sk := range s.sinks {
		sk := sk
		g.Go(func() error {
			return sk.initialize(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("Failed to initialize social platforms: %v", err)
		return err
	}
	return nil
}

// Send broadcasts content to every configured platform. All sends are
// attempted to completion; the call fails if any of them failed.
func (s *Service) Send(ctx context.Context, content string) error {
	var g errgroup.Group
	for _, sk := range s.sinks {
		sk := sk
		g.Go(func() error {
			return sk.send(ctx, content, "")
		})
	}
	return g.Wait()
}

// SendMessage sends content to a single named platform, matched
// case-insensitively. messageID is the platform-specific target: a reply id
// for twitter, a destination channel id for discord. A platform that is not
// configured is a silent no-op.
func (s *Service) SendMessage(ctx context.Context, platform, messageID, content string) error {
	name := strings.ToLower(platform)
	if name != "twitter" && name != "discord" {
		return fmt.Errorf("unsupported platform: %q", platform)
	}

	for _, sk := range s.sinks {
		if sk.name != name {
			continue
		}
		if err := sk.send(ctx, content, messageID); err != nil {
			log.Printf("Failed to send message to %s: %v", name, err)
			return err
		}
		return nil
	}
	return nil
}

// CommunityMetrics returns an aggregate engagement snapshot.
// TODO: wire a real aggregation source; these values are placeholders until
// the analytics pipeline lands.
func (s *Service) CommunityMetrics() CommunityMetrics {
	return CommunityMetrics{
		Followers:  1000,
		Engagement: 0.75,
		Activity:   "High",
	}
}

// TokenPrice proxies a price lookup through the shared token provider.
func (s *Service) TokenPrice(ctx context.Context, address string) (float64, error) {
	return s.tokens.Price(ctx, address)
}

// Platforms lists the configured platform names in broadcast order.
func (s *Service) Platforms() []string {
	names := make([]string, 0, len(s.sinks))
	for _, sk := range s.sinks {
		names = append(names, sk.name)
	}
	return names
}
