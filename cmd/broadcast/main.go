package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hivemindlabs/agent-relay/ai"
	"github.com/hivemindlabs/agent-relay/config"
	"github.com/hivemindlabs/agent-relay/social"
)

func main() {
	platform := flag.String("platform", "", "send to one platform (twitter or discord) instead of broadcasting")
	target := flag.String("target", "", "reply id (twitter) or channel id (discord)")
	flag.Parse()

	content := strings.Join(flag.Args(), " ")
	if content == "" {
		log.Fatal("usage: broadcast [-platform name] [-target id] <message>")
	}

	cfg := configFromEnv()

	svc, err := social.New(cfg, ai.NewClient(config.OpenAIKey()))
	if err != nil {
		log.Fatalf("Failed to build social service: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := svc.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize platforms: %v", err)
	}
	log.Printf("Configured platforms: %s", strings.Join(svc.Platforms(), ", "))

	if *platform != "" {
		err = svc.SendMessage(ctx, *platform, *target, content)
	} else {
		err = svc.Send(ctx, content)
	}
	if err != nil {
		log.Fatalf("Send failed: %v", err)
	}
	log.Println("Message sent")
}

func configFromEnv() config.Social {
	cfg := config.Social{
		Market: &config.Market{
			APIKey:          config.MarketAPIKey(),
			WalletPublicKey: config.WalletPublicKey(),
		},
	}

	if token := os.Getenv("TWITTER_ACCESS_TOKEN"); token != "" {
		cfg.Twitter = &config.Twitter{
			APIKey:            os.Getenv("TWITTER_API_KEY"),
			APISecret:         os.Getenv("TWITTER_API_SECRET"),
			AccessToken:       token,
			AccessTokenSecret: os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),
			BearerToken:       os.Getenv("TWITTER_BEARER_TOKEN"),
			DryRun:            os.Getenv("TWITTER_DRY_RUN") == "true",
		}
	}

	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Discord = &config.Discord{
			Token:   token,
			GuildID: os.Getenv("DISCORD_GUILD_ID"),
		}
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis = &config.Redis{
			Host:      host,
			Port:      config.RedisPort(),
			Password:  config.RedisPassword(),
			KeyPrefix: "agent-relay",
		}
	}

	return cfg
}
