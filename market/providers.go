package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hivemindlabs/agent-relay/cache"
)

// TokenProvider serves per-token data with a cache in front of the processor.
// The token address is a per-request parameter; the provider itself is built
// with an empty placeholder by the facade.
type TokenProvider struct {
	address   string
	cache     cache.Cache
	processor *DataProcessor
}

// NewTokenProvider creates a provider scoped to address. An empty address is
// valid: callers pass the address per request instead.
func NewTokenProvider(address string, c cache.Cache, p *DataProcessor) *TokenProvider {
	return &TokenProvider{address: address, cache: c, processor: p}
}

// Price returns the cached price for address, falling back to the processor.
func (t *TokenProvider) Price(ctx context.Context, address string) (float64, error) {
	if address == "" {
		address = t.address
	}
	if address == "" {
		return 0, fmt.Errorf("no token address provided")
	}

	key := "price:" + address
	if raw, err := t.cache.Get(ctx, key); err == nil {
		var price float64
		if json.Unmarshal([]byte(raw), &price) == nil {
			return price, nil
		}
	}

	price, err := t.processor.TokenPrice(ctx, address)
	if err != nil {
		return 0, err
	}

	if raw, err := json.Marshal(price); err == nil {
		// Best effort; a cache write failure never fails the lookup.
		_ = t.cache.Set(ctx, key, string(raw), 30*time.Second)
	}
	return price, nil
}

// WalletProvider exposes wallet-scoped lookups. Like TokenProvider it is
// constructed with a placeholder key that per-request parameters override.
type WalletProvider struct {
	publicKey string
	cache     cache.Cache
}

func NewWalletProvider(publicKey string, c cache.Cache) *WalletProvider {
	return &WalletProvider{publicKey: publicKey, cache: c}
}

// PublicKey returns the wallet identity this provider was built with.
func (w *WalletProvider) PublicKey() string {
	return w.publicKey
}
