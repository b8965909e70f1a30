package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const dexScreenerURL = "https://api.dexscreener.com/latest/dex/tokens"

// DataProcessor aggregates price and token data for the social layer.
// It is constructed once by the facade and handed to the microblog client.
type DataProcessor struct {
	apiKey          string
	tokenListURL    string
	walletPublicKey string

	priceURL string
	client   *http.Client
}

// NewDataProcessor wires the aggregation client. No network calls happen here;
// everything is lazy and per-request.
func NewDataProcessor(apiKey, tokenListURL, walletPublicKey string) *DataProcessor {
	return &DataProcessor{
		apiKey:          apiKey,
		tokenListURL:    tokenListURL,
		walletPublicKey: walletPublicKey,
		priceURL:        dexScreenerURL,
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

// TokenEntry is one row of the configured token list.
type TokenEntry struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}

// TokenList fetches the configured token list.
func (p *DataProcessor) TokenList(ctx context.Context) ([]TokenEntry, error) {
	if p.tokenListURL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.tokenListURL, nil)
	if err != nil {
		return nil, err
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-KEY", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token list returned status: %d", resp.StatusCode)
	}

	var tokens []TokenEntry
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// TokenPrice looks up the current USD price for a token address.
func (p *DataProcessor) TokenPrice(ctx context.Context, address string) (float64, error) {
	url := fmt.Sprintf("%s/%s", p.priceURL, address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price api returned status: %d", resp.StatusCode)
	}

	var result struct {
		Pairs []struct {
			PriceUsd string `json:"priceUsd"`
			ChainID  string `json:"chainId"`
		} `json:"pairs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	if len(result.Pairs) == 0 {
		return 0, fmt.Errorf("no pairs found for token %s", address)
	}

	price, err := strconv.ParseFloat(result.Pairs[0].PriceUsd, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price: %w", err)
	}
	return price, nil
}

// WalletPublicKey returns the wallet this processor was scoped to.
func (p *DataProcessor) WalletPublicKey() string {
	return p.walletPublicKey
}

// SetPriceURL overrides the price endpoint. Used by tests.
func (p *DataProcessor) SetPriceURL(url string) {
	p.priceURL = url
}
