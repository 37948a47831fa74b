// Package basescan is a rate-limited client for the Basescan explorer API,
// used to backfill gas fields on observed transfers. Enrichment is best
// effort: a missing or failed lookup never blocks the pipeline.
package basescan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/ethereum"
	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"go.uber.org/ratelimit"
)

const defaultBaseURL = "https://api.basescan.org/api"

type (
	// Metrics records explorer API call outcomes.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Client talks to the Basescan proxy API.
type Client struct {
	hc      *http.Client
	baseURL string
	apiKey  string
	rl      ratelimit.Limiter
	metrics Metrics
}

// NewClient builds a Client capped at rps requests per second.
func NewClient(baseURL, apiKey string, rps int, metrics Metrics) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("basescan api key is required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		rl:      ratelimit.New(rps),
		metrics: metrics,
	}, nil
}

type proxyResponse struct {
	Result *struct {
		Gas      string `json:"gas"`
		GasPrice string `json:"gasPrice"`
	} `json:"result"`
}

// TransactionDetails fetches gas fields for a transaction hash.
func (c *Client) TransactionDetails(ctx context.Context, txHash string) (info model.GasInfo, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("transaction_details", err, started)
	}()

	c.rl.Take()

	q := url.Values{}
	q.Set("module", "proxy")
	q.Set("action", "eth_getTransactionByHash")
	q.Set("txhash", txHash)
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return model.GasInfo{}, fmt.Errorf("build basescan request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return model.GasInfo{}, fmt.Errorf("basescan request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.GasInfo{}, fmt.Errorf("basescan status=%d", resp.StatusCode)
	}

	var pr proxyResponse
	if err = json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return model.GasInfo{}, fmt.Errorf("decode basescan response: %w", err)
	}
	if pr.Result == nil {
		return model.GasInfo{}, fmt.Errorf("basescan: no result for tx %s", txHash)
	}

	gas, err := ethereum.HexToUint64(pr.Result.Gas)
	if err != nil {
		return model.GasInfo{}, fmt.Errorf("basescan gas: %w", err)
	}
	gasPrice, err := ethereum.HexToUint64(pr.Result.GasPrice)
	if err != nil {
		return model.GasInfo{}, fmt.Errorf("basescan gas price: %w", err)
	}

	return model.GasInfo{GasUsed: gas, GasPrice: gasPrice}, nil
}
