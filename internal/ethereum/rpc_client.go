package ethereum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type (
	// RPCMetrics records metrics for node RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// RPCClient is a minimal JSON-RPC 2.0 client for an EVM node, instrumented
// with metrics per operation.
type RPCClient struct {
	url     string
	hc      *http.Client
	metrics RPCMetrics
}

// NewRPCClient constructs an instrumented RPC client for the given endpoint.
func NewRPCClient(url string, metrics RPCMetrics) *RPCClient {
	return &RPCClient{
		url: strings.TrimRight(url, "/"),
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
		metrics: metrics,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *RPCClient) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: status=%d", method, resp.StatusCode)
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if rr.Error != nil {
		return fmt.Errorf("%s: rpc error code=%d message=%q", method, rr.Error.Code, rr.Error.Message)
	}
	if err := json.Unmarshal(rr.Result, out); err != nil {
		return fmt.Errorf("unmarshal %s result: %w", method, err)
	}
	return nil
}

// BlockNumber returns the current chain head height.
func (c *RPCClient) BlockNumber(ctx context.Context) (height uint64, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("block_number", err, started)
	}()

	var raw string
	if err = c.call(ctx, "eth_blockNumber", []any{}, &raw); err != nil {
		return 0, err
	}
	return HexToUint64(raw)
}

// GetLogs queries event logs for a contract and topic0 over an inclusive
// block range.
func (c *RPCClient) GetLogs(ctx context.Context, contract, topic0 string, fromBlock, toBlock uint64) (logs []Log, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_logs", err, started)
	}()

	filter := map[string]any{
		"address":   contract,
		"fromBlock": Uint64ToHex(fromBlock),
		"toBlock":   Uint64ToHex(toBlock),
		"topics":    []string{topic0},
	}
	if err = c.call(ctx, "eth_getLogs", []any{filter}, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// TransactionByHash returns the raw transaction for gas enrichment.
func (c *RPCClient) TransactionByHash(ctx context.Context, txHash string) (tx RPCTransaction, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("transaction_by_hash", err, started)
	}()

	if err = c.call(ctx, "eth_getTransactionByHash", []any{txHash}, &tx); err != nil {
		return RPCTransaction{}, err
	}
	return tx, nil
}
