// Package ethereum talks JSON-RPC to an EVM node and decodes ERC-20
// Transfer event logs into domain transfers.
package ethereum

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// TransferTopic is keccak256("Transfer(address,address,uint256)"), the
// topic0 of every ERC-20 Transfer event.
const TransferTopic = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// Log is one raw event log as returned by eth_getLogs. Quantity fields keep
// the node's hex encoding until parsed.
type Log struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     string   `json:"blockNumber"`
	TransactionHash string   `json:"transactionHash"`
	LogIndex        string   `json:"logIndex"`
	Removed         bool     `json:"removed"`
}

// RPCTransaction is the subset of eth_getTransactionByHash we consume.
type RPCTransaction struct {
	Hash     string `json:"hash"`
	Gas      string `json:"gas"`
	GasPrice string `json:"gasPrice"`
}

// HexToUint64 parses a 0x-prefixed quantity.
func HexToUint64(s string) (uint64, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	if trimmed == "" {
		return 0, fmt.Errorf("empty hex quantity %q", s)
	}
	v, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hex quantity %q: %w", s, err)
	}
	return v, nil
}

// HexToBig parses a 0x-prefixed big integer such as a 32-byte amount word.
func HexToBig(s string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("empty hex data %q", s)
	}
	v, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("malformed hex data %q", s)
	}
	return v, nil
}

// Uint64ToHex renders a quantity the way JSON-RPC expects it.
func Uint64ToHex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}
