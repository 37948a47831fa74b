package ethereum

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"github.com/stablewatchers/transferwatch-backend/pkg/safe"
)

// DecodeError marks a single malformed log. Callers skip the log and
// continue with the rest of the batch.
type DecodeError struct {
	TxHash string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode transfer log tx=%s: %s", e.TxHash, e.Reason)
}

// Decoder turns raw Transfer logs into typed transfers. Stateless.
type Decoder struct {
	decimals int
	divisor  *big.Float
}

// NewDecoder builds a decoder for a token with the given decimal count.
// USDC and most stablecoins use 6.
func NewDecoder(decimals int) *Decoder {
	if decimals < 0 {
		decimals = 0
	}
	div := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	return &Decoder{decimals: decimals, divisor: div}
}

// Decode parses one Transfer event log.
//
// Layout: topics[0] is the event signature, topics[1] and topics[2] are the
// zero-padded from/to addresses, data is the uint256 amount. Padding is
// discarded without validation; the topic0 filter upstream is trusted.
func (d *Decoder) Decode(raw Log) (model.Transfer, error) {
	if len(raw.Topics) < 3 {
		return model.Transfer{}, &DecodeError{
			TxHash: raw.TransactionHash,
			Reason: fmt.Sprintf("expected 3 topics, got %d", len(raw.Topics)),
		}
	}

	rawAmount, err := HexToBig(raw.Data)
	if err != nil {
		return model.Transfer{}, &DecodeError{TxHash: raw.TransactionHash, Reason: err.Error()}
	}
	if rawAmount.Sign() < 0 {
		return model.Transfer{}, &DecodeError{TxHash: raw.TransactionHash, Reason: "negative amount"}
	}

	blockNumber, err := HexToUint64(raw.BlockNumber)
	if err != nil {
		return model.Transfer{}, &DecodeError{TxHash: raw.TransactionHash, Reason: err.Error()}
	}
	rawIndex, err := HexToUint64(raw.LogIndex)
	if err != nil {
		return model.Transfer{}, &DecodeError{TxHash: raw.TransactionHash, Reason: err.Error()}
	}
	logIndex, err := safe.Uint32(rawIndex)
	if err != nil {
		return model.Transfer{}, &DecodeError{TxHash: raw.TransactionHash, Reason: err.Error()}
	}

	amount, _ := new(big.Float).Quo(new(big.Float).SetInt(rawAmount), d.divisor).Float64()

	return model.Transfer{
		TxHash:      raw.TransactionHash,
		BlockNumber: blockNumber,
		LogIndex:    logIndex,
		From:        topicToAddress(raw.Topics[1]),
		To:          topicToAddress(raw.Topics[2]),
		Amount:      amount,
		RawAmount:   rawAmount,
	}, nil
}

// topicToAddress takes the low 20 bytes of a 32-byte topic word.
func topicToAddress(topic string) string {
	hexPart := strings.TrimPrefix(topic, "0x")
	if len(hexPart) > 40 {
		hexPart = hexPart[len(hexPart)-40:]
	}
	return "0x" + strings.ToLower(hexPart)
}
