// Package transport exposes the read-only HTTP API.
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/stablewatchers/transferwatch-backend/internal/model"
	"go.uber.org/zap"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

const (
	defaultLimit = 50
	maxLimit     = 1000
)

type (
	// Store is the query surface the API reads from.
	Store interface {
		RecentTransactions(ctx context.Context, limit uint64) ([]model.TransactionRecord, error)
		FlaggedTransactions(ctx context.Context, limit uint64) ([]model.TransactionRecord, error)
		TransactionsByAddress(ctx context.Context, address string, limit uint64) ([]model.TransactionRecord, error)
		TransactionByHash(ctx context.Context, txHash string) (*model.TransactionRecord, error)
		RecentAlerts(ctx context.Context, limit uint64) ([]model.AlertEvent, error)
		Stats(ctx context.Context) (model.StoreStats, error)
	}

	// MonitorStatus reports the polling loop's progress for health checks.
	MonitorStatus interface {
		State() string
		LastBlock() uint64
	}
)

// Handler serves the JSON API over the persisted transfer data.
type Handler struct {
	store   Store
	monitor MonitorStatus
	logger  *zap.Logger
}

// NewHandler returns a Handler reading from store. monitor may be nil when no
// polling loop runs in the same process.
func NewHandler(store Store, monitor MonitorStatus, logger *zap.Logger) *Handler {
	return &Handler{store: store, monitor: monitor, logger: logger}
}

// Register mounts all API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/health", h.health)
	mux.HandleFunc("GET /v1/stats", h.stats)
	mux.HandleFunc("GET /v1/transactions/recent", h.recentTransactions)
	mux.HandleFunc("GET /v1/transactions/flagged", h.flaggedTransactions)
	mux.HandleFunc("GET /v1/transactions/{hash}", h.transactionByHash)
	mux.HandleFunc("GET /v1/addresses/{address}/transactions", h.transactionsByAddress)
	mux.HandleFunc("GET /v1/alerts/recent", h.recentAlerts)
}

type transactionDTO struct {
	TxHash       string    `json:"tx_hash"`
	BlockNumber  uint64    `json:"block_number"`
	Timestamp    time.Time `json:"timestamp"`
	FromAddress  string    `json:"from_address"`
	ToAddress    string    `json:"to_address"`
	Amount       float64   `json:"amount"`
	GasUsed      uint64    `json:"gas_used"`
	GasPrice     uint64    `json:"gas_price"`
	Status       string    `json:"status"`
	IsFlagged    bool      `json:"is_flagged"`
	PatternScore float64   `json:"pattern_score"`
}

type alertDTO struct {
	Type     string    `json:"type"`
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
	TxHash   string    `json:"tx_hash"`
	SentAt   time.Time `json:"sent_at"`
}

type healthDTO struct {
	Status    string `json:"status"`
	State     string `json:"state,omitempty"`
	LastBlock uint64 `json:"last_block,omitempty"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	resp := healthDTO{Status: "ok"}
	if h.monitor != nil {
		resp.State = h.monitor.State()
		resp.LastBlock = h.monitor.LastBlock()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) recentTransactions(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r)
	if !ok {
		return
	}
	records, err := h.store.RecentTransactions(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTransactionDTOs(records))
}

func (h *Handler) flaggedTransactions(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r)
	if !ok {
		return
	}
	records, err := h.store.FlaggedTransactions(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTransactionDTOs(records))
}

func (h *Handler) transactionByHash(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	rec, err := h.store.TransactionByHash(r.Context(), hash)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if rec == nil {
		h.writeJSON(w, http.StatusNotFound, errorDTO{Error: "transaction not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, toTransactionDTO(*rec))
}

func (h *Handler) transactionsByAddress(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r)
	if !ok {
		return
	}
	address := r.PathValue("address")
	records, err := h.store.TransactionsByAddress(r.Context(), address, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTransactionDTOs(records))
}

func (h *Handler) recentAlerts(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limitParam(w, r)
	if !ok {
		return
	}
	events, err := h.store.RecentAlerts(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]alertDTO, 0, len(events))
	for _, ev := range events {
		out = append(out, alertDTO{
			Type:     string(ev.Type),
			Severity: string(ev.Severity),
			Message:  ev.Message,
			TxHash:   ev.TxHash,
			SentAt:   ev.SentAt,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// limitParam parses ?limit=, clamped to maxLimit. Responds with 400 and
// returns ok=false on malformed input.
func (h *Handler) limitParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, true
	}
	limit, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || limit == 0 {
		h.writeJSON(w, http.StatusBadRequest, errorDTO{Error: "limit must be a positive integer"})
		return 0, false
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err))
	h.writeJSON(w, http.StatusInternalServerError, errorDTO{Error: "internal error"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response failed", zap.Error(err))
	}
}

func toTransactionDTO(rec model.TransactionRecord) transactionDTO {
	return transactionDTO{
		TxHash:       rec.TxHash,
		BlockNumber:  rec.BlockNumber,
		Timestamp:    rec.Timestamp,
		FromAddress:  rec.FromAddress,
		ToAddress:    rec.ToAddress,
		Amount:       rec.Amount,
		GasUsed:      rec.GasUsed,
		GasPrice:     rec.GasPrice,
		Status:       string(rec.Status),
		IsFlagged:    rec.IsFlagged,
		PatternScore: rec.PatternScore,
	}
}

func toTransactionDTOs(records []model.TransactionRecord) []transactionDTO {
	out := make([]transactionDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, toTransactionDTO(rec))
	}
	return out
}
