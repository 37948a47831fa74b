// Package clickhouse persists transfer records and alerts.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Metrics records query outcomes per operation.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Conn is the slice of the driver connection the repository uses.
	Conn interface {
		Query(ctx context.Context, query string, args ...any) (Rows, error)
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Close() error
	}

	// Rows is the result cursor surface consumed by the query methods.
	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Close() error
		Err() error
	}

	// Batch is the insert surface consumed by the write methods.
	Batch interface {
		Append(v ...any) error
		Send() error
	}
)

// driverConn adapts the concrete driver connection to Conn.
type driverConn struct {
	conn clickhouse.Conn
}

func (c driverConn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c driverConn) PrepareBatch(ctx context.Context, query string) (Batch, error) {
	batch, err := c.conn.PrepareBatch(ctx, query)
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (c driverConn) Close() error {
	return c.conn.Close()
}

// Repository wraps a ClickHouse connection with domain queries.
type Repository struct {
	conn    Conn
	metrics Metrics
}

// NewRepository opens a connection from a DSN.
func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{conn: driverConn{conn: conn}, metrics: metrics}, nil
}

// Close releases the underlying connection.
func (r *Repository) Close() error {
	return r.conn.Close()
}
