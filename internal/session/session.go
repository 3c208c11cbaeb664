// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session keeps the ordered list of conversion records produced
// since the last reset. A session survives between CLI invocations when it
// is backed by SQLite or Postgres and lasts for the process with the memory
// backend.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/pdiddy/utmconv/pkg/types"
)

// Store holds conversion records in append order.
type Store interface {
	// Append adds a record to the end of the session.
	Append(ctx context.Context, rec types.ConversionRecord) error

	// Records returns every record in the order it was appended.
	Records(ctx context.Context) ([]types.ConversionRecord, error)

	// Clear removes all records.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Open returns the store selected by cfg.Backend. An empty backend selects
// SQLite.
func Open(ctx context.Context, cfg types.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case types.SessionMemory:
		return NewMemory(), nil
	case types.SessionSQLite, "":
		return NewSQLite(cfg.Dir)
	case types.SessionPostgres:
		return NewPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported session backend %q: use sqlite, memory, or postgres", cfg.Backend)
	}
}

// Memory is a Store backed by a slice. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	records []types.ConversionRecord
}

// NewMemory creates an empty in-memory session.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(_ context.Context, rec types.ConversionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *Memory) Records(_ context.Context) ([]types.ConversionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.ConversionRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

func (m *Memory) Close() error { return nil }
