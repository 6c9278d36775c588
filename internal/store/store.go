package store

import (
	"context"
	"encoding/json"
	"time"
)

// Kind identifies which calculator produced a saved record.
type Kind string

const (
	KindRice   Kind = "rice"
	KindMarket Kind = "market"
	KindRoi    Kind = "roi"
	KindABTest Kind = "abtest"
)

// Record is a persisted calculation with its JSON payload.
type Record struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Filter specifies criteria for listing records.
type Filter struct {
	Kind   Kind   `json:"kind,omitempty"`
	Name   string `json:"name,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for calculation history.
type Store interface {
	// Calculations
	SaveCalculation(ctx context.Context, kind Kind, name string, payload any) (*Record, error)
	UpdateCalculation(ctx context.Context, id string, payload any) error
	GetCalculation(ctx context.Context, id string) (*Record, error)
	ListCalculations(ctx context.Context, filter Filter) ([]Record, error)
	DeleteCalculation(ctx context.Context, id string) error
	// Prune removes all but the newest keep records of the given kind
	// and reports how many were deleted.
	Prune(ctx context.Context, kind Kind, keep int) (int, error)

	// Dashboard layout (single slot, raw versioned JSON)
	GetLayout(ctx context.Context) ([]byte, error)
	SaveLayout(ctx context.Context, raw []byte) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
