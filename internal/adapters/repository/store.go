// Package repository holds the in-memory state the service reads from:
// resolved display names and the pool of fetched player records.
package repository

import (
	"context"
	"time"

	"github.com/okian/herostats/internal/domain/model"
)

// NameStore maps player ids to their resolved display names.
type NameStore interface {
	// Get returns ErrNotFound if no name has been resolved yet.
	Get(ctx context.Context, playerID string) (string, error)
	Put(ctx context.Context, playerID, name string) error
	Len() int
}

// PoolStore keeps the records podium ranks are computed against.
type PoolStore interface {
	// Merge upserts records and marks stat as refreshed.
	Merge(ctx context.Context, stat model.Statistic, records []model.StatRecord)

	// Upsert replaces the record of an already pooled player without marking
	// any statistic as refreshed. It reports whether the player was pooled.
	Upsert(ctx context.Context, rec model.StatRecord) bool

	// ValuesFor returns every pooled record's value for stat.
	ValuesFor(ctx context.Context, stat model.Statistic) []float64

	// Record returns ErrNotFound for ids outside the pool.
	Record(ctx context.Context, playerID string) (model.StatRecord, error)

	// UpdatedAt is the zero time if stat was never refreshed.
	UpdatedAt(stat model.Statistic) time.Time

	Size() int
}
