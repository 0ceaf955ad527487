package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/herostats/internal/domain/model"
	"github.com/okian/herostats/pkg/metrics"
)

// Snapshot is an immutable view of the pool's values per statistic.
type Snapshot struct {
	Values map[model.Statistic][]float64
}

// MemoryPool is a PoolStore that publishes a fresh Snapshot on every merge,
// so readers never take the write lock.
type MemoryPool struct {
	mu         sync.RWMutex
	byID       map[string]model.StatRecord
	updated    map[model.Statistic]time.Time
	maxRecords int
	now        func() time.Time

	snapshot atomic.Pointer[Snapshot]
}

// NewMemoryPool returns an empty pool.
func NewMemoryPool(opts ...PoolOption) *MemoryPool {
	p := &MemoryPool{
		byID:    make(map[string]model.StatRecord),
		updated: make(map[model.Statistic]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.snapshot.Store(&Snapshot{Values: map[model.Statistic][]float64{}})
	return p
}

func (p *MemoryPool) Merge(_ context.Context, stat model.Statistic, records []model.StatRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range records {
		id := records[i].PlayerID
		if id == "" {
			continue
		}
		if _, known := p.byID[id]; !known && p.maxRecords > 0 && len(p.byID) >= p.maxRecords {
			continue
		}
		p.byID[id] = records[i]
	}
	p.updated[stat] = p.now()
	p.publishSnapshotInternal()
	metrics.UpdatePoolSize(len(p.byID))
}

func (p *MemoryPool) Upsert(_ context.Context, rec model.StatRecord) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, known := p.byID[rec.PlayerID]; !known {
		return false
	}
	p.byID[rec.PlayerID] = rec
	p.publishSnapshotInternal()
	return true
}

// publishSnapshotInternal rebuilds and publishes a new snapshot (assumes lock is held).
func (p *MemoryPool) publishSnapshotInternal() {
	values := make(map[model.Statistic][]float64, len(model.Statistics()))
	for _, stat := range model.Statistics() {
		vs := make([]float64, 0, len(p.byID))
		for _, rec := range p.byID {
			vs = append(vs, rec.Value(stat))
		}
		values[stat] = vs
	}
	p.snapshot.Store(&Snapshot{Values: values})
}

// ValuesFor returns a copy of the pooled values for stat.
func (p *MemoryPool) ValuesFor(_ context.Context, stat model.Statistic) []float64 {
	return append([]float64(nil), p.snapshot.Load().Values[stat]...)
}

func (p *MemoryPool) Record(_ context.Context, playerID string) (model.StatRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, ok := p.byID[playerID]
	if !ok {
		return model.StatRecord{}, fmt.Errorf("pool record %s: %w", playerID, ErrNotFound)
	}
	return rec, nil
}

func (p *MemoryPool) UpdatedAt(stat model.Statistic) time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updated[stat]
}

func (p *MemoryPool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byID)
}

// Snapshot returns the current published snapshot. Callers must not mutate it.
func (p *MemoryPool) Snapshot() *Snapshot {
	return p.snapshot.Load()
}
