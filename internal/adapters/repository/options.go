package repository

import "time"

// PoolOption applies a configuration option to the MemoryPool.
type PoolOption func(*MemoryPool)

// WithClock replaces time.Now for refresh timestamps.
func WithClock(now func() time.Time) PoolOption {
	return func(p *MemoryPool) {
		if now != nil {
			p.now = now
		}
	}
}

// WithMaxRecords bounds the pool. Once full, records for new ids are dropped
// while known ids keep updating. n <= 0 means unbounded.
func WithMaxRecords(n int) PoolOption {
	return func(p *MemoryPool) {
		p.maxRecords = n
	}
}
