package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered     uint64
	UsersLoggedIn       uint64
	AuthCacheHits       uint64
	AuthCacheMisses     uint64
	ArticlesCreated     uint64
	ArticlesUpdated     uint64
	ArticlesDeleted     uint64
	ArticlesRead        uint64
	ReadDurationCount   uint64
	ReadDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered     uint64
	usersLoggedIn       uint64
	authCacheHits       uint64
	authCacheMisses     uint64
	articlesCreated     uint64
	articlesUpdated     uint64
	articlesDeleted     uint64
	articlesRead        uint64
	readDurationCount   uint64
	readDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:     atomic.LoadUint64(&m.usersRegistered),
		UsersLoggedIn:       atomic.LoadUint64(&m.usersLoggedIn),
		AuthCacheHits:       atomic.LoadUint64(&m.authCacheHits),
		AuthCacheMisses:     atomic.LoadUint64(&m.authCacheMisses),
		ArticlesCreated:     atomic.LoadUint64(&m.articlesCreated),
		ArticlesUpdated:     atomic.LoadUint64(&m.articlesUpdated),
		ArticlesDeleted:     atomic.LoadUint64(&m.articlesDeleted),
		ArticlesRead:        atomic.LoadUint64(&m.articlesRead),
		ReadDurationCount:   atomic.LoadUint64(&m.readDurationCount),
		ReadDurationTotalNs: atomic.LoadInt64(&m.readDurationTotalNs),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncUserLoggedIn increments the login counter.
func (m *InMemoryRecorder) IncUserLoggedIn() {
	atomic.AddUint64(&m.usersLoggedIn, 1)
}

// IncAuthCacheHit increments the identity cache hit counter.
func (m *InMemoryRecorder) IncAuthCacheHit() {
	atomic.AddUint64(&m.authCacheHits, 1)
}

// IncAuthCacheMiss increments the identity cache miss counter.
func (m *InMemoryRecorder) IncAuthCacheMiss() {
	atomic.AddUint64(&m.authCacheMisses, 1)
}

// IncArticleCreated increments the article created counter.
func (m *InMemoryRecorder) IncArticleCreated() {
	atomic.AddUint64(&m.articlesCreated, 1)
}

// IncArticleUpdated increments the article updated counter.
func (m *InMemoryRecorder) IncArticleUpdated() {
	atomic.AddUint64(&m.articlesUpdated, 1)
}

// IncArticleDeleted increments the article deleted counter.
func (m *InMemoryRecorder) IncArticleDeleted() {
	atomic.AddUint64(&m.articlesDeleted, 1)
}

// IncArticleRead increments the public read counter.
func (m *InMemoryRecorder) IncArticleRead() {
	atomic.AddUint64(&m.articlesRead, 1)
}

// ObserveReadDuration records a public read duration.
func (m *InMemoryRecorder) ObserveReadDuration(duration time.Duration) {
	atomic.AddUint64(&m.readDurationCount, 1)
	atomic.AddInt64(&m.readDurationTotalNs, duration.Nanoseconds())
}
