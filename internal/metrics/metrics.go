// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Credential metrics
	IncUserRegistered()
	IncUserLoggedIn()
	IncAuthCacheHit()
	IncAuthCacheMiss()

	// Article management metrics
	IncArticleCreated()
	IncArticleUpdated()
	IncArticleDeleted()

	// Public read path metrics
	IncArticleRead()
	ObserveReadDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
