package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncUserLoggedIn is a no-op.
func (n *NoopRecorder) IncUserLoggedIn() {}

// IncAuthCacheHit is a no-op.
func (n *NoopRecorder) IncAuthCacheHit() {}

// IncAuthCacheMiss is a no-op.
func (n *NoopRecorder) IncAuthCacheMiss() {}

// IncArticleCreated is a no-op.
func (n *NoopRecorder) IncArticleCreated() {}

// IncArticleUpdated is a no-op.
func (n *NoopRecorder) IncArticleUpdated() {}

// IncArticleDeleted is a no-op.
func (n *NoopRecorder) IncArticleDeleted() {}

// IncArticleRead is a no-op.
func (n *NoopRecorder) IncArticleRead() {}

// ObserveReadDuration is a no-op.
func (n *NoopRecorder) ObserveReadDuration(duration time.Duration) {}
