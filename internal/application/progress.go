package application

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eugenenazirov/strip-cutter/internal/minimizer"
)

type rateLimiter interface {
	Allow() bool
}

type limiterAdapter struct {
	limiter *rate.Limiter
}

// newTokenBucketLimiter returns nil when ratePerSecond is not positive,
// which disables progress logging.
func newTokenBucketLimiter(ratePerSecond float64, burst int) rateLimiter {
	if ratePerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	return &limiterAdapter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (l *limiterAdapter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

// progressLogger turns minimizer checkpoints into throttled log lines.
type progressLogger struct {
	logger  *zap.Logger
	limiter rateLimiter
	clock   func() time.Time
	start   time.Time
}

func newProgressLogger(logger *zap.Logger, limiter rateLimiter) *progressLogger {
	return &progressLogger{
		logger:  logger,
		limiter: limiter,
		clock:   time.Now,
	}
}

func (p *progressLogger) reset() {
	p.start = p.clock()
}

func (p *progressLogger) observe(stats minimizer.Stats) {
	if p.limiter == nil || !p.limiter.Allow() {
		return
	}
	p.logger.Info("search progress",
		zap.Int64("subproblems", stats.Subproblems),
		zap.Int64("partitions", stats.Partitions),
		zap.Duration("elapsed", p.clock().Sub(p.start)),
	)
}
