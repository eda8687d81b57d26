package perf

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Timer logs the duration of a single operation, and a warning when it
// exceeds the threshold
type Timer struct {
	name     string
	logger   *slog.Logger
	start    time.Time
	threshMs int64
}

// Stats summarizes the durations seen by a Recorder
type Stats struct {
	Name          string
	Count         int64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	SlowOps       int64
}

// Recorder aggregates durations of a repeated operation, such as parsing
// every line of a batch. Safe for concurrent use.
type Recorder struct {
	name      string
	logger    *slog.Logger
	count     int64
	totalDur  int64
	minDur    int64
	maxDur    int64
	slowOps   int64
	threshold time.Duration
}

const unsetMin = 1<<63 - 1

func NewTimer(name string, logger *slog.Logger, threshMs int64) *Timer {
	return &Timer{
		name:     name,
		logger:   logger,
		start:    time.Now(),
		threshMs: threshMs,
	}
}

// Stop logs and returns the time elapsed since the timer was created
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if t.logger != nil {
		t.logger.Debug(t.name, "duration_ms", elapsed.Milliseconds())
		if elapsed.Milliseconds() > t.threshMs {
			t.logger.Warn(t.name+"_slow", "duration_ms", elapsed.Milliseconds(), "threshold_ms", t.threshMs)
		}
	}
	return elapsed
}

func NewRecorder(name string, logger *slog.Logger, threshold time.Duration) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		name:      name,
		logger:    logger,
		threshold: threshold,
		minDur:    unsetMin,
	}
}

func (r *Recorder) Record(elapsed time.Duration) {
	elapsedNs := elapsed.Nanoseconds()
	atomic.AddInt64(&r.count, 1)
	atomic.AddInt64(&r.totalDur, elapsedNs)

	for {
		minDur := atomic.LoadInt64(&r.minDur)
		if elapsedNs >= minDur {
			break
		}
		if atomic.CompareAndSwapInt64(&r.minDur, minDur, elapsedNs) {
			break
		}
	}

	for {
		maxDur := atomic.LoadInt64(&r.maxDur)
		if elapsedNs <= maxDur {
			break
		}
		if atomic.CompareAndSwapInt64(&r.maxDur, maxDur, elapsedNs) {
			break
		}
	}

	if r.threshold > 0 && elapsed >= r.threshold {
		atomic.AddInt64(&r.slowOps, 1)
	}
}

// Time runs fn and records how long it took
func (r *Recorder) Time(fn func()) {
	start := time.Now()
	fn()
	r.Record(time.Since(start))
}

func (r *Recorder) Stats() Stats {
	totalDur := atomic.LoadInt64(&r.totalDur)
	minDur := atomic.LoadInt64(&r.minDur)
	maxDur := atomic.LoadInt64(&r.maxDur)

	if minDur == unsetMin {
		minDur = 0
	}

	return Stats{
		Name:          r.name,
		Count:         atomic.LoadInt64(&r.count),
		TotalDuration: time.Duration(totalDur),
		MinDuration:   time.Duration(minDur),
		MaxDuration:   time.Duration(maxDur),
		SlowOps:       atomic.LoadInt64(&r.slowOps),
	}
}

func (s *Stats) AvgDuration() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}

// LogStats writes the aggregated stats at level. Nothing is logged before
// the first Record.
func (r *Recorder) LogStats(level slog.Level) {
	stats := r.Stats()
	if stats.Count == 0 {
		return
	}
	r.logger.Log(context.Background(), level, r.name+"_stats",
		"count", stats.Count,
		"total_us", stats.TotalDuration.Microseconds(),
		"avg_us", stats.AvgDuration().Microseconds(),
		"min_us", stats.MinDuration.Microseconds(),
		"max_us", stats.MaxDuration.Microseconds(),
		"slow_ops", stats.SlowOps,
	)
}

// Measure starts a timer and returns the func that stops it, for use with
// defer:
//
//	defer perf.Measure("config.load", logger, 50)()
func Measure(name string, logger *slog.Logger, threshMs int64) func() {
	t := NewTimer(name, logger, threshMs)
	return func() { t.Stop() }
}
