package workload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/soupbench/trawler/internal/driver"
	"github.com/soupbench/trawler/pkg/config"
	"github.com/soupbench/trawler/pkg/logging"
	"github.com/soupbench/trawler/pkg/telemetry"
)

// baseRequestRate is the aggregate request rate at reqscale 1.0, in
// requests per second.
const baseRequestRate = 44.0

// Histogram bounds in microseconds. Requests slower than a minute are
// clamped to the top bucket.
const (
	histMin = 1
	histMax = 60_000_000
	histSig = 3
)

// Runner drives the request mix against the database: a fixed pool of
// issuer goroutines draws requests off a shared pacing schedule and
// records per-kind latencies once the warmup window has passed.
type Runner struct {
	drv    *driver.Driver
	mix    *Mix
	cfg    config.WorkloadConfig
	logger *zap.Logger

	seq atomic.Int64

	mu    sync.Mutex
	hists map[driver.Kind]*hdrhistogram.Histogram

	issued   atomic.Int64
	dropped  atomic.Int64
	failures atomic.Int64

	latency    metric.Float64Histogram
	failureCtr metric.Int64Counter
}

// NewRunner creates a new workload runner
func NewRunner(drv *driver.Driver, mix *Mix, cfg config.WorkloadConfig) (*Runner, error) {
	meter := telemetry.Meter("workload")

	latency, err := meter.Float64Histogram("trawler_request_duration_ms",
		metric.WithDescription("End-to-end request latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create latency histogram: %w", err)
	}

	failures, err := meter.Int64Counter("trawler_request_failures_total",
		metric.WithDescription("Requests that aborted mid-sequence"))
	if err != nil {
		return nil, fmt.Errorf("failed to create failure counter: %w", err)
	}

	return &Runner{
		drv:        drv,
		mix:        mix,
		cfg:        cfg,
		logger:     logging.WithComponent("workload"),
		hists:      make(map[driver.Kind]*hdrhistogram.Histogram),
		latency:    latency,
		failureCtr: failures,
	}, nil
}

// Run executes the workload for warmup plus runtime and returns the
// measured report. Requests are paced at baseRequestRate * reqscale;
// an issuer that falls behind schedule issues immediately, so the
// measured latencies degrade rather than the offered load.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	interval := time.Duration(float64(time.Second) / (baseRequestRate * r.cfg.ReqScale))
	start := time.Now()
	warmupEnd := start.Add(r.cfg.Warmup)
	deadline := start.Add(r.cfg.Warmup + r.cfg.Runtime)

	r.logger.Info("Starting workload",
		zap.Int("issuers", r.cfg.Issuers),
		zap.Duration("warmup", r.cfg.Warmup),
		zap.Duration("runtime", r.cfg.Runtime),
		zap.Duration("interval", interval))

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Issuers; i++ {
		seed := int64(i)
		g.Go(func() error {
			return r.issue(ctx, rand.New(rand.NewSource(seed)), start, warmupEnd, deadline, interval)
		})
	}

	err := g.Wait()

	measured := time.Since(warmupEnd)
	if measured < 0 {
		measured = 0
	}

	// an interrupted run still reports what it measured
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	return r.report(measured), nil
}

func (r *Runner) issue(ctx context.Context, rng *rand.Rand, start, warmupEnd, deadline time.Time, interval time.Duration) error {
	for {
		n := r.seq.Add(1) - 1
		at := start.Add(time.Duration(n) * interval)
		if at.After(deadline) {
			return nil
		}

		if wait := time.Until(at); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}

		uid, req := r.mix.Next(rng)
		r.issued.Add(1)

		elapsed, err := r.drv.Execute(ctx, uid, req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.failures.Add(1)
			r.failureCtr.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", req.Kind.String())))
			r.logger.Warn("Request failed", zap.Stringer("kind", req.Kind), zap.Error(err))
			continue
		}

		if time.Now().Before(warmupEnd) {
			r.dropped.Add(1)
			continue
		}

		r.record(req.Kind, elapsed)
		r.latency.Record(ctx, float64(elapsed)/float64(time.Millisecond),
			metric.WithAttributes(attribute.String("kind", req.Kind.String())))
	}
}

func (r *Runner) record(kind driver.Kind, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.hists[kind]
	if !ok {
		h = hdrhistogram.New(histMin, histMax, histSig)
		r.hists[kind] = h
	}
	us := elapsed.Microseconds()
	if us > histMax {
		us = histMax
	}
	if err := h.RecordValue(us); err != nil {
		r.logger.Warn("Failed to record latency", zap.Error(err))
	}
}

func (r *Runner) report(measured time.Duration) *Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := &Report{
		Measured: measured,
		Issued:   r.issued.Load(),
		Warmup:   r.dropped.Load(),
		Failures: r.failures.Load(),
		Kinds:    make(map[driver.Kind]KindStats, len(r.hists)),
	}
	for kind, h := range r.hists {
		rep.Kinds[kind] = KindStats{
			Count: h.TotalCount(),
			P50:   time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
			P95:   time.Duration(h.ValueAtQuantile(95)) * time.Microsecond,
			P99:   time.Duration(h.ValueAtQuantile(99)) * time.Microsecond,
			Max:   time.Duration(h.Max()) * time.Microsecond,
		}
		rep.Recorded += h.TotalCount()
	}
	return rep
}

// WriteHistograms dumps the per-kind percentile distributions to path
// in hdrhistogram's textual format.
func (r *Runner) WriteHistograms(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create histogram file: %w", err)
	}
	defer f.Close()

	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]driver.Kind, 0, len(r.hists))
	for kind := range r.hists {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		if _, err := fmt.Fprintf(f, "# %s\n", kind); err != nil {
			return err
		}
		if _, err := r.hists[kind].PercentilesPrint(f, 1, 1000.0); err != nil {
			return err
		}
	}
	return nil
}

// KindStats summarizes the measured latencies of one request kind.
type KindStats struct {
	Count int64
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// Report is the outcome of a workload run.
type Report struct {
	Measured time.Duration
	Issued   int64
	Recorded int64
	Warmup   int64
	Failures int64
	Kinds    map[driver.Kind]KindStats
}

// Throughput returns recorded requests per second over the measurement
// window.
func (rep *Report) Throughput() float64 {
	if rep.Measured <= 0 {
		return 0
	}
	return float64(rep.Recorded) / rep.Measured.Seconds()
}

// Print writes a human-readable summary.
func (rep *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "issued %d requests, recorded %d over %s (%.1f req/s), %d failures\n",
		rep.Issued, rep.Recorded, rep.Measured.Round(time.Millisecond), rep.Throughput(), rep.Failures)

	kinds := make([]driver.Kind, 0, len(rep.Kinds))
	for kind := range rep.Kinds {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		s := rep.Kinds[kind]
		fmt.Fprintf(w, "%-12s count=%-8d p50=%-10s p95=%-10s p99=%-10s max=%s\n",
			kind, s.Count, s.P50, s.P95, s.P99, s.Max)
	}
}
