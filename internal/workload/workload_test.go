package workload

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/soupbench/trawler/internal/driver"
	"github.com/soupbench/trawler/pkg/config"
)

func testWorkloadConfig() config.WorkloadConfig {
	return config.WorkloadConfig{
		Issuers:     2,
		Warmup:      time.Second,
		Runtime:     10 * time.Second,
		ReqScale:    1.0,
		MemScale:    1.0,
		AuthedShare: 0.5,
	}
}

func TestRunnerRecord(t *testing.T) {
	r, err := NewRunner(nil, NewMix(1.0, 0.5), testWorkloadConfig())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	r.record(driver.KindFrontpage, 5*time.Millisecond)
	r.record(driver.KindFrontpage, 15*time.Millisecond)
	r.record(driver.KindStory, 2*time.Millisecond)

	rep := r.report(10 * time.Second)
	if rep.Recorded != 3 {
		t.Errorf("Recorded = %d, want 3", rep.Recorded)
	}
	if got := rep.Kinds[driver.KindFrontpage].Count; got != 2 {
		t.Errorf("frontpage count = %d, want 2", got)
	}
	if got := rep.Kinds[driver.KindStory].Count; got != 1 {
		t.Errorf("story count = %d, want 1", got)
	}

	fp := rep.Kinds[driver.KindFrontpage]
	if fp.Max < 15*time.Millisecond || fp.Max > 16*time.Millisecond {
		t.Errorf("frontpage max = %s, want about 15ms", fp.Max)
	}
}

func TestRunnerRecordClampsOutliers(t *testing.T) {
	r, err := NewRunner(nil, NewMix(1.0, 0.5), testWorkloadConfig())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	r.record(driver.KindStory, 5*time.Minute)
	rep := r.report(time.Second)
	if rep.Kinds[driver.KindStory].Count != 1 {
		t.Fatal("outlier was not recorded")
	}
}

func TestReportThroughput(t *testing.T) {
	rep := &Report{Recorded: 300, Measured: 30 * time.Second}
	if got := rep.Throughput(); got != 10.0 {
		t.Errorf("Throughput() = %f, want 10", got)
	}

	empty := &Report{}
	if got := empty.Throughput(); got != 0 {
		t.Errorf("Throughput() on empty report = %f, want 0", got)
	}
}

func TestWriteHistograms(t *testing.T) {
	r, err := NewRunner(nil, NewMix(1.0, 0.5), testWorkloadConfig())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	r.record(driver.KindFrontpage, 5*time.Millisecond)
	r.record(driver.KindStory, 2*time.Millisecond)

	path := filepath.Join(t.TempDir(), "hist.txt")
	if err := r.WriteHistograms(path); err != nil {
		t.Fatalf("WriteHistograms() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read histogram file: %v", err)
	}
	out := string(data)
	for _, kind := range []string{"frontpage", "story"} {
		if !strings.Contains(out, "# "+kind) {
			t.Errorf("histogram file missing %s section:\n%s", kind, out)
		}
	}
	if !strings.Contains(out, "Percentile") {
		t.Errorf("histogram file missing percentile table:\n%s", out)
	}
}

func TestRunReportsOnCancellation(t *testing.T) {
	r, err := NewRunner(nil, NewMix(1.0, 0.5), testWorkloadConfig())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run() on cancelled context error = %v", err)
	}
	if rep == nil {
		t.Fatal("Run() on cancelled context returned no report")
	}
	if rep.Recorded != 0 {
		t.Errorf("Recorded = %d, want 0", rep.Recorded)
	}
	if rep.Measured < 0 {
		t.Errorf("Measured = %s, want non-negative", rep.Measured)
	}
}

func TestReportPrint(t *testing.T) {
	rep := &Report{
		Measured: 30 * time.Second,
		Issued:   400,
		Recorded: 300,
		Failures: 2,
		Kinds: map[driver.Kind]KindStats{
			driver.KindFrontpage: {Count: 300, P50: 3 * time.Millisecond},
		},
	}

	var buf bytes.Buffer
	rep.Print(&buf)

	out := buf.String()
	if !strings.Contains(out, "frontpage") {
		t.Errorf("report output missing kind line:\n%s", out)
	}
	if !strings.Contains(out, "2 failures") {
		t.Errorf("report output missing failure count:\n%s", out)
	}
}
