package export

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"golang.org/x/perf/benchfmt"
	"lukechampine.com/uint128"

	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/telemetry/metric"
)

func sampleData() *domain.SamplingData {
	return &domain.SamplingData{
		Samples: []uint64{1, 2, 3},
		Times:   []uint128.Uint128{uint128.From64(10), uint128.From64(10), uint128.From64(12)},
	}
}

func TestBenchmarkName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"sort", "Sort"},
		{"Sort", "Sort"},
		{"quick sort", "Quick_sort"},
		{"élan", "Élan"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := BenchmarkName(tt.label); got != tt.want {
			t.Errorf("BenchmarkName(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

// nsPerOp returns the per-op value in nanoseconds whatever unit the reader
// normalized it to.
func nsPerOp(v benchfmt.Value) float64 {
	if v.Unit == "sec/op" {
		return v.Value * 1e9
	}
	return v.Value
}

func TestWriteBenchfmt(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBenchfmt(&buf, "sort", sampleData()); err != nil {
		t.Fatalf("WriteBenchfmt() error = %v", err)
	}

	r := benchfmt.NewReader(&buf, "export")
	var iters []int
	var values []float64
	for r.Scan() {
		res, ok := r.Result().(*benchfmt.Result)
		if !ok {
			continue
		}
		if string(res.Name) != "Sort" {
			t.Errorf("Name = %q, want Sort", res.Name)
		}
		iters = append(iters, res.Iters)
		values = append(values, nsPerOp(res.Values[0]))
	}
	if err := r.Err(); err != nil {
		t.Fatalf("reader error = %v", err)
	}

	wantIters := []int{1, 2, 3}
	wantValues := []float64{10, 5, 4}
	if len(iters) != len(wantIters) {
		t.Fatalf("results = %d, want %d\n%s", len(iters), len(wantIters), buf.String())
	}
	for i := range wantIters {
		if iters[i] != wantIters[i] {
			t.Errorf("Iters[%d] = %d, want %d", i, iters[i], wantIters[i])
		}
		if math.Abs(values[i]-wantValues[i]) > 1e-9 {
			t.Errorf("value[%d] = %v, want %v", i, values[i], wantValues[i])
		}
	}
}

func TestWriteBenchfmt_Misaligned(t *testing.T) {
	d := &domain.SamplingData{Samples: []uint64{1}}
	if err := WriteBenchfmt(&bytes.Buffer{}, "x", d); err == nil {
		t.Fatal("WriteBenchfmt() expected error for misaligned data")
	}
}

func TestWriteTimingBenchfmt(t *testing.T) {
	var buf bytes.Buffer
	td := domain.TimingData{Elapsed: uint128.From64(60), Iterations: uint128.From64(3)}
	if err := WriteTimingBenchfmt(&buf, "loop", td); err != nil {
		t.Fatalf("WriteTimingBenchfmt() error = %v", err)
	}
	if !strings.Contains(buf.String(), "BenchmarkLoop") {
		t.Fatalf("output = %q, want BenchmarkLoop line", buf.String())
	}
}

func TestWriteJSON_Report(t *testing.T) {
	d := sampleData()
	s := analysis.Summarize(d)
	cmp := &analysis.Comparison{MeanChange: 2, T: math.NaN(), P: math.NaN(), WelchP: math.NaN()}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewReport("sort", d, s, cmp)); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["label"] != "sort" {
		t.Errorf("label = %v, want sort", got["label"])
	}
	if got["iterations"] != "6" || got["elapsed_ns"] != "32" {
		t.Errorf("iterations = %v, elapsed_ns = %v", got["iterations"], got["elapsed_ns"])
	}
	if got["median_ns"] != 5.0 {
		t.Errorf("median_ns = %v, want 5", got["median_ns"])
	}
	change := got["change"].(map[string]any)
	if change["p"] != nil {
		t.Errorf("p = %v, want null", change["p"])
	}
	if change["verdict"] != "same" {
		t.Errorf("verdict = %v, want same", change["verdict"])
	}
}

func TestWriteJSON_EmptyRun(t *testing.T) {
	d := &domain.SamplingData{}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewReport("empty", d, analysis.Summarize(d), nil)); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"mean_ns": null`) {
		t.Errorf("output = %s, want null mean", buf.String())
	}
}

func TestNewTimingReport(t *testing.T) {
	td := domain.TimingData{
		Min:        uint128.From64(10),
		Max:        uint128.From64(30),
		Elapsed:    uint128.From64(60),
		Iterations: uint128.From64(3),
	}
	r := NewTimingReport("loop", td)
	if r.Timing == nil || r.Timing.Iterations != "3" || *r.Timing.MeanNs != 20 {
		t.Fatalf("NewTimingReport() = %+v", r.Timing)
	}
}

func TestWritePrometheus(t *testing.T) {
	reg := metric.NewRegistry()
	reg.ObserveRun("sort", analysis.Summarize(sampleData()), nil)

	var buf bytes.Buffer
	if err := WritePrometheus(&buf, reg.Gatherer()); err != nil {
		t.Fatalf("WritePrometheus() error = %v", err)
	}
	if !strings.Contains(buf.String(), `microbench_median_ns{label="sort"} 5`) {
		t.Errorf("output missing median gauge:\n%s", buf.String())
	}
}
