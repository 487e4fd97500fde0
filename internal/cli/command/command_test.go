package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/urfave/cli/v2"
	"lukechampine.com/uint128"

	"github.com/yndnr/microbench/internal/cli/output"
	"github.com/yndnr/microbench/internal/config"
	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/export"
	"github.com/yndnr/microbench/internal/infra/targetdir"
	"github.com/yndnr/microbench/internal/storage"
	"github.com/yndnr/microbench/internal/telemetry/logger"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := App()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"microbench"}, args...))
	return out.String(), err
}

// samplingData builds a run whose sample i has i+1 iterations averaging
// avgs[i] ns.
func samplingData(avgs ...float64) *domain.SamplingData {
	d := &domain.SamplingData{}
	for i, avg := range avgs {
		n := uint64(i + 1)
		d.Samples = append(d.Samples, n)
		d.Times = append(d.Times, uint128.From64(uint64(avg*float64(n))))
	}
	return d
}

func testStore(t *testing.T, dir string) *storage.Store {
	t.Helper()
	backend, err := storage.NewFileBackend(filepath.Join(dir, targetdir.AppDir))
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	return storage.NewStore(backend, logger.Nop())
}

func seed(t *testing.T, dir, label string, runs ...*domain.SamplingData) {
	t.Helper()
	store := testStore(t, dir)
	for _, d := range runs {
		if err := store.WriteSampling(context.Background(), label, d); err != nil {
			t.Fatalf("WriteSampling() error = %v", err)
		}
	}
}

func seedTiming(t *testing.T, dir, label string, runs ...domain.TimingData) {
	t.Helper()
	store := testStore(t, dir)
	for _, td := range runs {
		if err := store.WriteTiming(context.Background(), label, td); err != nil {
			t.Fatalf("WriteTiming() error = %v", err)
		}
	}
}

var (
	fast = samplingData(100, 101, 99, 101, 99)
	slow = samplingData(1000, 1010, 990, 1010, 990)
)

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "microbench" {
		t.Errorf("Name = %q, want %q", app.Name, "microbench")
	}

	commands := make(map[string]bool)
	for _, cmd := range app.Commands {
		commands[cmd.Name] = true
	}
	for _, name := range []string{"list", "show", "compare", "export", "clean", "watch", "demo", "config", "version"} {
		if !commands[name] {
			t.Errorf("missing command: %s", name)
		}
	}

	flags := make(map[string]bool)
	for _, f := range app.Flags {
		flags[f.Names()[0]] = true
	}
	for _, name := range []string{"config", "dir", "backend", "output", "wide", "log-level"} {
		if !flags[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

func TestGlobalFlags_Overrides(t *testing.T) {
	tests := []struct {
		name  string
		flags GlobalFlags
		want  map[string]any
	}{
		{"none", GlobalFlags{}, map[string]any{}},
		{"dir", GlobalFlags{Dir: "/tmp/x"}, map[string]any{"storage.dir": "/tmp/x"}},
		{"all", GlobalFlags{Dir: "d", Backend: "badger", LogLevel: "debug"},
			map[string]any{"storage.dir": "d", "storage.backend": "badger", "log.level": "debug"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.flags.overrides()
			if len(got) != len(tt.want) {
				t.Fatalf("overrides() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("overrides()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestApp_InvalidGlobalFlags(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "--dir", dir, "--output", "xml", "list"); err == nil {
		t.Error("expected error for unknown output format")
	}
	if _, err := run(t, "--dir", dir, "--backend", "sqlite", "list"); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "--dir", dir, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "no results in") {
		t.Errorf("list output = %q, want empty notice", out)
	}

	seed(t, dir, "sort", fast, slow)
	seed(t, dir, "hash", fast)
	seedTiming(t, dir, "timer", domain.TimingData{
		Min: uint128.From64(10), Max: uint128.From64(30), Elapsed: uint128.From64(60), Iterations: uint128.From64(3),
	})

	out, err = run(t, "--dir", dir, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"LABEL", "SAMPLES", "hash", "sort", "timer", "20.00ns"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ITERATIONS") {
		t.Errorf("list output shows wide columns without --wide:\n%s", out)
	}

	out, err = run(t, "--dir", dir, "--wide", "list")
	if err != nil {
		t.Fatalf("list --wide error = %v", err)
	}
	for _, want := range []string{"MIN", "MAX", "ITERATIONS", "99.00ns", "1.01µs"} {
		if !strings.Contains(out, want) {
			t.Errorf("wide list output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "--dir", dir, "-o", "json", "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	var entries []labelEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, out)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	want := []labelEntry{
		{Label: "hash", Samples: 5, Mean: "100.00ns", Min: "99.00ns", Max: "101.00ns", Iterations: "15"},
		{Label: "sort", Samples: 5, Mean: "1.00µs", Min: "990.00ns", Max: "1.01µs", Iterations: "15", Previous: true},
		{Label: "timer", Samples: 1, Mean: "20.00ns", Min: "10.00ns", Max: "30.00ns", Iterations: "3", Timer: true},
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestShow(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "sort", fast)

	out, err := run(t, "--dir", dir, "show", "sort")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	for _, want := range []string{"sort [", "with 5.0 samples]", "elapsed\t[min mean max]:"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "--dir", dir, "-o", "json", "show", "sort")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	var reports []export.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(reports) != 1 || reports[0].Samples != 5 || reports[0].Iterations != "15" {
		t.Errorf("reports = %+v", reports)
	}

	out, err = run(t, "--dir", dir, "-o", "yaml", "show", "sort")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(out, "label: sort") {
		t.Errorf("yaml output missing label:\n%s", out)
	}
}

func TestShow_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing label", []string{"show", "nope"}, domain.ErrNoResult},
		{"invalid label", []string{"show", "a/b"}, domain.ErrInvalidLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"--dir", dir}, tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := run(t, "--dir", dir, "show"); err == nil {
		t.Error("expected error without LABEL")
	}
}

func TestShow_CorruptSlots(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "sort", fast, slow)
	slot := func(name string) string { return filepath.Join(dir, targetdir.AppDir, "sort", name) }

	if err := os.WriteFile(slot("old-sample"), []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	out, err := run(t, "--dir", dir, "show", "sort")
	if err != nil {
		t.Fatalf("show with a corrupt old slot error = %v", err)
	}
	if !strings.Contains(out, "sort [") {
		t.Errorf("show output missing header:\n%s", out)
	}
	out, err = run(t, "--dir", dir, "export", "sort")
	if err != nil {
		t.Fatalf("export with a corrupt old slot error = %v", err)
	}
	if got := strings.Count(out, "BenchmarkSort"); got != 5 {
		t.Errorf("export wrote %d lines, want 5:\n%s", got, out)
	}
	if _, err := run(t, "--dir", dir, "compare", "sort"); !errors.Is(err, domain.ErrMalformedData) {
		t.Errorf("compare error = %v, want ErrMalformedData", err)
	}

	if err := os.WriteFile(slot("current-sample"), []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := run(t, "--dir", dir, "show", "sort"); !errors.Is(err, domain.ErrMalformedData) {
		t.Errorf("show with a corrupt current slot error = %v, want ErrMalformedData", err)
	}
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "sort", fast, slow)

	out, err := run(t, "--dir", dir, "compare", "--resamples", "200", "sort")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}
	if !strings.Contains(out, "change\t[min mean max]:") {
		t.Errorf("compare output missing change line:\n%s", out)
	}

	out, err = run(t, "--dir", dir, "-o", "json", "compare", "--resamples", "200", "sort")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}
	var reports []export.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(reports) != 1 || reports[0].Change == nil {
		t.Fatalf("reports = %+v, want one with a change", reports)
	}
	if reports[0].Change.Verdict != "worse" {
		t.Errorf("Verdict = %q, want %q", reports[0].Change.Verdict, "worse")
	}

	_, err = run(t, "--dir", dir, "compare", "--resamples", "200", "--fail-on-regression", "sort")
	var exit cli.ExitCoder
	if !errors.As(err, &exit) || exit.ExitCode() != 2 {
		t.Errorf("error = %v, want exit code 2", err)
	}

	if _, err := run(t, "--dir", dir, "compare", "--resamples", "0", "sort"); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestCompare_Improvement(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "sort", slow, fast)

	if _, err := run(t, "--dir", dir, "compare", "--resamples", "200", "--fail-on-regression", "sort"); err != nil {
		t.Errorf("compare error = %v, want nil for an improvement", err)
	}
}

func TestCompare_NoPrevious(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "sort", fast)

	if _, err := run(t, "--dir", dir, "compare", "sort"); !errors.Is(err, domain.ErrNoResult) {
		t.Errorf("error = %v, want ErrNoResult", err)
	}
}

func TestCompare_Timing(t *testing.T) {
	dir := t.TempDir()
	prev := domain.TimingData{Min: uint128.From64(10), Max: uint128.From64(30), Elapsed: uint128.From64(60), Iterations: uint128.From64(3)}
	cur := domain.TimingData{Min: uint128.From64(20), Max: uint128.From64(60), Elapsed: uint128.From64(120), Iterations: uint128.From64(3)}
	seedTiming(t, dir, "timer", prev, cur)

	out, err := run(t, "--dir", dir, "compare", "timer")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}
	if !strings.Contains(out, "p=? single sample") {
		t.Errorf("compare output missing timing change:\n%s", out)
	}

	out, err = run(t, "--dir", dir, "-o", "json", "compare", "timer")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}
	var reports []export.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(reports) != 1 || reports[0].Change == nil || reports[0].Change.P != nil {
		t.Fatalf("reports = %+v", reports)
	}
	if got := *reports[0].Change.MeanPercent; got != 100 {
		t.Errorf("MeanPercent = %v, want 100", got)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "sort", fast)

	out, err := run(t, "--dir", dir, "export", "sort")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if got := strings.Count(out, "BenchmarkSort"); got != 5 {
		t.Errorf("benchmark lines = %d, want 5:\n%s", got, out)
	}

	out, err = run(t, "--dir", dir, "export", "--format", "json", "sort")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.Contains(out, `"label": "sort"`) {
		t.Errorf("json export = %s", out)
	}

	out, err = run(t, "--dir", dir, "export", "-f", "prom", "sort")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.Contains(out, `microbench_mean_ns{label="sort"} 100`) {
		t.Errorf("prom export = %s", out)
	}

	file := filepath.Join(t.TempDir(), "sort.txt")
	if _, err := run(t, "--dir", dir, "export", "--file", file, "sort"); err != nil {
		t.Fatalf("export error = %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil || !bytes.Contains(data, []byte("BenchmarkSort")) {
		t.Errorf("export file = %q, %v", data, err)
	}

	if _, err := run(t, "--dir", dir, "export", "-f", "csv", "sort"); err == nil {
		t.Error("expected error for unknown export format")
	}
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "a", fast)
	seed(t, dir, "b", fast)
	seed(t, dir, "c", fast)

	if _, err := run(t, "--dir", dir, "clean"); err == nil {
		t.Error("expected error without LABEL or --all")
	}
	if _, err := run(t, "--dir", dir, "clean", "--all", "a"); err == nil {
		t.Error("expected error for --all with LABEL")
	}

	out, err := run(t, "--dir", dir, "clean", "a")
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if !strings.Contains(out, "removed 1 label(s)") {
		t.Errorf("clean output = %q", out)
	}

	labels, _ := testStore(t, dir).Labels(context.Background())
	if len(labels) != 2 || labels[0] != "b" {
		t.Fatalf("Labels() = %v, want [b c]", labels)
	}

	out, err = run(t, "--dir", dir, "clean", "--all")
	if err != nil {
		t.Fatalf("clean error = %v", err)
	}
	if !strings.Contains(out, "removed 2 label(s)") {
		t.Errorf("clean output = %q", out)
	}
	labels, _ = testStore(t, dir).Labels(context.Background())
	if len(labels) != 0 {
		t.Errorf("Labels() = %v, want none", labels)
	}
}

func TestClean_Badger(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, "--dir", dir, "--backend", "badger", "clean", "--all"); err != nil {
		t.Fatalf("clean error = %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "--dir", dir, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"num_samples: 100", "measurement_time: 5s", "dir: " + dir} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "--dir", dir, "-o", "json", "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Storage.Dir != dir || cfg.Bench.NumResamples != config.DefaultNumResamples {
		t.Errorf("config = %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte("bench:\n  num_samples: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("bench:\n  num_samples: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--dir", dir, "config", "validate", good)
	if err != nil || !strings.Contains(out, "is valid") {
		t.Errorf("validate good = %q, %v", out, err)
	}
	if _, err := run(t, "--dir", dir, "config", "validate", bad); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("validate bad error = %v, want ErrInvalidConfig", err)
	}
	if _, err := run(t, "--dir", dir, "config", "validate"); err == nil {
		t.Error("expected error without FILE")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "microbench ") {
		t.Errorf("version output = %q", out)
	}

	out, err = run(t, "-o", "json", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, `"go_version"`) {
		t.Errorf("version json = %q", out)
	}
}

func TestDemo(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "--dir", dir, "demo", "--list")
	if err != nil {
		t.Fatalf("demo --list error = %v", err)
	}
	for _, s := range samples {
		if !strings.Contains(out, s.name) {
			t.Errorf("demo --list missing %q", s.name)
		}
	}

	out, err = run(t, "--dir", dir, "demo", "--only", "fib_20", "--only", "sort_1k", "--max-iterations", "5", "--no-persist")
	if err != nil {
		t.Fatalf("demo error = %v", err)
	}
	for _, want := range []string{"fib_20 [", "sort_1k ["} {
		if !strings.Contains(out, want) {
			t.Errorf("demo output missing %q:\n%s", want, out)
		}
	}
	if labels, _ := testStore(t, dir).Labels(context.Background()); len(labels) != 0 {
		t.Errorf("Labels() = %v, want none with --no-persist", labels)
	}

	if _, err := run(t, "--dir", dir, "demo", "--only", "primes_timed"); err != nil {
		t.Fatalf("demo error = %v", err)
	}
	td, err := testStore(t, dir).ReadTiming(context.Background(), "primes_timed")
	if err != nil {
		t.Fatalf("ReadTiming() error = %v", err)
	}
	if !td.Iterations.Equals64(2000) {
		t.Errorf("Iterations = %v, want 2000", td.Iterations)
	}

	if _, err := run(t, "--dir", dir, "demo", "--only", "nope"); err == nil {
		t.Error("expected error for unknown sample")
	}
}

func TestPrimes(t *testing.T) {
	var got []int
	for p := range primes(10) {
		got = append(got, p)
	}
	want := []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	if len(got) != len(want) {
		t.Fatalf("primes(10) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("primes(10) = %v, want %v", got, want)
		}
	}
	if fib(20) != 6765 {
		t.Errorf("fib(20) = %d, want 6765", fib(20))
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output never contained %q:\n%s", want, out.String())
}

func TestStartWatch(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Dir = dir
	cfg.Bench.NumResamples = 200
	out := &syncBuffer{}
	e := &Env{Config: cfg, Log: logger.Nop(), Out: out, Format: output.FormatTable}
	defer e.Close()

	fw, err := startWatch(e, "live", nil)
	if err != nil {
		t.Fatalf("startWatch() error = %v", err)
	}
	defer fw.Stop()

	seed(t, dir, "live", fast)
	waitFor(t, out, "live [")

	seed(t, dir, "live", slow)
	waitFor(t, out, "change\t[min mean max]:")
}

func TestStartWatch_RequiresFileBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	cfg.Storage.Backend = storage.BackendBadger
	e := &Env{Config: cfg, Log: logger.Nop(), Out: &bytes.Buffer{}, Format: output.FormatTable}
	defer e.Close()

	if _, err := startWatch(e, "live", nil); err == nil {
		t.Error("startWatch() with badger backend should fail")
	}
}
