package export

import (
	"io"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/perf/benchfmt"

	"github.com/yndnr/microbench/internal/core/domain"
)

// BenchmarkName converts a label into a Go benchmark name (without the
// "Benchmark" prefix): whitespace becomes '_' and the first rune is upper
// cased so the line is recognised as a benchmark result.
func BenchmarkName(label string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, label)
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// WriteBenchfmt writes one benchmark line per sample of d, in ns/op, so
// that the samples of two runs can be compared with benchstat.
func WriteBenchfmt(w io.Writer, label string, d *domain.SamplingData) error {
	if err := d.Validate(); err != nil {
		return err
	}

	bw := benchfmt.NewWriter(w)
	name := benchfmt.Name(BenchmarkName(label))
	cfg := []benchfmt.Config{{Key: "label", Value: []byte(label), File: true}}

	for i, n := range d.Samples {
		res := &benchfmt.Result{
			Config: cfg,
			Name:   name,
			Iters:  int(min(n, math.MaxInt)),
			Values: []benchfmt.Value{{
				Value: domain.Float64(d.Times[i]) / float64(n),
				Unit:  "ns/op",
			}},
		}
		if err := bw.Write(res); err != nil {
			return err
		}
	}
	return nil
}

// WriteTimingBenchfmt writes a plain timer aggregate as a single line.
func WriteTimingBenchfmt(w io.Writer, label string, t domain.TimingData) error {
	iters := uint64(math.MaxInt)
	if t.Iterations.Cmp64(iters) < 0 {
		iters = t.Iterations.Lo
	}
	res := &benchfmt.Result{
		Config: []benchfmt.Config{{Key: "label", Value: []byte(label), File: true}},
		Name:   benchfmt.Name(BenchmarkName(label)),
		Iters:  int(iters),
		Values: []benchfmt.Value{{Value: t.Mean(), Unit: "ns/op"}},
	}
	return benchfmt.NewWriter(w).Write(res)
}
