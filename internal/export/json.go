package export

import (
	"encoding/json"
	"io"
	"math"

	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/core/domain"
)

// Report is the JSON shape of a stored result. Undefined statistics (NaN)
// are encoded as null.
type Report struct {
	Label      string      `json:"label" yaml:"label"`
	Samples    int         `json:"samples" yaml:"samples"`
	Iterations string      `json:"iterations" yaml:"iterations"`
	ElapsedNs  string      `json:"elapsed_ns" yaml:"elapsed_ns"`
	MinNs      *float64    `json:"min_ns" yaml:"min_ns"`
	MeanNs     *float64    `json:"mean_ns" yaml:"mean_ns"`
	MaxNs      *float64    `json:"max_ns" yaml:"max_ns"`
	MedianNs   *float64    `json:"median_ns" yaml:"median_ns"`
	VarianceNs *float64    `json:"variance_ns2" yaml:"variance_ns2"`
	StdDevNs   *float64    `json:"stddev_ns" yaml:"stddev_ns"`
	Averages   []float64   `json:"averages_ns" yaml:"averages_ns"`
	Change     *ChangeJSON `json:"change,omitempty" yaml:"change,omitempty"`
	Timing     *TimingJSON `json:"timing,omitempty" yaml:"timing,omitempty"`
}

// ChangeJSON is the JSON shape of a comparison.
type ChangeJSON struct {
	MinPercent  *float64 `json:"min_percent" yaml:"min_percent"`
	MeanPercent *float64 `json:"mean_percent" yaml:"mean_percent"`
	MaxPercent  *float64 `json:"max_percent" yaml:"max_percent"`
	T           *float64 `json:"t" yaml:"t"`
	P           *float64 `json:"p" yaml:"p"`
	WelchP      *float64 `json:"welch_p" yaml:"welch_p"`
	Verdict     string   `json:"verdict" yaml:"verdict"`
}

// TimingJSON is the JSON shape of a plain timer aggregate.
type TimingJSON struct {
	Iterations string   `json:"iterations" yaml:"iterations"`
	ElapsedNs  string   `json:"elapsed_ns" yaml:"elapsed_ns"`
	MinNs      string   `json:"min_ns" yaml:"min_ns"`
	MaxNs      string   `json:"max_ns" yaml:"max_ns"`
	MeanNs     *float64 `json:"mean_ns" yaml:"mean_ns"`
}

func num(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// NewReport builds a report from a summary and an optional comparison.
// 128-bit totals are rendered as decimal strings.
func NewReport(label string, d *domain.SamplingData, s analysis.Summary, cmp *analysis.Comparison) Report {
	r := Report{
		Label:      label,
		Samples:    s.N(),
		Iterations: d.TotalIterations().String(),
		ElapsedNs:  s.Elapsed.String(),
		MinNs:      num(s.Min),
		MeanNs:     num(s.Mean),
		MaxNs:      num(s.Max),
		MedianNs:   num(s.Median),
		VarianceNs: num(s.Variance),
		StdDevNs:   num(s.StdDev),
		Averages:   s.Averages,
	}
	if cmp != nil {
		r.Change = &ChangeJSON{
			MinPercent:  num(cmp.MinChange),
			MeanPercent: num(cmp.MeanChange),
			MaxPercent:  num(cmp.MaxChange),
			T:           num(cmp.T),
			P:           num(cmp.P),
			WelchP:      num(cmp.WelchP),
			Verdict:     cmp.Verdict.String(),
		}
	}
	return r
}

// NewTimingReport builds a report for a plain timer aggregate.
func NewTimingReport(label string, t domain.TimingData) Report {
	return Report{
		Label:   label,
		Samples: 1,
		Timing: &TimingJSON{
			Iterations: t.Iterations.String(),
			ElapsedNs:  t.Elapsed.String(),
			MinNs:      t.Min.String(),
			MaxNs:      t.Max.String(),
			MeanNs:     num(t.Mean()),
		},
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewTimingChange converts a timer comparison. Timer runs have a single
// sample, so t and p are always null.
func NewTimingChange(cmp analysis.TimingComparison) *ChangeJSON {
	return &ChangeJSON{
		MinPercent:  num(cmp.MinChange),
		MeanPercent: num(cmp.MeanChange),
		MaxPercent:  num(cmp.MaxChange),
		Verdict:     cmp.Verdict.String(),
	}
}
