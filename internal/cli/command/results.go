package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/microbench/internal/cli/output"
	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/export"
	"github.com/yndnr/microbench/internal/report"
	"github.com/yndnr/microbench/internal/storage"
	"github.com/yndnr/microbench/internal/telemetry/metric"
)

// ListCommand returns the list command.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List stored labels",
		Action:  listLabels,
	}
}

// ShowCommand returns the show command.
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the current result of a label",
		ArgsUsage: "LABEL",
		Action:    showLabel,
	}
}

// CompareCommand returns the compare command.
func CompareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Aliases:   []string{"cmp"},
		Usage:     "Compare the current result of a label with the previous one",
		ArgsUsage: "LABEL",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "resamples",
				Usage: "Bootstrap resamples (defaults to bench.num_resamples)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-regression",
				Usage: "Exit with status 2 when the change is a significant regression",
			},
		},
		Action: compareLabel,
	}
}

// ExportCommand returns the export command.
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export the current result of a label",
		ArgsUsage: "LABEL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: benchfmt, json, prom",
				Value:   "benchfmt",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Write to FILE instead of stdout",
			},
		},
		Action: exportLabel,
	}
}

// CleanCommand returns the clean command.
func CleanCommand() *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "Delete stored results",
		ArgsUsage: "[LABEL...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Delete every label",
			},
		},
		Action: cleanLabels,
	}
}

// labelEntry is one row of the list command.
type labelEntry struct {
	Label      string `json:"label" yaml:"label"`
	Samples    int    `json:"samples" yaml:"samples"`
	Mean       string `json:"mean" yaml:"mean"`
	Min        string `json:"min" yaml:"min" table:"wide"`
	Max        string `json:"max" yaml:"max" table:"wide"`
	Iterations string `json:"iterations" yaml:"iterations" table:"wide"`
	Previous   bool   `json:"previous" yaml:"previous"`
	Timer      bool   `json:"timer" yaml:"timer"`
}

// stored holds the slots of one label that could be read. oldErr keeps
// read errors of the old slots, which only compare depends on.
type stored struct {
	label    string
	cur, old *domain.SamplingData
	tcur     *domain.TimingData
	told     *domain.TimingData
	oldErr   error
}

func (s *stored) empty() bool {
	return s.cur == nil && s.tcur == nil
}

// load reads every slot of label. Missing slots are skipped. Read errors of
// the current slots are returned; those of the old slots land in oldErr.
func load(ctx context.Context, store *storage.Store, label string) (*stored, error) {
	s := &stored{label: label}
	var curErrs, oldErrs []error
	keep := func(errs *[]error, err error) bool {
		if err == nil {
			return true
		}
		if !errors.Is(err, domain.ErrNoResult) {
			*errs = append(*errs, err)
		}
		return false
	}

	if d, err := store.ReadSampling(ctx, label); keep(&curErrs, err) {
		s.cur = d
	}
	if d, err := store.ReadOldSampling(ctx, label); keep(&oldErrs, err) {
		s.old = d
	}
	if t, err := store.ReadTiming(ctx, label); keep(&curErrs, err) {
		s.tcur = &t
	}
	if t, err := store.ReadOldTiming(ctx, label); keep(&oldErrs, err) {
		s.told = &t
	}
	s.oldErr = errors.Join(oldErrs...)
	return s, errors.Join(curErrs...)
}

func listLabels(c *cli.Context) error {
	e, err := env(c)
	if err != nil {
		return err
	}
	store, err := e.Store()
	if err != nil {
		return err
	}

	labels, err := store.Labels(c.Context)
	if err != nil {
		return err
	}

	entries := make([]labelEntry, 0, len(labels))
	for _, l := range labels {
		s, err := load(c.Context, store, l)
		if err = errors.Join(err, s.oldErr); err != nil {
			e.Log.Warn("failed to read stored result", "label", l, "path", e.Dir(), "error", err)
		}
		entry := labelEntry{
			Label: l, Mean: "-", Min: "-", Max: "-", Iterations: "-",
			Previous: s.old != nil || s.told != nil,
			Timer:    s.tcur != nil,
		}
		switch {
		case s.cur != nil:
			sum := analysis.Summarize(s.cur)
			entry.Samples = sum.N()
			entry.Mean = report.FormatTime(sum.Mean)
			entry.Min = report.FormatTime(sum.Min)
			entry.Max = report.FormatTime(sum.Max)
			entry.Iterations = report.FormatIterations(s.cur.TotalIterations())
		case s.tcur != nil:
			entry.Samples = 1
			entry.Mean = report.FormatTime(s.tcur.Mean())
			entry.Min = report.FormatTime(domain.Float64(s.tcur.Min))
			entry.Max = report.FormatTime(domain.Float64(s.tcur.Max))
			entry.Iterations = report.FormatIterations(s.tcur.Iterations)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 && e.Format == output.FormatTable {
		fmt.Fprintf(e.Out, "no results in %s\n", e.Dir())
		return nil
	}
	return e.Print(entries)
}

// readLabel opens the store and reads LABEL. It fails when the label has
// no current result.
func readLabel(c *cli.Context) (*Env, *stored, error) {
	e, err := env(c)
	if err != nil {
		return nil, nil, err
	}
	l, err := label(c)
	if err != nil {
		return nil, nil, err
	}
	store, err := e.Store()
	if err != nil {
		return nil, nil, err
	}
	s, err := load(c.Context, store, l)
	if err != nil {
		return nil, nil, err
	}
	if s.oldErr != nil {
		e.Log.Warn("failed to read previous result", "label", l, "path", e.Dir(), "error", s.oldErr)
	}
	if s.empty() {
		return nil, nil, domain.ErrNoResult.Detailf("label %q in %s", l, e.Dir())
	}
	return e, s, nil
}

func showLabel(c *cli.Context) error {
	e, s, err := readLabel(c)
	if err != nil {
		return err
	}

	if e.Format != output.FormatTable {
		var reports []export.Report
		if s.cur != nil {
			reports = append(reports, export.NewReport(s.label, s.cur, analysis.Summarize(s.cur), nil))
		}
		if s.tcur != nil {
			reports = append(reports, export.NewTimingReport(s.label, *s.tcur))
		}
		return e.Print(reports)
	}

	console := report.NewConsole(e.Out)
	if s.cur != nil {
		sum := analysis.Summarize(s.cur)
		console.SampleHeader(s.label, s.cur.TotalIterations(), sum.Elapsed, sum.N())
		console.Summary(sum)
	}
	if s.tcur != nil {
		console.TimerHeader(s.label, *s.tcur)
		console.TimerSummary(*s.tcur)
	}
	return nil
}

func compareLabel(c *cli.Context) error {
	e, s, err := readLabel(c)
	if err != nil {
		return err
	}
	if s.oldErr != nil {
		return s.oldErr
	}
	if (s.cur == nil || s.old == nil) && (s.tcur == nil || s.told == nil) {
		return domain.ErrNoResult.Detailf("label %q has no previous result to compare against", s.label)
	}

	resamples := e.Config.Bench.NumResamples
	if c.IsSet("resamples") {
		resamples = c.Int("resamples")
		if resamples < 1 {
			return domain.ErrInvalidConfig.WithDetails("resamples must be at least 1")
		}
	}

	console := report.NewConsole(e.Out)
	var reports []export.Report
	regressed := false

	if s.cur != nil && s.old != nil {
		cur, prev := analysis.Summarize(s.cur), analysis.Summarize(s.old)
		cmp := analysis.Compare(cur, prev, resamples, e.Config.Compare.Policy())
		regressed = cmp.Verdict == analysis.Worse
		if e.Format == output.FormatTable {
			console.SampleHeader(s.label, s.cur.TotalIterations(), cur.Elapsed, cur.N())
			console.Summary(cur)
			console.Comparison(cmp)
		} else {
			reports = append(reports, export.NewReport(s.label, s.cur, cur, &cmp))
		}
	}

	if s.tcur != nil && s.told != nil {
		cmp := analysis.CompareTiming(*s.tcur, *s.told, e.Config.Compare.TimingNoiseThreshold)
		regressed = regressed || cmp.Verdict == analysis.Worse
		if e.Format == output.FormatTable {
			console.TimerHeader(s.label, *s.tcur)
			console.TimerSummary(*s.tcur)
			console.TimingComparison(cmp)
		} else {
			r := export.NewTimingReport(s.label, *s.tcur)
			r.Change = export.NewTimingChange(cmp)
			reports = append(reports, r)
		}
	}

	if reports != nil {
		if err := e.Print(reports); err != nil {
			return err
		}
	}
	if regressed && c.Bool("fail-on-regression") {
		return cli.Exit(fmt.Sprintf("%s: significant regression", s.label), 2)
	}
	return nil
}

func exportLabel(c *cli.Context) (err error) {
	e, s, err := readLabel(c)
	if err != nil {
		return err
	}

	var w io.Writer = e.Out
	if path := c.String("file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	switch format := c.String("format"); format {
	case "benchfmt":
		if s.cur != nil {
			if err := export.WriteBenchfmt(w, s.label, s.cur); err != nil {
				return err
			}
		}
		if s.tcur != nil {
			return export.WriteTimingBenchfmt(w, s.label, *s.tcur)
		}
		return nil
	case "json":
		var reports []export.Report
		if s.cur != nil {
			reports = append(reports, export.NewReport(s.label, s.cur, analysis.Summarize(s.cur), nil))
		}
		if s.tcur != nil {
			reports = append(reports, export.NewTimingReport(s.label, *s.tcur))
		}
		return export.WriteJSON(w, reports)
	case "prom":
		reg := metric.NewRegistry()
		if s.cur != nil {
			reg.ObserveRun(s.label, analysis.Summarize(s.cur), nil)
			reg.AddIterations(s.label, domain.Float64(s.cur.TotalIterations()))
		}
		if s.tcur != nil {
			reg.ObserveTiming(s.label, *s.tcur)
		}
		return export.WritePrometheus(w, reg.Gatherer())
	default:
		return fmt.Errorf("unknown export format %q (want benchfmt, json or prom)", format)
	}
}

func cleanLabels(c *cli.Context) error {
	e, err := env(c)
	if err != nil {
		return err
	}

	labels := c.Args().Slice()
	switch {
	case c.Bool("all") && len(labels) > 0:
		return fmt.Errorf("--all and LABEL arguments are mutually exclusive")
	case !c.Bool("all") && len(labels) == 0:
		return fmt.Errorf("LABEL argument or --all required")
	}

	store, err := e.Store()
	if err != nil {
		return err
	}
	if c.Bool("all") {
		if labels, err = store.Labels(c.Context); err != nil {
			return err
		}
	}

	removed := 0
	for _, l := range labels {
		if err := store.Delete(c.Context, l); err != nil {
			return fmt.Errorf("delete %s: %w", l, err)
		}
		removed++
	}

	if gc, ok := store.Backend().(interface{ GC(float64) (int, error) }); ok && removed > 0 {
		n, err := gc.GC(0.5)
		if err != nil {
			e.Log.Warn("value log gc failed", "path", e.Dir(), "error", err)
		} else {
			e.Log.Debug("value log gc", "rewritten", n)
		}
	}

	fmt.Fprintf(e.Out, "removed %d label(s) from %s\n", removed, e.Dir())
	return nil
}
