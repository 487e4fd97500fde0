package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"lukechampine.com/uint128"

	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/core/domain"
)

// Palette.
var (
	colorGreen  = lipgloss.Color("2")
	colorBright = lipgloss.Color("15")
	colorGray   = lipgloss.Color("7")
	colorGood   = lipgloss.Color("10")
	colorBad    = lipgloss.Color("9")
	colorWarn   = lipgloss.Color("11")
)

// Console writes styled result lines to a writer.
type Console struct {
	w io.Writer

	label  lipgloss.Style
	bright lipgloss.Style
	muted  lipgloss.Style
	good   lipgloss.Style
	bad    lipgloss.Style
	warn   lipgloss.Style
}

// NewConsole returns a console writing to w. Styling is dropped when w is
// not a terminal.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:      w,
		label:  r.NewStyle().Bold(true).Foreground(colorGreen),
		bright: r.NewStyle().Foreground(colorBright),
		muted:  r.NewStyle().Foreground(colorGray),
		good:   r.NewStyle().Foreground(colorGood),
		bad:    r.NewStyle().Foreground(colorBad),
		warn:   r.NewStyle().Foreground(colorWarn),
	}
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.w, format, args...)
}

// WarmUp announces the warm-up phase.
func (c *Console) WarmUp(label string, d time.Duration) {
	c.printf("%s warming up for %s\n",
		c.label.Render(label),
		c.bright.Render(FormatTime(float64(d.Nanoseconds()))))
}

// WarmUpDone reports the calibrated cost and the planned iteration count.
func (c *Console) WarmUpDone(label string, meanCost float64, planned uint128.Uint128) {
	c.printf("%s mean warm up execution time %s running %s iterations\n",
		c.label.Render(label),
		c.bright.Render(FormatTime(meanCost)),
		c.bright.Render(FormatCount(domain.Float64(planned))))
}

// SampleHeader prints the header of a sampled run.
func (c *Console) SampleHeader(label string, iterations, elapsed uint128.Uint128, samples int) {
	c.printf("%s [%s iterations in %s with %s samples]:\n",
		c.label.Render(label),
		FormatCount(domain.Float64(iterations)),
		FormatTime(domain.Float64(elapsed)),
		FormatCount(float64(samples)))
}

func (c *Console) bracket() string {
	return fmt.Sprintf("[%s %s %s]", c.muted.Render("min"), c.bright.Render("mean"), c.muted.Render("max"))
}

// Summary prints the elapsed line of a sampled run.
func (c *Console) Summary(s analysis.Summary) {
	c.printf("\telapsed\t%s:\t[%s %s %s] (sample data: med = %s, var = %s², stddev = %s)\n",
		c.bracket(),
		c.muted.Render(FormatTime(s.Min)),
		c.bright.Render(FormatTime(s.Mean)),
		c.muted.Render(FormatTime(s.Max)),
		FormatTime(s.Median),
		FormatTime(s.Variance),
		FormatTime(s.StdDev))
}

func (c *Console) verdictStyle(v analysis.Verdict) lipgloss.Style {
	switch v {
	case analysis.Better:
		return c.good
	case analysis.Worse:
		return c.bad
	default:
		return c.bright
	}
}

func (c *Console) change(lo, mid, hi float64, v analysis.Verdict, note string) {
	c.printf("\tchange\t%s:\t[%s %s %s] (%s)\n",
		c.bracket(),
		c.muted.Render(FormatChange(lo)),
		c.verdictStyle(v).Render(FormatChange(mid)),
		c.muted.Render(FormatChange(hi)),
		note)
}

// Comparison prints the change line of a sampled run.
func (c *Console) Comparison(cmp analysis.Comparison) {
	c.change(cmp.MinChange, cmp.MeanChange, cmp.MaxChange, cmp.Verdict, FormatP(cmp.P))
}

// TimerHeader prints the header of a plain timer run.
func (c *Console) TimerHeader(label string, t domain.TimingData) {
	c.printf("%s [%s iterations in %s]:\n",
		c.label.Render(label),
		FormatCount(domain.Float64(t.Iterations)),
		FormatTime(domain.Float64(t.Elapsed)))
}

// TimerSummary prints the elapsed line of a plain timer run.
func (c *Console) TimerSummary(t domain.TimingData) {
	c.printf("\telapsed\t%s:\t[%s %s %s]\n",
		c.bracket(),
		c.muted.Render(FormatTime(domain.Float64(t.Min))),
		c.bright.Render(FormatTime(t.Mean())),
		c.muted.Render(FormatTime(domain.Float64(t.Max))))
}

// TimingComparison prints the change line of a plain timer run.
func (c *Console) TimingComparison(cmp analysis.TimingComparison) {
	c.change(cmp.MinChange, cmp.MeanChange, cmp.MaxChange, cmp.Verdict, "p=? single sample")
}

// Notice prints a highlighted one-line message.
func (c *Console) Notice(msg string) {
	c.printf("%s\n", c.warn.Render(msg))
}
