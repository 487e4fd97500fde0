package command

import (
	"context"
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/microbench/pkg/bench"
)

// sample is one bundled demo benchmark.
type sample struct {
	name string
	desc string
	run  func(ctx context.Context, e *bench.Engine, cfg bench.Config) error
}

var samples = []sample{
	{
		name: "fib_20",
		desc: "recursive Fibonacci of 20",
		run: func(ctx context.Context, e *bench.Engine, cfg bench.Config) error {
			_, err := bench.Run(ctx, e, "fib_20", cfg, func() int { return fib(bench.BlackBox(20)) })
			return err
		},
	},
	{
		name: "sort_1k",
		desc: "sorting 1000 random ints, input built by setup",
		run: func(ctx context.Context, e *bench.Engine, cfg bench.Config) error {
			rng := rand.New(rand.NewPCG(1, 2))
			_, err := bench.RunWithSetup(ctx, e, "sort_1k", cfg,
				func() []int {
					s := make([]int, 1000)
					for i := range s {
						s[i] = rng.IntN(1 << 20)
					}
					return s
				},
				func(s []int) []int {
					slices.Sort(s)
					return s
				})
			return err
		},
	},
	{
		name: "map_insert_1k",
		desc: "inserting 1000 keys into a fresh map",
		run: func(ctx context.Context, e *bench.Engine, cfg bench.Config) error {
			_, err := bench.Run(ctx, e, "map_insert_1k", cfg, func() map[int]int {
				m := make(map[int]int)
				for i := range bench.BlackBox(1000) {
					m[i] = i
				}
				return m
			})
			return err
		},
	},
	{
		name: "builder_concat",
		desc: "joining 100 numbers with strings.Builder",
		run: func(ctx context.Context, e *bench.Engine, cfg bench.Config) error {
			_, err := bench.Run(ctx, e, "builder_concat", cfg, func() string {
				var b strings.Builder
				for i := range 100 {
					b.WriteString(strconv.Itoa(i))
					b.WriteByte(',')
				}
				return b.String()
			})
			return err
		},
	},
	{
		name: "primes_timed",
		desc: "plain timer over a trial-division prime generator",
		run: func(_ context.Context, e *bench.Engine, cfg bench.Config) error {
			for p := range bench.TimedWith(e, "primes_timed", primes(2000), cfg.DumpResultsToDisk) {
				bench.BlackBox(p)
			}
			return nil
		},
	},
}

func fib(n int) int {
	if n < 2 {
		return n
	}
	return fib(n-1) + fib(n-2)
}

// primes yields the first n primes.
func primes(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		found := make([]int, 0, n)
		for c := 2; len(found) < n; c++ {
			prime := true
			for _, p := range found {
				if p*p > c {
					break
				}
				if c%p == 0 {
					prime = false
					break
				}
			}
			if !prime {
				continue
			}
			found = append(found, c)
			if !yield(c) {
				return
			}
		}
	}
}

// DemoCommand returns the demo command.
func DemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Run the bundled sample benchmarks",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "Run only the named samples",
			},
			&cli.BoolFlag{
				Name:  "quick",
				Usage: "Shorter warm-up and measurement with fewer samples",
			},
			&cli.Uint64Flag{
				Name:  "max-iterations",
				Usage: "Run one sample of N iterations instead of calibrating",
			},
			&cli.BoolFlag{
				Name:  "no-persist",
				Usage: "Do not compare with or store results",
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "List the samples and exit",
			},
		},
		Action: runDemo,
	}
}

func runDemo(c *cli.Context) error {
	e, err := env(c)
	if err != nil {
		return err
	}

	if c.Bool("list") {
		for _, s := range samples {
			fmt.Fprintf(e.Out, "%-16s %s\n", s.name, s.desc)
		}
		return nil
	}

	selected := samples
	if only := c.StringSlice("only"); len(only) > 0 {
		selected = nil
		for _, name := range only {
			i := slices.IndexFunc(samples, func(s sample) bool { return s.name == name })
			if i < 0 {
				return fmt.Errorf("unknown sample %q", name)
			}
			selected = append(selected, samples[i])
		}
	}

	engine := bench.NewFromConfig(e.Config, bench.WithOutput(e.Out), bench.WithLogger(e.Log))
	defer engine.Close()

	cfg := engine.Config()
	if c.Bool("quick") {
		cfg.WarmUpTime = 500 * time.Millisecond
		cfg.MeasurementTime = time.Second
		cfg.NumSamples = 20
		cfg.NumResamples = 10_000
	}
	if c.IsSet("max-iterations") {
		cfg.MaxIterations = c.Uint64("max-iterations")
	}
	if c.Bool("no-persist") {
		cfg.DumpResultsToDisk = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, s := range selected {
		if err := c.Context.Err(); err != nil {
			return err
		}
		if err := s.run(c.Context, engine, cfg); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
