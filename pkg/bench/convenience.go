package bench

import "context"

func must(r *Result, err error) *Result {
	if err != nil {
		Default().log.Error("benchmark not run", "error", err)
		return nil
	}
	return r
}

// Bench measures work with the default engine and configuration.
func Bench[T any](work func() T) *Result {
	return BenchLabeled(AnonymousLabel, work)
}

// BenchLabeled is Bench under label.
func BenchLabeled[T any](label string, work func() T) *Result {
	return BenchWithConfigLabeled(label, Default().Config(), work)
}

// BenchWithConfig measures work with cfg.
func BenchWithConfig[T any](cfg Config, work func() T) *Result {
	return BenchWithConfigLabeled(AnonymousLabel, cfg, work)
}

// BenchWithConfigLabeled measures work under label with cfg. It returns nil
// when cfg is invalid.
func BenchWithConfigLabeled[T any](label string, cfg Config, work func() T) *Result {
	return must(Run(context.Background(), Default(), label, cfg, work))
}

// BenchWithSetup measures work on inputs produced by setup.
func BenchWithSetup[R, T any](setup func() R, work func(R) T) *Result {
	return BenchWithSetupLabeled(AnonymousLabel, setup, work)
}

// BenchWithSetupLabeled is BenchWithSetup under label.
func BenchWithSetupLabeled[R, T any](label string, setup func() R, work func(R) T) *Result {
	return BenchWithSetupConfigLabeled(label, Default().Config(), setup, work)
}

// BenchWithSetupConfig is BenchWithSetup with cfg.
func BenchWithSetupConfig[R, T any](cfg Config, setup func() R, work func(R) T) *Result {
	return BenchWithSetupConfigLabeled(AnonymousLabel, cfg, setup, work)
}

// BenchWithSetupConfigLabeled measures work on inputs produced by setup,
// under label with cfg. It returns nil when cfg is invalid.
func BenchWithSetupConfigLabeled[R, T any](label string, cfg Config, setup func() R, work func(R) T) *Result {
	return must(RunWithSetup(context.Background(), Default(), label, cfg, setup, work))
}

// Do measures a closure without a result under label.
func Do(label string, fn func()) *Result {
	return BenchLabeled(label, func() struct{} {
		fn()
		return struct{}{}
	})
}
