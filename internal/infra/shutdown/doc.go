// Package shutdown coordinates process termination for long-running
// commands such as `microbench watch`.
//
// Usage:
//
//	h := shutdown.NewHandler(5*time.Second, shutdown.WithLogger(log))
//	ctx, stop := h.Context(context.Background())
//	defer stop()
//	h.OnShutdown(func(ctx context.Context) error { return w.Stop() })
//	err := h.Wait(ctx)
package shutdown
