package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/microbench/internal/cli/output"
	"github.com/yndnr/microbench/internal/config"
	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/infra/buildinfo"
	"github.com/yndnr/microbench/internal/infra/targetdir"
	"github.com/yndnr/microbench/internal/storage"
	"github.com/yndnr/microbench/internal/telemetry/logger"
)

const envKey = "env"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "microbench",
		Usage:   "Inspect, compare and export stored micro-benchmark results",
		Version: buildinfo.Get().Version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ListCommand(),
			ShowCommand(),
			CompareCommand(),
			ExportCommand(),
			CleanCommand(),
			WatchCommand(),
			DemoCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			env, err := NewEnv(c)
			if err != nil {
				return err
			}
			c.App.Metadata[envKey] = env
			return nil
		},
		After: func(c *cli.Context) error {
			if env := GetEnv(c); env != nil {
				return env.Close()
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (yaml)",
			EnvVars: []string{"MICROBENCH_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Results root directory (results live in DIR/microbench)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Result store backend: file, badger",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config   string
	Dir      string
	Backend  string
	Output   string
	Wide     bool
	LogLevel string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:   c.String("config"),
		Dir:      c.String("dir"),
		Backend:  c.String("backend"),
		Output:   c.String("output"),
		Wide:     c.Bool("wide"),
		LogLevel: c.String("log-level"),
	}
}

// overrides maps the flags that shadow configuration keys.
func (f *GlobalFlags) overrides() map[string]any {
	m := make(map[string]any)
	if f.Dir != "" {
		m["storage.dir"] = f.Dir
	}
	if f.Backend != "" {
		m["storage.backend"] = f.Backend
	}
	if f.LogLevel != "" {
		m["log.level"] = f.LogLevel
	}
	return m
}

// Env is the per-invocation state shared by the commands.
type Env struct {
	Config *config.Config
	Log    logger.Logger
	Out    io.Writer
	Format output.Format
	Wide   bool

	store *storage.Store
	dir   string
}

// NewEnv loads the configuration named by the global flags and builds the
// logger. The result store is opened on first use.
func NewEnv(c *cli.Context) (*Env, error) {
	flags := ParseGlobalFlags(c)
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags.Config, flags.overrides())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, err
	}

	return &Env{
		Config: cfg,
		Log:    log,
		Out:    c.App.Writer,
		Format: format,
		Wide:   flags.Wide,
	}, nil
}

// GetEnv retrieves the environment from context.
func GetEnv(c *cli.Context) *Env {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env
	}
	return nil
}

// Store opens the configured result store.
func (e *Env) Store() (*storage.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	dir, err := targetdir.Resolve(e.Config.Storage.Dir)
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithCause(err)
	}
	backend, err := storage.Open(e.Config.Storage.Backend, dir, storage.WithLogger(e.Log))
	if err != nil {
		return nil, domain.ErrStorageUnavailable.WithDetails(dir).WithCause(err)
	}
	e.dir = dir
	e.store = storage.NewStore(backend, e.Log)
	return e.store, nil
}

// Dir returns the results directory once the store is open.
func (e *Env) Dir() string {
	return e.dir
}

// Print writes data in the selected output format.
func (e *Env) Print(data any) error {
	return output.NewFormatter(e.Format, e.Wide).Format(e.Out, data)
}

// Close releases the result store.
func (e *Env) Close() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	return err
}

func env(c *cli.Context) (*Env, error) {
	e := GetEnv(c)
	if e == nil {
		return nil, fmt.Errorf("command environment not initialized")
	}
	return e, nil
}

// label returns the single LABEL argument of a command.
func label(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("exactly one LABEL argument required")
	}
	l := c.Args().First()
	if err := domain.ValidateLabel(l); err != nil {
		return "", err
	}
	return l, nil
}
