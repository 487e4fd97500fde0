package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/microbench/internal/cli/output"
	"github.com/yndnr/microbench/internal/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration (defaults, file, env and flags merged)",
				Action: configShow,
			},
			{
				Name:      "validate",
				Aliases:   []string{"test"},
				Usage:     "Validate a configuration file",
				ArgsUsage: "FILE",
				Action:    configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	e, err := env(c)
	if err != nil {
		return err
	}
	format := e.Format
	if format == output.FormatTable {
		format = output.FormatYAML
	}
	return output.NewFormatter(format, false).Format(e.Out, e.Config)
}

func configValidate(c *cli.Context) error {
	e, err := env(c)
	if err != nil {
		return err
	}
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("configuration file path required")
	}
	if _, err := config.Load(path, nil); err != nil {
		return err
	}
	fmt.Fprintf(e.Out, "configuration file %s is valid\n", path)
	return nil
}
