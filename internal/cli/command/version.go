package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/microbench/internal/cli/output"
	"github.com/yndnr/microbench/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			e, err := env(c)
			if err != nil {
				return err
			}
			info := buildinfo.Get()
			if e.Format == output.FormatTable {
				fmt.Fprintln(e.Out, info.String())
				return nil
			}
			return e.Print(info)
		},
	}
}
