package main

import (
	"github.com/spf13/cobra"

	"github.com/cory-johannsen/rolly/internal/rolly"
	"github.com/cory-johannsen/rolly/internal/server"
)

func newConsoleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Read roll commands from stdin, one per line, until quit or EOF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			a, err := newApp(cmd, opts, out)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			console := rolly.NewConsole(a.handler, cmd.InOrStdin(), out, a.format, a.cfg.Output.User, a.logger)

			lc := server.NewLifecycle(a.logger)
			lc.Add("console", console)
			return lc.Run(cmd.Context())
		},
	}
}
