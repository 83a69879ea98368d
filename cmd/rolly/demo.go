package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// demoSeed is used when no --seed is given, so the demo prints the same rolls
// on every run.
const demoSeed = 1

var (
	demoSimple = []string{"1", "2", "3", "4", "6", "8", "10", "12", "20", "%", "100", "65536"}
	demoCombos = []string{"dnd", "d&d", "dnd+", "d&d+", "open"}
	demoRolls  = []string{"3d6", "3d6+1", "3d6-1", "3d6-16", "3d6/2", "3d6/3", "2d6<1"}
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Roll a fixed set of simple rolls, combos and modified rolls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				if err := cmd.Flags().Set("seed", fmt.Sprint(demoSeed)); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			a, err := newApp(cmd, opts, out)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			return runDemo(out, a)
		},
	}
}

func runDemo(out io.Writer, a *app) error {
	w := &errWriter{w: out}

	w.printf("simple:\n")
	for _, s := range demoSimple {
		w.printf("  %s\n", a.roller.Request(s))
	}

	w.printf("combos:\n")
	for _, s := range demoCombos {
		c, err := a.roller.Combo(s)
		if err != nil {
			return err
		}
		w.printf("%s\n", c)
	}

	w.printf("rolls:\n")
	for _, s := range demoRolls {
		w.printf("  %s\n", a.roller.Request(s))
	}
	return w.err
}

// errWriter keeps the first write error so a run of prints can be checked once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
