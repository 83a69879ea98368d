package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rolly/internal/config"
	"github.com/cory-johannsen/rolly/internal/dice"
	"github.com/cory-johannsen/rolly/internal/observability"
	"github.com/cory-johannsen/rolly/internal/rolly"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	format     string
	seed       uint64
	user       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "rolly [flags] ROLL...",
		Short: "Roll dice from chat-style notation",
		Long:  rolly.HelpText(),
		Example: `  rolly 3d6+1 d%
  rolly dnd+
  rolly --format json 4d6<1 open`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoll(cmd, opts, args)
		},
	}
	fs := cmd.PersistentFlags()
	fs.StringVar(&opts.configPath, "config", "", "optional YAML config file")
	fs.StringVarP(&opts.format, "format", "f", "", "output format: auto, markdown, pretty, json, yaml")
	fs.Uint64Var(&opts.seed, "seed", 0, "seed for deterministic rolls; 0 uses crypto/rand")
	fs.StringVarP(&opts.user, "user", "u", "", "name shown in \"<user> throws the dice\"")

	cmd.AddCommand(newDemoCmd(opts))
	cmd.AddCommand(newConsoleCmd(opts))
	return cmd
}

// app holds everything a subcommand needs once flags and config are merged.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	roller  *dice.Roller
	handler *rolly.Handler
	format  rolly.Format
}

// newApp loads configuration, applies flag overrides and wires the roller.
//
// Postcondition: a.format is resolved against out and is never FormatAuto.
func newApp(cmd *cobra.Command, opts *rootOptions, out io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(opts.format)
	}
	if flags.Changed("user") {
		cfg.Output.User = opts.user
	}
	if flags.Changed("seed") {
		cfg.Roll.Seed = opts.seed
	}
	if cfg.Roll.Seed != 0 {
		// Concurrent draws would make a seeded batch order-dependent.
		cfg.Roll.Parallel = false
	}

	format, err := rolly.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	src := dice.NewCryptoSource()
	if cfg.Roll.Seed != 0 {
		src = dice.NewSeededSource(cfg.Roll.Seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	logger.Debug("rolly configured",
		zap.String("format", string(format)),
		zap.Uint64("seed", cfg.Roll.Seed),
		zap.Int("max_requests", cfg.Roll.MaxRequests),
		zap.Int("max_dice", cfg.Roll.MaxDice),
		zap.Bool("parallel", cfg.Roll.Parallel),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		roller:  roller,
		handler: rolly.NewHandler(roller, rolly.OptionsFromConfig(cfg.Roll), logger),
		format:  rolly.ResolveFormat(format, out),
	}, nil
}

func runRoll(cmd *cobra.Command, opts *rootOptions, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp(cmd, opts, out)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	resp, err := a.handler.Handle(cmd.Context(), rolly.Request{
		User:    a.cfg.Output.User,
		Command: strings.Join(args, " "),
	})
	if err != nil {
		return err
	}
	return rolly.Render(out, resp, a.format)
}
