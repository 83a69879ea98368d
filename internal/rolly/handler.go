// Package rolly turns "/roll" chat commands into batches of dice evaluations.
// It owns the batch policy the dice core leaves to its callers: how many rolls
// one command may ask for, how many dice one roll may throw, and how results
// are rendered back into chat.
package rolly

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/rolly/internal/config"
	"github.com/cory-johannsen/rolly/internal/dice"
)

// Trigger is the slash command this handler answers to.
const Trigger = "/roll"

// Options are the batch limits enforced before dice reach the evaluator.
type Options struct {
	MaxRequests int
	MaxDice     int
	Parallel    bool
}

// OptionsFromConfig maps the roll configuration onto handler options.
func OptionsFromConfig(cfg config.RollConfig) Options {
	return Options{
		MaxRequests: cfg.MaxRequests,
		MaxDice:     cfg.MaxDice,
		Parallel:    cfg.Parallel,
	}
}

// Request is one chat command, e.g. {User: "ann", Command: "/roll 3d6 dnd"}.
type Request struct {
	User    string
	Command string
}

// Response is everything a renderer needs to answer one command.
type Response struct {
	ID   uuid.UUID `json:"id" yaml:"id"`
	User string    `json:"user" yaml:"user"`
	// Help holds the usage text when the user asked for help; nothing is rolled.
	Help string `json:"help,omitempty" yaml:"help,omitempty"`
	// Requested counts the roll arguments before truncation.
	Requested int `json:"requested" yaml:"requested"`
	// Notices are batch-level messages, e.g. truncation.
	Notices []string       `json:"notices,omitempty" yaml:"notices,omitempty"`
	Results []dice.Outcome `json:"results" yaml:"results"`
}

// Handler evaluates roll commands.
type Handler struct {
	roller *dice.Roller
	opts   Options
	logger *zap.Logger
}

// NewHandler creates a Handler that rolls with roller under opts.
//
// Precondition: roller and logger must be non-nil; opts limits must be >= 1.
func NewHandler(roller *dice.Roller, opts Options, logger *zap.Logger) *Handler {
	return &Handler{roller: roller, opts: opts, logger: logger}
}

// Fields splits a command into roll arguments, dropping a leading trigger.
func Fields(command string) []string {
	fields := strings.Fields(command)
	if len(fields) > 0 && strings.EqualFold(fields[0], Trigger) {
		fields = fields[1:]
	}
	return fields
}

func wantsHelp(args []string) bool {
	for _, a := range args {
		switch strings.ToLower(a) {
		case "help", "--help", "-h":
			return true
		}
	}
	return false
}

// Handle evaluates every roll in req and returns them in request order.
//
// At most MaxRequests rolls are evaluated; the rest are dropped with a notice.
// Normal rolls asking for more than MaxDice dice are capped with a warning.
//
// Postcondition: len(resp.Results) == min(resp.Requested, MaxRequests) unless
// help was requested; returns ctx.Err() if ctx ends before evaluation finishes.
func (h *Handler) Handle(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	resp := Response{ID: uuid.New(), User: req.User, Results: []dice.Outcome{}}
	args := Fields(req.Command)
	resp.Requested = len(args)

	if wantsHelp(args) {
		resp.Help = HelpText()
		return resp, nil
	}
	if len(args) == 0 {
		resp.Notices = append(resp.Notices, dice.MsgNothing)
		return resp, nil
	}
	if len(args) > h.opts.MaxRequests {
		resp.Notices = append(resp.Notices,
			fmt.Sprintf("%d rolls requested; I'm only doing %d.", len(args), h.opts.MaxRequests))
		args = args[:h.opts.MaxRequests]
	}

	results, err := h.evaluate(ctx, args)
	if err != nil {
		return Response{}, err
	}
	resp.Results = results

	h.logger.Info("roll batch",
		zap.String("id", resp.ID.String()),
		zap.String("user", req.User),
		zap.Int("requested", resp.Requested),
		zap.Int("evaluated", len(results)),
		zap.Bool("parallel", h.opts.Parallel),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func (h *Handler) evaluate(ctx context.Context, args []string) ([]dice.Outcome, error) {
	results := make([]dice.Outcome, len(args))
	if !h.opts.Parallel {
		for i, arg := range args {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = h.evaluateOne(arg)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, arg := range args {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = h.evaluateOne(arg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// evaluateOne applies the dice cap and evaluates a single argument.
func (h *Handler) evaluateOne(arg string) dice.Outcome {
	n := dice.Parse(arg)

	capped := ""
	if n.Form == dice.FormNormal {
		if count, err := n.Count(); err == nil && count > h.opts.MaxDice {
			capped = fmt.Sprintf("%d is too many, rolling %d.", count, h.opts.MaxDice)
			n = n.WithCount(h.opts.MaxDice)
		}
	}

	o := h.roller.EvaluateNotation(n)
	if capped != "" && o.Roll != nil {
		o.Roll.Warn(capped)
	}
	return o
}
