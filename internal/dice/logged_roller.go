package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice evaluation.
// Every evaluation is logged at debug level with the request, rolls, modifier,
// sum and any error or warning.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each result to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the randomness provider the Roller draws from.
func (r *Roller) Source() Source {
	return r.src
}

// Request evaluates text as a single roll and logs the result.
func (r *Roller) Request(text string) RollResult {
	res := EvaluateRequest(r.src, text)
	r.logRoll(res)
	return res
}

// Combo evaluates text as a combo and logs every sub-roll.
//
// Postcondition: returns ErrNotCombo when text is not a combo keyword.
func (r *Roller) Combo(text string) (ComboResult, error) {
	c, err := EvaluateCombo(r.src, text)
	if err != nil {
		r.logger.Debug("combo rejected", zap.String("request", text), zap.Error(err))
		return ComboResult{}, err
	}
	r.logCombo(c)
	return c, nil
}

// Evaluate dispatches text through the combined entry point and logs the outcome.
func (r *Roller) Evaluate(text string) Outcome {
	return r.EvaluateNotation(Parse(text))
}

// EvaluateNotation dispatches a parsed notation and logs the outcome.
func (r *Roller) EvaluateNotation(n Notation) Outcome {
	o := EvaluateNotation(r.src, n)
	switch {
	case o.Combo != nil:
		r.logCombo(*o.Combo)
	case o.Roll != nil:
		r.logRoll(*o.Roll)
	}
	return o
}

func (r *Roller) logRoll(res RollResult) {
	fields := []zap.Field{
		zap.String("request", res.Original),
		zap.String("notation", res.Canonical),
		zap.Ints("rolls", res.Rolls),
		zap.String("modifier", res.Modifier.Name()),
		zap.Int("sum", res.Sum),
	}
	if res.ModifierValue != nil {
		fields = append(fields, zap.Int("modifier_value", *res.ModifierValue))
	}
	if res.Warning != "" {
		fields = append(fields, zap.String("warning", res.Warning))
	}
	if res.Error {
		fields = append(fields, zap.String("message", res.Message), zap.Error(res.Err))
		r.logger.Debug("dice roll failed", fields...)
		return
	}
	r.logger.Debug("dice roll", fields...)
}

func (r *Roller) logCombo(c ComboResult) {
	r.logger.Debug("dice combo",
		zap.String("request", c.Original),
		zap.String("combo", c.Name),
		zap.Bool("flag", c.Flag),
		zap.Int("results", len(c.Results)),
	)
	for _, res := range c.Results {
		r.logRoll(res)
	}
}
