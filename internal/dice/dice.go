// Package dice parses tabletop dice notation ("3d6+2", "d%", "dnd+", "open")
// and evaluates it into structured roll results.
//
// Every evaluation takes its randomness from an explicit Source, so results are
// reproducible with a seeded source and fair with the crypto-backed one.
package dice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSideCount is returned when a die has fewer than one side.
	ErrInvalidSideCount = errors.New("invalid number of sides")
	// ErrUnparseableSides is returned when the sides field cannot be read as an int.
	ErrUnparseableSides = errors.New("unparseable number of sides")
	// ErrUnparseableCount is returned when the dice count cannot be read as an int.
	ErrUnparseableCount = errors.New("unparseable number of dice")
	// ErrUnparseableModifier is returned when the modifier operand cannot be read as an int.
	ErrUnparseableModifier = errors.New("unparseable modifier value")
	// ErrNoDiceRolled is returned when a request produced no rolls at all.
	ErrNoDiceRolled = errors.New("no dice rolled")
	// ErrUnrecognizedNotation is returned when the input matches no notation form.
	ErrUnrecognizedNotation = errors.New("unrecognized notation")
	// ErrDivisionByZero is returned for a divide modifier with a zero operand.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrTooManyDice is returned when a roll asks for more than MaxRollCount dice.
	ErrTooManyDice = errors.New("too many dice")
	// ErrTotalOverflow is returned when a roll's total does not fit in an int.
	ErrTotalOverflow = errors.New("total overflows")
	// ErrNotCombo is returned when EvaluateCombo is handed a non-combo request.
	ErrNotCombo = errors.New("not a combo")
)

// Modifier is the post-processing operation applied to a roll's total.
type Modifier string

// Modifier values. The string form is the notation character.
const (
	ModNone       Modifier = ""
	ModAdd        Modifier = "+"
	ModSubtract   Modifier = "-"
	ModDivide     Modifier = "/"
	ModDropLowest Modifier = "<"
)

// ParseModifier maps a notation character to its Modifier.
func ParseModifier(c byte) (Modifier, bool) {
	switch c {
	case '+':
		return ModAdd, true
	case '-':
		return ModSubtract, true
	case '/':
		return ModDivide, true
	case '<':
		return ModDropLowest, true
	}
	return ModNone, false
}

// Name returns a human-readable name for the modifier.
func (m Modifier) Name() string {
	switch m {
	case ModAdd:
		return "add"
	case ModSubtract:
		return "subtract"
	case ModDivide:
		return "divide"
	case ModDropLowest:
		return "drop-lowest"
	default:
		return "none"
	}
}

// RollResult is the structured outcome of evaluating one roll request.
//
// Invariant: ModifierValue != nil iff Modifier != ModNone.
// Invariant: Error is false implies len(Rolls) >= 1 and Sum >= 1.
// Invariant: Error is true implies Sum == 0.
type RollResult struct {
	// Original is the raw request text, echoed back for display.
	Original string `json:"original" yaml:"original"`
	// Canonical is the normalized notation, e.g. "1d%" for "d100". Informational only.
	Canonical string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	// Rolls holds every die face drawn, in draw order.
	Rolls         []int    `json:"rolls" yaml:"rolls"`
	Modifier      Modifier `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	ModifierValue *int     `json:"modifier_value,omitempty" yaml:"modifier_value,omitempty"`
	Sum           int      `json:"sum" yaml:"sum"`
	Error         bool     `json:"error" yaml:"error"`
	Message       string   `json:"message,omitempty" yaml:"message,omitempty"`
	Warning       string   `json:"warning,omitempty" yaml:"warning,omitempty"`

	// Err is the typed cause behind Error; match it with errors.Is.
	Err error `json:"-" yaml:"-"`
}

// fail records err on the result with a user-facing message.
func (r *RollResult) fail(err error, message string) {
	r.Error = true
	r.Sum = 0
	r.Err = err
	r.Message = message
}

// Warn appends an advisory note, keeping earlier ones. Warnings never set Error.
func (r *RollResult) Warn(msg string) {
	if r.Warning == "" {
		r.Warning = msg
		return
	}
	r.Warning += " " + msg
}

// String returns an audit line in the form
//
//	"3d6+1 → [4 2 6] = 13"
func (r RollResult) String() string {
	label := r.Canonical
	if label == "" {
		label = r.Original
	}
	if r.Error {
		return fmt.Sprintf("%s → error: %s", label, r.Message)
	}
	return fmt.Sprintf("%s → %v = %d", label, r.Rolls, r.Sum)
}

// ComboKind distinguishes the two shapes a combo expands into.
type ComboKind string

const (
	// ComboStats is a list of six ability-score rolls.
	ComboStats ComboKind = "stats"
	// ComboOpen is a single open-ended percentile chain.
	ComboOpen ComboKind = "open"
)

// ComboResult is the outcome of expanding a named combo.
//
// Kind == ComboStats: len(Results) == 6, one per ability score, in roll order.
// Kind == ComboOpen: len(Results) == 1.
type ComboResult struct {
	Original string       `json:"original" yaml:"original"`
	Name     string       `json:"name" yaml:"name"`
	Flag     bool         `json:"flag" yaml:"flag"`
	Kind     ComboKind    `json:"kind" yaml:"kind"`
	Results  []RollResult `json:"results" yaml:"results"`
}

// String joins the audit lines of every sub-roll.
func (c ComboResult) String() string {
	lines := make([]string, 0, len(c.Results)+1)
	lines = append(lines, c.Original+":")
	for _, r := range c.Results {
		lines = append(lines, "  "+r.String())
	}
	return strings.Join(lines, "\n")
}

// Outcome is what the combined entry point produces: exactly one of Roll or
// Combo is non-nil.
type Outcome struct {
	Roll  *RollResult  `json:"roll,omitempty" yaml:"roll,omitempty"`
	Combo *ComboResult `json:"combo,omitempty" yaml:"combo,omitempty"`
}

// Failed reports whether the outcome carries an error.
func (o Outcome) Failed() bool {
	if o.Roll != nil {
		return o.Roll.Error
	}
	if o.Combo != nil {
		for _, r := range o.Combo.Results {
			if r.Error {
				return true
			}
		}
	}
	return false
}
