package dice

import (
	"errors"
	"fmt"
)

// User-facing messages recorded on failed or notable results.
const (
	MsgRollWhat       = "Roll a what?"
	MsgNothing        = "That accomplished nothing."
	MsgDivisionByZero = "Division by zero."
	MsgOneSided       = "Your one-sided die rolls off into the shadows."
	MsgFlagIgnored    = "Flag ignored for open-ended rolls."
	MsgTooManyDice    = "Too many dice."
)

// EvaluateRequest parses text and evaluates it as a single roll.
//
// Combo keywords are not single rolls and come back as unrecognized; use
// EvaluateText or EvaluateCombo for those.
//
// Postcondition: never panics on any input; failures are encoded in the
// result's Error, Message and Err fields.
func EvaluateRequest(src Source, text string) RollResult {
	return RollNotation(src, Parse(text))
}

// RollNotation evaluates an already-parsed notation as a single roll.
//
// Precondition: src must be non-nil.
// Postcondition: Error is true, or len(Rolls) >= 1 and Sum >= 1.
func RollNotation(src Source, n Notation) RollResult {
	r := RollResult{Original: n.Raw, Rolls: []int{}}

	switch n.Form {
	case FormSimple:
		rollSimple(src, n, &r)
	case FormNormal:
		rollNormal(src, n, &r)
	default:
		r.fail(fmt.Errorf("dice: %w: %q", ErrUnrecognizedNotation, n.Raw),
			fmt.Sprintf("I have no idea what to do with this: %s", n.Raw))
		return r
	}

	if !r.Error && len(r.Rolls) == 0 {
		r.fail(fmt.Errorf("dice: %w: %q", ErrNoDiceRolled, n.Raw), MsgNothing)
	}
	return r
}

func rollSimple(src Source, n Notation, r *RollResult) {
	sides, err := n.Sides()
	if err != nil {
		r.fail(err, MsgRollWhat)
		return
	}
	if sides < 1 {
		r.fail(fmt.Errorf("dice: %w: %d", ErrInvalidSideCount, sides), invalidSidesMessage(sides))
		return
	}

	rolls, total, err := RollDice(src, 1, sides, ModNone, 0)
	if err != nil {
		r.fail(err, MsgRollWhat)
		return
	}
	r.Canonical = n.Canonical()
	r.Rolls = append(r.Rolls, rolls[0])
	r.Sum = total
	if sides == 1 {
		r.Warn(MsgOneSided)
	}
}

func rollNormal(src Source, n Notation, r *RollResult) {
	count, err := n.Count()
	if err != nil {
		r.fail(err, MsgRollWhat)
		return
	}
	sides, err := n.Sides()
	if err != nil {
		r.fail(err, MsgRollWhat)
		return
	}
	if sides < 1 {
		r.fail(fmt.Errorf("dice: %w: %d", ErrInvalidSideCount, sides), invalidSidesMessage(sides))
		return
	}
	value, err := n.ModifierValue()
	if err != nil {
		r.fail(err, MsgRollWhat)
		return
	}

	r.Canonical = n.Canonical()
	if n.Modifier != ModNone {
		r.Modifier = n.Modifier
		r.ModifierValue = &value
	}

	rolls, total, err := RollDice(src, count, sides, n.Modifier, value)
	if err != nil {
		switch {
		case errors.Is(err, ErrDivisionByZero):
			r.fail(err, MsgDivisionByZero)
		case errors.Is(err, ErrTooManyDice):
			r.fail(err, MsgTooManyDice)
		default:
			r.fail(err, MsgRollWhat)
		}
		return
	}
	r.Rolls = append(r.Rolls, rolls...)
	r.Sum = total
	if sides == 1 && count > 0 {
		r.Warn(MsgOneSided)
	}
}

func invalidSidesMessage(sides int) string {
	return fmt.Sprintf("%d: Invalid number of sides.", sides)
}
