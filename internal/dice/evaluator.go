package dice

import (
	"fmt"
	"math"
)

// MaxRollCount bounds the dice a single evaluation will draw. Batch callers
// apply their own, much smaller, cap before this one is reached.
const MaxRollCount = 1_000_000

// RollDice rolls count dice with the given number of sides and applies at most
// one modifier to the total.
//
// Rolls are returned in draw order. The minimum is tracked while drawing so
// drop-lowest needs no second pass; the dropped die stays in the returned rolls.
// Divide uses floor division. After the modifier the total is clamped to >= 1.
//
// Precondition: src must be non-nil; count >= 0.
// Postcondition: on success len(rolls) == count, every roll is in [1, sides],
// and total >= 1. Counts above MaxRollCount fail with ErrTooManyDice before any
// draw; a total that would not fit in an int fails with ErrTotalOverflow.
func RollDice(src Source, count, sides int, mod Modifier, value int) ([]int, int, error) {
	if sides < 1 {
		return nil, 0, fmt.Errorf("dice: %w: %d", ErrInvalidSideCount, sides)
	}
	if count < 0 {
		return nil, 0, fmt.Errorf("dice: %w: negative count %d", ErrNoDiceRolled, count)
	}
	if count > MaxRollCount {
		return nil, 0, fmt.Errorf("dice: %w: %d > %d", ErrTooManyDice, count, MaxRollCount)
	}
	if mod == ModDivide && value == 0 {
		return nil, 0, fmt.Errorf("dice: %w", ErrDivisionByZero)
	}

	rolls := make([]int, 0, min(count, 128))
	total := 0
	minimum := sides
	for i := 0; i < count; i++ {
		v := IntRange(src, 1, sides)
		rolls = append(rolls, v)
		if v > math.MaxInt-total {
			return nil, 0, fmt.Errorf("dice: %w: %dd%d", ErrTotalOverflow, count, sides)
		}
		total += v
		if v < minimum {
			minimum = v
		}
	}

	switch mod {
	case ModAdd:
		if value > math.MaxInt-total {
			return nil, 0, fmt.Errorf("dice: %w: %d+%d", ErrTotalOverflow, total, value)
		}
		total += value
	case ModSubtract:
		total -= value
	case ModDivide:
		total = floorDiv(total, value)
	case ModDropLowest:
		if len(rolls) > 0 {
			total -= minimum
		}
	}

	if total < 1 {
		total = 1
	}
	return rolls, total, nil
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
