package dice

import "fmt"

// MaxOpenRerolls bounds the open-ended reroll chain. Each reroll has a 6%
// chance of continuing, so the bound is never reached by a fair source.
const MaxOpenRerolls = 1000

// openThreshold is the percentile draw at or above which an open-ended roll
// rolls again.
const openThreshold = 95

// statCount is the number of ability scores a character needs.
const statCount = 6

var (
	statStandard = Notation{Raw: "3d6", Form: FormNormal, CountDigits: "3", SidesDigits: "6"}
	statVariant  = Notation{Raw: "4d6<1", Form: FormNormal, CountDigits: "4", SidesDigits: "6",
		Modifier: ModDropLowest, ModifierDigits: "1"}
	percentile = Notation{Raw: "d%", Form: FormNormal, Percent: true}
)

// EvaluateCombo parses text and expands it as a combo.
//
// Postcondition: returns ErrNotCombo when text is not a combo keyword.
func EvaluateCombo(src Source, text string) (ComboResult, error) {
	return ExpandCombo(src, Parse(text))
}

// ExpandCombo expands a combo notation into its underlying rolls.
//
//   - "dnd", "d&d": six 3d6 rolls.
//   - "dnd+", "d&d+": six 4d6<1 rolls (roll four, drop the lowest).
//   - "open", "open+": a d% that rolls again and adds while the latest draw
//     is 95 or more. The flag is ignored with a warning.
//
// Precondition: src must be non-nil.
// Postcondition: Kind == ComboStats implies len(Results) == 6;
// Kind == ComboOpen implies len(Results) == 1.
func ExpandCombo(src Source, n Notation) (ComboResult, error) {
	if n.Form != FormCombo {
		return ComboResult{}, fmt.Errorf("dice: %w: %q", ErrNotCombo, n.Raw)
	}

	c := ComboResult{Original: n.Raw, Name: n.ComboName, Flag: n.ComboFlag}
	switch n.ComboName {
	case KeywordDnD, KeywordDAnd:
		stat := statStandard
		if n.ComboFlag {
			stat = statVariant
		}
		c.Kind = ComboStats
		c.Results = make([]RollResult, 0, statCount)
		for i := 0; i < statCount; i++ {
			c.Results = append(c.Results, RollNotation(src, stat))
		}
	case KeywordOpen:
		c.Kind = ComboOpen
		c.Results = []RollResult{rollOpenEnded(src, n.ComboFlag)}
	default:
		return ComboResult{}, fmt.Errorf("dice: %w: unknown combo %q", ErrNotCombo, n.ComboName)
	}
	return c, nil
}

// rollOpenEnded runs the open-ended chain: Rolling until a draw below the
// threshold, then Done.
func rollOpenEnded(src Source, flag bool) RollResult {
	r := RollNotation(src, percentile)
	if flag {
		r.Warn(MsgFlagIgnored)
	}

	last := r.Rolls[0]
	for rerolls := 0; last >= openThreshold; rerolls++ {
		if rerolls == MaxOpenRerolls {
			r.Warn(fmt.Sprintf("Open-ended roll stopped after %d rerolls.", MaxOpenRerolls))
			break
		}
		next := RollNotation(src, percentile)
		last = next.Rolls[0]
		r.Rolls = append(r.Rolls, last)
		r.Sum += last
	}
	return r
}
