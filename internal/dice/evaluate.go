package dice

// EvaluateText is the combined entry point: combos are expanded, everything
// else is evaluated as a single roll.
//
// Postcondition: exactly one of Outcome.Roll and Outcome.Combo is non-nil.
func EvaluateText(src Source, text string) Outcome {
	return EvaluateNotation(src, Parse(text))
}

// EvaluateNotation dispatches an already-parsed notation. Callers that need to
// adjust a request before rolling (capping the dice count, say) parse first,
// adjust, then call this.
func EvaluateNotation(src Source, n Notation) Outcome {
	if n.Form == FormCombo {
		if c, err := ExpandCombo(src, n); err == nil {
			return Outcome{Combo: &c}
		}
	}
	r := RollNotation(src, n)
	return Outcome{Roll: &r}
}
