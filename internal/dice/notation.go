package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Form identifies which notation shape a request matched.
type Form int

const (
	// FormInvalid matches nothing.
	FormInvalid Form = iota
	// FormSimple is a bare sides specifier: "20", "%".
	FormSimple
	// FormCombo is a named combo keyword: "dnd", "d&d+", "open".
	FormCombo
	// FormNormal is a dice roll: "3d6", "d%", "4d6<1", "20+3".
	FormNormal
)

// String returns the lowercase name of the form.
func (f Form) String() string {
	switch f {
	case FormSimple:
		return "simple"
	case FormCombo:
		return "combo"
	case FormNormal:
		return "normal"
	default:
		return "invalid"
	}
}

// Combo keywords, lowercase.
const (
	KeywordDnD  = "dnd"
	KeywordDAnd = "d&d"
	KeywordOpen = "open"
)

// Notation is the parsed, still-textual form of a request. Numeric fields are
// kept as digit runs so absent fields stay distinguishable from zero and so
// overflow is reported at evaluation time rather than at parse time.
type Notation struct {
	Raw  string
	Form Form

	// CountDigits is empty when the dice count was omitted ("d6").
	CountDigits string
	// SidesDigits is empty when Percent is set.
	SidesDigits    string
	Percent        bool
	Modifier       Modifier
	ModifierDigits string

	// ComboName is lowercased; ComboFlag records a trailing "+".
	ComboName string
	ComboFlag bool
}

// Parse classifies text against the three notation forms in priority order
// (simple, combo, normal). Matching is case-insensitive and covers the whole
// string; any whitespace makes the input invalid.
//
// Postcondition: the returned Notation has Raw == text; Form is FormInvalid
// when nothing matched.
func Parse(text string) Notation {
	s := strings.ToLower(text)
	if n, ok := parseSimple(s); ok {
		n.Raw = text
		return n
	}
	if n, ok := parseCombo(s); ok {
		n.Raw = text
		return n
	}
	if n, ok := parseNormal(s); ok {
		n.Raw = text
		return n
	}
	return Notation{Raw: text, Form: FormInvalid}
}

// digitRun returns the end index of the run of ASCII digits starting at i.
func digitRun(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func parseSimple(s string) (Notation, bool) {
	if s == "%" {
		return Notation{Form: FormSimple, Percent: true}, true
	}
	if s != "" && digitRun(s, 0) == len(s) {
		return Notation{Form: FormSimple, SidesDigits: s}, true
	}
	return Notation{}, false
}

func parseCombo(s string) (Notation, bool) {
	name, flag := s, false
	if strings.HasSuffix(s, "+") {
		name, flag = s[:len(s)-1], true
	}
	switch name {
	case KeywordDnD, KeywordDAnd, KeywordOpen:
		return Notation{Form: FormCombo, ComboName: name, ComboFlag: flag}, true
	}
	return Notation{}, false
}

func parseNormal(s string) (Notation, bool) {
	n := Notation{Form: FormNormal}
	i := 0

	// Optional "[count]d" group. Without the 'd', leading digits are the sides.
	if end := digitRun(s, 0); end < len(s) && s[end] == 'd' {
		n.CountDigits = s[:end]
		i = end + 1
	}

	switch {
	case i < len(s) && s[i] == '%':
		n.Percent = true
		i++
	default:
		end := digitRun(s, i)
		if end == i {
			return Notation{}, false
		}
		n.SidesDigits = s[i:end]
		i = end
	}

	if i == len(s) {
		return n, true
	}

	mod, ok := ParseModifier(s[i])
	if !ok {
		return Notation{}, false
	}
	end := digitRun(s, i+1)
	if end == i+1 || end != len(s) {
		return Notation{}, false
	}
	n.Modifier = mod
	n.ModifierDigits = s[i+1:]
	return n, true
}

// Count returns the number of dice, defaulting to 1 when omitted.
func (n Notation) Count() (int, error) {
	if n.CountDigits == "" {
		return 1, nil
	}
	v, err := strconv.Atoi(n.CountDigits)
	if err != nil {
		return 0, fmt.Errorf("dice: %w in %q: %w", ErrUnparseableCount, n.Raw, err)
	}
	return v, nil
}

// Sides returns the number of faces per die; "%" means 100.
func (n Notation) Sides() (int, error) {
	if n.Percent {
		return 100, nil
	}
	v, err := strconv.Atoi(n.SidesDigits)
	if err != nil {
		return 0, fmt.Errorf("dice: %w in %q: %w", ErrUnparseableSides, n.Raw, err)
	}
	return v, nil
}

// ModifierValue returns the modifier operand, or 0 when there is no modifier.
func (n Notation) ModifierValue() (int, error) {
	if n.Modifier == ModNone {
		return 0, nil
	}
	v, err := strconv.Atoi(n.ModifierDigits)
	if err != nil {
		return 0, fmt.Errorf("dice: %w in %q: %w", ErrUnparseableModifier, n.Raw, err)
	}
	return v, nil
}

// WithCount returns a copy of a normal notation with its dice count replaced.
func (n Notation) WithCount(count int) Notation {
	n.CountDigits = strconv.Itoa(count)
	return n
}

// Canonical renders a simple or normal notation as "{count}d{sides}{mod}{value}",
// writing 100 sides as "%". Combos render as their keyword. Inputs whose
// numeric fields do not parse, and invalid inputs, render as Raw.
func (n Notation) Canonical() string {
	switch n.Form {
	case FormCombo:
		if n.ComboFlag {
			return n.ComboName + "+"
		}
		return n.ComboName
	case FormSimple, FormNormal:
	default:
		return n.Raw
	}

	count, err := n.Count()
	if err != nil {
		return n.Raw
	}
	sides, err := n.Sides()
	if err != nil {
		return n.Raw
	}
	value, err := n.ModifierValue()
	if err != nil {
		return n.Raw
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(count))
	b.WriteByte('d')
	if sides == 100 {
		b.WriteByte('%')
	} else {
		b.WriteString(strconv.Itoa(sides))
	}
	if n.Modifier != ModNone {
		b.WriteString(string(n.Modifier))
		b.WriteString(strconv.Itoa(value))
	}
	return b.String()
}
