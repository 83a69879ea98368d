package rolly

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rolly/internal/dice"
)

// Format selects how a Response is written.
type Format string

// Output formats.
const (
	FormatAuto     Format = "auto"
	FormatMarkdown Format = "markdown"
	FormatPretty   Format = "pretty"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatAuto, FormatMarkdown, FormatPretty, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (supported: auto, markdown, pretty, json, yaml)", s)
}

// ResolveFormat turns FormatAuto into pretty output for terminals and chat
// markdown for everything else. Other formats pass through unchanged.
func ResolveFormat(f Format, out io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if file, ok := out.(*os.File); ok {
		fd := file.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return FormatPretty
		}
	}
	return FormatMarkdown
}

// Render writes resp to w in format f.
//
// Precondition: f must not be FormatAuto; resolve it first.
func Render(w io.Writer, resp Response, f Format) error {
	switch f {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(resp)+"\n")
		return err
	case FormatPretty:
		_, err := io.WriteString(w, pretty(w, resp)+"\n")
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("cannot render format %q", f)
}

// Markdown renders resp as the chat message a plugin would post.
func Markdown(resp Response) string {
	if resp.Help != "" {
		return resp.Help
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s throws the dice…", resp.User)
	for _, n := range resp.Notices {
		if n == dice.MsgNothing {
			fmt.Fprintf(&b, "\n🚫 %s", n)
			continue
		}
		fmt.Fprintf(&b, "\n⚠️ %s", n)
	}
	for _, o := range resp.Results {
		b.WriteString("\n🎲 ")
		writeOutcome(&b, o, markdownStyle{})
	}
	return b.String()
}

// style decorates the pieces of a rendered roll.
type style interface {
	sum(n int) string
	dice(rolls []int) string
	label(s string) string
	err(s string) string
	warn(s string) string
}

type markdownStyle struct{}

func (markdownStyle) sum(n int) string       { return fmt.Sprintf("**%d**", n) }
func (markdownStyle) dice(rolls []int) string { return fmt.Sprintf("%v", rolls) }
func (markdownStyle) label(s string) string   { return s }
func (markdownStyle) err(s string) string     { return "🚫 " + s }
func (markdownStyle) warn(s string) string    { return "⚠️ " + s }

func writeOutcome(b *strings.Builder, o dice.Outcome, st style) {
	switch {
	case o.Combo != nil:
		writeCombo(b, *o.Combo, st)
	case o.Roll != nil:
		writeRoll(b, *o.Roll, st)
	}
}

func writeRoll(b *strings.Builder, r dice.RollResult, st style) {
	if r.Error {
		b.WriteString(st.err(fmt.Sprintf("%q: %s", r.Original, r.Message)))
		return
	}
	if len(r.Rolls) == 1 && r.Modifier == dice.ModNone {
		fmt.Fprintf(b, "%s = %s", st.label(fmt.Sprintf("%q", r.Canonical)), st.sum(r.Sum))
	} else {
		fmt.Fprintf(b, "%s %s = %s", st.label(fmt.Sprintf("%q", r.Original)), st.dice(r.Rolls), st.sum(r.Sum))
	}
	if r.Warning != "" {
		b.WriteString("\n" + st.warn(r.Warning))
	}
}

func writeCombo(b *strings.Builder, c dice.ComboResult, st style) {
	switch c.Kind {
	case dice.ComboStats:
		title := "D&D standard:"
		if c.Flag {
			title = "D&D variant:"
		}
		b.WriteString(st.label(title))
		for _, r := range c.Results {
			if r.Error {
				b.WriteString("\n* " + st.err(r.Message))
				continue
			}
			fmt.Fprintf(b, "\n* %s %s = %s", r.Canonical, st.dice(r.Rolls), st.sum(r.Sum))
		}
	case dice.ComboOpen:
		r := c.Results[0]
		fmt.Fprintf(b, "%s 1d%% %s = %s", st.label("Rolemaster open-ended:"), st.dice(r.Rolls), st.sum(r.Sum))
		if r.Warning != "" {
			b.WriteString("\n" + st.warn(r.Warning))
		}
	}
}

// lipglossStyle renders through a lipgloss renderer bound to the output, so
// colors appear only when the writer supports them.
type lipglossStyle struct {
	sumStyle   lipgloss.Style
	diceStyle  lipgloss.Style
	labelStyle lipgloss.Style
	errStyle   lipgloss.Style
	warnStyle  lipgloss.Style
}

func newLipglossStyle(w io.Writer) lipglossStyle {
	r := lipgloss.NewRenderer(w)
	return lipglossStyle{
		sumStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		diceStyle:  r.NewStyle().Faint(true),
		labelStyle: r.NewStyle().Foreground(lipgloss.Color("12")),
		errStyle:   r.NewStyle().Foreground(lipgloss.Color("9")),
		warnStyle:  r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

func (s lipglossStyle) sum(n int) string       { return s.sumStyle.Render(fmt.Sprintf("%d", n)) }
func (s lipglossStyle) dice(rolls []int) string { return s.diceStyle.Render(fmt.Sprintf("%v", rolls)) }
func (s lipglossStyle) label(v string) string   { return s.labelStyle.Render(v) }
func (s lipglossStyle) err(v string) string     { return s.errStyle.Render("✗ " + v) }
func (s lipglossStyle) warn(v string) string    { return s.warnStyle.Render("! " + v) }

func pretty(w io.Writer, resp Response) string {
	if resp.Help != "" {
		return resp.Help
	}
	st := newLipglossStyle(w)

	var b strings.Builder
	b.WriteString(st.labelStyle.Bold(true).Render(resp.User + " throws the dice"))
	for _, n := range resp.Notices {
		b.WriteString("\n" + st.warn(n))
	}
	for _, o := range resp.Results {
		b.WriteString("\n  ")
		writeOutcome(&b, o, st)
	}
	return b.String()
}
