package rolly_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rolly/internal/dice"
	"github.com/cory-johannsen/rolly/internal/rolly"
)

func handle(t *testing.T, src dice.Source, user, command string) rolly.Response {
	t.Helper()
	h, _ := newHandler(t, src, defaultOptions())
	resp, err := h.Handle(context.Background(), rolly.Request{User: user, Command: command})
	require.NoError(t, err)
	return resp
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"auto", "markdown", "pretty", "json", "yaml"} {
		f, err := rolly.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, rolly.Format(name), f)
	}

	f, err := rolly.ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, rolly.FormatJSON, f)

	_, err = rolly.ParseFormat("xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestResolveFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, rolly.FormatMarkdown, rolly.ResolveFormat(rolly.FormatAuto, &buf))
	assert.Equal(t, rolly.FormatJSON, rolly.ResolveFormat(rolly.FormatJSON, &buf))
	assert.Equal(t, rolly.FormatPretty, rolly.ResolveFormat(rolly.FormatPretty, &buf))
}

func TestMarkdown_Rolls(t *testing.T) {
	resp := handle(t, constant(4), "ann", "/roll 20 3d6+1 xyz 0d6")

	want := strings.Join([]string{
		"ann throws the dice…",
		`🎲 "1d20" = **4**`,
		`🎲 "3d6+1" [4 4 4] = **13**`,
		`🎲 🚫 "xyz": I have no idea what to do with this: xyz`,
		`🎲 🚫 "0d6": That accomplished nothing.`,
	}, "\n")
	assert.Equal(t, want, rolly.Markdown(resp))
}

func TestMarkdown_Combos(t *testing.T) {
	resp := handle(t, constant(4), "bo", "dnd+ open")

	lines := strings.Split(rolly.Markdown(resp), "\n")
	require.Len(t, lines, 1+1+6+1)
	assert.Equal(t, "bo throws the dice…", lines[0])
	assert.Equal(t, "🎲 D&D variant:", lines[1])
	for _, l := range lines[2:8] {
		assert.Equal(t, "* 4d6<1 [4 4 4 4] = **12**", l)
	}
	assert.Equal(t, "🎲 Rolemaster open-ended: 1d% [4] = **4**", lines[8])
}

func TestMarkdown_WarningsAndNotices(t *testing.T) {
	resp := handle(t, constant(1), "cy", "1 200d6"+strings.Repeat(" d4", 10))

	out := rolly.Markdown(resp)
	assert.Contains(t, out, "\n⚠️ 12 rolls requested; I'm only doing 10.")
	assert.Contains(t, out, "🎲 \"1d1\" = **1**\n⚠️ Your one-sided die rolls off into the shadows.")
	assert.Contains(t, out, "\n⚠️ 200 is too many, rolling 100.")
	assert.Equal(t, 10, strings.Count(out, "🎲 "))
}

func TestMarkdown_Nothing(t *testing.T) {
	resp := handle(t, constant(1), "di", "/roll")
	assert.Equal(t, "di throws the dice…\n🚫 That accomplished nothing.", rolly.Markdown(resp))
}

func TestMarkdown_Help(t *testing.T) {
	resp := handle(t, constant(1), "di", "/roll help")
	assert.Equal(t, rolly.HelpText(), rolly.Markdown(resp))
}

func TestRender_Pretty(t *testing.T) {
	resp := handle(t, constant(3), "ed", "2d6 q")

	var buf bytes.Buffer
	require.NoError(t, rolly.Render(&buf, resp, rolly.FormatPretty))
	out := buf.String()
	assert.Contains(t, out, "ed throws the dice")
	assert.Contains(t, out, `"2d6"`)
	assert.Contains(t, out, "[3 3]")
	assert.Contains(t, out, "I have no idea what to do with this: q")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestRender_JSON(t *testing.T) {
	resp := handle(t, constant(2), "fi", "3d6/2 dnd 7")

	var buf bytes.Buffer
	require.NoError(t, rolly.Render(&buf, resp, rolly.FormatJSON))

	var got rolly.Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(resp, got, cmpopts.IgnoreFields(dice.RollResult{}, "Err")); diff != "" {
		t.Errorf("json round trip mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, got.Results[0].Roll)
	require.NotNil(t, got.Results[0].Roll.ModifierValue)
	assert.Equal(t, 2, *got.Results[0].Roll.ModifierValue)
	assert.Contains(t, buf.String(), `"modifier": "/"`)
}

func TestRender_YAML(t *testing.T) {
	resp := handle(t, constant(2), "gu", "3d6 open")

	var buf bytes.Buffer
	require.NoError(t, rolly.Render(&buf, resp, rolly.FormatYAML))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, resp.ID.String(), doc["id"])
	assert.Equal(t, "gu", doc["user"])
	assert.Equal(t, 2, doc["requested"])

	results, ok := doc["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)["roll"].(map[string]any)
	assert.Equal(t, 6, first["sum"])
	second := results[1].(map[string]any)["combo"].(map[string]any)
	assert.Equal(t, "open", second["kind"])
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := rolly.Render(&buf, rolly.Response{}, rolly.FormatAuto)
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}
