package rolly_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/rolly/internal/rolly"
)

func newConsole(t *testing.T, in io.Reader, out io.Writer, f rolly.Format) *rolly.Console {
	t.Helper()
	h, _ := newHandler(t, constant(3), defaultOptions())
	return rolly.NewConsole(h, in, out, f, "ann", zaptest.NewLogger(t))
}

func TestConsole_RollsEachLineUntilEOF(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out bytes.Buffer
	c := newConsole(t, strings.NewReader("3d6\n\n  d8  \n"), &out, rolly.FormatMarkdown)
	require.NoError(t, c.Run(context.Background()))

	want := "ann throws the dice…\n🎲 \"3d6\" [3 3 3] = **9**\n" +
		"ann throws the dice…\n🎲 \"1d8\" = **3**\n"
	assert.Equal(t, want, out.String())
}

func TestConsole_QuitStopsReading(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out bytes.Buffer
	c := newConsole(t, strings.NewReader("d6\nQUIT\nd20\n"), &out, rolly.FormatMarkdown)
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, 1, strings.Count(out.String(), "throws the dice"))
	assert.NotContains(t, out.String(), "1d20")
}

func TestConsole_PrettyPrompts(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(t, strings.NewReader("d6\nexit\n"), &out, rolly.FormatPretty)
	require.NoError(t, c.Run(context.Background()))

	assert.True(t, strings.HasPrefix(out.String(), "> "))
	assert.Equal(t, 2, strings.Count(out.String(), "> "))
}

func TestConsole_JSONLines(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(t, strings.NewReader("2d4\n4d6<1\n"), &out, rolly.FormatJSON)
	require.NoError(t, c.Run(context.Background()))

	dec := json.NewDecoder(&out)
	var sums []int
	for dec.More() {
		var resp rolly.Response
		require.NoError(t, dec.Decode(&resp))
		require.Len(t, resp.Results, 1)
		sums = append(sums, resp.Results[0].Roll.Sum)
	}
	assert.Equal(t, []int{6, 9}, sums)
}

func TestConsole_ContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, w := io.Pipe()
	// Closing the writer unblocks the reader goroutine before the leak check.
	defer w.Close()

	var out bytes.Buffer
	c := newConsole(t, in, &out, rolly.FormatMarkdown)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop on cancel")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestConsole_ReadError(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(t, failingReader{}, &out, rolly.FormatMarkdown)
	err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading console input")
	assert.Contains(t, err.Error(), "disk on fire")
}
