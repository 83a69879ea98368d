package rolly

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Console is an interactive session: every input line is one roll command.
// "quit" or "exit" ends the session, as does end of input.
type Console struct {
	handler *Handler
	in      io.Reader
	out     io.Writer
	format  Format
	user    string
	logger  *zap.Logger
}

// NewConsole creates a Console reading commands from in and writing results to out.
//
// Precondition: handler, in, out and logger must be non-nil; format must not be FormatAuto.
func NewConsole(handler *Handler, in io.Reader, out io.Writer, format Format, user string, logger *zap.Logger) *Console {
	return &Console{
		handler: handler,
		in:      in,
		out:     out,
		format:  format,
		user:    user,
		logger:  logger,
	}
}

// Run processes input lines until end of input, a quit command, or ctx ends.
//
// Postcondition: returns nil on end of input or quit, ctx.Err() on cancellation,
// or the first read/write error.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if err := c.prompt(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("reading console input: %w", err)
					}
				default:
				}
				return nil
			}
			done, err := c.handleLine(ctx, line)
			if err != nil || done {
				return err
			}
		}
	}
}

func (c *Console) prompt() error {
	if c.format != FormatPretty {
		return nil
	}
	_, err := io.WriteString(c.out, "> ")
	return err
}

func (c *Console) handleLine(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	}

	resp, err := c.handler.Handle(ctx, Request{User: c.user, Command: line})
	if err != nil {
		return false, err
	}
	if err := Render(c.out, resp, c.format); err != nil {
		c.logger.Error("rendering roll response",
			zap.String("id", resp.ID.String()),
			zap.Error(err),
		)
		return false, err
	}
	return false, nil
}
