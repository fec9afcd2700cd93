package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

// ErrTooManyAttempts is returned when a required answer is never given.
var ErrTooManyAttempts = errors.New("no valid answer given")

const maxAttempts = 3

// Prompter asks for the values interactive commands need: credentials and
// checkout details.
type Prompter struct {
	in     io.Reader
	reader *NonBlockingReader
	writer io.Writer
}

// NewPrompter creates a prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: in, reader: NewNonBlockingReader(in), writer: out}
}

func (p *Prompter) prompt(label, def string) error {
	text := label
	if def != "" {
		text += " " + SubtleStyle.Render("["+def+"]")
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(text)); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	return nil
}

// Ask prompts for a value, returning def when the answer is blank.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	if err := p.prompt(label, def); err != nil {
		return "", err
	}
	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskRequired prompts until a non-blank value is given.
func (p *Prompter) AskRequired(ctx context.Context, label, def string) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		answer, err := p.Ask(ctx, label, def)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(answer) != "" {
			return answer, nil
		}
		_, _ = fmt.Fprintln(p.writer, FormatWarning(label+" is required"))
	}
	return "", fmt.Errorf("%w: %s", ErrTooManyAttempts, label)
}

// Choose prompts for one of options.
func (p *Prompter) Choose(ctx context.Context, label string, options []string, def string) (string, error) {
	full := fmt.Sprintf("%s (%s)", label, strings.Join(options, "/"))
	for attempt := 0; attempt < maxAttempts; attempt++ {
		answer, err := p.Ask(ctx, full, def)
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if slices.Contains(options, answer) {
			return answer, nil
		}
		_, _ = fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("Choose one of: %s", strings.Join(options, ", "))))
	}
	return "", fmt.Errorf("%w: %s", ErrTooManyAttempts, label)
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, label string, def bool) (bool, error) {
	defAnswer := "n"
	if def {
		defAnswer = "y"
	}
	answer, err := p.Choose(ctx, label, []string{"y", "n"}, defAnswer)
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}

// AskPassword prompts for a secret. Input is not echoed when it comes from a
// terminal.
func (p *Prompter) AskPassword(ctx context.Context, label string) (string, error) {
	if err := p.prompt(label, ""); err != nil {
		return "", err
	}

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(p.writer)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(secret), nil
	}

	return p.reader.ReadLine(ctx)
}
