package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// ErrInterrupted is returned by a Prompter when the user presses Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// Prompter reads one line of input after printing a label.
// io.EOF signals that input is exhausted.
type Prompter interface {
	Prompt(label string) (string, error)
	PromptSecret(label string) (string, error)
	Close() error
}

// NewPrompter returns a readline-backed prompter when in is a terminal and a
// plain line reader otherwise (pipes, redirected files, tests).
func NewPrompter(in io.Reader, out io.Writer) (Prompter, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return newReadlinePrompter(f, out)
	}
	return newLinePrompter(in, out), nil
}

type readlinePrompter struct {
	rl *readline.Instance
}

func newReadlinePrompter(in *os.File, out io.Writer) (*readlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:           in,
		Stdout:          out,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt: %w", err)
	}
	return &readlinePrompter{rl: rl}, nil
}

func (p *readlinePrompter) Prompt(label string) (string, error) {
	p.rl.SetPrompt(label)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	return line, err
}

// PromptSecret reads without echoing the typed characters.
func (p *readlinePrompter) PromptSecret(label string) (string, error) {
	b, err := p.rl.ReadPassword(label)
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	return string(b), err
}

func (p *readlinePrompter) Close() error {
	return p.rl.Close()
}

type linePrompter struct {
	r   *bufio.Reader
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{r: bufio.NewReader(in), out: out}
}

func (p *linePrompter) Prompt(label string) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	line, err := p.r.ReadString('\n')
	if err != nil {
		// A last line without a trailing newline still counts.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *linePrompter) PromptSecret(label string) (string, error) {
	return p.Prompt(label)
}

func (p *linePrompter) Close() error { return nil }
