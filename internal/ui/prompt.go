package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrPasswordMismatch is returned when a confirmation does not match
var ErrPasswordMismatch = errors.New("passwords do not match")

// Prompter reads operator input. Passwords are read without echo when
// stdin is a terminal.
type Prompter struct {
	out    io.Writer
	reader *bufio.Reader
	fd     int
	isTTY  bool
}

// NewPrompter creates a prompter over stdin/stderr
func NewPrompter() *Prompter {
	return newPrompter(os.Stdin, os.Stderr, int(os.Stdin.Fd()), term.IsTerminal(int(os.Stdin.Fd())))
}

// NewPrompterFrom creates a prompter over arbitrary streams; input is read
// line by line with echo.
func NewPrompterFrom(in io.Reader, out io.Writer) *Prompter {
	return newPrompter(in, out, -1, false)
}

func newPrompter(in io.Reader, out io.Writer, fd int, isTTY bool) *Prompter {
	return &Prompter{out: out, reader: bufio.NewReader(in), fd: fd, isTTY: isTTY}
}

// Line prints label and returns the trimmed line typed by the operator
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Password prints label and reads a secret
func (p *Prompter) Password(label string) (string, error) {
	if !p.isTTY {
		line, err := p.Line(label)
		return line, err
	}

	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// NewPassword reads a secret twice and checks both entries match
func (p *Prompter) NewPassword(label string) (string, error) {
	first, err := p.Password(label)
	if err != nil {
		return "", err
	}
	second, err := p.Password("Confirm " + strings.ToLower(label[:1]) + label[1:])
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrPasswordMismatch
	}
	return first, nil
}

// Confirm asks a yes/no question; the default applies to an empty answer
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	hint := " [y/N]: "
	if def {
		hint = " [Y/n]: "
	}
	answer, err := p.Line(question + hint)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
