// Package console is the thin terminal collaborator: line input, masked
// secret entry, yes/no prompts and numeric menu choices. The core packages
// call into it and never touch the terminal themselves.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Console reads prompts from one stream and writes to another. Masked
// input is only attempted when the input is a real terminal; otherwise it
// degrades to a plain line read, which keeps scripted and piped runs
// working.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	secretFD int // file descriptor for masked reads, -1 when unavailable
}

// New returns a console over stdin/stdout.
func New() *Console {
	fd := -1
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fd = int(os.Stdin.Fd())
	}
	return &Console{
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		secretFD: fd,
	}
}

// NewWith returns a console over arbitrary streams. Secret reads are
// unmasked. Intended for tests and scripted input.
func NewWith(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, secretFD: -1}
}

// Printf writes formatted output.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// ReadLine prompts and returns one line without the trailing newline.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadInt prompts and parses an integer. Junk input is an error; the
// caller decides whether to re-prompt.
func (c *Console) ReadInt(prompt string) (int, error) {
	line, err := c.ReadLine(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", line)
	}
	return n, nil
}

// ReadFloat prompts and parses a number.
func (c *Console) ReadFloat(prompt string) (float64, error) {
	line, err := c.ReadLine(prompt)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", line)
	}
	return f, nil
}

// ReadSecret prompts for a value without echoing it when the input is a
// terminal.
func (c *Console) ReadSecret(prompt string) (string, error) {
	if c.secretFD < 0 {
		return c.ReadLine(prompt)
	}
	fmt.Fprint(c.out, prompt)
	secret, err := term.ReadPassword(c.secretFD)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}

// YesNo prompts until the user answers; only an answer starting with 'y'
// or 'Y' is a yes.
func (c *Console) YesNo(prompt string) bool {
	line, err := c.ReadLine(prompt + " (y/n): ")
	if err != nil {
		return false
	}
	line = strings.TrimSpace(line)
	return line != "" && (line[0] == 'y' || line[0] == 'Y')
}
