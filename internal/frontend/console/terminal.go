package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrClosed is returned by ReadLine once input is exhausted.
var ErrClosed = errors.New("console input closed")

// Terminal is a line-oriented reader and writer. With color disabled every
// ANSI sequence is stripped before writing.
type Terminal struct {
	mu    sync.Mutex
	in    *bufio.Reader
	out   io.Writer
	color bool
}

// NewTerminal wraps in and out.
//
// Precondition: in and out must be non-nil.
func NewTerminal(in io.Reader, out io.Writer, color bool) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, color: color}
}

// ReadLine reads one line without its line ending.
//
// Postcondition: Returns ErrClosed at end of input with nothing buffered.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", ErrClosed
			}
		} else {
			return "", fmt.Errorf("reading input: %w", err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// WriteLine writes text followed by a newline.
func (t *Terminal) WriteLine(text string) error {
	return t.write(text + "\n")
}

// WritePrompt writes prompt without a newline.
func (t *Terminal) WritePrompt(prompt string) error {
	return t.write(prompt)
}

// Ask writes prompt and reads the reply.
func (t *Terminal) Ask(prompt string) (string, error) {
	if err := t.WritePrompt(prompt); err != nil {
		return "", err
	}
	return t.ReadLine()
}

func (t *Terminal) write(s string) error {
	if !t.color {
		s = StripANSI(s)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.out, s); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
