package linker

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Decision is the answer from a write confirmation.
type Decision int

const (
	// DecisionNo skips writing the current document.
	DecisionNo Decision = iota
	// DecisionYes writes the current document.
	DecisionYes
	// DecisionAbort stops processing all remaining documents.
	DecisionAbort
)

// Confirmer asks whether pending assignments should be written to a document.
type Confirmer interface {
	Confirm(path string, pending []Assignment) (Decision, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(path string, pending []Assignment) (Decision, error)

func (f ConfirmFunc) Confirm(path string, pending []Assignment) (Decision, error) {
	return f(path, pending)
}

// ConsoleConfirmer lists pending assignments and reads a yes/no/abort answer
// line by line. The zero answer (including EOF) is No.
type ConsoleConfirmer struct {
	in    *bufio.Reader
	out   io.Writer
	quiet bool
}

// NewConsoleConfirmer returns a Confirmer prompting on out and reading
// answers from in. With quiet set the assignment listing is suppressed and
// only the prompt itself is printed.
func NewConsoleConfirmer(in io.Reader, out io.Writer, quiet bool) *ConsoleConfirmer {
	return &ConsoleConfirmer{in: bufio.NewReader(in), out: out, quiet: quiet}
}

func (c *ConsoleConfirmer) Confirm(path string, pending []Assignment) (Decision, error) {
	if !c.quiet && len(pending) > 0 {
		fmt.Fprintln(c.out, "Found the following heightmaps:")
		for _, a := range pending {
			img := "<none>"
			if a.Image != nil {
				img = filepath.Base(a.Image.Path)
			}
			fmt.Fprintf(c.out, "  Add %q to material %q (matching image %q)\n", a.Candidate.Rel, a.MaterialName, img)
		}
	}
	fmt.Fprintf(c.out, "Write to %s? [Yes/No/Abort] (default: No): ", path)

	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return DecisionNo, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return DecisionYes, nil
	case "a", "abort":
		return DecisionAbort, nil
	default:
		return DecisionNo, nil
	}
}
