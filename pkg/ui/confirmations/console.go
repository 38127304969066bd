// Package confirmations asks the user to approve a plan before it runs.
package confirmations

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/homer/pkg/errors"
)

// Confirmer approves or rejects a rendered plan summary
type Confirmer interface {
	Confirm(summary string) (bool, error)
}

// ConsoleDialog prints the summary and reads a y/N answer
type ConsoleDialog struct {
	in     io.Reader
	out    io.Writer
	prompt string
}

// DefaultPrompt is shown after the summary
const DefaultPrompt = "Continue with these operations? [y/N]: "

// NewConsoleDialog creates a dialog on stdin and stdout
func NewConsoleDialog() *ConsoleDialog {
	return NewConsoleDialogWithIO(os.Stdin, os.Stdout)
}

// NewConsoleDialogWithIO creates a dialog on the given reader and writer
func NewConsoleDialogWithIO(in io.Reader, out io.Writer) *ConsoleDialog {
	return &ConsoleDialog{in: in, out: out, prompt: DefaultPrompt}
}

// Confirm implements Confirmer. Anything other than y or yes, including an
// empty line or end of input, is a rejection.
func (d *ConsoleDialog) Confirm(summary string) (bool, error) {
	if summary != "" {
		_, _ = fmt.Fprintln(d.out, strings.TrimRight(summary, "\n"))
		_, _ = fmt.Fprintln(d.out)
	}
	_, _ = fmt.Fprint(d.out, d.prompt)

	reader := bufio.NewReader(d.in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, errors.ErrIO, "failed to read user input")
	}
	if err == io.EOF && line == "" {
		_, _ = fmt.Fprintln(d.out)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
