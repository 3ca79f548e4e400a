// Package ui implements pullr's line-oriented terminal dialogue.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	pullrerrors "thoreinstein.com/pullr/pkg/errors"
	"thoreinstein.com/pullr/pkg/workflow"
)

// ErrInputClosed is returned when input ends before a prompt is answered.
var ErrInputClosed = errors.New("input closed before an answer was given")

// Compile-time check that Prompter satisfies workflow.Prompter.
var _ workflow.Prompter = (*Prompter)(nil)

var (
	headingColor = color.New(color.FgBlue)
	promptColor  = color.New(color.FgYellow)
	warnColor    = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	defaultColor = color.New(color.FgMagenta)
	selectColor  = color.New(color.FgCyan)
)

// Prompter reads answers line by line from in and writes prompts to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next line without surrounding whitespace. A final
// line without a newline still counts; after that ErrInputClosed.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "failed to read input")
		}
		if line == "" {
			return "", ErrInputClosed
		}
	}
	return strings.TrimSpace(line), nil
}

// Ask prints label and returns the trimmed answer, which may be empty.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine(ctx)
}

// AskWithDefault shows def next to label and returns it when the answer is blank.
func (p *Prompter) AskWithDefault(ctx context.Context, label, noun, def string) (string, error) {
	fmt.Fprintf(p.out, "\n%s: %s\n", label, defaultColor.Sprint(def))
	fmt.Fprintf(p.out, "Leave it blank to use the %s above or type a new one: ", noun)

	answer, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Heading prints a section title.
func (p *Prompter) Heading(title string) {
	headingColor.Fprintln(p.out, title)
}

// Info prints a plain line.
func (p *Prompter) Info(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Success prints a line in green.
func (p *Prompter) Success(msg string) {
	successColor.Fprintln(p.out, msg)
}

// Warn prints a line in red.
func (p *Prompter) Warn(msg string) {
	warnColor.Fprintln(p.out, msg)
}

// Confirm asks until the answer is exactly "y" or "n". Any other answer
// prints a hint and asks again. "n" returns errors.ErrAborted.
func (p *Prompter) Confirm(ctx context.Context, label string) error {
	promptColor.Fprint(p.out, label)

	for {
		answer, err := p.readLine(ctx)
		if err != nil {
			return err
		}

		switch answer {
		case "y":
			return nil
		case "n":
			return pullrerrors.ErrAborted
		default:
			fmt.Fprintf(p.out, "Please type %s for %s and %s for %s\n",
				successColor.Sprint("y"), successColor.Sprint("yes"),
				warnColor.Sprint("n"), warnColor.Sprint("no"))
		}
	}
}

// SelectReviewers lists the candidates and toggles the one whose ordinal
// the operator types, until an empty line or the end of input.
func (p *Prompter) SelectReviewers(ctx context.Context, c *workflow.Candidates) error {
	for {
		fmt.Fprintln(p.out)
		headingColor.Fprintln(p.out, "** Reviewers **")
		for _, cand := range c.All() {
			p.printCandidate(cand)
		}

		promptColor.Fprint(p.out, "\nAdd a reviewer (empty to proceed): ")
		answer, err := p.readLine(ctx)
		if errors.Is(err, ErrInputClosed) {
			fmt.Fprintln(p.out)
			return nil
		}
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}

		ordinal, err := strconv.ParseUint(answer, 10, 0)
		if err != nil {
			warnColor.Fprintln(p.out, "Invalid option, it must be a valid number")
			continue
		}
		if ordinal > uint64(c.Len()) || !c.Toggle(int(ordinal)) {
			warnColor.Fprintln(p.out, "Reviewer not found")
		}
	}
}

func (p *Prompter) printCandidate(cand workflow.Candidate) {
	line := fmt.Sprintf("%s - %s", defaultColor.Sprint(cand.Ordinal), cand.Username)
	if cand.Selected {
		selectColor.Fprintln(p.out, line+" (selected)")
		return
	}
	fmt.Fprintln(p.out, line)
}
