package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	pullrerrors "thoreinstein.com/pullr/pkg/errors"
	"thoreinstein.com/pullr/pkg/workflow"
)

func init() {
	color.NoColor = true
}

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out), &out
}

func TestPrompter_AskWithDefault(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "blank uses default", input: "\n", want: "Last commit"},
		{name: "whitespace uses default", input: "   \t\n", want: "Last commit"},
		{name: "override trimmed", input: "  New title  \n", want: "New title"},
		{name: "final line without newline", input: "Piped", want: "Piped"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, out := newTestPrompter(tc.input)
			got, err := p.AskWithDefault(t.Context(), "PR title", "title", "Last commit")
			if err != nil {
				t.Fatalf("AskWithDefault() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("AskWithDefault() = %q, want %q", got, tc.want)
			}
			if !strings.Contains(out.String(), "PR title: Last commit") {
				t.Errorf("output %q should show the default", out.String())
			}
		})
	}
}

func TestPrompter_AskInputClosed(t *testing.T) {
	p, _ := newTestPrompter("")
	_, err := p.Ask(t.Context(), "Linked issue")
	if !errors.Is(err, ErrInputClosed) {
		t.Errorf("Ask() on empty input error = %v, want ErrInputClosed", err)
	}
}

func TestPrompter_AskCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	p, _ := newTestPrompter("answer\n")
	if _, err := p.Ask(ctx, "Linked issue"); !errors.Is(err, context.Canceled) {
		t.Errorf("Ask() with cancelled context error = %v", err)
	}
}

func TestPrompter_Confirm(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		wantErr   error
		wantHints int
	}{
		{name: "yes", input: "y\n"},
		{name: "yes with spaces", input: "  y \n"},
		{name: "no", input: "n\n", wantErr: pullrerrors.ErrAborted},
		{name: "capital Y is not accepted", input: "Y\ny\n", wantHints: 1},
		{name: "words are not accepted", input: "yes\nno\nmaybe\n\nn\n", wantErr: pullrerrors.ErrAborted, wantHints: 4},
		{name: "input ends", input: "what\n", wantErr: ErrInputClosed, wantHints: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, out := newTestPrompter(tc.input)
			err := p.Confirm(t.Context(), "Proceed? (y/n): ")

			if tc.wantErr == nil && err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("Confirm() error = %v, want %v", err, tc.wantErr)
			}

			hints := strings.Count(out.String(), "Please type y for yes and n for no")
			if hints != tc.wantHints {
				t.Errorf("hint printed %d times, want %d\n%s", hints, tc.wantHints, out.String())
			}
		})
	}
}

func TestPrompter_SelectReviewers(t *testing.T) {
	cases := []struct {
		name         string
		input        string
		want         []string
		wantNotFound int
		wantInvalid  int
	}{
		{name: "submit immediately", input: "\n", want: nil},
		{name: "select two", input: "1\n2\n\n", want: []string{"bob", "carol"}},
		{name: "toggle twice deselects", input: "0\n0\n\n", want: nil},
		{name: "unknown ordinal", input: "3\n0\n\n", want: []string{"alice"}, wantNotFound: 1},
		{name: "not a number", input: "bob\n-1\n1.5\n1\n\n", want: []string{"bob"}, wantInvalid: 3},
		{name: "input ends keeps selection", input: "2\n", want: []string{"carol"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, out := newTestPrompter(tc.input)
			c := workflow.NewCandidates([]string{"alice", "bob", "carol"})

			if err := p.SelectReviewers(t.Context(), c); err != nil {
				t.Fatalf("SelectReviewers() error = %v", err)
			}

			got := c.Selected()
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("Selected() = %v, want %v", got, tc.want)
			}
			if n := strings.Count(out.String(), "Reviewer not found"); n != tc.wantNotFound {
				t.Errorf("not found printed %d times, want %d", n, tc.wantNotFound)
			}
			if n := strings.Count(out.String(), "Invalid option, it must be a valid number"); n != tc.wantInvalid {
				t.Errorf("invalid printed %d times, want %d", n, tc.wantInvalid)
			}
		})
	}
}

func TestPrompter_SelectReviewersRendering(t *testing.T) {
	p, out := newTestPrompter("1\n\n")
	c := workflow.NewCandidates([]string{"alice", "bob"})

	if err := p.SelectReviewers(t.Context(), c); err != nil {
		t.Fatal(err)
	}

	s := out.String()
	for _, want := range []string{"** Reviewers **", "0 - alice\n", "1 - bob\n", "1 - bob (selected)\n", "Add a reviewer (empty to proceed): "} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q\n%s", want, s)
		}
	}
}

func TestPrompter_Messages(t *testing.T) {
	p, out := newTestPrompter("")
	p.Heading("** Review PR **")
	p.Info("Creating PR...")
	p.Success("Assigned successfully")
	p.Warn("Error when assigning")

	want := "** Review PR **\nCreating PR...\nAssigned successfully\nError when assigning\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
