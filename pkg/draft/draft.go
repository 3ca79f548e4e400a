// Package draft assembles the pull request a run is about to open from local
// git state and the operator's answers.
package draft

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Draft is a pull request before and after creation. Number and Link are
// set together by MarkCreated, exactly once.
type Draft struct {
	Branch       string // Head branch, the one checked out
	Title        string
	Body         string // Free-text body before templating
	LinkedIssue  string // Issue key, may be empty
	RenderedBody string // Body sent to GitHub
	Base         string // Repository owner
	Repo         string
	BaseBranch   string // Branch the PR targets
	RemoteURL    string // Remote URL as configured in git, for display

	Number int
	Link   string

	created bool
}

// ErrAlreadyCreated is returned by MarkCreated on a draft that already has a number.
var ErrAlreadyCreated = errors.New("pull request already marked as created")

// MarkCreated records the number and link GitHub assigned.
func (d *Draft) MarkCreated(number int, link string) error {
	if d.created {
		return errors.Wrapf(ErrAlreadyCreated, "#%d", d.Number)
	}
	d.Number = number
	d.Link = link
	d.created = true
	return nil
}

// Created reports whether MarkCreated has been called.
func (d *Draft) Created() bool {
	return d.created
}

// Summary renders the review block shown before confirmation.
func (d *Draft) Summary() string {
	value := color.New(color.FgCyan).SprintFunc()

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", value(d.Title))
	fmt.Fprintf(&b, "Body: %s\n", value(d.Body))
	fmt.Fprintf(&b, "Linked issue: %s\n", value(d.LinkedIssue))
	fmt.Fprintf(&b, "Remote branch: %s\n", value(d.Branch))
	fmt.Fprintf(&b, "Target branch: %s\n", value(d.BaseBranch))
	fmt.Fprintf(&b, "Remote: %s", value(d.Base+"/"+d.Repo))
	return b.String()
}

const bodyTemplate = `### What does this PR do?

%s

<!--
Please include a summary of the change and/or which issue is fixed. Please also include relevant motivation and context. List any dependencies that are required for this change, also provide (if appropriate) any evidence - screenshots, gifs, logs, etc.

Oh, remember to follow conventional commits (https://conventionalcommits.org) on pull request title ;)
-->

---

**Related issue:** %s
`

// RenderBody places body and issue into the pull request description
// template. An empty issue leaves the footer label with nothing after it.
func RenderBody(body, issue string) string {
	return fmt.Sprintf(bodyTemplate, body, issue)
}
