// Package message turns generated text into a commit title and body.
package message

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidCommitTypes contains all valid Conventional Commits types.
var ValidCommitTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"test", "chore", "perf", "ci", "build", "revert",
}

// MaxSubjectLength is the recommended maximum length for commit subject lines.
const MaxSubjectLength = 72

// conventionalCommitRegex matches <type>(<scope>): <subject> or <type>: <subject>.
var conventionalCommitRegex = regexp.MustCompile(`^([a-z]+)(\([^)]+\))?(!)?:\s*(.+)$`)

// Commit is a generated commit message split into its title and body points.
type Commit struct {
	Title string
	Body  []string
}

// Parse splits text on line breaks, drops blank lines and takes the first
// remaining line as the title. Every other line is a body point, kept verbatim
// apart from trailing whitespace.
func Parse(text string) Commit {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	switch len(lines) {
	case 0:
		return Commit{}
	case 1:
		return Commit{Title: lines[0]}
	}
	return Commit{Title: lines[0], Body: lines[1:]}
}

// String renders the final commit message: the title, a blank line and the
// body points one per line. A commit without body is the title alone.
func (c Commit) String() string {
	if len(c.Body) == 0 {
		return c.Title
	}
	return c.Title + "\n\n" + strings.Join(c.Body, "\n")
}

// IsEmpty reports whether there is nothing to commit with.
func (c Commit) IsEmpty() bool {
	return strings.TrimSpace(c.Title) == ""
}

// Type returns the conventional commit type of the title, if any.
func (c Commit) Type() string {
	if m := conventionalCommitRegex.FindStringSubmatch(strings.TrimSpace(c.Title)); m != nil {
		return m[1]
	}
	return ""
}

// Warnings lists style problems with the commit. They never block committing.
func (c Commit) Warnings() []string {
	var warnings []string

	if c.IsEmpty() {
		return append(warnings, "commit title is empty")
	}

	switch commitType := c.Type(); {
	case commitType == "":
		warnings = append(warnings, "title does not follow the \"<type>: <title>\" pattern")
	case !IsValidCommitType(commitType):
		warnings = append(warnings, fmt.Sprintf("unknown commit type %q (expected one of: %s)",
			commitType, strings.Join(ValidCommitTypes, ", ")))
	}

	if n := len([]rune(c.Title)); n > MaxSubjectLength {
		warnings = append(warnings, fmt.Sprintf(
			"subject line exceeds %d characters (%d chars)",
			MaxSubjectLength, n,
		))
	}

	return warnings
}

// IsValidCommitType checks if the given type is a valid Conventional Commits type.
func IsValidCommitType(commitType string) bool {
	return slices.Contains(ValidCommitTypes, commitType)
}
