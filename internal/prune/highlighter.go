package prune

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const prunedBranchColorConstant = "9"

// Highlighter decorates branch references in fetch output with a terminal
// style. Styling degrades to plain text when the output is not a terminal.
type Highlighter struct {
	branchStyle lipgloss.Style
}

// NewHighlighter constructs a highlighter using the default deletion color.
func NewHighlighter() *Highlighter {
	return NewHighlighterWithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(prunedBranchColorConstant)))
}

// NewHighlighterWithStyle constructs a highlighter with an explicit style.
func NewHighlighterWithStyle(branchStyle lipgloss.Style) *Highlighter {
	return &Highlighter{branchStyle: branchStyle}
}

// HighlightLine decorates the remote-qualified branch reference within a fetch
// output line. When the qualified form is absent it falls back to decorating
// bare branch name occurrences, which may also touch coincidental matches
// elsewhere in the line.
func (highlighter *Highlighter) HighlightLine(outputLine string, remoteName string, branchName string) string {
	qualifiedReference := remoteName + remoteTokenSeparatorConstant + branchName
	if strings.Contains(outputLine, qualifiedReference) {
		return strings.Replace(outputLine, qualifiedReference, highlighter.branchStyle.Render(qualifiedReference), 1)
	}
	return strings.ReplaceAll(outputLine, branchName, highlighter.branchStyle.Render(branchName))
}

// HighlightBranch decorates a bare branch name for confirmation messages.
func (highlighter *Highlighter) HighlightBranch(branchName string) string {
	return highlighter.branchStyle.Render(branchName)
}
