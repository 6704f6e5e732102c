package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	defaultMaximumBarWidthConstant = 50
	barGlyphConstant               = "█"
	graphBarColorConstant          = "2"
	graphLineTemplateConstant      = "%s  %*d  %s"
)

// GraphEntry is one labeled bar of the commit graph.
type GraphEntry struct {
	Label string
	Count int
}

// Renderer draws horizontal bar charts scaled to a maximum width. Labels are
// padded by display width so multi-cell runes stay aligned.
type Renderer struct {
	maximumBarWidth int
	barStyle        lipgloss.Style
}

// NewRenderer builds a renderer with the default bar style. Widths below one
// fall back to the default maximum.
func NewRenderer(maximumBarWidth int) *Renderer {
	return NewRendererWithStyle(maximumBarWidth, lipgloss.NewStyle().Foreground(lipgloss.Color(graphBarColorConstant)))
}

// NewRendererWithStyle builds a renderer drawing bars with the given style.
func NewRendererWithStyle(maximumBarWidth int, barStyle lipgloss.Style) *Renderer {
	if maximumBarWidth < 1 {
		maximumBarWidth = defaultMaximumBarWidthConstant
	}
	return &Renderer{maximumBarWidth: maximumBarWidth, barStyle: barStyle}
}

// Render produces one aligned line per entry. The largest count spans the
// full bar width and every nonzero count draws at least one glyph, so small
// contributors stay visible next to dominant ones.
func (renderer *Renderer) Render(entries []GraphEntry) []string {
	if len(entries) == 0 {
		return nil
	}

	labelWidth := 0
	largestCount := 0
	for _, entry := range entries {
		if displayWidth := runewidth.StringWidth(entry.Label); displayWidth > labelWidth {
			labelWidth = displayWidth
		}
		if entry.Count > largestCount {
			largestCount = entry.Count
		}
	}
	countWidth := len(strconv.Itoa(largestCount))

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf(
			graphLineTemplateConstant,
			padLabel(entry.Label, labelWidth),
			countWidth,
			entry.Count,
			renderer.renderBar(entry.Count, largestCount),
		))
	}
	return lines
}

func (renderer *Renderer) renderBar(count, largestCount int) string {
	if count < 1 || largestCount < 1 {
		return ""
	}
	glyphCount := count * renderer.maximumBarWidth / largestCount
	if glyphCount < 1 {
		glyphCount = 1
	}
	return renderer.barStyle.Render(strings.Repeat(barGlyphConstant, glyphCount))
}

func padLabel(label string, targetWidth int) string {
	padding := targetWidth - runewidth.StringWidth(label)
	if padding < 1 {
		return label
	}
	return label + strings.Repeat(" ", padding)
}
