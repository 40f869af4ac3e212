// Package display turns pre-computed row props into a terminal line. It has
// no knowledge of nodes, history, or search; the adapter decides all of that.
package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// RowProps is everything needed to draw one tree row.
type RowProps struct {
	Name      string // display name
	Icon      string // expand/collapse/leaf glyph
	Check     string // history checkbox, "" when not applicable
	Trailing  string // right-aligned text, e.g. the data type
	CountText string // child count, e.g. "(4)"
	Depth     int

	NameStyle  lipgloss.Style
	CheckStyle lipgloss.Style
	IsSelected bool
}

const indentUnit = "  "

// RenderRow draws props. With a positive width the line is truncated and
// padded to exactly width cells.
//
// Layout: <indent><icon> <check> <name> <count><pad><trailing>
func RenderRow(props RowProps, width int) string {
	left := strings.Repeat(indentUnit, props.Depth) + props.Icon + " "
	if props.Check != "" {
		left += props.Check + " "
	}
	count := ""
	if props.CountText != "" {
		count = " " + props.CountText
	}

	name := props.Name
	trailing := props.Trailing
	pad := 0
	if trailing != "" {
		pad = 2
	}

	if width > 0 {
		leftW, countW := xansi.StringWidth(left), xansi.StringWidth(count)
		avail := width - leftW - countW
		if trailing != "" {
			avail -= xansi.StringWidth(trailing) + 2
			if avail < 4 {
				// Drop the trailing column before squeezing the name.
				avail += xansi.StringWidth(trailing) + 2
				trailing = ""
			}
		}
		name = xansi.Truncate(name, max(avail, 0), "…")

		used := leftW + xansi.StringWidth(name) + countW
		if trailing != "" {
			pad = max(width-used-xansi.StringWidth(trailing), 2)
		} else {
			pad = max(width-used, 0)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(indentUnit, props.Depth))
	b.WriteString(props.Icon)
	b.WriteByte(' ')
	if props.Check != "" {
		b.WriteString(props.CheckStyle.Render(props.Check))
		b.WriteByte(' ')
	}
	b.WriteString(props.NameStyle.Render(name))
	if count != "" {
		b.WriteString(mutedStyle.Render(count))
	}
	b.WriteString(strings.Repeat(" ", pad))
	if trailing != "" {
		b.WriteString(mutedStyle.Render(trailing))
	}

	line := b.String()
	if props.IsSelected {
		return selectedStyle.Render(xansi.Strip(line))
	}
	return line
}
