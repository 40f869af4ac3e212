// Package virtuallist renders only the on-screen window of a long list, so
// that drawing cost depends on terminal height rather than tree size.
package virtuallist

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

// List is implemented by anything the Renderer can draw.
type List interface {
	// Len returns the number of rows.
	Len() int

	// RenderRow draws row index. selected marks the cursor row.
	RenderRow(index int, selected bool, width int) string
}

// Renderer tracks a cursor and a scroll offset over a List.
type Renderer struct {
	list     List
	viewport viewport.Model
	empty    string
	cursor   int
	offset   int
	width    int
	height   int
}

// New creates a renderer. empty is shown when the list has no rows.
func New(list List, empty string) *Renderer {
	return &Renderer{
		list:     list,
		viewport: viewport.New(0, 0),
		empty:    empty,
	}
}

// SetList swaps the list being rendered and re-clamps the cursor.
func (r *Renderer) SetList(list List) {
	r.list = list
	r.SetCursor(r.cursor)
}

// SetEmptyText changes the placeholder shown for an empty list.
func (r *Renderer) SetEmptyText(s string) {
	r.empty = s
}

// SetSize sets the drawing area.
func (r *Renderer) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.viewport.Width = width
	r.viewport.Height = height
	r.scrollToCursor()
}

// SetCursor moves the cursor, clamped to the list, and scrolls it into view.
func (r *Renderer) SetCursor(cursor int) {
	n := r.list.Len()
	switch {
	case n == 0:
		cursor = 0
	case cursor >= n:
		cursor = n - 1
	case cursor < 0:
		cursor = 0
	}
	r.cursor = cursor
	r.scrollToCursor()
}

// Cursor returns the cursor row.
func (r *Renderer) Cursor() int {
	return r.cursor
}

// Offset returns the first row on screen.
func (r *Renderer) Offset() int {
	return r.offset
}

// Move shifts the cursor by delta rows.
func (r *Renderer) Move(delta int) {
	r.SetCursor(r.cursor + delta)
}

// PageSize is the number of rows on screen.
func (r *Renderer) PageSize() int {
	if r.height <= 0 {
		return 1
	}
	return r.height
}

// View draws the visible window.
func (r *Renderer) View() string {
	n := r.list.Len()
	if n == 0 {
		return r.empty
	}

	end := min(r.offset+r.PageSize(), n)

	var b strings.Builder
	for i := r.offset; i < end; i++ {
		if i > r.offset {
			b.WriteByte('\n')
		}
		b.WriteString(r.list.RenderRow(i, i == r.cursor, r.width))
	}

	r.viewport.SetContent(b.String())
	r.viewport.YOffset = 0
	return r.viewport.View()
}

func (r *Renderer) scrollToCursor() {
	page := r.PageSize()
	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.cursor >= r.offset+page {
		r.offset = r.cursor - page + 1
	}
	maxOffset := max(r.list.Len()-page, 0)
	r.offset = min(max(r.offset, 0), maxOffset)
}
