package backend

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/nimble/internal/editor"
	"github.com/dshills/nimble/internal/renderer/cellgrid"
	"github.com/dshills/nimble/internal/renderer/viewport"
)

// painter draws one frame onto a screen.
type painter struct {
	screen tcell.Screen
	theme  *Theme
}

func (p *painter) paint(e *editor.Editor) {
	width, height := e.Size()
	p.fill(cellgrid.RectFromSize(0, 0, height, width), p.theme.Text)

	layout := e.Layout()
	doc := e.Active()
	if doc == nil {
		p.screen.HideCursor()
		p.status(layout.Status, " no file", "")
		return
	}

	text := e.TextLayout()
	p.gutter(layout.Gutter, doc)
	p.text(text, doc)

	if rect, ok := doc.CaretRect(text); ok && e.CaretVisible() {
		p.screen.ShowCursor(rect.Left, rect.Top)
	} else {
		p.screen.HideCursor()
	}

	name := " " + doc.Name()
	if doc.IsModified() {
		name += " [+]"
	}
	pt := doc.CaretPoint()
	right := fmt.Sprintf("Ln %d, Col %d ", pt.Line+1, pt.Column+1)
	if lang := doc.LanguageID(); lang != "" {
		right = fmt.Sprintf("%s (%s)  %s", lang, e.ServerState(lang), right)
	}
	p.status(layout.Status, name, right)
}

// gutter draws the line numbers, the caret's line in bold.
func (p *painter) gutter(rect cellgrid.ScreenRect, doc *editor.Document) {
	caretLine := doc.CaretLine() + 1
	for i, n := range doc.LineNumbers() {
		if i >= rect.Height() {
			break
		}
		style := p.theme.Gutter
		if n == caretLine {
			style = p.theme.CurrentLine
		}
		p.str(rect.Top+i, rect.Left, rect.Right, viewport.FormatLineNumber(n, rect.Width()), style)
	}
}

// text draws the visible lines with highlighting, the selection and the
// brackets around the caret.
func (p *painter) text(layout *cellgrid.Layout, doc *editor.Document) {
	region := layout.Region()
	spans := doc.HighlightSpans()
	sel := doc.Selection()
	openPos, closePos, bracketed := doc.EnclosingBrackets()

	next := 0
	for row, line := range layout.Lines() {
		y := region.Top + row
		for _, c := range line.Cells {
			x := region.Left + c.Col - layout.ColumnOffset()
			if x < region.Left || x+c.Width > region.Right {
				continue
			}

			style := p.theme.Text
			for next < len(spans) && spans[next].End <= c.Offset {
				next++
			}
			if next < len(spans) && spans[next].Start <= c.Offset {
				style = p.theme.Token(spans[next].Type)
			}
			if bracketed && (c.Offset == openPos || c.Offset == closePos) {
				style = p.theme.Bracket
			}
			if sel.Contains(c.Offset) {
				_, bg, _ := p.theme.Selection.Decompose()
				style = style.Background(bg)
			}
			p.cell(y, x, c, style)
		}
	}
}

// cell draws one grapheme cluster. Tabs become blanks up to the tab stop.
func (p *painter) cell(y, x int, c cellgrid.Cell, style tcell.Style) {
	runes := []rune(c.Cluster)
	if runes[0] == '\t' {
		for i := 0; i < c.Width; i++ {
			p.screen.SetContent(x+i, y, ' ', nil, style)
		}
		return
	}
	p.screen.SetContent(x, y, runes[0], runes[1:], style)
}

// status draws the status line with left and right aligned text.
func (p *painter) status(rect cellgrid.ScreenRect, left, right string) {
	if rect.IsEmpty() {
		return
	}
	p.fill(rect, p.theme.Status)
	p.str(rect.Top, rect.Left, rect.Right, left, p.theme.Status)
	if w := uniseg.StringWidth(right); w < rect.Width()-uniseg.StringWidth(left) {
		p.str(rect.Top, rect.Right-w, rect.Right, right, p.theme.Status)
	}
}

// str draws s from column x on row y, clipped at limit.
func (p *painter) str(y, x, limit int, s string, style tcell.Style) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if x+w > limit {
			return
		}
		p.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
}

func (p *painter) fill(rect cellgrid.ScreenRect, style tcell.Style) {
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			p.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

