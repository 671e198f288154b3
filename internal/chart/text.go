package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/njchilds90/gosolver"
)

const (
	DefaultTextWidth  = 61
	DefaultTextHeight = 21
)

var markerGlyphs = map[string]rune{
	gosolver.LabelVertex: 'V',
	gosolver.LabelRoots:  'R',
}

// Text draws the samples on a character grid.
type Text struct {
	Width, Height int
}

// TextChart is a plotted grid held as a chart handle.
type TextChart struct {
	handle
	lines  []string
	footer string
}

// String returns the grid and its axis bounds, or "" once released.
func (c *TextChart) String() string {
	if c.Released() {
		return ""
	}
	return strings.Join(c.lines, "\n") + "\n" + c.footer
}

func (c *TextChart) Lines() []string { return c.lines }

func (t Text) Render(res gosolver.SolutionResult) (Chart, error) {
	w, h := t.Width, t.Height
	if w <= 0 {
		w = DefaultTextWidth
	}
	if h <= 0 {
		h = DefaultTextHeight
	}
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("chart: text grid %dx%d too small", w, h)
	}
	if len(res.Samples) == 0 {
		return nil, fmt.Errorf("chart: nothing to plot")
	}

	minX, maxX := -gosolver.PlotRange, gosolver.PlotRange
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range res.Samples {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	if minY == maxY {
		minY, maxY = minY-1, maxY+1
	}

	grid := make([][]rune, h)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", w))
	}
	col := func(x float64) (int, bool) {
		c := int(math.Round((x - minX) / (maxX - minX) * float64(w-1)))
		return c, c >= 0 && c < w
	}
	row := func(y float64) (int, bool) {
		r := int(math.Round((maxY - y) / (maxY - minY) * float64(h-1)))
		return r, r >= 0 && r < h
	}

	zeroRow, hasXAxis := row(0)
	zeroCol, hasYAxis := col(0)
	if hasXAxis {
		for c := range grid[zeroRow] {
			grid[zeroRow][c] = '─'
		}
	}
	if hasYAxis {
		for r := range grid {
			grid[r][zeroCol] = '│'
		}
	}
	if hasXAxis && hasYAxis {
		grid[zeroRow][zeroCol] = '┼'
	}

	plot := func(p gosolver.Point, glyph rune) {
		c, okc := col(p.X)
		r, okr := row(p.Y)
		if okc && okr {
			grid[r][c] = glyph
		}
	}
	for _, p := range res.Samples {
		plot(p, '•')
	}
	for _, m := range res.Markers {
		glyph, ok := markerGlyphs[m.Label]
		if !ok {
			glyph = '*'
		}
		for _, p := range m.Points {
			plot(p, glyph)
		}
	}

	lines := make([]string, h)
	for r := range grid {
		lines[r] = strings.TrimRight(string(grid[r]), " ")
	}
	footer := fmt.Sprintf("x ∈ [%s, %s]  y ∈ [%s, %s]",
		gosolver.Fixed2(minX), gosolver.Fixed2(maxX), gosolver.Fixed2(minY), gosolver.Fixed2(maxY))
	return &TextChart{lines: lines, footer: footer}, nil
}
