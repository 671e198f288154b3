// Package termui renders solver results for the terminal.
package termui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/chart"
	"github.com/njchilds90/gosolver/internal/pipeline"
)

// Palette
var (
	ColorAccent  = lipgloss.Color("#4BC0C0") // chart line colour
	ColorVertex  = lipgloss.Color("#FF6384")
	ColorRoots   = lipgloss.Color("#36A2EB")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#6C7A89")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Solution lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Chart    lipgloss.Style

	Box      lipgloss.Style
	FocusBox lipgloss.Style
	ErrorBox lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Label:    lipgloss.NewStyle().Foreground(ColorMuted),
	Value:    lipgloss.NewStyle(),
	Solution: lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Muted:    lipgloss.NewStyle().Foreground(ColorMuted),
	Warning:  lipgloss.NewStyle().Foreground(ColorWarning),
	Error:    lipgloss.NewStyle().Bold(true).Foreground(ColorError),
	Chart:    lipgloss.NewStyle().Foreground(ColorAccent),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1),
	FocusBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),
}

// Title returns the heading of a pipeline.
func Title(kind gosolver.Kind) string {
	if kind == gosolver.KindQuadratic {
		return "Ecuación cuadrática  f(x) = ax² + bx + c"
	}
	return "Ecuación lineal  f(x) = ax + b"
}

// Result renders the text block of a solution.
func Result(res gosolver.SolutionResult) string {
	var b strings.Builder
	b.WriteString(Styles.Value.Render(res.FunctionDisplay))
	b.WriteByte('\n')
	row(&b, "Dominio", res.Domain)
	row(&b, "Rango", res.Range)
	if res.Vertex != "" {
		row(&b, gosolver.LabelVertex, res.Vertex)
	}
	b.WriteString(Styles.Label.Render("Solución: "))
	b.WriteString(Styles.Solution.Render(res.SolutionText))
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n", Styles.Label.Render(label+":"), Styles.Value.Render(value))
}

// Chart renders a text chart, or "" when c is not a live text chart.
func Chart(c chart.Chart) string {
	tc, ok := c.(*chart.TextChart)
	if !ok || tc.Released() {
		return ""
	}
	var b strings.Builder
	for i, line := range tc.Lines() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(colorGlyphs(line))
	}
	return b.String()
}

func colorGlyphs(line string) string {
	var b strings.Builder
	for _, r := range line {
		switch r {
		case 'V':
			b.WriteString(lipgloss.NewStyle().Foreground(ColorVertex).Render("V"))
		case 'R':
			b.WriteString(lipgloss.NewStyle().Foreground(ColorRoots).Render("R"))
		case '•':
			b.WriteString(Styles.Chart.Render("•"))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// View renders a whole pipeline view: the result block or the error,
// followed by the chart when plot is set.
func View(v pipeline.View, plot bool) string {
	if v.Failed() {
		return Styles.ErrorBox.Render(Styles.Error.Render(v.Error))
	}
	if v.Result == nil {
		return ""
	}
	body := Result(*v.Result)
	if plot {
		if c := Chart(v.Chart); c != "" {
			body += "\n\n" + c
		}
	}
	return Styles.Box.Render(body)
}
