// Package tui is the interactive terminal front end: both input forms side
// by side with their results and text charts.
//
// Keys:
//
//	tab / shift+tab   move between coefficient fields
//	up / down         cycle the relational operator of the focused form
//	enter             solve the focused form
//	ctrl+s            read the focused result aloud
//	ctrl+p            toggle the charts
//	esc / ctrl+c      quit
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/chart"
	"github.com/njchilds90/gosolver/internal/pipeline"
	"github.com/njchilds90/gosolver/internal/speech"
	"github.com/njchilds90/gosolver/internal/termui"
)

type panel struct {
	ctrl    *pipeline.Controller
	inputs  []textinput.Model
	op      gosolver.RelOp
	view    pipeline.View
	warning string
}

func newPanel(ctrl *pipeline.Controller, form pipeline.Form) panel {
	p := panel{ctrl: ctrl}
	names, values := []string{"a", "b"}, []string{form.A, form.B}
	if ctrl.Kind() == gosolver.KindQuadratic {
		names, values = append(names, "c"), append(values, form.C)
	}
	for i, name := range names {
		ti := textinput.New()
		ti.Prompt = name + " = "
		ti.CharLimit = 32
		ti.Width = 10
		ti.SetValue(values[i])
		p.inputs = append(p.inputs, ti)
	}
	p.op, _ = gosolver.ParseRelOp(form.Op)
	return p
}

func (p panel) form() pipeline.Form {
	f := pipeline.Form{A: p.inputs[0].Value(), B: p.inputs[1].Value(), Op: p.op.String()}
	if len(p.inputs) > 2 {
		f.C = p.inputs[2].Value()
	}
	return f
}

// spokenMsg reports the outcome of a speech request.
type spokenMsg struct {
	panel int
	err   error
}

// Model is the bubbletea model.
type Model struct {
	ctx     context.Context
	speaker speech.Speaker
	panels  [2]panel
	focus   int // panel index
	field   int // input index within the focused panel
	plot    bool
	width   int
}

// New builds the model and solves both default forms. speaker may be nil.
func New(ctx context.Context, wb *pipeline.Workbench, speaker speech.Speaker) Model {
	m := Model{
		ctx:     ctx,
		speaker: speaker,
		panels: [2]panel{
			newPanel(wb.Linear, pipeline.DefaultLinearForm),
			newPanel(wb.Quadratic, pipeline.DefaultQuadraticForm),
		},
		plot: true,
	}
	lin, quad := wb.Startup()
	m.panels[0].view = lin
	m.panels[1].view = quad
	m.panels[0].inputs[0].Focus()
	return m
}

// Views returns the current linear and quadratic views.
func (m Model) Views() (linear, quadratic pipeline.View) {
	return m.panels[0].view, m.panels[1].view
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spokenMsg:
		m.panels[msg.panel].warning = speech.Warning(msg.err)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			return m.move(1), nil
		case tea.KeyShiftTab:
			return m.move(-1), nil
		case tea.KeyUp:
			return m.cycleOp(-1), nil
		case tea.KeyDown:
			return m.cycleOp(1), nil
		case tea.KeyEnter:
			p := &m.panels[m.focus]
			p.view = p.ctrl.Solve(p.form())
			p.warning = ""
			return m, nil
		case tea.KeyCtrlS:
			return m, m.speak(m.focus)
		case tea.KeyCtrlP:
			m.plot = !m.plot
			return m, nil
		}
	}

	var cmd tea.Cmd
	p := &m.panels[m.focus]
	p.inputs[m.field], cmd = p.inputs[m.field].Update(msg)
	return m, cmd
}

// move shifts focus by delta fields, crossing from one form to the next.
func (m Model) move(delta int) Model {
	type pos struct{ panel, field int }
	var order []pos
	for i, p := range m.panels {
		for j := range p.inputs {
			order = append(order, pos{i, j})
		}
	}
	cur := 0
	for i, o := range order {
		if o.panel == m.focus && o.field == m.field {
			cur = i
		}
	}
	next := order[(cur+delta+len(order))%len(order)]

	m.panels[m.focus].inputs[m.field].Blur()
	m.focus, m.field = next.panel, next.field
	m.panels[m.focus].inputs[m.field].Focus()
	return m
}

func (m Model) cycleOp(delta int) Model {
	ops := gosolver.RelOps()
	p := &m.panels[m.focus]
	p.op = ops[(int(p.op)+delta+len(ops))%len(ops)]
	return m
}

func (m Model) speak(i int) tea.Cmd {
	text := m.panels[i].view.SpeechText()
	speaker, ctx := m.speaker, m.ctx
	return func() tea.Msg {
		if speaker == nil {
			return spokenMsg{panel: i, err: speech.ErrUnsupported}
		}
		return spokenMsg{panel: i, err: speaker.Speak(ctx, text)}
	}
}

func (m Model) View() string {
	var blocks []string
	for i, p := range m.panels {
		blocks = append(blocks, m.renderPanel(i, p))
	}
	help := termui.Styles.Muted.Render("tab: campo · ↑/↓: operador · enter: resolver · ctrl+s: leer · ctrl+p: gráfica · esc: salir")
	if m.width > 0 && m.width < 2*(chartWidth+8) {
		return lipgloss.JoinVertical(lipgloss.Left, append(blocks, help)...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, blocks...), help)
}

const (
	chartWidth  = 41
	chartHeight = 15
)

// Renderer returns the chart renderer sized for the side-by-side layout.
func Renderer() chart.Renderer {
	return chart.Text{Width: chartWidth, Height: chartHeight}
}

func (m Model) renderPanel(i int, p panel) string {
	var b strings.Builder
	b.WriteString(termui.Styles.Title.Render(termui.Title(p.ctrl.Kind())))
	b.WriteString("\n\n")
	for _, in := range p.inputs {
		b.WriteString(in.View())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s %s 0\n\n", termui.Styles.Label.Render("f(x)"), termui.Styles.Solution.Render(p.op.Symbol()))

	if p.view.Failed() {
		b.WriteString(termui.Styles.Error.Render(p.view.Error))
	} else if p.view.Result != nil {
		b.WriteString(termui.Result(*p.view.Result))
		if m.plot {
			if c := termui.Chart(p.view.Chart); c != "" {
				b.WriteString("\n\n" + c)
			}
		}
	}
	if p.warning != "" {
		b.WriteString("\n" + termui.Styles.Warning.Render(p.warning))
	}

	style := termui.Styles.Box
	if i == m.focus {
		style = termui.Styles.FocusBox
	}
	return style.Render(b.String())
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, wb *pipeline.Workbench, speaker speech.Speaker) error {
	p := tea.NewProgram(New(ctx, wb, speaker), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
