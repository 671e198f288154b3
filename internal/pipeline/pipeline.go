// Package pipeline wires form input, the solvers and chart rendering into
// one controller per pipeline.
//
// A Controller owns the chart of its pipeline. Each Solve releases the
// previous chart before rendering the next, and a failed Solve leaves the
// pipeline with no chart and no partial result.
package pipeline

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/chart"
	"github.com/njchilds90/gosolver/internal/metrics"
)

// Form is the raw text of one input form.
type Form struct {
	A  string `json:"a" form:"a"`
	B  string `json:"b" form:"b"`
	C  string `json:"c,omitempty" form:"c"`
	Op string `json:"op" form:"op"`
}

// Default forms solved at startup.
var (
	DefaultLinearForm    = Form{A: "2", B: "-4", Op: "eq"}
	DefaultQuadraticForm = Form{A: "1", B: "0", C: "-4", Op: "eq"}
)

// View is what the presentation layer shows for one pipeline. Exactly one
// of Result and Error is set.
type View struct {
	Kind   gosolver.Kind            `json:"kind"`
	Form   Form                     `json:"form"`
	Result *gosolver.SolutionResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
	Err    error                    `json:"-"`
	Chart  chart.Chart              `json:"-"`
}

func (v View) Failed() bool { return v.Err != nil }

// SpeechText is the block of text read aloud for this view: the whole
// result as shown on the page, or the error.
func (v View) SpeechText() string {
	if v.Result == nil {
		return v.Error
	}
	res := v.Result
	lines := []string{
		res.FunctionDisplay,
		gosolver.LabelDomain + ": " + res.Domain,
		gosolver.LabelRange + ": " + res.Range,
	}
	if res.Vertex != "" {
		lines = append(lines, gosolver.LabelVertex+": "+res.Vertex)
	}
	lines = append(lines, gosolver.LabelSolution+": "+res.SolutionText)
	return strings.Join(lines, "\n")
}

// Controller runs one pipeline.
type Controller struct {
	kind     gosolver.Kind
	renderer chart.Renderer
	slot     *chart.Slot
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(c *Controller) { c.metrics = m } }

func NewLinear(r chart.Renderer, opts ...Option) *Controller {
	return newController(gosolver.KindLinear, r, opts)
}

func NewQuadratic(r chart.Renderer, opts ...Option) *Controller {
	return newController(gosolver.KindQuadratic, r, opts)
}

func newController(kind gosolver.Kind, r chart.Renderer, opts []Option) *Controller {
	c := &Controller{kind: kind, renderer: r, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("pipeline", string(kind))
	c.slot = chart.NewSlot(func() {
		if c.metrics != nil {
			c.metrics.ChartReleases.WithLabelValues(string(kind)).Inc()
			c.metrics.LiveCharts.WithLabelValues(string(kind)).Dec()
		}
	})
	return c
}

func (c *Controller) Kind() gosolver.Kind { return c.kind }

// Chart returns the live chart or nil.
func (c *Controller) Chart() chart.Chart { return c.slot.Current() }

// Release drops the live chart.
func (c *Controller) Release() { c.slot.Release() }

// Default solves the pipeline's startup form.
func (c *Controller) Default() View {
	if c.kind == gosolver.KindQuadratic {
		return c.Solve(DefaultQuadraticForm)
	}
	return c.Solve(DefaultLinearForm)
}

// Solve parses the form, solves it and renders the chart.
func (c *Controller) Solve(f Form) View {
	start := time.Now()
	view := View{Kind: c.kind, Form: f}

	res, err := c.solve(f)
	if c.metrics != nil {
		c.metrics.SolveDuration.WithLabelValues(string(c.kind)).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.slot.Release()
		c.count(outcome(err))
		c.logger.Debug("Solve rejected", "form", f, "error", err)
		view.Err = err
		view.Error = gosolver.UserMessage(c.kind, err)
		return view
	}
	c.count(metrics.OutcomeOK)
	view.Result = &res

	ch, err := c.slot.Acquire(c.renderer, res)
	if err != nil {
		c.logger.Error("Chart render failed", "error", err)
		return view
	}
	if c.metrics != nil {
		c.metrics.LiveCharts.WithLabelValues(string(c.kind)).Inc()
	}
	view.Chart = ch
	c.logger.Debug("Solved", "function", res.FunctionDisplay, "solution", res.SolutionText)
	return view
}

func (c *Controller) solve(f Form) (gosolver.SolutionResult, error) {
	op, err := gosolver.ParseRelOp(f.Op)
	if err != nil {
		return gosolver.SolutionResult{}, err
	}
	a, errA := gosolver.ParseCoefficient(f.A)
	b, errB := gosolver.ParseCoefficient(f.B)
	if c.kind == gosolver.KindLinear {
		if err := firstErr(errA, errB); err != nil {
			return gosolver.SolutionResult{}, err
		}
		return gosolver.SolveLinear(gosolver.LinearProblem{A: a, B: b, Op: op})
	}
	cc, errC := gosolver.ParseCoefficient(f.C)
	if err := firstErr(errA, errB, errC); err != nil {
		return gosolver.SolutionResult{}, err
	}
	return gosolver.SolveQuadratic(gosolver.QuadraticProblem{A: a, B: b, C: cc, Op: op})
}

func (c *Controller) count(o string) {
	if c.metrics != nil {
		c.metrics.Solves.WithLabelValues(string(c.kind), o).Inc()
	}
}

func outcome(err error) string {
	if gosolver.ErrorCode(err) == gosolver.CodeDegenerateInput {
		return metrics.OutcomeDegenerate
	}
	return metrics.OutcomeInvalid
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ============================================================
// Workbench
// ============================================================

// Workbench holds the two independent pipelines of one session.
type Workbench struct {
	Linear    *Controller
	Quadratic *Controller
}

func NewWorkbench(r chart.Renderer, opts ...Option) *Workbench {
	return &Workbench{Linear: NewLinear(r, opts...), Quadratic: NewQuadratic(r, opts...)}
}

// Controller returns the pipeline for kind.
func (w *Workbench) Controller(kind gosolver.Kind) (*Controller, error) {
	switch kind {
	case gosolver.KindLinear:
		return w.Linear, nil
	case gosolver.KindQuadratic:
		return w.Quadratic, nil
	}
	return nil, fmt.Errorf("pipeline: unknown kind %q", kind)
}

// Startup solves both default forms, as the page does on first load.
func (w *Workbench) Startup() (linear, quadratic View) {
	return w.Linear.Default(), w.Quadratic.Default()
}

// Close releases both charts.
func (w *Workbench) Close() {
	w.Linear.Release()
	w.Quadratic.Release()
}
