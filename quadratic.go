package gosolver

import (
	"fmt"
	"math"
)

// ============================================================
// Quadratic solver: a·x² + b·x + c <op> 0
// ============================================================

// QuadraticProblem is a·x² + b·x + c <Op> 0 with A ≠ 0. A zero A is
// rejected rather than handed to the linear solver; callers route it.
type QuadraticProblem struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	C  float64 `json:"c"`
	Op RelOp   `json:"op"`
}

func (p QuadraticProblem) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"a", p.A}, {"b", p.B}, {"c", p.C}} {
		if err := checkFinite(f.name, f.v); err != nil {
			return err
		}
	}
	if !p.Op.Valid() {
		return fmt.Errorf("%w: unknown operator %d", ErrInvalidInput, int(p.Op))
	}
	if p.A == 0 {
		return fmt.Errorf("%w: a = 0 is not a quadratic, use the linear solver", ErrDegenerateInput)
	}
	return nil
}

// Eval returns a·x² + b·x + c.
func (p QuadraticProblem) Eval(x float64) float64 { return p.A*x*x + p.B*x + p.C }

// Holds reports whether x satisfies the problem.
func (p QuadraticProblem) Holds(x float64) bool { return p.Op.Holds(p.Eval(x)) }

func (p QuadraticProblem) Discriminant() float64 { return p.B*p.B - 4*p.A*p.C }

// Vertex returns the turning point (-b/2a, f(-b/2a)).
func (p QuadraticProblem) Vertex() Point {
	x := -p.B / (2 * p.A)
	return Point{X: x, Y: p.Eval(x)}
}

func (p QuadraticProblem) String() string {
	return polyExpr(term{p.A, "x²"}, term{p.B, "x"}, term{p.C, ""}) + " " + p.Op.Symbol() + " 0"
}

// ============================================================
// Inequality decision table
// ============================================================

// Orientation is the direction a parabola opens.
type Orientation int

const (
	OpensUp   Orientation = iota // a > 0
	OpensDown                    // a < 0
)

func (o Orientation) String() string {
	if o == OpensDown {
		return "down"
	}
	return "up"
}

// Multiplicity classifies the real roots by the sign of Δ.
type Multiplicity int

const (
	TwoRoots    Multiplicity = iota // Δ > 0
	DoubleRoot                      // Δ = 0
	NoRealRoots                     // Δ < 0
)

func (m Multiplicity) String() string {
	switch m {
	case TwoRoots:
		return "two"
	case DoubleRoot:
		return "double"
	}
	return "none"
}

// InequalityCase is one row of the inequality table.
type InequalityCase struct {
	Orientation  Orientation
	Multiplicity Multiplicity
	Op           RelOp
}

// inequalityTable maps every (orientation, multiplicity, operator) to the
// shape of the solution set. An upward parabola is negative strictly
// between distinct roots and positive outside them; with a double root it
// is positive everywhere except the root, where it is zero; without real
// roots it is positive everywhere. A downward parabola mirrors each case.
var inequalityTable = map[InequalityCase]Shape{
	{OpensUp, TwoRoots, OpGt}: ShapeOutsideOpen,
	{OpensUp, TwoRoots, OpGe}: ShapeOutsideClosed,
	{OpensUp, TwoRoots, OpLt}: ShapeBetweenOpen,
	{OpensUp, TwoRoots, OpLe}: ShapeBetweenClosed,

	{OpensDown, TwoRoots, OpGt}: ShapeBetweenOpen,
	{OpensDown, TwoRoots, OpGe}: ShapeBetweenClosed,
	{OpensDown, TwoRoots, OpLt}: ShapeOutsideOpen,
	{OpensDown, TwoRoots, OpLe}: ShapeOutsideClosed,

	{OpensUp, DoubleRoot, OpGt}: ShapeAllExceptRoot,
	{OpensUp, DoubleRoot, OpGe}: ShapeAllReals,
	{OpensUp, DoubleRoot, OpLt}: ShapeEmpty,
	{OpensUp, DoubleRoot, OpLe}: ShapeOnlyRoot,

	{OpensDown, DoubleRoot, OpGt}: ShapeEmpty,
	{OpensDown, DoubleRoot, OpGe}: ShapeOnlyRoot,
	{OpensDown, DoubleRoot, OpLt}: ShapeAllExceptRoot,
	{OpensDown, DoubleRoot, OpLe}: ShapeAllReals,

	{OpensUp, NoRealRoots, OpGt}: ShapeAllReals,
	{OpensUp, NoRealRoots, OpGe}: ShapeAllReals,
	{OpensUp, NoRealRoots, OpLt}: ShapeEmpty,
	{OpensUp, NoRealRoots, OpLe}: ShapeEmpty,

	{OpensDown, NoRealRoots, OpGt}: ShapeEmpty,
	{OpensDown, NoRealRoots, OpGe}: ShapeEmpty,
	{OpensDown, NoRealRoots, OpLt}: ShapeAllReals,
	{OpensDown, NoRealRoots, OpLe}: ShapeAllReals,
}

// InequalityShape looks up the solution-set shape for one case. Equality is
// not part of the table.
func InequalityShape(c InequalityCase) (Shape, bool) {
	s, ok := inequalityTable[c]
	return s, ok
}

// InequalityCases lists every table row.
func InequalityCases() []InequalityCase {
	var out []InequalityCase
	for _, o := range []Orientation{OpensUp, OpensDown} {
		for _, m := range []Multiplicity{TwoRoots, DoubleRoot, NoRealRoots} {
			for _, op := range []RelOp{OpGt, OpGe, OpLt, OpLe} {
				out = append(out, InequalityCase{o, m, op})
			}
		}
	}
	return out
}

func classify(a, delta float64) (Orientation, Multiplicity) {
	o := OpensUp
	if a < 0 {
		o = OpensDown
	}
	switch {
	case delta > 0:
		return o, TwoRoots
	case delta == 0:
		return o, DoubleRoot
	}
	return o, NoRealRoots
}

// ============================================================
// SolveQuadratic
// ============================================================

// SolveQuadratic solves a·x² + b·x + c <op> 0.
func SolveQuadratic(p QuadraticProblem) (SolutionResult, error) {
	if err := p.Validate(); err != nil {
		return SolutionResult{}, err
	}
	delta := p.Discriminant()
	v := p.Vertex()

	res := SolutionResult{
		Kind:            KindQuadratic,
		FunctionDisplay: polyDisplay(term{p.A, "x²"}, term{p.B, "x"}, term{p.C, ""}),
		Domain:          TextDomainReals,
		Vertex:          fmt.Sprintf(fmtVertex, Fixed2(v.X), Fixed2(v.Y)),
		Discriminant:    &delta,
	}
	if p.A > 0 {
		res.Range = fmt.Sprintf(fmtRangeUp, Fixed2(v.Y))
	} else {
		res.Range = fmt.Sprintf(fmtRangeDown, Fixed2(v.Y))
	}

	orientation, mult := classify(p.A, delta)
	roots := realRoots(p, delta, mult)
	res.Roots = roots

	if p.Op == OpEq {
		switch mult {
		case TwoRoots:
			// x₁ = (-b - √Δ)/2a, x₂ = (-b + √Δ)/2a, in that order.
			sq := math.Sqrt(delta)
			x1 := (-p.B - sq) / (2 * p.A)
			x2 := (-p.B + sq) / (2 * p.A)
			res.Shape = ShapeTwoRoots
			res.SolutionText = fmt.Sprintf(fmtTwoRoots, Fixed2(x1), Fixed2(x2))
		case DoubleRoot:
			res.Shape = ShapeDoubleRoot
			res.SolutionText = fmt.Sprintf(fmtDoubleRoot, Fixed2(roots[0]))
		default:
			cp := ComplexPair{Real: -p.B / (2 * p.A), Imag: math.Sqrt(-delta) / math.Abs(2*p.A)}
			res.Shape = ShapeComplex
			res.Complex = &cp
			res.SolutionText = fmt.Sprintf(fmtComplex, Fixed2(cp.Real), Fixed2(cp.Imag))
		}
	} else {
		shape := inequalityTable[InequalityCase{orientation, mult, p.Op}]
		res.Shape = shape
		res.SolutionText = inequalityText(shape, roots)
	}

	res.Samples, res.Markers = quadraticPlot(p, v, mult, roots)
	return finish(res)
}

// realRoots returns the real roots in ascending order.
func realRoots(p QuadraticProblem, delta float64, m Multiplicity) []float64 {
	switch m {
	case TwoRoots:
		sq := math.Sqrt(delta)
		r1 := (-p.B - sq) / (2 * p.A)
		r2 := (-p.B + sq) / (2 * p.A)
		return []float64{math.Min(r1, r2), math.Max(r1, r2)}
	case DoubleRoot:
		return []float64{-p.B / (2 * p.A)}
	}
	return nil
}

func inequalityText(s Shape, roots []float64) string {
	switch s {
	case ShapeAllReals:
		return TextAllReals
	case ShapeEmpty:
		return TextEmptySet
	case ShapeAllExceptRoot:
		return fmt.Sprintf(fmtAllExcept, Fixed2(roots[0]))
	case ShapeOnlyRoot:
		return fmt.Sprintf(fmtOnlyRoot, Fixed2(roots[0]))
	case ShapeOutsideOpen:
		return fmt.Sprintf(fmtOutsideOpen, Fixed2(roots[0]), Fixed2(roots[1]))
	case ShapeOutsideClosed:
		return fmt.Sprintf(fmtOutsideClosed, Fixed2(roots[0]), Fixed2(roots[1]))
	case ShapeBetweenOpen:
		return fmt.Sprintf(fmtBetweenOpen, Fixed2(roots[0]), Fixed2(roots[1]))
	case ShapeBetweenClosed:
		return fmt.Sprintf(fmtBetweenClosed, Fixed2(roots[0]), Fixed2(roots[1]))
	}
	return ""
}

// quadraticPlot samples the parabola, inserts the vertex when it falls in
// the plotted interval, and builds the vertex and root markers. Roots are
// only marked for equations with real solutions.
func quadraticPlot(p QuadraticProblem, v Point, m Multiplicity, roots []float64) ([]Point, []Marker) {
	samples := Collect(QuadraticGrid.Sample(p.Eval))
	if QuadraticGrid.Contains(v.X) {
		samples = insertSorted(samples, v)
	}
	markers := []Marker{{Label: LabelVertex, Points: []Point{v}}}
	if p.Op == OpEq && m != NoRealRoots {
		pts := make([]Point, len(roots))
		for i, r := range roots {
			pts[i] = Point{X: r, Y: 0}
		}
		markers = append(markers, Marker{Label: LabelRoots, Points: pts})
	}
	return samples, markers
}
