package gosolver

import "fmt"

// ============================================================
// Linear solver: a·x + b <op> 0
// ============================================================

// LinearProblem is a·x + b <Op> 0. A = 0 is allowed and reduces to a
// comparison of the constant B against zero.
type LinearProblem struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	Op RelOp   `json:"op"`
}

func (p LinearProblem) Validate() error {
	if err := checkFinite("a", p.A); err != nil {
		return err
	}
	if err := checkFinite("b", p.B); err != nil {
		return err
	}
	if !p.Op.Valid() {
		return fmt.Errorf("%w: unknown operator %d", ErrInvalidInput, int(p.Op))
	}
	return nil
}

// Eval returns a·x + b.
func (p LinearProblem) Eval(x float64) float64 { return p.A*x + p.B }

// Holds reports whether x satisfies the problem.
func (p LinearProblem) Holds(x float64) bool { return p.Op.Holds(p.Eval(x)) }

func (p LinearProblem) String() string {
	return polyExpr(term{p.A, "x"}, term{p.B, ""}) + " " + p.Op.Symbol() + " 0"
}

// SolveLinear solves a·x + b <op> 0.
func SolveLinear(p LinearProblem) (SolutionResult, error) {
	if err := p.Validate(); err != nil {
		return SolutionResult{}, err
	}
	res := SolutionResult{
		Kind:            KindLinear,
		FunctionDisplay: polyDisplay(term{p.A, "x"}, term{p.B, ""}),
		Domain:          TextDomainReals,
		Range:           TextRangeReals,
		Samples:         Collect(LinearGrid.Sample(p.Eval)),
	}

	if p.A == 0 {
		// 0·x + b <op> 0 does not depend on x.
		res.Range = fmt.Sprintf(fmtConstantRange, Fixed2(p.B))
		if p.Op.Holds(p.B) {
			res.Shape, res.SolutionText = ShapeAllReals, TextAllReals
		} else {
			res.Shape, res.SolutionText = ShapeEmpty, TextEmptySet
		}
		return finish(res)
	}

	x0 := -p.B / p.A
	res.Roots = []float64{x0}
	if p.Op == OpEq {
		res.Shape = ShapeSingle
		res.SolutionText = fmt.Sprintf(fmtSingle, Fixed2(x0))
		return finish(res)
	}
	// Dividing by a negative a reverses the inequality.
	op := p.Op
	if p.A < 0 {
		op = op.Flip()
	}
	res.Shape = ShapeHalfLine
	res.SolutionText = fmt.Sprintf(fmtHalfLine, op.Symbol(), Fixed2(x0))
	return finish(res)
}
