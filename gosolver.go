// Package gosolver solves linear and quadratic equations and inequalities.
//
// Design goals:
//   - Closed-form arithmetic on float64, no iterative methods
//   - Every (orientation, root multiplicity, operator) case is a table entry
//   - Deterministic output: same input, same SolutionResult
//   - Display text, plot samples and markers ready for a view layer
//   - Embeddable in HTTP services, CLI tools and agent backends
package gosolver

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ============================================================
// Errors
// ============================================================

var (
	// ErrInvalidInput reports a coefficient that is not a finite number.
	ErrInvalidInput = errors.New("gosolver: invalid input")
	// ErrDegenerateInput reports a = 0 given to the quadratic solver.
	ErrDegenerateInput = errors.New("gosolver: degenerate input")
	// ErrOverflow reports finite coefficients whose result leaves the
	// float64 range. It wraps ErrInvalidInput.
	ErrOverflow = fmt.Errorf("%w: result out of range", ErrInvalidInput)
)

// ============================================================
// Relational operators
// ============================================================

// RelOp is the relation between the expression and zero.
type RelOp int

const (
	OpEq RelOp = iota
	OpGt
	OpLt
	OpGe
	OpLe
)

var relOpNames = [...]string{"eq", "gt", "lt", "ge", "le"}
var relOpSymbols = [...]string{"=", ">", "<", "≥", "≤"}

// RelOps lists every operator in form order.
func RelOps() []RelOp { return []RelOp{OpEq, OpGt, OpLt, OpGe, OpLe} }

func (op RelOp) Valid() bool { return op >= OpEq && op <= OpLe }

func (op RelOp) String() string {
	if !op.Valid() {
		return fmt.Sprintf("RelOp(%d)", int(op))
	}
	return relOpNames[op]
}

// Symbol returns the mathematical symbol used in solution text.
func (op RelOp) Symbol() string {
	if !op.Valid() {
		return "?"
	}
	return relOpSymbols[op]
}

// Flip mirrors the operator, as when both sides are multiplied by a negative.
func (op RelOp) Flip() RelOp {
	switch op {
	case OpGt:
		return OpLt
	case OpLt:
		return OpGt
	case OpGe:
		return OpLe
	case OpLe:
		return OpGe
	}
	return op
}

// Holds reports whether v <op> 0.
func (op RelOp) Holds(v float64) bool {
	switch op {
	case OpEq:
		return v == 0
	case OpGt:
		return v > 0
	case OpLt:
		return v < 0
	case OpGe:
		return v >= 0
	case OpLe:
		return v <= 0
	}
	return false
}

// ParseRelOp accepts the wire names ("eq", "gt", ...) and the symbols.
func ParseRelOp(s string) (RelOp, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "eq", "=", "==":
		return OpEq, nil
	case "gt", ">":
		return OpGt, nil
	case "lt", "<":
		return OpLt, nil
	case "ge", ">=", "≥":
		return OpGe, nil
	case "le", "<=", "≤":
		return OpLe, nil
	}
	return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidInput, s)
}

func (op RelOp) MarshalText() ([]byte, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("%w: unknown operator %d", ErrInvalidInput, int(op))
	}
	return []byte(op.String()), nil
}

func (op *RelOp) UnmarshalText(b []byte) error {
	v, err := ParseRelOp(string(b))
	if err != nil {
		return err
	}
	*op = v
	return nil
}

// ============================================================
// Result types
// ============================================================

// Kind names the pipeline that produced a result.
type Kind string

const (
	KindLinear    Kind = "linear"
	KindQuadratic Kind = "quadratic"
)

// Point is one (x, y) plot sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Marker is a labeled set of highlighted points (vertex, roots).
type Marker struct {
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}

// ComplexPair is re ± im·i, reported when an equation has no real root.
type ComplexPair struct {
	Real float64 `json:"real"`
	Imag float64 `json:"imag"`
}

// SolutionResult is the outcome of one solve call. Values are built fresh
// on every call and never mutated afterwards.
type SolutionResult struct {
	Kind            Kind     `json:"kind"`
	FunctionDisplay string   `json:"function_display"`
	Domain          string   `json:"domain"`
	Range           string   `json:"range"`
	Vertex          string   `json:"vertex,omitempty"`
	SolutionText    string   `json:"solution_text"`
	Samples         []Point  `json:"samples"`
	Markers         []Marker `json:"markers,omitempty"`

	Shape        Shape        `json:"shape"`
	Roots        []float64    `json:"roots,omitempty"`
	Discriminant *float64     `json:"discriminant,omitempty"`
	Complex      *ComplexPair `json:"complex,omitempty"`
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: coefficient %s is not a finite number", ErrInvalidInput, name)
	}
	return nil
}

// finish returns res, or ErrOverflow and no result when a computed value
// is not finite.
func finish(res SolutionResult) (SolutionResult, error) {
	if err := checkResult(res); err != nil {
		return SolutionResult{}, err
	}
	return res, nil
}

// checkResult rejects a result holding a value that JSON and the charts
// cannot carry.
func checkResult(res SolutionResult) error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	bad := func(what string) error { return fmt.Errorf("%w: %s", ErrOverflow, what) }

	if res.Discriminant != nil && !finite(*res.Discriminant) {
		return bad("discriminant")
	}
	for _, r := range res.Roots {
		if !finite(r) {
			return bad("root")
		}
	}
	if res.Complex != nil && !(finite(res.Complex.Real) && finite(res.Complex.Imag)) {
		return bad("complex root")
	}
	for _, m := range res.Markers {
		for _, pt := range m.Points {
			if !finite(pt.X) || !finite(pt.Y) {
				return bad(strings.ToLower(m.Label))
			}
		}
	}
	for _, pt := range res.Samples {
		if !finite(pt.X) || !finite(pt.Y) {
			return bad("samples")
		}
	}
	return nil
}
