package gosolver

import "fmt"

// ============================================================
// Solution set shapes
// ============================================================

// Shape tags the form of a solution set so callers can branch on it
// without parsing SolutionText.
type Shape int

const (
	ShapeAllReals      Shape = iota // x ∈ ℝ
	ShapeEmpty                      // ∅
	ShapeSingle                     // x = x₀ (linear)
	ShapeHalfLine                   // x <op> x₀ (linear)
	ShapeTwoRoots                   // x₁, x₂
	ShapeDoubleRoot                 // x = r, multiplicity 2
	ShapeComplex                    // re ± im·i
	ShapeAllExceptRoot              // ℝ \ {r}
	ShapeOnlyRoot                   // {r}
	ShapeOutsideOpen                // x < r₁ or x > r₂
	ShapeOutsideClosed              // x ≤ r₁ or x ≥ r₂
	ShapeBetweenOpen                // r₁ < x < r₂
	ShapeBetweenClosed              // r₁ ≤ x ≤ r₂
)

var shapeNames = [...]string{
	"all_reals", "empty", "single", "half_line", "two_roots", "double_root",
	"complex", "all_except_root", "only_root", "outside_open",
	"outside_closed", "between_open", "between_closed",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	for i, name := range shapeNames {
		if name == string(b) {
			*s = Shape(i)
			return nil
		}
	}
	return fmt.Errorf("gosolver: unknown shape %q", string(b))
}

// Contains reports whether x belongs to a real solution set of this shape,
// given its roots in ascending order. ShapeHalfLine depends on the
// operator and always reports false here.
func (s Shape) Contains(x float64, roots []float64) bool {
	switch s {
	case ShapeAllReals:
		return true
	case ShapeEmpty, ShapeComplex:
		return false
	case ShapeSingle, ShapeDoubleRoot, ShapeOnlyRoot:
		return x == roots[0]
	case ShapeTwoRoots:
		return x == roots[0] || x == roots[1]
	case ShapeAllExceptRoot:
		return x != roots[0]
	case ShapeOutsideOpen:
		return x < roots[0] || x > roots[1]
	case ShapeOutsideClosed:
		return x <= roots[0] || x >= roots[1]
	case ShapeBetweenOpen:
		return roots[0] < x && x < roots[1]
	case ShapeBetweenClosed:
		return roots[0] <= x && x <= roots[1]
	}
	return false
}
