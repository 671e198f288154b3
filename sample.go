package gosolver

import (
	"iter"
	"math"
	"slices"
)

// ============================================================
// Plot sampling
// ============================================================

const (
	// PlotRange is the half-width of the sampled x interval [-PlotRange, PlotRange].
	PlotRange = 10.0

	LinearStep    = 0.5
	QuadraticStep = 0.1
)

// Grid is a uniform sampling of [-HalfWidth, HalfWidth].
type Grid struct {
	HalfWidth float64
	Step      float64
}

var (
	LinearGrid    = Grid{HalfWidth: PlotRange, Step: LinearStep}
	QuadraticGrid = Grid{HalfWidth: PlotRange, Step: QuadraticStep}
)

// Len is ⌊2·HalfWidth/Step⌋ + 1.
func (g Grid) Len() int {
	if g.Step <= 0 || g.HalfWidth < 0 {
		return 0
	}
	// Round away representation noise (20/0.1 = 199.99999999999997).
	n := 2 * g.HalfWidth / g.Step
	return int(math.Floor(n+1e-9)) + 1
}

// Xs yields the grid abscissae. Positions come from the index, not from
// repeated addition, so the sequence never drifts and can be restarted.
func (g Grid) Xs() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		n := g.Len()
		for i := 0; i < n; i++ {
			if !yield(-g.HalfWidth + float64(i)*g.Step) {
				return
			}
		}
	}
}

// Contains reports whether x lies inside the sampled interval.
func (g Grid) Contains(x float64) bool { return x >= -g.HalfWidth && x <= g.HalfWidth }

// Sample evaluates f over the grid.
func (g Grid) Sample(f func(float64) float64) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for x := range g.Xs() {
			if !yield(Point{X: x, Y: f(x)}) {
				return
			}
		}
	}
}

// Collect materializes a sample sequence.
func Collect(seq iter.Seq[Point]) []Point { return slices.Collect(seq) }

// insertSorted adds p and keeps the slice ordered by x. Equal x values keep
// their previous order, p goes after them.
func insertSorted(pts []Point, p Point) []Point {
	pts = append(pts, p)
	slices.SortStableFunc(pts, func(a, b Point) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})
	return pts
}
