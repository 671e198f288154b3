package gosolver_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosolver"
)

// ============================================================
// RelOp tests
// ============================================================

func TestRelOp_ParseNamesAndSymbols(t *testing.T) {
	cases := map[string]gosolver.RelOp{
		"eq": gosolver.OpEq, "=": gosolver.OpEq,
		"gt": gosolver.OpGt, ">": gosolver.OpGt,
		"lt": gosolver.OpLt, "<": gosolver.OpLt,
		"ge": gosolver.OpGe, ">=": gosolver.OpGe, "≥": gosolver.OpGe,
		"LE": gosolver.OpLe, " <= ": gosolver.OpLe, "≤": gosolver.OpLe,
	}
	for in, want := range cases {
		got, err := gosolver.ParseRelOp(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestRelOp_ParseUnknown(t *testing.T) {
	_, err := gosolver.ParseRelOp("ne")
	assert.ErrorIs(t, err, gosolver.ErrInvalidInput)
}

func TestRelOp_Flip(t *testing.T) {
	assert.Equal(t, gosolver.OpLt, gosolver.OpGt.Flip())
	assert.Equal(t, gosolver.OpGt, gosolver.OpLt.Flip())
	assert.Equal(t, gosolver.OpLe, gosolver.OpGe.Flip())
	assert.Equal(t, gosolver.OpGe, gosolver.OpLe.Flip())
	assert.Equal(t, gosolver.OpEq, gosolver.OpEq.Flip())
}

func TestRelOp_JSONRoundTrip(t *testing.T) {
	p := gosolver.LinearProblem{A: 1, B: 2, Op: gosolver.OpGe}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":2,"op":"ge"}`, string(b))

	var back gosolver.LinearProblem
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":2,"op":"<="}`), &back))
	assert.Equal(t, gosolver.OpLe, back.Op)
}

// ============================================================
// Formatting tests
// ============================================================

func TestFixed2_NegativeZero(t *testing.T) {
	assert.Equal(t, "0.00", gosolver.Fixed2(math.Copysign(0, -1)))
	assert.Equal(t, "-2.00", gosolver.Fixed2(-2))
	assert.Equal(t, "0.33", gosolver.Fixed2(1.0/3))
}

func TestParseCoefficient(t *testing.T) {
	ok := map[string]float64{
		"2": 2, " -4 ": -4, "3.5": 3.5, "-.5": -0.5, "1e3": 1000,
		"3abc": 3, "1e": 1, "+7": 7, "5.": 5,
	}
	for in, want := range ok {
		got, err := gosolver.ParseCoefficient(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "abc", ".", "-", "e5", "1e999"} {
		_, err := gosolver.ParseCoefficient(in)
		assert.ErrorIs(t, err, gosolver.ErrInvalidInput, in)
	}
}

func TestUserMessage(t *testing.T) {
	_, err := gosolver.SolveQuadratic(gosolver.QuadraticProblem{A: 0, B: 1, C: 1})
	assert.Equal(t, "Error: "+gosolver.TextDegenerate, gosolver.UserMessage(gosolver.KindQuadratic, err))

	_, err = gosolver.SolveLinear(gosolver.LinearProblem{A: math.NaN()})
	assert.Equal(t, "Error: "+gosolver.TextInvalidLinear, gosolver.UserMessage(gosolver.KindLinear, err))
	assert.Empty(t, gosolver.UserMessage(gosolver.KindLinear, nil))

	_, err = gosolver.SolveQuadratic(gosolver.QuadraticProblem{A: 1e200, B: 1e200, C: 1})
	assert.Equal(t, "Error: "+gosolver.TextOverflow, gosolver.UserMessage(gosolver.KindQuadratic, err))
}

// ============================================================
// Sampling tests
// ============================================================

func TestGrid_LinearCount(t *testing.T) {
	pts := gosolver.Collect(gosolver.LinearGrid.Sample(func(x float64) float64 { return x }))
	require.Len(t, pts, 41)
	assert.Equal(t, -10.0, pts[0].X)
	assert.Equal(t, 10.0, pts[40].X)
	assert.Equal(t, 0.0, pts[20].X)
}

func TestGrid_QuadraticCount(t *testing.T) {
	assert.Equal(t, 201, gosolver.QuadraticGrid.Len())
}

func TestGrid_Restartable(t *testing.T) {
	seq := gosolver.LinearGrid.Sample(func(x float64) float64 { return 2 * x })
	first := gosolver.Collect(seq)
	second := gosolver.Collect(seq)
	assert.Equal(t, first, second)
}

func TestGrid_EarlyStop(t *testing.T) {
	n := 0
	for range gosolver.LinearGrid.Xs() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}
