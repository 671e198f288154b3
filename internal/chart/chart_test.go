package chart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosolver"
)

func quadratic(t *testing.T, a, b, c float64, op gosolver.RelOp) gosolver.SolutionResult {
	t.Helper()
	res, err := gosolver.SolveQuadratic(gosolver.QuadraticProblem{A: a, B: b, C: c, Op: op})
	require.NoError(t, err)
	return res
}

// ============================================================
// Slot
// ============================================================

func TestSlot_AcquireReleasesPrevious(t *testing.T) {
	releases := 0
	slot := NewSlot(func() { releases++ })
	res := quadratic(t, 1, 0, -4, gosolver.OpEq)

	first, err := slot.Acquire(ChartJS{}, res)
	require.NoError(t, err)
	second, err := slot.Acquire(ChartJS{}, res)
	require.NoError(t, err)

	assert.True(t, first.Released())
	assert.False(t, second.Released())
	assert.Same(t, second, slot.Current())
	assert.Equal(t, 1, releases)
}

func TestSlot_Release(t *testing.T) {
	slot := NewSlot(nil)
	assert.False(t, slot.Release())

	c, err := slot.Acquire(ChartJS{}, quadratic(t, 1, 0, 1, gosolver.OpEq))
	require.NoError(t, err)
	assert.True(t, slot.Release())
	assert.True(t, c.Released())
	assert.Nil(t, slot.Current())
	assert.False(t, slot.Release())
}

func TestSlot_RenderFailureLeavesSlotEmpty(t *testing.T) {
	slot := NewSlot(nil)
	old, err := slot.Acquire(ChartJS{}, quadratic(t, 1, 0, 1, gosolver.OpEq))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = slot.Acquire(RendererFunc(func(gosolver.SolutionResult) (Chart, error) { return nil, boom }), gosolver.SolutionResult{})
	assert.ErrorIs(t, err, boom)
	assert.True(t, old.Released())
	assert.Nil(t, slot.Current())
}

// ============================================================
// Chart.js
// ============================================================

func TestBuildConfig_Datasets(t *testing.T) {
	cfg := BuildConfig(quadratic(t, 1, 0, -4, gosolver.OpEq))
	require.Len(t, cfg.Data.Datasets, 3)

	line := cfg.Data.Datasets[0]
	assert.Equal(t, "f(x) = x² - 4", line.Label)
	assert.Nil(t, line.ShowLine)
	assert.Equal(t, 0, line.PointRadius)

	vertex := cfg.Data.Datasets[1]
	assert.Equal(t, gosolver.LabelVertex, vertex.Label)
	assert.Equal(t, "red", vertex.BorderColor)
	require.NotNil(t, vertex.ShowLine)
	assert.False(t, *vertex.ShowLine)

	roots := cfg.Data.Datasets[2]
	assert.Equal(t, "cross", roots.PointStyle)
	assert.Len(t, roots.Data, 2)
}

func TestChartJSChart_JSON(t *testing.T) {
	c, err := ChartJS{}.Render(quadratic(t, -1, 0, 4, gosolver.OpGt))
	require.NoError(t, err)
	cj := c.(*ChartJSChart)

	b, err := cj.JSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "line", decoded["type"])

	c.Release()
	_, err = cj.JSON()
	assert.ErrorIs(t, err, ErrReleased)
}

// ============================================================
// Text
// ============================================================

func TestText_DrawsAxesAndMarkers(t *testing.T) {
	c, err := Text{Width: 41, Height: 15}.Render(quadratic(t, 1, 0, -4, gosolver.OpEq))
	require.NoError(t, err)
	tc := c.(*TextChart)

	require.Len(t, tc.Lines(), 15)
	joined := strings.Join(tc.Lines(), "\n")
	assert.Contains(t, joined, "V")
	assert.Contains(t, joined, "R")
	assert.Contains(t, joined, "│")
	assert.Contains(t, tc.String(), "x ∈ [-10.00, 10.00]")

	c.Release()
	assert.Empty(t, tc.String())
}

func TestText_FlatLine(t *testing.T) {
	res, err := gosolver.SolveLinear(gosolver.LinearProblem{A: 0, B: 3})
	require.NoError(t, err)
	c, err := Text{}.Render(res)
	require.NoError(t, err)
	assert.Len(t, c.(*TextChart).Lines(), DefaultTextHeight)
}

func TestText_Errors(t *testing.T) {
	_, err := Text{}.Render(gosolver.SolutionResult{})
	assert.Error(t, err)
	_, err = Text{Width: 2, Height: 2}.Render(quadratic(t, 1, 0, 0, gosolver.OpEq))
	assert.Error(t, err)
}
