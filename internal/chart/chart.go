// Package chart turns solver results into renderable charts and owns the
// single live chart of each pipeline.
//
// Two renderers are provided: ChartJS builds a Chart.js configuration for
// the HTML page, Text draws the curve on a character grid for terminals.
// Slot enforces the replace-and-release discipline: a pipeline holds at
// most one chart, and acquiring a new one releases the old one first.
package chart

import (
	"errors"
	"sync"

	"github.com/njchilds90/gosolver"
)

// ErrReleased is returned when a released chart is used.
var ErrReleased = errors.New("chart: released")

// Chart is a rendered chart handle.
type Chart interface {
	// Release frees the chart. Releasing twice is harmless.
	Release()
	Released() bool
}

// Renderer draws a solver result.
type Renderer interface {
	Render(res gosolver.SolutionResult) (Chart, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(res gosolver.SolutionResult) (Chart, error)

func (f RendererFunc) Render(res gosolver.SolutionResult) (Chart, error) { return f(res) }

// handle carries the release bookkeeping shared by the concrete charts.
type handle struct {
	mu       sync.Mutex
	released bool
}

func (h *handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
}

func (h *handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// ============================================================
// Slot
// ============================================================

// Slot holds at most one live chart.
type Slot struct {
	mu        sync.Mutex
	current   Chart
	onRelease func()
}

// NewSlot returns an empty slot. onRelease, if set, runs each time the
// slot releases a chart.
func NewSlot(onRelease func()) *Slot { return &Slot{onRelease: onRelease} }

// Acquire releases the current chart, then renders res and keeps the new
// chart. On render failure the slot stays empty.
func (s *Slot) Acquire(r Renderer, res gosolver.SolutionResult) (Chart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
	c, err := r.Render(res)
	if err != nil {
		return nil, err
	}
	s.current = c
	return c, nil
}

// Release frees the current chart, if any, and reports whether one was held.
func (s *Slot) Release() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseLocked()
}

func (s *Slot) releaseLocked() bool {
	if s.current == nil {
		return false
	}
	s.current.Release()
	s.current = nil
	if s.onRelease != nil {
		s.onRelease()
	}
	return true
}

// Current returns the live chart or nil.
func (s *Slot) Current() Chart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
