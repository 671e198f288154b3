package server

import (
	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/chart"
)

// LinearRequest is the body of POST /v1/solve/linear.
type LinearRequest struct {
	A  *float64 `json:"a" binding:"required"`
	B  *float64 `json:"b" binding:"required"`
	Op string   `json:"op" binding:"omitempty,oneof=eq gt lt ge le"`
}

// QuadraticRequest is the body of POST /v1/solve/quadratic.
type QuadraticRequest struct {
	A  *float64 `json:"a" binding:"required"`
	B  *float64 `json:"b" binding:"required"`
	C  *float64 `json:"c" binding:"required"`
	Op string   `json:"op" binding:"omitempty,oneof=eq gt lt ge le"`
}

// SolveResponse carries the result and its Chart.js configuration.
type SolveResponse struct {
	Result gosolver.SolutionResult `json:"result"`
	Chart  chart.Config            `json:"chart"`
}

// SpeakRequest is the body of POST /v1/speak.
type SpeakRequest struct {
	Text string `json:"text"`
}

type SpeakResponse struct {
	Status  string `json:"status"`
	Warning string `json:"warning,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// ErrorResponse is the body of every 4xx/5xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func parseOp(s string) (gosolver.RelOp, error) {
	if s == "" {
		return gosolver.OpEq, nil
	}
	return gosolver.ParseRelOp(s)
}
