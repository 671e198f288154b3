package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/chart"
	"github.com/njchilds90/gosolver/internal/metrics"
	"github.com/njchilds90/gosolver/internal/speech"
)

// maxBodyBytes caps JSON request bodies (1 MiB).
const maxBodyBytes = 1 << 20

// handleHealth handles GET /health.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleSolveLinear handles POST /v1/solve/linear.
//
// Response:
//
//	200 OK: SolveResponse
//	400 Bad Request: malformed body or invalid coefficients
func (s *Server) handleSolveLinear(c *gin.Context) {
	logger := s.requestLogger(c, "handleSolveLinear")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req LinearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		s.badBody(c, gosolver.KindLinear)
		return
	}
	op, err := parseOp(req.Op)
	if err != nil {
		s.solveError(c, gosolver.KindLinear, err)
		return
	}
	res, err := gosolver.SolveLinear(gosolver.LinearProblem{A: *req.A, B: *req.B, Op: op})
	s.respondSolve(c, gosolver.KindLinear, res, err)
}

// handleSolveQuadratic handles POST /v1/solve/quadratic.
//
// Response:
//
//	200 OK: SolveResponse
//	400 Bad Request: malformed body, invalid coefficients or a = 0
func (s *Server) handleSolveQuadratic(c *gin.Context) {
	logger := s.requestLogger(c, "handleSolveQuadratic")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req QuadraticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		s.badBody(c, gosolver.KindQuadratic)
		return
	}
	op, err := parseOp(req.Op)
	if err != nil {
		s.solveError(c, gosolver.KindQuadratic, err)
		return
	}
	res, err := gosolver.SolveQuadratic(gosolver.QuadraticProblem{A: *req.A, B: *req.B, C: *req.C, Op: op})
	s.respondSolve(c, gosolver.KindQuadratic, res, err)
}

func (s *Server) badBody(c *gin.Context, kind gosolver.Kind) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request body",
		Code:    gosolver.CodeInvalidInput,
		Message: gosolver.UserMessage(kind, gosolver.ErrInvalidInput),
	})
}

func (s *Server) respondSolve(c *gin.Context, kind gosolver.Kind, res gosolver.SolutionResult, err error) {
	if err != nil {
		s.solveError(c, kind, err)
		return
	}
	s.metrics.Solves.WithLabelValues(string(kind), metrics.OutcomeOK).Inc()
	c.JSON(http.StatusOK, SolveResponse{Result: res, Chart: chart.BuildConfig(res)})
}

func (s *Server) solveError(c *gin.Context, kind gosolver.Kind, err error) {
	code := gosolver.ErrorCode(err)
	outcome := metrics.OutcomeInvalid
	if code == gosolver.CodeDegenerateInput {
		outcome = metrics.OutcomeDegenerate
	}
	s.metrics.Solves.WithLabelValues(string(kind), outcome).Inc()
	s.requestLogger(c, "solve").Info("Solve rejected", "kind", kind, "error", err)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   err.Error(),
		Code:    code,
		Message: gosolver.UserMessage(kind, err),
	})
}

// handleSpeak handles POST /v1/speak.
//
// Response:
//
//	200 OK: SpeakResponse{status: "spoken"}
//	422 Unprocessable Entity: nothing to speak
//	501 Not Implemented: no synthesizer on this host
//	500 Internal Server Error: synthesizer failed
func (s *Server) handleSpeak(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	err := s.speaker.Speak(c.Request.Context(), req.Text)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, SpeakResponse{Status: "spoken"})
	case errors.Is(err, speech.ErrNothingToSpeak):
		c.JSON(http.StatusUnprocessableEntity, SpeakResponse{Status: "rejected", Warning: speech.Warning(err)})
	case errors.Is(err, speech.ErrUnsupported):
		c.JSON(http.StatusNotImplemented, SpeakResponse{Status: "unsupported", Warning: speech.Warning(err)})
	default:
		c.JSON(http.StatusInternalServerError, SpeakResponse{Status: "failed", Warning: speech.Warning(err)})
	}
}

// handleSchema handles GET /schema.
func (s *Server) handleSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(gosolver.ToolSpec()))
}

// handleTool handles POST /tool.
func (s *Server) handleTool(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req gosolver.ToolRequest
	if err := dec.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	if dec.More() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: trailing data", Code: "INVALID_REQUEST"})
		return
	}
	c.JSON(http.StatusOK, gosolver.HandleToolCall(req))
}
