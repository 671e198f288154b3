package gosolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ============================================================
// Tool interface (JSON request/response for agents and HTTP)
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	Code   string      `json:"code,omitempty"`
}

// Error codes carried in ToolResponse.Code and HTTP error bodies.
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeDegenerateInput = "DEGENERATE_INPUT"
	CodeUnknownTool     = "UNKNOWN_TOOL"
)

// ErrorCode maps a solver error to its wire code.
func ErrorCode(err error) string {
	if errors.Is(err, ErrDegenerateInput) {
		return CodeDegenerateInput
	}
	return CodeInvalidInput
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getNum := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("%w: missing param: %s", ErrInvalidInput, key)
		}
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return 0, fmt.Errorf("%w: param %s: %v", ErrInvalidInput, key, err)
			}
			return f, checkFinite(key, f)
		case string:
			return ParseCoefficient(n)
		}
		return 0, fmt.Errorf("%w: param %s must be a number", ErrInvalidInput, key)
	}
	getOp := func() (RelOp, error) {
		v, ok := req.Params["op"]
		if !ok {
			return OpEq, nil
		}
		s, ok := v.(string)
		if !ok {
			return 0, fmt.Errorf("%w: param op must be a string", ErrInvalidInput)
		}
		return ParseRelOp(s)
	}
	fail := func(err error) ToolResponse {
		return ToolResponse{Error: err.Error(), Code: ErrorCode(err)}
	}
	respond := func(res SolutionResult, err error) ToolResponse {
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: res, String: res.SolutionText}
	}

	switch req.Tool {
	case "solve_linear":
		a, err := getNum("a")
		if err != nil {
			return fail(err)
		}
		b, err := getNum("b")
		if err != nil {
			return fail(err)
		}
		op, err := getOp()
		if err != nil {
			return fail(err)
		}
		return respond(SolveLinear(LinearProblem{A: a, B: b, Op: op}))

	case "solve_quadratic":
		a, err := getNum("a")
		if err != nil {
			return fail(err)
		}
		b, err := getNum("b")
		if err != nil {
			return fail(err)
		}
		c, err := getNum("c")
		if err != nil {
			return fail(err)
		}
		op, err := getOp()
		if err != nil {
			return fail(err)
		}
		return respond(SolveQuadratic(QuadraticProblem{A: a, B: b, C: c, Op: op}))

	case "inequality_table":
		rows := make([]map[string]string, 0, len(inequalityTable))
		lines := make([]string, 0, len(inequalityTable))
		for _, c := range InequalityCases() {
			s := inequalityTable[c]
			rows = append(rows, map[string]string{
				"orientation":  c.Orientation.String(),
				"multiplicity": c.Multiplicity.String(),
				"op":           c.Op.String(),
				"shape":        s.String(),
			})
			lines = append(lines, fmt.Sprintf("%s/%s/%s -> %s", c.Orientation, c.Multiplicity, c.Op, s))
		}
		return ToolResponse{Result: rows, String: strings.Join(lines, "\n")}

	case "tool_spec":
		return ToolResponse{Result: json.RawMessage(ToolSpec()), String: "tool spec"}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool), Code: CodeUnknownTool}
}

// ToolSpec returns the JSON schema of every tool for agent registration.
func ToolSpec() string {
	opProp := map[string]interface{}{"type": "string", "enum": []string{"eq", "gt", "lt", "ge", "le"}}
	tools := []map[string]interface{}{
		ts("solve_linear", "Solve a*x+b <op> 0", []string{"a", "b"},
			map[string]interface{}{"a": num(), "b": num(), "op": opProp}),
		ts("solve_quadratic", "Solve a*x²+b*x+c <op> 0 (a != 0)", []string{"a", "b", "c"},
			map[string]interface{}{"a": num(), "b": num(), "c": num(), "op": opProp}),
		ts("inequality_table", "List the quadratic inequality decision table", []string{}, map[string]interface{}{}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]interface{}{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func num() map[string]interface{} { return map[string]interface{}{"type": "number"} }

func ts(name, description string, required []string, props map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   required,
		},
	}
}
