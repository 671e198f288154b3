package gosolver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Display text
// ============================================================

// User-facing text. The tool is single-language; every string shown to
// the user or spoken lives here.
const (
	TextAllReals    = "Todos los números reales (x ∈ ℝ)"
	TextEmptySet    = "No hay solución (∅)"
	TextDomainReals = "x ∈ ℝ (Todos los números reales)"
	TextRangeReals  = "y ∈ ℝ (Todos los números reales)"

	TextInvalidLinear    = "Por favor, introduce valores numéricos válidos para a y b."
	TextInvalidQuadratic = "Por favor, introduce valores numéricos válidos para a, b y c."
	TextDegenerate       = "Si a=0, esto no es una función cuadrática. Por favor, usa el solucionador lineal."
	TextOverflow         = "Los coeficientes son demasiado grandes para calcular el resultado."

	TextNothingToSpeak = "No hay solución para leer o hay un error. Por favor, resuelve primero."
	TextNoSpeech       = "Lo siento, tu plataforma no soporta la síntesis de voz."

	LabelDomain   = "Dominio"
	LabelRange    = "Rango"
	LabelVertex   = "Vértice"
	LabelSolution = "Solución"
	LabelRoots    = "Raíces"

	// ErrorPrefix starts every rendered error; the speech guard looks for it.
	ErrorPrefix = "Error"
)

const (
	fmtConstantRange = "y = %s"
	fmtRangeUp       = "y ∈ [%s, ∞)"
	fmtRangeDown     = "y ∈ (-∞, %s]"
	fmtVertex        = "(%s, %s)"
	fmtSingle        = "x = %s"
	fmtHalfLine      = "x %s %s"
	fmtTwoRoots      = "x₁ = %s, x₂ = %s"
	fmtDoubleRoot    = "x = %s (raíz doble)"
	fmtComplex       = "No hay solución real. Raíces complejas: %s ± %si"
	fmtAllExcept     = "x ∈ ℝ, excepto x = %s"
	fmtOnlyRoot      = "Solo x = %s"
	fmtOutsideOpen   = "x < %s o x > %s"
	fmtOutsideClosed = "x ≤ %s o x ≥ %s"
	fmtBetweenOpen   = "%s < x < %s"
	fmtBetweenClosed = "%s ≤ x ≤ %s"
)

// UserMessage turns a solver error into the inline text shown to the user.
func UserMessage(kind Kind, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDegenerateInput):
		return ErrorPrefix + ": " + TextDegenerate
	case errors.Is(err, ErrOverflow):
		return ErrorPrefix + ": " + TextOverflow
	case kind == KindQuadratic:
		return ErrorPrefix + ": " + TextInvalidQuadratic
	default:
		return ErrorPrefix + ": " + TextInvalidLinear
	}
}

// ============================================================
// Numbers
// ============================================================

// Fixed2 renders v with two decimals. Negative zero prints as "0.00".
func Fixed2(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

func coeff(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

type term struct {
	c   float64
	sym string
}

func polyDisplay(terms ...term) string { return "f(x) = " + polyExpr(terms...) }

// polyExpr renders terms from highest to lowest degree, skipping zero
// terms and unit coefficients.
func polyExpr(terms ...term) string {
	var sb strings.Builder
	first := true
	for _, t := range terms {
		if t.c == 0 {
			continue
		}
		neg := t.c < 0
		abs := math.Abs(t.c)
		switch {
		case first && neg:
			sb.WriteString("-")
		case !first && neg:
			sb.WriteString(" - ")
		case !first:
			sb.WriteString(" + ")
		}
		if t.sym == "" || abs != 1 {
			sb.WriteString(coeff(abs))
		}
		sb.WriteString(t.sym)
		first = false
	}
	if first {
		sb.WriteString("0")
	}
	return sb.String()
}

// ============================================================
// Form input
// ============================================================

// ParseCoefficient reads a number from a form field. Like the browser's
// parseFloat it takes the longest numeric prefix, so "3abc" is 3 and
// "1e" is 1; input without a leading number is rejected.
func ParseCoefficient(s string) (float64, error) {
	s = strings.TrimSpace(s)
	n := numericPrefix(s)
	if n == 0 {
		return math.NaN(), fmt.Errorf("%w: %q is not a number", ErrInvalidInput, s)
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("%w: %q: %v", ErrInvalidInput, s, err)
	}
	if err := checkFinite("value", v); err != nil {
		return math.NaN(), err
	}
	return v, nil
}

func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	return end
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
