package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/chart"
	"github.com/njchilds90/gosolver/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

func loadTemplates(r *gin.Engine) error {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	return nil
}

// panel is one pipeline as the page template sees it.
type panel struct {
	Kind   string
	Title  string
	Form   pipeline.Form
	Ops    []opOption
	Result *gosolver.SolutionResult
	Error  string
	Speech string
	Chart  template.JS
}

type opOption struct {
	Value    string
	Symbol   string
	Selected bool
}

type pageData struct {
	Linear    panel
	Quadratic panel
}

// handlePage serves GET / with both default forms solved and POST / with
// the submitted forms. Each pipeline is solved independently, so an error
// in one form leaves the other panel intact.
func (s *Server) handlePage(c *gin.Context) {
	logger := s.requestLogger(c, "handlePage")
	wb := pipeline.NewWorkbench(chart.ChartJS{},
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(s.metrics))
	defer wb.Close()

	var lin, quad pipeline.View
	if c.Request.Method == http.MethodPost {
		lin = wb.Linear.Solve(pipeline.Form{
			A:  c.PostForm("linear_a"),
			B:  c.PostForm("linear_b"),
			Op: c.DefaultPostForm("linear_op", "eq"),
		})
		quad = wb.Quadratic.Solve(pipeline.Form{
			A:  c.PostForm("quadratic_a"),
			B:  c.PostForm("quadratic_b"),
			C:  c.PostForm("quadratic_c"),
			Op: c.DefaultPostForm("quadratic_op", "eq"),
		})
	} else {
		lin, quad = wb.Startup()
	}

	c.HTML(http.StatusOK, "index.html", pageData{
		Linear:    newPanel(lin, "Ecuación lineal  f(x) = ax + b"),
		Quadratic: newPanel(quad, "Ecuación cuadrática  f(x) = ax² + bx + c"),
	})
}

func newPanel(v pipeline.View, title string) panel {
	p := panel{
		Kind:   string(v.Kind),
		Title:  title,
		Form:   v.Form,
		Result: v.Result,
		Error:  v.Error,
		Speech: v.SpeechText(),
		Chart:  "null",
	}
	for _, op := range gosolver.RelOps() {
		p.Ops = append(p.Ops, opOption{
			Value:    op.String(),
			Symbol:   op.Symbol(),
			Selected: op.String() == v.Form.Op || op.Symbol() == v.Form.Op,
		})
	}
	if cj, ok := v.Chart.(*chart.ChartJSChart); ok {
		if b, err := cj.JSON(); err == nil {
			p.Chart = template.JS(b)
		}
	}
	return p
}
