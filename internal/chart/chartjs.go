package chart

import (
	"encoding/json"

	"github.com/njchilds90/gosolver"
)

// Config is a Chart.js chart configuration. The page script adds the
// tooltip callback, which cannot travel as JSON.
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string           `json:"label"`
	Data            []gosolver.Point `json:"data"`
	BorderColor     string           `json:"borderColor"`
	BackgroundColor string           `json:"backgroundColor"`
	BorderWidth     int              `json:"borderWidth,omitempty"`
	PointRadius     int              `json:"pointRadius"`
	PointStyle      string           `json:"pointStyle,omitempty"`
	Fill            bool             `json:"fill"`
	Tension         float64          `json:"tension,omitempty"`
	ShowLine        *bool            `json:"showLine,omitempty"`
}

type Options struct {
	Responsive          bool            `json:"responsive"`
	MaintainAspectRatio bool            `json:"maintainAspectRatio"`
	Scales              map[string]Axis `json:"scales"`
}

type Axis struct {
	Type     string    `json:"type"`
	Position string    `json:"position"`
	Title    AxisTitle `json:"title"`
	Grid     AxisGrid  `json:"grid"`
}

type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type AxisGrid struct {
	Color string `json:"color"`
}

var markerStyles = map[string]struct{ color, style string }{
	gosolver.LabelVertex: {"red", "circle"},
	gosolver.LabelRoots:  {"blue", "cross"},
}

// BuildConfig lays out the curve as a line dataset followed by one scatter
// dataset per marker.
func BuildConfig(res gosolver.SolutionResult) Config {
	datasets := []Dataset{{
		Label:           res.FunctionDisplay,
		Data:            res.Samples,
		BorderColor:     "rgb(75, 192, 192)",
		BackgroundColor: "rgba(75, 192, 192, 0.2)",
		BorderWidth:     2,
		PointRadius:     0,
		Tension:         0.1,
	}}
	noLine := false
	for _, m := range res.Markers {
		st, ok := markerStyles[m.Label]
		if !ok {
			st.color, st.style = "black", "circle"
		}
		datasets = append(datasets, Dataset{
			Label:           m.Label,
			Data:            m.Points,
			BorderColor:     st.color,
			BackgroundColor: st.color,
			PointRadius:     5,
			PointStyle:      st.style,
			ShowLine:        &noLine,
		})
	}
	axis := func(name, pos string) Axis {
		return Axis{
			Type:     "linear",
			Position: pos,
			Title:    AxisTitle{Display: true, Text: name},
			Grid:     AxisGrid{Color: "rgba(0, 0, 0, 0.1)"},
		}
	}
	return Config{
		Type: "line",
		Data: Data{Datasets: datasets},
		Options: Options{
			Responsive:          true,
			MaintainAspectRatio: false,
			Scales:              map[string]Axis{"x": axis("x", "bottom"), "y": axis("y", "left")},
		},
	}
}

// ChartJSChart is a Chart.js configuration held as a chart handle.
type ChartJSChart struct {
	handle
	config Config
}

// JSON returns the configuration for the page script.
func (c *ChartJSChart) JSON() ([]byte, error) {
	if c.Released() {
		return nil, ErrReleased
	}
	return json.Marshal(c.config)
}

func (c *ChartJSChart) Config() Config { return c.config }

// ChartJS renders Chart.js configurations.
type ChartJS struct{}

func (ChartJS) Render(res gosolver.SolutionResult) (Chart, error) {
	return &ChartJSChart{config: BuildConfig(res)}, nil
}
