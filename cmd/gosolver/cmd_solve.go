package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/chart"
	"github.com/njchilds90/gosolver/internal/pipeline"
	"github.com/njchilds90/gosolver/internal/speech"
	"github.com/njchilds90/gosolver/internal/termui"
)

type solveOptions struct {
	output string
	plot   bool
	speak  bool
}

func (o *solveOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "text", "output format: text or json")
	cmd.Flags().BoolVar(&o.plot, "plot", false, "draw the function as a text chart")
	cmd.Flags().BoolVar(&o.speak, "speak", false, "read the solution aloud")
}

func newLinearCmd(a *app) *cobra.Command {
	form := pipeline.DefaultLinearForm
	var opts solveOptions
	cmd := &cobra.Command{
		Use:     "linear",
		Short:   "Solve a·x + b (op) 0",
		Example: "  gosolver linear --a=-2 --b=4 --op=gt",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSolve(cmd, gosolver.KindLinear, form, opts)
		},
	}
	cmd.Flags().StringVar(&form.A, "a", form.A, "coefficient a")
	cmd.Flags().StringVar(&form.B, "b", form.B, "coefficient b")
	cmd.Flags().StringVar(&form.Op, "op", form.Op, "operator: eq, gt, lt, ge, le (or =, >, <, >=, <=)")
	opts.bind(cmd)
	return cmd
}

func newQuadraticCmd(a *app) *cobra.Command {
	form := pipeline.DefaultQuadraticForm
	var opts solveOptions
	cmd := &cobra.Command{
		Use:     "quadratic",
		Short:   "Solve a·x² + b·x + c (op) 0",
		Example: "  gosolver quadratic --a=1 --b=-3 --c=2 --op=ge --plot",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSolve(cmd, gosolver.KindQuadratic, form, opts)
		},
	}
	cmd.Flags().StringVar(&form.A, "a", form.A, "coefficient a (non-zero)")
	cmd.Flags().StringVar(&form.B, "b", form.B, "coefficient b")
	cmd.Flags().StringVar(&form.C, "c", form.C, "coefficient c")
	cmd.Flags().StringVar(&form.Op, "op", form.Op, "operator: eq, gt, lt, ge, le (or =, >, <, >=, <=)")
	opts.bind(cmd)
	return cmd
}

// solveError is printed by -o json when the form is rejected.
type solveError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *app) runSolve(cmd *cobra.Command, kind gosolver.Kind, form pipeline.Form, opts solveOptions) error {
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	wb := pipeline.NewWorkbench(chart.Text{}, a.pipelineOptions()...)
	defer wb.Close()
	ctrl, err := wb.Controller(kind)
	if err != nil {
		return err
	}
	v := ctrl.Solve(form)

	out := cmd.OutOrStdout()
	if opts.output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if v.Failed() {
			err = enc.Encode(solveError{Error: v.Err.Error(), Code: gosolver.ErrorCode(v.Err), Message: v.Error})
		} else {
			err = enc.Encode(v.Result)
		}
		if err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, termui.Styles.Title.Render(termui.Title(kind)))
		fmt.Fprintln(out, termui.View(v, opts.plot))
	}

	if opts.speak {
		if err := a.speaker().Speak(cmd.Context(), v.SpeechText()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), termui.Styles.Warning.Render(speech.Warning(err)))
		}
	}
	if v.Failed() {
		return fmt.Errorf("%s: %w", kind, v.Err)
	}
	return nil
}
