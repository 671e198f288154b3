package main

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/njchilds90/gosolver/internal/config"
	"github.com/njchilds90/gosolver/internal/metrics"
	"github.com/njchilds90/gosolver/internal/pipeline"
	"github.com/njchilds90/gosolver/internal/speech"
)

// app is the state shared by every subcommand once the root has loaded
// the configuration.
type app struct {
	configPath string

	cfg      config.Config
	logger   *slog.Logger
	logLevel *slog.LevelVar
	metrics  *metrics.Metrics

	// isTerminal reports whether stdin and stdout are a TTY.
	isTerminal func() bool
}

func newRootCmd() *cobra.Command {
	return (&app{isTerminal: stdioIsTerminal}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gosolver",
		Short: "Solve linear and quadratic equations and inequalities",
		Long: `gosolver solves a·x + b (op) 0 and a·x² + b·x + c (op) 0, where op is
one of =, >, <, ≥ or ≤. It prints the domain, range, vertex and solution set
and can plot the function, read the result aloud, or serve the solvers over
HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger, a.logLevel = cfg.Log.NewLeveledLogger(cmd.ErrOrStderr())
			slog.SetDefault(a.logger)
			a.metrics = metrics.New()
			a.logger.Debug("Configuration loaded", "path", a.configPath)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newLinearCmd(a),
		newQuadraticCmd(a),
		newInteractiveCmd(a),
		newServeCmd(a),
		newSpeakCmd(a),
		newSchemaCmd(a),
		newToolCmd(a),
	)
	return root
}

func (a *app) pipelineOptions() []pipeline.Option {
	return []pipeline.Option{pipeline.WithLogger(a.logger), pipeline.WithMetrics(a.metrics)}
}

func (a *app) speaker() speech.Speaker {
	return speech.New(a.cfg.Speech, a.logger, a.metrics)
}

func stdioIsTerminal() bool {
	tty := func(fd uintptr) bool { return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) }
	return tty(os.Stdin.Fd()) && tty(os.Stdout.Fd())
}
