// Package speech reads rendered solution text aloud.
//
// The synthesizer is an external collaborator: Exec drives espeak-ng (or
// espeak) through os/exec. Every Speaker is wrapped by Guard, which refuses
// empty or error-bearing text before anything is spoken.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/njchilds90/gosolver"
	"github.com/njchilds90/gosolver/internal/config"
	"github.com/njchilds90/gosolver/internal/metrics"
)

var (
	// ErrNothingToSpeak is returned for empty or error-bearing text.
	ErrNothingToSpeak = errors.New("speech: nothing to speak")
	// ErrUnsupported is returned when no synthesizer is available.
	ErrUnsupported = errors.New("speech: unsupported on this platform")
)

// Speaker synthesizes text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Warning returns the user-facing message for a speech error.
func Warning(err error) string {
	switch {
	case errors.Is(err, ErrNothingToSpeak):
		return gosolver.TextNothingToSpeak
	case errors.Is(err, ErrUnsupported):
		return gosolver.TextNoSpeech
	case err != nil:
		return err.Error()
	}
	return ""
}

// Speakable reports whether text may be read aloud.
func Speakable(text string) bool {
	t := strings.TrimSpace(text)
	return t != "" && !strings.Contains(t, gosolver.ErrorPrefix)
}

// ============================================================
// Guard
// ============================================================

// Guard checks text before handing it to the wrapped Speaker.
type Guard struct {
	next    Speaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewGuard wraps next. A nil next makes every request fail with
// ErrUnsupported. logger and m may be nil.
func NewGuard(next Speaker, logger *slog.Logger, m *metrics.Metrics) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{next: next, logger: logger, metrics: m}
}

func (g *Guard) Speak(ctx context.Context, text string) error {
	err := g.speak(ctx, text)
	outcome := "spoken"
	switch {
	case errors.Is(err, ErrNothingToSpeak):
		outcome = "rejected"
	case errors.Is(err, ErrUnsupported):
		outcome = "unsupported"
	case err != nil:
		outcome = "failed"
	}
	if g.metrics != nil {
		g.metrics.Speech.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		g.logger.Warn("Speech request not completed", "outcome", outcome, "error", err)
	}
	return err
}

func (g *Guard) speak(ctx context.Context, text string) error {
	if !Speakable(text) {
		return ErrNothingToSpeak
	}
	if g.next == nil {
		return ErrUnsupported
	}
	return g.next.Speak(ctx, strings.TrimSpace(text))
}

// ============================================================
// Exec: espeak-ng or espeak backend
// ============================================================

// Runner executes a command to completion.
type Runner func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("speech: %s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// candidates are tried in order when no command is configured.
var candidates = []string{"espeak-ng", "espeak"}

// Exec speaks through a command-line synthesizer.
type Exec struct {
	path  string
	voice string
	pitch int // espeak 0..99, 50 is normal
	rate  int // words per minute, 175 is normal
	run   Runner
}

// NewExec resolves the synthesizer binary. It returns ErrUnsupported when
// none is installed.
func NewExec(cfg config.SpeechConfig) (*Exec, error) {
	return newExec(cfg, exec.LookPath, runCommand)
}

func newExec(cfg config.SpeechConfig, lookPath func(string) (string, error), run Runner) (*Exec, error) {
	names := candidates
	if cfg.Command != "" {
		names = []string{cfg.Command}
	}
	for _, name := range names {
		path, err := lookPath(name)
		if err == nil {
			return &Exec{
				path:  path,
				voice: cfg.Voice,
				pitch: clamp(int(math.Round(cfg.Pitch*50)), 0, 99),
				rate:  clamp(int(math.Round(cfg.Rate*175)), 80, 450),
				run:   run,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: none of %s found", ErrUnsupported, strings.Join(names, ", "))
}

func (e *Exec) Speak(ctx context.Context, text string) error {
	return e.run(ctx, e.path, e.Args(text)...)
}

// Args returns the synthesizer arguments for text.
func (e *Exec) Args(text string) []string {
	return []string{
		"-v", e.voice,
		"-p", strconv.Itoa(e.pitch),
		"-s", strconv.Itoa(e.rate),
		"--", text,
	}
}

func clamp(v, lo, hi int) int { return max(lo, min(v, hi)) }

// ============================================================
// Setup
// ============================================================

// New builds the guarded speaker described by cfg. When speech is disabled
// or no synthesizer is installed the guard reports ErrUnsupported.
func New(cfg config.SpeechConfig, logger *slog.Logger, m *metrics.Metrics) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled {
		return NewGuard(nil, logger, m)
	}
	backend, err := NewExec(cfg)
	if err != nil {
		logger.Info("Speech synthesis unavailable", "error", err)
		return NewGuard(nil, logger, m)
	}
	return NewGuard(backend, logger, m)
}
