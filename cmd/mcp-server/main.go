// Command mcp-server exposes the gosolver tools over HTTP for AI agent
// frameworks, without the CLI.
//
// Usage:
//
//	go run ./cmd/mcp-server -port 8080 -config gosolver.yaml
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
//
// The solver page, JSON API and /metrics are served as well.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/njchilds90/gosolver/internal/config"
	"github.com/njchilds90/gosolver/internal/metrics"
	"github.com/njchilds90/gosolver/internal/server"
	"github.com/njchilds90/gosolver/internal/speech"
)

func main() {
	port := flag.Int("port", 0, "port to listen on (overrides server.addr)")
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintln(os.Stderr, "mcp-server:", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Addr = fmt.Sprintf(":%d", port)
	}
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	m := metrics.New()
	srv := server.New(cfg.Server, logger, m, speech.New(cfg.Speech, logger, m))

	logger.Info("gosolver MCP server",
		"tool", "POST /tool",
		"schema", "GET /schema",
		"health", "GET /health")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
