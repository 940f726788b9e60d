// Package main provides the entry point for the Canvas MCP server.
//
// The server exposes read-only Canvas LMS data as MCP tools. Running the
// binary without a subcommand is the same as "serve".
//
// # Environment Variables
//
//   - CANVAS_API_URL, CANVAS_API_KEY: credentials for calls that carry no auth argument
//   - MCP_TRANSPORT: stdio (default) or sse; setting PORT selects sse
//   - HOST, PORT: SSE listen address
//   - METRICS_ADDR: serve prometheus metrics on this address
//   - LOG_LEVEL: debug, info, warn or error
//   - OTEL_EXPORTER_OTLP_ENDPOINT: export traces over OTLP/HTTP
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tranphat180603/canvas-cli/internal/config"
	mcpserver "github.com/tranphat180603/canvas-cli/internal/server"
	"github.com/tranphat180603/canvas-cli/internal/telemetry"
)

// Build information, set with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// stdout belongs to the stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := buildRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	envFile    string
	logLevel   string
}

func buildRootCmd() *cobra.Command {
	g := &globalFlags{}
	serve := &serveFlags{}

	rootCmd := &cobra.Command{
		Use:          "mcp-server",
		Short:        "Canvas LMS tools over the Model Context Protocol",
		Version:      fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), g, serve)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "Path to a .env file loaded before the environment is read")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		buildServeCmd(g, serve),
		buildToolsCmd(g),
		buildBundleCmd(g),
	)
	return rootCmd
}

// load reads the configuration and installs the configured logger.
func (g *globalFlags) load() (*config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		if _, err := config.ParseLevel(g.logLevel); err != nil {
			return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.Log.Level = g.logLevel
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newServer(cfg *config.Config, logger *slog.Logger, metrics *telemetry.Metrics) *mcpserver.Server {
	return mcpserver.New(mcpserver.Options{
		Canvas:            cfg.CanvasOptions(),
		Credentials:       cfg.Credentials(),
		BundleConcurrency: cfg.Bundle.Concurrency,
		Logger:            logger,
		Metrics:           metrics,
	})
}
