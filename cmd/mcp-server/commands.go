package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/tranphat180603/canvas-cli/internal/config"
	"github.com/tranphat180603/canvas-cli/internal/fetch"
	"github.com/tranphat180603/canvas-cli/internal/telemetry"
	"github.com/tranphat180603/canvas-cli/internal/tools"
)

// =============================================================================
// Serve Command
// =============================================================================

type serveFlags struct {
	transport   string
	addr        string
	metricsAddr string
}

func buildServeCmd(g *globalFlags, f *serveFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Canvas tools over MCP",
		Example: `  # stdio, for MCP clients that spawn the server
  mcp-server serve

  # SSE on port 8000 with metrics
  mcp-server serve --transport sse --addr :8000 --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), g, f)
		},
	}
	cmd.Flags().StringVar(&f.transport, "transport", "", "Transport: stdio or sse")
	cmd.Flags().StringVar(&f.addr, "addr", "", "Listen address for the sse transport")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
	return cmd
}

func runServe(ctx context.Context, g *globalFlags, f *serveFlags) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	if f.transport != "" {
		cfg.Server.Transport = f.transport
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.metricsAddr != "" {
		cfg.Server.MetricsAddr = f.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.InitTracing(ctx, "canvas-cli")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	metrics := telemetry.NewMetrics()
	s := newServer(cfg, logger, metrics)
	table := tools.RegisterAll(s)

	logger.Info("starting Canvas MCP server",
		"version", version,
		"tools", table.Len(),
		"transport", cfg.Server.Transport,
	)
	if creds := cfg.Credentials(); creds.BaseURL != "" && creds.AccessToken != "" {
		logger.Info("found Canvas credentials in environment", "base_url", creds.BaseURL)
	} else {
		logger.Warn("no Canvas credentials in environment; tool calls must pass auth")
	}

	if cfg.Server.MetricsAddr != "" {
		go func() {
			if err := s.ServeMetrics(ctx, cfg.Server.MetricsAddr); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	if cfg.Server.Transport == config.TransportSSE {
		return s.ServeSSE(ctx, cfg.Server.Addr)
	}
	return s.ServeStdio()
}

// =============================================================================
// Tools Command
// =============================================================================

func buildToolsCmd(g *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load()
			if err != nil {
				return err
			}
			table := tools.RegisterAll(newServer(cfg, logger, nil))
			return printValue(cmd.OutOrStdout(), table.Tools(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")
	return cmd
}

func printValue(w io.Writer, v interface{}, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = json.MarshalIndent(v, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// =============================================================================
// Bundle Command
// =============================================================================

func buildBundleCmd(g *globalFlags) *cobra.Command {
	var (
		courseIDs []int64
		since     string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Fetch one delta bundle with the configured credentials",
		Example: `  # everything for the active courses
  mcp-server bundle

  # changes since a timestamp for two courses, as YAML
  mcp-server bundle --course-id 101 --course-id 202 --since 2024-01-01T00:00:00Z -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}
			cfg, logger, err := g.load()
			if err != nil {
				return err
			}

			arguments := map[string]interface{}{"output_format": output}
			if cmd.Flags().Changed("course-id") {
				ids := make([]interface{}, 0, len(courseIDs))
				for _, id := range courseIDs {
					ids = append(ids, id)
				}
				arguments["course_ids"] = ids
			}
			if since != "" {
				arguments["since"] = since
			}

			table := tools.RegisterAll(newServer(cfg, logger, nil))
			entry, _ := table.Lookup(fetch.ToolGetDeltaBundle)
			var req mcp.CallToolRequest
			req.Params.Name = fetch.ToolGetDeltaBundle
			req.Params.Arguments = arguments

			res, err := entry.Handler(cmd.Context(), req)
			if err != nil {
				return err
			}
			body := resultText(res)
			if res.IsError {
				return errors.New(body)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), body)
			return err
		},
	}
	cmd.Flags().Int64SliceVar(&courseIDs, "course-id", nil, "Course to include (repeatable); defaults to the active courses")
	cmd.Flags().StringVar(&since, "since", "", "Only include items updated after this ISO timestamp")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")
	return cmd
}

func resultText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
