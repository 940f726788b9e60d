// Package tools provides the MCP tools that read from a Canvas instance.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpgo "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"sigs.k8s.io/yaml"

	"github.com/tranphat180603/canvas-cli/internal/bundle"
	"github.com/tranphat180603/canvas-cli/internal/fetch"
	mcpserver "github.com/tranphat180603/canvas-cli/internal/server"
	"github.com/tranphat180603/canvas-cli/internal/telemetry"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

var tracer = otel.Tracer("github.com/tranphat180603/canvas-cli/internal/tools")

// envelope is implemented by every tool result.
type envelope interface {
	Status() (ok bool, errs int)
}

// handlerFunc runs a tool body against resolved credentials. A returned error
// means the arguments were unusable and is reported as a tool error.
type handlerFunc func(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error)

// Entry is one registered tool.
type Entry struct {
	Tool    mcp.Tool
	Handler mcpgo.ToolHandlerFunc
}

// Table is the registry of tools, fixed once RegisterAll returns.
type Table struct {
	entries []Entry
	index   map[string]int
}

// Lookup returns the tool registered under name.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.index[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Tools returns the tool definitions in registration order.
func (t *Table) Tools() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Tool)
	}
	return out
}

// Len returns the number of registered tools.
func (t *Table) Len() int {
	return len(t.entries)
}

// ToolServer holds the dependencies for tool handlers.
type ToolServer struct {
	server      *mcpserver.Server
	fetcher     *fetch.Fetcher
	bundler     *bundle.Aggregator
	credentials types.AuthContext
	logger      *slog.Logger
	metrics     *telemetry.Metrics
	table       *Table
}

// RegisterAll registers all tools with the MCP server and returns the table.
func RegisterAll(s *mcpserver.Server) *Table {
	fetcher := fetch.New(s.Clients(), s.Logger())
	ts := &ToolServer{
		server:  s,
		fetcher: fetcher,
		bundler: bundle.New(fetcher,
			bundle.WithConcurrency(s.BundleConcurrency()),
			bundle.WithLogger(s.Logger()),
		),
		credentials: s.Credentials(),
		logger:      s.Logger(),
		metrics:     s.Metrics(),
		table:       &Table{index: map[string]int{}},
	}

	// Account
	ts.registerGetProfile()
	ts.registerListCourses()
	ts.registerGetTodoItems()
	ts.registerGetUpcomingEvents()
	ts.registerGetCalendarEvents()
	ts.registerGetPlannerItems()

	// Coursework
	ts.registerListAssignments()
	ts.registerListAssignmentGroups()
	ts.registerListQuizzes()

	// Discussions
	ts.registerListDiscussionTopics()
	ts.registerGetDiscussionEntries()
	ts.registerGetDiscussionReplies()
	ts.registerListAnnouncements()

	// Inbox
	ts.registerListConversations()
	ts.registerGetConversation()

	// Course structure
	ts.registerListModules()
	ts.registerListModuleItems()
	ts.registerListPages()
	ts.registerListFiles()

	// Sync
	ts.registerGetDeltaBundle()

	return ts.table
}

// add wraps fn and registers it under the tool's name.
func (ts *ToolServer) add(tool mcp.Tool, fn handlerFunc) {
	if _, dup := ts.table.index[tool.Name]; dup {
		panic(fmt.Sprintf("tool %q registered twice", tool.Name))
	}
	handler := ts.wrap(tool.Name, fn)
	ts.table.index[tool.Name] = len(ts.table.entries)
	ts.table.entries = append(ts.table.entries, Entry{Tool: tool, Handler: handler})
	ts.server.AddTool(tool, handler)
}

// wrap resolves credentials, runs the body, and renders its envelope.
func (ts *ToolServer) wrap(name string, fn handlerFunc) mcpgo.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		logger := ts.logger.With("tool", name, "request_id", uuid.NewString())

		ctx, span := tracer.Start(ctx, "tool "+name)
		defer span.End()

		args := req.Params.Arguments
		auth, from, err := ts.resolveAuth(args)
		if err != nil {
			logger.Error("rejected tool call", "error", err)
			span.SetStatus(codes.Error, err.Error())
			ts.metrics.ToolCall(name, false, 1, time.Since(start))
			return authFailure(err), nil
		}

		out, err := fn(ctx, auth, args)
		if err != nil {
			logger.Warn("invalid tool arguments", "error", err)
			span.SetStatus(codes.Error, err.Error())
			ts.metrics.ToolCall(name, false, 1, time.Since(start))
			return mcp.NewToolResultError(err.Error()), nil
		}

		ok, errs := out.Status()
		elapsed := time.Since(start)
		span.SetAttributes(attribute.Bool("canvas.ok", ok), attribute.Int("canvas.errors", errs))
		logger.Info("tool call finished",
			"credentials", from,
			"ok", ok,
			"errors", errs,
			"duration", elapsed,
		)
		ts.metrics.ToolCall(name, ok, errs, elapsed)

		return render(out, stringArg(args, "output_format"))
	}
}

// render serializes an envelope as indented JSON, or YAML when asked.
func render(out envelope, format string) (*mcp.CallToolResult, error) {
	var (
		data []byte
		err  error
	)
	if format == "yaml" {
		data, err = yaml.Marshal(out)
	} else {
		data, err = json.MarshalIndent(out, "", "  ")
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
