package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tranphat180603/canvas-cli/internal/fetch"
)

const (
	defaultPage     = 1
	defaultPageSize = 100
)

// toInt64 accepts the number shapes a JSON decoder or a hand-built request produces.
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func intArg(args map[string]interface{}, name string, def int) int {
	if n, ok := toInt64(args[name]); ok {
		return int(n)
	}
	return def
}

func boolArg(args map[string]interface{}, name string) bool {
	v, _ := args[name].(bool)
	return v
}

func stringArg(args map[string]interface{}, name string) string {
	v, _ := args[name].(string)
	return v
}

// requiredID reads a mandatory integer identifier.
func requiredID(args map[string]interface{}, name string) (int64, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return id, nil
}

// stringsArg reads an array of strings, skipping other values.
func stringsArg(args map[string]interface{}, name string) []string {
	raw, ok := args[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// idsArg reads an array of integers. A missing argument yields nil; an
// present but empty array yields an empty, non-nil slice.
func idsArg(args map[string]interface{}, name string) ([]int64, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of integers", name)
	}
	out := make([]int64, 0, len(raw))
	for _, item := range raw {
		id, ok := toInt64(item)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of integers", name)
		}
		out = append(out, id)
	}
	return out, nil
}

func listParams(args map[string]interface{}) fetch.ListParams {
	return fetch.ListParams{
		Page:     intArg(args, "page", defaultPage),
		PageSize: intArg(args, "page_size", defaultPageSize),
		Since:    stringArg(args, "since"),
	}
}

// Schema fragments shared by the tool definitions.

func authOption() mcp.ToolOption {
	return mcp.WithObject("auth",
		mcp.Required(),
		mcp.Description("Authentication context with canvas_base_url and canvas_access_token. Falls back to CANVAS_API_URL and CANVAS_API_KEY when omitted."),
		mcp.Properties(map[string]interface{}{
			"canvas_base_url": map[string]interface{}{
				"type":        "string",
				"description": "Base URL of the Canvas instance, e.g. https://school.instructure.com",
			},
			"canvas_access_token": map[string]interface{}{
				"type":        "string",
				"description": "Canvas API access token",
			},
		}),
	)
}

func outputFormatOption() mcp.ToolOption {
	return mcp.WithString("output_format",
		mcp.Description("Output format: 'json' (default) or 'yaml'"),
		mcp.Enum("json", "yaml"),
	)
}

func pageOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("page",
			mcp.Description("1-based page number"),
			mcp.DefaultNumber(defaultPage),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Items per page, at most 100"),
			mcp.DefaultNumber(defaultPageSize),
		),
	}
}

func sinceOption() mcp.ToolOption {
	return mcp.WithString("since",
		mcp.Description("ISO timestamp for delta fetch; only items updated after it are returned"),
	)
}

func courseIDOption() mcp.ToolOption {
	return mcp.WithNumber("course_id",
		mcp.Required(),
		mcp.Description("Canvas course ID"),
	)
}

// newTool builds a tool that takes auth and an output format.
func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	all := []mcp.ToolOption{mcp.WithDescription(description), authOption()}
	all = append(all, opts...)
	all = append(all, outputFormatOption())
	return mcp.NewTool(name, all...)
}

// newListTool builds a paginated tool that also honours since.
func newListTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	all := append([]mcp.ToolOption{}, opts...)
	all = append(all, pageOptions()...)
	all = append(all, sinceOption())
	return newTool(name, description, all...)
}
