package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tranphat180603/canvas-cli/internal/bundle"
	"github.com/tranphat180603/canvas-cli/internal/fetch"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// registerGetDeltaBundle registers the canvas_get_delta_bundle tool.
func (ts *ToolServer) registerGetDeltaBundle() {
	tool := newTool(fetch.ToolGetDeltaBundle,
		"Get a comprehensive bundle of Canvas data for syncing. Aggregates profile, courses, schedule items, and course-specific data.",
		mcp.WithArray("course_ids",
			mcp.Description("Courses to include. Defaults to the user's active courses; an empty list includes none."),
			mcp.Items(map[string]interface{}{"type": "integer"}),
		),
		mcp.WithString("since",
			mcp.Description("ISO timestamp for delta fetch"),
		),
	)

	ts.add(tool, ts.handleGetDeltaBundle)
}

func (ts *ToolServer) handleGetDeltaBundle(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	courseIDs, err := idsArg(args, "course_ids")
	if err != nil {
		return nil, err
	}
	return ts.bundler.Run(ctx, bundle.Request{
		Auth:      auth,
		CourseIDs: courseIDs,
		Since:     stringArg(args, "since"),
	}), nil
}
