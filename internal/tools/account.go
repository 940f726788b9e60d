package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tranphat180603/canvas-cli/internal/fetch"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// registerGetProfile registers the canvas_get_profile tool.
func (ts *ToolServer) registerGetProfile() {
	tool := newTool(fetch.ToolGetProfile,
		"Get the current user's Canvas profile.",
	)

	ts.add(tool, ts.handleGetProfile)
}

func (ts *ToolServer) handleGetProfile(ctx context.Context, auth types.AuthContext, _ map[string]interface{}) (envelope, error) {
	return ts.fetcher.Profile(ctx, auth), nil
}

// registerListCourses registers the canvas_list_courses tool.
func (ts *ToolServer) registerListCourses() {
	tool := newListTool(fetch.ToolListCourses,
		"List courses for the current user.",
		mcp.WithString("enrollment_state",
			mcp.Description("Filter by enrollment state, e.g. 'active', 'completed' or 'invited_or_pending'"),
		),
	)

	ts.add(tool, ts.handleListCourses)
}

func (ts *ToolServer) handleListCourses(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	return ts.fetcher.Courses(ctx, auth, fetch.CoursesParams{
		ListParams:      listParams(args),
		EnrollmentState: stringArg(args, "enrollment_state"),
	}), nil
}

// registerGetTodoItems registers the canvas_get_todo_items tool.
func (ts *ToolServer) registerGetTodoItems() {
	tool := newListTool(fetch.ToolGetTodoItems,
		"Get todo items for the current user.",
	)

	ts.add(tool, ts.handleGetTodoItems)
}

func (ts *ToolServer) handleGetTodoItems(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	return ts.fetcher.TodoItems(ctx, auth, listParams(args)), nil
}

// registerGetUpcomingEvents registers the canvas_get_upcoming_events tool.
func (ts *ToolServer) registerGetUpcomingEvents() {
	tool := newListTool(fetch.ToolGetUpcomingEvents,
		"Get upcoming events for the current user.",
	)

	ts.add(tool, ts.handleGetUpcomingEvents)
}

func (ts *ToolServer) handleGetUpcomingEvents(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	return ts.fetcher.UpcomingEvents(ctx, auth, listParams(args)), nil
}

func rangeOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("start_date",
			mcp.Description("Only return items on or after this date (ISO 8601)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Only return items on or before this date (ISO 8601)"),
		),
		mcp.WithArray("context_codes",
			mcp.Description("Context codes to include, e.g. 'course_123'"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
	}
}

func rangeParams(args map[string]interface{}) fetch.RangeParams {
	return fetch.RangeParams{
		ListParams:   listParams(args),
		StartDate:    stringArg(args, "start_date"),
		EndDate:      stringArg(args, "end_date"),
		ContextCodes: stringsArg(args, "context_codes"),
	}
}

// registerGetCalendarEvents registers the canvas_get_calendar_events tool.
func (ts *ToolServer) registerGetCalendarEvents() {
	tool := newListTool(fetch.ToolGetCalendarEvents,
		"Get calendar events for the current user.",
		rangeOptions()...,
	)

	ts.add(tool, ts.handleGetCalendarEvents)
}

func (ts *ToolServer) handleGetCalendarEvents(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	return ts.fetcher.CalendarEvents(ctx, auth, rangeParams(args)), nil
}

// registerGetPlannerItems registers the canvas_get_planner_items tool.
func (ts *ToolServer) registerGetPlannerItems() {
	tool := newListTool(fetch.ToolGetPlannerItems,
		"Get planner items for the current user.",
		rangeOptions()...,
	)

	ts.add(tool, ts.handleGetPlannerItems)
}

func (ts *ToolServer) handleGetPlannerItems(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	return ts.fetcher.PlannerItems(ctx, auth, rangeParams(args)), nil
}
