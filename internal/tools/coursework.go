package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tranphat180603/canvas-cli/internal/fetch"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

func courseParams(args map[string]interface{}) (fetch.CourseParams, error) {
	courseID, err := requiredID(args, "course_id")
	if err != nil {
		return fetch.CourseParams{}, err
	}
	return fetch.CourseParams{ListParams: listParams(args), CourseID: courseID}, nil
}

// registerListAssignments registers the canvas_list_assignments tool.
func (ts *ToolServer) registerListAssignments() {
	tool := newListTool(fetch.ToolListAssignments,
		"List assignments for a course.",
		courseIDOption(),
		mcp.WithBoolean("include_submissions",
			mcp.Description("Include the current user's submission for each assignment"),
			mcp.DefaultBool(false),
		),
	)

	ts.add(tool, ts.handleListAssignments)
}

func (ts *ToolServer) handleListAssignments(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	p, err := courseParams(args)
	if err != nil {
		return nil, err
	}
	return ts.fetcher.Assignments(ctx, auth, fetch.AssignmentsParams{
		CourseParams:       p,
		IncludeSubmissions: boolArg(args, "include_submissions"),
	}), nil
}

// registerListAssignmentGroups registers the canvas_list_assignment_groups tool.
func (ts *ToolServer) registerListAssignmentGroups() {
	tool := newTool(fetch.ToolListAssignmentGroups,
		"List assignment groups for a course with their grading weights.",
		courseIDOption(),
	)

	ts.add(tool, ts.handleListAssignmentGroups)
}

func (ts *ToolServer) handleListAssignmentGroups(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	courseID, err := requiredID(args, "course_id")
	if err != nil {
		return nil, err
	}
	return ts.fetcher.AssignmentGroups(ctx, auth, courseID), nil
}

// registerListQuizzes registers the canvas_list_quizzes tool.
func (ts *ToolServer) registerListQuizzes() {
	tool := newListTool(fetch.ToolListQuizzes,
		"List quizzes for a course. Falls back to the course modules when the quizzes API is unavailable.",
		courseIDOption(),
	)

	ts.add(tool, ts.handleListQuizzes)
}

func (ts *ToolServer) handleListQuizzes(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	p, err := courseParams(args)
	if err != nil {
		return nil, err
	}
	return ts.fetcher.Quizzes(ctx, auth, p), nil
}
