// Package fetch implements the per-entity fetchers behind the canvas tools.
//
// Every fetcher follows the same pipeline: resolve a client from the caller's
// credentials, read the upstream collection, drop items not newer than since,
// take the requested page and project each item into its wire type. Failures
// never escape a fetcher; they are reported in the envelope's errors.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/internal/pagination"
	"github.com/tranphat180603/canvas-cli/internal/timeutil"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// Tool names.
const (
	ToolGetProfile           = "canvas_get_profile"
	ToolListCourses          = "canvas_list_courses"
	ToolListAssignments      = "canvas_list_assignments"
	ToolListAssignmentGroups = "canvas_list_assignment_groups"
	ToolListQuizzes          = "canvas_list_quizzes"
	ToolListDiscussionTopics = "canvas_list_discussion_topics"
	ToolGetDiscussionEntries = "canvas_get_discussion_entries"
	ToolGetDiscussionReplies = "canvas_get_discussion_replies"
	ToolListAnnouncements    = "canvas_list_announcements"
	ToolListConversations    = "canvas_list_conversations"
	ToolGetConversation      = "canvas_get_conversation"
	ToolListModules          = "canvas_list_modules"
	ToolListModuleItems      = "canvas_list_module_items"
	ToolListPages            = "canvas_list_pages"
	ToolListFiles            = "canvas_list_files"
	ToolGetTodoItems         = "canvas_get_todo_items"
	ToolGetUpcomingEvents    = "canvas_get_upcoming_events"
	ToolGetCalendarEvents    = "canvas_get_calendar_events"
	ToolGetPlannerItems      = "canvas_get_planner_items"
	ToolGetDeltaBundle       = "canvas_get_delta_bundle"
)

var tracer = otel.Tracer("github.com/tranphat180603/canvas-cli/internal/fetch")

// ClientSource creates upstream clients for a set of credentials.
type ClientSource interface {
	New(auth types.AuthContext) (*canvas.Client, error)
}

// Fetcher runs the per-entity fetchers.
type Fetcher struct {
	clients ClientSource
	logger  *slog.Logger
}

// New creates a fetcher. A nil logger discards output.
func New(clients ClientSource, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{clients: clients, logger: logger}
}

// ListParams are the paging and delta parameters shared by list fetchers.
type ListParams struct {
	Page     int
	PageSize int
	// Since keeps only items updated strictly after this timestamp. Empty keeps all.
	Since string
}

func (p ListParams) clamped() (int, int) {
	return pagination.Clamp(p.Page, p.PageSize)
}

// body is the fetcher specific part of the pipeline. It returns the page of
// items and whether more follow.
type body[T any] func(ctx context.Context, c *canvas.Client, problems *types.Problems) ([]T, bool, error)

// run wraps a fetcher body with client resolution, tracing and the error
// boundary, and assembles the envelope.
func run[T any](ctx context.Context, f *Fetcher, tool string, auth types.AuthContext, page, pageSize int, fn body[T]) (out types.ToolOutput[T]) {
	ctx, span := tracer.Start(ctx, tool)
	defer span.End()

	var problems types.Problems
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("fetcher panicked", "tool", tool, "panic", r)
			problems.Add(fmt.Sprintf("Unexpected error: %v", r))
			out = pagination.Build[T](tool, nil, page, pageSize, false, problems)
		}
		span.SetAttributes(
			attribute.Bool("canvas.ok", out.OK),
			attribute.Int("canvas.items", len(out.Items)),
			attribute.Int("canvas.errors", len(out.Errors)),
		)
		if !out.OK {
			span.SetStatus(codes.Error, "tool reported errors")
		}
	}()

	c, err := f.clients.New(auth)
	if err != nil {
		problems.Add(describe(err))
		return pagination.Build[T](tool, nil, page, pageSize, false, problems)
	}

	items, hasMore, err := fn(ctx, c, &problems)
	if err != nil {
		f.logger.Debug("fetcher failed", "tool", tool, "error", err)
		problems.Add(describe(err))
		return pagination.Build[T](tool, nil, page, pageSize, false, problems)
	}
	return pagination.Build(tool, items, page, pageSize, hasMore, problems)
}

// describe renders err with the prefix of its category.
func describe(err error) string {
	var apiErr *canvas.APIError
	switch {
	case errors.Is(err, canvas.ErrAuth):
		return fmt.Sprintf("Authentication error: %v", err)
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Canvas API error: %v", err)
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}

// freshness extracts the timestamp a since filter compares against.
type freshness func(canvas.Object) any

func updatedAt(o canvas.Object) any {
	return o.Raw("updated_at")
}

func newerThan(since string, key freshness) func(canvas.Object) bool {
	return func(o canvas.Object) bool {
		return timeutil.IsAfter(key(o), since)
	}
}

// listPage filters seq by since, takes the requested page and projects it.
func listPage[T any](ctx context.Context, seq pagination.Seq[canvas.Object], p ListParams, key freshness, project func(canvas.Object) T) ([]T, bool, error) {
	page, pageSize := p.clamped()
	if p.Since != "" {
		seq = pagination.Filter(seq, newerThan(p.Since, key))
	}
	objs, hasMore, err := pagination.Take(ctx, seq, page, pageSize)
	if err != nil {
		return nil, false, err
	}
	return projectAll(objs, project), hasMore, nil
}

// slicePage is listPage for collections already held in memory.
func slicePage[T any](objs []canvas.Object, p ListParams, key freshness, project func(canvas.Object) T) ([]T, bool) {
	page, pageSize := p.clamped()
	if p.Since != "" {
		keep := newerThan(p.Since, key)
		filtered := make([]canvas.Object, 0, len(objs))
		for _, o := range objs {
			if keep(o) {
				filtered = append(filtered, o)
			}
		}
		objs = filtered
	}
	window, hasMore := pagination.Slice(objs, page, pageSize)
	return projectAll(window, project), hasMore
}

func projectAll[T any](objs []canvas.Object, project func(canvas.Object) T) []T {
	out := make([]T, 0, len(objs))
	for _, o := range objs {
		out = append(out, project(o))
	}
	return out
}
