package fetch

import (
	"context"

	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// CoursesParams filters the course listing.
type CoursesParams struct {
	ListParams
	// EnrollmentState is one of active, invited_or_pending, completed. Empty lists all.
	EnrollmentState string
}

// RangeParams filter calendar and planner listings.
type RangeParams struct {
	ListParams
	StartDate    string
	EndDate      string
	ContextCodes []string
}

// Profile gets the authenticated user. The envelope holds exactly one item on success.
func (f *Fetcher) Profile(ctx context.Context, auth types.AuthContext) types.ToolOutput[types.Profile] {
	return run(ctx, f, ToolGetProfile, auth, 1, 1, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.Profile, bool, error) {
		user, err := c.CurrentUser(ctx)
		if err != nil {
			return nil, false, err
		}
		return []types.Profile{projectProfile(user)}, false, nil
	})
}

// Courses lists the user's courses.
func (f *Fetcher) Courses(ctx context.Context, auth types.AuthContext, p CoursesParams) types.ToolOutput[types.Course] {
	page, size := p.clamped()
	return run(ctx, f, ToolListCourses, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.Course, bool, error) {
		return listPage(ctx, c.Courses(p.EnrollmentState), p.ListParams, updatedAt, projectCourse)
	})
}

// TodoItems lists the user's to-do items. Freshness is the nested assignment's update time.
func (f *Fetcher) TodoItems(ctx context.Context, auth types.AuthContext, p ListParams) types.ToolOutput[types.TodoItem] {
	page, size := p.clamped()
	return run(ctx, f, ToolGetTodoItems, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.TodoItem, bool, error) {
		return listPage(ctx, c.TodoItems(), p, todoUpdatedAt, projectTodoItem)
	})
}

func todoUpdatedAt(o canvas.Object) any {
	return o.Raw("assignment", "updated_at")
}

// UpcomingEvents lists the user's upcoming assignments and events.
func (f *Fetcher) UpcomingEvents(ctx context.Context, auth types.AuthContext, p ListParams) types.ToolOutput[types.UpcomingEvent] {
	page, size := p.clamped()
	return run(ctx, f, ToolGetUpcomingEvents, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.UpcomingEvent, bool, error) {
		return listPage(ctx, c.UpcomingEvents(), p, updatedAt, projectUpcomingEvent)
	})
}

// CalendarEvents lists calendar events in a date range.
func (f *Fetcher) CalendarEvents(ctx context.Context, auth types.AuthContext, p RangeParams) types.ToolOutput[types.CalendarEvent] {
	page, size := p.clamped()
	return run(ctx, f, ToolGetCalendarEvents, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.CalendarEvent, bool, error) {
		return listPage(ctx, c.CalendarEvents(p.StartDate, p.EndDate, p.ContextCodes), p.ListParams, updatedAt, projectCalendarEvent)
	})
}

// PlannerItems lists planner items in a date range.
func (f *Fetcher) PlannerItems(ctx context.Context, auth types.AuthContext, p RangeParams) types.ToolOutput[types.PlannerItem] {
	page, size := p.clamped()
	return run(ctx, f, ToolGetPlannerItems, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.PlannerItem, bool, error) {
		return listPage(ctx, c.PlannerItems(p.StartDate, p.EndDate, p.ContextCodes), p.ListParams, updatedAt, projectPlannerItem)
	})
}
