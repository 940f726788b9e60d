// Package bundle builds the delta bundle: a snapshot of the account level
// collections and the coursework of every course in scope, assembled from the
// per-entity fetchers.
package bundle

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/tranphat180603/canvas-cli/internal/fetch"
	"github.com/tranphat180603/canvas-cli/internal/pagination"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

const (
	// DefaultConcurrency bounds the number of sub-calls in flight.
	DefaultConcurrency = 4

	accountPageSize      = 100
	courseworkPageSize   = 100
	announcementPageSize = 50
)

// Source is the set of fetchers the aggregator composes. Implementations must
// report failures in the envelope and never panic.
type Source interface {
	Profile(ctx context.Context, auth types.AuthContext) types.ToolOutput[types.Profile]
	Courses(ctx context.Context, auth types.AuthContext, p fetch.CoursesParams) types.ToolOutput[types.Course]
	TodoItems(ctx context.Context, auth types.AuthContext, p fetch.ListParams) types.ToolOutput[types.TodoItem]
	UpcomingEvents(ctx context.Context, auth types.AuthContext, p fetch.ListParams) types.ToolOutput[types.UpcomingEvent]
	CalendarEvents(ctx context.Context, auth types.AuthContext, p fetch.RangeParams) types.ToolOutput[types.CalendarEvent]
	PlannerItems(ctx context.Context, auth types.AuthContext, p fetch.RangeParams) types.ToolOutput[types.PlannerItem]
	Assignments(ctx context.Context, auth types.AuthContext, p fetch.AssignmentsParams) types.ToolOutput[types.Assignment]
	Quizzes(ctx context.Context, auth types.AuthContext, p fetch.CourseParams) types.ToolOutput[types.Quiz]
	DiscussionTopics(ctx context.Context, auth types.AuthContext, p fetch.DiscussionParams) types.ToolOutput[types.DiscussionTopic]
	Announcements(ctx context.Context, auth types.AuthContext, p fetch.AnnouncementsParams) types.ToolOutput[types.Announcement]
}

var _ Source = (*fetch.Fetcher)(nil)

// Request is one bundle invocation.
type Request struct {
	Auth types.AuthContext
	// CourseIDs is used verbatim when non-nil. Nil means the active courses.
	CourseIDs []int64
	Since     string
}

// Aggregator builds bundles.
type Aggregator struct {
	source      Source
	concurrency int
	logger      *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency sets how many sub-calls may run at once. 1 runs them in order.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an aggregator over source.
func New(source Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:      source,
		concurrency: DefaultConcurrency,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// report is the error slot of one sub-call.
type report struct {
	errors  []string
	notices int
}

func reportOf[T any](out types.ToolOutput[T]) report {
	return report{errors: out.Errors, notices: out.Notices}
}

// Call-site order of the account level sub-calls.
const (
	slotProfile = iota
	slotCourses
	slotTodo
	slotUpcoming
	slotCalendar
	slotPlanner
	accountSlots
)

// Call-site order of the per-course sub-calls.
const (
	slotAssignments = iota
	slotQuizzes
	slotDiscussions
	slotAnnouncements
	courseSlots
)

// Run builds the bundle for req. Every sub-call owns its result slot, so a
// failing sub-call only empties its own slice of the bundle. Errors are merged
// in call-site order whatever order the sub-calls finish in.
func (a *Aggregator) Run(ctx context.Context, req Request) types.ToolOutput[types.Bundle] {
	var (
		bundle   = types.NewBundle()
		problems types.Problems
		since    = req.Since
	)
	account := func(p int) fetch.ListParams {
		return fetch.ListParams{Page: 1, PageSize: p, Since: since}
	}

	scope := req.CourseIDs
	var scopeCourses *types.ToolOutput[types.Course]
	if scope == nil {
		active := a.source.Courses(ctx, req.Auth, fetch.CoursesParams{
			ListParams:      fetch.ListParams{Page: 1, PageSize: accountPageSize},
			EnrollmentState: "active",
		})
		scope = []int64{}
		for _, c := range active.Items {
			if c.ID != nil {
				scope = append(scope, *c.ID)
			}
		}
		if since == "" {
			scopeCourses = &active
		} else {
			r := reportOf(active)
			problems.Absorb(r.errors, r.notices)
		}
	}
	a.logger.Debug("building bundle", "courses", len(scope), "since", since, "concurrency", a.concurrency)

	var (
		accountReports [accountSlots]report
		courseReports  = make([][courseSlots]report, len(scope))
		courseData     = make([]types.CourseData, len(scope))
		g              errgroup.Group
	)
	g.SetLimit(a.concurrency)

	g.Go(func() error {
		out := a.source.Profile(ctx, req.Auth)
		if len(out.Items) > 0 {
			profile := out.Items[0]
			bundle.Profile = &profile
		}
		accountReports[slotProfile] = reportOf(out)
		return nil
	})
	g.Go(func() error {
		out := scopeCourses
		if out == nil {
			res := a.source.Courses(ctx, req.Auth, fetch.CoursesParams{ListParams: account(accountPageSize), EnrollmentState: "active"})
			out = &res
		}
		bundle.Courses = out.Items
		accountReports[slotCourses] = reportOf(*out)
		return nil
	})
	g.Go(func() error {
		out := a.source.TodoItems(ctx, req.Auth, account(accountPageSize))
		bundle.TodoItems = out.Items
		accountReports[slotTodo] = reportOf(out)
		return nil
	})
	g.Go(func() error {
		out := a.source.UpcomingEvents(ctx, req.Auth, account(accountPageSize))
		bundle.UpcomingEvents = out.Items
		accountReports[slotUpcoming] = reportOf(out)
		return nil
	})
	g.Go(func() error {
		out := a.source.CalendarEvents(ctx, req.Auth, fetch.RangeParams{ListParams: account(accountPageSize)})
		bundle.CalendarEvents = out.Items
		accountReports[slotCalendar] = reportOf(out)
		return nil
	})
	g.Go(func() error {
		out := a.source.PlannerItems(ctx, req.Auth, fetch.RangeParams{ListParams: account(accountPageSize)})
		bundle.PlannerItems = out.Items
		accountReports[slotPlanner] = reportOf(out)
		return nil
	})

	for i, courseID := range scope {
		courseData[i] = types.NewCourseData()
		course := fetch.CourseParams{ListParams: account(courseworkPageSize), CourseID: courseID}

		g.Go(func() error {
			out := a.source.Assignments(ctx, req.Auth, fetch.AssignmentsParams{CourseParams: course, IncludeSubmissions: true})
			courseData[i].Assignments = out.Items
			courseReports[i][slotAssignments] = reportOf(out)
			return nil
		})
		g.Go(func() error {
			out := a.source.Quizzes(ctx, req.Auth, course)
			courseData[i].Quizzes = out.Items
			courseReports[i][slotQuizzes] = reportOf(out)
			return nil
		})
		g.Go(func() error {
			out := a.source.DiscussionTopics(ctx, req.Auth, fetch.DiscussionParams{CourseParams: course, OnlyAnnouncements: false})
			courseData[i].Discussions = out.Items
			courseReports[i][slotDiscussions] = reportOf(out)
			return nil
		})
		g.Go(func() error {
			out := a.source.Announcements(ctx, req.Auth, fetch.AnnouncementsParams{
				ListParams: account(announcementPageSize),
				CourseIDs:  []int64{courseID},
			})
			courseData[i].Announcements = out.Items
			courseReports[i][slotAnnouncements] = reportOf(out)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range accountReports {
		problems.Absorb(r.errors, r.notices)
	}
	for i, courseID := range scope {
		for _, r := range courseReports[i] {
			problems.Absorb(r.errors, r.notices)
		}
		bundle.CourseData[strconv.FormatInt(courseID, 10)] = normalize(courseData[i])
	}
	bundle = normalizeBundle(bundle)

	return pagination.Build(fetch.ToolGetDeltaBundle, []types.Bundle{bundle}, 1, 1, false, problems)
}

// normalize replaces nil slices left by misbehaving sources with empty ones.
func normalize(cd types.CourseData) types.CourseData {
	if cd.Assignments == nil {
		cd.Assignments = []types.Assignment{}
	}
	if cd.Quizzes == nil {
		cd.Quizzes = []types.Quiz{}
	}
	if cd.Discussions == nil {
		cd.Discussions = []types.DiscussionTopic{}
	}
	if cd.Announcements == nil {
		cd.Announcements = []types.Announcement{}
	}
	return cd
}

func normalizeBundle(b types.Bundle) types.Bundle {
	if b.Courses == nil {
		b.Courses = []types.Course{}
	}
	if b.TodoItems == nil {
		b.TodoItems = []types.TodoItem{}
	}
	if b.UpcomingEvents == nil {
		b.UpcomingEvents = []types.UpcomingEvent{}
	}
	if b.CalendarEvents == nil {
		b.CalendarEvents = []types.CalendarEvent{}
	}
	if b.PlannerItems == nil {
		b.PlannerItems = []types.PlannerItem{}
	}
	return b
}
