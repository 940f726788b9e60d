package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/internal/canvas/canvastest"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

func newTestFetcher(t *testing.T) (*Fetcher, *canvastest.Server) {
	t.Helper()
	fake := canvastest.NewServer(t)
	opts := canvas.DefaultOptions()
	opts.QPS = 0
	opts.Retry.MaxAttempts = 1
	return New(canvas.NewFactory(opts), nil), fake
}

func ids[T any](items []T, id func(T) *int64) []int64 {
	out := []int64{}
	for _, it := range items {
		if v := id(it); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func checkEnvelope[T any](t *testing.T, out types.ToolOutput[T]) {
	t.Helper()
	if out.OK != (len(out.Errors)-out.Notices == 0) {
		t.Errorf("ok=%v inconsistent with errors %v (notices %d)", out.OK, out.Errors, out.Notices)
	}
	if out.Source != "canvas" {
		t.Errorf("expected source canvas, got %q", out.Source)
	}
	if out.Items == nil || out.Errors == nil {
		t.Error("items and errors must never be nil")
	}
	if out.FetchedAt == "" {
		t.Error("fetched_at is empty")
	}
}

func courses(n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, map[string]any{"id": i, "name": fmt.Sprintf("Course %d", i)})
	}
	return out
}

func TestCoursesPagination(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("users/self/courses", courses(25))

	out := f.Courses(context.Background(), fake.Auth(), CoursesParams{ListParams: ListParams{Page: 2, PageSize: 10}})
	checkEnvelope(t, out)
	want := []int64{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	if diff := cmp.Diff(want, ids(out.Items, func(c types.Course) *int64 { return c.ID })); diff != "" {
		t.Errorf("page 2 mismatch (-want +got):\n%s", diff)
	}
	if out.Pagination.NextPage == nil || *out.Pagination.NextPage != 3 {
		t.Errorf("expected next_page 3, got %v", out.Pagination.NextPage)
	}

	out = f.Courses(context.Background(), fake.Auth(), CoursesParams{ListParams: ListParams{Page: 3, PageSize: 10}})
	checkEnvelope(t, out)
	if diff := cmp.Diff([]int64{21, 22, 23, 24, 25}, ids(out.Items, func(c types.Course) *int64 { return c.ID })); diff != "" {
		t.Errorf("page 3 mismatch (-want +got):\n%s", diff)
	}
	if out.Pagination.NextPage != nil {
		t.Errorf("expected next_page null, got %d", *out.Pagination.NextPage)
	}
}

func TestPageBeyondAnyOffset(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("users/self/courses", courses(2))
	fake.List("courses/7/quizzes", []map[string]any{{"id": 1}, {"id": 2}})
	params := ListParams{Page: 1 << 58, PageSize: 10}

	c := f.Courses(context.Background(), fake.Auth(), CoursesParams{ListParams: params})
	checkEnvelope(t, c)
	if !c.OK || len(c.Items) != 0 || c.Pagination.NextPage != nil {
		t.Errorf("courses: ok=%v items=%d next_page=%v errors=%v", c.OK, len(c.Items), c.Pagination.NextPage, c.Errors)
	}

	q := f.Quizzes(context.Background(), fake.Auth(), CourseParams{ListParams: params, CourseID: 7})
	checkEnvelope(t, q)
	if !q.OK || len(q.Items) != 0 || q.Pagination.NextPage != nil {
		t.Errorf("quizzes: ok=%v items=%d next_page=%v errors=%v", q.OK, len(q.Items), q.Pagination.NextPage, q.Errors)
	}
}

func TestCoursesSinceFilter(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("users/self/courses", []map[string]any{
		{"id": 1, "updated_at": "2024-01-01T00:00:00Z"},
		{"id": 2, "updated_at": "2024-03-01T00:00:00Z"},
		{"id": 3},
		{"id": 4, "updated_at": "2024-02-01T00:00:00Z"},
	})

	out := f.Courses(context.Background(), fake.Auth(), CoursesParams{ListParams: ListParams{Page: 1, PageSize: 1, Since: "2024-01-15T00:00:00Z"}})
	checkEnvelope(t, out)
	if diff := cmp.Diff([]int64{2}, ids(out.Items, func(c types.Course) *int64 { return c.ID })); diff != "" {
		t.Errorf("filtered page mismatch (-want +got):\n%s", diff)
	}
	if out.Pagination.NextPage == nil || *out.Pagination.NextPage != 2 {
		t.Errorf("expected next_page 2 over the filtered set, got %v", out.Pagination.NextPage)
	}
}

func TestProfile(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.Object("users/self", map[string]any{"id": 9, "name": "Ada", "created_at": "2023-09-01T08:00:00+02:00"})

	out := f.Profile(context.Background(), fake.Auth())
	checkEnvelope(t, out)
	if len(out.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(out.Items))
	}
	if got := out.Items[0].CreatedAt; got == nil || *got != "2023-09-01T06:00:00Z" {
		t.Errorf("expected normalized created_at, got %v", got)
	}
}

func TestErrorCategories(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.Fail("users/self", http.StatusNotFound, "gone")

	out := f.Profile(context.Background(), fake.Auth())
	checkEnvelope(t, out)
	if out.OK || len(out.Errors) != 1 || !strings.HasPrefix(out.Errors[0], "Canvas API error: ") {
		t.Errorf("expected a Canvas API error, got %v", out.Errors)
	}
	if len(out.Items) != 0 {
		t.Errorf("expected no items, got %d", len(out.Items))
	}

	out = f.Profile(context.Background(), types.AuthContext{BaseURL: "not a url", AccessToken: "x"})
	checkEnvelope(t, out)
	if out.OK || len(out.Errors) != 1 || !strings.HasPrefix(out.Errors[0], "Authentication error: ") {
		t.Errorf("expected an authentication error, got %v", out.Errors)
	}
}

type panickingSource struct{}

func (panickingSource) New(types.AuthContext) (*canvas.Client, error) {
	panic("kaboom")
}

func TestPanicsBecomeUnexpectedErrors(t *testing.T) {
	f := New(panickingSource{}, nil)
	out := f.Courses(context.Background(), types.AuthContext{}, CoursesParams{ListParams: ListParams{Page: 1, PageSize: 10}})
	checkEnvelope(t, out)
	if diff := cmp.Diff([]string{"Unexpected error: kaboom"}, out.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if out.Tool != ToolListCourses || out.Pagination.PageSize != 10 {
		t.Errorf("unexpected envelope: %+v", out)
	}
}

func TestAnnouncementsOrdering(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("courses/1/discussion_topics", []map[string]any{
		{"id": 1, "posted_at": nil},
		{"id": 2, "posted_at": "2024-03-01"},
		{"id": 3, "posted_at": "2024-01-01"},
	})

	out := f.Announcements(context.Background(), fake.Auth(), AnnouncementsParams{
		ListParams: ListParams{Page: 1, PageSize: 10},
		CourseIDs:  []int64{1},
	})
	checkEnvelope(t, out)

	var got []*string
	for _, a := range out.Items {
		got = append(got, a.PostedAt)
	}
	march, january := "2024-03-01T00:00:00Z", "2024-01-01T00:00:00Z"
	if diff := cmp.Diff([]*string{&march, &january, nil}, got); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
	if c := out.Items[0].CourseID; c == nil || *c != 1 {
		t.Errorf("expected course_id 1, got %v", c)
	}
}

func TestAnnouncementsPerCourseFailure(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("users/self/courses", courses(2))
	fake.List("courses/1/discussion_topics", []map[string]any{{"id": 10, "posted_at": "2024-01-01"}})
	fake.Fail("courses/2/discussion_topics", http.StatusForbidden, "unauthorized")

	out := f.Announcements(context.Background(), fake.Auth(), AnnouncementsParams{ListParams: ListParams{Page: 1, PageSize: 50}})
	checkEnvelope(t, out)
	if out.OK {
		t.Error("expected ok=false")
	}
	if len(out.Errors) != 1 || !strings.HasPrefix(out.Errors[0], "Error fetching announcements for course 2: ") {
		t.Errorf("unexpected errors: %v", out.Errors)
	}
	if diff := cmp.Diff([]int64{10}, ids(out.Items, func(a types.Announcement) *int64 { return a.ID })); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestQuizzesModuleFallback(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.Fail("courses/7/quizzes", http.StatusNotFound, "disabled")
	fake.List("courses/7/modules", []map[string]any{{"id": 1}, {"id": 2}})
	fake.List("courses/7/modules/1/items", []map[string]any{
		{"id": 100, "type": "Quiz", "content_id": 5, "title": "Midterm"},
		{"id": 101, "type": "Page", "page_url": "syllabus"},
	})
	fake.Fail("courses/7/modules/2/items", http.StatusInternalServerError, "broken")
	fake.Fail("courses/7/quizzes/5", http.StatusNotFound, "missing")

	out := f.Quizzes(context.Background(), fake.Auth(), CourseParams{ListParams: ListParams{Page: 1, PageSize: 10}, CourseID: 7})
	checkEnvelope(t, out)
	if !out.OK {
		t.Errorf("expected ok=true with an informational entry, got errors %v", out.Errors)
	}
	if diff := cmp.Diff([]string{"Direct quizzes API unavailable, using module fallback"}, out.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if len(out.Items) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(out.Items))
	}
	q := out.Items[0]
	if q.ID == nil || *q.ID != 5 || q.Title == nil || *q.Title != "Midterm" || q.CourseID == nil || *q.CourseID != 7 {
		t.Errorf("unexpected minimal quiz: %+v", q)
	}
}

func TestPagesModuleFallbackResolves(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.Fail("courses/7/pages", http.StatusUnauthorized, "tab disabled")
	fake.List("courses/7/modules", []map[string]any{{"id": 1}})
	fake.List("courses/7/modules/1/items", []map[string]any{{"id": 101, "type": "Page", "page_url": "syllabus", "title": "Syllabus"}})
	fake.Object("courses/7/pages/syllabus", map[string]any{"page_id": 55, "url": "syllabus", "title": "Syllabus", "body": "<p>hi</p>"})

	out := f.Pages(context.Background(), fake.Auth(), CourseParams{ListParams: ListParams{Page: 1, PageSize: 10}, CourseID: 7})
	checkEnvelope(t, out)
	if len(out.Items) != 1 || out.Items[0].ID == nil || *out.Items[0].ID != 55 {
		t.Fatalf("expected resolved page 55, got %+v", out.Items)
	}
	if diff := cmp.Diff([]string{"Direct pages API unavailable, using module fallback"}, out.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestQuizzesFallbackFailureKeepsNotice(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.Fail("courses/7/quizzes", http.StatusNotFound, "disabled")
	fake.Fail("courses/7/modules", http.StatusNotFound, "disabled")

	out := f.Quizzes(context.Background(), fake.Auth(), CourseParams{ListParams: ListParams{Page: 1, PageSize: 10}, CourseID: 7})
	checkEnvelope(t, out)
	if out.OK || len(out.Errors) != 2 {
		t.Fatalf("expected notice plus fatal error, got ok=%v errors=%v", out.OK, out.Errors)
	}
	if !strings.HasPrefix(out.Errors[1], "Canvas API error: ") {
		t.Errorf("unexpected fatal entry: %q", out.Errors[1])
	}
}

func TestDiscussionTopicsExcludeAnnouncements(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("courses/3/discussion_topics", []map[string]any{
		{"id": 1, "is_announcement": false},
		{"id": 2, "is_announcement": true},
		{"id": 3},
	})

	out := f.DiscussionTopics(context.Background(), fake.Auth(), DiscussionParams{CourseParams: CourseParams{ListParams: ListParams{Page: 1, PageSize: 10}, CourseID: 3}})
	checkEnvelope(t, out)
	if diff := cmp.Diff([]int64{1, 3}, ids(out.Items, func(d types.DiscussionTopic) *int64 { return d.ID })); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if c := out.Items[0].CourseID; c == nil || *c != 3 {
		t.Errorf("expected course_id 3, got %v", c)
	}
}

func TestAssignmentsIncludeSubmission(t *testing.T) {
	f, fake := newTestFetcher(t)
	var include string
	fake.Handle("courses/4/assignments", func(w http.ResponseWriter, r *http.Request) {
		include = r.URL.Query().Get("include[]")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id": 1, "points_possible": 10, "submission": {"id": 77, "score": 9.5, "late": true}}]`)
	})

	out := f.Assignments(context.Background(), fake.Auth(), AssignmentsParams{CourseParams: CourseParams{ListParams: ListParams{Page: 1, PageSize: 10}, CourseID: 4}, IncludeSubmissions: true})
	checkEnvelope(t, out)
	if include != "submission" {
		t.Errorf("expected include[]=submission, got %q", include)
	}
	if len(out.Items) != 1 || out.Items[0].Submission == nil {
		t.Fatalf("expected one assignment with a submission, got %+v", out.Items)
	}
	sub := out.Items[0].Submission
	if sub.Score == nil || *sub.Score != 9.5 || !sub.Late || sub.Missing {
		t.Errorf("unexpected submission: %+v", sub)
	}
	if sub := out.Items[0].SubmissionTypes; sub == nil {
		t.Error("submission_types must default to an empty list")
	}
}

func TestAssignmentGroupsTotalWeight(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("courses/4/assignment_groups", []map[string]any{
		{"id": 1, "name": "Homework", "group_weight": 40},
		{"id": 2, "name": "Exams", "group_weight": 60.5},
		{"id": 3, "name": "Ungraded"},
	})

	out := f.AssignmentGroups(context.Background(), fake.Auth(), 4)
	checkEnvelope(t, out.ToolOutput)
	if out.TotalWeight != 100.5 {
		t.Errorf("expected total weight 100.5, got %v", out.TotalWeight)
	}
	if out.Pagination.PageSize != 3 || out.Pagination.NextPage != nil {
		t.Errorf("unexpected pagination: %+v", out.Pagination)
	}
}

func TestConversationMessagesSince(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.Object("conversations/8", map[string]any{
		"id":      8,
		"subject": "Hello",
		"messages": []map[string]any{
			{"id": 1, "body": "old", "created_at": "2024-01-01T00:00:00Z"},
			{"id": 2, "body": "new", "created_at": "2024-02-01T00:00:00Z"},
		},
	})

	out := f.Conversation(context.Background(), fake.Auth(), ConversationParams{ConversationID: 8, Since: "2024-01-15T00:00:00Z"})
	checkEnvelope(t, out)
	if len(out.Items) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(out.Items))
	}
	msgs := out.Items[0].Messages
	if len(msgs) != 1 || msgs[0].ID == nil || *msgs[0].ID != 2 {
		t.Errorf("expected only message 2, got %+v", msgs)
	}
	if msgs[0].ConversationID == nil || *msgs[0].ConversationID != 8 {
		t.Errorf("expected conversation_id 8, got %v", msgs[0].ConversationID)
	}
	if !out.Items[0].Subscribed {
		t.Error("subscribed must default to true")
	}
}

func TestConversationsFreshnessFallback(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("conversations", []map[string]any{
		{"id": 1, "last_message_at": "2024-02-01T00:00:00Z"},
		{"id": 2, "last_message_at": "2023-12-01T00:00:00Z"},
		{"id": 3, "updated_at": "2023-12-01T00:00:00Z", "last_message_at": "2024-02-01T00:00:00Z"},
	})

	out := f.Conversations(context.Background(), fake.Auth(), ConversationsParams{ListParams: ListParams{Page: 1, PageSize: 10, Since: "2024-01-01T00:00:00Z"}})
	checkEnvelope(t, out)
	if diff := cmp.Diff([]int64{1}, ids(out.Items, func(c types.Conversation) *int64 { return c.ID })); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoFreshnessUsesAssignment(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("users/self/todo", []map[string]any{
		{"type": "submitting", "assignment": map[string]any{"id": 1, "name": "Essay", "updated_at": "2024-02-01T00:00:00Z"}},
		{"type": "submitting", "assignment": map[string]any{"id": 2, "name": "Quiz", "updated_at": "2023-02-01T00:00:00Z"}},
		{"type": "grading", "updated_at": "2024-02-01T00:00:00Z"},
	})

	out := f.TodoItems(context.Background(), fake.Auth(), ListParams{Page: 1, PageSize: 10, Since: "2024-01-01T00:00:00Z"})
	checkEnvelope(t, out)
	if len(out.Items) != 1 {
		t.Fatalf("expected 1 todo item, got %d", len(out.Items))
	}
	if n := out.Items[0].Name; n == nil || *n != "Essay" {
		t.Errorf("expected Essay, got %v", n)
	}
	if a := out.Items[0].AssignmentID; a == nil || *a != 1 {
		t.Errorf("expected assignment_id 1, got %v", a)
	}
}

func TestUpcomingEventShapes(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("users/self/upcoming_events", []map[string]any{
		{"id": 1, "name": "Essay", "type": "assignment", "due_at": "2024-02-01T00:00:00Z", "course_id": 3},
		{"id": 2, "title": "Lecture", "type": "event", "start_at": "2024-02-02T10:00:00Z", "end_at": "2024-02-02T11:00:00Z"},
	})

	out := f.UpcomingEvents(context.Background(), fake.Auth(), ListParams{Page: 1, PageSize: 10})
	checkEnvelope(t, out)
	if len(out.Items) != 2 {
		t.Fatalf("expected 2 events, got %d", len(out.Items))
	}
	assignment, event := out.Items[0], out.Items[1]
	if assignment.Title == nil || *assignment.Title != "Essay" || assignment.DueAt == nil || assignment.StartAt != nil {
		t.Errorf("unexpected assignment-like event: %+v", assignment)
	}
	if event.StartAt == nil || event.EndAt == nil || event.DueAt != nil {
		t.Errorf("unexpected calendar-like event: %+v", event)
	}
}

func TestPlannerItemTitleFallsBackToPlannable(t *testing.T) {
	f, fake := newTestFetcher(t)
	fake.List("planner/items", []map[string]any{
		{"plannable_id": 4, "plannable_type": "assignment", "plannable": map[string]any{"title": "Lab report"}},
	})

	out := f.PlannerItems(context.Background(), fake.Auth(), RangeParams{ListParams: ListParams{Page: 1, PageSize: 10}})
	checkEnvelope(t, out)
	if len(out.Items) != 1 || out.Items[0].Title == nil || *out.Items[0].Title != "Lab report" {
		t.Errorf("unexpected planner items: %+v", out.Items)
	}
}
