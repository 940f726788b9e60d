package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"sigs.k8s.io/yaml"

	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/internal/canvas/canvastest"
	"github.com/tranphat180603/canvas-cli/internal/fetch"
	mcpserver "github.com/tranphat180603/canvas-cli/internal/server"
	"github.com/tranphat180603/canvas-cli/internal/telemetry"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

type result struct {
	OK         bool             `json:"ok"`
	Source     string           `json:"source"`
	Tool       string           `json:"tool"`
	Items      []map[string]any `json:"items"`
	Errors     []string         `json:"errors"`
	Pagination map[string]any   `json:"pagination"`
}

func newTable(t *testing.T, credentials types.AuthContext, metrics *telemetry.Metrics) *Table {
	t.Helper()
	opts := canvas.DefaultOptions()
	opts.QPS = 0
	opts.Retry.MaxAttempts = 1
	s := mcpserver.New(mcpserver.Options{
		Canvas:      opts,
		Credentials: credentials,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:     metrics,
	})
	return RegisterAll(s)
}

func call(t *testing.T, table *Table, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	entry, ok := table.Lookup(name)
	if !ok {
		t.Fatalf("tool %s is not registered", name)
	}
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := entry.Handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func decode(t *testing.T, res *mcp.CallToolResult) result {
	t.Helper()
	var out result
	if err := json.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, text(t, res))
	}
	return out
}

func authArg(a types.AuthContext) map[string]interface{} {
	return map[string]interface{}{
		"canvas_base_url":     a.BaseURL,
		"canvas_access_token": a.AccessToken,
	}
}

func TestToolTable(t *testing.T) {
	table := newTable(t, types.AuthContext{}, nil)

	want := []string{
		fetch.ToolGetProfile,
		fetch.ToolListCourses,
		fetch.ToolGetTodoItems,
		fetch.ToolGetUpcomingEvents,
		fetch.ToolGetCalendarEvents,
		fetch.ToolGetPlannerItems,
		fetch.ToolListAssignments,
		fetch.ToolListAssignmentGroups,
		fetch.ToolListQuizzes,
		fetch.ToolListDiscussionTopics,
		fetch.ToolGetDiscussionEntries,
		fetch.ToolGetDiscussionReplies,
		fetch.ToolListAnnouncements,
		fetch.ToolListConversations,
		fetch.ToolGetConversation,
		fetch.ToolListModules,
		fetch.ToolListModuleItems,
		fetch.ToolListPages,
		fetch.ToolListFiles,
		fetch.ToolGetDeltaBundle,
	}

	var got []string
	for _, tool := range table.Tools() {
		got = append(got, tool.Name)
		if !slices.Contains(tool.InputSchema.Required, "auth") {
			t.Errorf("%s: auth is not required", tool.Name)
		}
		if tool.Description == "" {
			t.Errorf("%s: missing description", tool.Name)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tool names mismatch (-want +got):\n%s", diff)
	}
	if table.Len() != 20 {
		t.Errorf("expected 20 tools, got %d", table.Len())
	}
	if _, ok := table.Lookup("canvas_unknown"); ok {
		t.Error("lookup of an unknown tool succeeded")
	}
}

func TestCallWithoutCredentials(t *testing.T) {
	table := newTable(t, types.AuthContext{}, nil)

	res := call(t, table, fetch.ToolListCourses, map[string]interface{}{})
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	out := decode(t, res)
	if out.OK {
		t.Error("expected ok=false")
	}
	want := []string{"No authentication provided. Set CANVAS_API_URL and CANVAS_API_KEY environment variables, or pass auth in arguments."}
	if diff := cmp.Diff(want, out.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if out.Tool != "" {
		t.Errorf("expected no tool name, got %q", out.Tool)
	}
}

func TestAuthResolution(t *testing.T) {
	fake := canvastest.NewServer(t)
	fake.List("users/self/courses", []map[string]any{{"id": 1, "name": "Biology"}})
	env := fake.Auth()

	tests := []struct {
		name        string
		credentials types.AuthContext
		auth        interface{}
		wantOK      bool
		wantIsError bool
	}{
		{
			name:   "arguments",
			auth:   authArg(env),
			wantOK: true,
		},
		{
			name: "camel case aliases",
			auth: map[string]interface{}{
				"canvasApiUrl": env.BaseURL,
				"canvasApiKey": env.AccessToken,
			},
			wantOK: true,
		},
		{
			name:        "environment fallback",
			credentials: env,
			wantOK:      true,
		},
		{
			name:        "partial arguments fall back to environment",
			credentials: env,
			auth:        map[string]interface{}{"canvas_base_url": "https://elsewhere.example"},
			wantOK:      true,
		},
		{
			name:        "partial arguments without environment",
			auth:        map[string]interface{}{"canvas_base_url": env.BaseURL},
			wantIsError: true,
		},
		{
			name:        "arguments win over environment",
			credentials: types.AuthContext{BaseURL: env.BaseURL, AccessToken: "stale"},
			auth:        authArg(env),
			wantOK:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTable(t, tt.credentials, nil)
			args := map[string]interface{}{}
			if tt.auth != nil {
				args["auth"] = tt.auth
			}
			res := call(t, table, fetch.ToolListCourses, args)
			if res.IsError != tt.wantIsError {
				t.Fatalf("IsError = %v, want %v: %s", res.IsError, tt.wantIsError, text(t, res))
			}
			if tt.wantIsError {
				return
			}
			out := decode(t, res)
			if out.OK != tt.wantOK {
				t.Errorf("ok = %v, want %v (errors %v)", out.OK, tt.wantOK, out.Errors)
			}
		})
	}
}

func TestInvalidCredentialsReachTheFetcher(t *testing.T) {
	table := newTable(t, types.AuthContext{}, nil)

	res := call(t, table, fetch.ToolGetProfile, map[string]interface{}{
		"auth": map[string]interface{}{
			"canvas_base_url":     "not a url",
			"canvas_access_token": "token",
		},
	})
	if res.IsError {
		t.Fatalf("expected an envelope, got tool error: %s", text(t, res))
	}
	out := decode(t, res)
	if out.OK || len(out.Errors) != 1 || !strings.HasPrefix(out.Errors[0], "Authentication error: ") {
		t.Errorf("unexpected envelope: ok=%v errors=%v", out.OK, out.Errors)
	}
	if out.Tool != fetch.ToolGetProfile {
		t.Errorf("expected tool %s, got %s", fetch.ToolGetProfile, out.Tool)
	}
}

func TestListCoursesEndToEnd(t *testing.T) {
	fake := canvastest.NewServer(t)
	var items []map[string]any
	for i := 1; i <= 7; i++ {
		items = append(items, map[string]any{"id": i, "name": "Course", "updated_at": "2024-01-01T00:00:00Z"})
	}
	fake.List("users/self/courses", items)
	metrics := telemetry.NewMetrics()
	table := newTable(t, types.AuthContext{}, metrics)

	res := call(t, table, fetch.ToolListCourses, map[string]interface{}{
		"auth":      authArg(fake.Auth()),
		"page":      float64(2),
		"page_size": float64(3),
	})
	out := decode(t, res)
	if !out.OK || out.Tool != fetch.ToolListCourses || out.Source != "canvas" {
		t.Fatalf("unexpected envelope: %+v", out)
	}
	var got []float64
	for _, it := range out.Items {
		got = append(got, it["id"].(float64))
	}
	if diff := cmp.Diff([]float64{4, 5, 6}, got); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	wantPagination := map[string]any{"page": float64(2), "page_size": float64(3), "next_page": float64(3)}
	if diff := cmp.Diff(wantPagination, out.Pagination); diff != "" {
		t.Errorf("pagination mismatch (-want +got):\n%s", diff)
	}

	if got := testutil.ToFloat64(metrics.ToolCalls.WithLabelValues(fetch.ToolListCourses, "true")); got != 1 {
		t.Errorf("expected one recorded tool call, got %v", got)
	}
}

func TestYAMLOutput(t *testing.T) {
	fake := canvastest.NewServer(t)
	fake.Object("users/self", map[string]any{"id": 9, "name": "Ada"})
	table := newTable(t, fake.Auth(), nil)

	res := call(t, table, fetch.ToolGetProfile, map[string]interface{}{"output_format": "yaml"})
	var out result
	if err := yaml.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatalf("result is not YAML: %v", err)
	}
	if !out.OK || len(out.Items) != 1 || out.Items[0]["name"] != "Ada" {
		t.Errorf("unexpected envelope: %+v", out)
	}
}

func TestArgumentErrors(t *testing.T) {
	fake := canvastest.NewServer(t)
	table := newTable(t, fake.Auth(), nil)

	tests := []struct {
		tool string
		args map[string]interface{}
		want string
	}{
		{fetch.ToolListAssignments, map[string]interface{}{}, "course_id is required"},
		{fetch.ToolListAssignments, map[string]interface{}{"course_id": 1.5}, "course_id must be an integer"},
		{fetch.ToolListModuleItems, map[string]interface{}{"course_id": float64(1)}, "module_id is required"},
		{fetch.ToolGetDiscussionReplies, map[string]interface{}{"course_id": float64(1), "topic_id": float64(2)}, "entry_id is required"},
		{fetch.ToolGetConversation, map[string]interface{}{}, "conversation_id is required"},
		{fetch.ToolGetDeltaBundle, map[string]interface{}{"course_ids": []interface{}{"x"}}, "course_ids must be an array of integers"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			res := call(t, table, tt.tool, tt.args)
			if !res.IsError {
				t.Fatalf("expected an error result, got %s", text(t, res))
			}
			if got := text(t, res); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeltaBundleEndToEnd(t *testing.T) {
	fake := canvastest.NewServer(t)
	fake.Object("users/self", map[string]any{"id": 9, "name": "Ada"})
	fake.List("users/self/courses", []map[string]any{{"id": 5, "name": "Chemistry"}})
	fake.List("users/self/todo", []map[string]any{})
	fake.List("users/self/upcoming_events", []map[string]any{})
	fake.List("calendar_events", []map[string]any{})
	fake.List("planner/items", []map[string]any{})
	fake.List("courses/5/assignments", []map[string]any{{"id": 51, "name": "Lab report", "course_id": 5}})
	fake.List("courses/5/quizzes", []map[string]any{})
	fake.List("courses/5/discussion_topics", []map[string]any{})
	table := newTable(t, fake.Auth(), nil)

	res := call(t, table, fetch.ToolGetDeltaBundle, map[string]interface{}{})
	var out struct {
		OK     bool           `json:"ok"`
		Tool   string         `json:"tool"`
		Items  []types.Bundle `json:"items"`
		Errors []string       `json:"errors"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if !out.OK || out.Tool != fetch.ToolGetDeltaBundle || len(out.Errors) != 0 {
		t.Fatalf("unexpected envelope: ok=%v tool=%s errors=%v", out.OK, out.Tool, out.Errors)
	}
	if len(out.Items) != 1 {
		t.Fatalf("expected one bundle, got %d", len(out.Items))
	}
	b := out.Items[0]
	if b.Profile == nil || b.Profile.Name == nil || *b.Profile.Name != "Ada" {
		t.Errorf("unexpected profile: %+v", b.Profile)
	}
	cd, ok := b.CourseData["5"]
	if !ok {
		t.Fatalf("course 5 missing from course_data: %v", b.CourseData)
	}
	if len(cd.Assignments) != 1 || *cd.Assignments[0].ID != 51 {
		t.Errorf("unexpected assignments: %+v", cd.Assignments)
	}

	res = call(t, table, fetch.ToolGetDeltaBundle, map[string]interface{}{"course_ids": []interface{}{}})
	var empty struct {
		Items []types.Bundle `json:"items"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &empty); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(empty.Items) != 1 {
		t.Fatalf("expected one bundle, got %d", len(empty.Items))
	}
	if len(empty.Items[0].CourseData) != 0 {
		t.Errorf("explicit empty scope fetched courses: %v", empty.Items[0].CourseData)
	}
}
