package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestToolCall(t *testing.T) {
	m := NewMetrics()
	m.ToolCall("canvas_list_courses", true, 0, 10*time.Millisecond)
	m.ToolCall("canvas_list_courses", false, 2, 10*time.Millisecond)
	m.ToolCall("canvas_list_courses", false, 1, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.ToolCalls.WithLabelValues("canvas_list_courses", "false")); got != 2 {
		t.Errorf("expected 2 failed calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.ToolErrors.WithLabelValues("canvas_list_courses")); got != 3 {
		t.Errorf("expected 3 error entries, got %v", got)
	}
}

func TestUpstream(t *testing.T) {
	m := NewMetrics()
	m.UpstreamRequest("200", time.Millisecond)
	m.UpstreamRequest("429", time.Millisecond)
	m.UpstreamRetry()

	if got := testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("429")); got != 1 {
		t.Errorf("expected 1 rate limited request, got %v", got)
	}
	if got := testutil.ToFloat64(m.UpstreamRetries); got != 1 {
		t.Errorf("expected 1 retry, got %v", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ToolCall("x", true, 0, time.Second)
	m.UpstreamRequest("200", time.Second)
	m.UpstreamRetry()
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.ToolCall("canvas_get_profile", true, 0, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), `canvas_mcp_tool_calls_total{ok="true",tool="canvas_get_profile"} 1`) {
		t.Errorf("expected tool call counter in exposition, got:\n%s", rec.Body.String())
	}
}
