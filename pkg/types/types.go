// Package types defines the wire types returned by the canvas tools.
package types

// Source tags every envelope with the upstream system it was read from.
const Source = "canvas"

// AuthContext carries the credentials for one request against a Canvas instance.
type AuthContext struct {
	BaseURL     string `json:"canvas_base_url"`
	AccessToken string `json:"canvas_access_token"`
}

// Pagination describes the window an envelope holds.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	NextPage   *int `json:"next_page"`
	TotalCount *int `json:"total_count,omitempty"`
}

// ToolOutput is the envelope every tool returns.
//
// Errors may hold informational entries (for example a fallback notice); Notices
// counts them so OK can be derived from the fatal entries alone.
type ToolOutput[T any] struct {
	OK         bool       `json:"ok"`
	Source     string     `json:"source"`
	Tool       string     `json:"tool"`
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
	FetchedAt  string     `json:"fetched_at"`
	Errors     []string   `json:"errors"`
	Notices    int        `json:"-"`
}

// Status reports whether the call succeeded and how many error entries it carries.
func (o ToolOutput[T]) Status() (ok bool, errs int) {
	return o.OK, len(o.Errors)
}

// Problems accumulates the error entries of a tool call in the order they occur.
type Problems struct {
	Messages []string
	Notices  int
}

// Add records a fatal entry.
func (p *Problems) Add(msg string) {
	p.Messages = append(p.Messages, msg)
}

// Notice records an informational entry that does not flip ok.
func (p *Problems) Notice(msg string) {
	p.Messages = append(p.Messages, msg)
	p.Notices++
}

// Absorb appends the entries of another call.
func (p *Problems) Absorb(msgs []string, notices int) {
	p.Messages = append(p.Messages, msgs...)
	p.Notices += notices
}

// Fatal returns the number of entries that are not informational.
func (p *Problems) Fatal() int {
	return len(p.Messages) - p.Notices
}

// Bundle is the composite snapshot built by the delta bundle tool.
type Bundle struct {
	Profile        *Profile              `json:"profile"`
	Courses        []Course              `json:"courses"`
	TodoItems      []TodoItem            `json:"todo_items"`
	UpcomingEvents []UpcomingEvent       `json:"upcoming_events"`
	CalendarEvents []CalendarEvent       `json:"calendar_events"`
	PlannerItems   []PlannerItem         `json:"planner_items"`
	CourseData     map[string]CourseData `json:"course_data"`
}

// NewBundle returns a bundle whose collections are empty rather than nil.
func NewBundle() Bundle {
	return Bundle{
		Courses:        []Course{},
		TodoItems:      []TodoItem{},
		UpcomingEvents: []UpcomingEvent{},
		CalendarEvents: []CalendarEvent{},
		PlannerItems:   []PlannerItem{},
		CourseData:     map[string]CourseData{},
	}
}

// CourseData holds the per-course slices of a bundle.
type CourseData struct {
	Assignments   []Assignment      `json:"assignments"`
	Quizzes       []Quiz            `json:"quizzes"`
	Discussions   []DiscussionTopic `json:"discussions"`
	Announcements []Announcement    `json:"announcements"`
}

// NewCourseData returns course data with empty collections.
func NewCourseData() CourseData {
	return CourseData{
		Assignments:   []Assignment{},
		Quizzes:       []Quiz{},
		Discussions:   []DiscussionTopic{},
		Announcements: []Announcement{},
	}
}

// AssignmentGroupsOutput extends the envelope with the summed group weight.
type AssignmentGroupsOutput struct {
	ToolOutput[AssignmentGroup]
	TotalWeight float64 `json:"total_weight"`
}
