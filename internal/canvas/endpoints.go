package canvas

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

// CurrentUser gets the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (Object, error) {
	obj, err := c.getObject(ctx, "users/self", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return obj, nil
}

// Courses lists the user's courses, optionally restricted to one enrollment state.
func (c *Client) Courses(enrollmentState string) *List {
	q := url.Values{}
	if enrollmentState != "" {
		q.Add("enrollment_state", enrollmentState)
	}
	return c.list("users/self/courses", q)
}

// Assignments lists the assignments of a course.
func (c *Client) Assignments(courseID int64, includeSubmission bool) *List {
	q := url.Values{}
	if includeSubmission {
		q.Add("include[]", "submission")
	}
	return c.list("courses/"+id(courseID)+"/assignments", q)
}

// AssignmentGroups lists the grading categories of a course.
func (c *Client) AssignmentGroups(courseID int64) *List {
	return c.list("courses/"+id(courseID)+"/assignment_groups", nil)
}

// Quizzes lists the classic quizzes of a course.
func (c *Client) Quizzes(courseID int64) *List {
	return c.list("courses/"+id(courseID)+"/quizzes", nil)
}

// Quiz gets a single quiz.
func (c *Client) Quiz(ctx context.Context, courseID, quizID int64) (Object, error) {
	obj, err := c.getObject(ctx, "courses/"+id(courseID)+"/quizzes/"+id(quizID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz %d: %w", quizID, err)
	}
	return obj, nil
}

// DiscussionTopics lists the discussion topics of a course. startDate and
// endDate only apply to announcements.
func (c *Client) DiscussionTopics(courseID int64, onlyAnnouncements bool, startDate, endDate string) *List {
	q := url.Values{}
	if onlyAnnouncements {
		q.Add("only_announcements", "true")
	}
	if startDate != "" {
		q.Add("start_date", startDate)
	}
	if endDate != "" {
		q.Add("end_date", endDate)
	}
	return c.list("courses/"+id(courseID)+"/discussion_topics", q)
}

// DiscussionEntries lists the top-level entries of a topic.
func (c *Client) DiscussionEntries(courseID, topicID int64) *List {
	return c.list("courses/"+id(courseID)+"/discussion_topics/"+id(topicID)+"/entries", nil)
}

// DiscussionReplies lists the replies to an entry.
func (c *Client) DiscussionReplies(courseID, topicID, entryID int64) *List {
	return c.list("courses/"+id(courseID)+"/discussion_topics/"+id(topicID)+"/entries/"+id(entryID)+"/replies", nil)
}

// Conversations lists the user's inbox, optionally within a scope such as "unread".
func (c *Client) Conversations(scope string) *List {
	q := url.Values{}
	if scope != "" {
		q.Add("scope", scope)
	}
	return c.list("conversations", q)
}

// Conversation gets a conversation with its messages.
func (c *Client) Conversation(ctx context.Context, conversationID int64) (Object, error) {
	q := url.Values{}
	q.Add("include[]", "messages")
	obj, err := c.getObject(ctx, "conversations/"+id(conversationID), q)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %d: %w", conversationID, err)
	}
	return obj, nil
}

// Modules lists the modules of a course.
func (c *Client) Modules(courseID int64) *List {
	return c.list("courses/"+id(courseID)+"/modules", nil)
}

// ModuleItems lists the items of a module.
func (c *Client) ModuleItems(courseID, moduleID int64) *List {
	return c.list("courses/"+id(courseID)+"/modules/"+id(moduleID)+"/items", nil)
}

// Pages lists the wiki pages of a course.
func (c *Client) Pages(courseID int64) *List {
	return c.list("courses/"+id(courseID)+"/pages", nil)
}

// Page gets a wiki page by its url slug.
func (c *Client) Page(ctx context.Context, courseID int64, pageURL string) (Object, error) {
	obj, err := c.getObject(ctx, "courses/"+id(courseID)+"/pages/"+url.PathEscape(pageURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", pageURL, err)
	}
	return obj, nil
}

// Files lists the files of a course.
func (c *Client) Files(courseID int64) *List {
	return c.list("courses/"+id(courseID)+"/files", nil)
}

// TodoItems lists the user's to-do items.
func (c *Client) TodoItems() *List {
	return c.list("users/self/todo", nil)
}

// UpcomingEvents lists the user's upcoming assignments and events.
func (c *Client) UpcomingEvents() *List {
	return c.list("users/self/upcoming_events", nil)
}

// CalendarEvents lists calendar events in a date range and set of contexts.
func (c *Client) CalendarEvents(startDate, endDate string, contextCodes []string) *List {
	return c.list("calendar_events", rangeQuery(startDate, endDate, contextCodes))
}

// PlannerItems lists planner items in a date range and set of contexts.
func (c *Client) PlannerItems(startDate, endDate string, contextCodes []string) *List {
	return c.list("planner/items", rangeQuery(startDate, endDate, contextCodes))
}

func rangeQuery(startDate, endDate string, contextCodes []string) url.Values {
	q := url.Values{}
	if startDate != "" {
		q.Add("start_date", startDate)
	}
	if endDate != "" {
		q.Add("end_date", endDate)
	}
	for _, code := range contextCodes {
		q.Add("context_codes[]", code)
	}
	return q
}
