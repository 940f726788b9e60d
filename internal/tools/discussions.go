package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tranphat180603/canvas-cli/internal/fetch"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

func topicIDOption() mcp.ToolOption {
	return mcp.WithNumber("topic_id",
		mcp.Required(),
		mcp.Description("Discussion topic ID"),
	)
}

func entriesParams(args map[string]interface{}) (fetch.EntriesParams, error) {
	p, err := courseParams(args)
	if err != nil {
		return fetch.EntriesParams{}, err
	}
	topicID, err := requiredID(args, "topic_id")
	if err != nil {
		return fetch.EntriesParams{}, err
	}
	return fetch.EntriesParams{CourseParams: p, TopicID: topicID}, nil
}

// registerListDiscussionTopics registers the canvas_list_discussion_topics tool.
func (ts *ToolServer) registerListDiscussionTopics() {
	tool := newListTool(fetch.ToolListDiscussionTopics,
		"List discussion topics for a course.",
		courseIDOption(),
		mcp.WithBoolean("only_announcements",
			mcp.Description("Return announcements instead of discussions"),
			mcp.DefaultBool(false),
		),
	)

	ts.add(tool, ts.handleListDiscussionTopics)
}

func (ts *ToolServer) handleListDiscussionTopics(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	p, err := courseParams(args)
	if err != nil {
		return nil, err
	}
	return ts.fetcher.DiscussionTopics(ctx, auth, fetch.DiscussionParams{
		CourseParams:      p,
		OnlyAnnouncements: boolArg(args, "only_announcements"),
	}), nil
}

// registerGetDiscussionEntries registers the canvas_get_discussion_entries tool.
func (ts *ToolServer) registerGetDiscussionEntries() {
	tool := newListTool(fetch.ToolGetDiscussionEntries,
		"Get entries for a discussion topic.",
		courseIDOption(),
		topicIDOption(),
	)

	ts.add(tool, ts.handleGetDiscussionEntries)
}

func (ts *ToolServer) handleGetDiscussionEntries(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	p, err := entriesParams(args)
	if err != nil {
		return nil, err
	}
	return ts.fetcher.DiscussionEntries(ctx, auth, p), nil
}

// registerGetDiscussionReplies registers the canvas_get_discussion_replies tool.
func (ts *ToolServer) registerGetDiscussionReplies() {
	tool := newListTool(fetch.ToolGetDiscussionReplies,
		"Get replies for a discussion entry.",
		courseIDOption(),
		topicIDOption(),
		mcp.WithNumber("entry_id",
			mcp.Required(),
			mcp.Description("Discussion entry ID"),
		),
	)

	ts.add(tool, ts.handleGetDiscussionReplies)
}

func (ts *ToolServer) handleGetDiscussionReplies(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	p, err := entriesParams(args)
	if err != nil {
		return nil, err
	}
	entryID, err := requiredID(args, "entry_id")
	if err != nil {
		return nil, err
	}
	return ts.fetcher.DiscussionReplies(ctx, auth, fetch.RepliesParams{EntriesParams: p, EntryID: entryID}), nil
}

// registerListAnnouncements registers the canvas_list_announcements tool.
func (ts *ToolServer) registerListAnnouncements() {
	tool := newListTool(fetch.ToolListAnnouncements,
		"List announcements for courses, newest first.",
		mcp.WithArray("course_ids",
			mcp.Description("Courses to read. Defaults to the user's active courses."),
			mcp.Items(map[string]interface{}{"type": "integer"}),
		),
		mcp.WithString("start_date",
			mcp.Description("Only announcements posted on or after this date (ISO 8601)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Only announcements posted on or before this date (ISO 8601)"),
		),
	)

	ts.add(tool, ts.handleListAnnouncements)
}

func (ts *ToolServer) handleListAnnouncements(ctx context.Context, auth types.AuthContext, args map[string]interface{}) (envelope, error) {
	courseIDs, err := idsArg(args, "course_ids")
	if err != nil {
		return nil, err
	}
	return ts.fetcher.Announcements(ctx, auth, fetch.AnnouncementsParams{
		ListParams: listParams(args),
		CourseIDs:  courseIDs,
		StartDate:  stringArg(args, "start_date"),
		EndDate:    stringArg(args, "end_date"),
	}), nil
}
