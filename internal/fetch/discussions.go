package fetch

import (
	"context"
	"fmt"
	"sort"

	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/internal/pagination"
	"github.com/tranphat180603/canvas-cli/internal/timeutil"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// DiscussionParams filter the discussion topic listing.
type DiscussionParams struct {
	CourseParams
	// OnlyAnnouncements lists announcements instead of discussions. When false
	// announcements are excluded.
	OnlyAnnouncements bool
}

// EntriesParams select the entries of a topic.
type EntriesParams struct {
	CourseParams
	TopicID int64
}

// RepliesParams select the replies to an entry.
type RepliesParams struct {
	EntriesParams
	EntryID int64
}

// AnnouncementsParams filter the announcement listing.
type AnnouncementsParams struct {
	ListParams
	// CourseIDs defaults to the user's active courses when empty.
	CourseIDs []int64
	StartDate string
	EndDate   string
}

// DiscussionTopics lists the discussion topics of a course.
func (f *Fetcher) DiscussionTopics(ctx context.Context, auth types.AuthContext, p DiscussionParams) types.ToolOutput[types.DiscussionTopic] {
	page, size := p.clamped()
	return run(ctx, f, ToolListDiscussionTopics, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.DiscussionTopic, bool, error) {
		var seq pagination.Seq[canvas.Object] = c.DiscussionTopics(p.CourseID, p.OnlyAnnouncements, "", "")
		if !p.OnlyAnnouncements {
			seq = pagination.Filter(seq, func(o canvas.Object) bool { return !o.Flag("is_announcement") })
		}
		return listPage(ctx, seq, p.ListParams, updatedAt, func(o canvas.Object) types.DiscussionTopic {
			return projectDiscussionTopic(o, p.CourseID)
		})
	})
}

// DiscussionEntries lists the top-level entries of a topic.
func (f *Fetcher) DiscussionEntries(ctx context.Context, auth types.AuthContext, p EntriesParams) types.ToolOutput[types.DiscussionEntry] {
	page, size := p.clamped()
	return run(ctx, f, ToolGetDiscussionEntries, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.DiscussionEntry, bool, error) {
		return listPage(ctx, c.DiscussionEntries(p.CourseID, p.TopicID), p.ListParams, updatedAt, projectDiscussionEntry)
	})
}

// DiscussionReplies lists the replies to an entry.
func (f *Fetcher) DiscussionReplies(ctx context.Context, auth types.AuthContext, p RepliesParams) types.ToolOutput[types.DiscussionEntry] {
	page, size := p.clamped()
	return run(ctx, f, ToolGetDiscussionReplies, auth, page, size, func(ctx context.Context, c *canvas.Client, _ *types.Problems) ([]types.DiscussionEntry, bool, error) {
		return listPage(ctx, c.DiscussionReplies(p.CourseID, p.TopicID, p.EntryID), p.ListParams, updatedAt, projectDiscussionEntry)
	})
}

// Announcements lists announcements across courses, newest first. A course
// that fails is reported in errors and the others are still returned.
func (f *Fetcher) Announcements(ctx context.Context, auth types.AuthContext, p AnnouncementsParams) types.ToolOutput[types.Announcement] {
	page, size := p.clamped()
	return run(ctx, f, ToolListAnnouncements, auth, page, size, func(ctx context.Context, c *canvas.Client, problems *types.Problems) ([]types.Announcement, bool, error) {
		courseIDs := p.CourseIDs
		if len(courseIDs) == 0 {
			courses, err := c.Courses("active").All(ctx)
			if err != nil {
				return nil, false, err
			}
			for _, course := range courses {
				if id := course.ID("id"); id != nil {
					courseIDs = append(courseIDs, *id)
				}
			}
		}

		var all []canvas.Object
		for _, courseID := range courseIDs {
			objs, err := c.DiscussionTopics(courseID, true, p.StartDate, p.EndDate).All(ctx)
			if err != nil {
				problems.Add(fmt.Sprintf("Error fetching announcements for course %d: %v", courseID, err))
				continue
			}
			for _, o := range objs {
				if o.ID("course_id") == nil {
					o["course_id"] = courseID
				}
				all = append(all, o)
			}
		}
		sortByPostedAt(all)

		items, hasMore := slicePage(all, p.ListParams, updatedAt, func(o canvas.Object) types.Announcement {
			return projectAnnouncement(o, 0)
		})
		return items, hasMore, nil
	})
}

// sortByPostedAt orders announcements newest first. Items without a usable
// posted_at sort last, keeping their relative order.
func sortByPostedAt(objs []canvas.Object) {
	posted := func(o canvas.Object) (int64, bool) {
		s := o.Time("posted_at")
		if s == nil {
			return 0, false
		}
		t, ok := timeutil.Parse(*s)
		if !ok {
			return 0, false
		}
		return t.Unix(), true
	}
	sort.SliceStable(objs, func(i, j int) bool {
		ti, iok := posted(objs[i])
		tj, jok := posted(objs[j])
		if iok != jok {
			return iok
		}
		return ti > tj
	})
}
