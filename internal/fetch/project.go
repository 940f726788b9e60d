package fetch

import (
	"github.com/tranphat180603/canvas-cli/internal/canvas"
	"github.com/tranphat180603/canvas-cli/pkg/types"
)

// courseOf prefers the course id reported by Canvas and falls back to the
// course the resource was listed under.
func courseOf(o canvas.Object, courseID int64) *int64 {
	if id := o.ID("course_id"); id != nil {
		return id
	}
	if courseID == 0 {
		return nil
	}
	return &courseID
}

func firstString(o canvas.Object, keys ...string) *string {
	for _, k := range keys {
		if s := o.String(k); s != nil && *s != "" {
			return s
		}
	}
	return nil
}

func projectProfile(o canvas.Object) types.Profile {
	return types.Profile{
		ID:        o.ID("id"),
		Name:      o.String("name"),
		ShortName: o.String("short_name"),
		LoginID:   o.String("login_id"),
		Email:     o.String("email"),
		Locale:    o.String("locale"),
		TimeZone:  o.String("time_zone"),
		Bio:       o.String("bio"),
		AvatarURL: o.String("avatar_url"),
		CreatedAt: o.Time("created_at"),
		UpdatedAt: o.Time("updated_at"),
	}
}

func projectCourse(o canvas.Object) types.Course {
	enrollments := []types.Enrollment{}
	for _, e := range o.Objects("enrollments") {
		enrollments = append(enrollments, types.Enrollment{
			Type:            e.String("type"),
			Role:            e.String("role"),
			EnrollmentState: e.String("enrollment_state"),
		})
	}
	return types.Course{
		ID:                      o.ID("id"),
		Name:                    o.String("name"),
		CourseCode:              o.String("course_code"),
		WorkflowState:           o.String("workflow_state"),
		EnrollmentTermID:        o.ID("enrollment_term_id"),
		StartAt:                 o.Time("start_at"),
		EndAt:                   o.Time("end_at"),
		CreatedAt:               o.Time("created_at"),
		UpdatedAt:               o.Time("updated_at"),
		SyllabusBody:            o.String("syllabus_body"),
		PublicDescription:       o.String("public_description"),
		Enrollments:             enrollments,
		Calendar:                o.Raw("calendar"),
		DefaultView:             o.String("default_view"),
		IsPublic:                o.Bool("is_public"),
		HasActiveCourseOffering: o.Bool("has_active_course_offering"),
	}
}

func projectAssignment(o canvas.Object, courseID int64) types.Assignment {
	a := types.Assignment{
		ID:                      o.ID("id"),
		Name:                    o.String("name"),
		Description:             o.String("description"),
		CourseID:                courseOf(o, courseID),
		PointsPossible:          o.Float("points_possible"),
		DueAt:                   o.Time("due_at"),
		LockAt:                  o.Time("lock_at"),
		UnlockAt:                o.Time("unlock_at"),
		WorkflowState:           o.String("workflow_state"),
		AssignmentGroupID:       o.ID("assignment_group_id"),
		GradingType:             o.String("grading_type"),
		SubmissionTypes:         o.Strings("submission_types"),
		HasSubmittedSubmissions: o.Flag("has_submitted_submissions"),
		HasOverrides:            o.Flag("has_overrides"),
		HTMLURL:                 o.String("html_url"),
		CreatedAt:               o.Time("created_at"),
		UpdatedAt:               o.Time("updated_at"),
		Published:               o.Bool("published"),
		Unpublishable:           o.Bool("unpublishable"),
	}
	if sub := o.Object("submission"); sub != nil {
		a.Submission = &types.Submission{
			ID:            sub.ID("id"),
			Grade:         sub.String("grade"),
			Score:         sub.Float("score"),
			SubmittedAt:   sub.Time("submitted_at"),
			WorkflowState: sub.String("workflow_state"),
			Late:          sub.Flag("late"),
			Missing:       sub.Flag("missing"),
		}
	}
	return a
}

func projectAssignmentGroup(o canvas.Object) types.AssignmentGroup {
	var weight float64
	if w := o.Float("group_weight"); w != nil {
		weight = *w
	}
	return types.AssignmentGroup{
		ID:                 o.ID("id"),
		Name:               o.String("name"),
		Weight:             weight,
		PointsPossible:     o.Float("points_possible"),
		AssignsAssignments: o.Bool("assigns_assignments"),
	}
}

func projectQuiz(o canvas.Object, courseID int64) types.Quiz {
	return types.Quiz{
		ID:                   o.ID("id"),
		Title:                o.String("title"),
		Description:          o.String("description"),
		QuizType:             o.String("quiz_type"),
		CourseID:             courseOf(o, courseID),
		PointsPossible:       o.Float("points_possible"),
		DueAt:                o.Time("due_at"),
		LockAt:               o.Time("lock_at"),
		UnlockAt:             o.Time("unlock_at"),
		TimeLimit:            o.Int("time_limit"),
		ShuffleAnswers:       o.Bool("shuffle_answers"),
		ShowCorrectAnswers:   o.Bool("show_correct_answers"),
		ShowCorrectAnswersAt: o.Time("show_correct_answers_at"),
		HideCorrectAnswersAt: o.Time("hide_correct_answers_at"),
		AllowedAttempts:      o.Int("allowed_attempts"),
		ScoringPolicy:        o.String("scoring_policy"),
		QuestionCount:        o.Int("question_count"),
		HTMLURL:              o.String("html_url"),
		MobileURL:            o.String("mobile_url"),
		Published:            o.Bool("published"),
		Unpublishable:        o.Bool("unpublishable"),
		LockedForUser:        o.Bool("locked_for_user"),
		CreatedAt:            o.Time("created_at"),
		UpdatedAt:            o.Time("updated_at"),
	}
}

func projectAuthor(o canvas.Object) types.Author {
	author := o.Object("author")
	return types.Author{
		ID:             author.ID("id"),
		DisplayName:    author.String("display_name"),
		AvatarImageURL: author.String("avatar_image_url"),
	}
}

func projectDiscussionTopic(o canvas.Object, courseID int64) types.DiscussionTopic {
	return types.DiscussionTopic{
		ID:                      o.ID("id"),
		Title:                   o.String("title"),
		Message:                 o.String("message"),
		CourseID:                courseOf(o, courseID),
		DiscussionType:          o.String("discussion_type"),
		DiscussionSubentryCount: o.Count("discussion_subentry_count"),
		Published:               o.Bool("published"),
		Locked:                  o.Bool("locked"),
		Pinned:                  o.Bool("pinned"),
		Position:                o.Int("position"),
		URL:                     o.String("url"),
		HTMLURL:                 o.String("html_url"),
		PostedAt:                o.Time("posted_at"),
		CreatedAt:               o.Time("created_at"),
		UpdatedAt:               o.Time("updated_at"),
		LastReplyAt:             o.Time("last_reply_at"),
		Author:                  projectAuthor(o),
		IsAnnouncement:          o.Flag("is_announcement"),
		HasMoreReplies:          o.Flag("has_more_replies"),
	}
}

func projectDiscussionEntry(o canvas.Object) types.DiscussionEntry {
	return types.DiscussionEntry{
		ID:                      o.ID("id"),
		UserID:                  o.ID("user_id"),
		UserName:                o.String("user_name"),
		Message:                 o.String("message"),
		CreatedAt:               o.Time("created_at"),
		UpdatedAt:               o.Time("updated_at"),
		ParentID:                o.ID("parent_id"),
		ReadState:               o.String("read_state"),
		ForcedReadState:         o.Bool("forced_read_state"),
		DiscussionSubentryCount: o.Count("discussion_subentry_count"),
		HasMoreReplies:          o.Flag("has_more_replies"),
	}
}

func projectAnnouncement(o canvas.Object, courseID int64) types.Announcement {
	return types.Announcement{
		ID:                      o.ID("id"),
		Title:                   o.String("title"),
		Message:                 o.String("message"),
		CourseID:                courseOf(o, courseID),
		PostedAt:                o.Time("posted_at"),
		CreatedAt:               o.Time("created_at"),
		UpdatedAt:               o.Time("updated_at"),
		URL:                     o.String("url"),
		HTMLURL:                 o.String("html_url"),
		Author:                  projectAuthor(o),
		ReadState:               o.String("read_state"),
		UnreadCount:             o.Count("unread_count"),
		DiscussionSubentryCount: o.Count("discussion_subentry_count"),
		DelayedPostAt:           o.Time("delayed_post_at"),
		Published:               o.Bool("published"),
		Locked:                  o.Bool("locked"),
	}
}

func projectConversation(o canvas.Object) types.Conversation {
	participants := []types.Participant{}
	for _, p := range o.Objects("participants") {
		participants = append(participants, types.Participant{ID: p.ID("id"), Name: p.String("name")})
	}
	subscribed := true
	if b := o.Bool("subscribed"); b != nil {
		subscribed = *b
	}
	return types.Conversation{
		ID:            o.ID("id"),
		Subject:       o.String("subject"),
		WorkflowState: o.String("workflow_state"),
		LastMessage:   o.String("last_message"),
		LastMessageAt: o.Time("last_message_at"),
		MessageCount:  o.Count("message_count"),
		Participants:  participants,
		Starred:       o.Flag("starred"),
		Subscribed:    subscribed,
		Audience:      o.IDs("audience"),
		ContextCode:   o.String("context_code"),
		ContextName:   o.String("context_name"),
		URL:           o.String("url"),
		CreatedAt:     o.Time("created_at"),
		UpdatedAt:     o.Time("updated_at"),
	}
}

func projectConversationMessage(o canvas.Object, conversationID *int64) types.ConversationMessage {
	convID := o.ID("conversation_id")
	if convID == nil {
		convID = conversationID
	}
	return types.ConversationMessage{
		ID:                   o.ID("id"),
		Body:                 o.String("body"),
		AuthorID:             o.ID("author_id"),
		AuthorName:           o.String("author_name"),
		ConversationID:       convID,
		CreatedAt:            o.Time("created_at"),
		Generated:            o.Flag("generated"),
		MediaComment:         o.Raw("media_comment"),
		ForwardedMessages:    o.List("forwarded_messages"),
		Attachments:          o.List("attachments"),
		ParticipatingUserIDs: o.IDs("participating_user_ids"),
	}
}

func projectModule(o canvas.Object, courseID int64) types.Module {
	return types.Module{
		ID:                        o.ID("id"),
		Name:                      o.String("name"),
		CourseID:                  courseOf(o, courseID),
		Position:                  o.Int("position"),
		UnlockAt:                  o.Time("unlock_at"),
		RequireSequentialProgress: o.Flag("require_sequential_progress"),
		PublishFinalGrade:         o.Flag("publish_final_grade"),
		Published:                 o.Bool("published"),
		ItemsCount:                o.Int("items_count"),
		ItemsURL:                  o.String("items_url"),
		State:                     o.String("state"),
		CompletedAt:               o.Time("completed_at"),
		CreatedAt:                 o.Time("created_at"),
		UpdatedAt:                 o.Time("updated_at"),
	}
}

func projectModuleItem(o canvas.Object, moduleID int64) types.ModuleItem {
	modID := o.ID("module_id")
	if modID == nil && moduleID != 0 {
		modID = &moduleID
	}
	return types.ModuleItem{
		ID:                    o.ID("id"),
		ModuleID:              modID,
		Position:              o.Int("position"),
		Title:                 o.String("title"),
		Type:                  o.String("type"),
		ContentID:             o.ID("content_id"),
		ContentType:           o.String("content_type"),
		HTMLURL:               o.String("html_url"),
		URL:                   o.String("url"),
		ExternalURL:           o.String("external_url"),
		PageURL:               o.String("page_url"),
		Indent:                o.Int("indent"),
		CompletionRequirement: o.Raw("completion_requirement"),
		Published:             o.Bool("published"),
		NewTab:                o.Flag("new_tab"),
		CreatedAt:             o.Time("created_at"),
		UpdatedAt:             o.Time("updated_at"),
	}
}

func projectPage(o canvas.Object, courseID int64) types.Page {
	pageID := o.ID("page_id")
	if pageID == nil {
		pageID = o.ID("id")
	}
	return types.Page{
		ID:               pageID,
		URL:              o.String("url"),
		Title:            o.String("title"),
		Body:             o.String("body"),
		CourseID:         courseOf(o, courseID),
		FrontPage:        o.Flag("front_page"),
		Published:        o.Bool("published"),
		HideFromStudents: o.Flag("hide_from_students"),
		EditingRoles:     o.String("editing_roles"),
		LastEditedBy:     o.Raw("last_edited_by"),
		HTMLURL:          o.String("html_url"),
		TodoDate:         o.Time("todo_date"),
		CreatedAt:        o.Time("created_at"),
		UpdatedAt:        o.Time("updated_at"),
	}
}

func projectFile(o canvas.Object) types.File {
	return types.File{
		ID:            o.ID("id"),
		UUID:          o.String("uuid"),
		DisplayName:   o.String("display_name"),
		Filename:      o.String("filename"),
		FolderID:      o.ID("folder_id"),
		ContentType:   firstString(o, "content-type", "content_type"),
		Size:          o.Int64("size"),
		URL:           o.String("url"),
		HTMLURL:       o.String("html_url"),
		ThumbnailURL:  o.String("thumbnail_url"),
		Locked:        o.Flag("locked"),
		LockedForUser: o.Flag("locked_for_user"),
		Hidden:        o.Flag("hidden"),
		HiddenForUser: o.Flag("hidden_for_user"),
		UploadStatus:  o.String("upload_status"),
		CreatedAt:     o.Time("created_at"),
		UpdatedAt:     o.Time("updated_at"),
		ModifiedAt:    o.Time("modified_at"),
	}
}

func projectTodoItem(o canvas.Object) types.TodoItem {
	assignment := o.Object("assignment")
	assignmentID := o.ID("assignment_id")
	if assignmentID == nil {
		assignmentID = assignment.ID("id")
	}
	return types.TodoItem{
		ID:                o.ID("id"),
		Type:              o.String("type"),
		AssignmentID:      assignmentID,
		CourseID:          o.ID("course_id"),
		HTMLURL:           o.String("html_url"),
		Name:              assignment.String("name"),
		ContextName:       o.String("context_name"),
		NeedsGradingCount: o.Int("needs_grading_count"),
		Ignore:            o.String("ignore"),
		IgnorePermanently: o.String("ignore_permanently"),
	}
}

func projectCalendarEvent(o canvas.Object) types.CalendarEvent {
	return types.CalendarEvent{
		ID:              o.ID("id"),
		Title:           o.String("title"),
		StartAt:         o.Time("start_at"),
		EndAt:           o.Time("end_at"),
		Description:     o.String("description"),
		LocationName:    o.String("location_name"),
		LocationAddress: o.String("location_address"),
		ContextCode:     o.String("context_code"),
		WorkflowState:   o.String("workflow_state"),
		Hidden:          o.Bool("hidden"),
		URL:             o.String("url"),
		HTMLURL:         o.String("html_url"),
		AllDay:          o.Bool("all_day"),
		CreatedAt:       o.Time("created_at"),
		UpdatedAt:       o.Time("updated_at"),
	}
}

// projectUpcomingEvent keeps the due fields of assignment-like events and the
// start and end of calendar-like events.
func projectUpcomingEvent(o canvas.Object) types.UpcomingEvent {
	e := types.UpcomingEvent{
		ID:      o.ID("id"),
		Title:   firstString(o, "title", "name"),
		Type:    o.String("type"),
		HTMLURL: o.String("html_url"),
	}
	if o.Has("due_at") {
		e.DueAt = o.Time("due_at")
		e.CourseID = o.ID("course_id")
	}
	if o.Has("start_at") {
		e.StartAt = o.Time("start_at")
		e.EndAt = o.Time("end_at")
	}
	return e
}

func projectPlannerItem(o canvas.Object) types.PlannerItem {
	title := firstString(o, "title", "name")
	if title == nil {
		title = firstString(o.Object("plannable"), "title", "name")
	}
	return types.PlannerItem{
		ID:                o.ID("id"),
		Title:             title,
		PlannableType:     o.String("plannable_type"),
		PlannableID:       o.ID("plannable_id"),
		PlannerOverrideID: o.ID("planner_override_id"),
		CourseID:          o.ID("course_id"),
		Completed:         o.Flag("completed"),
		HTMLURL:           o.String("html_url"),
		StartAt:           o.Time("start_at"),
		EndAt:             o.Time("end_at"),
		DueAt:             o.Time("due_at"),
		CreatedAt:         o.Time("created_at"),
		UpdatedAt:         o.Time("updated_at"),
	}
}
