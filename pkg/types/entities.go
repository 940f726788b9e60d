package types

// Profile is the authenticated user.
type Profile struct {
	ID        *int64  `json:"id"`
	Name      *string `json:"name"`
	ShortName *string `json:"short_name"`
	LoginID   *string `json:"login_id"`
	Email     *string `json:"email"`
	Locale    *string `json:"locale"`
	TimeZone  *string `json:"time_zone"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// Course is a course the user is enrolled in.
type Course struct {
	ID                      *int64       `json:"id"`
	Name                    *string      `json:"name"`
	CourseCode              *string      `json:"course_code"`
	WorkflowState           *string      `json:"workflow_state"`
	EnrollmentTermID        *int64       `json:"enrollment_term_id"`
	StartAt                 *string      `json:"start_at"`
	EndAt                   *string      `json:"end_at"`
	CreatedAt               *string      `json:"created_at"`
	UpdatedAt               *string      `json:"updated_at"`
	SyllabusBody            *string      `json:"syllabus_body"`
	PublicDescription       *string      `json:"public_description"`
	Enrollments             []Enrollment `json:"enrollments"`
	Calendar                any          `json:"calendar"`
	DefaultView             *string      `json:"default_view"`
	IsPublic                *bool        `json:"is_public"`
	HasActiveCourseOffering *bool        `json:"has_active_course_offering"`
}

// Enrollment is the user's role in a course.
type Enrollment struct {
	Type            *string `json:"type"`
	Role            *string `json:"role"`
	EnrollmentState *string `json:"enrollment_state"`
}

// Assignment is a course assignment, optionally with the user's submission.
type Assignment struct {
	ID                      *int64      `json:"id"`
	Name                    *string     `json:"name"`
	Description             *string     `json:"description"`
	CourseID                *int64      `json:"course_id"`
	PointsPossible          *float64    `json:"points_possible"`
	DueAt                   *string     `json:"due_at"`
	LockAt                  *string     `json:"lock_at"`
	UnlockAt                *string     `json:"unlock_at"`
	WorkflowState           *string     `json:"workflow_state"`
	AssignmentGroupID       *int64      `json:"assignment_group_id"`
	GradingType             *string     `json:"grading_type"`
	SubmissionTypes         []string    `json:"submission_types"`
	HasSubmittedSubmissions bool        `json:"has_submitted_submissions"`
	HasOverrides            bool        `json:"has_overrides"`
	HTMLURL                 *string     `json:"html_url"`
	CreatedAt               *string     `json:"created_at"`
	UpdatedAt               *string     `json:"updated_at"`
	Published               *bool       `json:"published"`
	Unpublishable           *bool       `json:"unpublishable"`
	Submission              *Submission `json:"submission,omitempty"`
}

// Submission is the user's submission for an assignment.
type Submission struct {
	ID            *int64   `json:"id"`
	Grade         *string  `json:"grade"`
	Score         *float64 `json:"score"`
	SubmittedAt   *string  `json:"submitted_at"`
	WorkflowState *string  `json:"workflow_state"`
	Late          bool     `json:"late"`
	Missing       bool     `json:"missing"`
}

// AssignmentGroup is a weighted grading category.
type AssignmentGroup struct {
	ID                 *int64   `json:"id"`
	Name               *string  `json:"name"`
	Weight             float64  `json:"weight"`
	PointsPossible     *float64 `json:"points_possible"`
	AssignsAssignments *bool    `json:"assigns_assignments"`
}

// Quiz is a classic quiz.
type Quiz struct {
	ID                   *int64   `json:"id"`
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	QuizType             *string  `json:"quiz_type"`
	CourseID             *int64   `json:"course_id"`
	PointsPossible       *float64 `json:"points_possible"`
	DueAt                *string  `json:"due_at"`
	LockAt               *string  `json:"lock_at"`
	UnlockAt             *string  `json:"unlock_at"`
	TimeLimit            *int     `json:"time_limit"`
	ShuffleAnswers       *bool    `json:"shuffle_answers"`
	ShowCorrectAnswers   *bool    `json:"show_correct_answers"`
	ShowCorrectAnswersAt *string  `json:"show_correct_answers_at"`
	HideCorrectAnswersAt *string  `json:"hide_correct_answers_at"`
	AllowedAttempts      *int     `json:"allowed_attempts"`
	ScoringPolicy        *string  `json:"scoring_policy"`
	QuestionCount        *int     `json:"question_count"`
	HTMLURL              *string  `json:"html_url"`
	MobileURL            *string  `json:"mobile_url"`
	Published            *bool    `json:"published"`
	Unpublishable        *bool    `json:"unpublishable"`
	LockedForUser        *bool    `json:"locked_for_user"`
	CreatedAt            *string  `json:"created_at"`
	UpdatedAt            *string  `json:"updated_at"`
}

// Author identifies who posted a topic.
type Author struct {
	ID             *int64  `json:"id"`
	DisplayName    *string `json:"display_name"`
	AvatarImageURL *string `json:"avatar_image_url"`
}

// DiscussionTopic is a course discussion.
type DiscussionTopic struct {
	ID                      *int64  `json:"id"`
	Title                   *string `json:"title"`
	Message                 *string `json:"message"`
	CourseID                *int64  `json:"course_id"`
	DiscussionType          *string `json:"discussion_type"`
	DiscussionSubentryCount int     `json:"discussion_subentry_count"`
	Published               *bool   `json:"published"`
	Locked                  *bool   `json:"locked"`
	Pinned                  *bool   `json:"pinned"`
	Position                *int    `json:"position"`
	URL                     *string `json:"url"`
	HTMLURL                 *string `json:"html_url"`
	PostedAt                *string `json:"posted_at"`
	CreatedAt               *string `json:"created_at"`
	UpdatedAt               *string `json:"updated_at"`
	LastReplyAt             *string `json:"last_reply_at"`
	Author                  Author  `json:"author"`
	IsAnnouncement          bool    `json:"is_announcement"`
	HasMoreReplies          bool    `json:"has_more_replies"`
}

// DiscussionEntry is a post or reply in a discussion.
type DiscussionEntry struct {
	ID                      *int64  `json:"id"`
	UserID                  *int64  `json:"user_id"`
	UserName                *string `json:"user_name"`
	Message                 *string `json:"message"`
	CreatedAt               *string `json:"created_at"`
	UpdatedAt               *string `json:"updated_at"`
	ParentID                *int64  `json:"parent_id"`
	ReadState               *string `json:"read_state"`
	ForcedReadState         *bool   `json:"forced_read_state"`
	DiscussionSubentryCount int     `json:"discussion_subentry_count"`
	HasMoreReplies          bool    `json:"has_more_replies"`
}

// Announcement is an announcement-type discussion topic.
type Announcement struct {
	ID                      *int64  `json:"id"`
	Title                   *string `json:"title"`
	Message                 *string `json:"message"`
	CourseID                *int64  `json:"course_id"`
	PostedAt                *string `json:"posted_at"`
	CreatedAt               *string `json:"created_at"`
	UpdatedAt               *string `json:"updated_at"`
	URL                     *string `json:"url"`
	HTMLURL                 *string `json:"html_url"`
	Author                  Author  `json:"author"`
	ReadState               *string `json:"read_state"`
	UnreadCount             int     `json:"unread_count"`
	DiscussionSubentryCount int     `json:"discussion_subentry_count"`
	DelayedPostAt           *string `json:"delayed_post_at"`
	Published               *bool   `json:"published"`
	Locked                  *bool   `json:"locked"`
}

// Participant is a member of a conversation.
type Participant struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

// Conversation is an inbox thread.
type Conversation struct {
	ID            *int64                `json:"id"`
	Subject       *string               `json:"subject"`
	WorkflowState *string               `json:"workflow_state"`
	LastMessage   *string               `json:"last_message"`
	LastMessageAt *string               `json:"last_message_at"`
	MessageCount  int                   `json:"message_count"`
	Participants  []Participant         `json:"participants"`
	Starred       bool                  `json:"starred"`
	Subscribed    bool                  `json:"subscribed"`
	Audience      []int64               `json:"audience"`
	ContextCode   *string               `json:"context_code"`
	ContextName   *string               `json:"context_name"`
	URL           *string               `json:"url"`
	CreatedAt     *string               `json:"created_at"`
	UpdatedAt     *string               `json:"updated_at"`
	Messages      []ConversationMessage `json:"messages,omitempty"`
}

// ConversationMessage is one message of a conversation.
type ConversationMessage struct {
	ID                   *int64  `json:"id"`
	Body                 *string `json:"body"`
	AuthorID             *int64  `json:"author_id"`
	AuthorName           *string `json:"author_name"`
	ConversationID       *int64  `json:"conversation_id"`
	CreatedAt            *string `json:"created_at"`
	Generated            bool    `json:"generated"`
	MediaComment         any     `json:"media_comment"`
	ForwardedMessages    []any   `json:"forwarded_messages"`
	Attachments          []any   `json:"attachments"`
	ParticipatingUserIDs []int64 `json:"participating_user_ids"`
}

// Module is a course module.
type Module struct {
	ID                        *int64  `json:"id"`
	Name                      *string `json:"name"`
	CourseID                  *int64  `json:"course_id"`
	Position                  *int    `json:"position"`
	UnlockAt                  *string `json:"unlock_at"`
	RequireSequentialProgress bool    `json:"require_sequential_progress"`
	PublishFinalGrade         bool    `json:"publish_final_grade"`
	Published                 *bool   `json:"published"`
	ItemsCount                *int    `json:"items_count"`
	ItemsURL                  *string `json:"items_url"`
	State                     *string `json:"state"`
	CompletedAt               *string `json:"completed_at"`
	CreatedAt                 *string `json:"created_at"`
	UpdatedAt                 *string `json:"updated_at"`
}

// ModuleItem is an entry of a module.
type ModuleItem struct {
	ID                    *int64  `json:"id"`
	ModuleID              *int64  `json:"module_id"`
	Position              *int    `json:"position"`
	Title                 *string `json:"title"`
	Type                  *string `json:"type"`
	ContentID             *int64  `json:"content_id"`
	ContentType           *string `json:"content_type"`
	HTMLURL               *string `json:"html_url"`
	URL                   *string `json:"url"`
	ExternalURL           *string `json:"external_url"`
	PageURL               *string `json:"page_url"`
	Indent                *int    `json:"indent"`
	CompletionRequirement any     `json:"completion_requirement"`
	Published             *bool   `json:"published"`
	NewTab                bool    `json:"new_tab"`
	CreatedAt             *string `json:"created_at"`
	UpdatedAt             *string `json:"updated_at"`
}

// Page is a wiki page.
type Page struct {
	ID               *int64  `json:"id"`
	URL              *string `json:"url"`
	Title            *string `json:"title"`
	Body             *string `json:"body"`
	CourseID         *int64  `json:"course_id"`
	FrontPage        bool    `json:"front_page"`
	Published        *bool   `json:"published"`
	HideFromStudents bool    `json:"hide_from_students"`
	EditingRoles     *string `json:"editing_roles"`
	LastEditedBy     any     `json:"last_edited_by"`
	HTMLURL          *string `json:"html_url"`
	TodoDate         *string `json:"todo_date"`
	CreatedAt        *string `json:"created_at"`
	UpdatedAt        *string `json:"updated_at"`
}

// File is a course file.
type File struct {
	ID            *int64  `json:"id"`
	UUID          *string `json:"uuid"`
	DisplayName   *string `json:"display_name"`
	Filename      *string `json:"filename"`
	FolderID      *int64  `json:"folder_id"`
	ContentType   *string `json:"content_type"`
	Size          *int64  `json:"size"`
	URL           *string `json:"url"`
	HTMLURL       *string `json:"html_url"`
	ThumbnailURL  *string `json:"thumbnail_url"`
	Locked        bool    `json:"locked"`
	LockedForUser bool    `json:"locked_for_user"`
	Hidden        bool    `json:"hidden"`
	HiddenForUser bool    `json:"hidden_for_user"`
	UploadStatus  *string `json:"upload_status"`
	CreatedAt     *string `json:"created_at"`
	UpdatedAt     *string `json:"updated_at"`
	ModifiedAt    *string `json:"modified_at"`
}

// TodoItem is an entry of the user's to-do list.
type TodoItem struct {
	ID                *int64  `json:"id"`
	Type              *string `json:"type"`
	AssignmentID      *int64  `json:"assignment_id"`
	CourseID          *int64  `json:"course_id"`
	HTMLURL           *string `json:"html_url"`
	Name              *string `json:"name"`
	ContextName       *string `json:"context_name"`
	NeedsGradingCount *int    `json:"needs_grading_count"`
	Ignore            *string `json:"ignore"`
	IgnorePermanently *string `json:"ignore_permanently"`
}

// CalendarEvent is a calendar entry.
type CalendarEvent struct {
	ID              *int64  `json:"id"`
	Title           *string `json:"title"`
	StartAt         *string `json:"start_at"`
	EndAt           *string `json:"end_at"`
	Description     *string `json:"description"`
	LocationName    *string `json:"location_name"`
	LocationAddress *string `json:"location_address"`
	ContextCode     *string `json:"context_code"`
	WorkflowState   *string `json:"workflow_state"`
	Hidden          *bool   `json:"hidden"`
	URL             *string `json:"url"`
	HTMLURL         *string `json:"html_url"`
	AllDay          *bool   `json:"all_day"`
	CreatedAt       *string `json:"created_at"`
	UpdatedAt       *string `json:"updated_at"`
}

// UpcomingEvent is either an assignment or a calendar event due soon.
type UpcomingEvent struct {
	ID       *int64  `json:"id"`
	Title    *string `json:"title"`
	Type     *string `json:"type"`
	HTMLURL  *string `json:"html_url"`
	DueAt    *string `json:"due_at,omitempty"`
	CourseID *int64  `json:"course_id,omitempty"`
	StartAt  *string `json:"start_at,omitempty"`
	EndAt    *string `json:"end_at,omitempty"`
}

// PlannerItem is an entry of the student planner.
type PlannerItem struct {
	ID                *int64  `json:"id"`
	Title             *string `json:"title"`
	PlannableType     *string `json:"plannable_type"`
	PlannableID       *int64  `json:"plannable_id"`
	PlannerOverrideID *int64  `json:"planner_override_id"`
	CourseID          *int64  `json:"course_id"`
	Completed         bool    `json:"completed"`
	HTMLURL           *string `json:"html_url"`
	StartAt           *string `json:"start_at"`
	EndAt             *string `json:"end_at"`
	DueAt             *string `json:"due_at"`
	CreatedAt         *string `json:"created_at"`
	UpdatedAt         *string `json:"updated_at"`
}
