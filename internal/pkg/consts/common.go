package consts

const (
	StoryStatusPublished = "published"
	StoryStatusDraft     = "draft"

	ApprovalStatusApproved = "approved"
	ApprovalStatusPending  = "pending"
	ApprovalStatusRejected = "rejected"
)

const (
	ChapterStatusPublished = "published"
	ChapterStatusDraft     = "draft"
)

const (
	CommentStatusNormal  = 1
	CommentStatusDeleted = 2
)

const (
	// NotifyTypeNewChapter 新章节通知
	NotifyTypeNewChapter = 1
	// NotifyTypeCommentReply 评论回复通知
	NotifyTypeCommentReply = 2
	// NotifyTypeRating 评分通知
	NotifyTypeRating = 3
	// NotifyTypeSystem 系统通知
	NotifyTypeSystem = 4
)

const (
	RatingMin = 1
	RatingMax = 5
)

const (
	DefaultCoverURL = "default_cover.png"
)
