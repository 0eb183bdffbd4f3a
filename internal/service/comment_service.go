package service

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID uint64, dto *dto.CreateCommentDTO) (*dto.CommentDTO, error)
	ListComments(ctx context.Context, storyID uint64, chapterID *uint64, page, limit int) (*dto.CommentPageDTO, error)
	DeleteComment(ctx context.Context, userID uint64, commentID string) error
}

type commentServiceImpl struct {
	commentRepo      mongo.CommentRepo
	storyRepo        repository.StoryRepo
	userRepo         repository.UserRepo
	statsRepo        mongo.StoryStatsRepo
	notificationRepo mongo.NotificationRepo
}

func NewCommentService(
	commentRepo mongo.CommentRepo,
	storyRepo repository.StoryRepo,
	userRepo repository.UserRepo,
	statsRepo mongo.StoryStatsRepo,
	notificationRepo mongo.NotificationRepo,
) CommentService {
	return &commentServiceImpl{
		commentRepo:      commentRepo,
		storyRepo:        storyRepo,
		userRepo:         userRepo,
		statsRepo:        statsRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *commentServiceImpl) CreateComment(ctx context.Context, userID uint64, createDTO *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	story, err := s.storyRepo.GetByID(ctx, createDTO.StoryID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	if story.Status != consts.StoryStatusPublished {
		return nil, ErrStoryNotPublished
	}

	comment := &mongo.CommentModel{
		StoryID:   createDTO.StoryID,
		ChapterID: createDTO.ChapterID,
		UserID:    userID,
		Content:   createDTO.Content,
		Status:    consts.CommentStatusNormal,
		CreatedAt: time.Now(),
	}

	var parent *mongo.CommentModel
	if createDTO.RootID != nil {
		rootID, err := primitive.ObjectIDFromHex(*createDTO.RootID)
		if err != nil {
			return nil, ErrParamInvalid
		}
		parent, err = s.commentRepo.GetByID(ctx, rootID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCommentNotFound
		}
		// 楼中楼统一挂在根评论下
		root := rootID
		if parent.RootID != nil {
			root = *parent.RootID
		}
		comment.RootID = &root
	}

	if err = s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err = s.statsRepo.IncStats(ctx, createDTO.StoryID, time.Now(), mongo.StatsDelta{CommentsCount: 1}); err != nil {
		log.ErrorContext(ctx, "inc comment stats error", "story_id", createDTO.StoryID, "err", err)
	}

	if parent != nil && parent.UserID != userID {
		go s.notifyReply(story.ID, parent.UserID, userID, createDTO.Content)
	}
	return s.toCommentDTO(ctx, comment), nil
}

func (s *commentServiceImpl) ListComments(ctx context.Context, storyID uint64, chapterID *uint64, page, limit int) (*dto.CommentPageDTO, error) {
	offset := int64((page - 1) * limit)
	comments, err := s.commentRepo.ListByStory(ctx, storyID, chapterID, int64(limit), offset)
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.CountByStory(ctx, storyID, chapterID)
	if err != nil {
		return nil, err
	}

	// 批量带出发言人昵称
	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	nicknames := make(map[uint64]string, len(users))
	for _, u := range users {
		nicknames[u.ID] = u.Nickname
	}

	items := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		item := commentModelToDTO(c)
		item.Nickname = nicknames[c.UserID]
		items = append(items, item)
	}
	return &dto.CommentPageDTO{
		Comments:   items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, userID uint64, commentID string) error {
	id, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return ErrParamInvalid
	}
	return s.commentRepo.MarkDeleted(ctx, id, userID)
}

func (s *commentServiceImpl) toCommentDTO(ctx context.Context, comment *mongo.CommentModel) *dto.CommentDTO {
	item := commentModelToDTO(comment)
	if user, err := s.userRepo.GetByID(ctx, comment.UserID); err == nil && user != nil {
		item.Nickname = user.Nickname
	}
	return item
}

func (s *commentServiceImpl) notifyReply(storyID, receiverID, senderID uint64, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	preview := []rune(content)
	if len(preview) > 50 {
		preview = preview[:50]
	}
	msg := &mongo.NotificationModel{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       consts.NotifyTypeCommentReply,
		TargetID:   storyID,
		Content:    fmt.Sprintf("你的评论收到了新回复：%s", string(preview)),
	}
	if err := s.notificationRepo.Create(ctx, msg); err != nil {
		log.Error("create reply notification error", "story_id", storyID, "err", err)
	}
}

func commentModelToDTO(comment *mongo.CommentModel) *dto.CommentDTO {
	item := &dto.CommentDTO{
		ID:        comment.ID.Hex(),
		StoryID:   comment.StoryID,
		ChapterID: comment.ChapterID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if comment.RootID != nil {
		root := comment.RootID.Hex()
		item.RootID = &root
	}
	return item
}
