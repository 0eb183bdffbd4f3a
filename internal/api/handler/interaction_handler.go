package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// InteractionHandler 评分、收藏、评论等读者互动接口
type InteractionHandler struct {
	ratingSvc   service.RatingService
	bookmarkSvc service.BookmarkService
	commentSvc  service.CommentService
}

func NewInteractionHandler(
	ratingSvc service.RatingService,
	bookmarkSvc service.BookmarkService,
	commentSvc service.CommentService,
) *InteractionHandler {
	return &InteractionHandler{
		ratingSvc:   ratingSvc,
		bookmarkSvc: bookmarkSvc,
		commentSvc:  commentSvc,
	}
}

func (s *InteractionHandler) RateStory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	var rateDTO dto.RateStoryDTO
	if err := c.ShouldBind(&rateDTO); err != nil {
		response.Error(c, err)
		return
	}
	result, err := s.ratingSvc.RateStory(c.Request.Context(), userID, storyID, &rateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *InteractionHandler) GetMyRating(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	rating, err := s.ratingSvc.GetUserRating(c.Request.Context(), userID, storyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rating)
}

func (s *InteractionHandler) AddBookmark(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	if err := s.bookmarkSvc.AddBookmark(c.Request.Context(), userID, storyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InteractionHandler) RemoveBookmark(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	if err := s.bookmarkSvc.RemoveBookmark(c.Request.Context(), userID, storyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InteractionHandler) ListBookmarks(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, err := s.bookmarkSvc.ListBookmarks(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *InteractionHandler) IsBookmarked(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	bookmarked, err := s.bookmarkSvc.IsBookmarked(c.Request.Context(), userID, storyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]bool{"bookmarked": bookmarked})
}

func (s *InteractionHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var commentDTO dto.CreateCommentDTO
	if err := c.ShouldBind(&commentDTO); err != nil {
		response.Error(c, err)
		return
	}
	created, err := s.commentSvc.CreateComment(c.Request.Context(), userID, &commentDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, created)
}

func (s *InteractionHandler) ListComments(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	var chapterID *uint64
	if raw := c.Query("chapter_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
			return
		}
		chapterID = &id
	}
	page, err := s.commentSvc.ListComments(c.Request.Context(), storyID, chapterID, query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *InteractionHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.commentSvc.DeleteComment(c.Request.Context(), userID, c.Param("comment_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
