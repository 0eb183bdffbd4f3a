package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StoryHandler struct {
	storySvc    service.StoryService
	categorySvc service.CategoryService
}

func NewStoryHandler(storySvc service.StoryService, categorySvc service.CategoryService) *StoryHandler {
	return &StoryHandler{
		storySvc:    storySvc,
		categorySvc: categorySvc,
	}
}

// storyIDParam 解析路径中的 story_id
func storyIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("story_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return 0, false
	}
	return id, true
}

func (s *StoryHandler) CreateStory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var storyDTO dto.StoryBaseDTO
	if err := c.ShouldBind(&storyDTO); err != nil {
		response.Error(c, err)
		return
	}
	created, err := s.storySvc.CreateStory(c.Request.Context(), userID, &storyDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, created)
}

func (s *StoryHandler) UpdateStory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	var storyDTO dto.StoryBaseDTO
	if err := c.ShouldBind(&storyDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.storySvc.UpdateStory(c.Request.Context(), userID, storyID, &storyDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *StoryHandler) GetStory(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	story, err := s.storySvc.GetStory(c.Request.Context(), storyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, story)
}

func (s *StoryHandler) GetStoryBySlug(c *gin.Context) {
	story, err := s.storySvc.GetStoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, story)
}

func (s *StoryHandler) PublishStory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	if err := s.storySvc.PublishStory(c.Request.Context(), userID, storyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *StoryHandler) ApproveStory(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	var approveDTO dto.ApproveStoryDTO
	if err := c.ShouldBind(&approveDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.storySvc.ApproveStory(c.Request.Context(), storyID, &approveDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *StoryHandler) ListMyStories(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, err := s.storySvc.ListByAuthor(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *StoryHandler) ListByAuthor(c *gin.Context) {
	authorID, err := strconv.ParseUint(c.Param("author_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, err := s.storySvc.ListByAuthor(c.Request.Context(), authorID, query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *StoryHandler) ListByCategory(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, err := s.storySvc.ListByCategory(c.Request.Context(), c.Param("slug"), query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *StoryHandler) ListPending(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, err := s.storySvc.ListPending(c.Request.Context(), query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *StoryHandler) SearchStories(c *gin.Context) {
	var searchDTO dto.SearchStoryDTO
	if err := c.ShouldBindQuery(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	page, err := s.storySvc.SearchStories(c.Request.Context(), searchDTO.Keyword, searchDTO.Page, searchDTO.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// RecordView HTTP 兜底埋点，正常流量走 Kafka 事件
func (s *StoryHandler) RecordView(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	// 去重标识：登录用户用 uid，匿名用客户端 IP
	viewerKey := c.ClientIP()
	if userID := c.GetUint64("user_id"); userID > 0 {
		viewerKey = strconv.FormatUint(userID, 10)
	}
	if err := s.storySvc.RecordView(c.Request.Context(), storyID, viewerKey); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *StoryHandler) RecordShare(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	if err := s.storySvc.RecordShare(c.Request.Context(), storyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *StoryHandler) ListCategories(c *gin.Context) {
	categories, err := s.categorySvc.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}
