package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	chapterSvc service.ChapterService
}

func NewChapterHandler(chapterSvc service.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapterSvc: chapterSvc}
}

func (s *ChapterHandler) CreateChapter(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	var chapterDTO dto.ChapterBaseDTO
	if err := c.ShouldBind(&chapterDTO); err != nil {
		response.Error(c, err)
		return
	}
	created, err := s.chapterSvc.CreateChapter(c.Request.Context(), userID, storyID, &chapterDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, created)
}

func (s *ChapterHandler) UpdateChapter(c *gin.Context) {
	userID := c.GetUint64("user_id")
	chapterID, err := strconv.ParseUint(c.Param("chapter_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	var chapterDTO dto.ChapterBaseDTO
	if err := c.ShouldBind(&chapterDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.chapterSvc.UpdateChapter(c.Request.Context(), userID, chapterID, &chapterDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChapterHandler) GetChapter(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	chapter, err := s.chapterSvc.GetChapter(c.Request.Context(), storyID, number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, chapter)
}

func (s *ChapterHandler) PublishChapter(c *gin.Context) {
	userID := c.GetUint64("user_id")
	chapterID, err := strconv.ParseUint(c.Param("chapter_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	if err := s.chapterSvc.PublishChapter(c.Request.Context(), userID, chapterID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChapterHandler) ListChapters(c *gin.Context) {
	storyID, ok := storyIDParam(c)
	if !ok {
		return
	}
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	// 登录用户请求 drafts=true 时返回含草稿的列表，作者身份在服务层校验
	userID := c.GetUint64("user_id")
	includeDrafts := c.Query("drafts") == "true" && userID > 0
	page, err := s.chapterSvc.ListChapters(c.Request.Context(), userID, storyID, includeDrafts, query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
