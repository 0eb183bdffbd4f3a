package handler

import (
	"Inkstone/internal/api/dto"
	"Inkstone/internal/api/middleware"
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
)

type RankingHandler struct {
	rankingSvc service.RankingService
	initSvc    service.RankingInitService
	guard      *middleware.RankingGuard
}

func NewRankingHandler(
	rankingSvc service.RankingService,
	initSvc service.RankingInitService,
	guard *middleware.RankingGuard,
) *RankingHandler {
	return &RankingHandler{
		rankingSvc: rankingSvc,
		initSvc:    initSvc,
		guard:      guard,
	}
}

func (s *RankingHandler) GetRankings(c *gin.Context) {
	horizon, ok := mongo.ParseHorizon(c.Param("horizon"))
	if !ok {
		response.Error(c, service.ErrHorizonInvalid)
		return
	}
	var query dto.RankingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	page, err := s.rankingSvc.GetRankings(c.Request.Context(), horizon, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *RankingHandler) GetStatus(c *gin.Context) {
	status, err := s.initSvc.GetStatus(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, status)
}

// UpdateRankings 手动触发单个榜单计算，horizon 传 all 时全量计算
func (s *RankingHandler) UpdateRankings(c *gin.Context) {
	raw := c.Param("horizon")
	if raw == "all" {
		updated, err := s.rankingSvc.UpdateAllRankings(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		s.guard.Invalidate()
		response.Success(c, &dto.RankingUpdateResultDTO{Updated: updated})
		return
	}
	horizon, ok := mongo.ParseHorizon(raw)
	if !ok {
		response.Error(c, service.ErrHorizonInvalid)
		return
	}
	count, err := s.rankingSvc.UpdateHorizon(c.Request.Context(), horizon)
	if err != nil {
		response.Error(c, err)
		return
	}
	s.guard.Invalidate()
	response.Success(c, &dto.RankingUpdateResultDTO{
		Updated: map[string]int{string(horizon): count},
	})
}

// ForceUpdate 强制重算全部榜单并清掉守卫缓存
func (s *RankingHandler) ForceUpdate(c *gin.Context) {
	updated, err := s.rankingSvc.UpdateAllRankings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	s.guard.Invalidate()
	response.Success(c, &dto.RankingUpdateResultDTO{Updated: updated})
}
