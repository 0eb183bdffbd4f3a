package middleware

import (
	"Inkstone/internal/pkg/mongo"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/service"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// guardCacheTTL 存在性检查的进程内缓存时长，避免每个读请求都打一次存储
const guardCacheTTL = 5 * time.Minute

// RankingGuard 榜单读路径的可用性兜底。定时任务没跑出今天的数据时
// （首次部署、错过触发点），由读请求就地触发一次补算，而不是返回空榜。
type RankingGuard struct {
	initService service.RankingInitService
	rankingRepo mongo.StoryRankingRepo

	mu        sync.Mutex
	checkedAt time.Time
	hasRows   bool
}

func NewRankingGuard(initService service.RankingInitService, rankingRepo mongo.StoryRankingRepo) *RankingGuard {
	return &RankingGuard{
		initService: initService,
		rankingRepo: rankingRepo,
	}
}

// EnsureRankings 整体兜底：当天一行榜单数据都没有时就地补算。
// 补算失败只记日志不拦截请求，读接口宁可返回旧数据也不报错。
func (g *RankingGuard) EnsureRankings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if g.todayHasRows(ctx) {
			c.Next()
			return
		}

		log.WarnContext(ctx, "no ranking rows for today, initializing inline")
		result := g.initService.InitializeOnStartup(ctx)
		if !result.Success {
			log.ErrorContext(ctx, "inline ranking init failed", "error", result.Error)
		}
		g.Invalidate()

		c.Next()
	}
}

// EnsureHorizon 周期级兜底：请求的那个周期当天没有已排名数据时
// 重新触发一次全量初始化，这一次失败就对外返回系统初始化中。
func (g *RankingGuard) EnsureHorizon() gin.HandlerFunc {
	return func(c *gin.Context) {
		horizon, ok := mongo.ParseHorizon(c.Param("horizon"))
		if !ok {
			response.Error(c, service.ErrHorizonInvalid)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		n, err := g.rankingRepo.CountRanked(ctx, horizon, time.Now())
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if n > 0 {
			c.Next()
			return
		}

		log.WarnContext(ctx, "requested horizon has no ranked rows, re-initializing", "horizon", horizon)
		result := g.initService.InitializeOnStartup(ctx)
		g.Invalidate()
		if !result.Success {
			response.Error(c, service.ErrRankingInitializing)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Invalidate 清掉存在性缓存，手动强制更新成功后调用
func (g *RankingGuard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.checkedAt = time.Time{}
}

// todayHasRows 锁只护缓存字段，存储查询在锁外执行，
// 缓存过期瞬间并发请求各查各的，不在一次 Mongo 往返后面排队
func (g *RankingGuard) todayHasRows(ctx context.Context) bool {
	g.mu.Lock()
	cached := g.hasRows && time.Since(g.checkedAt) < guardCacheTTL
	g.mu.Unlock()
	if cached {
		return true
	}

	n, err := g.rankingRepo.CountByDate(ctx, time.Now())
	if err != nil {
		log.ErrorContext(ctx, "ranking existence check error", "err", err)
		// 存储抖动时放行请求，由读路径自己报错或返回旧数据
		return true
	}

	g.mu.Lock()
	g.checkedAt = time.Now()
	g.hasRows = n > 0
	hasRows := g.hasRows
	g.mu.Unlock()
	return hasRows
}
