package api

import (
	"Inkstone/internal/api/middleware"
	"Inkstone/internal/model"
	"Inkstone/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, guard *middleware.RankingGuard) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.GET("/:user_id/simple", group.UserHandler.GetUserSimpleInfoById)
			userGroup.GET("/batch/simple", group.UserHandler.GetUserSimpleInfoByIds)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.PUT("/password", group.UserHandler.ChangePassword)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(model.RoleAdmin))
			{
				adminGroup.POST("/role", group.UserHandler.GrantRole)
				adminGroup.POST("/ban/:user_id", group.UserHandler.BanUser)
				adminGroup.POST("/unban/:user_id", group.UserHandler.UnbanUser)
			}
		}

		storyGroup := apiGroup.Group("/stories")
		{
			storyGroup.GET("/categories", group.StoryHandler.ListCategories)
			storyGroup.GET("/search", group.StoryHandler.SearchStories)
			storyGroup.GET("/detail/:story_id", group.StoryHandler.GetStory)
			storyGroup.GET("/slug/:slug", group.StoryHandler.GetStoryBySlug)
			storyGroup.GET("/author/:author_id", group.StoryHandler.ListByAuthor)
			storyGroup.GET("/category/:slug", group.StoryHandler.ListByCategory)
			storyGroup.GET("/:story_id/chapters/:number", group.ChapterHandler.GetChapter)
			storyGroup.GET("/:story_id/comments", group.InteractionHandler.ListComments)

			// 可选登录：作者看目录可带草稿；埋点是 Kafka 事件流的 HTTP 兜底
			authOptGroup := storyGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:story_id/chapters", group.ChapterHandler.ListChapters)
				authOptGroup.POST("/:story_id/view", group.StoryHandler.RecordView)
				authOptGroup.POST("/:story_id/share", group.StoryHandler.RecordShare)
			}

			authGroup := storyGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.StoryHandler.CreateStory)
				authGroup.PUT("/:story_id", group.StoryHandler.UpdateStory)
				authGroup.POST("/:story_id/publish", group.StoryHandler.PublishStory)
				authGroup.GET("/mine", group.StoryHandler.ListMyStories)

				authGroup.POST("/:story_id/chapters", group.ChapterHandler.CreateChapter)
				authGroup.PUT("/chapters/:chapter_id", group.ChapterHandler.UpdateChapter)
				authGroup.POST("/chapters/:chapter_id/publish", group.ChapterHandler.PublishChapter)

				authGroup.POST("/:story_id/rating", group.InteractionHandler.RateStory)
				authGroup.GET("/:story_id/rating", group.InteractionHandler.GetMyRating)
				authGroup.POST("/:story_id/bookmark", group.InteractionHandler.AddBookmark)
				authGroup.DELETE("/:story_id/bookmark", group.InteractionHandler.RemoveBookmark)
				authGroup.GET("/:story_id/bookmark", group.InteractionHandler.IsBookmarked)
				authGroup.POST("/comments", group.InteractionHandler.CreateComment)
				authGroup.DELETE("/comments/:comment_id", group.InteractionHandler.DeleteComment)
			}

			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(model.RoleAdmin))
			{
				adminGroup.GET("/pending", group.StoryHandler.ListPending)
				adminGroup.POST("/:story_id/approve", group.StoryHandler.ApproveStory)
			}
		}

		bookmarkGroup := apiGroup.Group("/bookmarks")
		bookmarkGroup.Use(middleware.AuthMiddleware())
		{
			bookmarkGroup.GET("", group.InteractionHandler.ListBookmarks)
		}

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(middleware.AuthMiddleware())
		{
			notificationGroup.GET("", group.NotificationHandler.ListNotifications)
			notificationGroup.GET("/unread/count", group.NotificationHandler.GetUnreadCount)
			notificationGroup.PUT("/read", group.NotificationHandler.MarkAsRead)
			notificationGroup.PUT("/read/all", group.NotificationHandler.MarkAllAsRead)
		}

		rankingGroup := apiGroup.Group("/rankings")
		{
			// 读路径挂可用性守卫：当日无数据时先兜底补算
			readGroup := rankingGroup.Group("")
			readGroup.Use(guard.EnsureRankings())
			{
				readGroup.GET("/status", group.RankingHandler.GetStatus)
			}

			horizonGroup := rankingGroup.Group("")
			horizonGroup.Use(guard.EnsureRankings(), guard.EnsureHorizon())
			{
				horizonGroup.GET("/:horizon", group.RankingHandler.GetRankings)
			}

			adminGroup := rankingGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(model.RoleAdmin))
			{
				adminGroup.POST("/update/:horizon", group.RankingHandler.UpdateRankings)
				adminGroup.POST("/force-update", group.RankingHandler.ForceUpdate)
			}
		}
	}

	return r
}
