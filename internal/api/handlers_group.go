package api

import "Inkstone/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	StoryHandler        *handler.StoryHandler
	ChapterHandler      *handler.ChapterHandler
	InteractionHandler  *handler.InteractionHandler
	NotificationHandler *handler.NotificationHandler
	RankingHandler      *handler.RankingHandler
}
