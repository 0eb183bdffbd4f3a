package wire

import (
	"Inkstone/internal/api"
	"Inkstone/internal/api/config"
	"Inkstone/internal/api/handler"
	"Inkstone/internal/api/middleware"
	"Inkstone/internal/job"
	"Inkstone/internal/pkg/cron"
	"Inkstone/internal/pkg/es"
	"Inkstone/internal/pkg/kafka"
	pkgmongo "Inkstone/internal/pkg/mongo"
	"Inkstone/internal/repository"
	"Inkstone/internal/service"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router          *gin.Engine
	DB              *gorm.DB
	KafkaManager    *kafka.ConsumerManager
	CronMgr         *cron.Manager
	RankingInitSvc  service.RankingInitService
	RankingGuard    *middleware.RankingGuard
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepository(db)
	userRolesRepo := repository.NewUserRolesRepo(db)
	storyRepo := repository.NewStoryRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	chapterRepo := repository.NewChapterRepo(db)
	ratingRepo := repository.NewRatingRepo(db)
	bookmarkRepo := repository.NewBookmarkRepo(db)

	statsRepo := pkgmongo.NewStoryStatsRepo(mongoDB)
	rankingRepo := pkgmongo.NewStoryRankingRepo(mongoDB)
	commentRepo := pkgmongo.NewCommentRepo(mongoDB)
	notificationRepo := pkgmongo.NewNotificationRepo(mongoDB)

	storyESRepo := es.NewStoryRepo(es.Client)

	userService := service.NewUserService(userRepo, roleRepo, userRolesRepo)
	storyService := service.NewStoryService(storyRepo, categoryRepo, userRepo, storyESRepo)
	chapterService := service.NewChapterService(chapterRepo, storyRepo, bookmarkRepo, notificationRepo)
	ratingService := service.NewRatingService(ratingRepo, storyRepo, statsRepo, notificationRepo)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, storyRepo, statsRepo)
	commentService := service.NewCommentService(commentRepo, storyRepo, userRepo, statsRepo, notificationRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	rankingService := service.NewRankingService(storyRepo, statsRepo, rankingRepo, service.NewRedisRunLocker())
	rankingInitService := service.NewRankingInitService(rankingRepo, rankingService)
	rankingGuard := middleware.NewRankingGuard(rankingInitService, rankingRepo)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		StoryHandler:        handler.NewStoryHandler(storyService, categoryService),
		ChapterHandler:      handler.NewChapterHandler(chapterService),
		InteractionHandler:  handler.NewInteractionHandler(ratingService, bookmarkService, commentService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		RankingHandler:      handler.NewRankingHandler(rankingService, rankingInitService, rankingGuard),
	}

	router := api.SetupRouter(handlers, rankingGuard)

	cronMgr := cron.NewCronManager(
		job.NewDailyStatsJob(statsRepo),
		job.NewRankingJob(pkgmongo.HorizonDaily, rankingService),
		job.NewRankingJob(pkgmongo.HorizonWeekly, rankingService),
		job.NewRankingJob(pkgmongo.HorizonMonthly, rankingService),
		job.NewRankingJob(pkgmongo.HorizonAllTime, rankingService),
	)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, storyService)
	if err != nil {
		return nil, err
	}

	return &ApplicationContainer{
		Router:         router,
		DB:             db,
		KafkaManager:   kafkaMgr,
		CronMgr:        cronMgr,
		RankingInitSvc: rankingInitService,
		RankingGuard:   rankingGuard,
	}, nil
}
