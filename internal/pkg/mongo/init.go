package mongo

import (
	"Inkstone/internal/api/config"
	"Inkstone/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo 建立连接并返回 Database 引用，同时初始化索引
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetMonitor(logger.NewMongoMonitor()),
	)
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)

	if err = ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database)
	return db, nil
}

// ensureIndexes 统计表与榜单表都以 (story_id, date) 唯一约束，
// 保证同一作品一天只有一行在累计/被重写
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	storyDate := mongo.IndexModel{
		Keys:    bson.D{{Key: "story_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := db.Collection(StatsCollection).Indexes().CreateOne(ctx, storyDate); err != nil {
		return err
	}
	if _, err := db.Collection(RankingCollection).Indexes().CreateOne(ctx, storyDate); err != nil {
		return err
	}

	weekIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "iso_week", Value: 1}, {Key: "iso_year", Value: 1}},
	}
	monthIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "month", Value: 1}, {Key: "year", Value: 1}},
	}
	if _, err := db.Collection(StatsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{weekIdx, monthIdx}); err != nil {
		return err
	}

	commentIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "story_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := db.Collection(CommentCollection).Indexes().CreateOne(ctx, commentIdx); err != nil {
		return err
	}

	notifyIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	_, err := db.Collection(NotificationCollection).Indexes().CreateOne(ctx, notifyIdx)
	return err
}
