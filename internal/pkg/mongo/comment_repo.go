package mongo

import (
	"Inkstone/internal/pkg/consts"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommentRepo interface {
	Create(ctx context.Context, comment *CommentModel) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*CommentModel, error)
	ListByStory(ctx context.Context, storyID uint64, chapterID *uint64, limit, offset int64) ([]*CommentModel, error)
	CountByStory(ctx context.Context, storyID uint64, chapterID *uint64) (int64, error)
	MarkDeleted(ctx context.Context, id primitive.ObjectID, userID uint64) error
}

type commentRepoImpl struct {
	col *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &commentRepoImpl{col: db.Collection(CommentCollection)}
}

func (s *commentRepoImpl) Create(ctx context.Context, comment *CommentModel) error {
	result, err := s.col.InsertOne(ctx, comment)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		comment.ID = oid
	}
	return nil
}

func (s *commentRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*CommentModel, error) {
	var comment CommentModel
	err := s.col.FindOne(ctx, bson.M{"_id": id, "status": consts.CommentStatusNormal}).Decode(&comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByStory 分页获取评论 (按时间倒序)，chapterID 为空时取作品级评论
func (s *commentRepoImpl) ListByStory(ctx context.Context, storyID uint64, chapterID *uint64, limit, offset int64) ([]*CommentModel, error) {
	filter := s.storyFilter(storyID, chapterID)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*CommentModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *commentRepoImpl) CountByStory(ctx context.Context, storyID uint64, chapterID *uint64) (int64, error) {
	return s.col.CountDocuments(ctx, s.storyFilter(storyID, chapterID))
}

// MarkDeleted 软删除，只允许作者本人删除
func (s *commentRepoImpl) MarkDeleted(ctx context.Context, id primitive.ObjectID, userID uint64) error {
	filter := bson.M{"_id": id, "user_id": userID}
	update := bson.M{"$set": bson.M{"status": consts.CommentStatusDeleted}}
	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *commentRepoImpl) storyFilter(storyID uint64, chapterID *uint64) bson.M {
	filter := bson.M{"story_id": storyID, "status": consts.CommentStatusNormal}
	if chapterID != nil {
		filter["chapter_id"] = *chapterID
	} else {
		filter["chapter_id"] = bson.M{"$exists": false}
	}
	return filter
}
