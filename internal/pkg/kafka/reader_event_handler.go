package kafka

import (
	"Inkstone/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const (
	EventTypeView  = "view"
	EventTypeShare = "share"
)

// ReaderEvent 阅读端上报的行为事件
type ReaderEvent struct {
	Type      string `json:"type"`
	StoryID   uint64 `json:"story_id"`
	ViewerKey string `json:"viewer_key"` // 去重用的访客标识，登录用户为 uid，匿名为设备指纹
	Timestamp int64  `json:"timestamp"`
}

// ReaderEventHandler 消费阅读行为，落当日 Redis 计数与脏集合
type ReaderEventHandler struct {
	storyService service.StoryService
}

func NewReaderEventHandler(storyService service.StoryService) *ReaderEventHandler {
	return &ReaderEventHandler{storyService: storyService}
}

func (s *ReaderEventHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("reader event consumer setup")
	return nil
}

func (s *ReaderEventHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("reader event consumer cleanup")
	return nil
}

func (s *ReaderEventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-reader-event consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-reader-event process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ReaderEventHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event ReaderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("unmarshal reader event error", "err", err)
		// 脏消息直接跳过，重试也不会变好
		return nil
	}
	if event.StoryID == 0 {
		return nil
	}

	var err error
	switch event.Type {
	case EventTypeView:
		err = s.storyService.RecordView(ctx, event.StoryID, event.ViewerKey)
	case EventTypeShare:
		err = s.storyService.RecordShare(ctx, event.StoryID)
	default:
		log.Warn("unknown reader event type", "type", event.Type)
		return nil
	}

	// 下架/已删除的作品事件照常丢弃
	if errors.Is(err, service.ErrStoryNotFound) || errors.Is(err, service.ErrStoryNotPublished) {
		return nil
	}
	return err
}
