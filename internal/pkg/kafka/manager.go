package kafka

import (
	"Inkstone/internal/api/config"
	"Inkstone/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	readerEventConsumer sarama.ConsumerGroup
	readerEventHandler  sarama.ConsumerGroupHandler
}

func NewConsumerManager(cfg *config.Config, storyService service.StoryService) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	readerEventConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaReaderConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		readerEventConsumer: readerEventConsumer,
		readerEventHandler:  NewReaderEventHandler(storyService),
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaReaderConsumer.Topic
		log.Info("Reader event consumer started", "topic", topic)
		for {
			if err := m.readerEventConsumer.Consume(ctx, []string{topic}, m.readerEventHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.readerEventConsumer.Close(); err != nil {
		log.Error("Failed to close reader event consumer", "err", err)
	}
	return nil
}
