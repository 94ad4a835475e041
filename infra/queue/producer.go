package queue

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer returns nil when broker is empty; a nil *Producer skips every publish.
func NewProducer(broker, topic, username, password string, logger *zap.Logger) *Producer {
	if broker == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := &kafka.Transport{}
	if username != "" {
		transport.SASL = plain.Mechanism{
			Username: username,
			Password: password,
		}
		transport.TLS = &tls.Config{}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			Async:                  false,
			Transport:              transport,
			WriteTimeout:           10 * time.Second,
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

func (p *Producer) PublishMessage(key, value []byte) error {
	if p == nil || p.writer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Warn("kafka publish failed", zap.ByteString("key", key), zap.Error(err))
	}
	return err
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
