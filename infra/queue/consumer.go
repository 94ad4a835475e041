package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/interfaces"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
	logger      *zap.Logger
}

func NewKafkaConsumer(broker, topic, groupID, username, password, serviceName string, handler interfaces.ConsumerHandler, logger *zap.Logger) *KafkaConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
		Dialer:   dialer,
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: serviceName,
		logger:      logger.With(zap.String("service", serviceName)),
	}
}

// Listen blocks until ctx is cancelled. Handler errors are logged and the
// message is committed anyway.
func (kc *KafkaConsumer) Listen(ctx context.Context) error {
	defer kc.Reader.Close()
	for {
		msg, err := kc.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			kc.logger.Error("read message", zap.Error(err))
			continue
		}

		kc.logger.Debug("received message", zap.ByteString("key", msg.Key), zap.Int64("offset", msg.Offset))

		if err := kc.Handler.HandleMessage(string(msg.Value)); err != nil {
			kc.logger.Error("handle message", zap.ByteString("key", msg.Key), zap.Error(err))
		}
	}
}
