package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/interfaces"
	"github.com/SundayYogurt/bachelor-point/pkg/metrics"
	"go.uber.org/zap"
)

// compensate removes blobs written by an operation whose dependent write failed.
func compensate(ctx context.Context, store interfaces.BlobStore, m *metrics.Metrics, logger *zap.Logger, op string, refs ...string) {
	if len(refs) == 0 {
		return
	}
	for _, ref := range refs {
		store.Remove(ctx, ref)
	}
	m.ObserveCompensation(op, len(refs))
	logger.Warn("compensating blob delete", zap.String("operation", op), zap.Strings("refs", refs))
}

// publish never fails the calling operation.
func publish(producer interfaces.ProducerHandler, logger *zap.Logger, key string, payload any) {
	if producer == nil {
		return
	}
	value, err := json.Marshal(payload)
	if err != nil {
		logger.Error("marshal event", zap.String("event", key), zap.Error(err))
		return
	}
	if err := producer.PublishMessage([]byte(key), value); err != nil {
		logger.Warn("publish event", zap.String("event", key), zap.Error(err))
	}
}

// asValidation turns a malformed image payload into a client error.
func asValidation(err error, field string) error {
	if errors.Is(err, domain.ErrDecode) {
		return fmt.Errorf("%w: %s is not a valid base64 image", domain.ErrValidation, field)
	}
	return err
}
