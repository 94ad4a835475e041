package repository

import (
	"context"
	"errors"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Record(ctx context.Context, entry *domain.AuditLog) error
	ListByEntity(ctx context.Context, entity, entityID string) ([]domain.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Record(ctx context.Context, entry *domain.AuditLog) error {
	if entry == nil {
		return errors.New("nil audit entry")
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return translate(err, "record audit")
	}
	return nil
}

// ListByEntity returns entries oldest first.
func (r *auditRepository) ListByEntity(ctx context.Context, entity, entityID string) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, translate(err, "list audit")
	}
	return entries, nil
}
