package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/helper"
	"gorm.io/gorm"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	FindByStudentID(ctx context.Context, studentID string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateProfile(ctx context.Context, studentID, bio, photo string) error
	UpdateAccess(ctx context.Context, studentID string, fields map[string]any) error
	DeleteAccount(ctx context.Context, studentID string) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	if account == nil {
		return errors.New("nil account")
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return translate(err, "create account")
	}
	return nil
}

func (r *accountRepository) FindByStudentID(ctx context.Context, studentID string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).First(&account, "student_id = ?", studentID).Error; err != nil {
		return nil, translate(err, "find account by student id")
	}
	return &account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		return nil, translate(err, "find account by email")
	}
	return &account, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, translate(err, "list accounts")
	}
	return accounts, nil
}

func (r *accountRepository) UpdateProfile(ctx context.Context, studentID, bio, photo string) error {
	return r.updateAccount(ctx, studentID, map[string]any{
		"bio":           bio,
		"profile_photo": photo,
	}, "update profile")
}

// UpdateAccess changes status and/or role.
func (r *accountRepository) UpdateAccess(ctx context.Context, studentID string, fields map[string]any) error {
	for k := range fields {
		if k != "status" && k != "role" {
			return fmt.Errorf("update access: unexpected field %q", k)
		}
	}
	return r.updateAccount(ctx, studentID, fields, "update access")
}

func (r *accountRepository) updateAccount(ctx context.Context, studentID string, fields map[string]any, op string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("student_id = ?", studentID).
		Updates(fields)
	if res.Error != nil {
		return translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: account %w", op, domain.ErrNotFound)
	}
	return nil
}

func (r *accountRepository) DeleteAccount(ctx context.Context, studentID string) error {
	res := r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&domain.Account{})
	if res.Error != nil {
		return translate(res.Error, "delete account")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete account: %w", domain.ErrNotFound)
	}
	return nil
}

// translate maps driver errors onto the domain taxonomy.
func translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case helper.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
