package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/blobstore"
	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"github.com/SundayYogurt/bachelor-point/internal/helper"
	"github.com/SundayYogurt/bachelor-point/internal/interfaces"
	"github.com/SundayYogurt/bachelor-point/internal/repository"
	"github.com/SundayYogurt/bachelor-point/pkg/metrics"
	"go.uber.org/zap"
)

type AccountService interface {
	// Auth
	Register(ctx context.Context, input dto.RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, input dto.LoginRequest) (dto.LoginResponse, error)
	CurrentPrincipal(ctx context.Context, claims dto.TokenClaims) (domain.Principal, error)

	// Profile
	GetSelf(ctx context.Context, p domain.Principal) (*domain.Account, error)
	UpdateProfile(ctx context.Context, p domain.Principal, input dto.UpdateProfileRequest) (*domain.Account, error)

	// Admin
	Approve(ctx context.Context, actor domain.Principal, studentID string) error
	Ban(ctx context.Context, actor domain.Principal, studentID string) error
	Promote(ctx context.Context, actor domain.Principal, studentID string) error
	ListAll(ctx context.Context, actor domain.Principal) ([]domain.Account, error)
	Delete(ctx context.Context, actor domain.Principal, studentID string) error
	History(ctx context.Context, actor domain.Principal, studentID string) ([]domain.AuditLog, error)
	BootstrapAdmin(ctx context.Context, studentID string) error
}

type accountService struct {
	repo     repository.AccountRepository
	audit    repository.AuditRepository
	store    interfaces.BlobStore
	producer interfaces.ProducerHandler
	auth     helper.Auth
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewAccountService(
	repo repository.AccountRepository,
	audit repository.AuditRepository,
	store interfaces.BlobStore,
	producer interfaces.ProducerHandler,
	auth helper.Auth,
	logger *zap.Logger,
	m *metrics.Metrics,
) AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &accountService{
		repo:     repo,
		audit:    audit,
		store:    store,
		producer: producer,
		auth:     auth,
		logger:   logger.Named("accounts"),
		metrics:  m,
	}
}

func (s *accountService) Register(ctx context.Context, input dto.RegisterRequest) (*domain.Account, error) {
	studentID := strings.TrimSpace(input.StudentID)
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	gender := helper.NormalizeGender(input.Gender)
	if studentID == "" || name == "" || email == "" || gender == "" ||
		strings.TrimSpace(input.Password) == "" || strings.TrimSpace(input.IdentityDocument) == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}
	if strings.Contains(studentID, "@") {
		return nil, fmt.Errorf("%w: student id must not contain @", domain.ErrValidation)
	}

	hashed, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	ref, err := s.store.Store(ctx, input.IdentityDocument, blobstore.IdentityDocuments)
	if err != nil {
		return nil, asValidation(err, "identity document")
	}

	account := &domain.Account{
		StudentID:        studentID,
		Name:             name,
		Email:            email,
		PasswordHash:     hashed,
		Gender:           gender,
		IdentityDocument: ref,
		Role:             domain.RoleUser,
		Status:           domain.StatusPending,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		compensate(ctx, s.store, s.metrics, s.logger, "register", ref)
		return nil, err
	}

	s.logger.Info("account registered", zap.String("student_id", studentID))
	publish(s.producer, s.logger, domain.EventAccountRegistered, dto.AccountEvent{
		Event:      domain.EventAccountRegistered,
		StudentID:  account.StudentID,
		Name:       account.Name,
		Email:      account.Email,
		Role:       account.Role,
		Status:     account.Status,
		OccurredAt: time.Now().UTC(),
	})
	return account, nil
}

func (s *accountService) Login(ctx context.Context, input dto.LoginRequest) (dto.LoginResponse, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return dto.LoginResponse{}, fmt.Errorf("%w: identifier and password are required", domain.ErrValidation)
	}

	var (
		account *domain.Account
		err     error
	)
	if strings.Contains(identifier, "@") {
		account, err = s.repo.FindByEmail(ctx, strings.ToLower(identifier))
	} else {
		account, err = s.repo.FindByStudentID(ctx, identifier)
	}
	if err != nil {
		return dto.LoginResponse{}, err
	}

	if err := s.auth.VerifyPassword(input.Password, account.PasswordHash); err != nil {
		return dto.LoginResponse{}, err
	}

	token, err := s.auth.GenerateToken(account.Principal())
	if err != nil {
		return dto.LoginResponse{}, err
	}
	return dto.LoginResponse{
		Token:   token,
		Account: dto.ToAccountResponse(account),
	}, nil
}

// CurrentPrincipal reloads the account a verified token names so that role
// and status changes apply to tokens issued before them.
func (s *accountService) CurrentPrincipal(ctx context.Context, claims dto.TokenClaims) (domain.Principal, error) {
	account, err := s.repo.FindByStudentID(ctx, claims.StudentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, fmt.Errorf("%w: account no longer exists", domain.ErrUnauthorized)
		}
		return domain.Principal{}, err
	}
	return account.Principal(), nil
}

func (s *accountService) GetSelf(ctx context.Context, p domain.Principal) (*domain.Account, error) {
	return s.repo.FindByStudentID(ctx, p.StudentID)
}

func (s *accountService) UpdateProfile(ctx context.Context, p domain.Principal, input dto.UpdateProfileRequest) (*domain.Account, error) {
	bio := strings.TrimSpace(input.Bio)
	if bio == "" || strings.TrimSpace(input.Photo) == "" {
		return nil, fmt.Errorf("%w: bio and photo are required", domain.ErrValidation)
	}

	ref, err := s.store.Store(ctx, input.Photo, blobstore.ProfilePhotos)
	if err != nil {
		return nil, asValidation(err, "photo")
	}

	if err := s.repo.UpdateProfile(ctx, p.StudentID, bio, ref); err != nil {
		compensate(ctx, s.store, s.metrics, s.logger, "update_profile", ref)
		return nil, err
	}
	return s.repo.FindByStudentID(ctx, p.StudentID)
}

func (s *accountService) Approve(ctx context.Context, actor domain.Principal, studentID string) error {
	return s.changeAccess(ctx, actor, studentID, domain.EventAccountApproved, map[string]any{
		"status": domain.StatusApproved,
	})
}

// Ban revokes approval and any admin role.
func (s *accountService) Ban(ctx context.Context, actor domain.Principal, studentID string) error {
	return s.changeAccess(ctx, actor, studentID, domain.EventAccountBanned, map[string]any{
		"status": domain.StatusPending,
		"role":   domain.RoleUser,
	})
}

func (s *accountService) Promote(ctx context.Context, actor domain.Principal, studentID string) error {
	return s.changeAccess(ctx, actor, studentID, domain.EventAccountPromoted, map[string]any{
		"role": domain.RoleAdmin,
	})
}

func (s *accountService) changeAccess(ctx context.Context, actor domain.Principal, studentID, event string, fields map[string]any) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	account, err := s.repo.FindByStudentID(ctx, studentID)
	if err != nil {
		return err
	}

	changed := false
	if v, ok := fields["status"].(string); ok && v != account.Status {
		account.Status = v
		changed = true
	}
	if v, ok := fields["role"].(string); ok && v != account.Role {
		account.Role = v
		changed = true
	}
	// repeating an action is a no-op, including the event
	if !changed {
		return nil
	}

	if err := s.repo.UpdateAccess(ctx, studentID, fields); err != nil {
		return err
	}
	s.record(ctx, actor.StudentID, event, studentID)
	s.logger.Info("account access changed",
		zap.String("event", event),
		zap.String("student_id", studentID),
		zap.String("actor", actor.StudentID),
	)
	publish(s.producer, s.logger, event, dto.AccountEvent{
		Event:      event,
		StudentID:  account.StudentID,
		Name:       account.Name,
		Email:      account.Email,
		Role:       account.Role,
		Status:     account.Status,
		ActorID:    actor.StudentID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *accountService) ListAll(ctx context.Context, actor domain.Principal) ([]domain.Account, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.repo.ListAccounts(ctx)
}

// Delete removes the row only; stored blobs and listings are left in place.
func (s *accountService) Delete(ctx context.Context, actor domain.Principal, studentID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.DeleteAccount(ctx, studentID); err != nil {
		return err
	}
	s.record(ctx, actor.StudentID, domain.EventAccountDeleted, studentID)
	s.logger.Info("account deleted", zap.String("student_id", studentID), zap.String("actor", actor.StudentID))
	publish(s.producer, s.logger, domain.EventAccountDeleted, dto.AccountEvent{
		Event:      domain.EventAccountDeleted,
		StudentID:  studentID,
		ActorID:    actor.StudentID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *accountService) BootstrapAdmin(ctx context.Context, studentID string) error {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil
	}
	if err := s.repo.UpdateAccess(ctx, studentID, map[string]any{
		"role":   domain.RoleAdmin,
		"status": domain.StatusApproved,
	}); err != nil {
		return fmt.Errorf("bootstrap admin %s: %w", studentID, err)
	}
	s.record(ctx, "system", domain.EventAccountPromoted, studentID)
	s.logger.Info("bootstrap admin ensured", zap.String("student_id", studentID))
	return nil
}

// History lists the admin actions taken against an account.
func (s *accountService) History(ctx context.Context, actor domain.Principal, studentID string) ([]domain.AuditLog, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if s.audit == nil {
		return []domain.AuditLog{}, nil
	}
	return s.audit.ListByEntity(ctx, domain.EntityAccount, studentID)
}

// record is best-effort; the admin action has already been applied.
func (s *accountService) record(ctx context.Context, actorID, action, studentID string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, &domain.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   domain.EntityAccount,
		EntityID: studentID,
	})
	if err != nil {
		s.logger.Warn("audit record failed", zap.String("action", action), zap.String("student_id", studentID), zap.Error(err))
	}
}

func requireAdmin(actor domain.Principal) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	return nil
}
