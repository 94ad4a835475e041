package services

import (
	"context"
	"sync"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepository) FindByStudentID(ctx context.Context, studentID string) (*domain.Account, error) {
	args := m.Called(ctx, studentID)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *mockAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*domain.Account)
	return a, args.Error(1)
}

func (m *mockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).([]domain.Account)
	return a, args.Error(1)
}

func (m *mockAccountRepository) UpdateProfile(ctx context.Context, studentID, bio, photo string) error {
	return m.Called(ctx, studentID, bio, photo).Error(0)
}

func (m *mockAccountRepository) UpdateAccess(ctx context.Context, studentID string, fields map[string]any) error {
	return m.Called(ctx, studentID, fields).Error(0)
}

func (m *mockAccountRepository) DeleteAccount(ctx context.Context, studentID string) error {
	return m.Called(ctx, studentID).Error(0)
}

type mockListingRepository struct {
	mock.Mock
}

func (m *mockListingRepository) CreateListing(ctx context.Context, listing *domain.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *mockListingRepository) ListListings(ctx context.Context) ([]domain.Listing, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]domain.Listing)
	return l, args.Error(1)
}

func (m *mockListingRepository) FindListingByID(ctx context.Context, id uint) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*domain.Listing)
	return l, args.Error(1)
}

func (m *mockListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	args := m.Called(ctx, ownerID)
	l, _ := args.Get(0).([]domain.Listing)
	return l, args.Error(1)
}

func (m *mockListingRepository) UpdateOwned(ctx context.Context, listing *domain.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *mockListingRepository) DeleteListing(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockListingRepository) DeleteOwned(ctx context.Context, id uint, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type mockListingCache struct {
	mock.Mock
}

func (m *mockListingCache) GetListing(ctx context.Context, id uint) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*domain.Listing)
	return l, args.Error(1)
}

func (m *mockListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *mockListingCache) DeleteListing(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// recordingProducer keeps every published event key.
type recordingProducer struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingProducer) PublishMessage(key, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, string(key))
	return nil
}

func (p *recordingProducer) Count(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, k := range p.keys {
		if k == key {
			n++
		}
	}
	return n
}
