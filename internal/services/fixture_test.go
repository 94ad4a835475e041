package services

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SundayYogurt/bachelor-point/internal/blobstore"
	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"github.com/SundayYogurt/bachelor-point/internal/helper"
	"github.com/SundayYogurt/bachelor-point/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "s3cret-pass"

type fixture struct {
	fs       afero.Fs
	store    *blobstore.Store
	accounts repository.AccountRepository
	audit    repository.AuditRepository
	listings repository.ListingRepository
	producer *recordingProducer
	auth     helper.Auth

	accountSvc AccountService
	listingSvc ListingService
	contactSvc ContactService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "services.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}, &domain.Listing{}, &domain.AuditLog{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		fs:       afero.NewMemMapFs(),
		accounts: repository.NewAccountRepository(db),
		audit:    repository.NewAuditRepository(db),
		listings: repository.NewListingRepository(db),
		producer: &recordingProducer{},
		auth:     helper.SetupAuth("test-secret", time.Hour),
	}
	f.store = blobstore.New(f.fs, nil, nil)
	f.accountSvc = NewAccountService(f.accounts, f.audit, f.store, f.producer, f.auth, nil, nil)
	f.listingSvc = NewListingService(f.listings, f.store, nil, f.producer, nil, nil, ListingOptions{})
	f.contactSvc = NewContactService(f.accounts, f.listings, nil)
	return f
}

func image(content string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(content))
}

func registerRequest(id, email, gender string) dto.RegisterRequest {
	return dto.RegisterRequest{
		StudentID:        id,
		Name:             "Student " + id,
		Email:            email,
		Password:         testPassword,
		Gender:           gender,
		IdentityDocument: image("id card of " + id),
	}
}

func listingRequest(images ...string) dto.ListingRequest {
	return dto.ListingRequest{
		Title:         "Room near campus",
		Description:   "Quiet room with a desk",
		AvailableFrom: "2026-02-01",
		Gender:        "Female",
		Rent:          3500,
		Location:      "North gate",
		Images:        images,
	}
}

// register creates an account and optionally approves it directly in the repository.
func (f *fixture) register(t *testing.T, id, gender string, approved bool) domain.Principal {
	t.Helper()
	ctx := context.Background()
	account, err := f.accountSvc.Register(ctx, registerRequest(id, id+"@uni.test", gender))
	require.NoError(t, err)
	if approved {
		require.NoError(t, f.accounts.UpdateAccess(ctx, id, map[string]any{"status": domain.StatusApproved}))
		account.Status = domain.StatusApproved
	}
	return account.Principal()
}

func (f *fixture) admin(t *testing.T, id string) domain.Principal {
	t.Helper()
	p := f.register(t, id, "male", true)
	require.NoError(t, f.accounts.UpdateAccess(context.Background(), id, map[string]any{"role": domain.RoleAdmin}))
	p.Role = domain.RoleAdmin
	return p
}

func countBlobs(t *testing.T, fs afero.Fs, ns blobstore.Namespace) int {
	t.Helper()
	entries, err := afero.ReadDir(fs, ns.String())
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}
