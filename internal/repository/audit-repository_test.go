package repository

import (
	"context"
	"testing"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepository(t *testing.T) {
	repo := NewAuditRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, &domain.AuditLog{ActorID: "admin", Action: domain.EventAccountApproved, Entity: domain.EntityAccount, EntityID: "s1"}))
	require.NoError(t, repo.Record(ctx, &domain.AuditLog{ActorID: "admin", Action: domain.EventAccountBanned, Entity: domain.EntityAccount, EntityID: "s1"}))
	require.NoError(t, repo.Record(ctx, &domain.AuditLog{ActorID: "admin", Action: domain.EventAccountApproved, Entity: domain.EntityAccount, EntityID: "s2"}))

	entries, err := repo.ListByEntity(ctx, domain.EntityAccount, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EventAccountApproved, entries[0].Action)
	assert.Equal(t, domain.EventAccountBanned, entries[1].Action)
	assert.False(t, entries[0].CreatedAt.IsZero())

	none, err := repo.ListByEntity(ctx, domain.EntityAccount, "s9")
	require.NoError(t, err)
	assert.Empty(t, none)
}
