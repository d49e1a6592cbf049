package repository

import (
	"context"
	"testing"

	"raspadinha/models"
	"raspadinha/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositRepository_PendingLookup(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	profiles := NewProfileRepository(testDB.DB)
	repo := NewDepositRepository(testDB.DB)
	ctx := context.Background()

	userID := testutil.NewUserID()
	_, err := profiles.Create(ctx, userID, models.RoleUser, 0)
	require.NoError(t, err)

	deposit := testutil.CreateTestDeposit(userID, 5000)
	require.NoError(t, repo.Create(ctx, deposit))
	require.NotEmpty(t, deposit.ID)

	t.Run("pending deposit matches", func(t *testing.T) {
		found, err := repo.GetPendingByExternalRef(ctx, deposit.ExternalRef)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, deposit.ID, found.ID)
		assert.Equal(t, int64(5000), found.Amount)
		assert.Equal(t, models.DepositStatusPending, found.Status)
	})

	t.Run("unknown correlation id matches nothing", func(t *testing.T) {
		found, err := repo.GetPendingByExternalRef(ctx, "dep_ghost_ref")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("terminal deposit no longer matches", func(t *testing.T) {
		applied, err := repo.UpdateStatus(ctx, deposit.ID, models.DepositStatusPending, models.DepositStatusCompleted)
		require.NoError(t, err)
		assert.True(t, applied)

		found, err := repo.GetPendingByExternalRef(ctx, deposit.ExternalRef)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestDepositRepository_UpdateStatus(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	profiles := NewProfileRepository(testDB.DB)
	repo := NewDepositRepository(testDB.DB)
	ctx := context.Background()

	userID := testutil.NewUserID()
	_, err := profiles.Create(ctx, userID, models.RoleUser, 0)
	require.NoError(t, err)

	deposit := testutil.CreateTestDeposit(userID, 2500)
	require.NoError(t, repo.Create(ctx, deposit))

	t.Run("first transition applies", func(t *testing.T) {
		applied, err := repo.UpdateStatus(ctx, deposit.ID, models.DepositStatusPending, models.DepositStatusExpired)
		require.NoError(t, err)
		assert.True(t, applied)

		found, err := repo.GetByID(ctx, deposit.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DepositStatusExpired, found.Status)
	})

	t.Run("replayed transition is a no-op", func(t *testing.T) {
		applied, err := repo.UpdateStatus(ctx, deposit.ID, models.DepositStatusPending, models.DepositStatusExpired)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("transition from wrong source status is refused", func(t *testing.T) {
		applied, err := repo.UpdateStatus(ctx, deposit.ID, models.DepositStatusPending, models.DepositStatusCompleted)
		require.NoError(t, err)
		assert.False(t, applied)

		found, err := repo.GetByID(ctx, deposit.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DepositStatusExpired, found.Status)
	})
}
