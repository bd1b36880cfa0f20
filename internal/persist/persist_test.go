package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/roguesim/internal/config"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/meta"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("ROGUESIM_TEST_DSN")
	if dsn == "" {
		t.Skip("ROGUESIM_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 4, MaxIdleConns: 1, ConnMaxLifetime: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, RunMigrations(ctx, db))
	return db
}

func TestProfileRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepo(db)

	id := uuid.New()
	_, err := repo.LoadProfile(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, meta.ErrNotFound)

	p := meta.NewProfile(id, data.Default().Heroes)
	p.Coins = 75
	p.HighestChapter = 2
	p.Upgrades[data.UpgradeAttackSpeed] = 3
	p.Unlocked[data.Warrior] = true
	p.SelectedHero = data.Warrior
	p.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.SaveProfile(ctx, p))

	// Saving again replaces child rows instead of duplicating them.
	p.Upgrades[data.UpgradeAttackSpeed] = 4
	require.NoError(t, repo.SaveProfile(ctx, p))

	got, err := repo.LoadProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 75, got.Coins)
	assert.Equal(t, 4, got.Upgrades[data.UpgradeAttackSpeed])
	assert.True(t, got.Unlocked[data.Warrior])
	assert.True(t, got.Unlocked[data.Archer])
	assert.False(t, got.Unlocked[data.Mage])
	assert.Equal(t, data.Warrior, got.SelectedHero)
}

func TestServiceOverPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	svc := meta.NewService(NewStore(db), data.Default(), nil, zap.NewNop())
	id := uuid.New()

	_, err := svc.RecordRunEnd(ctx, &meta.RunRecord{ProfileID: id, Chapter: 1, Hero: data.Archer, Kills: 12, Coins: 40, Seed: 9})
	require.NoError(t, err)
	p, err := svc.PurchaseUpgrade(ctx, id, data.UpgradeMaxHP)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Coins)

	runs, err := svc.RecentRuns(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 12, runs[0].Kills)
	assert.Equal(t, int64(9), runs[0].Seed)
}
