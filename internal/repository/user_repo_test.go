package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/lingo_go_server/internal/testutil"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db, testutil.WithUsername("alice"))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got, err = repo.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db, testutil.WithEmail("alice@example.com"))

	got, err := repo.GetByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestUserRepository_ExistsChecks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db,
		testutil.WithUsername("bob"),
		testutil.WithEmail("bob@example.com"),
	)

	exists, err := repo.ExistsByUsername("bob")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail("bob@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername("nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}

// 同一天内 ApplyUsage 是相对自增
func TestUserRepository_ApplyUsage_SameDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	user := testutil.TestUser(t, db, testutil.WithUsageDates(2, 10, today, today))

	require.NoError(t, repo.ApplyUsage(user.ID, today, monthStart))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.DailyUsed)
	assert.Equal(t, 11, got.MonthlyUsed)
}

// 跨天：日计数落 1，月计数不受影响
func TestUserRepository_ApplyUsage_NewDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	yesterday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	user := testutil.TestUser(t, db, testutil.WithUsageDates(5, 10, yesterday, yesterday))

	require.NoError(t, repo.ApplyUsage(user.ID, today, monthStart))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DailyUsed)
	assert.Equal(t, 11, got.MonthlyUsed)
}

// 跨月：两个计数都落 1，日期字段同步刷新
func TestUserRepository_ApplyUsage_NewMonth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	lastMonth := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	user := testutil.TestUser(t, db, testutil.WithUsageDates(3, 40, lastMonth, lastMonth))

	require.NoError(t, repo.ApplyUsage(user.ID, today, monthStart))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DailyUsed)
	assert.Equal(t, 1, got.MonthlyUsed)
	require.NotNil(t, got.LastTranslationDate)
	assert.Equal(t, "2025-06-01", got.LastTranslationDate.Format("2006-01-02"))
	require.NotNil(t, got.LastMonthlyReset)
	assert.Equal(t, "2025-06-01", got.LastMonthlyReset.Format("2006-01-02"))
}

// 日期字段为空的新用户：首次记量两个计数都落 1
func TestUserRepository_ApplyUsage_FreshUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	user := testutil.TestUser(t, db)

	require.NoError(t, repo.ApplyUsage(user.ID, today, monthStart))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.DailyUsed)
	assert.Equal(t, 1, got.MonthlyUsed)
}

func TestUserRepository_UpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	require.NoError(t, repo.UpdateFields(user.ID, map[string]interface{}{
		"is_subscription_active": true,
		"daily_used":             0,
	}))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSubscriptionActive)
}
