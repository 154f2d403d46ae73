package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/model"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/repository"
	"github.com/qs3c/lingo_go_server/internal/testutil"
)

func setupTierService(t *testing.T) (*TierService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	userRepo := repository.NewUserRepository(db)
	tierRepo := repository.NewTierRepository(db)
	quota := NewQuotaService(userRepo, tierRepo, &config.Config{})
	service := NewTierService(tierRepo, userRepo, quota)

	return service, db
}

func TestTierService_Provision_CreatesDefaults(t *testing.T) {
	service, db := setupTierService(t)

	require.NoError(t, service.Provision(nil))

	var tiers []*model.SubscriptionTier
	require.NoError(t, db.Order("price asc").Find(&tiers).Error)
	require.Len(t, tiers, 3)

	assert.Equal(t, model.TierFree, tiers[0].Name)
	assert.Equal(t, 0.0, tiers[0].Price)
	assert.Equal(t, 5, tiers[0].DailyLimit)
	assert.Equal(t, 50, tiers[0].MonthlyLimit)

	assert.Equal(t, model.TierBasic, tiers[1].Name)
	assert.Equal(t, 9.99, tiers[1].Price)
	assert.Equal(t, 50, tiers[1].DailyLimit)
	assert.Equal(t, 500, tiers[1].MonthlyLimit)

	assert.Equal(t, model.TierPremium, tiers[2].Name)
	assert.Equal(t, 19.99, tiers[2].Price)
	assert.Equal(t, 200, tiers[2].DailyLimit)
	assert.Equal(t, 2000, tiers[2].MonthlyLimit)
}

// Provision 是幂等的：已有档位不会被默认值覆盖
func TestTierService_Provision_DoesNotOverwrite(t *testing.T) {
	service, db := setupTierService(t)

	require.NoError(t, service.Provision(nil))

	// 运营手动调过价
	require.NoError(t, db.Model(&model.SubscriptionTier{}).
		Where("name = ?", model.TierBasic).
		Update("price", 14.99).Error)

	require.NoError(t, service.Provision(nil))

	var basic model.SubscriptionTier
	require.NoError(t, db.Where("name = ?", model.TierBasic).First(&basic).Error)
	assert.Equal(t, 14.99, basic.Price)

	// 也没有产生重复行
	var count int64
	db.Model(&model.SubscriptionTier{}).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestTierService_Provision_CustomTiers(t *testing.T) {
	service, db := setupTierService(t)

	err := service.Provision([]config.TierConfig{
		{Name: model.TierFree, DisplayName: "Free", Price: 0, MonthlyLimit: 100, DailyLimit: 10},
	})
	require.NoError(t, err)

	var free model.SubscriptionTier
	require.NoError(t, db.Where("name = ?", model.TierFree).First(&free).Error)
	assert.Equal(t, 10, free.DailyLimit)
	assert.Equal(t, 100, free.MonthlyLimit)
}

func TestTierService_ListForUser(t *testing.T) {
	service, db := setupTierService(t)

	require.NoError(t, service.Provision(nil))

	var basic model.SubscriptionTier
	require.NoError(t, db.Where("name = ?", model.TierBasic).First(&basic).Error)

	user := testutil.TestUser(t, db,
		testutil.WithTier(basic.ID, true),
		testutil.WithUsage(3, 20),
	)

	resp, err := service.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Tiers, 3)
	assert.Equal(t, model.TierBasic, resp.CurrentTier)
	assert.Equal(t, 3, resp.Usage.DailyUsed)
	assert.Equal(t, 20, resp.Usage.MonthlyUsed)
	assert.Equal(t, 50, resp.Usage.DailyLimit)
	assert.Equal(t, 500, resp.Usage.MonthlyLimit)
}

func TestTierService_ListForUser_NoSubscription(t *testing.T) {
	service, db := setupTierService(t)

	require.NoError(t, service.Provision(nil))
	user := testutil.TestUser(t, db)

	resp, err := service.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TierFree, resp.CurrentTier)
	assert.Equal(t, 5, resp.Usage.DailyLimit)
}

// 改价格/限额必须走显式更新接口
func TestTierService_UpdateTier(t *testing.T) {
	service, db := setupTierService(t)

	require.NoError(t, service.Provision(nil))

	var basic model.SubscriptionTier
	require.NoError(t, db.Where("name = ?", model.TierBasic).First(&basic).Error)

	price := 12.99
	dailyLimit := 60
	info, err := service.UpdateTier(basic.ID, &dto.UpdateTierRequest{
		Price:      &price,
		DailyLimit: &dailyLimit,
	})
	require.NoError(t, err)
	assert.Equal(t, 12.99, info.Price)
	assert.Equal(t, 60, info.DailyLimit)

	// 未提供的字段保持不变
	assert.Equal(t, 500, info.MonthlyLimit)

	var reloaded model.SubscriptionTier
	require.NoError(t, db.First(&reloaded, basic.ID).Error)
	assert.Equal(t, 12.99, reloaded.Price)
	assert.Equal(t, 60, reloaded.DailyLimit)
}

func TestTierService_UpdateTier_NotFound(t *testing.T) {
	service, _ := setupTierService(t)

	price := 12.99
	_, err := service.UpdateTier(9999, &dto.UpdateTierRequest{Price: &price})
	assert.ErrorIs(t, err, ErrTierNotFound)
}
