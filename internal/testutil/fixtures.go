package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestTier 创建测试档位
func TestTier(t *testing.T, db *gorm.DB, name string, dailyLimit, monthlyLimit int, opts ...func(*model.SubscriptionTier)) *model.SubscriptionTier {
	t.Helper()

	tier := &model.SubscriptionTier{
		Name:         name,
		DisplayName:  name,
		Price:        9.99,
		DailyLimit:   dailyLimit,
		MonthlyLimit: monthlyLimit,
		Features:     model.FeatureList{"feature_a"},
	}
	if name == model.TierFree {
		tier.Price = 0
	}

	for _, opt := range opts {
		opt(tier)
	}

	if err := db.Create(tier).Error; err != nil {
		t.Fatalf("Failed to create test tier: %v", err)
	}

	return tier
}

// WithPrice 设置档位价格
func WithPrice(price float64) func(*model.SubscriptionTier) {
	return func(tier *model.SubscriptionTier) {
		tier.Price = price
	}
}

// WithDisplayName 设置档位展示名
func WithDisplayName(name string) func(*model.SubscriptionTier) {
	return func(tier *model.SubscriptionTier) {
		tier.DisplayName = name
	}
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d_%d@example.com", time.Now().UnixNano(), seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d_%d", time.Now().UnixNano()%100000, seq),
		Email:        &email,
		PasswordHash: &passwordHash,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithTier 设置订阅档位
func WithTier(tierID int64, active bool) func(*model.User) {
	return func(u *model.User) {
		u.SubscriptionTierID = &tierID
		u.IsSubscriptionActive = active
	}
}

// WithUsage 设置已用配额，日期字段取今天
func WithUsage(daily, monthly int) func(*model.User) {
	return func(u *model.User) {
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		u.DailyUsed = daily
		u.MonthlyUsed = monthly
		u.LastTranslationDate = &today
		u.LastMonthlyReset = &today
	}
}

// WithUsageDates 设置已用配额和计数日期，跨天/跨月场景用
func WithUsageDates(daily, monthly int, lastDaily, lastMonthly time.Time) func(*model.User) {
	return func(u *model.User) {
		u.DailyUsed = daily
		u.MonthlyUsed = monthly
		u.LastTranslationDate = &lastDaily
		u.LastMonthlyReset = &lastMonthly
	}
}

// TestTransaction 创建测试交易
func TestTransaction(t *testing.T, db *gorm.DB, userID, tierID int64, status string, opts ...func(*model.PaymentTransaction)) *model.PaymentTransaction {
	t.Helper()

	txn := &model.PaymentTransaction{
		UserID:             userID,
		SubscriptionTierID: tierID,
		PayPalOrderID:      fmt.Sprintf("ORDER-%d-%d", time.Now().UnixNano(), nextSeq()),
		Amount:             9.99,
		Currency:           "USD",
		Status:             status,
	}

	for _, opt := range opts {
		opt(txn)
	}

	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return txn
}

// WithOrderID 设置 PayPal 订单号
func WithOrderID(orderID string) func(*model.PaymentTransaction) {
	return func(txn *model.PaymentTransaction) {
		txn.PayPalOrderID = orderID
	}
}

// TestProject 创建测试项目
func TestProject(t *testing.T, db *gorm.DB, userID int64, projectID, name string) *model.Project {
	t.Helper()

	project := &model.Project{
		UserID:      userID,
		ProjectID:   projectID,
		ProjectName: name,
		NodesetName: name + "_nodeset",
	}

	if err := db.Create(project).Error; err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}

	return project
}
