package service

import (
	"errors"
	"time"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/model"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/repository"
)

// 配额检查的用户可见消息，前端按原文展示
const (
	MsgDailyLimitReached   = "Daily analysis limit reached. Please upgrade or wait until tomorrow."
	MsgMonthlyLimitReached = "Monthly analysis limit reached. Please upgrade or wait until next month."
	MsgOK                  = "OK"
)

// ErrFreeTierMissing free 档位属于必备参考数据，缺失说明没跑 provision，
// 运行期不做隐式补建
var ErrFreeTierMissing = errors.New("free tier not provisioned")

type QuotaService struct {
	userRepo *repository.UserRepository
	tierRepo *repository.TierRepository
	cfg      *config.Config
}

func NewQuotaService(userRepo *repository.UserRepository, tierRepo *repository.TierRepository, cfg *config.Config) *QuotaService {
	return &QuotaService{
		userRepo: userRepo,
		tierRepo: tierRepo,
		cfg:      cfg,
	}
}

// dateOf 截断到零点，统一 UTC，日期比较只看年月日
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthStartOf 当月第一天零点
func monthStartOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// resetIfNeeded 跨天/跨月时把内存中的计数归零，不落库。
// 月度比较用（年,月）整体判断，同月不同年也会归零。
func (s *QuotaService) resetIfNeeded(user *model.User, now time.Time) {
	today := dateOf(now)

	if user.LastTranslationDate == nil || !user.LastTranslationDate.Equal(today) {
		user.DailyUsed = 0
		user.LastTranslationDate = &today
	}

	if user.LastMonthlyReset == nil ||
		user.LastMonthlyReset.Year() != now.Year() ||
		user.LastMonthlyReset.Month() != now.Month() {
		user.MonthlyUsed = 0
		user.LastMonthlyReset = &today
	}
}

// EffectiveTier 解析生效档位：有档位且订阅激活用订阅档位，否则回落 free
func (s *QuotaService) EffectiveTier(user *model.User) (*model.SubscriptionTier, error) {
	if user.SubscriptionTierID != nil && user.IsSubscriptionActive {
		return s.tierRepo.GetByID(*user.SubscriptionTierID)
	}

	tier, err := s.tierRepo.GetByName(model.TierFree)
	if err != nil {
		return nil, ErrFreeTierMissing
	}
	return tier, nil
}

// CanConsume 判断用户此刻能否执行计量操作。
// 检查用的归零只发生在内存里：被拒绝的请求不写库，
// 放行后由 UseQuota 把归零和 +1 合成一次写入。
func (s *QuotaService) CanConsume(userID int64, now time.Time) (bool, string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return false, "", err
	}

	tier, err := s.EffectiveTier(user)
	if err != nil {
		return false, "", err
	}

	s.resetIfNeeded(user, now)

	if user.DailyUsed >= tier.DailyLimit {
		return false, MsgDailyLimitReached, nil
	}
	if user.MonthlyUsed >= tier.MonthlyLimit {
		return false, MsgMonthlyLimitReached, nil
	}

	return true, MsgOK, nil
}

// UseQuota 记一次用量：归零判断和两个计数的 +1 合成单条原子 UPDATE，
// 计数自增是相对量，并发请求不会互相覆盖
func (s *QuotaService) UseQuota(userID int64, now time.Time) error {
	return s.userRepo.ApplyUsage(userID, dateOf(now), monthStartOf(now))
}

// GetQuotaInfo 获取用户配额信息
func (s *QuotaService) GetQuotaInfo(userID int64, now time.Time) (*dto.QuotaInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	tier, err := s.EffectiveTier(user)
	if err != nil {
		return nil, err
	}

	s.resetIfNeeded(user, now)

	dailyRemain := tier.DailyLimit - user.DailyUsed
	if dailyRemain < 0 {
		dailyRemain = 0
	}
	monthlyRemain := tier.MonthlyLimit - user.MonthlyUsed
	if monthlyRemain < 0 {
		monthlyRemain = 0
	}

	return &dto.QuotaInfo{
		Tier:          tier.Name,
		DailyLimit:    tier.DailyLimit,
		DailyUsed:     user.DailyUsed,
		DailyRemain:   dailyRemain,
		MonthlyLimit:  tier.MonthlyLimit,
		MonthlyUsed:   user.MonthlyUsed,
		MonthlyRemain: monthlyRemain,
	}, nil
}
