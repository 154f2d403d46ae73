package service

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/model"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/repository"
)

var ErrTierNotFound = errors.New("tier not found")

type TierService struct {
	tierRepo *repository.TierRepository
	userRepo *repository.UserRepository
	quota    *QuotaService
}

func NewTierService(tierRepo *repository.TierRepository, userRepo *repository.UserRepository, quota *QuotaService) *TierService {
	return &TierService{
		tierRepo: tierRepo,
		userRepo: userRepo,
		quota:    quota,
	}
}

// DefaultTiers 内置档位数据，config 未提供 tiers 时使用
func DefaultTiers() []config.TierConfig {
	return []config.TierConfig{
		{
			Name: model.TierFree, DisplayName: "Free", Price: 0.00,
			MonthlyLimit: 50, DailyLimit: 5,
			Features: []string{
				"Basic translation",
				"Limited vocabulary tracking",
				"Community support",
			},
		},
		{
			Name: model.TierBasic, DisplayName: "Basic", Price: 9.99,
			MonthlyLimit: 500, DailyLimit: 50,
			Features: []string{
				"Advanced translation",
				"Unlimited vocabulary tracking",
				"Priority support",
				"Export vocabulary lists",
				"Learning analytics",
			},
		},
		{
			Name: model.TierPremium, DisplayName: "Premium", Price: 19.99,
			MonthlyLimit: 2000, DailyLimit: 200,
			Features: []string{
				"Advanced translation with context",
				"Unlimited vocabulary tracking",
				"Priority support",
				"Export vocabulary lists",
				"Advanced learning analytics",
				"Custom study schedules",
				"Offline mode support",
				"Multiple language pairs",
			},
		},
	}
}

// Provision 启动时一次性写入档位参考数据，幂等：
// 已存在的档位不会被 defaults 覆盖
func (s *TierService) Provision(tiers []config.TierConfig) error {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}

	for _, tc := range tiers {
		defaults := &model.SubscriptionTier{
			DisplayName:  tc.DisplayName,
			Price:        tc.Price,
			MonthlyLimit: tc.MonthlyLimit,
			DailyLimit:   tc.DailyLimit,
			Features:     model.FeatureList(tc.Features),
		}
		_, created, err := s.tierRepo.GetOrCreate(tc.Name, defaults)
		if err != nil {
			return err
		}
		if created {
			log.Printf("Created subscription tier %q", tc.Name)
		}
	}
	return nil
}

// ListForUser 档位目录 + 调用者当前档位与用量
func (s *TierService) ListForUser(userID int64) (*dto.TierListResponse, error) {
	tiers, err := s.tierRepo.List()
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	current, err := s.quota.EffectiveTier(user)
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.TierInfo, 0, len(tiers))
	for _, t := range tiers {
		infos = append(infos, buildTierInfo(t))
	}

	return &dto.TierListResponse{
		Tiers:       infos,
		CurrentTier: current.Name,
		Usage: &dto.UsageInfo{
			DailyUsed:    user.DailyUsed,
			MonthlyUsed:  user.MonthlyUsed,
			DailyLimit:   current.DailyLimit,
			MonthlyLimit: current.MonthlyLimit,
		},
	}, nil
}

// UpdateTier 显式修改档位；GetOrCreate 对已有行是静默 no-op，
// 改价格/限额必须走这里
func (s *TierService) UpdateTier(tierID int64, req *dto.UpdateTierRequest) (*dto.TierInfo, error) {
	tier, err := s.tierRepo.GetByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}

	if req.DisplayName != nil {
		tier.DisplayName = *req.DisplayName
	}
	if req.Price != nil {
		tier.Price = *req.Price
	}
	if req.MonthlyLimit != nil {
		tier.MonthlyLimit = *req.MonthlyLimit
	}
	if req.DailyLimit != nil {
		tier.DailyLimit = *req.DailyLimit
	}
	if req.Features != nil {
		tier.Features = model.FeatureList(req.Features)
	}

	if err := s.tierRepo.Update(tier); err != nil {
		return nil, err
	}

	return buildTierInfo(tier), nil
}

func buildTierInfo(t *model.SubscriptionTier) *dto.TierInfo {
	return &dto.TierInfo{
		ID:           t.ID,
		Name:         t.Name,
		DisplayName:  t.DisplayName,
		Price:        t.Price,
		MonthlyLimit: t.MonthlyLimit,
		DailyLimit:   t.DailyLimit,
		Features:     []string(t.Features),
	}
}
