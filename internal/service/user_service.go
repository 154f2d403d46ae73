package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	userRepo *repository.UserRepository
	quota    *QuotaService
}

func NewUserService(userRepo *repository.UserRepository, quota *QuotaService) *UserService {
	return &UserService{
		userRepo: userRepo,
		quota:    quota,
	}
}

// GetProfile 用户资料，订阅块带生效档位和按当前时刻换算后的用量
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tier, err := s.quota.EffectiveTier(user)
	if err != nil {
		return nil, err
	}

	// 展示用的跨天/跨月归零只发生在内存里
	s.quota.resetIfNeeded(user, time.Now())

	info := buildUserInfo(user)
	sub := &dto.SubscriptionInfo{
		Tier:            tier.Name,
		TierDisplayName: tier.DisplayName,
		IsActive:        user.IsSubscriptionActive,
		Usage: &dto.UsageInfo{
			DailyUsed:    user.DailyUsed,
			MonthlyUsed:  user.MonthlyUsed,
			DailyLimit:   tier.DailyLimit,
			MonthlyLimit: tier.MonthlyLimit,
		},
	}
	if user.SubscriptionStart != nil {
		sub.StartDate = user.SubscriptionStart.Format("2006-01-02")
	}
	if user.SubscriptionEnd != nil {
		sub.EndDate = user.SubscriptionEnd.Format("2006-01-02")
	}
	info.Subscription = sub

	return info, nil
}

// UpdateProfile 更新用户名/昵称
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameExists
		}
		user.Username = *req.Username
	}
	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return buildUserInfo(user), nil
}
