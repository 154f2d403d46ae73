package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/internal/model"
)

type TierRepository struct {
	db *gorm.DB
}

func NewTierRepository(db *gorm.DB) *TierRepository {
	return &TierRepository{db: db}
}

func (r *TierRepository) GetByID(id int64) (*model.SubscriptionTier, error) {
	var tier model.SubscriptionTier
	err := r.db.Where("id = ?", id).First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *TierRepository) GetByName(name string) (*model.SubscriptionTier, error) {
	var tier model.SubscriptionTier
	err := r.db.Where("name = ?", name).First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *TierRepository) List() ([]*model.SubscriptionTier, error) {
	var tiers []*model.SubscriptionTier
	err := r.db.Order("price asc").Find(&tiers).Error
	return tiers, err
}

// GetOrCreate 幂等创建：name 已存在则原样返回，defaults 不同也不更新。
// 修改已有档位走 Update。
func (r *TierRepository) GetOrCreate(name string, defaults *model.SubscriptionTier) (*model.SubscriptionTier, bool, error) {
	existing, err := r.GetByName(name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	tier := *defaults
	tier.Name = name
	if err := r.db.Create(&tier).Error; err != nil {
		// 并发创建撞上唯一索引时读回已有行
		if existing, gerr := r.GetByName(name); gerr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	return &tier, true, nil
}

func (r *TierRepository) Update(tier *model.SubscriptionTier) error {
	return r.db.Save(tier).Error
}
