package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 档位名称固定集合
const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPremium = "premium"
)

// FeatureList 功能列表，JSON 列存储，保持顺序
type FeatureList []string

func (f FeatureList) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (f *FeatureList) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported type for FeatureList: %T", value)
	}
}

// SubscriptionTier 订阅档位，静态参考数据，由 provision 创建，运行期只读
type SubscriptionTier struct {
	ID           int64       `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:20;uniqueIndex;not null" json:"name"` // free, basic, premium
	DisplayName  string      `gorm:"size:50;not null" json:"display_name"`
	Price        float64     `gorm:"type:decimal(10,2)" json:"price"`
	MonthlyLimit int         `gorm:"not null" json:"monthly_limit"`
	DailyLimit   int         `gorm:"not null" json:"daily_limit"`
	Features     FeatureList `gorm:"type:json" json:"features"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (SubscriptionTier) TableName() string {
	return "subscription_tiers"
}
