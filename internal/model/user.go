package model

import (
	"time"
)

type User struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Name         string  `gorm:"size:255" json:"name"`
	Email        *string `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string `gorm:"size:255" json:"-"`
	AvatarURL    string  `gorm:"size:500" json:"avatar_url"`
	GithubID     *string `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`

	// 订阅状态；tier 为空表示隐式 free
	SubscriptionTierID   *int64     `gorm:"index" json:"subscription_tier_id,omitempty"`
	SubscriptionStart    *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd      *time.Time `json:"subscription_end,omitempty"`
	IsSubscriptionActive bool       `gorm:"default:false" json:"is_subscription_active"`

	// 用量计数，只允许 QuotaService 修改
	DailyUsed           int        `gorm:"default:0" json:"daily_used"`
	MonthlyUsed         int        `gorm:"default:0" json:"monthly_used"`
	LastTranslationDate *time.Time `json:"last_translation_date,omitempty"`
	LastMonthlyReset    *time.Time `json:"last_monthly_reset,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
