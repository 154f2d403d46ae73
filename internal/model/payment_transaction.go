package model

import (
	"time"
)

// 交易状态，pending 只能到 completed 或 failed，终态后不可复用
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"
	TxStatusRefunded  = "refunded"
)

// PaymentTransaction PayPal 支付交易。user_id 仅建索引不做外键级联，
// 账号删除后交易记录保留用于审计。
type PaymentTransaction struct {
	ID                 int64  `gorm:"primaryKey" json:"id"`
	UserID             int64  `gorm:"not null;index" json:"user_id"`
	SubscriptionTierID int64  `gorm:"not null;index" json:"subscription_tier_id"`
	PayPalOrderID      string `gorm:"column:paypal_order_id;size:255;uniqueIndex;not null" json:"paypal_order_id"`

	PayPalCaptureID *string `gorm:"column:paypal_capture_id;size:255" json:"paypal_capture_id,omitempty"`
	PayPalPayerID   *string `gorm:"column:paypal_payer_id;size:255" json:"paypal_payer_id,omitempty"`

	Amount   float64 `gorm:"type:decimal(10,2)" json:"amount"`
	Currency string  `gorm:"size:3;default:USD" json:"currency"`
	Status   string  `gorm:"size:20;default:pending;index" json:"status"`

	IsVerified       bool       `gorm:"default:false" json:"is_verified"`
	VerificationDate *time.Time `json:"verification_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
