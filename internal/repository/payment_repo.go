package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(txn *model.PaymentTransaction) error {
	return r.db.Create(txn).Error
}

func (r *PaymentRepository) GetByOrderID(orderID string) (*model.PaymentTransaction, error) {
	var txn model.PaymentTransaction
	err := r.db.Where("paypal_order_id = ?", orderID).First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *PaymentRepository) ListByUser(userID int64) ([]*model.PaymentTransaction, error) {
	var txns []*model.PaymentTransaction
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&txns).Error
	return txns, err
}
