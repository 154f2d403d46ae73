package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/model"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/pkg/paypal"
	"github.com/qs3c/lingo_go_server/internal/pkg/pubsub"
	"github.com/qs3c/lingo_go_server/internal/repository"
)

var (
	ErrFreeTierNotPurchasable = errors.New("Cannot purchase free tier")
	ErrOrderCreateFailed      = errors.New("Failed to create PayPal order")
	// ErrTransactionNotFound 对调用方不区分"不存在"和"已处理"
	ErrTransactionNotFound = errors.New("Transaction not found or already processed")
	ErrCaptureFailed       = errors.New("Payment capture failed")
)

// 订阅有效期，捕获成功后从当前时间起算
const subscriptionDuration = 30 * 24 * time.Hour

type PaymentService struct {
	db          *gorm.DB
	tierRepo    *repository.TierRepository
	paymentRepo *repository.PaymentRepository
	paypal      *paypal.Client
	publisher   *pubsub.Publisher
	cfg         *config.Config
}

func NewPaymentService(
	db *gorm.DB,
	tierRepo *repository.TierRepository,
	paymentRepo *repository.PaymentRepository,
	paypalClient *paypal.Client,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		db:          db,
		tierRepo:    tierRepo,
		paymentRepo: paymentRepo,
		paypal:      paypalClient,
		publisher:   publisher,
		cfg:         cfg,
	}
}

// CreateOrder 为订阅付款创建 PayPal 订单。
// 供应商调用失败时不落任何行，重试从头开始是安全的。
func (s *PaymentService) CreateOrder(ctx context.Context, userID, tierID int64) (*dto.CreateOrderResponse, error) {
	tier, err := s.tierRepo.GetByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, err
	}

	// free 档位不可购买
	if tier.Name == model.TierFree {
		return nil, ErrFreeTierNotPurchasable
	}

	order, err := s.paypal.CreateOrder(ctx, &paypal.OrderRequest{
		Amount:      tier.Price,
		Currency:    "USD",
		Description: fmt.Sprintf("%s Subscription - Monthly", tier.DisplayName),
		ReturnURL:   s.cfg.PayPal.ReturnURL,
		CancelURL:   s.cfg.PayPal.CancelURL,
	})
	if err != nil {
		// 供应商细节只进日志，不透给调用方
		log.Printf("PayPal order creation failed: %v", err)
		return nil, ErrOrderCreateFailed
	}

	txn := &model.PaymentTransaction{
		UserID:             userID,
		SubscriptionTierID: tier.ID,
		PayPalOrderID:      order.ID,
		Amount:             tier.Price,
		Currency:           "USD",
		Status:             model.TxStatusPending,
	}
	if err := s.paymentRepo.Create(txn); err != nil {
		return nil, err
	}

	approvalURL := order.ApprovalURL()
	if approvalURL == "" {
		// 集成层故障：正常的订单响应一定带 approve 链接
		log.Printf("PayPal order %s has no approve link", order.ID)
		return nil, ErrOrderCreateFailed
	}

	return &dto.CreateOrderResponse{
		OrderID:     order.ID,
		ApprovalURL: approvalURL,
	}, nil
}

// CapturePayment 捕获付款并激活订阅，关键临界区。
// 整个外呼加更新序列在一个数据库事务里进行：行锁 + status='pending'
// 的 CAS 保证同一订单的并发捕获只有一个会完成激活；交易更新和用户
// 档位切换要么一起提交要么一起回滚。
func (s *PaymentService) CapturePayment(ctx context.Context, userID int64, orderID string) error {
	var captureErr error

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn model.PaymentTransaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("paypal_order_id = ? AND user_id = ? AND status = ?",
				orderID, userID, model.TxStatusPending).
			First(&txn).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		capture, err := s.paypal.CaptureOrder(ctx, orderID)
		if err != nil {
			log.Printf("PayPal capture failed for order %s: %v", orderID, err)
			// 标记 failed 后正常提交事务，失败是终态，同一订单不可重试
			res := tx.Model(&model.PaymentTransaction{}).
				Where("id = ? AND status = ?", txn.ID, model.TxStatusPending).
				Update("status", model.TxStatusFailed)
			if res.Error != nil {
				return res.Error
			}
			captureErr = ErrCaptureFailed
			return nil
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":            model.TxStatusCompleted,
			"paypal_capture_id": capture.ID,
			"is_verified":       true,
			"verification_date": now,
		}
		if capture.Payer.PayerID != "" {
			updates["paypal_payer_id"] = capture.Payer.PayerID
		}

		res := tx.Model(&model.PaymentTransaction{}).
			Where("id = ? AND status = ?", txn.ID, model.TxStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// CAS 失败：另一个捕获回调抢先完成了
			return ErrTransactionNotFound
		}

		end := now.Add(subscriptionDuration)
		return tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"subscription_tier_id":   txn.SubscriptionTierID,
			"subscription_start":     now,
			"subscription_end":       end,
			"is_subscription_active": true,
			"daily_used":             0,
			"monthly_used":           0,
		}).Error
	})
	if err != nil {
		return err
	}
	if captureErr != nil {
		return captureErr
	}

	s.notifySubscriptionUpdated(userID, orderID)
	return nil
}

// ListTransactions 用户历史交易，账号注销后记录仍保留用于审计
func (s *PaymentService) ListTransactions(userID int64) ([]*model.PaymentTransaction, error) {
	return s.paymentRepo.ListByUser(userID)
}

// notifySubscriptionUpdated 激活成功后的通知，尽力而为，绝不影响主流程
func (s *PaymentService) notifySubscriptionUpdated(userID int64, orderID string) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.publisher.Publish(ctx, userID, &pubsub.Event{
			Type:    pubsub.EventSubscription,
			Message: "Payment successful!",
		})
		if err != nil {
			log.Printf("Failed to publish subscription event for user %d (order %s): %v", userID, orderID, err)
		}
	}()
}
