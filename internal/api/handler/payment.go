package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/lingo_go_server/internal/api/middleware"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/pkg/response"
	"github.com/qs3c/lingo_go_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	frontendURL    string
}

func NewPaymentHandler(paymentService *service.PaymentService, frontendURL string) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		frontendURL:    frontendURL,
	}
}

// CreateOrder 创建订阅付款订单
// POST /api/v1/payment/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.paymentService.CreateOrder(c.Request.Context(), userID, req.TierID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTierNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrFreeTierNotPurchasable):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrOrderCreateFailed):
			response.PaymentError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// CapturePayment 捕获付款并激活订阅
// POST /api/v1/payment/capture
func (h *PaymentHandler) CapturePayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	err := h.paymentService.CapturePayment(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCaptureFailed):
			response.PaymentError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, &dto.CaptureResponse{
		Success: true,
		Message: "Payment successful! Your subscription is now active.",
	})
}

// PaymentSuccess PayPal 批准后的回跳，把 token（订单号）转给前端完成捕获
// GET /api/v1/payment/success?token=xxx
func (h *PaymentHandler) PaymentSuccess(c *gin.Context) {
	orderID := c.Query("token")
	c.Redirect(http.StatusFound, h.frontendURL+"/payment/success?order_id="+orderID)
}

// PaymentCancel 用户在 PayPal 页面取消
// GET /api/v1/payment/cancel
func (h *PaymentHandler) PaymentCancel(c *gin.Context) {
	c.Redirect(http.StatusFound, h.frontendURL+"/payment/cancel")
}

// ListTransactions 当前用户的交易记录
// GET /api/v1/payment/transactions
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	txns, err := h.paymentService.ListTransactions(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, txns)
}
