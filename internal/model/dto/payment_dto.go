package dto

type CreateOrderRequest struct {
	TierID int64 `json:"tier_id" binding:"required"`
}

// CreateOrderResponse 返回 PayPal 订单号和用户跳转的批准链接
type CreateOrderResponse struct {
	OrderID     string `json:"order_id"`
	ApprovalURL string `json:"approval_url"`
}

type CaptureRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

type CaptureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
