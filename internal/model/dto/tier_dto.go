package dto

type TierInfo struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	Price        float64  `json:"price"`
	MonthlyLimit int      `json:"monthly_limit"`
	DailyLimit   int      `json:"daily_limit"`
	Features     []string `json:"features"`
}

// TierListResponse 档位目录 + 调用者当前档位与用量
type TierListResponse struct {
	Tiers       []*TierInfo `json:"tiers"`
	CurrentTier string      `json:"current_tier"`
	Usage       *UsageInfo  `json:"usage"`
}

// UpdateTierRequest 显式更新档位，get_or_create 不做就地更新
type UpdateTierRequest struct {
	DisplayName  *string  `json:"display_name,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	MonthlyLimit *int     `json:"monthly_limit,omitempty"`
	DailyLimit   *int     `json:"daily_limit,omitempty"`
	Features     []string `json:"features,omitempty"`
}
