package dto

type UserInfo struct {
	ID           int64             `json:"id"`
	Username     string            `json:"username"`
	Name         string            `json:"name,omitempty"`
	Email        string            `json:"email,omitempty"`
	AvatarURL    string            `json:"avatar_url,omitempty"`
	Subscription *SubscriptionInfo `json:"subscription,omitempty"`
	CreatedAt    string            `json:"created_at,omitempty"`
}

// SubscriptionInfo 档位 + 激活窗口 + 用量，profile 接口返回
type SubscriptionInfo struct {
	Tier            string     `json:"tier"`
	TierDisplayName string     `json:"tier_display_name"`
	IsActive        bool       `json:"is_active"`
	StartDate       string     `json:"start_date,omitempty"`
	EndDate         string     `json:"end_date,omitempty"`
	Usage           *UsageInfo `json:"usage"`
}

type UsageInfo struct {
	DailyUsed    int `json:"daily_used"`
	MonthlyUsed  int `json:"monthly_used"`
	DailyLimit   int `json:"daily_limit"`
	MonthlyLimit int `json:"monthly_limit"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Name     *string `json:"name,omitempty"`
}
