package dto

type AnalyzeRequest struct {
	Content   string `json:"content" binding:"required"`
	ProjectID string `json:"project_id,omitempty"`
}

type AnalyzeResponse struct {
	Result string `json:"result"`
}

// QuotaInfo 配额查询接口返回
type QuotaInfo struct {
	Tier          string `json:"tier"`
	DailyLimit    int    `json:"daily_limit"`
	DailyUsed     int    `json:"daily_used"`
	DailyRemain   int    `json:"daily_remain"`
	MonthlyLimit  int    `json:"monthly_limit"`
	MonthlyUsed   int    `json:"monthly_used"`
	MonthlyRemain int    `json:"monthly_remain"`
}
