package dto

type CreateProjectRequest struct {
	Topic string `json:"topic" binding:"required,max=255"`
}

type CreateProjectResponse struct {
	ProjectID   string `json:"new_project_id"`
	NodesetName string `json:"nodeset_name"`
}

type ProjectInfo struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	NodesetName string `json:"nodeset_name"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
