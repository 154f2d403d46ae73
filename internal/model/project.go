package model

import (
	"time"
)

// Project 用户的学习主题项目，nodeset 对应图谱服务中的节点集合
type Project struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	UserID      int64  `gorm:"not null;index" json:"user_id"`
	ProjectID   string `gorm:"size:36;uniqueIndex;not null" json:"project_id"` // uuid
	ProjectName string `gorm:"size:255" json:"project_name"`
	NodesetName string `gorm:"size:255" json:"nodeset_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
