package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *model.Project) error {
	return r.db.Create(project).Error
}

func (r *ProjectRepository) GetByProjectID(projectID string, userID int64) (*model.Project, error) {
	var project model.Project
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) ListByUser(userID int64) ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.Where("user_id = ?", userID).Order("updated_at desc").Find(&projects).Error
	return projects, err
}
