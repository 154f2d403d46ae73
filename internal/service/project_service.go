package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/internal/model"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/pkg/graph"
	"github.com/qs3c/lingo_go_server/internal/repository"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	graph       *graph.Client
}

func NewProjectService(projectRepo *repository.ProjectRepository, graphClient *graph.Client) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		graph:       graphClient,
	}
}

// slugify 主题转 nodeset 前缀：小写、非字母数字折叠成下划线
func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = "project"
	}
	if len(slug) > 50 {
		slug = slug[:50]
	}
	return slug
}

// Create 新建项目，project_id 用 UUID，nodeset 名用
// 主题 slug 加 UUID 前 8 位保证全局唯一
func (s *ProjectService) Create(userID int64, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error) {
	projectID := uuid.NewString()
	nodesetName := slugify(req.Topic) + "_" + projectID[:8]

	project := &model.Project{
		UserID:      userID,
		ProjectID:   projectID,
		ProjectName: req.Topic,
		NodesetName: nodesetName,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}

	return &dto.CreateProjectResponse{
		ProjectID:   projectID,
		NodesetName: nodesetName,
	}, nil
}

// List 用户的项目列表，按更新时间倒序
func (s *ProjectService) List(userID int64) ([]*dto.ProjectInfo, error) {
	projects, err := s.projectRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.ProjectInfo, 0, len(projects))
	for _, p := range projects {
		infos = append(infos, &dto.ProjectInfo{
			ProjectID:   p.ProjectID,
			ProjectName: p.ProjectName,
			NodesetName: p.NodesetName,
			CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
			UpdatedAt:   p.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return infos, nil
}

// GetGraph 取项目对应 nodeset 的图数据，归属校验在查询条件里
func (s *ProjectService) GetGraph(ctx context.Context, userID int64, projectID string) (*graph.GraphData, error) {
	project, err := s.projectRepo.GetByProjectID(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	return s.graph.GetGraphData(ctx, project.NodesetName)
}
