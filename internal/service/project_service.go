package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mdesign/internal/metrics"
	"github.com/xxxsen/mdesign/internal/model"
	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
	"github.com/xxxsen/mdesign/internal/pkg/timeutil"
	"github.com/xxxsen/mdesign/internal/repo"
)

type ProjectService struct {
	projects *repo.ProjectRepo
	cache    *expirable.LRU[string, *model.Project]
}

type ProjectOption func(*ProjectService)

// WithProjectCache keeps up to size projects in memory for ttl. Projects
// are never modified after creation, so entries cannot go stale.
func WithProjectCache(size int, ttl time.Duration) ProjectOption {
	return func(s *ProjectService) {
		if size <= 0 || ttl <= 0 {
			return
		}
		s.cache = expirable.NewLRU[string, *model.Project](size, nil, ttl)
	}
}

func NewProjectService(projects *repo.ProjectRepo, opts ...ProjectOption) *ProjectService {
	s := &ProjectService{projects: projects}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ProjectCreateInput struct {
	Name    string
	Data    json.RawMessage
	OwnerID string
}

// Create stores the project as given. OwnerID is not checked against the
// users table.
func (s *ProjectService) Create(ctx context.Context, input ProjectCreateInput) (*model.Project, error) {
	name := strings.TrimSpace(input.Name)
	ownerID := strings.TrimSpace(input.OwnerID)
	if name == "" || ownerID == "" {
		return nil, appErr.ErrInvalid
	}
	data := input.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	if !json.Valid(data) {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	project := &model.Project{
		ID:      newID(),
		Name:    name,
		Data:    data,
		OwnerID: ownerID,
		Ctime:   now,
		Mtime:   now,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	s.remember(project)
	metrics.IncrementProjectCreated()
	logutil.GetLogger(ctx).Info("project created",
		zap.String("project_id", project.ID),
		zap.String("owner_id", project.OwnerID),
		zap.Int("data_size", len(project.Data)),
	)
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, filter repo.ProjectFilter) ([]model.Project, error) {
	filter.OwnerID = strings.TrimSpace(filter.OwnerID)
	return s.projects.List(ctx, filter)
}

func (s *ProjectService) Get(ctx context.Context, projectID string) (*model.Project, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, appErr.ErrNotFound
	}
	if s.cache != nil {
		cached, ok := s.cache.Get(projectID)
		metrics.RecordProjectCacheLookup(ok)
		if ok {
			return cloneProject(cached), nil
		}
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.remember(project)
	return project, nil
}

func (s *ProjectService) remember(project *model.Project) {
	if s.cache == nil {
		return
	}
	s.cache.Add(project.ID, cloneProject(project))
}

func cloneProject(p *model.Project) *model.Project {
	clone := *p
	clone.Data = append(json.RawMessage(nil), p.Data...)
	return &clone
}
