package services

import (
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/app/repositories"
	"github.com/workhive/workhive/pkg/cache"
	"github.com/workhive/workhive/pkg/storage"
)

const projectListTTL = 2 * time.Minute

// ProjectList is the paginated listing payload.
type ProjectList struct {
	Projects []models.Project `json:"projects"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

type ProjectService struct {
	projects *repositories.ProjectRepository
}

func NewProjectService(projects *repositories.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// List serves listings from Redis when warm. The cache degrades to a
// plain DB read when Redis is down.
func (s *ProjectService) List(category string, page, limit int) (ProjectList, error) {
	key := fmt.Sprintf("projects:list:%d:%s:%d:%d", s.listVersion(), category, page, limit)

	var cached ProjectList
	if cache.Get(key, &cached) {
		return cached, nil
	}

	projects, total, err := s.projects.List(category, page, limit)
	if err != nil {
		return ProjectList{}, fmt.Errorf("projects: list: %w", err)
	}
	for i := range projects {
		s.fillURL(&projects[i])
	}

	out := ProjectList{Projects: projects, Total: total, Page: page, Limit: limit}
	cache.Set(key, out, projectListTTL) //nolint:errcheck
	return out, nil
}

func (s *ProjectService) Get(id uint) (models.Project, error) {
	p, err := s.projects.FindByID(id)
	if err != nil {
		return models.Project{}, err
	}
	s.fillURL(&p)
	return p, nil
}

func (s *ProjectService) Create(p *models.Project) error {
	if err := s.projects.Create(p); err != nil {
		return fmt.Errorf("projects: create: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *ProjectService) Update(p *models.Project) error {
	if err := s.projects.Update(p); err != nil {
		return fmt.Errorf("projects: update: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *ProjectService) Delete(id uint) error {
	p, err := s.projects.FindByID(id)
	if err != nil {
		return err
	}
	if p.AttachmentPath != "" {
		storage.Delete(p.AttachmentPath) //nolint:errcheck
	}
	if err := s.projects.Delete(id); err != nil {
		return fmt.Errorf("projects: delete: %w", err)
	}
	s.invalidate()
	return nil
}

// AttachFile stores an uploaded attachment on the configured disk and
// links it to the project.
func (s *ProjectService) AttachFile(projectID uint, filename string, content []byte) (models.Project, error) {
	p, err := s.projects.FindByID(projectID)
	if err != nil {
		return models.Project{}, err
	}

	key := fmt.Sprintf("projects/%d/%s%s", projectID, uuid.NewString(), path.Ext(filename))
	if err := storage.Put(key, content); err != nil {
		return models.Project{}, fmt.Errorf("projects: store attachment: %w", err)
	}

	if p.AttachmentPath != "" {
		storage.Delete(p.AttachmentPath) //nolint:errcheck
	}
	p.AttachmentPath = key
	if err := s.projects.Update(&p); err != nil {
		return models.Project{}, fmt.Errorf("projects: link attachment: %w", err)
	}

	s.invalidate()
	s.fillURL(&p)
	return p, nil
}

func (s *ProjectService) fillURL(p *models.Project) {
	if p.AttachmentPath != "" {
		p.AttachmentURL = storage.URL(p.AttachmentPath)
	}
}

// Listing keys embed a generation number; bumping it on any write
// orphans every cached page at once and TTL reaps them.
func (s *ProjectService) listVersion() int64 {
	var v int64
	if !cache.Get("projects:list:ver", &v) {
		return 1
	}
	return v
}

func (s *ProjectService) invalidate() {
	cache.Set("projects:list:ver", time.Now().UnixNano(), 0) //nolint:errcheck
}
