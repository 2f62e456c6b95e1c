package service

import (
	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/repository/interfaces"
)

type ContentService struct {
	contentRepo interfaces.ContentRepository
}

func NewContentService(contentRepo interfaces.ContentRepository) *ContentService {
	return &ContentService{contentRepo: contentRepo}
}

// Projects

func (s *ContentService) CreateProject(project *model.Project) error {
	if project.Title == "" || project.Slug == "" {
		return errors.New(errors.ErrValidation, "title and slug are required")
	}
	if err := s.contentRepo.CreateProject(project); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create project", err)
	}
	return nil
}

func (s *ContentService) UpdateProject(project *model.Project) error {
	existing, err := s.contentRepo.FindProjectByID(project.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to get project", err)
	}
	if existing == nil {
		return errors.New(errors.ErrResourceNotFound, "project not found")
	}
	if err := s.contentRepo.UpdateProject(project); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update project", err)
	}
	return nil
}

func (s *ContentService) GetProjectByID(id int) (*model.Project, error) {
	project, err := s.contentRepo.FindProjectByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to get project", err)
	}
	if project == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "project not found")
	}
	return project, nil
}

func (s *ContentService) ListProjects(publishedOnly bool) ([]*model.Project, error) {
	projects, err := s.contentRepo.ListProjects(publishedOnly)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list projects", err)
	}
	return projects, nil
}

// News

func (s *ContentService) CreateNews(item *model.NewsItem) error {
	if item.Title == "" || item.Body == "" {
		return errors.New(errors.ErrValidation, "title and body are required")
	}
	if err := s.contentRepo.CreateNews(item); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create news item", err)
	}
	return nil
}

func (s *ContentService) UpdateNews(item *model.NewsItem) error {
	existing, err := s.contentRepo.FindNewsByID(item.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to get news item", err)
	}
	if existing == nil {
		return errors.New(errors.ErrResourceNotFound, "news item not found")
	}
	if err := s.contentRepo.UpdateNews(item); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update news item", err)
	}
	return nil
}

func (s *ContentService) ListNews(publishedOnly bool) ([]*model.NewsItem, error) {
	items, err := s.contentRepo.ListNews(publishedOnly)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list news", err)
	}
	return items, nil
}

func (s *ContentService) SetNewsPublished(id int, published bool) error {
	existing, err := s.contentRepo.FindNewsByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to get news item", err)
	}
	if existing == nil {
		return errors.New(errors.ErrResourceNotFound, "news item not found")
	}
	if err := s.contentRepo.SetNewsPublished(id, published); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update news state", err)
	}
	return nil
}

// Events

func (s *ContentService) CreateEvent(event *model.Event) error {
	if event.Title == "" {
		return errors.New(errors.ErrValidation, "title is required")
	}
	if event.EndsAt.Before(event.StartsAt) {
		return errors.New(errors.ErrValidation, "event cannot end before it starts")
	}
	if err := s.contentRepo.CreateEvent(event); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create event", err)
	}
	return nil
}

func (s *ContentService) UpdateEvent(event *model.Event) error {
	existing, err := s.contentRepo.FindEventByID(event.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to get event", err)
	}
	if existing == nil {
		return errors.New(errors.ErrResourceNotFound, "event not found")
	}
	if err := s.contentRepo.UpdateEvent(event); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update event", err)
	}
	return nil
}

func (s *ContentService) ListEvents(publishedOnly bool) ([]*model.Event, error) {
	events, err := s.contentRepo.ListEvents(publishedOnly)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list events", err)
	}
	return events, nil
}

func (s *ContentService) SetEventPublished(id int, published bool) error {
	existing, err := s.contentRepo.FindEventByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to get event", err)
	}
	if existing == nil {
		return errors.New(errors.ErrResourceNotFound, "event not found")
	}
	if err := s.contentRepo.SetEventPublished(id, published); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update event state", err)
	}
	return nil
}

// Transparency documents

func (s *ContentService) CreateDocument(doc *model.TransparencyDocument) error {
	if doc.Title == "" || doc.FileURL == "" {
		return errors.New(errors.ErrValidation, "title and file are required")
	}
	if err := s.contentRepo.CreateDocument(doc); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create transparency document", err)
	}
	return nil
}

func (s *ContentService) ListDocuments(publishedOnly bool) ([]*model.TransparencyDocument, error) {
	docs, err := s.contentRepo.ListDocuments(publishedOnly)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list transparency documents", err)
	}
	return docs, nil
}

func (s *ContentService) SetDocumentPublished(id int, published bool) error {
	existing, err := s.contentRepo.FindDocumentByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to get transparency document", err)
	}
	if existing == nil {
		return errors.New(errors.ErrResourceNotFound, "transparency document not found")
	}
	if err := s.contentRepo.SetDocumentPublished(id, published); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update document state", err)
	}
	return nil
}
