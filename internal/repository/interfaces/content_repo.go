package interfaces

import "github.com/MALVV/cms-estrella-sur-sub002/internal/model"

type ContentRepository interface {
	CreateProject(project *model.Project) error
	UpdateProject(project *model.Project) error
	FindProjectByID(id int) (*model.Project, error)
	ListProjects(publishedOnly bool) ([]*model.Project, error)

	CreateNews(item *model.NewsItem) error
	UpdateNews(item *model.NewsItem) error
	FindNewsByID(id int) (*model.NewsItem, error)
	ListNews(publishedOnly bool) ([]*model.NewsItem, error)
	SetNewsPublished(id int, published bool) error

	CreateEvent(event *model.Event) error
	UpdateEvent(event *model.Event) error
	FindEventByID(id int) (*model.Event, error)
	ListEvents(publishedOnly bool) ([]*model.Event, error)
	SetEventPublished(id int, published bool) error

	CreateDocument(doc *model.TransparencyDocument) error
	FindDocumentByID(id int) (*model.TransparencyDocument, error)
	ListDocuments(publishedOnly bool) ([]*model.TransparencyDocument, error)
	SetDocumentPublished(id int, published bool) error
}
