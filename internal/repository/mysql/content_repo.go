package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"go.uber.org/zap"
)

type ContentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db}
}

// Projects

func (r *ContentRepository) CreateProject(project *model.Project) error {
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt

	result, err := r.db.Exec(`
		INSERT INTO projects (title, slug, description, cover_image, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		project.Title, project.Slug, project.Description, project.CoverImage,
		project.Published, project.CreatedAt, project.UpdatedAt)
	if err != nil {
		util.Logger.Error("failed to insert project", zap.Error(err))
		return fmt.Errorf("failed to insert project: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get project ID: %w", err)
	}
	project.ID = int(id)
	return nil
}

func (r *ContentRepository) UpdateProject(project *model.Project) error {
	_, err := r.db.Exec(`
		UPDATE projects SET title = ?, slug = ?, description = ?, cover_image = ?, published = ?, updated_at = NOW()
		WHERE id = ?`,
		project.Title, project.Slug, project.Description, project.CoverImage,
		project.Published, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (r *ContentRepository) FindProjectByID(id int) (*model.Project, error) {
	var p model.Project
	err := r.db.QueryRow(`
		SELECT id, title, slug, description, cover_image, published, created_at, updated_at
		FROM projects WHERE id = ?`, id).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.CoverImage, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (r *ContentRepository) ListProjects(publishedOnly bool) ([]*model.Project, error) {
	query := `SELECT id, title, slug, description, cover_image, published, created_at, updated_at FROM projects`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.CoverImage,
			&p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// News

func (r *ContentRepository) CreateNews(item *model.NewsItem) error {
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt

	result, err := r.db.Exec(`
		INSERT INTO news (title, body, cover_image, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.Title, item.Body, item.CoverImage, item.Published, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		util.Logger.Error("failed to insert news item", zap.Error(err))
		return fmt.Errorf("failed to insert news item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get news ID: %w", err)
	}
	item.ID = int(id)
	return nil
}

func (r *ContentRepository) UpdateNews(item *model.NewsItem) error {
	_, err := r.db.Exec(`
		UPDATE news SET title = ?, body = ?, cover_image = ?, published = ?, updated_at = NOW()
		WHERE id = ?`,
		item.Title, item.Body, item.CoverImage, item.Published, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update news item: %w", err)
	}
	return nil
}

func (r *ContentRepository) FindNewsByID(id int) (*model.NewsItem, error) {
	var n model.NewsItem
	err := r.db.QueryRow(`
		SELECT id, title, body, cover_image, published, created_at, updated_at
		FROM news WHERE id = ?`, id).Scan(
		&n.ID, &n.Title, &n.Body, &n.CoverImage, &n.Published, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news item: %w", err)
	}
	return &n, nil
}

func (r *ContentRepository) ListNews(publishedOnly bool) ([]*model.NewsItem, error) {
	query := `SELECT id, title, body, cover_image, published, created_at, updated_at FROM news`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer rows.Close()

	var items []*model.NewsItem
	for rows.Next() {
		var n model.NewsItem
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.CoverImage,
			&n.Published, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		items = append(items, &n)
	}
	return items, rows.Err()
}

func (r *ContentRepository) SetNewsPublished(id int, published bool) error {
	_, err := r.db.Exec(`UPDATE news SET published = ?, updated_at = NOW() WHERE id = ?`, published, id)
	if err != nil {
		return fmt.Errorf("failed to update news state: %w", err)
	}
	return nil
}

// Events

func (r *ContentRepository) CreateEvent(event *model.Event) error {
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	result, err := r.db.Exec(`
		INSERT INTO events (title, body, cover_image, starts_at, ends_at, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.Title, event.Body, event.CoverImage, event.StartsAt, event.EndsAt,
		event.Published, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		util.Logger.Error("failed to insert event", zap.Error(err))
		return fmt.Errorf("failed to insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get event ID: %w", err)
	}
	event.ID = int(id)
	return nil
}

func (r *ContentRepository) UpdateEvent(event *model.Event) error {
	_, err := r.db.Exec(`
		UPDATE events SET title = ?, body = ?, cover_image = ?, starts_at = ?, ends_at = ?, published = ?, updated_at = NOW()
		WHERE id = ?`,
		event.Title, event.Body, event.CoverImage, event.StartsAt, event.EndsAt,
		event.Published, event.ID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (r *ContentRepository) FindEventByID(id int) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRow(`
		SELECT id, title, body, cover_image, starts_at, ends_at, published, created_at, updated_at
		FROM events WHERE id = ?`, id).Scan(
		&e.ID, &e.Title, &e.Body, &e.CoverImage, &e.StartsAt, &e.EndsAt,
		&e.Published, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &e, nil
}

func (r *ContentRepository) ListEvents(publishedOnly bool) ([]*model.Event, error) {
	query := `SELECT id, title, body, cover_image, starts_at, ends_at, published, created_at, updated_at FROM events`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY starts_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Body, &e.CoverImage, &e.StartsAt, &e.EndsAt,
			&e.Published, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (r *ContentRepository) SetEventPublished(id int, published bool) error {
	_, err := r.db.Exec(`UPDATE events SET published = ?, updated_at = NOW() WHERE id = ?`, published, id)
	if err != nil {
		return fmt.Errorf("failed to update event state: %w", err)
	}
	return nil
}

// Transparency documents

func (r *ContentRepository) CreateDocument(doc *model.TransparencyDocument) error {
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	result, err := r.db.Exec(`
		INSERT INTO transparency_documents (title, file_url, year, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		doc.Title, doc.FileURL, doc.Year, doc.Published, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		util.Logger.Error("failed to insert transparency document", zap.Error(err))
		return fmt.Errorf("failed to insert transparency document: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get document ID: %w", err)
	}
	doc.ID = int(id)
	return nil
}

func (r *ContentRepository) FindDocumentByID(id int) (*model.TransparencyDocument, error) {
	var d model.TransparencyDocument
	err := r.db.QueryRow(`
		SELECT id, title, file_url, year, published, created_at, updated_at
		FROM transparency_documents WHERE id = ?`, id).Scan(
		&d.ID, &d.Title, &d.FileURL, &d.Year, &d.Published, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transparency document: %w", err)
	}
	return &d, nil
}

func (r *ContentRepository) ListDocuments(publishedOnly bool) ([]*model.TransparencyDocument, error) {
	query := `SELECT id, title, file_url, year, published, created_at, updated_at FROM transparency_documents`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY year DESC, created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transparency documents: %w", err)
	}
	defer rows.Close()

	var docs []*model.TransparencyDocument
	for rows.Next() {
		var d model.TransparencyDocument
		if err := rows.Scan(&d.ID, &d.Title, &d.FileURL, &d.Year,
			&d.Published, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transparency document: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

func (r *ContentRepository) SetDocumentPublished(id int, published bool) error {
	_, err := r.db.Exec(`UPDATE transparency_documents SET published = ?, updated_at = NOW() WHERE id = ?`, published, id)
	if err != nil {
		return fmt.Errorf("failed to update document state: %w", err)
	}
	return nil
}
