package content

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/service"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/storage"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"github.com/gin-gonic/gin"
)

// Handler serves the editorial content endpoints, both the public read side
// and the authenticated management side.
type Handler struct {
	contentService *service.ContentService
	fileStorage    storage.FileStorage
}

func NewHandler(contentService *service.ContentService, fileStorage storage.FileStorage) *Handler {
	return &Handler{contentService, fileStorage}
}

// ---- projects ----

type projectRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	Published   *bool  `json:"published"`
}

func (h *Handler) ListPublicProjects(c *gin.Context) {
	projects, err := h.contentService.ListProjects(true)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.contentService.ListProjects(false)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	project, err := h.contentService.GetProjectByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *Handler) CreateProject(c *gin.Context) {
	var input projectRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and slug are required"})
		return
	}

	project := &model.Project{
		Title:       input.Title,
		Slug:        input.Slug,
		Description: input.Description,
		CoverImage:  input.CoverImage,
	}
	if input.Published != nil {
		project.Published = *input.Published
	}

	if err := h.contentService.CreateProject(project); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var input projectRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and slug are required"})
		return
	}

	existing, err := h.contentService.GetProjectByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	existing.Title = input.Title
	existing.Slug = input.Slug
	existing.Description = input.Description
	existing.CoverImage = input.CoverImage
	if input.Published != nil {
		existing.Published = *input.Published
	}

	if err := h.contentService.UpdateProject(existing); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": existing})
}

// ---- news ----

type newsRequest struct {
	Title      string `json:"title" binding:"required"`
	Body       string `json:"body" binding:"required"`
	CoverImage string `json:"cover_image"`
	Published  *bool  `json:"published"`
}

func (h *Handler) ListPublicNews(c *gin.Context) {
	items, err := h.contentService.ListNews(true)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": items})
}

func (h *Handler) ListNews(c *gin.Context) {
	items, err := h.contentService.ListNews(false)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": items})
}

func (h *Handler) CreateNews(c *gin.Context) {
	var input newsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and body are required"})
		return
	}

	item := &model.NewsItem{Title: input.Title, Body: input.Body, CoverImage: input.CoverImage}
	if input.Published != nil {
		item.Published = *input.Published
	}

	if err := h.contentService.CreateNews(item); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": item})
}

func (h *Handler) UpdateNews(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid news id"})
		return
	}

	var input newsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and body are required"})
		return
	}

	item := &model.NewsItem{ID: id, Title: input.Title, Body: input.Body, CoverImage: input.CoverImage}
	if input.Published != nil {
		item.Published = *input.Published
	}

	if err := h.contentService.UpdateNews(item); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": item})
}

func (h *Handler) SetNewsPublished(c *gin.Context) {
	h.setPublished(c, h.contentService.SetNewsPublished)
}

// ---- events ----

type eventRequest struct {
	Title      string    `json:"title" binding:"required"`
	Body       string    `json:"body"`
	CoverImage string    `json:"cover_image"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
	Published  *bool     `json:"published"`
}

func (h *Handler) ListPublicEvents(c *gin.Context) {
	events, err := h.contentService.ListEvents(true)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.contentService.ListEvents(false)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var input eventRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, starts_at and ends_at are required"})
		return
	}

	event := &model.Event{
		Title:      input.Title,
		Body:       input.Body,
		CoverImage: input.CoverImage,
		StartsAt:   input.StartsAt,
		EndsAt:     input.EndsAt,
	}
	if input.Published != nil {
		event.Published = *input.Published
	}

	if err := h.contentService.CreateEvent(event); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var input eventRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, starts_at and ends_at are required"})
		return
	}

	event := &model.Event{
		ID:         id,
		Title:      input.Title,
		Body:       input.Body,
		CoverImage: input.CoverImage,
		StartsAt:   input.StartsAt,
		EndsAt:     input.EndsAt,
	}
	if input.Published != nil {
		event.Published = *input.Published
	}

	if err := h.contentService.UpdateEvent(event); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h *Handler) SetEventPublished(c *gin.Context) {
	h.setPublished(c, h.contentService.SetEventPublished)
}

// ---- transparency documents ----

func (h *Handler) ListPublicDocuments(c *gin.Context) {
	docs, err := h.contentService.ListDocuments(true)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.contentService.ListDocuments(false)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// UploadDocument stores an accountability file and records it. Multipart
// fields: title, year, file.
func (h *Handler) UploadDocument(c *gin.Context) {
	title := c.PostForm("title")
	year, err := strconv.Atoi(c.PostForm("year"))
	if err != nil || title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and year are required"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a document file is required"})
		return
	}

	location, err := h.fileStorage.UploadFile(file, "documents/"+util.GenerateUniqueFilename(file.Filename))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	doc := &model.TransparencyDocument{Title: title, FileURL: location, Year: year}
	if err := h.contentService.CreateDocument(doc); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

func (h *Handler) SetDocumentPublished(c *gin.Context) {
	h.setPublished(c, h.contentService.SetDocumentPublished)
}

type publishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

func (h *Handler) setPublished(c *gin.Context, apply func(int, bool) error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var input publishRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "published is required"})
		return
	}

	if err := apply(id, *input.Published); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "published": *input.Published})
}
