package project

import (
	"net/http"
	"strconv"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/api/donation"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Handler serves the fundraising project administration endpoints.
type Handler struct {
	projectService service.DonationProjectServiceInterface
}

func NewHandler(projectService service.DonationProjectServiceInterface) *Handler {
	return &Handler{projectService}
}

type projectRequest struct {
	ProjectID     int              `json:"project_id" binding:"required"`
	AccountNumber string           `json:"account_number" binding:"required"`
	RecipientName string           `json:"recipient_name" binding:"required"`
	QRImageURL    *string          `json:"qr_image_url"`
	QRImageAlt    *string          `json:"qr_image_alt"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	IsActive      *bool            `json:"is_active"`
}

// ListProjects returns every fundraising project, inactive ones included.
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	out := make([]gin.H, 0, len(projects))
	for _, p := range projects {
		out = append(out, donation.FormatDonationProject(p))
	}
	c.JSON(http.StatusOK, gin.H{"donation_projects": out, "count": len(out)})
}

func (h *Handler) CreateProject(c *gin.Context) {
	var input projectRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account number and recipient name are required"})
		return
	}

	project := projectFromRequest(&input)
	if input.IsActive == nil {
		project.IsActive = true
	}

	if err := h.projectService.CreateProject(project); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donation_project": donation.FormatDonationProject(project)})
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var input projectRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account number and recipient name are required"})
		return
	}

	existing, err := h.projectService.GetProjectByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	project := projectFromRequest(&input)
	project.ID = id
	project.CurrentAmount = existing.CurrentAmount
	if input.IsActive == nil {
		project.IsActive = existing.IsActive
	}

	if err := h.projectService.UpdateProject(project); err != nil {
		errors.HandleError(c, err)
		return
	}

	updated, err := h.projectService.GetProjectByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donation_project": donation.FormatDonationProject(updated)})
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetProjectActive toggles whether a project accepts new donations. Inactive
// projects disappear from the public site but keep their ledger.
func (h *Handler) SetProjectActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var input setActiveRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
		return
	}

	if err := h.projectService.SetProjectActive(id, *input.IsActive); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *input.IsActive})
}

func projectFromRequest(input *projectRequest) *model.DonationProject {
	project := &model.DonationProject{
		ProjectID:     input.ProjectID,
		AccountNumber: input.AccountNumber,
		RecipientName: input.RecipientName,
		QRImageURL:    input.QRImageURL,
		QRImageAlt:    input.QRImageAlt,
		TargetAmount:  input.TargetAmount,
	}
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}
	return project
}
