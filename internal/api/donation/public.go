package donation

import (
	"net/http"
	"strconv"

	"github.com/MALVV/cms-estrella-sur-sub002/config"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/service"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PublicHandler serves the unauthenticated donor-facing endpoints.
type PublicHandler struct {
	donationService service.DonationServiceInterface
	projectService  service.DonationProjectServiceInterface
}

func NewPublicHandler(
	donationService service.DonationServiceInterface,
	projectService service.DonationProjectServiceInterface,
) *PublicHandler {
	return &PublicHandler{donationService, projectService}
}

type submitDonationRequest struct {
	DonorName         string          `json:"donor_name" binding:"required"`
	DonorEmail        string          `json:"donor_email" binding:"required,email"`
	DonorAddress      string          `json:"donor_address" binding:"required"`
	DonorPhone        string          `json:"donor_phone" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"positive_amount"`
	DonationType      string          `json:"donation_type" binding:"required"`
	Message           string          `json:"message"`
	DonationProjectID *int            `json:"donation_project_id"`
}

// SubmitDonation records a donor's pledge. The donation starts PENDING and no
// ledger moves until an administrator approves it.
func (h *PublicHandler) SubmitDonation(c *gin.Context) {
	var input submitDonationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("invalid donation submission", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "all donor fields and a positive amount are required"})
		return
	}

	donation := &model.Donation{
		DonorName:         input.DonorName,
		DonorEmail:        input.DonorEmail,
		DonorAddress:      input.DonorAddress,
		DonorPhone:        input.DonorPhone,
		Amount:            input.Amount,
		Type:              model.DonationType(input.DonationType),
		Message:           input.Message,
		DonationProjectID: input.DonationProjectID,
	}

	created, err := h.donationService.Submit(donation)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donation": created})
}

// GetDonationProject returns one active project with its derived progress
// fields, looked up by the id query parameter.
func (h *PublicHandler) GetDonationProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project, err := h.projectService.GetPublicProjectByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donation_project": FormatDonationProject(project)})
}

// GetDonationConfig exposes the values the donation form needs.
func (h *PublicHandler) GetDonationConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"preset_amounts":     model.PresetAmounts,
		"accepted_types":     service.AllowedProofMIMETypes,
		"max_upload_size_mb": config.AppConfig.MaxUploadSizeMB,
	})
}

// FormatDonationProject renders a project with its derived fields. Progress
// is omitted entirely for unbounded funds.
func FormatDonationProject(p *model.DonationProject) gin.H {
	out := gin.H{
		"id":             p.ID,
		"project_id":     p.ProjectID,
		"project_title":  p.ProjectTitle,
		"account_number": p.AccountNumber,
		"recipient_name": p.RecipientName,
		"qr_image_url":   p.QRImageURL,
		"qr_image_alt":   p.QRImageAlt,
		"current_amount": p.CurrentAmount,
		"target_amount":  p.TargetAmount,
		"is_active":      p.IsActive,
		"is_completed":   p.IsCompleted(),
		"donation_count": p.DonationCount,
		"created_at":     p.CreatedAt,
	}
	if pct, ok := p.ProgressPercentage(); ok {
		out["progress_percentage"] = pct
	}
	return out
}
