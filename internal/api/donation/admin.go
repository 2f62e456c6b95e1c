package donation

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MALVV/cms-estrella-sur-sub002/config"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/service"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the authenticated donation review endpoints.
type AdminHandler struct {
	donationService service.DonationServiceInterface
	proofService    *service.ProofService
}

func NewAdminHandler(donationService service.DonationServiceInterface, proofService *service.ProofService) *AdminHandler {
	return &AdminHandler{donationService, proofService}
}

// ListDonations returns donations filtered by the optional status query
// parameter. An empty status returns everything.
func (h *AdminHandler) ListDonations(c *gin.Context) {
	status := model.DonationStatus(c.Query("status"))
	if status != "" && !model.ValidDonationStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown donation status"})
		return
	}

	donations, err := h.donationService.ListDonations(status)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donations": donations, "count": len(donations)})
}

func (h *AdminHandler) GetDonation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
		return
	}

	donation, err := h.donationService.GetDonationByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donation": donation})
}

type updateStatusRequest struct {
	Status               string `json:"status" binding:"required"`
	BankTransferImage    string `json:"bank_transfer_image"`
	BankTransferImageAlt string `json:"bank_transfer_image_alt"`
}

// UpdateDonationStatus settles a pending donation. Approval carries the proof
// image reference that the upload endpoint returned earlier; rejection takes
// no extra fields.
func (h *AdminHandler) UpdateDonationStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
		return
	}

	var input updateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	reviewerID := c.GetInt("user_id")

	var donation *model.Donation
	switch model.DonationStatus(input.Status) {
	case model.DonationApproved:
		donation, err = h.donationService.ApproveDonation(id, input.BankTransferImage, input.BankTransferImageAlt, reviewerID)
	case model.DonationRejected:
		donation, err = h.donationService.RejectDonation(id, reviewerID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be APPROVED or REJECTED"})
		return
	}
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("donation settled",
		zap.Int("donation_id", id),
		zap.String("status", input.Status),
		zap.Int("reviewer_id", reviewerID))

	c.JSON(http.StatusOK, gin.H{"donation": donation})
}

// UploadProof stores a proof-of-payment image and returns its URL. The caller
// then attaches the URL to the approval request. If previous_url names an
// earlier upload for the same donation it is removed after the new file lands.
func (h *AdminHandler) UploadProof(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a proof image file is required"})
		return
	}

	alt := c.PostForm("alt")
	previousURL := c.PostForm("previous_url")

	upload, err := h.proofService.StoreProof(file, alt, previousURL)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": publicFileURL(upload.URL),
		"alt": upload.Alt,
	})
}

// publicFileURL turns a storage location into an absolute URL. Cloud backends
// already return absolute URLs; local storage returns a relative path served
// under /uploads.
func publicFileURL(location string) string {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location
	}
	return config.AppConfig.BackendURL + "/uploads/" + strings.TrimPrefix(location, "/")
}
