package donation

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/service"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("positive_amount", util.ValidatePositiveAmount)
	}
}

type MockDonationService struct {
	mock.Mock
}

func (m *MockDonationService) Submit(donation *model.Donation) (*model.Donation, error) {
	args := m.Called(donation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationService) GetDonationByID(id int) (*model.Donation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationService) ListDonations(status model.DonationStatus) ([]*model.Donation, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Donation), args.Error(1)
}

func (m *MockDonationService) ApproveDonation(donationID int, imageURL, imageAlt string, approverID int) (*model.Donation, error) {
	args := m.Called(donationID, imageURL, imageAlt, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationService) RejectDonation(donationID, approverID int) (*model.Donation, error) {
	args := m.Called(donationID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

var _ service.DonationServiceInterface = (*MockDonationService)(nil)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) CreateProject(project *model.DonationProject) error {
	args := m.Called(project)
	return args.Error(0)
}

func (m *MockProjectService) UpdateProject(project *model.DonationProject) error {
	args := m.Called(project)
	return args.Error(0)
}

func (m *MockProjectService) GetProjectByID(id int) (*model.DonationProject, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DonationProject), args.Error(1)
}

func (m *MockProjectService) GetPublicProjectByID(id int) (*model.DonationProject, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DonationProject), args.Error(1)
}

func (m *MockProjectService) ListProjects() ([]*model.DonationProject, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DonationProject), args.Error(1)
}

func (m *MockProjectService) SetProjectActive(id int, active bool) error {
	args := m.Called(id, active)
	return args.Error(0)
}

var _ service.DonationProjectServiceInterface = (*MockProjectService)(nil)

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) UploadFile(file *multipart.FileHeader, path string) (string, error) {
	args := m.Called(file, path)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) DeleteFile(ctx context.Context, location string) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func TestSubmitDonation(t *testing.T) {
	mockService := new(MockDonationService)
	mockProjects := new(MockProjectService)
	handler := NewPublicHandler(mockService, mockProjects)

	router := gin.New()
	router.POST("/api/public/donations", handler.SubmitDonation)

	created := &model.Donation{
		ID:              1,
		ReferenceNumber: "DON-2026-0001",
		DonorName:       "Maria Lopez",
		Amount:          decimal.NewFromInt(200),
		Status:          model.DonationPending,
	}
	mockService.On("Submit", mock.AnythingOfType("*model.Donation")).Return(created, nil)

	body := []byte(`{
		"donor_name": "Maria Lopez",
		"donor_email": "maria@example.com",
		"donor_address": "Av. Central 123",
		"donor_phone": "+591 70000000",
		"amount": 200,
		"donation_type": "GENERAL"
	}`)
	req, _ := http.NewRequest("POST", "/api/public/donations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "donation")
	mockService.AssertExpectations(t)
}

func TestSubmitDonationMissingFields(t *testing.T) {
	mockService := new(MockDonationService)
	handler := NewPublicHandler(mockService, new(MockProjectService))

	router := gin.New()
	router.POST("/api/public/donations", handler.SubmitDonation)

	body := []byte(`{"donor_name": "Maria Lopez", "amount": 100, "donation_type": "GENERAL"}`)
	req, _ := http.NewRequest("POST", "/api/public/donations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestSubmitDonationZeroAmount(t *testing.T) {
	mockService := new(MockDonationService)
	handler := NewPublicHandler(mockService, new(MockProjectService))

	router := gin.New()
	router.POST("/api/public/donations", handler.SubmitDonation)

	body := []byte(`{
		"donor_name": "Maria Lopez",
		"donor_email": "maria@example.com",
		"donor_address": "Av. Central 123",
		"donor_phone": "+591 70000000",
		"amount": 0,
		"donation_type": "GENERAL"
	}`)
	req, _ := http.NewRequest("POST", "/api/public/donations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestGetDonationProject(t *testing.T) {
	mockProjects := new(MockProjectService)
	handler := NewPublicHandler(new(MockDonationService), mockProjects)

	router := gin.New()
	router.GET("/api/public/donation-projects", handler.GetDonationProject)

	target := decimal.NewFromInt(10000)
	mockProjects.On("GetPublicProjectByID", 3).Return(&model.DonationProject{
		ID:            3,
		ProjectID:     1,
		ProjectTitle:  "Escuela Rural",
		AccountNumber: "1234567890",
		RecipientName: "Fundacion Estrella Sur",
		CurrentAmount: decimal.NewFromInt(6030),
		TargetAmount:  &target,
		IsActive:      true,
	}, nil)

	req, _ := http.NewRequest("GET", "/api/public/donation-projects?id=3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		DonationProject map[string]interface{} `json:"donation_project"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 60.3, response.DonationProject["progress_percentage"])
	assert.Equal(t, false, response.DonationProject["is_completed"])
}

func TestGetDonationProjectHidesInactive(t *testing.T) {
	mockProjects := new(MockProjectService)
	handler := NewPublicHandler(new(MockDonationService), mockProjects)

	router := gin.New()
	router.GET("/api/public/donation-projects", handler.GetDonationProject)

	mockProjects.On("GetPublicProjectByID", 9).
		Return(nil, errors.New(errors.ErrProjectNotFound, "donation project not found"))

	req, _ := http.NewRequest("GET", "/api/public/donation-projects?id=9", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDonationConfig(t *testing.T) {
	handler := NewPublicHandler(new(MockDonationService), new(MockProjectService))

	router := gin.New()
	router.GET("/api/public/donation-config", handler.GetDonationConfig)

	req, _ := http.NewRequest("GET", "/api/public/donation-config", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response, "preset_amounts")
	assert.Contains(t, response, "accepted_types")
	assert.Contains(t, response, "max_upload_size_mb")
}

func newAdminRouter(mockService *MockDonationService, mockStorage *MockFileStorage) *gin.Engine {
	proofService := service.NewProofService(mockStorage, 1)
	handler := NewAdminHandler(mockService, proofService)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", 10)
		c.Next()
	})
	router.GET("/api/donations", handler.ListDonations)
	router.GET("/api/donations/:id", handler.GetDonation)
	router.PATCH("/api/donations/:id", handler.UpdateDonationStatus)
	router.POST("/api/donations/upload-proof", handler.UploadProof)
	return router
}

func TestListDonationsByStatus(t *testing.T) {
	mockService := new(MockDonationService)
	router := newAdminRouter(mockService, new(MockFileStorage))

	mockService.On("ListDonations", model.DonationPending).Return([]*model.Donation{
		{ID: 1, Status: model.DonationPending},
		{ID: 2, Status: model.DonationPending},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/donations?status=PENDING", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 2, response.Count)
	mockService.AssertExpectations(t)
}

func TestListDonationsUnknownStatus(t *testing.T) {
	mockService := new(MockDonationService)
	router := newAdminRouter(mockService, new(MockFileStorage))

	req, _ := http.NewRequest("GET", "/api/donations?status=SHIPPED", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ListDonations", mock.Anything)
}

func TestApproveDonationViaPatch(t *testing.T) {
	mockService := new(MockDonationService)
	mockStorage := new(MockFileStorage)
	router := newAdminRouter(mockService, mockStorage)

	imageURL := "http://localhost:8080/uploads/donations/proofs/abc.jpg"
	approved := &model.Donation{ID: 5, Status: model.DonationApproved, BankTransferImage: &imageURL}
	mockService.On("ApproveDonation", 5, imageURL, "receipt", 10).Return(approved, nil)

	body := []byte(`{"status": "APPROVED", "bank_transfer_image": "` + imageURL + `", "bank_transfer_image_alt": "receipt"}`)
	req, _ := http.NewRequest("PATCH", "/api/donations/5", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
	// Settlement never touches file storage; the image was uploaded earlier.
	mockStorage.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything)
}

func TestApproveDonationWithoutProof(t *testing.T) {
	mockService := new(MockDonationService)
	router := newAdminRouter(mockService, new(MockFileStorage))

	mockService.On("ApproveDonation", 5, "", "", 10).
		Return(nil, errors.New(errors.ErrProofRequired, "a proof of payment is required to approve"))

	body := []byte(`{"status": "APPROVED"}`)
	req, _ := http.NewRequest("PATCH", "/api/donations/5", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectDonationViaPatch(t *testing.T) {
	mockService := new(MockDonationService)
	router := newAdminRouter(mockService, new(MockFileStorage))

	rejected := &model.Donation{ID: 6, Status: model.DonationRejected}
	mockService.On("RejectDonation", 6, 10).Return(rejected, nil)

	body := []byte(`{"status": "REJECTED"}`)
	req, _ := http.NewRequest("PATCH", "/api/donations/6", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestUpdateDonationStatusRejectsCancellation(t *testing.T) {
	mockService := new(MockDonationService)
	router := newAdminRouter(mockService, new(MockFileStorage))

	body := []byte(`{"status": "CANCELLED"}`)
	req, _ := http.NewRequest("PATCH", "/api/donations/7", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ApproveDonation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockService.AssertNotCalled(t, "RejectDonation", mock.Anything, mock.Anything)
}

func TestUpdateDonationStatusConflict(t *testing.T) {
	mockService := new(MockDonationService)
	router := newAdminRouter(mockService, new(MockFileStorage))

	mockService.On("RejectDonation", 8, 10).
		Return(nil, errors.New(errors.ErrInvalidTransition, "donation was already settled"))

	body := []byte(`{"status": "REJECTED"}`)
	req, _ := http.NewRequest("PATCH", "/api/donations/8", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUploadProof(t *testing.T) {
	mockService := new(MockDonationService)
	mockStorage := new(MockFileStorage)
	router := newAdminRouter(mockService, mockStorage)

	mockStorage.On("UploadFile", mock.AnythingOfType("*multipart.FileHeader"), mock.Anything).
		Return("donations/proofs/abc.jpg", nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "receipt.jpg")
	content := make([]byte, 1024)
	copy(content, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	part.Write(content)
	writer.WriteField("alt", "transfer receipt")
	writer.Close()

	req, _ := http.NewRequest("POST", "/api/donations/upload-proof", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response["url"], "donations/proofs/abc.jpg")
	assert.Equal(t, "transfer receipt", response["alt"])
	mockStorage.AssertExpectations(t)
}

func TestUploadProofRejectsNonImage(t *testing.T) {
	mockService := new(MockDonationService)
	mockStorage := new(MockFileStorage)
	router := newAdminRouter(mockService, mockStorage)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "receipt.pdf")
	part.Write([]byte("%PDF-1.7 fake document"))
	writer.Close()

	req, _ := http.NewRequest("POST", "/api/donations/upload-proof", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockStorage.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything)
}
