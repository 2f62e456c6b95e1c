package service

import (
	"testing"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/repository/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(donation *model.Donation) error {
	args := m.Called(donation)
	return args.Error(0)
}

func (m *MockDonationRepository) FindByID(id int) (*model.Donation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationRepository) FindByStatus(status model.DonationStatus) ([]*model.Donation, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Donation), args.Error(1)
}

func (m *MockDonationRepository) Approve(donationID int, imageURL, imageAlt string, approverID int) error {
	args := m.Called(donationID, imageURL, imageAlt, approverID)
	return args.Error(0)
}

func (m *MockDonationRepository) Reject(donationID int, approverID int) error {
	args := m.Called(donationID, approverID)
	return args.Error(0)
}

func (m *MockDonationRepository) CountByStatus() (map[model.DonationStatus]int, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.DonationStatus]int), args.Error(1)
}

func (m *MockDonationRepository) SumApprovedAmount() (decimal.Decimal, error) {
	args := m.Called()
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ interfaces.DonationRepository = (*MockDonationRepository)(nil)

type MockDonationProjectRepository struct {
	mock.Mock
}

func (m *MockDonationProjectRepository) Create(project *model.DonationProject) error {
	args := m.Called(project)
	return args.Error(0)
}

func (m *MockDonationProjectRepository) Update(project *model.DonationProject) error {
	args := m.Called(project)
	return args.Error(0)
}

func (m *MockDonationProjectRepository) FindByID(id int) (*model.DonationProject, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DonationProject), args.Error(1)
}

func (m *MockDonationProjectRepository) FindAll() ([]*model.DonationProject, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DonationProject), args.Error(1)
}

func (m *MockDonationProjectRepository) SetActive(id int, active bool) error {
	args := m.Called(id, active)
	return args.Error(0)
}

func (m *MockDonationProjectRepository) CountActive() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockDonationProjectRepository) ReconcileCurrentAmounts() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

var _ interfaces.DonationProjectRepository = (*MockDonationProjectRepository)(nil)

func newTestDonationService() (*DonationService, *MockDonationRepository, *MockDonationProjectRepository) {
	donationRepo := new(MockDonationRepository)
	projectRepo := new(MockDonationProjectRepository)
	return NewDonationService(donationRepo, projectRepo, nil), donationRepo, projectRepo
}

func pendingDonation(id int) *model.Donation {
	return &model.Donation{
		ID:         id,
		DonorName:  "Maria Lopez",
		DonorEmail: "maria@example.com",
		Amount:     decimal.NewFromInt(100),
		Type:       model.DonationGeneral,
		Status:     model.DonationPending,
	}
}

func TestSubmitDonation(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	donationRepo.On("Create", mock.AnythingOfType("*model.Donation")).Return(nil)

	created, err := svc.Submit(&model.Donation{
		DonorName:  "Maria Lopez",
		DonorEmail: "maria@example.com",
		Amount:     decimal.NewFromInt(200),
		Type:       model.DonationGeneral,
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	donationRepo.AssertExpectations(t)
}

func TestSubmitDonationRejectsNonPositiveAmount(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	_, err := svc.Submit(&model.Donation{
		DonorName: "Maria Lopez",
		Amount:    decimal.Zero,
		Type:      model.DonationGeneral,
	})

	assert.Error(t, err)
	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
	donationRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSubmitDonationRejectsUnknownType(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	_, err := svc.Submit(&model.Donation{
		Amount: decimal.NewFromInt(50),
		Type:   model.DonationType("RAFFLE"),
	})

	assert.Error(t, err)
	donationRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSubmitDonationToInactiveProject(t *testing.T) {
	svc, donationRepo, projectRepo := newTestDonationService()

	projectID := 7
	projectRepo.On("FindByID", projectID).Return(&model.DonationProject{ID: projectID, IsActive: false}, nil)

	_, err := svc.Submit(&model.Donation{
		Amount:            decimal.NewFromInt(50),
		Type:              model.DonationSpecificProject,
		DonationProjectID: &projectID,
	})

	assert.Error(t, err)
	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrProjectInactive, appErr.Code)
	donationRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSubmitDonationToMissingProject(t *testing.T) {
	svc, donationRepo, projectRepo := newTestDonationService()

	projectID := 99
	projectRepo.On("FindByID", projectID).Return(nil, nil)

	_, err := svc.Submit(&model.Donation{
		Amount:            decimal.NewFromInt(50),
		Type:              model.DonationSpecificProject,
		DonationProjectID: &projectID,
	})

	assert.Error(t, err)
	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrProjectNotFound, appErr.Code)
	donationRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestApproveDonationRequiresProof(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	_, err := svc.ApproveDonation(1, "", "", 10)

	assert.Error(t, err)
	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrProofRequired, appErr.Code)
	// The repository must never be reached without a proof image.
	donationRepo.AssertNotCalled(t, "FindByID", mock.Anything)
	donationRepo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveDonation(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	imageURL := "http://localhost:8080/uploads/donations/proofs/abc.jpg"
	approved := pendingDonation(1)
	approved.Status = model.DonationApproved
	approved.BankTransferImage = &imageURL

	donationRepo.On("FindByID", 1).Return(pendingDonation(1), nil).Once()
	donationRepo.On("Approve", 1, imageURL, "transfer receipt", 10).Return(nil)
	donationRepo.On("FindByID", 1).Return(approved, nil).Once()

	result, err := svc.ApproveDonation(1, imageURL, "transfer receipt", 10)

	assert.NoError(t, err)
	assert.Equal(t, model.DonationApproved, result.Status)
	donationRepo.AssertExpectations(t)
}

func TestApproveDonationAlreadySettled(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	settled := pendingDonation(1)
	settled.Status = model.DonationApproved
	donationRepo.On("FindByID", 1).Return(settled, nil)

	_, err := svc.ApproveDonation(1, "http://example.com/proof.jpg", "", 10)

	assert.Error(t, err)
	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrInvalidTransition, appErr.Code)
	donationRepo.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveDonationLostRace(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	// The read sees PENDING but another reviewer settles first; the
	// conditional update reports it.
	donationRepo.On("FindByID", 1).Return(pendingDonation(1), nil)
	donationRepo.On("Approve", 1, "http://example.com/proof.jpg", "", 10).Return(interfaces.ErrNotPending)

	_, err := svc.ApproveDonation(1, "http://example.com/proof.jpg", "", 10)

	assert.Error(t, err)
	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrInvalidTransition, appErr.Code)
}

func TestRejectDonation(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	rejected := pendingDonation(2)
	rejected.Status = model.DonationRejected

	donationRepo.On("FindByID", 2).Return(pendingDonation(2), nil).Once()
	donationRepo.On("Reject", 2, 10).Return(nil)
	donationRepo.On("FindByID", 2).Return(rejected, nil).Once()

	result, err := svc.RejectDonation(2, 10)

	assert.NoError(t, err)
	assert.Equal(t, model.DonationRejected, result.Status)
	donationRepo.AssertExpectations(t)
}

func TestRejectDonationNotFound(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	donationRepo.On("FindByID", 404).Return(nil, nil)

	_, err := svc.RejectDonation(404, 10)

	assert.Error(t, err)
	appErr := err.(*errors.AppError)
	assert.Equal(t, errors.ErrDonationNotFound, appErr.Code)
}

func TestListDonationsRejectsUnknownStatus(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	_, err := svc.ListDonations(model.DonationStatus("SHIPPED"))

	assert.Error(t, err)
	donationRepo.AssertNotCalled(t, "FindByStatus", mock.Anything)
}

func TestListDonationsEmptyStatusReturnsAll(t *testing.T) {
	svc, donationRepo, _ := newTestDonationService()

	donationRepo.On("FindByStatus", model.DonationStatus("")).Return([]*model.Donation{pendingDonation(1), pendingDonation(2)}, nil)

	donations, err := svc.ListDonations("")

	assert.NoError(t, err)
	assert.Len(t, donations, 2)
	donationRepo.AssertExpectations(t)
}
