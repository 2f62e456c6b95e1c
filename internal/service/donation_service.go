package service

import (
	stderrors "errors"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/repository/interfaces"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"go.uber.org/zap"
)

// DonationServiceInterface lets handlers be tested against a mock.
type DonationServiceInterface interface {
	Submit(donation *model.Donation) (*model.Donation, error)
	GetDonationByID(id int) (*model.Donation, error)
	ListDonations(status model.DonationStatus) ([]*model.Donation, error)
	ApproveDonation(donationID int, imageURL, imageAlt string, approverID int) (*model.Donation, error)
	RejectDonation(donationID, approverID int) (*model.Donation, error)
}

type DonationService struct {
	donationRepo interfaces.DonationRepository
	projectRepo  interfaces.DonationProjectRepository
	emailService *EmailService
}

func NewDonationService(
	donationRepo interfaces.DonationRepository,
	projectRepo interfaces.DonationProjectRepository,
	emailService *EmailService,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		projectRepo:  projectRepo,
		emailService: emailService,
	}
}

// Submit records a donor's pledge in PENDING status. No ledger is touched
// here; that happens only when an administrator approves the donation.
func (s *DonationService) Submit(donation *model.Donation) (*model.Donation, error) {
	if !model.ValidDonationType(donation.Type) {
		return nil, errors.New(errors.ErrValidation, "invalid donation type")
	}
	if !donation.Amount.IsPositive() {
		return nil, errors.New(errors.ErrValidation, "amount must be positive")
	}

	// A project reference is a weak id; check it resolves to a project open
	// for intake before writing anything.
	if donation.DonationProjectID != nil {
		project, err := s.projectRepo.FindByID(*donation.DonationProjectID)
		if err != nil {
			util.Logger.Error("failed to resolve donation project", zap.Error(err))
			return nil, errors.Wrap(errors.ErrDatabase, "failed to resolve donation project", err)
		}
		if project == nil {
			return nil, errors.New(errors.ErrProjectNotFound, "donation project not found")
		}
		if !project.IsActive {
			return nil, errors.New(errors.ErrProjectInactive, "donation project is not accepting donations")
		}
	}

	if err := s.donationRepo.Create(donation); err != nil {
		util.Logger.Error("failed to create donation", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create donation", err)
	}

	util.Logger.Info("donation submitted",
		zap.Int("donation_id", donation.ID),
		zap.String("reference_number", donation.ReferenceNumber),
		zap.String("type", string(donation.Type)))
	return donation, nil
}

func (s *DonationService) GetDonationByID(id int) (*model.Donation, error) {
	donation, err := s.donationRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to get donation", err)
	}
	if donation == nil {
		return nil, errors.New(errors.ErrDonationNotFound, "donation not found")
	}
	return donation, nil
}

func (s *DonationService) ListDonations(status model.DonationStatus) ([]*model.Donation, error) {
	if status != "" && !model.ValidDonationStatus(status) {
		return nil, errors.New(errors.ErrValidation, "invalid donation status")
	}
	donations, err := s.donationRepo.FindByStatus(status)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list donations", err)
	}
	return donations, nil
}

// ApproveDonation moves a PENDING donation to APPROVED. The proof image is
// mandatory; stamping the approver and crediting the project ledger happen in
// one repository transaction so a crash can never leave an approved donation
// uncounted.
func (s *DonationService) ApproveDonation(donationID int, imageURL, imageAlt string, approverID int) (*model.Donation, error) {
	if imageURL == "" {
		return nil, errors.New(errors.ErrProofRequired, "a proof of payment is required to approve")
	}

	donation, err := s.GetDonationByID(donationID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(donation.Status, model.DonationApproved) {
		return nil, errors.New(errors.ErrInvalidTransition, "donation is not pending")
	}

	if err := s.donationRepo.Approve(donationID, imageURL, imageAlt, approverID); err != nil {
		if stderrors.Is(err, interfaces.ErrNotPending) {
			return nil, errors.New(errors.ErrInvalidTransition, "donation was already settled")
		}
		util.Logger.Error("failed to approve donation", zap.Error(err), zap.Int("donation_id", donationID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to approve donation", err)
	}

	updated, err := s.GetDonationByID(donationID)
	if err != nil {
		return nil, err
	}

	if s.emailService != nil {
		s.emailService.NotifyDonationSettled(updated)
	}

	util.Logger.Info("donation approved",
		zap.Int("donation_id", donationID),
		zap.Int("approver_id", approverID))
	return updated, nil
}

// RejectDonation moves a PENDING donation to REJECTED. No proof is required
// and no ledger is touched.
func (s *DonationService) RejectDonation(donationID, approverID int) (*model.Donation, error) {
	donation, err := s.GetDonationByID(donationID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(donation.Status, model.DonationRejected) {
		return nil, errors.New(errors.ErrInvalidTransition, "donation is not pending")
	}

	if err := s.donationRepo.Reject(donationID, approverID); err != nil {
		if stderrors.Is(err, interfaces.ErrNotPending) {
			return nil, errors.New(errors.ErrInvalidTransition, "donation was already settled")
		}
		util.Logger.Error("failed to reject donation", zap.Error(err), zap.Int("donation_id", donationID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to reject donation", err)
	}

	updated, err := s.GetDonationByID(donationID)
	if err != nil {
		return nil, err
	}

	if s.emailService != nil {
		s.emailService.NotifyDonationSettled(updated)
	}

	return updated, nil
}
