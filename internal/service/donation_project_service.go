package service

import (
	"github.com/MALVV/cms-estrella-sur-sub002/internal/common"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/repository/interfaces"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"go.uber.org/zap"
)

type DonationProjectServiceInterface interface {
	CreateProject(project *model.DonationProject) error
	UpdateProject(project *model.DonationProject) error
	GetProjectByID(id int) (*model.DonationProject, error)
	GetPublicProjectByID(id int) (*model.DonationProject, error)
	ListProjects() ([]*model.DonationProject, error)
	SetProjectActive(id int, active bool) error
}

type DonationProjectService struct {
	projectRepo interfaces.DonationProjectRepository
	contentRepo interfaces.ContentRepository
}

func NewDonationProjectService(
	projectRepo interfaces.DonationProjectRepository,
	contentRepo interfaces.ContentRepository,
) *DonationProjectService {
	return &DonationProjectService{
		projectRepo: projectRepo,
		contentRepo: contentRepo,
	}
}

func (s *DonationProjectService) CreateProject(project *model.DonationProject) error {
	if project.AccountNumber == "" || project.RecipientName == "" {
		return errors.New(errors.ErrValidation, "account number and recipient name are required")
	}
	if project.TargetAmount != nil && !project.TargetAmount.IsPositive() {
		return errors.New(errors.ErrValidation, "target amount must be positive when set")
	}

	// The content project is a weak reference; resolve it explicitly.
	content, err := s.contentRepo.FindProjectByID(project.ProjectID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to resolve content project", err)
	}
	if content == nil {
		return errors.New(errors.ErrProjectNotFound, "content project not found")
	}

	if err := s.projectRepo.Create(project); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create donation project", err)
	}
	project.ProjectTitle = content.Title
	return nil
}

func (s *DonationProjectService) UpdateProject(project *model.DonationProject) error {
	if project.TargetAmount != nil && !project.TargetAmount.IsPositive() {
		return errors.New(errors.ErrValidation, "target amount must be positive when set")
	}

	existing, err := s.projectRepo.FindByID(project.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to get donation project", err)
	}
	if existing == nil {
		return errors.New(errors.ErrProjectNotFound, "donation project not found")
	}

	if err := s.projectRepo.Update(project); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update donation project", err)
	}
	return nil
}

func (s *DonationProjectService) GetProjectByID(id int) (*model.DonationProject, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to get donation project", err)
	}
	if project == nil {
		return nil, errors.New(errors.ErrProjectNotFound, "donation project not found")
	}
	return project, nil
}

// GetPublicProjectByID is the donor-facing lookup: inactive projects are
// indistinguishable from missing ones.
func (s *DonationProjectService) GetPublicProjectByID(id int) (*model.DonationProject, error) {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return nil, err
	}
	if !project.IsActive {
		return nil, errors.New(errors.ErrProjectNotFound, "donation project not found")
	}
	return project, nil
}

func (s *DonationProjectService) ListProjects() ([]*model.DonationProject, error) {
	projects, err := s.projectRepo.FindAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list donation projects", err)
	}
	return projects, nil
}

func (s *DonationProjectService) SetProjectActive(id int, active bool) error {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return err
	}
	if err := s.projectRepo.SetActive(project.ID, active); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update donation project state", err)
	}
	return nil
}

// ReconcileLedgers rewrites every project ledger to the sum of its approved
// donations. Run on a schedule to correct drift between the incremental
// counter and the donation rows.
func (s *DonationProjectService) ReconcileLedgers() error {
	var corrected int64
	err := common.WithRetry(func() error {
		var err error
		corrected, err = s.projectRepo.ReconcileCurrentAmounts()
		return err
	}, 3)
	if err != nil {
		util.Logger.Error("ledger reconciliation failed", zap.Error(err))
		return err
	}
	if corrected > 0 {
		util.Logger.Warn("ledger reconciliation corrected drift", zap.Int64("projects_corrected", corrected))
	} else {
		util.Logger.Info("ledger reconciliation found no drift")
	}
	return nil
}
