package interfaces

import "github.com/MALVV/cms-estrella-sur-sub002/internal/model"

type DonationProjectRepository interface {
	Create(project *model.DonationProject) error
	Update(project *model.DonationProject) error
	FindByID(id int) (*model.DonationProject, error)
	FindAll() ([]*model.DonationProject, error)
	SetActive(id int, active bool) error
	CountActive() (int, error)
	// ReconcileCurrentAmounts rewrites every ledger to the sum of its
	// approved donations and returns how many rows changed.
	ReconcileCurrentAmounts() (int64, error)
}
