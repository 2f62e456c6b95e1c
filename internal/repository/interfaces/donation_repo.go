package interfaces

import (
	"errors"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"

	"github.com/shopspring/decimal"
)

// ErrNotPending is returned by Approve/Reject when the conditional update
// matched no row, meaning another administrator already settled the donation.
var ErrNotPending = errors.New("donation is not in pending status")

type DonationRepository interface {
	Create(donation *model.Donation) error
	FindByID(id int) (*model.Donation, error)
	// FindByStatus with an empty status returns all donations.
	FindByStatus(status model.DonationStatus) ([]*model.Donation, error)
	// Approve settles a PENDING donation in a single transaction: it stamps
	// the proof image, approver and approval time, and increments the
	// associated project ledger when the donation targets one. Returns
	// ErrNotPending when the donation was no longer PENDING.
	Approve(donationID int, imageURL, imageAlt string, approverID int) error
	// Reject settles a PENDING donation without touching any ledger.
	Reject(donationID int, approverID int) error
	CountByStatus() (map[model.DonationStatus]int, error)
	SumApprovedAmount() (decimal.Decimal, error)
}
