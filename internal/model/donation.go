package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationStatus tracks a pledge through its lifecycle.
type DonationStatus string

const (
	DonationPending   DonationStatus = "PENDING"
	DonationApproved  DonationStatus = "APPROVED"
	DonationRejected  DonationStatus = "REJECTED"
	DonationCancelled DonationStatus = "CANCELLED"
)

// ValidDonationStatus reports whether s is one of the known statuses.
func ValidDonationStatus(s DonationStatus) bool {
	switch s {
	case DonationPending, DonationApproved, DonationRejected, DonationCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a donation may move from one status to
// another. PENDING is the sole initial state; the other three are terminal.
func CanTransition(from, to DonationStatus) bool {
	if from != DonationPending {
		return false
	}
	switch to {
	case DonationApproved, DonationRejected, DonationCancelled:
		return true
	}
	return false
}

// DonationType classifies what a pledge is destined for.
type DonationType string

const (
	DonationGeneral         DonationType = "GENERAL"
	DonationEmergency       DonationType = "EMERGENCY"
	DonationSpecificProject DonationType = "SPECIFIC_PROJECT"
	DonationMonthly         DonationType = "MONTHLY"
)

// ValidDonationType reports whether t is one of the known types.
func ValidDonationType(t DonationType) bool {
	switch t {
	case DonationGeneral, DonationEmergency, DonationSpecificProject, DonationMonthly:
		return true
	}
	return false
}

// PresetAmounts are the suggested amounts shown on the donation form.
var PresetAmounts = []int64{50, 100, 200, 500, 1000, 2000}

// Donation is a donor's pledge. BankTransferImage is set only when the
// donation is approved; DonationProjectID is a weak reference resolved by
// lookup, never an owned pointer.
type Donation struct {
	ID                   int             `json:"id"`
	ReferenceNumber      string          `json:"reference_number"`
	DonorName            string          `json:"donor_name"`
	DonorEmail           string          `json:"donor_email"`
	DonorAddress         string          `json:"donor_address"`
	DonorPhone           string          `json:"donor_phone"`
	Amount               decimal.Decimal `json:"amount"`
	Type                 DonationType    `json:"donation_type"`
	Message              string          `json:"message,omitempty"`
	Status               DonationStatus  `json:"status"`
	BankTransferImage    *string         `json:"bank_transfer_image,omitempty"`
	BankTransferImageAlt *string         `json:"bank_transfer_image_alt,omitempty"`
	DonationProjectID    *int            `json:"donation_project_id,omitempty"`
	ApproverID           *int            `json:"approver_id,omitempty"`
	ApprovedAt           *time.Time      `json:"approved_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// DonationProject is the fundraising ledger tied to a content Project.
// CurrentAmount only ever grows; it is incremented inside the approval
// transaction and reconciled against the sum of approved donations by a
// scheduled job.
type DonationProject struct {
	ID            int              `json:"id"`
	ProjectID     int              `json:"project_id"`
	ProjectTitle  string           `json:"project_title,omitempty"`
	AccountNumber string           `json:"account_number"`
	RecipientName string           `json:"recipient_name"`
	QRImageURL    *string          `json:"qr_image_url,omitempty"`
	QRImageAlt    *string          `json:"qr_image_alt,omitempty"`
	TargetAmount  *decimal.Decimal `json:"target_amount,omitempty"`
	CurrentAmount decimal.Decimal  `json:"current_amount"`
	IsActive      bool             `json:"is_active"`
	DonationCount int              `json:"donation_count"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProgressPercentage returns current/target as a percentage rounded to one
// decimal place and clamped at 100. The second return is false when the
// project has no target, in which case progress is not displayed.
func (p *DonationProject) ProgressPercentage() (float64, bool) {
	if p.TargetAmount == nil || p.TargetAmount.IsZero() {
		return 0, false
	}
	pct := p.CurrentAmount.Div(*p.TargetAmount).Mul(decimal.NewFromInt(100)).Round(1)
	capped := decimal.NewFromInt(100)
	if pct.GreaterThan(capped) {
		pct = capped
	}
	f, _ := pct.Float64()
	return f, true
}

// IsCompleted reports whether the target has been reached.
func (p *DonationProject) IsCompleted() bool {
	if p.TargetAmount == nil || p.TargetAmount.IsZero() {
		return false
	}
	return p.CurrentAmount.GreaterThanOrEqual(*p.TargetAmount)
}
