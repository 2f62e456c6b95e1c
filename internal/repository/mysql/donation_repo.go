package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/repository/interfaces"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DonationRepository struct {
	db *sql.DB
}

func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{db}
}

func (r *DonationRepository) Create(donation *model.Donation) error {
	util.Logger.Info("creating donation record",
		zap.String("donor_email", donation.DonorEmail),
		zap.String("amount", donation.Amount.String()),
		zap.String("type", string(donation.Type)))

	donation.Status = model.DonationPending
	donation.CreatedAt = time.Now()
	donation.UpdatedAt = donation.CreatedAt

	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO donations (reference_number, donor_name, donor_email, donor_address, donor_phone,
				amount, donation_type, message, status, donation_project_id, created_at, updated_at)
			  VALUES ('TEMP', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.Exec(query,
		donation.DonorName,
		donation.DonorEmail,
		donation.DonorAddress,
		donation.DonorPhone,
		donation.Amount,
		donation.Type,
		donation.Message,
		donation.Status,
		donation.DonationProjectID,
		donation.CreatedAt,
		donation.UpdatedAt)
	if err != nil {
		util.Logger.Error("failed to insert donation", zap.Error(err))
		return fmt.Errorf("failed to insert donation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("failed to get donation id", zap.Error(err))
		return fmt.Errorf("failed to get donation ID: %w", err)
	}
	donation.ID = int(id)

	donation.ReferenceNumber = generateReferenceNumber(donation.ID)
	if _, err = tx.Exec(`UPDATE donations SET reference_number = ? WHERE id = ?`,
		donation.ReferenceNumber, donation.ID); err != nil {
		util.Logger.Error("failed to set reference number", zap.Error(err))
		return fmt.Errorf("failed to set reference number: %w", err)
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("donation created",
		zap.Int("donation_id", donation.ID),
		zap.String("reference_number", donation.ReferenceNumber))
	return nil
}

// generateReferenceNumber builds the public donation reference.
// Format: DON-year-4 digit sequence, e.g. DON-2026-0001.
func generateReferenceNumber(donationID int) string {
	return fmt.Sprintf("DON-%d-%04d", time.Now().Year(), donationID)
}

const donationColumns = `id, reference_number, donor_name, donor_email, donor_address, donor_phone,
	amount, donation_type, message, status, bank_transfer_image, bank_transfer_image_alt,
	donation_project_id, approver_id, approved_at, created_at, updated_at`

func scanDonation(row interface{ Scan(...interface{}) error }) (*model.Donation, error) {
	var d model.Donation
	var image, imageAlt sql.NullString
	var projectID, approverID sql.NullInt64
	var approvedAt sql.NullTime

	err := row.Scan(
		&d.ID, &d.ReferenceNumber, &d.DonorName, &d.DonorEmail, &d.DonorAddress, &d.DonorPhone,
		&d.Amount, &d.Type, &d.Message, &d.Status, &image, &imageAlt,
		&projectID, &approverID, &approvedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		d.BankTransferImage = &image.String
	}
	if imageAlt.Valid {
		d.BankTransferImageAlt = &imageAlt.String
	}
	if projectID.Valid {
		v := int(projectID.Int64)
		d.DonationProjectID = &v
	}
	if approverID.Valid {
		v := int(approverID.Int64)
		d.ApproverID = &v
	}
	if approvedAt.Valid {
		d.ApprovedAt = &approvedAt.Time
	}
	return &d, nil
}

func (r *DonationRepository) FindByID(id int) (*model.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = ?`

	donation, err := scanDonation(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("failed to query donation", zap.Error(err), zap.Int("donation_id", id))
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	return donation, nil
}

func (r *DonationRepository) FindByStatus(status model.DonationStatus) ([]*model.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("failed to query donations", zap.Error(err), zap.String("status", string(status)))
		return nil, fmt.Errorf("failed to query donations: %w", err)
	}
	defer rows.Close()

	var donations []*model.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			util.Logger.Error("failed to scan donation", zap.Error(err))
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donations: %w", err)
	}

	return donations, nil
}

// Approve settles a pending donation and credits the project ledger in one
// transaction. The conditional UPDATE is the guard against two administrators
// approving the same donation: the second writer matches zero rows.
func (r *DonationRepository) Approve(donationID int, imageURL, imageAlt string, approverID int) error {
	util.Logger.Info("approving donation",
		zap.Int("donation_id", donationID),
		zap.Int("approver_id", approverID))

	tx, err := r.db.Begin()
	if err != nil {
		util.Logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	var amount decimal.Decimal
	var projectID sql.NullInt64
	var status model.DonationStatus
	err = tx.QueryRow(`SELECT amount, donation_project_id, status FROM donations WHERE id = ? FOR UPDATE`,
		donationID).Scan(&amount, &projectID, &status)
	if err == sql.ErrNoRows {
		return interfaces.ErrNotPending
	}
	if err != nil {
		util.Logger.Error("failed to lock donation row", zap.Error(err), zap.Int("donation_id", donationID))
		return fmt.Errorf("failed to lock donation: %w", err)
	}
	if status != model.DonationPending {
		return interfaces.ErrNotPending
	}

	result, err := tx.Exec(`
		UPDATE donations
		SET status = ?, bank_transfer_image = ?, bank_transfer_image_alt = ?,
			approver_id = ?, approved_at = NOW(), updated_at = NOW()
		WHERE id = ? AND status = ?`,
		model.DonationApproved, imageURL, imageAlt, approverID, donationID, model.DonationPending)
	if err != nil {
		util.Logger.Error("failed to update donation status", zap.Error(err))
		return fmt.Errorf("failed to update donation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return interfaces.ErrNotPending
	}

	if projectID.Valid {
		if _, err = tx.Exec(`
			UPDATE donation_projects
			SET current_amount = current_amount + ?, updated_at = NOW()
			WHERE id = ?`,
			amount, projectID.Int64); err != nil {
			util.Logger.Error("failed to credit project ledger",
				zap.Error(err),
				zap.Int64("donation_project_id", projectID.Int64))
			return fmt.Errorf("failed to credit project ledger: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	util.Logger.Info("donation approved",
		zap.Int("donation_id", donationID),
		zap.String("amount", amount.String()),
		zap.Bool("ledger_credited", projectID.Valid))
	return nil
}

// Reject settles a pending donation without any ledger effect.
func (r *DonationRepository) Reject(donationID int, approverID int) error {
	result, err := r.db.Exec(`
		UPDATE donations
		SET status = ?, approver_id = ?, approved_at = NOW(), updated_at = NOW()
		WHERE id = ? AND status = ?`,
		model.DonationRejected, approverID, donationID, model.DonationPending)
	if err != nil {
		util.Logger.Error("failed to reject donation", zap.Error(err), zap.Int("donation_id", donationID))
		return fmt.Errorf("failed to reject donation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return interfaces.ErrNotPending
	}

	util.Logger.Info("donation rejected",
		zap.Int("donation_id", donationID),
		zap.Int("approver_id", approverID))
	return nil
}

func (r *DonationRepository) CountByStatus() (map[model.DonationStatus]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM donations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count donations: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.DonationStatus]int)
	for rows.Next() {
		var status model.DonationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan donation count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *DonationRepository) SumApprovedAmount() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = ?`,
		model.DonationApproved).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum approved donations: %w", err)
	}
	return total, nil
}
