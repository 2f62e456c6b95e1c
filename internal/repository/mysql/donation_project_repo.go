package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DonationProjectRepository struct {
	db *sql.DB
}

func NewDonationProjectRepository(db *sql.DB) *DonationProjectRepository {
	return &DonationProjectRepository{db}
}

func (r *DonationProjectRepository) Create(project *model.DonationProject) error {
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt

	var target decimal.NullDecimal
	if project.TargetAmount != nil {
		target = decimal.NullDecimal{Decimal: *project.TargetAmount, Valid: true}
	}

	query := `INSERT INTO donation_projects (project_id, account_number, recipient_name,
				qr_image_url, qr_image_alt, target_amount, current_amount, is_active, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`

	result, err := r.db.Exec(query,
		project.ProjectID,
		project.AccountNumber,
		project.RecipientName,
		project.QRImageURL,
		project.QRImageAlt,
		target,
		project.IsActive,
		project.CreatedAt,
		project.UpdatedAt)
	if err != nil {
		util.Logger.Error("failed to insert donation project", zap.Error(err))
		return fmt.Errorf("failed to insert donation project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get donation project ID: %w", err)
	}
	project.ID = int(id)
	project.CurrentAmount = decimal.Zero

	util.Logger.Info("donation project created",
		zap.Int("donation_project_id", project.ID),
		zap.Int("project_id", project.ProjectID))
	return nil
}

func (r *DonationProjectRepository) Update(project *model.DonationProject) error {
	var target decimal.NullDecimal
	if project.TargetAmount != nil {
		target = decimal.NullDecimal{Decimal: *project.TargetAmount, Valid: true}
	}

	// CurrentAmount is deliberately not writable here; only the approval
	// transaction and the reconciliation job touch the ledger.
	query := `UPDATE donation_projects
			  SET account_number = ?, recipient_name = ?, qr_image_url = ?, qr_image_alt = ?,
				  target_amount = ?, is_active = ?, updated_at = NOW()
			  WHERE id = ?`

	_, err := r.db.Exec(query,
		project.AccountNumber,
		project.RecipientName,
		project.QRImageURL,
		project.QRImageAlt,
		target,
		project.IsActive,
		project.ID)
	if err != nil {
		util.Logger.Error("failed to update donation project", zap.Error(err), zap.Int("id", project.ID))
		return fmt.Errorf("failed to update donation project: %w", err)
	}
	return nil
}

const donationProjectColumns = `dp.id, dp.project_id, COALESCE(p.title, ''), dp.account_number,
	dp.recipient_name, dp.qr_image_url, dp.qr_image_alt, dp.target_amount, dp.current_amount,
	dp.is_active, dp.created_at, dp.updated_at,
	(SELECT COUNT(*) FROM donations d WHERE d.donation_project_id = dp.id AND d.status = 'APPROVED')`

func scanDonationProject(row interface{ Scan(...interface{}) error }) (*model.DonationProject, error) {
	var p model.DonationProject
	var qrURL, qrAlt sql.NullString
	var target decimal.NullDecimal

	err := row.Scan(
		&p.ID, &p.ProjectID, &p.ProjectTitle, &p.AccountNumber,
		&p.RecipientName, &qrURL, &qrAlt, &target, &p.CurrentAmount,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.DonationCount)
	if err != nil {
		return nil, err
	}

	if qrURL.Valid {
		p.QRImageURL = &qrURL.String
	}
	if qrAlt.Valid {
		p.QRImageAlt = &qrAlt.String
	}
	if target.Valid {
		p.TargetAmount = &target.Decimal
	}
	return &p, nil
}

func (r *DonationProjectRepository) FindByID(id int) (*model.DonationProject, error) {
	query := `SELECT ` + donationProjectColumns + `
			  FROM donation_projects dp
			  LEFT JOIN projects p ON dp.project_id = p.id
			  WHERE dp.id = ?`

	project, err := scanDonationProject(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("failed to query donation project", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get donation project: %w", err)
	}
	return project, nil
}

func (r *DonationProjectRepository) FindAll() ([]*model.DonationProject, error) {
	query := `SELECT ` + donationProjectColumns + `
			  FROM donation_projects dp
			  LEFT JOIN projects p ON dp.project_id = p.id
			  ORDER BY dp.created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		util.Logger.Error("failed to query donation projects", zap.Error(err))
		return nil, fmt.Errorf("failed to query donation projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.DonationProject
	for rows.Next() {
		p, err := scanDonationProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *DonationProjectRepository) SetActive(id int, active bool) error {
	_, err := r.db.Exec(`UPDATE donation_projects SET is_active = ?, updated_at = NOW() WHERE id = ?`,
		active, id)
	if err != nil {
		return fmt.Errorf("failed to update donation project state: %w", err)
	}
	return nil
}

func (r *DonationProjectRepository) CountActive() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM donation_projects WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active donation projects: %w", err)
	}
	return count, nil
}

// ReconcileCurrentAmounts rewrites every ledger to the sum of its approved
// donations. The approval transaction keeps the counter incrementally; this
// corrects any drift between the counter and the donation rows.
func (r *DonationProjectRepository) ReconcileCurrentAmounts() (int64, error) {
	query := `
		UPDATE donation_projects dp
		LEFT JOIN (
			SELECT donation_project_id, SUM(amount) AS total
			FROM donations
			WHERE status = 'APPROVED' AND donation_project_id IS NOT NULL
			GROUP BY donation_project_id
		) d ON d.donation_project_id = dp.id
		SET dp.current_amount = COALESCE(d.total, 0), dp.updated_at = NOW()
		WHERE dp.current_amount <> COALESCE(d.total, 0)`

	result, err := r.db.Exec(query)
	if err != nil {
		util.Logger.Error("ledger reconciliation failed", zap.Error(err))
		return 0, fmt.Errorf("failed to reconcile ledgers: %w", err)
	}
	return result.RowsAffected()
}
