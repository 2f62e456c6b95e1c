package mysql

import (
	"testing"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/model"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/repository/interfaces"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newMockRepo(t *testing.T) (*DonationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	return NewDonationRepository(db), mock, func() { db.Close() }
}

func TestCreateDonation(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO donations").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("UPDATE donations SET reference_number").
		WithArgs(sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	donation := &model.Donation{
		DonorName:  "Maria Lopez",
		DonorEmail: "maria@example.com",
		Amount:     decimal.NewFromInt(100),
		Type:       model.DonationGeneral,
	}
	err := repo.Create(donation)

	assert.NoError(t, err)
	assert.Equal(t, 42, donation.ID)
	assert.Equal(t, model.DonationPending, donation.Status)
	assert.Regexp(t, `^DON-\d{4}-0042$`, donation.ReferenceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveCreditsLedger(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT amount, donation_project_id, status FROM donations").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"amount", "donation_project_id", "status"}).
			AddRow("150.00", 3, "PENDING"))
	mock.ExpectExec("UPDATE donations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE donation_projects").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Approve(1, "donations/proofs/abc.jpg", "receipt", 10)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveWithoutProjectSkipsLedger(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT amount, donation_project_id, status FROM donations").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"amount", "donation_project_id", "status"}).
			AddRow("150.00", nil, "PENDING"))
	mock.ExpectExec("UPDATE donations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// No donation_projects update expected: general donations have no ledger.
	mock.ExpectCommit()

	err := repo.Approve(1, "donations/proofs/abc.jpg", "", 10)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveAlreadySettled(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT amount, donation_project_id, status FROM donations").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"amount", "donation_project_id", "status"}).
			AddRow("150.00", 3, "APPROVED"))
	mock.ExpectRollback()

	err := repo.Approve(1, "donations/proofs/abc.jpg", "", 10)

	assert.ErrorIs(t, err, interfaces.ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveLostRaceOnConditionalUpdate(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT amount, donation_project_id, status FROM donations").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"amount", "donation_project_id", "status"}).
			AddRow("150.00", 3, "PENDING"))
	mock.ExpectExec("UPDATE donations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Approve(1, "donations/proofs/abc.jpg", "", 10)

	assert.ErrorIs(t, err, interfaces.ErrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectNeverTouchesLedger(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec("UPDATE donations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Reject(1, 10)

	assert.NoError(t, err)
	// A single statement, no transaction and no donation_projects update.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectAlreadySettled(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec("UPDATE donations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Reject(1, 10)

	assert.ErrorIs(t, err, interfaces.ErrNotPending)
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM donations WHERE id").
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	donation, err := repo.FindByID(404)

	assert.NoError(t, err)
	assert.Nil(t, donation)
}

func TestCountByStatus(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("PENDING", 4).
			AddRow("APPROVED", 9))

	counts, err := repo.CountByStatus()

	assert.NoError(t, err)
	assert.Equal(t, 4, counts[model.DonationPending])
	assert.Equal(t, 9, counts[model.DonationApproved])
}

func TestSumApprovedAmount(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(model.DonationApproved).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("6030.50"))

	total, err := repo.SumApprovedAmount()

	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("6030.50")))
}
