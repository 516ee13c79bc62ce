package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/perpus-api/internal/models"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
)

func newLoanMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestLoanRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectQuery("INSERT INTO loans").
		WithArgs(int64(1), int64(2), sqlmock.AnyArg(), nil, models.LoanStatusNotReturned, models.PaymentStatusNotFined, 0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"loan_id"}).AddRow(7))

	loan := &models.Loan{
		StudentID:     1,
		BookID:        2,
		LoanDate:      time.Now(),
		Status:        models.LoanStatusNotReturned,
		StatusPayment: models.PaymentStatusNotFined,
	}
	err := repo.Create(context.Background(), loan)
	require.NoError(t, err)
	assert.Equal(t, int64(7), loan.LoanID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryCreateDuplicateActive(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectQuery("INSERT INTO loans").
		WillReturnError(&pq.Error{Code: "23505", Constraint: ActiveLoanConstraint})

	err := repo.Create(context.Background(), &models.Loan{
		StudentID:     1,
		BookID:        2,
		LoanDate:      time.Now(),
		Status:        models.LoanStatusNotReturned,
		StatusPayment: models.PaymentStatusNotFined,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateLoan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryList(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	rows := sqlmock.NewRows([]string{
		"loan_id", "student_id", "book_id", "loan_date", "return_date", "status", "status_payment", "penalty", "created_at", "updated_at",
		"student_name", "class_name", "book_name", "author_name",
	}).AddRow(1, 1, 2, time.Now(), nil, models.LoanStatusNotReturned, models.PaymentStatusNotFined, 0, time.Now(), time.Now(),
		"Student", "Class A", "Book", "Author")

	mock.ExpectQuery("SELECT l.loan_id, .+ FROM loans l").WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM loans")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	loans, total, err := repo.List(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Class A", loans[0].ClassName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryMarkReturned(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	returnDate := time.Now()
	mock.ExpectExec("UPDATE loans SET").
		WithArgs(int64(5), sqlmock.AnyArg(), models.LoanStatusReturned, models.PaymentStatusPenalty, 5000, sqlmock.AnyArg(), models.LoanStatusNotReturned).
		WillReturnResult(sqlmock.NewResult(0, 1))

	loan := &models.Loan{
		LoanID:        5,
		ReturnDate:    &returnDate,
		Status:        models.LoanStatusReturned,
		StatusPayment: models.PaymentStatusPenalty,
		Penalty:       5000,
	}
	ok, err := repo.MarkReturned(context.Background(), loan)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryMarkReturnedAlreadyClosed(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	returnDate := time.Now()
	mock.ExpectExec("UPDATE loans SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	loan := &models.Loan{
		LoanID:        5,
		ReturnDate:    &returnDate,
		Status:        models.LoanStatusReturned,
		StatusPayment: models.PaymentStatusNotFined,
	}
	ok, err := repo.MarkReturned(context.Background(), loan)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepositoryAggregates(t *testing.T) {
	db, mock, cleanup := newLoanMock(t)
	defer cleanup()
	repo := NewLoanRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM loans")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, total)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(penalty), 0) FROM loans")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(35000))
	fines, err := repo.SumPenalties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 35000, fines)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM loans WHERE status = $1")).
		WithArgs(models.LoanStatusNotReturned).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	outstanding, err := repo.CountOutstanding(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, outstanding)

	assert.NoError(t, mock.ExpectationsWereMet())
}
