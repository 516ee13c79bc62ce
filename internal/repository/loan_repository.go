package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/perpus-api/internal/models"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
)

// ActiveLoanConstraint is the partial unique index guaranteeing at most one
// open loan per (student, book) pair. The insert relies on the store to
// enforce it atomically instead of a separate check-then-insert.
const ActiveLoanConstraint = "loans_one_active_per_pair"

// LoanRepository manages persistence for loan records.
type LoanRepository struct {
	db *sqlx.DB
}

// NewLoanRepository constructs a LoanRepository.
func NewLoanRepository(db *sqlx.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

const loanColumns = "loan_id, student_id, book_id, loan_date, return_date, status, status_payment, penalty, created_at, updated_at"

const loanDetailQuery = `SELECT l.loan_id, l.student_id, l.book_id, l.loan_date, l.return_date, l.status, l.status_payment, l.penalty, l.created_at, l.updated_at,
        s.student_name, c.class_name, b.book_name, a.author_name
        FROM loans l
        JOIN students s ON s.student_id = l.student_id
        JOIN classrooms c ON c.class_id = s.class_id
        JOIN books b ON b.book_id = l.book_id
        JOIN authors a ON a.author_id = b.author_id`

// Create inserts a new open loan. A violation of the active-loan unique index
// surfaces as ErrDuplicateLoan.
func (r *LoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	now := time.Now().UTC()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	const query = `INSERT INTO loans (student_id, book_id, loan_date, return_date, status, status_payment, penalty, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING loan_id`
	err := r.db.GetContext(ctx, &loan.LoanID, query,
		loan.StudentID, loan.BookID, loan.LoanDate, loan.ReturnDate, loan.Status, loan.StatusPayment, loan.Penalty,
		loan.CreatedAt, loan.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return appErrors.ErrDuplicateLoan
		}
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

// List returns loans joined with student, classroom and book data, ordered by
// loan ID ascending.
func (r *LoanRepository) List(ctx context.Context, page, perPage int) ([]models.LoanDetail, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	query := fmt.Sprintf("%s ORDER BY l.loan_id ASC LIMIT %d OFFSET %d", loanDetailQuery, perPage, (page-1)*perPage)

	var loans []models.LoanDetail
	if err := r.db.SelectContext(ctx, &loans, query); err != nil {
		return nil, 0, fmt.Errorf("list loans: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM loans"); err != nil {
		return nil, 0, fmt.Errorf("count loans: %w", err)
	}
	return loans, total, nil
}

// ListAll returns every joined loan row, for report exports.
func (r *LoanRepository) ListAll(ctx context.Context) ([]models.LoanDetail, error) {
	var loans []models.LoanDetail
	if err := r.db.SelectContext(ctx, &loans, loanDetailQuery+" ORDER BY l.loan_id ASC"); err != nil {
		return nil, fmt.Errorf("list all loans: %w", err)
	}
	return loans, nil
}

// FindByID fetches a loan by ID.
func (r *LoanRepository) FindByID(ctx context.Context, id int64) (*models.Loan, error) {
	var loan models.Loan
	query := fmt.Sprintf("SELECT %s FROM loans WHERE loan_id = $1", loanColumns)
	if err := r.db.GetContext(ctx, &loan, query, id); err != nil {
		return nil, err
	}
	return &loan, nil
}

// MarkReturned closes an open loan with the computed fine. It reports false
// when the loan is absent or already returned; the transition is one-way.
func (r *LoanRepository) MarkReturned(ctx context.Context, loan *models.Loan) (bool, error) {
	loan.UpdatedAt = time.Now().UTC()
	const query = `UPDATE loans SET return_date = $2, status = $3, status_payment = $4, penalty = $5, updated_at = $6
        WHERE loan_id = $1 AND status = $7`
	res, err := r.db.ExecContext(ctx, query,
		loan.LoanID, loan.ReturnDate, loan.Status, loan.StatusPayment, loan.Penalty, loan.UpdatedAt,
		models.LoanStatusNotReturned)
	if err != nil {
		return false, fmt.Errorf("return loan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("return loan result: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of loan rows.
func (r *LoanRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM loans"); err != nil {
		return 0, fmt.Errorf("count loans: %w", err)
	}
	return total, nil
}

// SumPenalties returns the total fines accumulated over all loans.
func (r *LoanRepository) SumPenalties(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COALESCE(SUM(penalty), 0) FROM loans"); err != nil {
		return 0, fmt.Errorf("sum penalties: %w", err)
	}
	return total, nil
}

// CountOutstanding returns the number of loans whose book has not come back.
func (r *LoanRepository) CountOutstanding(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM loans WHERE status = $1", models.LoanStatusNotReturned); err != nil {
		return 0, fmt.Errorf("count outstanding loans: %w", err)
	}
	return total, nil
}
