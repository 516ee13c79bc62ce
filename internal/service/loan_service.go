package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/perpus-api/internal/models"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
	"github.com/noah-isme/perpus-api/pkg/export"
)

type loanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	List(ctx context.Context, page, perPage int) ([]models.LoanDetail, int, error)
	ListAll(ctx context.Context) ([]models.LoanDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Loan, error)
	MarkReturned(ctx context.Context, loan *models.Loan) (bool, error)
	Count(ctx context.Context) (int, error)
	SumPenalties(ctx context.Context) (int, error)
	CountOutstanding(ctx context.Context) (int, error)
}

type studentChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type bookChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Cache keys for the aggregate loan projections.
const (
	loanStatsKeyPattern = "loans:stats:*"
	loanCountKey        = "loans:stats:total"
	loanFinesKey        = "loans:stats:fines"
	loanOutstandingKey  = "loans:stats:outstanding"
)

// LoanPolicy holds the lending policy: the grace period within which a return
// is free, the fine charged per day beyond it, and the fixed list page size.
type LoanPolicy struct {
	GracePeriodDays int
	FinePerDay      int
	ListPageSize    int
}

// AddLoanRequest holds the payload for opening a loan.
type AddLoanRequest struct {
	StudentID int64 `json:"student_id" validate:"required"`
	BookID    int64 `json:"book_id" validate:"required"`
}

// LoanService owns the loan lifecycle: open, list, return with fine
// computation, and the aggregate projections.
type LoanService struct {
	repo      loanRepository
	students  studentChecker
	books     bookChecker
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	policy    LoanPolicy
	now       func() time.Time

	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewLoanService constructs the loan service. The clock defaults to time.Now.
func NewLoanService(repo loanRepository, students studentChecker, books bookChecker, cache *CacheService, validate *validator.Validate, logger *zap.Logger, policy LoanPolicy, now func() time.Time) *LoanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.GracePeriodDays <= 0 {
		policy.GracePeriodDays = 3
	}
	if policy.FinePerDay <= 0 {
		policy.FinePerDay = 5000
	}
	if policy.ListPageSize <= 0 {
		policy.ListPageSize = 6
	}
	if now == nil {
		now = time.Now
	}
	return &LoanService{
		repo:      repo,
		students:  students,
		books:     books,
		cache:     cache,
		validator: validate,
		logger:    logger,
		policy:    policy,
		now:       now,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// Open creates a new loan dated today. The store's unique index on open
// (student, book) pairs rejects a duplicate active loan atomically.
func (s *LoanService) Open(ctx context.Context, req AddLoanRequest) (*models.Loan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid loan payload")
	}

	exists, err := s.students.Exists(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student_id")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid student ID. Student does not exist.")
	}

	exists, err = s.books.Exists(ctx, req.BookID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate book_id")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid book ID. Book does not exist.")
	}

	loan := &models.Loan{
		StudentID:     req.StudentID,
		BookID:        req.BookID,
		LoanDate:      truncateToDay(s.now()),
		Status:        models.LoanStatusNotReturned,
		StatusPayment: models.PaymentStatusNotFined,
		Penalty:       0,
	}

	if err := s.repo.Create(ctx, loan); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create loan")
	}

	s.invalidateStats(ctx)
	return loan, nil
}

// List returns joined loan rows ordered by loan ID with a fixed page size.
func (s *LoanService) List(ctx context.Context, page int) ([]models.LoanDetail, *models.Pagination, error) {
	loans, total, err := s.repo.List(ctx, page, s.policy.ListPageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list loans")
	}
	return loans, models.NewPagination(page, s.policy.ListPageSize, total), nil
}

// Return closes an open loan, computing the fine from the whole calendar days
// elapsed since the loan date. The transition is one-way: a second return of
// the same loan reports NotFound.
func (s *LoanService) Return(ctx context.Context, loanID int64) error {
	loan, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "loan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load loan")
	}

	returnDate := truncateToDay(s.now())
	elapsed := daysBetween(loan.LoanDate, returnDate)

	if elapsed <= s.policy.GracePeriodDays {
		loan.StatusPayment = models.PaymentStatusNotFined
		loan.Penalty = 0
	} else {
		loan.StatusPayment = models.PaymentStatusPenalty
		loan.Penalty = (elapsed - s.policy.GracePeriodDays) * s.policy.FinePerDay
	}
	loan.Status = models.LoanStatusReturned
	loan.ReturnDate = &returnDate

	ok, err := s.repo.MarkReturned(ctx, loan)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to return loan")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "loan not found or already returned")
	}

	s.logger.Info("loan returned",
		zap.Int64("loan_id", loan.LoanID),
		zap.Int("elapsed_days", elapsed),
		zap.Int("penalty", loan.Penalty),
	)
	s.invalidateStats(ctx)
	return nil
}

// CountLoans returns the total number of loans ever created.
func (s *LoanService) CountLoans(ctx context.Context) (int, error) {
	return s.cachedInt(ctx, loanCountKey, s.repo.Count, "failed to count loans")
}

// SumFines returns the total penalty amount over all loans.
func (s *LoanService) SumFines(ctx context.Context) (int, error) {
	return s.cachedInt(ctx, loanFinesKey, s.repo.SumPenalties, "failed to sum fines")
}

// CountOutstanding returns the number of loans whose book is still out.
func (s *LoanService) CountOutstanding(ctx context.Context) (int, error) {
	return s.cachedInt(ctx, loanOutstandingKey, s.repo.CountOutstanding, "failed to count outstanding loans")
}

// Export renders the full joined loan table in the requested format.
// Supported formats are "csv" and "pdf".
func (s *LoanService) Export(ctx context.Context, format string) ([]byte, string, error) {
	loans, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load loans for export")
	}

	dataset := export.Dataset{
		Headers: []string{"Loan ID", "Student", "Class", "Book", "Author", "Loan Date", "Return Date", "Status", "Payment", "Penalty"},
	}
	for _, loan := range loans {
		returnDate := ""
		if loan.ReturnDate != nil {
			returnDate = loan.ReturnDate.Format("2006-01-02")
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Loan ID":     fmt.Sprintf("%d", loan.LoanID),
			"Student":     loan.StudentName,
			"Class":       loan.ClassName,
			"Book":        loan.BookName,
			"Author":      loan.AuthorName,
			"Loan Date":   loan.LoanDate.Format("2006-01-02"),
			"Return Date": returnDate,
			"Status":      loan.Status,
			"Payment":     loan.StatusPayment,
			"Penalty":     fmt.Sprintf("%d", loan.Penalty),
		})
	}

	switch format {
	case "pdf":
		payload, err := s.pdf.Render(dataset, "Loan Report")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render loan report")
		}
		return payload, "application/pdf", nil
	case "", "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render loan report")
		}
		return payload, "text/csv", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}

func (s *LoanService) cachedInt(ctx context.Context, key string, load func(context.Context) (int, error), failMsg string) (int, error) {
	var cached int
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}
	value, err := load(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failMsg)
	}
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		s.logger.Warn("failed to cache loan stat", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

func (s *LoanService) invalidateStats(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, loanStatsKeyPattern); err != nil {
		s.logger.Warn("failed to invalidate loan stats cache", zap.Error(err))
	}
}

// truncateToDay drops the time-of-day component; the fine rule works on
// calendar days only.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from one date to another.
func daysBetween(from, to time.Time) int {
	return int(truncateToDay(to).Sub(truncateToDay(from)) / (24 * time.Hour))
}
