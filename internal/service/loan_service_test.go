package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/perpus-api/internal/models"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
)

type fakeLoanRepo struct {
	loans      map[int64]*models.Loan
	createErr  error
	nextID     int64
	markCalled bool
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: map[int64]*models.Loan{}, nextID: 1}
}

func (r *fakeLoanRepo) Create(ctx context.Context, loan *models.Loan) error {
	if r.createErr != nil {
		return r.createErr
	}
	loan.LoanID = r.nextID
	r.nextID++
	stored := *loan
	r.loans[loan.LoanID] = &stored
	return nil
}

func (r *fakeLoanRepo) List(ctx context.Context, page, perPage int) ([]models.LoanDetail, int, error) {
	details := make([]models.LoanDetail, 0, len(r.loans))
	for _, loan := range r.loans {
		details = append(details, models.LoanDetail{Loan: *loan})
	}
	return details, len(r.loans), nil
}

func (r *fakeLoanRepo) ListAll(ctx context.Context) ([]models.LoanDetail, error) {
	details, _, _ := r.List(ctx, 1, 0)
	return details, nil
}

func (r *fakeLoanRepo) FindByID(ctx context.Context, id int64) (*models.Loan, error) {
	loan, ok := r.loans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *loan
	return &copied, nil
}

func (r *fakeLoanRepo) MarkReturned(ctx context.Context, loan *models.Loan) (bool, error) {
	r.markCalled = true
	stored, ok := r.loans[loan.LoanID]
	if !ok || stored.Status != models.LoanStatusNotReturned {
		return false, nil
	}
	copied := *loan
	r.loans[loan.LoanID] = &copied
	return true, nil
}

func (r *fakeLoanRepo) Count(ctx context.Context) (int, error) {
	return len(r.loans), nil
}

func (r *fakeLoanRepo) SumPenalties(ctx context.Context) (int, error) {
	total := 0
	for _, loan := range r.loans {
		total += loan.Penalty
	}
	return total, nil
}

func (r *fakeLoanRepo) CountOutstanding(ctx context.Context) (int, error) {
	open := 0
	for _, loan := range r.loans {
		if loan.Status == models.LoanStatusNotReturned {
			open++
		}
	}
	return open, nil
}

type fakeChecker struct {
	known map[int64]bool
	err   error
}

func (c *fakeChecker) Exists(ctx context.Context, id int64) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	return c.known[id], nil
}

func fixedClock(day string) func() time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(9 * time.Hour) }
}

func newTestLoanService(repo *fakeLoanRepo, clock func() time.Time) *LoanService {
	students := &fakeChecker{known: map[int64]bool{1: true}}
	books := &fakeChecker{known: map[int64]bool{10: true}}
	return NewLoanService(repo, students, books, nil, nil, nil, LoanPolicy{}, clock)
}

func TestLoanServiceOpen(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := newTestLoanService(repo, fixedClock("2026-03-02"))

	loan, err := svc.Open(context.Background(), AddLoanRequest{StudentID: 1, BookID: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(1), loan.LoanID)
	assert.Equal(t, models.LoanStatusNotReturned, loan.Status)
	assert.Equal(t, models.PaymentStatusNotFined, loan.StatusPayment)
	assert.Equal(t, 0, loan.Penalty)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), loan.LoanDate)
	assert.Nil(t, loan.ReturnDate)
}

func TestLoanServiceOpenUnknownStudent(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := newTestLoanService(repo, fixedClock("2026-03-02"))

	_, err := svc.Open(context.Background(), AddLoanRequest{StudentID: 99, BookID: 10})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErr.Status)
	assert.Equal(t, "Invalid student ID. Student does not exist.", appErr.Message)
	assert.Empty(t, repo.loans)
}

func TestLoanServiceOpenUnknownBook(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := newTestLoanService(repo, fixedClock("2026-03-02"))

	_, err := svc.Open(context.Background(), AddLoanRequest{StudentID: 1, BookID: 99})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErr.Status)
	assert.Empty(t, repo.loans)
}

func TestLoanServiceOpenMissingPayload(t *testing.T) {
	svc := newTestLoanService(newFakeLoanRepo(), fixedClock("2026-03-02"))

	_, err := svc.Open(context.Background(), AddLoanRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestLoanServiceOpenDuplicateActive(t *testing.T) {
	repo := newFakeLoanRepo()
	repo.createErr = appErrors.ErrDuplicateLoan
	svc := newTestLoanService(repo, fixedClock("2026-03-02"))

	_, err := svc.Open(context.Background(), AddLoanRequest{StudentID: 1, BookID: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateLoan)
}

func TestLoanServiceReturnFines(t *testing.T) {
	cases := []struct {
		name        string
		returnDay   string
		wantPenalty int
		wantPayment string
	}{
		{name: "same day", returnDay: "2026-03-02", wantPenalty: 0, wantPayment: models.PaymentStatusNotFined},
		{name: "last day of grace", returnDay: "2026-03-05", wantPenalty: 0, wantPayment: models.PaymentStatusNotFined},
		{name: "one day late", returnDay: "2026-03-06", wantPenalty: 5000, wantPayment: models.PaymentStatusPenalty},
		{name: "a week late", returnDay: "2026-03-12", wantPenalty: 35000, wantPayment: models.PaymentStatusPenalty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeLoanRepo()
			svc := newTestLoanService(repo, fixedClock("2026-03-02"))
			loan, err := svc.Open(context.Background(), AddLoanRequest{StudentID: 1, BookID: 10})
			require.NoError(t, err)

			svc.now = fixedClock(tc.returnDay)
			require.NoError(t, svc.Return(context.Background(), loan.LoanID))

			stored := repo.loans[loan.LoanID]
			assert.Equal(t, models.LoanStatusReturned, stored.Status)
			assert.Equal(t, tc.wantPayment, stored.StatusPayment)
			assert.Equal(t, tc.wantPenalty, stored.Penalty)
			require.NotNil(t, stored.ReturnDate)
			assert.Equal(t, truncateToDay(svc.now()), *stored.ReturnDate)
		})
	}
}

func TestLoanServiceReturnUnknownLoan(t *testing.T) {
	svc := newTestLoanService(newFakeLoanRepo(), fixedClock("2026-03-02"))

	err := svc.Return(context.Background(), 42)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErr.Status)
}

func TestLoanServiceReturnTwice(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := newTestLoanService(repo, fixedClock("2026-03-02"))
	loan, err := svc.Open(context.Background(), AddLoanRequest{StudentID: 1, BookID: 10})
	require.NoError(t, err)

	require.NoError(t, svc.Return(context.Background(), loan.LoanID))

	err = svc.Return(context.Background(), loan.LoanID)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErr.Status)
	assert.Equal(t, "loan not found or already returned", appErr.Message)
}

func TestLoanServiceListPageSize(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := newTestLoanService(repo, fixedClock("2026-03-02"))
	for i := 0; i < 8; i++ {
		repo.loans[int64(i+1)] = &models.Loan{LoanID: int64(i + 1), Status: models.LoanStatusNotReturned}
	}

	_, pagination, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 6, pagination.PerPage)
	assert.Equal(t, 8, pagination.TotalCount)
	assert.Equal(t, 2, pagination.TotalPages)
}

func TestLoanServiceAggregates(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := newTestLoanService(repo, fixedClock("2026-03-02"))

	repo.loans[1] = &models.Loan{LoanID: 1, Status: models.LoanStatusReturned, Penalty: 10000}
	repo.loans[2] = &models.Loan{LoanID: 2, Status: models.LoanStatusNotReturned}
	repo.loans[3] = &models.Loan{LoanID: 3, Status: models.LoanStatusNotReturned}

	total, err := svc.CountLoans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	fines, err := svc.SumFines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10000, fines)

	outstanding, err := svc.CountOutstanding(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, outstanding)
}

func TestLoanServiceExportCSV(t *testing.T) {
	repo := newFakeLoanRepo()
	svc := newTestLoanService(repo, fixedClock("2026-03-02"))

	_, err := svc.Open(context.Background(), AddLoanRequest{StudentID: 1, BookID: 10})
	require.NoError(t, err)

	payload, contentType, err := svc.Export(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(payload), "Loan ID")
	assert.Contains(t, string(payload), "not_returned")
}

func TestLoanServiceExportUnsupportedFormat(t *testing.T) {
	svc := newTestLoanService(newFakeLoanRepo(), fixedClock("2026-03-02"))

	_, _, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	to := time.Date(2026, 3, 5, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 3, daysBetween(from, to))
	assert.Equal(t, 0, daysBetween(from, from))
}
