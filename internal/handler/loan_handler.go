package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/perpus-api/internal/service"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
	"github.com/noah-isme/perpus-api/pkg/response"
)

// LoanHandler exposes the loan lifecycle endpoints.
type LoanHandler struct {
	service *service.LoanService
}

// NewLoanHandler constructs a loan handler.
func NewLoanHandler(svc *service.LoanService) *LoanHandler {
	return &LoanHandler{service: svc}
}

// Add godoc
// @Summary Open a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Param payload body service.AddLoanRequest true "Loan payload"
// @Success 201 {object} response.Envelope
// @Router /loan/addloan [post]
func (h *LoanHandler) Add(c *gin.Context) {
	var req service.AddLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	loan, err := h.service.Open(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Successfully added a new loan", loan)
}

// List godoc
// @Summary List loans with student, class, book and author detail
// @Tags Loans
// @Produce json
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /loan [get]
func (h *LoanHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	loans, pagination, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Loan data retrieved successfully", loans, pagination)
}

// ReturnBook godoc
// @Summary Return a borrowed book
// @Tags Loans
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Success 200 {object} response.Envelope
// @Router /loan/returnbook/{loan_id} [post]
func (h *LoanHandler) ReturnBook(c *gin.Context) {
	id, ok := pathID(c, "loan_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid loan_id"))
		return
	}
	if err := h.service.Return(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Successfully Return book", nil)
}

// Amount godoc
// @Summary Count all loans
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /loan/loanamount [get]
func (h *LoanHandler) Amount(c *gin.Context) {
	total, err := h.service.CountLoans(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Successfully retrieved loan count", gin.H{"amount": total})
}

// AmountFines godoc
// @Summary Sum all loan penalties
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /loan/amountfines [get]
func (h *LoanHandler) AmountFines(c *gin.Context) {
	total, err := h.service.SumFines(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Successfully retrieved fines total", gin.H{"amount": total})
}

// AmountOutstanding godoc
// @Summary Count books not yet returned
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /loan/amountbookyetreturn [get]
func (h *LoanHandler) AmountOutstanding(c *gin.Context) {
	total, err := h.service.CountOutstanding(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Successfully retrieved outstanding count", gin.H{"amount": total})
}

// Export godoc
// @Summary Export the loan table as CSV or PDF
// @Tags Loans
// @Produce octet-stream
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /loan/export [get]
func (h *LoanHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("loan-report.%s", format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
