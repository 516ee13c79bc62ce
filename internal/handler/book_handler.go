package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/perpus-api/internal/service"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
	"github.com/noah-isme/perpus-api/pkg/response"
)

// BookHandler exposes book CRUD endpoints.
type BookHandler struct {
	service *service.BookService
}

// NewBookHandler constructs a book handler.
func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{service: svc}
}

func bindBookRequest(c *gin.Context) (service.BookRequest, error) {
	var req service.BookRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
	}
	file, err := formImage(c)
	if err != nil {
		return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid image upload")
	}
	req.Image = file
	return req, nil
}

// List godoc
// @Summary List books
// @Tags Books
// @Produce json
// @Param name query string false "Filter by book name"
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /book [get]
func (h *BookHandler) List(c *gin.Context) {
	books, pagination, err := h.service.List(c.Request.Context(), listFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "book retrieved successfully", books, pagination)
}

// Detail godoc
// @Summary Get book detail
// @Tags Books
// @Produce json
// @Param book_id path int true "Book ID"
// @Success 200 {object} response.Envelope
// @Router /book/detail/{book_id} [get]
func (h *BookHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "book_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid book_id"))
		return
	}
	book, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "book retrieved successfully", book)
}

// Add godoc
// @Summary Create book
// @Tags Books
// @Accept mpfd
// @Produce json
// @Param author_id formData int true "Author ID"
// @Param book_name formData string true "Book name"
// @Param stock formData int false "Stock"
// @Param image formData file false "Cover image"
// @Success 201 {object} response.Envelope
// @Router /book/addbook [post]
func (h *BookHandler) Add(c *gin.Context) {
	req, err := bindBookRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	book, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Successfully added a new book", book)
}

// Update godoc
// @Summary Update book
// @Tags Books
// @Accept mpfd
// @Produce json
// @Param book_id path int true "Book ID"
// @Success 200 {object} response.Envelope
// @Router /book/updatebook/{book_id} [post]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "book_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid book_id"))
		return
	}
	req, err := bindBookRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	book, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "book updated successfully", book)
}

// Delete godoc
// @Summary Delete book
// @Tags Books
// @Produce json
// @Param book_id path int true "Book ID"
// @Success 200 {object} response.Envelope
// @Router /book/deletebook/{book_id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "book_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid book_id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "book deleted successfully", nil)
}

// Amount godoc
// @Summary Count books
// @Tags Books
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /book/amountbook [get]
func (h *BookHandler) Amount(c *gin.Context) {
	total, err := h.service.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Successfully retrieved Book count", gin.H{"amount": total})
}
