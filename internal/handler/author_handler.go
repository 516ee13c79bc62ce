package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/perpus-api/internal/service"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
	"github.com/noah-isme/perpus-api/pkg/response"
)

// AuthorHandler exposes author CRUD endpoints.
type AuthorHandler struct {
	service *service.AuthorService
}

// NewAuthorHandler constructs an author handler.
func NewAuthorHandler(svc *service.AuthorService) *AuthorHandler {
	return &AuthorHandler{service: svc}
}

func bindAuthorRequest(c *gin.Context) (service.AuthorRequest, error) {
	var req service.AuthorRequest
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
// @Summary List authors
// @Tags Authors
// @Produce json
// @Param name query string false "Filter by author name"
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /author [get]
func (h *AuthorHandler) List(c *gin.Context) {
	authors, pagination, err := h.service.List(c.Request.Context(), listFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "author retrieved successfully", authors, pagination)
}

// Detail godoc
// @Summary Get author detail
// @Tags Authors
// @Produce json
// @Param author_id path int true "Author ID"
// @Success 200 {object} response.Envelope
// @Router /author/detail/{author_id} [get]
func (h *AuthorHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "author_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid author_id"))
		return
	}
	author, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "author retrieved successfully", author)
}

// Add godoc
// @Summary Create author
// @Tags Authors
// @Accept mpfd
// @Produce json
// @Param author_name formData string true "Author name"
// @Param description formData string true "Description"
// @Param image formData file false "Author photo"
// @Success 201 {object} response.Envelope
// @Router /author/addauthor [post]
func (h *AuthorHandler) Add(c *gin.Context) {
	req, err := bindAuthorRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	author, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Successfully added a new author", author)
}

// Update godoc
// @Summary Update author
// @Tags Authors
// @Accept mpfd
// @Produce json
// @Param author_id path int true "Author ID"
// @Success 200 {object} response.Envelope
// @Router /author/updateauthor/{author_id} [post]
func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "author_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid author_id"))
		return
	}
	req, err := bindAuthorRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	author, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "author updated successfully", author)
}

// Delete godoc
// @Summary Delete author
// @Tags Authors
// @Produce json
// @Param author_id path int true "Author ID"
// @Success 200 {object} response.Envelope
// @Router /author/deleteauthor/{author_id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "author_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid author_id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "author deleted successfully", nil)
}

// Amount godoc
// @Summary Count authors
// @Tags Authors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /author/amountauthor [get]
func (h *AuthorHandler) Amount(c *gin.Context) {
	total, err := h.service.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Successfully retrieved author count", gin.H{"amount": total})
}
