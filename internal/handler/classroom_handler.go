package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/perpus-api/internal/service"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
	"github.com/noah-isme/perpus-api/pkg/response"
)

// ClassroomHandler exposes classroom CRUD endpoints.
type ClassroomHandler struct {
	service *service.ClassroomService
}

// NewClassroomHandler constructs a classroom handler.
func NewClassroomHandler(svc *service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{service: svc}
}

// List godoc
// @Summary List classrooms
// @Tags Classrooms
// @Produce json
// @Param name query string false "Filter by class name"
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /class [get]
func (h *ClassroomHandler) List(c *gin.Context) {
	classrooms, pagination, err := h.service.List(c.Request.Context(), listFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Classrooms retrieved successfully", classrooms, pagination)
}

// Detail godoc
// @Summary Get classroom detail
// @Tags Classrooms
// @Produce json
// @Param class_id path int true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /class/detail/{class_id} [get]
func (h *ClassroomHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "class_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class_id"))
		return
	}
	classroom, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Classroom retrieved successfully", classroom)
}

// Add godoc
// @Summary Create classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param payload body service.ClassroomRequest true "Classroom payload"
// @Success 201 {object} response.Envelope
// @Router /class/addclass [post]
func (h *ClassroomHandler) Add(c *gin.Context) {
	var req service.ClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	classroom, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Successfully added a new class", classroom)
}

// Update godoc
// @Summary Update classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param class_id path int true "Classroom ID"
// @Param payload body service.ClassroomRequest true "Classroom payload"
// @Success 200 {object} response.Envelope
// @Router /class/updateclass/{class_id} [put]
func (h *ClassroomHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "class_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class_id"))
		return
	}
	var req service.ClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	classroom, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Class updated successfully", classroom)
}

// Delete godoc
// @Summary Delete classroom
// @Tags Classrooms
// @Produce json
// @Param class_id path int true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /class/deleteclass/{class_id} [delete]
func (h *ClassroomHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "class_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid class_id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Class deleted successfully", nil)
}

// Amount godoc
// @Summary Count classrooms
// @Tags Classrooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /class/amountclass [get]
func (h *ClassroomHandler) Amount(c *gin.Context) {
	total, err := h.service.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Successfully retrieved class count", gin.H{"amount": total})
}
