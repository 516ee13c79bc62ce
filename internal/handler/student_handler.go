package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/perpus-api/internal/service"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
	"github.com/noah-isme/perpus-api/pkg/response"
)

// StudentHandler exposes student CRUD endpoints.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

func bindStudentRequest(c *gin.Context) (service.StudentRequest, error) {
	var req service.StudentRequest
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
// @Summary List students
// @Tags Students
// @Produce json
// @Param name query string false "Filter by student name"
// @Param sort_by query string false "Sort column"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /student [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, pagination, err := h.service.List(c.Request.Context(), listFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "student retrieved successfully", students, pagination)
}

// Detail godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /student/detail/{student_id} [get]
func (h *StudentHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "student_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student_id"))
		return
	}
	student, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "student retrieved successfully", student)
}

// Add godoc
// @Summary Create student
// @Tags Students
// @Accept mpfd
// @Produce json
// @Param class_id formData int true "Classroom ID"
// @Param student_name formData string true "Student name"
// @Param birth_day formData string true "Birth date"
// @Param gender formData string true "male, female or other"
// @Param address formData string true "Address"
// @Param image formData file false "Student photo"
// @Success 201 {object} response.Envelope
// @Router /student/addstudent [post]
func (h *StudentHandler) Add(c *gin.Context) {
	req, err := bindStudentRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Successfully added a new student", student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept mpfd
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /student/updatestudent/{student_id} [post]
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "student_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student_id"))
		return
	}
	req, err := bindStudentRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "student updated successfully", student)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Produce json
// @Param student_id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /student/deletestudent/{student_id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "student_id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student_id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "student deleted successfully", nil)
}

// Amount godoc
// @Summary Count students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/amountstudent [get]
func (h *StudentHandler) Amount(c *gin.Context) {
	total, err := h.service.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Successfully retrieved student count", gin.H{"amount": total})
}
