package service

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/perpus-api/internal/models"
	appErrors "github.com/noah-isme/perpus-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type classroomChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// StudentRequest holds the multipart payload for creating or updating students.
type StudentRequest struct {
	ClassID     int64                 `form:"class_id" validate:"required"`
	StudentName string                `form:"student_name" validate:"required"`
	BirthDay    string                `form:"birth_day" validate:"required"`
	Gender      string                `form:"gender" validate:"required,oneof=male female other"`
	Address     string                `form:"address" validate:"required"`
	Image       *multipart.FileHeader `form:"-" validate:"-"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo       studentRepository
	classrooms classroomChecker
	store      imageStore
	policy     imagePolicy
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, classrooms classroomChecker, store imageStore, policy imagePolicy, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classrooms: classrooms, store: store, policy: policy, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.ListFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	return students, models.NewPagination(filter.Page, perPage, total), nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student, storing the uploaded image first when present.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	student := &models.Student{
		ClassID:     req.ClassID,
		StudentName: req.StudentName,
		BirthDay:    req.BirthDay,
		Gender:      req.Gender,
		Address:     req.Address,
	}

	if req.Image != nil {
		name, err := s.store.SaveImage(studentImageFolder, req.Image)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store student image")
		}
		student.Image = &name
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update modifies an existing student. A replacement image deletes the old
// blob; without one the previous reference is kept.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student.ClassID = req.ClassID
	student.StudentName = req.StudentName
	student.BirthDay = req.BirthDay
	student.Gender = req.Gender
	student.Address = req.Address

	if req.Image != nil {
		if student.Image != nil {
			if err := s.store.DeleteImage(studentImageFolder, *student.Image); err != nil {
				s.logger.Warn("failed to delete replaced student image", zap.Error(err))
			}
		}
		name, err := s.store.SaveImage(studentImageFolder, req.Image)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store student image")
		}
		student.Image = &name
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student and its stored image blob.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if student.Image != nil {
		if err := s.store.DeleteImage(studentImageFolder, *student.Image); err != nil {
			s.logger.Warn("failed to delete student image", zap.Error(err))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// Count returns the total number of students.
func (s *StudentService) Count(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	return total, nil
}

func (s *StudentService) validate(ctx context.Context, req StudentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	exists, err := s.classrooms.Exists(ctx, req.ClassID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate class_id")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrValidation, "Invalid class_id. Class does not exist.")
	}
	if req.Image != nil && s.policy != nil {
		if err := s.policy.Validate(req.Image); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}
	return nil
}
