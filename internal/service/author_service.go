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

type authorRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Author, int, error)
	FindByID(ctx context.Context, id int64) (*models.Author, error)
	Create(ctx context.Context, author *models.Author) error
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// AuthorRequest holds the multipart payload for creating or updating authors.
type AuthorRequest struct {
	AuthorName  string                `form:"author_name" validate:"required"`
	Description string                `form:"description" validate:"required"`
	Image       *multipart.FileHeader `form:"-" validate:"-"`
}

// AuthorService handles author use-cases.
type AuthorService struct {
	repo      authorRepository
	store     imageStore
	policy    imagePolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthorService constructs the author service.
func NewAuthorService(repo authorRepository, store imageStore, policy imagePolicy, validate *validator.Validate, logger *zap.Logger) *AuthorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthorService{repo: repo, store: store, policy: policy, validator: validate, logger: logger}
}

// List returns authors and pagination metadata.
func (s *AuthorService) List(ctx context.Context, filter models.ListFilter) ([]models.Author, *models.Pagination, error) {
	authors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list authors")
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	return authors, models.NewPagination(filter.Page, perPage, total), nil
}

// Get returns a single author.
func (s *AuthorService) Get(ctx context.Context, id int64) (*models.Author, error) {
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "author not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load author")
	}
	return author, nil
}

// Create registers a new author, storing the uploaded image first when present.
func (s *AuthorService) Create(ctx context.Context, req AuthorRequest) (*models.Author, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	author := &models.Author{
		AuthorName:  req.AuthorName,
		Description: req.Description,
	}

	if req.Image != nil {
		name, err := s.store.SaveImage(authorImageFolder, req.Image)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store author image")
		}
		author.Image = &name
	}

	if err := s.repo.Create(ctx, author); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create author")
	}
	return author, nil
}

// Update modifies an existing author, replacing the stored image when a new
// one is supplied.
func (s *AuthorService) Update(ctx context.Context, id int64, req AuthorRequest) (*models.Author, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	author, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	author.AuthorName = req.AuthorName
	author.Description = req.Description

	if req.Image != nil {
		if author.Image != nil {
			if err := s.store.DeleteImage(authorImageFolder, *author.Image); err != nil {
				s.logger.Warn("failed to delete replaced author image", zap.Error(err))
			}
		}
		name, err := s.store.SaveImage(authorImageFolder, req.Image)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store author image")
		}
		author.Image = &name
	}

	if err := s.repo.Update(ctx, author); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update author")
	}
	return author, nil
}

// Delete removes an author and its stored image blob.
func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	author, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if author.Image != nil {
		if err := s.store.DeleteImage(authorImageFolder, *author.Image); err != nil {
			s.logger.Warn("failed to delete author image", zap.Error(err))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete author")
	}
	return nil
}

// Count returns the total number of authors.
func (s *AuthorService) Count(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count authors")
	}
	return total, nil
}

func (s *AuthorService) validate(req AuthorRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid author payload")
	}
	if req.Image != nil && s.policy != nil {
		if err := s.policy.Validate(req.Image); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}
	return nil
}
