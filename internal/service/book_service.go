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

type bookRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Book, int, error)
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type authorChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// BookRequest holds the multipart payload for creating or updating books.
type BookRequest struct {
	AuthorID int64                 `form:"author_id" validate:"required"`
	BookName string                `form:"book_name" validate:"required"`
	Stock    int                   `form:"stock" validate:"min=0"`
	Image    *multipart.FileHeader `form:"-" validate:"-"`
}

// BookService handles book use-cases.
type BookService struct {
	repo      bookRepository
	authors   authorChecker
	store     imageStore
	policy    imagePolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookService constructs the book service.
func NewBookService(repo bookRepository, authors authorChecker, store imageStore, policy imagePolicy, validate *validator.Validate, logger *zap.Logger) *BookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookService{repo: repo, authors: authors, store: store, policy: policy, validator: validate, logger: logger}
}

// List returns books and pagination metadata.
func (s *BookService) List(ctx context.Context, filter models.ListFilter) ([]models.Book, *models.Pagination, error) {
	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list books")
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	return books, models.NewPagination(filter.Page, perPage, total), nil
}

// Get returns a single book.
func (s *BookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	return book, nil
}

// Create registers a new book, storing the uploaded image first when present.
// The author must exist; otherwise no row is persisted.
func (s *BookService) Create(ctx context.Context, req BookRequest) (*models.Book, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	book := &models.Book{
		AuthorID: req.AuthorID,
		BookName: req.BookName,
		Stock:    req.Stock,
	}

	if req.Image != nil {
		name, err := s.store.SaveImage(bookImageFolder, req.Image)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store book image")
		}
		book.Image = &name
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create book")
	}
	return book, nil
}

// Update modifies an existing book, replacing the stored image when a new one
// is supplied.
func (s *BookService) Update(ctx context.Context, id int64, req BookRequest) (*models.Book, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	book.AuthorID = req.AuthorID
	book.BookName = req.BookName
	book.Stock = req.Stock

	if req.Image != nil {
		if book.Image != nil {
			if err := s.store.DeleteImage(bookImageFolder, *book.Image); err != nil {
				s.logger.Warn("failed to delete replaced book image", zap.Error(err))
			}
		}
		name, err := s.store.SaveImage(bookImageFolder, req.Image)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store book image")
		}
		book.Image = &name
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update book")
	}
	return book, nil
}

// Delete removes a book and its stored image blob.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	book, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if book.Image != nil {
		if err := s.store.DeleteImage(bookImageFolder, *book.Image); err != nil {
			s.logger.Warn("failed to delete book image", zap.Error(err))
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete book")
	}
	return nil
}

// Count returns the total number of books.
func (s *BookService) Count(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count books")
	}
	return total, nil
}

func (s *BookService) validate(ctx context.Context, req BookRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid book payload")
	}
	exists, err := s.authors.Exists(ctx, req.AuthorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate author_id")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrValidation, "Invalid author_id. Author does not exist.")
	}
	if req.Image != nil && s.policy != nil {
		if err := s.policy.Validate(req.Image); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}
	return nil
}
