package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/perpus-api/internal/models"
)

// BookRepository manages persistence for book records.
type BookRepository struct {
	db *sqlx.DB
}

// NewBookRepository constructs a BookRepository.
func NewBookRepository(db *sqlx.DB) *BookRepository {
	return &BookRepository{db: db}
}

var bookSorts = map[string]string{
	"book_id":    "book_id",
	"book_name":  "book_name",
	"stock":      "stock",
	"created_at": "created_at",
}

const bookColumns = "book_id, author_id, book_name, stock, image, created_at, updated_at"

// List returns books matching the provided filter.
func (r *BookRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Book, int, error) {
	base := "FROM books"
	args := []interface{}{}
	if filter.Name != "" {
		base += " WHERE book_name ILIKE $1"
		args = append(args, "%"+filter.Name+"%")
	}

	params := resolveList(filter, bookSorts, "book_id")
	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		bookColumns, base, params.column, params.order, params.perPage, params.offset)

	var books []models.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	return books, total, nil
}

// FindByID fetches a book by ID.
func (r *BookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	query := fmt.Sprintf("SELECT %s FROM books WHERE book_id = $1", bookColumns)
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		return nil, err
	}
	return &book, nil
}

// Exists reports whether a book with the given ID is present.
func (r *BookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, "SELECT 1 FROM books WHERE book_id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check book: %w", err)
	}
	return true, nil
}

// Create inserts a new book record.
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now
	const query = `INSERT INTO books (author_id, book_name, stock, image, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING book_id`
	if err := r.db.GetContext(ctx, &book.BookID, query,
		book.AuthorID, book.BookName, book.Stock, book.Image, book.CreatedAt, book.UpdatedAt); err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// Update modifies an existing book.
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now().UTC()
	const query = `UPDATE books SET author_id = $2, book_name = $3, stock = $4, image = $5, updated_at = $6 WHERE book_id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		book.BookID, book.AuthorID, book.BookName, book.Stock, book.Image, book.UpdatedAt); err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// Delete removes a book row.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE book_id = $1`, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// Count returns the number of book rows.
func (r *BookRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM books"); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}
