package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/perpus-api/internal/models"
)

// AuthorRepository manages persistence for author records.
type AuthorRepository struct {
	db *sqlx.DB
}

// NewAuthorRepository constructs an AuthorRepository.
func NewAuthorRepository(db *sqlx.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

var authorSorts = map[string]string{
	"author_id":   "author_id",
	"author_name": "author_name",
	"created_at":  "created_at",
}

const authorColumns = "author_id, author_name, description, image, created_at, updated_at"

// List returns authors matching the provided filter.
func (r *AuthorRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Author, int, error) {
	base := "FROM authors"
	args := []interface{}{}
	if filter.Name != "" {
		base += " WHERE author_name ILIKE $1"
		args = append(args, "%"+filter.Name+"%")
	}

	params := resolveList(filter, authorSorts, "author_id")
	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		authorColumns, base, params.column, params.order, params.perPage, params.offset)

	var authors []models.Author
	if err := r.db.SelectContext(ctx, &authors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}
	return authors, total, nil
}

// FindByID fetches an author by ID.
func (r *AuthorRepository) FindByID(ctx context.Context, id int64) (*models.Author, error) {
	var author models.Author
	query := fmt.Sprintf("SELECT %s FROM authors WHERE author_id = $1", authorColumns)
	if err := r.db.GetContext(ctx, &author, query, id); err != nil {
		return nil, err
	}
	return &author, nil
}

// Exists reports whether an author with the given ID is present.
func (r *AuthorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, "SELECT 1 FROM authors WHERE author_id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check author: %w", err)
	}
	return true, nil
}

// Create inserts a new author record.
func (r *AuthorRepository) Create(ctx context.Context, author *models.Author) error {
	now := time.Now().UTC()
	author.CreatedAt = now
	author.UpdatedAt = now
	const query = `INSERT INTO authors (author_name, description, image, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING author_id`
	if err := r.db.GetContext(ctx, &author.AuthorID, query,
		author.AuthorName, author.Description, author.Image, author.CreatedAt, author.UpdatedAt); err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	return nil
}

// Update modifies an existing author.
func (r *AuthorRepository) Update(ctx context.Context, author *models.Author) error {
	author.UpdatedAt = time.Now().UTC()
	const query = `UPDATE authors SET author_name = $2, description = $3, image = $4, updated_at = $5 WHERE author_id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		author.AuthorID, author.AuthorName, author.Description, author.Image, author.UpdatedAt); err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	return nil
}

// Delete removes an author row.
func (r *AuthorRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM authors WHERE author_id = $1`, id); err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	return nil
}

// Count returns the number of author rows.
func (r *AuthorRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM authors"); err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return total, nil
}
