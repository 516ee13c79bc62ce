package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/perpus-api/internal/models"
)

// ClassroomRepository manages persistence for classroom records.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs a ClassroomRepository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

var classroomSorts = map[string]string{
	"class_id":   "class_id",
	"class_name": "class_name",
	"created_at": "created_at",
}

// List returns classrooms matching the provided filter.
func (r *ClassroomRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Classroom, int, error) {
	base := "FROM classrooms"
	args := []interface{}{}
	if filter.Name != "" {
		base += " WHERE class_name ILIKE $1"
		args = append(args, "%"+filter.Name+"%")
	}

	params := resolveList(filter, classroomSorts, "class_id")
	query := fmt.Sprintf("SELECT class_id, class_name, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d",
		base, params.column, params.order, params.perPage, params.offset)

	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classrooms: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count classrooms: %w", err)
	}
	return classrooms, total, nil
}

// FindByID fetches a classroom by ID.
func (r *ClassroomRepository) FindByID(ctx context.Context, id int64) (*models.Classroom, error) {
	var classroom models.Classroom
	const query = `SELECT class_id, class_name, created_at, updated_at FROM classrooms WHERE class_id = $1`
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, err
	}
	return &classroom, nil
}

// Exists reports whether a classroom with the given ID is present.
func (r *ClassroomRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	if err := r.db.GetContext(ctx, &one, "SELECT 1 FROM classrooms WHERE class_id = $1 LIMIT 1", id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check classroom: %w", err)
	}
	return true, nil
}

// Create inserts a new classroom record.
func (r *ClassroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	now := time.Now().UTC()
	classroom.CreatedAt = now
	classroom.UpdatedAt = now
	const query = `INSERT INTO classrooms (class_name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING class_id`
	if err := r.db.GetContext(ctx, &classroom.ClassID, query, classroom.ClassName, classroom.CreatedAt, classroom.UpdatedAt); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// Update modifies an existing classroom.
func (r *ClassroomRepository) Update(ctx context.Context, classroom *models.Classroom) error {
	classroom.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classrooms SET class_name = $2, updated_at = $3 WHERE class_id = $1`
	if _, err := r.db.ExecContext(ctx, query, classroom.ClassID, classroom.ClassName, classroom.UpdatedAt); err != nil {
		return fmt.Errorf("update classroom: %w", err)
	}
	return nil
}

// Delete removes a classroom row.
func (r *ClassroomRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classrooms WHERE class_id = $1`, id); err != nil {
		return fmt.Errorf("delete classroom: %w", err)
	}
	return nil
}

// Count returns the number of classroom rows.
func (r *ClassroomRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM classrooms"); err != nil {
		return 0, fmt.Errorf("count classrooms: %w", err)
	}
	return total, nil
}
