package models

import "time"

// Author represents a book author.
type Author struct {
	AuthorID    int64     `db:"author_id" json:"author_id"`
	AuthorName  string    `db:"author_name" json:"author_name"`
	Description string    `db:"description" json:"description"`
	Image       *string   `db:"image" json:"image"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
