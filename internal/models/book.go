package models

import "time"

// Book represents a title in the library collection.
type Book struct {
	BookID    int64     `db:"book_id" json:"book_id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	BookName  string    `db:"book_name" json:"book_name"`
	Stock     int       `db:"stock" json:"stock"`
	Image     *string   `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
