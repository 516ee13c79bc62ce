package models

import "time"

// Classroom groups students into a class.
type Classroom struct {
	ClassID   int64     `db:"class_id" json:"class_id"`
	ClassName string    `db:"class_name" json:"class_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
