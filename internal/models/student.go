package models

import "time"

// Gender values accepted for students.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Student represents a library member enrolled in a classroom.
type Student struct {
	StudentID   int64     `db:"student_id" json:"student_id"`
	ClassID     int64     `db:"class_id" json:"class_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	BirthDay    string    `db:"birth_day" json:"birth_day"`
	Gender      string    `db:"gender" json:"gender"`
	Address     string    `db:"address" json:"address"`
	Image       *string   `db:"image" json:"image"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
