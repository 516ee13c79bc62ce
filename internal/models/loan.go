package models

import "time"

// Loan status values. A loan is open until the book comes back; returned is terminal.
const (
	LoanStatusNotReturned = "not_returned"
	LoanStatusReturned    = "returned"
)

// Payment status values for a loan.
const (
	PaymentStatusNotFined = "not_fined"
	PaymentStatusPenalty  = "penalty"
)

// Loan tracks one student borrowing one book.
type Loan struct {
	LoanID        int64      `db:"loan_id" json:"loan_id"`
	StudentID     int64      `db:"student_id" json:"student_id"`
	BookID        int64      `db:"book_id" json:"book_id"`
	LoanDate      time.Time  `db:"loan_date" json:"loan_date"`
	ReturnDate    *time.Time `db:"return_date" json:"return_date"`
	Status        string     `db:"status" json:"status"`
	StatusPayment string     `db:"status_payment" json:"status_payment"`
	Penalty       int        `db:"penalty" json:"penalty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// LoanDetail joins a loan with its student, classroom and book for display.
type LoanDetail struct {
	Loan
	StudentName string `db:"student_name" json:"student_name"`
	ClassName   string `db:"class_name" json:"class_name"`
	BookName    string `db:"book_name" json:"book_name"`
	AuthorName  string `db:"author_name" json:"author_name"`
}
