package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPagination derives full pagination metadata from a page request and row count.
func NewPagination(page, perPage, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	return &Pagination{Page: page, PerPage: perPage, TotalCount: total, TotalPages: pages}
}

// ListFilter captures common filter, sort and pagination parameters for
// record listings. Filter matches the entity's name column as a
// case-insensitive substring.
type ListFilter struct {
	Name      string
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}
