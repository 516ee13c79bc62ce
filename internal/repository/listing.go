package repository

import (
	"strings"

	"github.com/noah-isme/perpus-api/internal/models"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// listParams holds normalised sort and paging values ready for SQL interpolation.
type listParams struct {
	column  string
	order   string
	page    int
	perPage int
	offset  int
}

// resolveList whitelists the sort column, normalises the sort order and clamps
// pagination. Unknown sort keys fall back to the entity's primary key.
func resolveList(filter models.ListFilter, allowedSorts map[string]string, defaultSort string) listParams {
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = allowedSorts[defaultSort]
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	return listParams{
		column:  column,
		order:   order,
		page:    page,
		perPage: perPage,
		offset:  (page - 1) * perPage,
	}
}
