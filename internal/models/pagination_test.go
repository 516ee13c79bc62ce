package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		perPage   int
		total     int
		wantPages int
	}{
		{name: "uneven last page", page: 1, perPage: 3, total: 7, wantPages: 3},
		{name: "exact fit", page: 2, perPage: 5, total: 10, wantPages: 2},
		{name: "empty result", page: 1, perPage: 10, total: 0, wantPages: 0},
		{name: "single partial page", page: 1, perPage: 6, total: 4, wantPages: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.perPage, tc.total)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.perPage, p.PerPage)
			assert.Equal(t, tc.total, p.TotalCount)
			assert.Equal(t, tc.wantPages, p.TotalPages)
		})
	}
}

func TestNewPaginationClampsInvalidInput(t *testing.T) {
	p := NewPagination(0, 0, 7)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.PerPage)
	assert.Equal(t, 7, p.TotalPages)
}
