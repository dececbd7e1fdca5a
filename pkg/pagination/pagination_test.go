package pagination

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      PaginationParams
		page    int
		perPage int
	}{
		{"defaults", PaginationParams{}, 1, DefaultPerPage},
		{"negative page", PaginationParams{Page: -3, PerPage: 10}, 1, 10},
		{"too large", PaginationParams{Page: 2, PerPage: 1000}, 2, MaxPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate()
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.perPage, p.PerPage)
		})
	}
}

func TestPaginationParams_Offset(t *testing.T) {
	p := PaginationParams{Page: 3, PerPage: 20}
	assert.Equal(t, 40, p.Offset())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	last := NewPagination(3, 20, 45)
	assert.False(t, last.HasNext)

	empty := NewPagination(1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestNewPaginatedResult_NilItems(t *testing.T) {
	body, err := json.Marshal(NewPaginatedResult[int](nil, NewPagination(1, 20, 0)))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"items":[]`)
}
