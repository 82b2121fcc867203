package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(1, 25)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 25, limit)

	offset, limit = CalculateOffsetLimit(3, 10)
	assert.Equal(t, uint64(20), offset)
	assert.Equal(t, 10, limit)

	// Out-of-range inputs fall back to the defaults
	offset, limit = CalculateOffsetLimit(0, 0)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, DefaultPageSize, limit)

	_, limit = CalculateOffsetLimit(1, MaxPageSize+1)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(87, 1, 25)
	assert.Equal(t, 1, info.CurrentPage)
	assert.Equal(t, 4, info.TotalPages)
	assert.Equal(t, int64(87), info.TotalItems)

	// Page past the end clamps to the last page
	info = NewPaginationInfo(10, 9, 5)
	assert.Equal(t, 2, info.CurrentPage)

	// Empty result set still reports one page
	info = NewPaginationInfo(0, 1, 25)
	assert.Equal(t, 1, info.TotalPages)
}
