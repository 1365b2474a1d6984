package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Employee record 3 not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, "Employee record 3 not found", err.Error())

	wrapped := fmt.Errorf("loading: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var de *DomainError
	assert.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestPage(t *testing.T) {
	p := NewPage(0, 0)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Equal(t, 0, p.Offset())

	p = NewPage(3, 25)
	assert.Equal(t, 50, p.Offset())

	res := NewPaginated([]int{1, 2}, 52, p)
	assert.True(t, res.HasPrevious())
	assert.False(t, res.HasNext())

	res = NewPaginated([]int{1}, 80, NewPage(2, 25))
	assert.True(t, res.HasNext())
}
