package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	typed := newTestHandler("A")
	both := newTestHandler("A", "B")
	all := newTestHandler()

	r.Register(typed, "A")
	r.Register(both, "A", "B")
	r.Register(all)

	assert.Len(t, r.GetHandlers("A"), 3)
	assert.Len(t, r.GetHandlers("B"), 2)
	assert.Len(t, r.GetHandlers("C"), 1)

	r.Unregister(both)
	assert.Len(t, r.GetHandlers("A"), 2)
	assert.Len(t, r.GetHandlers("B"), 1)
	assert.NotContains(t, r.handlers, "B")
}
