package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vetclinic/backend/internal/domain/audit"
)

func TestHandlerRegistry_TypedAndWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	auditHandler := newTestHandler(audit.EventTypeRecordChanged)
	catchAll := newTestHandler()

	registry.Register(auditHandler, audit.EventTypeRecordChanged)
	registry.Register(catchAll)

	handlers := registry.GetHandlers(audit.EventTypeRecordChanged)
	assert.Len(t, handlers, 2)
	assert.Same(t, auditHandler, handlers[0])
	assert.Same(t, catchAll, handlers[1])

	others := registry.GetHandlers("stock.adjusted")
	assert.Len(t, others, 1)
	assert.Same(t, catchAll, others[0])
	assert.Equal(t, 2, registry.Count())
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	h := newTestHandler()

	registry.Register(h, "a", "b")
	registry.Register(h)
	assert.Equal(t, 1, registry.Count())

	registry.Unregister(h)

	assert.Empty(t, registry.GetHandlers("a"))
	assert.Empty(t, registry.GetHandlers("b"))
	assert.Zero(t, registry.Count())
}
