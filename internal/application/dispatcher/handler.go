package dispatcher

import (
	"context"

	"github.com/procureflow/registry/internal/domain/event"
)

// Handler reacts to a domain event
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo describes a registered handler
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}
