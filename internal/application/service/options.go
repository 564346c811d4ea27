package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/registry/internal/application/dispatcher"
	"github.com/procureflow/registry/internal/application/port"
	"github.com/procureflow/registry/internal/domain/event"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Option configures a service
type Option func(*options)

type options struct {
	now          func() time.Time
	newID        func() string
	recordNumber func() int
	pick         func(n int) int
	dispatcher   dispatcher.Dispatcher
	inspector    port.AttachmentInspector
}

func defaultOptions() options {
	return options{
		now:          time.Now,
		newID:        uuid.NewString,
		recordNumber: func() int { return rand.Intn(9000) + 1000 },
		pick:         rand.Intn,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for new records and users
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// WithRecordNumbers replaces the random 1000-9999 record number source
func WithRecordNumbers(next func() int) Option {
	return func(o *options) {
		o.recordNumber = next
	}
}

// WithPicker replaces the random index source used for avatar colors
func WithPicker(pick func(n int) int) Option {
	return func(o *options) {
		o.pick = pick
	}
}

// WithDispatcher publishes domain events to d
func WithDispatcher(d dispatcher.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithInspector validates uploaded PDFs before they are attached
func WithInspector(inspector port.AttachmentInspector) Option {
	return func(o *options) {
		o.inspector = inspector
	}
}

func (o options) today() string {
	return o.now().Format("2006-01-02")
}

func (o options) timestamp() string {
	return o.now().UTC().Format(time.RFC3339)
}

// publish never fails the caller; handler errors are only logged
func (o options) publish(ctx context.Context, logger Logger, evt *event.Event) {
	if o.dispatcher == nil {
		return
	}
	if err := o.dispatcher.Dispatch(ctx, evt); err != nil {
		logger.Error("Failed to publish event", "event_type", evt.Type, "error", err)
	}
}
