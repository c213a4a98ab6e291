package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/compliance-service/internal/events"
)

// publish stamps and emits a domain event. Subscriber failures are absorbed
// by the dispatcher, so publication never affects the primary operation.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = dispatcher.Publish(ctx, event)
}
