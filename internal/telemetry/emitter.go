// Package telemetry records collection change notifications in the journal.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/mintage/internal/collection/event"
	"github.com/louisbranch/mintage/internal/storage"
)

// Emitter appends change events to the collection journal.
type Emitter struct {
	journal storage.EventJournal
	clock   func() time.Time
	newID   func() string
}

// NewEmitter creates a new emitter over the given journal.
func NewEmitter(journal storage.EventJournal) *Emitter {
	return &Emitter{
		journal: journal,
		clock:   time.Now,
		newID:   uuid.NewString,
	}
}

// Emit assigns id and timestamp when missing and appends the event. It is a
// no-op when no journal is configured.
func (e *Emitter) Emit(ctx context.Context, evt event.Event) (event.Event, error) {
	if e == nil || e.journal == nil {
		return evt, nil
	}
	if evt.ID == "" {
		if e.newID == nil {
			evt.ID = uuid.NewString()
		} else {
			evt.ID = e.newID()
		}
	}
	if evt.Timestamp.IsZero() {
		if e.clock == nil {
			evt.Timestamp = time.Now().UTC()
		} else {
			evt.Timestamp = e.clock().UTC()
		}
	}
	return e.journal.AppendEvent(ctx, evt)
}

// List reads back journal events. It returns nothing when no journal is
// configured.
func (e *Emitter) List(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	if e == nil || e.journal == nil {
		return nil, nil
	}
	return e.journal.ListEvents(ctx, afterSeq, limit)
}
