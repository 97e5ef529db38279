package admin

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"rsvpd/entity"
	"rsvpd/lib/apperr"
)

// Events lists events in display order; the same list backs the public page.
func (a *Admin) Events(ctx context.Context) (*entity.EventList, error) {
	events, err := a.store.ListEvents(ctx)
	if err != nil {
		return nil, apperr.Database("list events", err)
	}
	return &entity.EventList{Events: events}, nil
}

func (a *Admin) CreateEvent(ctx context.Context, req *entity.EventRequest) (*entity.Event, error) {
	event := req.Event(uuid.NewString())
	if err := a.store.CreateEvent(ctx, event); err != nil {
		return nil, apperr.Database("create event", err)
	}
	a.log.With(slog.String("event_id", event.ID)).Info("event created")
	return event, nil
}

func (a *Admin) UpdateEvent(ctx context.Context, id string, req *entity.EventRequest) (*entity.Event, error) {
	event := req.Event(id)
	ok, err := a.store.UpdateEvent(ctx, event)
	if err != nil {
		return nil, apperr.Database("update event", err)
	}
	if !ok {
		return nil, apperr.NotFound("Event not found")
	}
	return event, nil
}

func (a *Admin) DeleteEvent(ctx context.Context, id string) error {
	ok, err := a.store.DeleteEvent(ctx, id)
	if err != nil {
		return apperr.Database("delete event", err)
	}
	if !ok {
		return apperr.NotFound("Event not found")
	}
	return nil
}
