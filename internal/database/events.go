package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rsvpd/entity"
)

const eventColumns = `id, name, event_type, event_date, event_time, location_name, location_address, description, display_order`

func scanEvent(row rowScanner) (*entity.Event, error) {
	var e entity.Event
	var description sql.NullString
	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.EventType,
		&e.EventDate,
		&e.EventTime,
		&e.LocationName,
		&e.LocationAddress,
		&description,
		&e.DisplayOrder,
	); err != nil {
		return nil, err
	}
	e.Description = ptrNull(description)
	return &e, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]*entity.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY display_order, event_date, event_time`)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	events := make([]*entity.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) EventByID(ctx context.Context, id string) (*entity.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select event: %w", err)
	}
	return e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *entity.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.EventType, e.EventDate, e.EventTime, e.LocationName, e.LocationAddress,
		nullPtr(e.Description), e.DisplayOrder)
	return s.wrapInsert("insert event", err)
}

// UpdateEvent reports false when no such event exists.
func (s *Store) UpdateEvent(ctx context.Context, e *entity.Event) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events
		    SET name = ?, event_type = ?, event_date = ?, event_time = ?,
		        location_name = ?, location_address = ?, description = ?, display_order = ?
		  WHERE id = ?`,
		e.Name, e.EventType, e.EventDate, e.EventTime, e.LocationName, e.LocationAddress,
		nullPtr(e.Description), e.DisplayOrder, e.ID)
	if err != nil {
		return false, fmt.Errorf("update event: %w", err)
	}
	ok, err := affected(res)
	if err != nil || ok {
		return ok, err
	}
	existing, err := s.EventByID(ctx, e.ID)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return affected(res)
}
