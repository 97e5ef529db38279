package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rsvpd/entity"
)

// RsvpByGuest loads the guest's RSVP with its attendees, primary first then
// by name, in a single statement so a concurrent replace is never observed
// half-way. Returns nil when the guest has not responded.
func (s *Store) RsvpByGuest(ctx context.Context, guestID string) (*entity.Rsvp, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.guest_id, r.responded_at,
		        a.id, a.name, a.is_attending, a.meal_preference, a.dietary_restrictions, a.is_primary
		   FROM rsvps r
		   LEFT JOIN rsvp_attendees a ON a.rsvp_id = r.id
		  WHERE r.guest_id = ?
		  ORDER BY a.is_primary DESC, a.name`, guestID)
	if err != nil {
		return nil, fmt.Errorf("select rsvp: %w", err)
	}
	defer rows.Close()

	var rsvp *entity.Rsvp
	for rows.Next() {
		var r entity.Rsvp
		var id, name, meal, diet sql.NullString
		var attending, primary sql.NullBool
		if err = rows.Scan(
			&r.ID,
			&r.GuestID,
			&r.RespondedAt,
			&id,
			&name,
			&attending,
			&meal,
			&diet,
			&primary,
		); err != nil {
			return nil, fmt.Errorf("scan rsvp: %w", err)
		}
		if rsvp == nil {
			r.RespondedAt = utc(r.RespondedAt)
			r.Attendees = make([]*entity.Attendee, 0)
			rsvp = &r
		}
		if !id.Valid {
			continue
		}
		rsvp.Attendees = append(rsvp.Attendees, &entity.Attendee{
			ID:                  id.String,
			RsvpID:              rsvp.ID,
			Name:                name.String,
			IsAttending:         attending.Bool,
			MealPreference:      ptrNull(meal),
			DietaryRestrictions: ptrNull(diet),
			IsPrimary:           primary.Bool,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rsvp, nil
}

// ReplaceRsvp drops the guest's previous RSVP with its attendees and writes
// the new one. Call it inside Update so the swap is all-or-nothing.
func (t *Tx) ReplaceRsvp(ctx context.Context, rsvp *entity.Rsvp, now time.Time) error {
	if _, err := t.tx.ExecContext(ctx,
		`DELETE FROM rsvp_attendees WHERE rsvp_id IN (SELECT id FROM rsvps WHERE guest_id = ?)`,
		rsvp.GuestID); err != nil {
		return fmt.Errorf("delete attendees: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM rsvps WHERE guest_id = ?`, rsvp.GuestID); err != nil {
		return fmt.Errorf("delete rsvp: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO rsvps (id, guest_id, responded_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		rsvp.ID, rsvp.GuestID, utc(rsvp.RespondedAt), utc(now), utc(now)); err != nil {
		return t.s.wrapInsert("insert rsvp", err)
	}
	for _, a := range rsvp.Attendees {
		if _, err := t.tx.ExecContext(ctx,
			`INSERT INTO rsvp_attendees (id, rsvp_id, name, is_attending, meal_preference, dietary_restrictions, is_primary)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, rsvp.ID, a.Name, a.IsAttending, nullPtr(a.MealPreference), nullPtr(a.DietaryRestrictions), a.IsPrimary,
		); err != nil {
			return t.s.wrapInsert("insert attendee", err)
		}
	}
	return nil
}
