package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rsvpd/entity"
)

const recentRsvpLimit = 5

// RsvpSummary counts attending and declining attendees of the guest's RSVP.
func (s *Store) RsvpSummary(ctx context.Context, guestID string) (entity.RsvpSummary, error) {
	var summary entity.RsvpSummary
	var rsvpID string
	var respondedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT id, responded_at FROM rsvps WHERE guest_id = ?`, guestID,
	).Scan(&rsvpID, &respondedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return summary, nil
	}
	if err != nil {
		return summary, fmt.Errorf("select rsvp: %w", err)
	}
	respondedAt = utc(respondedAt)
	summary.RespondedAt = &respondedAt
	summary.HasResponded = true
	summary.AttendingCount, summary.NotAttendingCount, err = s.attendeeCounts(ctx, s.db,
		`WHERE rsvp_id = ?`, rsvpID)
	return summary, err
}

func (s *Store) DashboardStats(ctx context.Context) (*entity.DashboardStats, error) {
	stats := &entity.DashboardStats{RecentRsvps: make([]*entity.RecentRsvp, 0)}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(party_size), 0) FROM guests`,
	).Scan(&stats.TotalGuests, &stats.TotalExpectedAttendees); err != nil {
		return nil, fmt.Errorf("count guests: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rsvps`).Scan(&stats.RsvpCount); err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}
	stats.PendingRsvps = stats.TotalGuests - stats.RsvpCount

	var err error
	stats.AttendingCount, stats.NotAttendingCount, err = s.attendeeCounts(ctx, s.db, "")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, g.name, r.responded_at
		   FROM rsvps r
		   JOIN guests g ON g.id = r.guest_id
		  ORDER BY r.responded_at DESC
		  LIMIT ?`, recentRsvpLimit)
	if err != nil {
		return nil, fmt.Errorf("select recent rsvps: %w", err)
	}
	ids := make([]string, 0, recentRsvpLimit)
	for rows.Next() {
		var id string
		var recent entity.RecentRsvp
		if err = rows.Scan(&id, &recent.GuestName, &recent.RespondedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan recent rsvp: %w", err)
		}
		recent.RespondedAt = utc(recent.RespondedAt)
		ids = append(ids, id)
		stats.RecentRsvps = append(stats.RecentRsvps, &recent)
	}
	if err = rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i, id := range ids {
		recent := stats.RecentRsvps[i]
		recent.AttendingCount, recent.NotAttendingCount, err = s.attendeeCounts(ctx, s.db, `WHERE rsvp_id = ?`, id)
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (s *Store) attendeeCounts(ctx context.Context, q querier, where string, args ...any) (int, int, error) {
	var attending, declined int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN is_attending THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN is_attending THEN 0 ELSE 1 END), 0)
		   FROM rsvp_attendees `+where, args...,
	).Scan(&attending, &declined)
	if err != nil {
		return 0, 0, fmt.Errorf("count attendees: %w", err)
	}
	return attending, declined, nil
}
