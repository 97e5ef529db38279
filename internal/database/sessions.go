package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rsvpd/entity"
)

// SessionByToken returns the stored session, expired or not; nil when absent.
// The stored session_type is returned as-is so the caller can treat an
// unknown value as an integrity fault.
func (s *Store) SessionByToken(ctx context.Context, token string) (*entity.Session, error) {
	stmt, err := s.stmtSessionByToken(ctx)
	if err != nil {
		return nil, err
	}
	var session entity.Session
	var sessionType string
	var guestID, adminID sql.NullString
	err = stmt.QueryRowContext(ctx, token).Scan(
		&session.ID,
		&session.Token,
		&sessionType,
		&guestID,
		&adminID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	session.SessionType = entity.SessionType(sessionType)
	session.GuestID = guestID.String
	session.AdminID = adminID.String
	session.ExpiresAt = utc(session.ExpiresAt)
	session.CreatedAt = utc(session.CreatedAt)
	return &session, nil
}

func (s *Store) CreateSession(ctx context.Context, session *entity.Session) error {
	return insertSession(ctx, s.db, s, session)
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return deleteSession(ctx, s.db, id)
}

func (t *Tx) CreateSession(ctx context.Context, session *entity.Session) error {
	return insertSession(ctx, t.tx, t.s, session)
}

func (t *Tx) DeleteSession(ctx context.Context, id string) error {
	return deleteSession(ctx, t.tx, id)
}

func insertSession(ctx context.Context, q querier, s *Store, session *entity.Session) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO sessions (id, token, session_type, guest_id, admin_id, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Token,
		string(session.SessionType),
		nullString(session.GuestID),
		nullString(session.AdminID),
		utc(session.ExpiresAt),
		utc(session.CreatedAt),
	)
	return s.wrapInsert("insert session", err)
}

func deleteSession(ctx context.Context, q querier, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
