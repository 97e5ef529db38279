package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rsvpd/entity"
)

// InviteCodeByCode returns nil without error when the code is unknown.
func (s *Store) InviteCodeByCode(ctx context.Context, code string) (*entity.InviteCode, error) {
	var c entity.InviteCode
	var guestID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, code_type, guest_id, created_at FROM invite_codes WHERE code = ?`, code,
	).Scan(&c.ID, &c.Code, &c.CodeType, &guestID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select invite code: %w", err)
	}
	c.GuestID = guestID.String
	c.CreatedAt = utc(c.CreatedAt)
	return &c, nil
}

// GuestCode returns the current guest-type code of a guest, or "".
func (s *Store) GuestCode(ctx context.Context, guestID string) (string, error) {
	var code string
	err := s.db.QueryRowContext(ctx,
		`SELECT code FROM invite_codes WHERE guest_id = ? AND code_type = ? ORDER BY created_at DESC LIMIT 1`,
		guestID, string(entity.CodeGuest),
	).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select guest code: %w", err)
	}
	return code, nil
}

func (t *Tx) CodeExists(ctx context.Context, code string) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM invite_codes WHERE code = ?`, code).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count invite code: %w", err)
	}
	return n > 0, nil
}

// InsertCode fails with ErrDuplicate when the code is already taken.
func (t *Tx) InsertCode(ctx context.Context, c *entity.InviteCode) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO invite_codes (id, code, code_type, guest_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Code, c.CodeType, nullString(c.GuestID), utc(c.CreatedAt))
	return t.s.wrapInsert("insert invite code", err)
}

func (t *Tx) DeleteGuestCodes(ctx context.Context, guestID string) error {
	_, err := t.tx.ExecContext(ctx,
		`DELETE FROM invite_codes WHERE guest_id = ? AND code_type = ?`,
		guestID, string(entity.CodeGuest))
	if err != nil {
		return fmt.Errorf("delete guest codes: %w", err)
	}
	return nil
}
