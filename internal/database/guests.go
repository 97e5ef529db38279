package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rsvpd/entity"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuest(row rowScanner) (*entity.Guest, error) {
	var g entity.Guest
	if err := row.Scan(&g.ID, &g.Name, &g.PartySize, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.CreatedAt = utc(g.CreatedAt)
	return &g, nil
}

// GuestByID returns nil without error when the guest does not exist.
func (s *Store) GuestByID(ctx context.Context, id string) (*entity.Guest, error) {
	stmt, err := s.stmtGuestByID(ctx)
	if err != nil {
		return nil, err
	}
	g, err := scanGuest(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select guest: %w", err)
	}
	return g, nil
}

func (s *Store) ListGuests(ctx context.Context) ([]*entity.Guest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, party_size, created_at FROM guests ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("select guests: %w", err)
	}
	defer rows.Close()

	guests := make([]*entity.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return guests, nil
}

// UpdateGuest reports false when no such guest exists.
func (s *Store) UpdateGuest(ctx context.Context, g *entity.Guest) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE guests SET name = ?, party_size = ? WHERE id = ?`,
		g.Name, g.PartySize, g.ID)
	if err != nil {
		return false, fmt.Errorf("update guest: %w", err)
	}
	ok, err := affected(res)
	if err != nil {
		return false, err
	}
	if !ok {
		// MySQL reports zero affected rows when values are unchanged
		existing, err := s.GuestByID(ctx, g.ID)
		if err != nil {
			return false, err
		}
		return existing != nil, nil
	}
	return true, nil
}

// DeleteGuest removes the guest; codes, sessions and the RSVP follow by cascade.
func (s *Store) DeleteGuest(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete guest: %w", err)
	}
	return affected(res)
}

func (t *Tx) InsertGuest(ctx context.Context, g *entity.Guest) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO guests (id, name, party_size, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.Name, g.PartySize, utc(g.CreatedAt))
	return t.s.wrapInsert("insert guest", err)
}

func (t *Tx) GuestExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM guests WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count guest: %w", err)
	}
	return n > 0, nil
}
