package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rsvpd/entity"
)

func scanAdmin(row rowScanner) (*entity.Admin, error) {
	var a entity.Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.CreatedAt = utc(a.CreatedAt)
	return &a, nil
}

// AdminByUsername returns nil without error when no admin has that username.
func (s *Store) AdminByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	a, err := scanAdmin(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select admin: %w", err)
	}
	return a, nil
}

func (s *Store) AdminByID(ctx context.Context, id string) (*entity.Admin, error) {
	stmt, err := s.stmtAdminByID(ctx)
	if err != nil {
		return nil, err
	}
	a, err := scanAdmin(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select admin: %w", err)
	}
	return a, nil
}

func (s *Store) UpdateAdminPassword(ctx context.Context, id, hash string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE admins SET password_hash = ? WHERE id = ?`, hash, id); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return nil
}

// UpsertAdmin creates the admin or replaces the password hash of an existing
// one with the same username. It returns the stored admin.
func (t *Tx) UpsertAdmin(ctx context.Context, a *entity.Admin) (*entity.Admin, error) {
	existing, err := scanAdmin(t.tx.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`, a.Username))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = t.tx.ExecContext(ctx,
			`INSERT INTO admins (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
			a.ID, a.Username, a.PasswordHash, utc(a.CreatedAt))
		if err != nil {
			return nil, t.s.wrapInsert("insert admin", err)
		}
		return a, nil
	case err != nil:
		return nil, fmt.Errorf("select admin: %w", err)
	}
	if _, err = t.tx.ExecContext(ctx,
		`UPDATE admins SET password_hash = ? WHERE id = ?`, a.PasswordHash, existing.ID); err != nil {
		return nil, fmt.Errorf("update admin: %w", err)
	}
	existing.PasswordHash = a.PasswordHash
	return existing, nil
}
