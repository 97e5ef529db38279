package database

import (
	"context"
	"database/sql"
	"fmt"
)

// prepareStmt caches statements for queries that run on every request.
func (s *Store) prepareStmt(ctx context.Context, name, query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stmt, ok := s.statements[name]; ok {
		return stmt, nil
	}

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare statement [%s]: %w", name, err)
	}

	s.statements[name] = stmt
	return stmt, nil
}

func (s *Store) closeStmt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, stmt := range s.statements {
		_ = stmt.Close()
		delete(s.statements, name)
	}
}

func (s *Store) stmtSessionByToken(ctx context.Context) (*sql.Stmt, error) {
	return s.prepareStmt(ctx, "sessionByToken",
		`SELECT id, token, session_type, guest_id, admin_id, expires_at, created_at
		   FROM sessions
		  WHERE token = ?`)
}

func (s *Store) stmtGuestByID(ctx context.Context) (*sql.Stmt, error) {
	return s.prepareStmt(ctx, "guestByID",
		`SELECT id, name, party_size, created_at FROM guests WHERE id = ?`)
}

func (s *Store) stmtAdminByID(ctx context.Context) (*sql.Stmt, error) {
	return s.prepareStmt(ctx, "adminByID",
		`SELECT id, username, password_hash, created_at FROM admins WHERE id = ?`)
}
