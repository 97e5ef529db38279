package database

import (
	"context"
	"fmt"
)

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS guests (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		party_size INTEGER NOT NULL CHECK (party_size > 0),
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invite_codes (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		code_type TEXT NOT NULL,
		guest_id TEXT NULL REFERENCES guests(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invite_codes_guest ON invite_codes(guest_id)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		session_type TEXT NOT NULL,
		guest_id TEXT NULL REFERENCES guests(id) ON DELETE CASCADE,
		admin_id TEXT NULL REFERENCES admins(id) ON DELETE CASCADE,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rsvps (
		id TEXT PRIMARY KEY,
		guest_id TEXT NOT NULL UNIQUE REFERENCES guests(id) ON DELETE CASCADE,
		responded_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rsvp_attendees (
		id TEXT PRIMARY KEY,
		rsvp_id TEXT NOT NULL REFERENCES rsvps(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		is_attending BOOLEAN NOT NULL,
		meal_preference TEXT NULL,
		dietary_restrictions TEXT NULL,
		is_primary BOOLEAN NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rsvp_attendees_rsvp ON rsvp_attendees(rsvp_id)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		event_type TEXT NOT NULL,
		event_date TEXT NOT NULL,
		event_time TEXT NOT NULL,
		location_name TEXT NOT NULL,
		location_address TEXT NOT NULL,
		description TEXT NULL,
		display_order INTEGER NOT NULL DEFAULT 0
	)`,
}

// invite codes are case-sensitive, hence the binary collation
var schemaMySQL = []string{
	`CREATE TABLE IF NOT EXISTS guests (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		party_size INT NOT NULL CHECK (party_size > 0),
		created_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS admins (
		id CHAR(36) NOT NULL PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS invite_codes (
		id CHAR(36) NOT NULL PRIMARY KEY,
		code VARCHAR(50) COLLATE utf8mb4_bin NOT NULL UNIQUE,
		code_type VARCHAR(16) NOT NULL,
		guest_id CHAR(36) NULL,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_invite_codes_guest (guest_id),
		FOREIGN KEY (guest_id) REFERENCES guests(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id CHAR(36) NOT NULL PRIMARY KEY,
		token CHAR(64) COLLATE utf8mb4_bin NOT NULL UNIQUE,
		session_type VARCHAR(16) NOT NULL,
		guest_id CHAR(36) NULL,
		admin_id CHAR(36) NULL,
		expires_at DATETIME(6) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		FOREIGN KEY (guest_id) REFERENCES guests(id) ON DELETE CASCADE,
		FOREIGN KEY (admin_id) REFERENCES admins(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS rsvps (
		id CHAR(36) NOT NULL PRIMARY KEY,
		guest_id CHAR(36) NOT NULL UNIQUE,
		responded_at DATETIME(6) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		FOREIGN KEY (guest_id) REFERENCES guests(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS rsvp_attendees (
		id CHAR(36) NOT NULL PRIMARY KEY,
		rsvp_id CHAR(36) NOT NULL,
		name VARCHAR(100) NOT NULL,
		is_attending BOOLEAN NOT NULL,
		meal_preference VARCHAR(32) NULL,
		dietary_restrictions VARCHAR(500) NULL,
		is_primary BOOLEAN NOT NULL,
		INDEX idx_rsvp_attendees_rsvp (rsvp_id),
		FOREIGN KEY (rsvp_id) REFERENCES rsvps(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS events (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		event_type VARCHAR(50) NOT NULL,
		event_date CHAR(10) NOT NULL,
		event_time CHAR(5) NOT NULL,
		location_name VARCHAR(200) NOT NULL,
		location_address VARCHAR(500) NOT NULL,
		description TEXT NULL,
		display_order INT NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// migrate creates missing tables one statement at a time; the MySQL driver
// does not run multi-statement strings without multiStatements=true.
func (s *Store) migrate(ctx context.Context) error {
	statements := schemaSQLite
	if s.dialect == dialectMySQL {
		statements = schemaMySQL
	}
	for i, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
