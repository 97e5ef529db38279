package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"rsvpd/internal/config"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

type dialect int

const (
	dialectMySQL dialect = iota
	dialectSQLite
)

// querier is satisfied by both *sql.DB and *sql.Tx so every query helper can
// run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db         *sql.DB
	dialect    dialect
	statements map[string]*sql.Stmt
	mu         sync.Mutex
}

func New(conf *config.Config) (*Store, error) {
	switch conf.Database.Driver {
	case config.DriverMySQL:
		return NewMySQL(conf.Database)
	case config.DriverSQLite:
		return NewSQLite(conf.Database.Path)
	}
	return nil, fmt.Errorf("unsupported database driver %q", conf.Database.Driver)
}

func NewMySQL(conf config.DatabaseConfig) (*Store, error) {
	connectionURI := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC",
		conf.UserName, conf.Password, conf.HostName, conf.Port, conf.Database)
	db, err := sql.Open("mysql", connectionURI)
	if err != nil {
		return nil, fmt.Errorf("sql connect: %w", err)
	}

	// try to ping three times with a 10-second interval; wait for a database to start
	for i := 0; i < 3; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i == 2 {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		time.Sleep(10 * time.Second)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	return open(db, dialectMySQL)
}

func NewSQLite(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate&_time_format=sqlite"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return open(db, dialectSQLite)
}

func open(db *sql.DB, d dialect) (*Store, error) {
	s := &Store{
		db:         db,
		dialect:    d,
		statements: make(map[string]*sql.Stmt),
	}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.closeStmt()
	_ = s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx exposes the write operations that must share one transaction.
type Tx struct {
	tx *sql.Tx
	s  *Store
}

// Update runs fn in a transaction; it commits when fn returns nil and rolls
// back otherwise, including when ctx is cancelled mid-way.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err = fn(&Tx{tx: tx, s: s}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	switch s.dialect {
	case dialectMySQL:
		var me *mysql.MySQLError
		return errors.As(err, &me) && me.Number == 1062
	case dialectSQLite:
		var se *sqlite.Error
		if errors.As(err, &se) {
			code := se.Code()
			return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
		}
	}
	return false
}

func (s *Store) wrapInsert(op string, err error) error {
	if err == nil {
		return nil
	}
	if s.isDuplicate(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullPtr(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func ptrNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
