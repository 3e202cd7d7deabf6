// Package store keeps blog posts, bookings and contacts in SQLite or
// PostgreSQL and publishes every committed change to a per-table feed.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/eringen/wealthwise/content"
)

// Dialect selects the SQL flavour spoken by the underlying database.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB is the content store. Its tables are safe for concurrent use.
type DB struct {
	db      *sql.DB
	dialect Dialect
	log     *slog.Logger

	Posts    *Posts
	Bookings *Bookings
	Contacts *Contacts

	listener *listener
}

// Options tunes Open. The zero value is valid.
type Options struct {
	// APIKey is used as the database password when the URL carries none.
	APIKey string
	Logger *slog.Logger
}

// Open connects to the store described by rawURL and ensures the schema exists.
// Accepted forms: "sqlite:data/site.db", "sqlite://data/site.db", "file:data/site.db"
// and "postgres://user@host/db".
func Open(ctx context.Context, rawURL string, opts Options) (*DB, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	dialect, dsn, err := parseURL(rawURL, opts.APIKey)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch dialect {
	case SQLite:
		db, err = openSQLite(dsn)
	case Postgres:
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(10)
			db.SetConnMaxIdleTime(5 * time.Minute)
		}
	}
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	d := &DB{db: db, dialect: dialect, log: log}
	if err := d.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}

	// SQLite has a single writer, this process, so tables publish their own
	// writes. PostgreSQL may be shared by several processes; changes arrive
	// through LISTEN/NOTIFY instead.
	local := dialect == SQLite
	d.Posts = newPosts(d, local)
	d.Bookings = newBookings(d, local)
	d.Contacts = newContacts(d, local)

	if dialect == Postgres {
		l, err := startListener(dsn, d, log)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.listener = l
	}
	return d, nil
}

func parseURL(rawURL, apiKey string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(rawURL, "sqlite://"):
		return SQLite, strings.TrimPrefix(rawURL, "sqlite://"), nil
	case strings.HasPrefix(rawURL, "sqlite:"):
		return SQLite, strings.TrimPrefix(rawURL, "sqlite:"), nil
	case strings.HasPrefix(rawURL, "file:"):
		return SQLite, strings.TrimPrefix(rawURL, "file:"), nil
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", "", fmt.Errorf("store: parse url: %w", err)
		}
		if apiKey != "" && u.User != nil {
			if _, ok := u.User.Password(); !ok {
				u.User = url.UserPassword(u.User.Username(), apiKey)
			}
		}
		return Postgres, u.String(), nil
	}
	return "", "", fmt.Errorf("store: unsupported url %q", rawURL)
}

func openSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed while the single writer commits; busy_timeout
	// makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	return db, nil
}

// Dialect reports which database the store talks to.
func (d *DB) Dialect() Dialect { return d.dialect }

// Close stops the change listener, closes every feed and the connection pool.
func (d *DB) Close() error {
	if d.listener != nil {
		d.listener.close()
	}
	if d.Posts != nil {
		d.Posts.hub.Close()
	}
	if d.Bookings != nil {
		d.Bookings.hub.Close()
	}
	if d.Contacts != nil {
		d.Contacts.hub.Close()
	}
	return d.db.Close()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (d *DB) rebind(q string) string {
	if d.dialect != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// mapErr converts driver errors into the content error kinds.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, content.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, content.ErrConflict)
		case "22P02":
			// Malformed uuid: no row can carry that id.
			return fmt.Errorf("%s: %w", op, content.ErrNotFound)
		case "23502", "23514":
			return &content.ValidationError{Field: pqErr.Column, Reason: "violates a store constraint"}
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", op, content.ErrConflict)
	case strings.Contains(msg, "NOT NULL constraint failed"), strings.Contains(msg, "CHECK constraint failed"):
		return &content.ValidationError{Field: constraintColumn(msg), Reason: "violates a store constraint"}
	}
	return &content.StoreError{Op: op, Err: err}
}

// constraintColumn extracts "col" from sqlite messages like
// "NOT NULL constraint failed: bookings.col".
func constraintColumn(msg string) string {
	i := strings.LastIndex(msg, ".")
	if i < 0 || i == len(msg)-1 {
		return ""
	}
	col := msg[i+1:]
	if j := strings.IndexAny(col, " )"); j >= 0 {
		col = col[:j]
	}
	return col
}

const tsLayout = "2006-01-02T15:04:05.000000Z"

// formatTime renders a timestamp in a fixed-width UTC form so text columns
// sort chronologically.
func formatTime(t time.Time) string { return t.UTC().Format(tsLayout) }

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// scanTime accepts the TEXT timestamps written to SQLite and the native
// timestamptz values returned by PostgreSQL.
type scanTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	tsLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (s *scanTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		s.Time, s.Valid = time.Time{}, false
		return nil
	case time.Time:
		s.Time, s.Valid = x.UTC(), true
		return nil
	case string:
		return s.parse(x)
	case []byte:
		return s.parse(string(x))
	}
	return fmt.Errorf("store: cannot scan %T into timestamp", v)
}

func (s *scanTime) parse(v string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			s.Time, s.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("store: unrecognised timestamp %q", v)
}

func (s scanTime) ptr() *time.Time {
	if !s.Valid {
		return nil
	}
	t := s.Time
	return &t
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
