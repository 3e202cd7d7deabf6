package store

import (
	"context"
	"fmt"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS blog_posts (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE CHECK (slug <> ''),
    title TEXT NOT NULL CHECK (title <> ''),
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    cover_image TEXT NOT NULL,
    reading_time TEXT NOT NULL DEFAULT '5 min read',
    author TEXT NOT NULL DEFAULT 'WealthWise Team',
    published_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blog_posts_published_at ON blog_posts(published_at);

CREATE TABLE IF NOT EXISTS bookings (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL CHECK (name <> ''),
    email TEXT NOT NULL CHECK (email <> ''),
    phone TEXT NOT NULL CHECK (phone <> ''),
    date TEXT NOT NULL CHECK (date <> ''),
    time_slot TEXT NOT NULL CHECK (time_slot <> ''),
    message TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled')),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date);
CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(email);
CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at);

CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL CHECK (name <> ''),
    email TEXT NOT NULL CHECK (email <> ''),
    subject TEXT NOT NULL CHECK (subject <> ''),
    message TEXT NOT NULL CHECK (message <> ''),
    phone TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'new'
        CHECK (status IN ('new', 'reviewed', 'replied', 'closed')),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts(created_at);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS blog_posts (
    id UUID PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE CHECK (slug <> ''),
    title TEXT NOT NULL CHECK (title <> ''),
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    cover_image TEXT NOT NULL,
    reading_time TEXT NOT NULL DEFAULT '5 min read',
    author TEXT NOT NULL DEFAULT 'WealthWise Team',
    published_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_blog_posts_published_at ON blog_posts(published_at);

CREATE TABLE IF NOT EXISTS bookings (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL CHECK (name <> ''),
    email TEXT NOT NULL CHECK (email <> ''),
    phone TEXT NOT NULL CHECK (phone <> ''),
    date TEXT NOT NULL CHECK (date <> ''),
    time_slot TEXT NOT NULL CHECK (time_slot <> ''),
    message TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date);
CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(email);
CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at);

CREATE TABLE IF NOT EXISTS contacts (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL CHECK (name <> ''),
    email TEXT NOT NULL CHECK (email <> ''),
    subject TEXT NOT NULL CHECK (subject <> ''),
    message TEXT NOT NULL CHECK (message <> ''),
    phone TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'new'
        CHECK (status IN ('new', 'reviewed', 'replied', 'closed')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts(created_at);

CREATE OR REPLACE FUNCTION notify_content_change() RETURNS trigger AS $$
DECLARE
    rec_id TEXT;
BEGIN
    IF TG_OP = 'DELETE' THEN
        rec_id := OLD.id::text;
    ELSE
        rec_id := NEW.id::text;
    END IF;
    PERFORM pg_notify('` + notifyChannel + `',
        json_build_object('table', TG_TABLE_NAME, 'op', TG_OP, 'id', rec_id)::text);
    RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS blog_posts_notify ON blog_posts;
CREATE TRIGGER blog_posts_notify AFTER INSERT OR UPDATE OR DELETE ON blog_posts
    FOR EACH ROW EXECUTE FUNCTION notify_content_change();
DROP TRIGGER IF EXISTS bookings_notify ON bookings;
CREATE TRIGGER bookings_notify AFTER INSERT OR UPDATE OR DELETE ON bookings
    FOR EACH ROW EXECUTE FUNCTION notify_content_change();
DROP TRIGGER IF EXISTS contacts_notify ON contacts;
CREATE TRIGGER contacts_notify AFTER INSERT OR UPDATE OR DELETE ON contacts
    FOR EACH ROW EXECUTE FUNCTION notify_content_change();
`

// Schema returns the DDL that creates the tables, indexes and, for
// PostgreSQL, the change-notification triggers.
func Schema(d Dialect) (string, error) {
	switch d {
	case SQLite:
		return sqliteSchema, nil
	case Postgres:
		return postgresSchema, nil
	}
	return "", fmt.Errorf("store: unknown dialect %q", d)
}

// EnsureSchema creates any missing tables. It is safe to run on every start.
func (d *DB) EnsureSchema(ctx context.Context) error {
	ddl, err := Schema(d.dialect)
	if err != nil {
		return err
	}
	if d.dialect != Postgres {
		_, err = d.db.ExecContext(ctx, ddl)
		return err
	}

	// Concurrent starts must not race on the function and trigger swap.
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock(727274)`); err != nil {
		return err
	}
	defer conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock(727274)`)
	_, err = conn.ExecContext(ctx, ddl)
	return err
}
