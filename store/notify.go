package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/feed"
)

const notifyChannel = "content_changes"

// notification is the payload written by notify_content_change().
type notification struct {
	Table string `json:"table"`
	Op    string `json:"op"`
	ID    string `json:"id"`
}

func decodeNotification(extra string) (notification, error) {
	var n notification
	if err := json.Unmarshal([]byte(extra), &n); err != nil {
		return n, fmt.Errorf("store: decode notification: %w", err)
	}
	switch feed.EventType(n.Op) {
	case feed.Insert, feed.Update, feed.Delete:
	default:
		return n, fmt.Errorf("store: unknown notification op %q", n.Op)
	}
	if n.ID == "" {
		return n, errors.New("store: notification without id")
	}
	return n, nil
}

// listener relays PostgreSQL notifications to the table feeds.
type listener struct {
	pl     *pq.Listener
	db     *DB
	log    *slog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func startListener(dsn string, d *DB, log *slog.Logger) (*listener, error) {
	report := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("content listener", "event", ev, "error", err)
		}
	}
	pl := pq.NewListener(dsn, time.Second, time.Minute, report)
	if err := pl.Listen(notifyChannel); err != nil {
		pl.Close()
		return nil, fmt.Errorf("store: listen %s: %w", notifyChannel, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &listener{pl: pl, db: d, log: log, cancel: cancel}
	l.wg.Add(1)
	go l.run(ctx)
	return l, nil
}

func (l *listener) run(ctx context.Context) {
	defer l.wg.Done()
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-l.pl.Notify:
			if !ok {
				return
			}
			if n == nil {
				// The connection was re-established; notifications sent while
				// it was down are lost.
				l.log.Warn("content listener reconnected, changes may have been missed")
				continue
			}
			l.dispatch(ctx, n.Extra)
		case <-ping.C:
			go l.pl.Ping()
		}
	}
}

func (l *listener) dispatch(ctx context.Context, extra string) {
	n, err := decodeNotification(extra)
	if err != nil {
		l.log.Error("content listener", "error", err)
		return
	}
	lctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch n.Table {
	case "blog_posts":
		err = relay(lctx, n, l.db.Posts.hub, l.db.Posts.Get, func(id string) content.BlogPost { return content.BlogPost{ID: id} })
	case "bookings":
		err = relay(lctx, n, l.db.Bookings.hub, l.db.Bookings.Get, func(id string) content.Booking { return content.Booking{ID: id} })
	case "contacts":
		err = relay(lctx, n, l.db.Contacts.hub, l.db.Contacts.Get, func(id string) content.Contact { return content.Contact{ID: id} })
	default:
		l.log.Warn("content listener: unknown table", "table", n.Table)
		return
	}
	if err != nil {
		l.log.Error("content listener relay", "table", n.Table, "id", n.ID, "error", err)
	}
}

// relay turns a notification into a typed event. Inserted and updated rows are
// read back; deleted rows are only known by id.
func relay[T any](ctx context.Context, n notification, hub *feed.Hub[T], get func(context.Context, string) (T, error), stub func(string) T) error {
	if feed.EventType(n.Op) == feed.Delete {
		hub.Publish(feed.Deleted(stub(n.ID)))
		return nil
	}
	v, err := get(ctx, n.ID)
	if errors.Is(err, content.ErrNotFound) {
		// Deleted before we could read it; the DELETE notification follows.
		return nil
	}
	if err != nil {
		return err
	}
	if feed.EventType(n.Op) == feed.Insert {
		hub.Publish(feed.Inserted(v))
	} else {
		hub.Publish(feed.Updated(nil, v))
	}
	return nil
}

func (l *listener) close() {
	l.cancel()
	l.pl.Close()
	l.wg.Wait()
}
