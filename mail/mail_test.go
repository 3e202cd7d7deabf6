package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eringen/wealthwise/content"
)

type recorder struct {
	mu   sync.Mutex
	sent []Message
	fail map[string]error // by subject prefix
}

func (r *recorder) Send(ctx context.Context, m Message) error {
	for prefix, err := range r.fail {
		if strings.HasPrefix(m.Subject, prefix) {
			return err
		}
	}
	r.mu.Lock()
	r.sent = append(r.sent, m)
	r.mu.Unlock()
	return nil
}

var booking = content.Booking{
	Name: "A", Email: "a@x.com", Phone: "123", Date: "2025-06-10", TimeSlot: "10:00 AM",
}

func TestBookingReceivedSendsTwoMessages(t *testing.T) {
	rec := &recorder{}
	n := NewNotifierWithSender(rec, Config{AdminEmail: "admin@wealthwise.test"}, nil)

	if err := n.BookingReceived(context.Background(), booking); err != nil {
		t.Fatalf("BookingReceived: %v", err)
	}
	if len(rec.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(rec.sent))
	}
	client, admin := rec.sent[0], rec.sent[1]
	if client.To[0] != "a@x.com" || client.Subject != "Session Booked - A" {
		t.Errorf("client message = %+v", client)
	}
	if admin.To[0] != "admin@wealthwise.test" || admin.Subject != "New Session Booking - A" {
		t.Errorf("admin message = %+v", admin)
	}
	for _, want := range []string{"2025-06-10", "10:00 AM", "123"} {
		if !strings.Contains(client.HTMLBody, want) || !strings.Contains(admin.HTMLBody, want) {
			t.Errorf("bodies missing %q", want)
		}
	}
	if strings.Contains(admin.HTMLBody, "Message:") {
		t.Error("empty message should not be rendered")
	}
}

func TestBookingReceivedContinuesAfterFailure(t *testing.T) {
	boom := errors.New("smtp down")
	rec := &recorder{fail: map[string]error{"Session Booked": boom}}
	n := NewNotifierWithSender(rec, Config{AdminEmail: "admin@wealthwise.test"}, nil)

	err := n.BookingReceived(context.Background(), booking)
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined send error, got %v", err)
	}
	if len(rec.sent) != 1 || rec.sent[0].Subject != "New Session Booking - A" {
		t.Errorf("admin notification should still be sent, got %+v", rec.sent)
	}
}

func TestTemplatesEscapeInput(t *testing.T) {
	b := booking
	b.Name = `<script>alert(1)</script>`
	b.Message = "see <b>this</b>"
	msg, err := BookingNotification("admin@x", b)
	if err != nil {
		t.Fatalf("BookingNotification: %v", err)
	}
	if strings.Contains(msg.HTMLBody, "<script>") || strings.Contains(msg.HTMLBody, "<b>this") {
		t.Errorf("html body not escaped:\n%s", msg.HTMLBody)
	}
	if !strings.Contains(msg.HTMLBody, "&lt;script&gt;") {
		t.Errorf("expected escaped name:\n%s", msg.HTMLBody)
	}
}

func TestContactReceived(t *testing.T) {
	rec := &recorder{}
	n := NewNotifierWithSender(rec, Config{Username: "site@gmail.com", Password: "x"}, nil)
	c := content.Contact{Name: "B", Email: "b@x.com", Subject: "Retirement", Message: "Call me"}
	if err := n.ContactReceived(context.Background(), c); err != nil {
		t.Fatalf("ContactReceived: %v", err)
	}
	if len(rec.sent) != 1 {
		t.Fatalf("sent %d, want 1", len(rec.sent))
	}
	m := rec.sent[0]
	if m.To[0] != "site@gmail.com" {
		t.Errorf("admin address should default to the sender account, got %v", m.To)
	}
	if m.ReplyTo != "b@x.com" || !strings.Contains(m.HTMLBody, "Call me") {
		t.Errorf("message = %+v", m)
	}
}

func TestClientDisabled(t *testing.T) {
	c := New(DefaultConfig())
	err := c.Send(context.Background(), Message{To: []string{"a@x.com"}, Subject: "s", TextBody: "b"})
	var disabled ErrDisabled
	if !errors.As(err, &disabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name string
		from string
		msg  Message
		ok   bool
	}{
		{"valid", "site@x.com", Message{To: []string{" a@x.com "}, Subject: "Hi", TextBody: "b", HTMLBody: "<p>b</p>"}, true},
		{"no from", "", Message{To: []string{"a@x.com"}, Subject: "Hi", TextBody: "b"}, false},
		{"no recipients", "site@x.com", Message{To: []string{" "}, Subject: "Hi", TextBody: "b"}, false},
		{"no subject", "site@x.com", Message{To: []string{"a@x.com"}, TextBody: "b"}, false},
		{"no body", "site@x.com", Message{To: []string{"a@x.com"}, Subject: "Hi"}, false},
	}
	for _, tt := range tests {
		m, err := buildMessage(tt.from, tt.msg)
		if tt.ok {
			if err != nil {
				t.Errorf("%s: %v", tt.name, err)
				continue
			}
			if got := m.GetHeader("To"); len(got) != 1 || got[0] != "a@x.com" {
				t.Errorf("%s: To = %v", tt.name, got)
			}
			var buf bytes.Buffer
			if _, err := m.WriteTo(&buf); err != nil {
				t.Errorf("%s: WriteTo: %v", tt.name, err)
			}
			continue
		}
		var inv ErrInvalidMessage
		if !errors.As(err, &inv) {
			t.Errorf("%s: expected ErrInvalidMessage, got %v", tt.name, err)
		}
	}
}

func TestSendHonoursContext(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "192.0.2.1" // TEST-NET-1, never answers
	cfg.Username, cfg.Password = "u", "p"
	c := New(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := c.Send(ctx, Message{To: []string{"a@x.com"}, Subject: "s", TextBody: "b"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("Send ignored the context deadline")
	}
}
