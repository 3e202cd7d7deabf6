package wealthwise

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eringen/wealthwise/content"
	"github.com/eringen/wealthwise/intake"
	"github.com/eringen/wealthwise/mail"
)

const testPassword = "s3cret-pass"

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (r *recordingSender) Send(ctx context.Context, m mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, m)
	return r.err
}

func (r *recordingSender) messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.sent...)
}

// Monday 2 June 2025.
func testCalendar() intake.Calendar {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return intake.Calendar{Location: time.UTC, Closed: time.Sunday, Now: func() time.Time { return now }}
}

func newTestApp(t *testing.T, sender mail.Sender, edit func(*SiteConfig)) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := SiteConfig{
		Name:          "WealthWise",
		URL:           "https://wealthwise.test",
		StoreURL:      "sqlite:" + filepath.Join(dir, "site.db"),
		AdminPassword: testPassword,
		SessionSecret: "test-session-secret-0123456789abcdef",
		Mail:          mail.Config{AdminEmail: "admin@wealthwise.test"},
		Blob:          BlobConfig{Dir: filepath.Join(dir, "uploads")},
	}
	if edit != nil {
		edit(&cfg)
	}
	app := New(cfg, ViewFuncs{},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMailSender(sender),
		WithStaticDir(dir),
		WithCalendar(testCalendar()),
	)
	if err := app.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

// client keeps cookies and the CSRF token between requests.
type client struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
	csrf    string
}

func newClient(t *testing.T, app *App) *client {
	return &client{t: t, app: app, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) json(method, path string, v any) *httptest.ResponseRecorder {
	c.t.Helper()
	var body io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	return c.do(method, path, body, "application/json")
}

func (c *client) session() sessionResponse {
	c.t.Helper()
	rec := c.do(http.MethodGet, "/admin/session/", nil, "")
	var s sessionResponse
	decode(c.t, rec, http.StatusOK, &s)
	if s.CSRFToken != "" {
		c.csrf = s.CSRFToken
	}
	return s
}

func (c *client) login(password string) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.csrf == "" {
		c.session()
	}
	return c.json(http.MethodPost, "/admin/login/", map[string]string{"password": password})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, want int, v any) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
	if v != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestBookingSubmitSendsTwoEmails(t *testing.T) {
	sender := &recordingSender{}
	app := newTestApp(t, sender, nil)
	c := newClient(t, app)

	rec := c.json(http.MethodPost, "/api/bookings", map[string]string{
		"name": "A", "email": "a@x.com", "phone": "123", "date": "2025-06-10", "time_slot": "10:00 AM",
	})
	var resp bookingResponse
	decode(t, rec, http.StatusCreated, &resp)
	if resp.Booking.Status != content.BookingPending || resp.Booking.ID == "" || !resp.Notified {
		t.Errorf("unexpected booking response: %+v", resp)
	}
	msgs := sender.messages()
	if len(msgs) != 2 {
		t.Fatalf("sent %d emails, want 2", len(msgs))
	}
	if msgs[0].To[0] != "a@x.com" || msgs[1].To[0] != "admin@wealthwise.test" {
		t.Errorf("recipients = %v, %v", msgs[0].To, msgs[1].To)
	}

	stored, err := app.Bookings.Get(context.Background(), resp.Booking.ID)
	if err != nil || stored.TimeSlot != "10:00 AM" {
		t.Errorf("stored booking = %+v, %v", stored, err)
	}
}

func TestBookingSubmitForm(t *testing.T) {
	sender := &recordingSender{}
	app := newTestApp(t, sender, nil)
	c := newClient(t, app)

	form := url.Values{
		"name": {"B"}, "email": {"b@x.com"}, "phone": {"+91 98765 43210"},
		"date": {"2025-06-03"}, "time_slot": {"02:30 PM"}, "message": {"Retirement plan"},
	}
	rec := c.do(http.MethodPost, "/api/bookings", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	var resp bookingResponse
	decode(t, rec, http.StatusCreated, &resp)
	if resp.Booking.Phone != "+91 98765 43210" || resp.Booking.Message != "Retirement plan" {
		t.Errorf("fields should be stored as submitted: %+v", resp.Booking)
	}
}

func TestBookingValidation(t *testing.T) {
	sender := &recordingSender{}
	app := newTestApp(t, sender, nil)
	c := newClient(t, app)

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"bad email", map[string]string{"name": "A", "email": "nope", "phone": "1", "date": "2025-06-10", "time_slot": "10:00 AM"}, "email"},
		{"sunday", map[string]string{"name": "A", "email": "a@x.com", "phone": "1", "date": "2025-06-08", "time_slot": "10:00 AM"}, "date"},
		{"unknown slot", map[string]string{"name": "A", "email": "a@x.com", "phone": "1", "date": "2025-06-10", "time_slot": "09:00 PM"}, "time_slot"},
		{"missing phone", map[string]string{"name": "A", "email": "a@x.com", "date": "2025-06-10", "time_slot": "10:00 AM"}, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			decode(t, c.json(http.MethodPost, "/api/bookings", tt.body), http.StatusBadRequest, &body)
			if body.Field != tt.field {
				t.Errorf("field = %q, want %q (%s)", body.Field, tt.field, body.Error)
			}
		})
	}
	if n := len(sender.messages()); n != 0 {
		t.Errorf("invalid bookings sent %d emails", n)
	}
	list, _ := app.Bookings.List(context.Background())
	if len(list) != 0 {
		t.Errorf("invalid bookings were stored: %+v", list)
	}
}

func TestBookingKeptWhenMailFails(t *testing.T) {
	sender := &recordingSender{err: mail.ErrSend{Provider: "smtp", Err: io.ErrUnexpectedEOF}}
	app := newTestApp(t, sender, nil)
	c := newClient(t, app)

	rec := c.json(http.MethodPost, "/api/bookings", map[string]string{
		"name": "A", "email": "a@x.com", "phone": "123", "date": "2025-06-10", "time_slot": "10:00 AM",
	})
	var resp bookingResponse
	decode(t, rec, http.StatusCreated, &resp)
	if resp.Notified {
		t.Error("notified should be false when mail fails")
	}
	if _, err := app.Bookings.Get(context.Background(), resp.Booking.ID); err != nil {
		t.Errorf("booking should stay stored: %v", err)
	}
}

func TestSlots(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, nil)
	c := newClient(t, app)

	var resp slotsResponse
	decode(t, c.do(http.MethodGet, "/api/booking/slots?date=2025-06-08", nil, ""), http.StatusOK, &resp)
	if resp.Reason == "" || len(resp.Slots) != 0 {
		t.Errorf("sunday should have no slots: %+v", resp)
	}
	for _, d := range resp.Dates {
		if d == "2025-06-08" {
			t.Error("closed day listed as bookable")
		}
	}
	if resp.Dates[0] != "2025-06-02" {
		t.Errorf("first bookable date = %s, want today", resp.Dates[0])
	}

	var tue slotsResponse
	decode(t, c.do(http.MethodGet, "/api/booking/slots?date=2025-06-10", nil, ""), http.StatusOK, &tue)
	if tue.Reason != "" || len(tue.Slots) != len(intake.Slots) {
		t.Errorf("tuesday should offer every slot: %+v", tue)
	}
}

func TestContactSubmit(t *testing.T) {
	sender := &recordingSender{}
	app := newTestApp(t, sender, nil)
	c := newClient(t, app)

	var resp contactResponse
	decode(t, c.json(http.MethodPost, "/api/contacts", map[string]string{
		"name": "C", "email": "c@x.com", "subject": "Tax", "message": "Help with 80C",
	}), http.StatusCreated, &resp)
	if resp.Contact.Status != content.ContactNew {
		t.Errorf("status = %s", resp.Contact.Status)
	}
	if msgs := sender.messages(); len(msgs) != 1 || msgs[0].To[0] != "admin@wealthwise.test" {
		t.Errorf("admin notification = %+v", msgs)
	}
}

func TestAdminLoginFlow(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, nil)
	c := newClient(t, app)

	if s := c.session(); s.State != "anonymous" {
		t.Fatalf("state = %s", s.State)
	}
	decode(t, c.do(http.MethodGet, "/admin/posts/", nil, ""), http.StatusUnauthorized, nil)
	decode(t, c.login("wrong"), http.StatusUnauthorized, nil)

	var s sessionResponse
	decode(t, c.login(testPassword), http.StatusOK, &s)
	if s.State != "authenticated" {
		t.Fatalf("state after login = %s", s.State)
	}
	if s := c.session(); s.State != "authenticated" {
		t.Errorf("session state = %s", s.State)
	}

	var posts []content.BlogPost
	decode(t, c.do(http.MethodGet, "/admin/posts/", nil, ""), http.StatusOK, &posts)
	if posts == nil || len(posts) != 0 {
		t.Errorf("posts = %v, want empty list", posts)
	}

	decode(t, c.json(http.MethodPost, "/admin/logout/", nil), http.StatusOK, nil)
	decode(t, c.do(http.MethodGet, "/admin/posts/", nil, ""), http.StatusUnauthorized, nil)
	if app.Workspaces.Len() != 0 {
		t.Errorf("logout should drop the workspace, %d left", app.Workspaces.Len())
	}
}

func TestAdminWritesNeedCSRF(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, nil)
	c := newClient(t, app)
	decode(t, c.login(testPassword), http.StatusOK, nil)

	c.csrf = ""
	decode(t, c.json(http.MethodPost, "/admin/posts/", map[string]string{"title": "x"}), http.StatusForbidden, nil)
}

func TestLoginRateLimit(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, func(cfg *SiteConfig) { cfg.LoginMaxAttempts = 2 })
	c := newClient(t, app)

	decode(t, c.login("wrong"), http.StatusUnauthorized, nil)
	decode(t, c.login("wrong"), http.StatusUnauthorized, nil)
	decode(t, c.login(testPassword), http.StatusTooManyRequests, nil)
}

func TestAdminPostLifecycle(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, nil)
	c := newClient(t, app)
	decode(t, c.login(testPassword), http.StatusOK, nil)

	var post content.BlogPost
	decode(t, c.json(http.MethodPost, "/admin/posts/", map[string]string{
		"title": "Power of SIP", "excerpt": "Small steps", "cover_image": "/public/uploads/c.jpg",
		"content": "Invest monthly.",
	}), http.StatusCreated, &post)
	if post.Slug != "power-of-sip" || post.Published() {
		t.Fatalf("created post = %+v", post)
	}

	var body errorBody
	decode(t, c.json(http.MethodPost, "/admin/posts/", map[string]string{
		"title": "Power of SIP", "excerpt": "Again", "cover_image": "/c.jpg",
	}), http.StatusConflict, &body)

	// Drafts stay off the public blog.
	decode(t, c.do(http.MethodGet, "/blog/power-of-sip/", nil, ""), http.StatusNotFound, nil)

	published := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	decode(t, c.json(http.MethodPatch, "/admin/posts/"+post.ID+"/", map[string]any{"published_at": published}), http.StatusOK, &post)
	if !post.Published() {
		t.Fatalf("post not published: %+v", post)
	}

	eventually(t, "published post on the public blog", func() bool {
		return c.do(http.MethodGet, "/blog/power-of-sip/", nil, "").Code == http.StatusOK
	})
	var page struct {
		Post content.BlogPost `json:"post"`
		HTML string           `json:"html"`
	}
	decode(t, c.do(http.MethodGet, "/blog/power-of-sip/", nil, ""), http.StatusOK, &page)
	if !strings.Contains(page.HTML, "<p>Invest monthly.</p>") {
		t.Errorf("html = %q", page.HTML)
	}

	rss := c.do(http.MethodGet, "/feed.xml", nil, "")
	if rss.Code != http.StatusOK || !strings.Contains(rss.Body.String(), "<title>Power of SIP</title>") {
		t.Errorf("feed = %d %s", rss.Code, rss.Body.String())
	}
	sitemap := c.do(http.MethodGet, "/sitemap.xml", nil, "")
	if !strings.Contains(sitemap.Body.String(), "https://wealthwise.test/blog/power-of-sip/") {
		t.Errorf("sitemap = %s", sitemap.Body.String())
	}

	var del deleteResponse
	decode(t, c.json(http.MethodDelete, "/admin/posts/"+post.ID+"/", nil), http.StatusOK, &del)
	if !del.Deleted {
		t.Error("delete should report true")
	}
	decode(t, c.json(http.MethodDelete, "/admin/posts/"+post.ID+"/", nil), http.StatusOK, &del)
	if del.Deleted {
		t.Error("second delete should report false")
	}
	decode(t, c.do(http.MethodGet, "/admin/posts/"+post.ID+"/", nil, ""), http.StatusNotFound, nil)
	eventually(t, "deleted post to leave the public blog", func() bool {
		return c.do(http.MethodGet, "/blog/power-of-sip/", nil, "").Code == http.StatusNotFound
	})
}

func TestAdminBookingStatus(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, nil)
	c := newClient(t, app)

	var created bookingResponse
	decode(t, c.json(http.MethodPost, "/api/bookings", map[string]string{
		"name": "A", "email": "a@x.com", "phone": "123", "date": "2025-06-10", "time_slot": "10:00 AM",
	}), http.StatusCreated, &created)

	decode(t, c.login(testPassword), http.StatusOK, nil)
	var list []content.Booking
	decode(t, c.do(http.MethodGet, "/admin/bookings/", nil, ""), http.StatusOK, &list)
	if len(list) != 1 {
		t.Fatalf("bookings = %+v", list)
	}

	var sameDay, otherDay []content.Booking
	decode(t, c.do(http.MethodGet, "/admin/bookings/?date=2025-06-10", nil, ""), http.StatusOK, &sameDay)
	if len(sameDay) != 1 || sameDay[0].ID != created.Booking.ID {
		t.Errorf("bookings on 2025-06-10 = %+v", sameDay)
	}
	decode(t, c.do(http.MethodGet, "/admin/bookings/?date=2025-06-11", nil, ""), http.StatusOK, &otherDay)
	if len(otherDay) != 0 {
		t.Errorf("bookings on 2025-06-11 = %+v", otherDay)
	}
	decode(t, c.do(http.MethodGet, "/admin/bookings/?date=tomorrow", nil, ""), http.StatusBadRequest, nil)

	var b content.Booking
	decode(t, c.json(http.MethodPatch, "/admin/bookings/"+created.Booking.ID+"/", map[string]string{"status": "cancelled"}), http.StatusOK, &b)
	if b.Status != content.BookingCancelled {
		t.Errorf("status = %s", b.Status)
	}
	decode(t, c.json(http.MethodPatch, "/admin/bookings/"+created.Booking.ID+"/", map[string]string{"status": "pending"}), http.StatusOK, &b)
	if b.Status != content.BookingPending {
		t.Errorf("any transition should be allowed, got %s", b.Status)
	}
	decode(t, c.json(http.MethodPatch, "/admin/bookings/"+created.Booking.ID+"/", map[string]string{"status": "lost"}), http.StatusBadRequest, nil)
}

func pngUpload(t *testing.T, field, filename string, extra map[string]string) (io.Reader, string) {
	t.Helper()
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range extra {
		w.WriteField(k, v)
	}
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write(img.Bytes())
	w.Close()
	return &body, w.FormDataContentType()
}

func TestAdminUpload(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, nil)
	c := newClient(t, app)
	decode(t, c.login(testPassword), http.StatusOK, nil)

	body, ct := pngUpload(t, "image", "My Cover.png", map[string]string{"purpose": "covers"})
	var resp uploadResponse
	decode(t, c.do(http.MethodPost, "/admin/uploads/", body, ct), http.StatusCreated, &resp)
	if !strings.HasPrefix(resp.URL, "/public/uploads/covers/") || !strings.HasSuffix(resp.URL, "-my-cover.jpg") {
		t.Errorf("url = %s", resp.URL)
	}

	body, ct = pngUpload(t, "image", "x.png", map[string]string{"purpose": "avatars"})
	decode(t, c.do(http.MethodPost, "/admin/uploads/", body, ct), http.StatusBadRequest, nil)
}

func TestAdminDrafts(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, nil)
	c := newClient(t, app)
	decode(t, c.login(testPassword), http.StatusOK, nil)

	var d draftResponse
	decode(t, c.json(http.MethodPost, "/admin/drafts/", map[string]string{"content": "Hello there."}), http.StatusCreated, &d)
	if len(d.Blocks) != 1 || d.Blocks[0].Content != "Hello there." {
		t.Fatalf("draft = %+v", d)
	}
	base := "/admin/drafts/" + d.ID

	decode(t, c.json(http.MethodPost, base+"/blocks/", map[string]string{"type": "image"}), http.StatusCreated, &d)
	if len(d.Blocks) != 2 || d.Blocks[1].Type != "image" {
		t.Fatalf("blocks = %+v", d.Blocks)
	}
	imageID := d.Blocks[1].ID

	body, ct := pngUpload(t, "image", "chart.png", nil)
	decode(t, c.do(http.MethodPost, base+"/blocks/"+imageID+"/image/", body, ct), http.StatusOK, &d)
	if !strings.HasPrefix(d.Blocks[1].Content, "/public/uploads/content/") {
		t.Errorf("image block content = %q", d.Blocks[1].Content)
	}

	decode(t, c.json(http.MethodPost, base+"/blocks/"+imageID+"/up/", nil), http.StatusOK, &d)
	if d.Blocks[0].ID != imageID {
		t.Errorf("image block should move first: %+v", d.Blocks)
	}

	textID := d.Blocks[1].ID
	decode(t, c.json(http.MethodPatch, base+"/blocks/"+textID+"/", map[string]string{"content": "Updated."}), http.StatusOK, &d)
	if d.Blocks[1].Content != "Updated." {
		t.Errorf("text block = %+v", d.Blocks[1])
	}

	preview := c.do(http.MethodGet, base+"/preview/", nil, "")
	if preview.Code != http.StatusOK || !strings.Contains(preview.Body.String(), "<p>Updated.</p>") ||
		!strings.Contains(preview.Body.String(), `<figure class="post-image">`) {
		t.Errorf("preview = %d %s", preview.Code, preview.Body.String())
	}

	decode(t, c.json(http.MethodDelete, base+"/blocks/"+imageID+"/", nil), http.StatusOK, &d)
	decode(t, c.json(http.MethodDelete, base+"/blocks/"+textID+"/", nil), http.StatusConflict, nil)
	decode(t, c.json(http.MethodDelete, base+"/blocks/nope/", nil), http.StatusNotFound, nil)

	decode(t, c.json(http.MethodDelete, base+"/", nil), http.StatusNoContent, nil)
	decode(t, c.do(http.MethodGet, base+"/", nil, ""), http.StatusNotFound, nil)
}

func TestAdminPreview(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, nil)
	c := newClient(t, app)
	decode(t, c.login(testPassword), http.StatusOK, nil)

	rec := c.json(http.MethodPost, "/admin/preview/", map[string]string{"content": "Tom & Jerry\n\nSecond"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, "<p>Tom &amp; Jerry</p>") || !strings.Contains(got, "<p>Second</p>") {
		t.Errorf("preview = %s", got)
	}
}

func TestFeaturesDisabledWithoutStore(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, func(cfg *SiteConfig) { cfg.StoreURL = "" })
	c := newClient(t, app)

	decode(t, c.do(http.MethodGet, "/", nil, ""), http.StatusServiceUnavailable, nil)
	decode(t, c.do(http.MethodGet, "/api/booking/slots", nil, ""), http.StatusServiceUnavailable, nil)
	decode(t, c.json(http.MethodPost, "/api/bookings", map[string]string{"name": "A"}), http.StatusServiceUnavailable, nil)
	decode(t, c.do(http.MethodGet, "/admin/posts/", nil, ""), http.StatusServiceUnavailable, nil)
	if rec := c.do(http.MethodGet, "/feed.xml", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("feed should still render, got %d", rec.Code)
	}
}

func TestAdminDisabledWithoutPassword(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, func(cfg *SiteConfig) { cfg.AdminPassword = "" })
	c := newClient(t, app)

	decode(t, c.login(""), http.StatusServiceUnavailable, nil)
	decode(t, c.do(http.MethodGet, "/admin/posts/", nil, ""), http.StatusServiceUnavailable, nil)
}

func TestHomeJSON(t *testing.T) {
	app := newTestApp(t, &recordingSender{}, nil)
	c := newClient(t, app)

	var home struct {
		Site  string             `json:"site"`
		Posts []content.BlogPost `json:"posts"`
	}
	decode(t, c.do(http.MethodGet, "/", nil, ""), http.StatusOK, &home)
	if home.Site != "WealthWise" || home.Posts == nil {
		t.Errorf("home = %+v", home)
	}
}
