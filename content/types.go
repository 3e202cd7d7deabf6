// Package content defines the records kept in the content store: blog posts,
// session bookings and contact requests.
package content

import (
	"strings"
	"time"
)

const (
	DefaultAuthor      = "WealthWise Team"
	DefaultReadingTime = "5 min read"
)

// BlogPost is an article shown on the public blog. A nil PublishedAt marks a draft.
type BlogPost struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"cover_image"`
	ReadingTime string     `json:"reading_time"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p BlogPost) EntityID() string { return p.ID }

// Published reports whether the post is visible on the public blog.
func (p BlogPost) Published() bool { return p.PublishedAt != nil }

// Link is the public path of the post.
func (p BlogPost) Link() string { return "/blog/" + p.Slug + "/" }

// Validate checks the fields the store refuses to accept empty.
func (p BlogPost) Validate() error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return &ValidationError{Field: "title", Reason: "is required"}
	case strings.TrimSpace(p.Slug) == "":
		return &ValidationError{Field: "slug", Reason: "is required"}
	case strings.TrimSpace(p.Excerpt) == "":
		return &ValidationError{Field: "excerpt", Reason: "is required"}
	case strings.TrimSpace(p.CoverImage) == "":
		return &ValidationError{Field: "cover_image", Reason: "is required"}
	}
	return nil
}

// PostPatch carries a partial post update. Nil fields are left unchanged.
// ClearPublished turns a published post back into a draft.
type PostPatch struct {
	Slug           *string    `json:"slug,omitempty"`
	Title          *string    `json:"title,omitempty"`
	Excerpt        *string    `json:"excerpt,omitempty"`
	Content        *string    `json:"content,omitempty"`
	CoverImage     *string    `json:"cover_image,omitempty"`
	ReadingTime    *string    `json:"reading_time,omitempty"`
	Author         *string    `json:"author,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	ClearPublished bool       `json:"unpublish,omitempty"`
}

// BookingStatus is the admin-managed state of a booking. Any transition is allowed.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking is a consultation session request submitted through the public form.
type Booking struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Date      string        `json:"date"`
	TimeSlot  string        `json:"time_slot"`
	Message   string        `json:"message,omitempty"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (b Booking) EntityID() string { return b.ID }

func (b Booking) Validate() error {
	for _, f := range []struct{ name, val string }{
		{"name", b.Name}, {"email", b.Email}, {"phone", b.Phone}, {"date", b.Date}, {"time_slot", b.TimeSlot},
	} {
		if strings.TrimSpace(f.val) == "" {
			return &ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	if b.Status != "" && !b.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "is not a booking status"}
	}
	return nil
}

type BookingPatch struct {
	Name     *string        `json:"name,omitempty"`
	Email    *string        `json:"email,omitempty"`
	Phone    *string        `json:"phone,omitempty"`
	Date     *string        `json:"date,omitempty"`
	TimeSlot *string        `json:"time_slot,omitempty"`
	Message  *string        `json:"message,omitempty"`
	Status   *BookingStatus `json:"status,omitempty"`
}

// ContactStatus tracks how far a contact request has been handled.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactReviewed ContactStatus = "reviewed"
	ContactReplied  ContactStatus = "replied"
	ContactClosed   ContactStatus = "closed"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactReviewed, ContactReplied, ContactClosed:
		return true
	}
	return false
}

// Contact is a message left through the public contact form.
type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Phone     string        `json:"phone,omitempty"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (c Contact) EntityID() string { return c.ID }

func (c Contact) Validate() error {
	for _, f := range []struct{ name, val string }{
		{"name", c.Name}, {"email", c.Email}, {"subject", c.Subject}, {"message", c.Message},
	} {
		if strings.TrimSpace(f.val) == "" {
			return &ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	if c.Status != "" && !c.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "is not a contact status"}
	}
	return nil
}

type ContactPatch struct {
	Name    *string        `json:"name,omitempty"`
	Email   *string        `json:"email,omitempty"`
	Subject *string        `json:"subject,omitempty"`
	Message *string        `json:"message,omitempty"`
	Phone   *string        `json:"phone,omitempty"`
	Status  *ContactStatus `json:"status,omitempty"`
}
