package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/eringen/wealthwise/content"
)

var (
	bookingClientHTML = template.Must(template.New("booking_client").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1f3a5c;">Session Booking Confirmation</h2>
  <p>Hi {{.Booking.Name}},</p>
  <p>Thank you for booking a consultation session with {{.Site}}!</p>
  <div style="background-color: #f0f9ff; padding: 15px; margin: 20px 0;">
    <h3>Your Session Details:</h3>
    <p><strong>Date:</strong> {{.Booking.Date}}</p>
    <p><strong>Time:</strong> {{.Booking.TimeSlot}}</p>
    <p><strong>Email:</strong> {{.Booking.Email}}</p>
    <p><strong>Phone:</strong> {{.Booking.Phone}}</p>
  </div>
  {{- if .Booking.Message}}
  <p><strong>Message:</strong> {{.Booking.Message}}</p>
  {{- end}}
  <p>We'll send you a calendar invite shortly.</p>
  <p>Best regards,<br><strong>{{.Site}} Team</strong></p>
</div>`))

	bookingAdminHTML = template.Must(template.New("booking_admin").Parse(`<h2>New Booking</h2>
<p><strong>Name:</strong> {{.Booking.Name}}</p>
<p><strong>Email:</strong> {{.Booking.Email}}</p>
<p><strong>Phone:</strong> {{.Booking.Phone}}</p>
<p><strong>Date:</strong> {{.Booking.Date}}</p>
<p><strong>Time:</strong> {{.Booking.TimeSlot}}</p>
{{- if .Booking.Message}}
<p><strong>Message:</strong> {{.Booking.Message}}</p>
{{- end}}`))

	contactAdminHTML = template.Must(template.New("contact_admin").Parse(`<h2>New Contact Request</h2>
<p><strong>Name:</strong> {{.Contact.Name}}</p>
<p><strong>Email:</strong> {{.Contact.Email}}</p>
{{- if .Contact.Phone}}
<p><strong>Phone:</strong> {{.Contact.Phone}}</p>
{{- end}}
<p><strong>Subject:</strong> {{.Contact.Subject}}</p>
<p><strong>Message:</strong> {{.Contact.Message}}</p>`))
)

type templateData struct {
	Site    string
	Booking content.Booking
	Contact content.Contact
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func bookingText(b content.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\nEmail: %s\nPhone: %s\nDate: %s\nTime: %s\n", b.Name, b.Email, b.Phone, b.Date, b.TimeSlot)
	if b.Message != "" {
		fmt.Fprintf(&sb, "Message: %s\n", b.Message)
	}
	return sb.String()
}

// BookingConfirmation is the message sent to the client who booked.
func BookingConfirmation(site string, b content.Booking) (Message, error) {
	body, err := render(bookingClientHTML, templateData{Site: site, Booking: b})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{b.Email},
		Subject:  "Session Booked - " + b.Name,
		HTMLBody: body,
		TextBody: fmt.Sprintf("Hi %s,\n\nThank you for booking a consultation session with %s!\n\n%s\nWe'll send you a calendar invite shortly.\n\nBest regards,\n%s Team\n",
			b.Name, site, bookingText(b), site),
	}, nil
}

// BookingNotification is the message sent to the site admin.
func BookingNotification(admin string, b content.Booking) (Message, error) {
	body, err := render(bookingAdminHTML, templateData{Booking: b})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{admin},
		ReplyTo:  b.Email,
		Subject:  "New Session Booking - " + b.Name,
		HTMLBody: body,
		TextBody: "New Booking\n\n" + bookingText(b),
	}, nil
}

// ContactNotification tells the admin about a contact form submission.
func ContactNotification(admin string, c content.Contact) (Message, error) {
	body, err := render(contactAdminHTML, templateData{Contact: c})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{admin},
		ReplyTo:  c.Email,
		Subject:  "New Contact Request - " + c.Subject,
		HTMLBody: body,
		TextBody: fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nSubject: %s\n\n%s\n", c.Name, c.Email, c.Phone, c.Subject, c.Message),
	}, nil
}
