package mail

import "time"

// Config holds SMTP settings. Sending is enabled only when Username and
// Password are both set.
type Config struct {
	From     string
	Host     string
	Port     int
	Username string
	Password string
	// SSL dials implicit TLS (port 465). Otherwise STARTTLS is used when offered.
	SSL            bool
	TimeoutSeconds int

	// AdminEmail receives booking and contact notifications.
	AdminEmail string
	SiteName   string
}

// DefaultConfig targets Gmail submission.
func DefaultConfig() Config {
	return Config{
		Host:           "smtp.gmail.com",
		Port:           587,
		TimeoutSeconds: 30,
		SiteName:       "WealthWise",
	}
}

func (c Config) Enabled() bool { return c.Username != "" && c.Password != "" }

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) from() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}
