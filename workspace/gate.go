package workspace

import (
	"crypto/subtle"
	"log/slog"
)

// Gate compares a password with the configured admin secret.
type Gate struct {
	secret []byte
	log    *slog.Logger
}

// NewGate returns a gate for secret. An empty secret rejects every password.
func NewGate(secret string, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	if secret == "" {
		log.Warn("ADMIN_PASSWORD not set, admin login is disabled")
	}
	return &Gate{secret: []byte(secret), log: log}
}

func (g *Gate) Enabled() bool { return len(g.secret) > 0 }

// Check reports whether password equals the secret.
func (g *Gate) Check(password string) bool {
	if !g.Enabled() {
		g.log.Warn("admin login attempted but no admin password is configured")
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), g.secret) == 1
}
