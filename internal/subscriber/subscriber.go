package subscriber

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

type Subscriber struct {
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var (
	ErrInvalidEmail = errors.New("invalid email address")

	ErrDomainNotAllowed = errors.New("email domain is not allowed")
)

// NormalizeEmail validates addr and checks its domain against allowedDomains.
// An empty allow-list accepts any domain.
func NormalizeEmail(addr string, allowedDomains []string) (string, error) {
	addr = strings.ToLower(strings.TrimSpace(addr))

	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return "", ErrInvalidEmail
	}

	at := strings.LastIndex(parsed.Address, "@")
	if at <= 0 || at == len(parsed.Address)-1 {
		return "", ErrInvalidEmail
	}
	domain := parsed.Address[at+1:]

	if len(allowedDomains) > 0 {
		allowed := false
		for _, d := range allowedDomains {
			if strings.EqualFold(domain, d) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", ErrDomainNotAllowed
		}
	}

	return parsed.Address, nil
}
