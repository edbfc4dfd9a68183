// Package accounts is the local user directory: citizens known by BSN with
// the email address notifications are sent to.
package accounts

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlaceholderEmailDomain is the domain of addresses generated for users who
// signed in without giving one. Mail to it is never delivered.
const PlaceholderEmailDomain = "example.org"

type User struct {
	ID            uuid.UUID
	BSN           string
	Email         string
	EmailVerified bool
	IsActive      bool
	FirstName     string
	LastName      string
	CreatedAt     time.Time
}

// HasUsableEmail reports whether the user has a verified address that can
// actually receive mail.
func (u *User) HasUsableEmail() bool {
	email := strings.TrimSpace(u.Email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.EqualFold(email[at+1:], PlaceholderEmailDomain) {
		return false
	}
	return u.EmailVerified
}

// Notifiable reports whether the user should receive case notifications.
func (u *User) Notifiable() bool {
	return u.IsActive && u.HasUsableEmail()
}

// FullName joins first and last name, leaving out empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
