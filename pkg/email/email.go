// Package email renders and sends the case status notification mail.
package email

import (
	"context"
	"strings"
	"unicode"
)

// CaseNotification is the template context of a status change mail.
type CaseNotification struct {
	RecipientName   string
	Identification  string
	TypeDescription string
	StartDate       string
	CaseLink        string
}

// Sender delivers a case notification to one address.
type Sender interface {
	SendCaseNotification(ctx context.Context, to string, n CaseNotification) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, to string, n CaseNotification) error

func (f SenderFunc) SendCaseNotification(ctx context.Context, to string, n CaseNotification) error {
	return f(ctx, to, n)
}

// DeriveNameFromEmail guesses a first and last name from the local part of
// an address ("jan.de.vries@..." gives "Jan", "Vries"). Used for the
// salutation when a user never stored a name.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "", ""
	}

	first := capitalize(parts[0])
	last := ""
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

// RecipientName is the salutation name: the stored first name, or one
// derived from the address.
func RecipientName(firstName, address string) string {
	if name := strings.TrimSpace(firstName); name != "" {
		return name
	}
	first, _ := DeriveNameFromEmail(address)
	return first
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
