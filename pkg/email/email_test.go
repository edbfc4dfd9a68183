package email

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		email, first, last string
	}{
		{"jan.de.vries@gemeente.test", "Jan", "Vries"},
		{"piet@gemeente.test", "Piet", ""},
		{"@gemeente.test", "", ""},
		{"anna_bakker+zaken@gemeente.test", "Anna", "Zaken"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			first, last := DeriveNameFromEmail(tt.email)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestRecipientName(t *testing.T) {
	assert.Equal(t, "Jan", RecipientName(" Jan ", "piet@gemeente.test"))
	assert.Equal(t, "Piet", RecipientName("", "piet@gemeente.test"))
}

func TestRender(t *testing.T) {
	subject, body, err := Render(CaseNotification{
		RecipientName:   "Jan",
		Identification:  "ZAAK-2024-1",
		TypeDescription: "Parkeervergunning",
		StartDate:       "1 maart 2024",
		CaseLink:        "https://mijn.gemeente.test/cases/abc/status",
	})
	require.NoError(t, err)
	assert.Equal(t, "Update voor uw zaak ZAAK-2024-1", subject)
	assert.Contains(t, body, "Beste Jan,")
	assert.Contains(t, body, "Soort zaak: Parkeervergunning")
	assert.Contains(t, body, "Startdatum: 1 maart 2024")
	assert.Contains(t, body, "https://mijn.gemeente.test/cases/abc/status")
}

func TestOutbox(t *testing.T) {
	var outbox Outbox
	require.NoError(t, outbox.SendCaseNotification(context.Background(), "jan@gemeente.test", CaseNotification{Identification: "ZAAK-1"}))
	sent := outbox.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "jan@gemeente.test", sent[0].To)
	assert.Equal(t, "ZAAK-1", sent[0].Notification.Identification)
}

// fakeSMTP accepts one message and hands its DATA section to the test.
func fakeSMTP(t *testing.T) (addr string, data <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

		r := bufio.NewReader(conn)
		write := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }
		write("220 localhost ESMTP")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				write("250 localhost")
			case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
				write("250 OK")
			case cmd == "DATA":
				write("354 end with .")
				var b strings.Builder
				for {
					l, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if l == ".\r\n" {
						break
					}
					b.WriteString(l)
				}
				out <- b.String()
				write("250 OK")
			case cmd == "QUIT":
				write("221 bye")
				return
			default:
				write("250 OK")
			}
		}
	}()
	return ln.Addr().String(), out
}

func TestSMTPSender(t *testing.T) {
	addr, data := fakeSMTP(t)
	sender, err := NewSMTPSender(SMTPConfig{Addr: addr, From: "noreply@gemeente.test"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = sender.SendCaseNotification(ctx, "jan@gemeente.test", CaseNotification{
		Identification: "ZAAK-2024-1",
		CaseLink:       "https://mijn.gemeente.test/cases/abc/status",
	})
	require.NoError(t, err)

	select {
	case msg := <-data:
		assert.Contains(t, msg, "To: jan@gemeente.test\r\n")
		assert.Contains(t, msg, "Subject: Update voor uw zaak ZAAK-2024-1\r\n")
		assert.Contains(t, msg, "https://mijn.gemeente.test/cases/abc/status")
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestNewSMTPSenderValidates(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Addr: "no-port", From: "a@b.test"})
	assert.Error(t, err)
	_, err = NewSMTPSender(SMTPConfig{Addr: "localhost:25"})
	assert.Error(t, err)
}
