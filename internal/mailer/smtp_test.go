package mailer

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() Settings {
	return Settings{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "owner@example.com",
		Password:  "secret",
		From:      "owner@example.com",
		Recipient: "owner@example.com",
	}
}

func TestSettings_Validate(t *testing.T) {
	require.NoError(t, validSettings().Validate())

	s := validSettings()
	s.Password = ""
	s.Recipient = ""
	err := s.Validate()
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "password, recipient")
}

func TestSMTPMailer_NotConfiguredFailsWithoutDialing(t *testing.T) {
	s := validSettings()
	// Nothing listens here; a dial attempt would produce a different error.
	s.Host = "127.0.0.1"
	s.Port = 1
	s.Username = ""

	err := NewSMTPMailer(s).SendContactNotification(context.Background(), ContactNotification{Name: "n"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestBuildContactMessage(t *testing.T) {
	msg := string(BuildContactMessage("owner@example.com", "inbox@example.com", ContactNotification{
		Name:    "Ada",
		Email:   "ada@example.com\r\nBcc: evil@example.com",
		Subject: "Olá",
		Message: "Hello there, nice portfolio",
	}))

	assert.Contains(t, msg, "To: inbox@example.com\r\n")
	assert.Contains(t, msg, "Reply-To: ada@example.comBcc: evil@example.com\r\n")
	assert.NotContains(t, msg, "\r\nBcc:")
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.Contains(t, msg, "Name: Ada\r\n")
	assert.Contains(t, msg, "Hello there, nice portfolio")
}

func TestSMTPMailer_RequiresStartTLS(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		conn.Write([]byte("220 localhost ESMTP\r\n"))
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch {
			case strings.HasPrefix(line, "EHLO"):
				conn.Write([]byte("250-localhost\r\n250 AUTH PLAIN\r\n"))
			case strings.HasPrefix(line, "QUIT"):
				conn.Write([]byte("221 bye\r\n"))
				return
			default:
				conn.Write([]byte("250 ok\r\n"))
			}
		}
	}()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)

	s := validSettings()
	s.Host = "127.0.0.1"
	s.Port = portNum

	err = NewSMTPMailer(s).SendContactNotification(context.Background(), ContactNotification{
		Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello there",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")
}
