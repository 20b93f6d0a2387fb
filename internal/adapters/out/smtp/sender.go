package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// Sender delivers notification e-mails over SMTP. It implements the
// MessageSender port; SMTP has no channel-side message identifier, so the
// returned externalID is always empty.
type Sender struct {
	host string
	port string
	from string
	auth smtp.Auth
}

// NewSender creates a sender for the given SMTP endpoint. Username may be
// empty for unauthenticated relays.
func NewSender(host, port, from, username, password string) *Sender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &Sender{host: host, port: port, from: from, auth: auth}
}

// Send delivers one message. The context bounds the connection dial; an
// established session runs to completion.
func (s *Sender) Send(ctx context.Context, recipient, subject, body string) (string, error) {
	addr := net.JoinHostPort(s.host, s.port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to connect to smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return "", fmt.Errorf("failed to open smtp session: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return "", fmt.Errorf("failed to start tls: %w", err)
		}
	}
	if s.auth != nil {
		if err = client.Auth(s.auth); err != nil {
			return "", fmt.Errorf("smtp authentication failed: %w", err)
		}
	}

	if err = client.Mail(s.from); err != nil {
		return "", fmt.Errorf("smtp sender rejected: %w", err)
	}
	if err = client.Rcpt(recipient); err != nil {
		return "", fmt.Errorf("smtp recipient rejected: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return "", fmt.Errorf("failed to open smtp data stream: %w", err)
	}
	if _, err = writer.Write(buildMessage(s.from, recipient, subject, body)); err != nil {
		return "", fmt.Errorf("failed to write message: %w", err)
	}
	if err = writer.Close(); err != nil {
		return "", fmt.Errorf("smtp server rejected message: %w", err)
	}

	return "", client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
