package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"workcafe/utils"
)

// Sender delivers one plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TransportError is returned for every failure to hand a message to the
// mail server, including missing configuration.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return "mail: " + e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

var ErrNotConfigured = errors.New("smtp credentials not configured")

type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if s.Host == "" || s.From == "" || to == "" {
		return &TransportError{Op: "configure", Err: ErrNotConfigured}
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := s.dial(ctx)
	if err != nil {
		return &TransportError{Op: "dial", Err: err}
	}
	defer client.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = client.conn.SetDeadline(deadline)
	}

	if err := s.deliver(client.Client, to, buildMessage(s.From, to, subject, body)); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	return nil
}

type smtpConn struct {
	*smtp.Client
	conn net.Conn
}

func (s *SMTPSender) dial(ctx context.Context) (*smtpConn, error) {
	addr := net.JoinHostPort(s.Host, s.Port)
	var d net.Dialer

	var conn net.Conn
	var err error
	if s.Port == "465" {
		td := &tls.Dialer{NetDialer: &d, Config: &tls.Config{ServerName: s.Host}}
		conn, err = td.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, err
	}

	client, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &smtpConn{Client: client, conn: conn}, nil
}

func (s *SMTPSender) deliver(c *smtp.Client, to string, msg []byte) error {
	if ok, _ := c.Extension("STARTTLS"); ok && s.Port != "465" {
		if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
			return err
		}
	}
	if s.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.Username, s.Password, s.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(s.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	// The message is accepted once DATA is closed.
	if err := c.Quit(); err != nil {
		utils.Log.WithError(err).Warn("smtp quit failed after delivery")
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + sanitizeHeader(from) + "\r\n")
	b.WriteString("To: " + sanitizeHeader(to) + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return []byte(b.String())
}

// sanitizeHeader drops line breaks so user input cannot add headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
