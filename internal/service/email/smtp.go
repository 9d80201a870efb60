package email

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// SMTPProvider delivers summary emails over plain SMTP. The default target
// is a local Mailhog, which is how interview summaries are inspected in
// development; with useTLS it works against real relays.
type SMTPProvider struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
	useTLS    bool
}

func NewSMTPProvider(host string, port int, username, password, fromEmail, fromName string, useTLS bool) *SMTPProvider {
	return &SMTPProvider{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
		fromName:  fromName,
		useTLS:    useTLS,
	}
}

// Send delivers a single-part message.
func (p *SMTPProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	return p.deliver(to, p.buildMessage(to, subject, body, isHTML))
}

// SendWithAttachment delivers a multipart message carrying one attachment,
// so the SMTP path gets the transcript JSON the same way SendGrid does.
func (p *SMTPProvider) SendWithAttachment(ctx context.Context, to, subject, body string, isHTML bool, attachmentName string, attachmentData []byte) error {
	return p.deliver(to, p.buildMessageWithAttachment(to, subject, body, isHTML, attachmentName, attachmentData))
}

// transcriptBoundary separates the MIME parts. A fixed boundary is safe
// here: the body is our own template output and the attachment is
// base64-encoded, so neither can contain the marker.
const transcriptBoundary = "tukma-interview-summary"

func contentType(isHTML bool) string {
	if isHTML {
		return "text/html; charset=UTF-8"
	}
	return "text/plain; charset=UTF-8"
}

// buildMessage assembles the wire form of a single-part message. Headers are
// written in a fixed order so the output is reproducible.
func (p *SMTPProvider) buildMessage(to, subject, body string, isHTML bool) []byte {
	var msg strings.Builder
	msg.WriteString("From: " + p.formatFrom() + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: " + contentType(isHTML) + "\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return []byte(msg.String())
}

// buildMessageWithAttachment assembles a multipart/mixed message: the
// rendered summary first, then the attachment as base64.
func (p *SMTPProvider) buildMessageWithAttachment(to, subject, body string, isHTML bool, attachmentName string, attachmentData []byte) []byte {
	var msg strings.Builder
	msg.WriteString("From: " + p.formatFrom() + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: multipart/mixed; boundary=" + transcriptBoundary + "\r\n")
	msg.WriteString("\r\n")

	msg.WriteString("--" + transcriptBoundary + "\r\n")
	msg.WriteString("Content-Type: " + contentType(isHTML) + "\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	msg.WriteString("--" + transcriptBoundary + "\r\n")
	msg.WriteString("Content-Type: application/json; name=\"" + attachmentName + "\"\r\n")
	msg.WriteString("Content-Disposition: attachment; filename=\"" + attachmentName + "\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(base64.StdEncoding.EncodeToString(attachmentData))
	msg.WriteString("\r\n")

	msg.WriteString("--" + transcriptBoundary + "--\r\n")
	return []byte(msg.String())
}

func (p *SMTPProvider) deliver(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	if p.useTLS {
		return p.deliverTLS(addr, to, message)
	}

	var auth smtp.Auth
	if p.username != "" && p.password != "" {
		auth = smtp.PlainAuth("", p.username, p.password, p.host)
	}
	if err := smtp.SendMail(addr, auth, p.fromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("smtp: send: %w", err)
	}
	return nil
}

func (p *SMTPProvider) deliverTLS(addr, to string, message []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: p.host,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("smtp: tls dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, p.host)
	if err != nil {
		return fmt.Errorf("smtp: client: %w", err)
	}
	defer client.Close()

	if p.username != "" && p.password != "" {
		auth := smtp.PlainAuth("", p.username, p.password, p.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp: auth: %w", err)
		}
	}

	if err := client.Mail(p.fromEmail); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp: rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: data: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		return fmt.Errorf("smtp: write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp: close: %w", err)
	}
	return client.Quit()
}

func (p *SMTPProvider) formatFrom() string {
	if p.fromName != "" {
		return fmt.Sprintf("%s <%s>", p.fromName, p.fromEmail)
	}
	return p.fromEmail
}
