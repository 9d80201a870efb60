package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridProvider delivers summary emails through the SendGrid API. It is
// the production provider; SMTP covers development.
type SendGridProvider struct {
	fromEmail string
	fromName  string
	client    *sendgrid.Client
}

func NewSendGridProvider(apiKey, fromEmail, fromName string) *SendGridProvider {
	return &SendGridProvider{
		fromEmail: fromEmail,
		fromName:  fromName,
		client:    sendgrid.NewSendClient(apiKey),
	}
}

// Send delivers the rendered summary without an attachment.
func (p *SendGridProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	return p.dispatch(ctx, p.buildMessage(to, subject, body, isHTML))
}

// SendWithAttachment delivers the summary with the transcript JSON attached.
func (p *SendGridProvider) SendWithAttachment(ctx context.Context, to, subject, body string, isHTML bool, attachmentName string, attachmentData []byte) error {
	message := p.buildMessage(to, subject, body, isHTML)

	attachment := mail.NewAttachment()
	attachment.SetContent(string(attachmentData))
	attachment.SetType("application/json")
	attachment.SetFilename(attachmentName)
	attachment.SetDisposition("attachment")
	message.AddAttachment(attachment)

	return p.dispatch(ctx, message)
}

func (p *SendGridProvider) buildMessage(to, subject, body string, isHTML bool) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(p.fromName, p.fromEmail))
	message.Subject = subject

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	message.AddPersonalizations(personalization)

	if isHTML {
		message.AddContent(mail.NewContent("text/html", body))
	} else {
		message.AddContent(mail.NewContent("text/plain", body))
	}
	return message
}

func (p *SendGridProvider) dispatch(ctx context.Context, message *mail.SGMailV3) error {
	response, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	// SendGrid signals success with 2xx.
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
