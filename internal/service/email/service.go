package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/domain"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// AttachmentSender is implemented by providers that can carry attachments.
// When the configured provider supports it, the summary email includes the
// raw transcript as a JSON attachment.
type AttachmentSender interface {
	SendWithAttachment(ctx context.Context, to, subject, body string, isHTML bool, attachmentName string, attachmentData []byte) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	// From email address
	FromEmail string
	FromName  string

	// SendGrid configuration
	SendGridAPIKey string

	// SMTP configuration (for Mailhog or other SMTP servers)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
}

// DefaultConfig returns a default configuration for development (Mailhog)
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "noreply@tukma.work",
		FromName:   "Tukma",
		SMTPHost:   "localhost",
		SMTPPort:   1025, // Mailhog default port
		SMTPUseTLS: false,
	}
}

// Service implements the EmailService interface
type Service struct {
	config   *Config
	provider Provider
	summary  *template.Template
	log      *zap.Logger
}

// NewService creates a new email service
func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Service{
		config:  config,
		summary: template.Must(template.New("interview_summary").Parse(interviewSummaryTemplate)),
		log:     log,
	}

	switch config.Provider {
	case "sendgrid":
		if config.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		s.provider = NewSendGridProvider(config.SendGridAPIKey, config.FromEmail, config.FromName)
	case "smtp":
		s.provider = NewSMTPProvider(
			config.SMTPHost,
			config.SMTPPort,
			config.SMTPUsername,
			config.SMTPPassword,
			config.FromEmail,
			config.FromName,
			config.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", config.Provider)
	}

	return s, nil
}

type summaryTurn struct {
	Role    string
	Speaker string
	Content string
}

type summaryData struct {
	Company   string
	Role      string
	TurnCount int
	Duration  string
	Turns     []summaryTurn
}

// SendInterviewSummary renders and delivers the post-interview summary for
// an archived session. System turns are excluded from the rendered
// transcript; the full record travels as a JSON attachment when the
// provider supports attachments.
func (s *Service) SendInterviewSummary(ctx context.Context, to string, record *domain.InterviewRecord) error {
	if record == nil {
		return fmt.Errorf("email: nil interview record")
	}

	var turns []domain.Turn
	if record.Transcript != "" {
		if err := json.Unmarshal([]byte(record.Transcript), &turns); err != nil {
			s.log.Warn("Transcript in archive is not valid JSON, sending summary without it",
				zap.String("interview_id", record.ID),
				zap.Error(err),
			)
		}
	}

	data := summaryData{
		Company:   record.Company,
		Role:      record.Role,
		TurnCount: record.TurnCount,
		Duration:  record.EndedAt.Sub(record.StartedAt).Round(time.Second).String(),
	}
	for _, turn := range turns {
		switch turn.Role {
		case domain.TurnRoleUser:
			data.Turns = append(data.Turns, summaryTurn{Role: "user", Speaker: "You", Content: turn.Content})
		case domain.TurnRoleAssistant:
			data.Turns = append(data.Turns, summaryTurn{Role: "assistant", Speaker: "Interviewer", Content: turn.Content})
		}
	}

	var buf bytes.Buffer
	if err := s.summary.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render summary template: %w", err)
	}

	subject := fmt.Sprintf("Your %s interview summary", record.Company)

	s.log.Info("Sending interview summary",
		zap.String("to", to),
		zap.String("interview_id", record.ID),
	)

	if sender, ok := s.provider.(AttachmentSender); ok {
		attachment, err := json.MarshalIndent(record, "", "  ")
		if err == nil {
			if err := sender.SendWithAttachment(ctx, to, subject, buf.String(), true, "transcript.json", attachment); err != nil {
				return fmt.Errorf("failed to send summary email: %w", err)
			}
			return nil
		}
		s.log.Warn("Could not encode transcript attachment", zap.Error(err))
	}

	if err := s.provider.Send(ctx, to, subject, buf.String(), true); err != nil {
		s.log.Error("Failed to send summary email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send summary email: %w", err)
	}
	return nil
}
