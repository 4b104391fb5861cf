package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/study-buddy/study-buddy-api/pkg/config"
	appErrors "github.com/study-buddy/study-buddy-api/pkg/errors"
	"github.com/study-buddy/study-buddy-api/pkg/jobs"
)

// EmailMessage is the payload carried through the outbound email queue.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// EmailSender delivers one message. Implementations must be safe for
// concurrent use by queue workers.
type EmailSender interface {
	Send(msg EmailMessage) error
}

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPSender builds a sender from config. Auth is skipped when no
// username is configured, which matches local relay setups.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

// Send writes the message to the relay.
func (s *SMTPSender) Send(msg EmailMessage) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// EmailService queues outbound notifications so request handlers never block
// on the SMTP relay.
type EmailService struct {
	sender  EmailSender
	queue   *jobs.Queue
	logger  *zap.Logger
	enabled bool
}

// NewEmailService constructs the service and its worker queue. Call Start
// before enqueueing and Stop on shutdown.
func NewEmailService(sender EmailSender, cfg config.EmailConfig, logger *zap.Logger) *EmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EmailService{sender: sender, logger: logger, enabled: cfg.Enabled && sender != nil}
	s.queue = jobs.NewQueue("email", s.handleJob, jobs.QueueConfig{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	return s
}

// Start launches the queue workers.
func (s *EmailService) Start(ctx context.Context) {
	if !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *EmailService) Stop() {
	if !s.enabled {
		return
	}
	s.queue.Stop()
}

// Enabled reports whether outbound email is configured.
func (s *EmailService) Enabled() bool {
	return s != nil && s.enabled
}

// Enqueue schedules a message for delivery.
func (s *EmailService) Enqueue(msg EmailMessage) error {
	if !s.Enabled() {
		return appErrors.Clone(appErrors.ErrValidation, "email delivery is not enabled")
	}
	if msg.To == "" || msg.Subject == "" {
		return appErrors.Clone(appErrors.ErrValidation, "recipient and subject are required")
	}
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "email.send",
		Payload: msg,
	})
}

// SendWelcome notifies a new account of successful signup.
func (s *EmailService) SendWelcome(to, username string) error {
	return s.Enqueue(EmailMessage{
		To:      to,
		Subject: "Welcome to Study Buddy",
		Body:    fmt.Sprintf("Hi %s,\n\nYour account is ready. Add at least three courses and generate your first weekly study timetable.\n", username),
	})
}

// SendTimetableReady tells the user a generated timetable export is ready.
func (s *EmailService) SendTimetableReady(to, username, downloadURL string) error {
	return s.Enqueue(EmailMessage{
		To:      to,
		Subject: "Your study timetable is ready",
		Body:    fmt.Sprintf("Hi %s,\n\nYour weekly study timetable export is ready:\n%s\n\nThe link expires, so download it soon.\n", username, downloadURL),
	})
}

func (s *EmailService) handleJob(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(EmailMessage)
	if !ok {
		s.logger.Error("email job carried unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	if err := s.sender.Send(msg); err != nil {
		return err
	}
	s.logger.Info("email delivered", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
