package mailer

import (
	"context"
	"log"
)

// Sender attempts delivery of one message and reports the outcome.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config mirrors the service's mail environment. An empty Host or
// Username means the transport is unconfigured and demo mode applies.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool // STARTTLS after plain connect
	UseSSL   bool // implicit TLS connect
	Sender   string
}

// Configured reports whether enough transport settings exist to attempt
// real delivery.
func (c Config) Configured() bool {
	return c.Host != "" && c.Username != ""
}

// NewFromConfig returns an SMTPSender when the transport is configured and
// a DemoSender otherwise.
func NewFromConfig(cfg Config, logger *log.Logger) Sender {
	if !cfg.Configured() {
		return NewDemoSender(logger)
	}
	return NewSMTPSender(cfg)
}

// DemoSender is the unconfigured-transport fallback: it prints the message
// through the logger and always reports success, so passcode flows work in
// local development without a mail account.
type DemoSender struct {
	logger *log.Logger
}

// NewDemoSender builds a DemoSender. A nil logger uses the default.
func NewDemoSender(logger *log.Logger) *DemoSender {
	if logger == nil {
		logger = log.Default()
	}
	return &DemoSender{logger: logger}
}

// Send emits the message locally and succeeds.
func (d *DemoSender) Send(_ context.Context, to, subject, body string) error {
	d.logger.Printf("=== DEMO EMAIL ===\nTo: %s\nSubject: %s\nBody:\n%s\n==================", to, subject, body)
	return nil
}
