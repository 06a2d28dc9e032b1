package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/latination/lineup/internal/config"
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/schedule"
)

// Mailer emails validation reports to the content team through a relay
// SMTP server.
type Mailer struct {
	cfg      config.NotifyConfig
	hostname string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewMailer creates a mailer. The hostname is used in the SMTP greeting.
func NewMailer(cfg config.NotifyConfig, hostname string, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg:      cfg,
		hostname: hostname,
		timeout:  30 * time.Second,
		logger:   logger,
	}
}

// SendReport mails a validation report. A disabled mailer silently does
// nothing, so callers need no conditional around it.
func (m *Mailer) SendReport(ctx context.Context, report *content.Report, season schedule.Season) error {
	if !m.cfg.Enabled {
		return nil
	}

	subject := reportSubject(report, season)
	msg := buildMessage(m.cfg.From, m.cfg.To, subject, renderReport(report, season))

	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}

	m.logger.Info("validation report sent",
		"to", m.cfg.To,
		"findings", len(report.Findings),
	)
	return nil
}

func (m *Mailer) send(ctx context.Context, data []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connection failed to %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(m.timeout))
	}

	client := smtp.NewClient(conn)
	defer client.Close()

	if err := client.Hello(m.hostname); err != nil {
		return fmt.Errorf("HELO failed: %w", err)
	}

	// Opportunistic STARTTLS, same as any relay submission.
	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{
			ServerName: m.cfg.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if m.cfg.Username != "" {
		auth := sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	for _, to := range m.cfg.To {
		if err := client.Rcpt(to, nil); err != nil {
			return fmt.Errorf("RCPT TO %s failed: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return client.Quit()
}

func reportSubject(report *content.Report, season schedule.Season) string {
	status := "clean"
	if report.HasErrors() {
		status = "FAILED"
	} else if report.CountBySeverity()[content.SeverityWarning] > 0 {
		status = "warnings"
	}
	return fmt.Sprintf("Lineup validation %s: %s through %s",
		status,
		schedule.MonthSlug(season.StartYear, season.StartMonth),
		schedule.MonthSlug(season.EndYear, season.EndMonth),
	)
}

// renderReport formats findings as plain text, errors first.
func renderReport(report *content.Report, season schedule.Season) string {
	var b bytes.Buffer

	counts := report.CountBySeverity()
	fmt.Fprintf(&b, "Validation report for %s through %s\n\n",
		schedule.MonthSlug(season.StartYear, season.StartMonth),
		schedule.MonthSlug(season.EndYear, season.EndMonth))
	fmt.Fprintf(&b, "Errors: %d, warnings: %d, info: %d\n",
		counts[content.SeverityError],
		counts[content.SeverityWarning],
		counts[content.SeverityInfo])

	for _, sev := range []content.Severity{content.SeverityError, content.SeverityWarning, content.SeverityInfo} {
		if counts[sev] == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", sev)
		for _, f := range report.Findings {
			if f.Severity != sev {
				continue
			}
			fmt.Fprintf(&b, "  [%s] %s %s: %s\n", f.Code, f.Kind, f.ID, f.Message)
		}
	}

	return b.String()
}

// buildMessage assembles an RFC 5322 plain-text message.
func buildMessage(from string, to []string, subject, body string) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", joinAddresses(to))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	// Normalize body line endings for the wire.
	for _, line := range bytes.Split([]byte(body), []byte("\n")) {
		b.Write(line)
		b.WriteString("\r\n")
	}

	return b.Bytes()
}

func joinAddresses(to []string) string {
	var b bytes.Buffer
	for i, addr := range to {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(addr)
	}
	return b.String()
}
