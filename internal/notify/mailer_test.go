package notify

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/latination/lineup/internal/config"
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/schedule"
)

func testReport() *content.Report {
	return &content.Report{Findings: []content.Finding{
		{Severity: content.SeverityWarning, Code: schedule.WarnAmbiguousFlightRange, Kind: "campaign", ID: "mystery", Message: "flight dates not recognized"},
		{Severity: content.SeverityInfo, Code: schedule.WarnAmbiguousFlightRange, Kind: "campaign", ID: "pride", Message: "flight year inferred from season"},
	}}
}

func TestNewMailer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewMailer(config.NotifyConfig{Host: "smtp.example.com"}, "lineup.example.com", logger)
	if m.timeout != 30*time.Second {
		t.Errorf("timeout = %v", m.timeout)
	}
	if m.hostname != "lineup.example.com" {
		t.Errorf("hostname = %q", m.hostname)
	}
}

func TestSendReportDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewMailer(config.NotifyConfig{Enabled: false}, "lineup.example.com", logger)

	// No host configured: anything but an early return would fail.
	if err := m.SendReport(context.Background(), testReport(), schedule.DefaultSeason()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReportSubject(t *testing.T) {
	season := schedule.DefaultSeason()

	tests := []struct {
		name   string
		report *content.Report
		want   string
	}{
		{
			name:   "clean",
			report: &content.Report{},
			want:   "Lineup validation clean: 2025-09 through 2026-12",
		},
		{
			name:   "warnings",
			report: testReport(),
			want:   "Lineup validation warnings: 2025-09 through 2026-12",
		},
		{
			name: "errors",
			report: &content.Report{Findings: []content.Finding{
				{Severity: content.SeverityError, Code: schedule.WarnDuplicateSlug, Kind: "series", ID: "x", Message: "dup"},
			}},
			want: "Lineup validation FAILED: 2025-09 through 2026-12",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := reportSubject(tc.report, season); got != tc.want {
				t.Errorf("reportSubject() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderReport(t *testing.T) {
	body := renderReport(testReport(), schedule.DefaultSeason())

	if !strings.Contains(body, "Errors: 0, warnings: 1, info: 1") {
		t.Errorf("missing counts line:\n%s", body)
	}
	if !strings.Contains(body, "campaign mystery: flight dates not recognized") {
		t.Errorf("missing warning detail:\n%s", body)
	}
	// No error section when there are no errors.
	if strings.Contains(body, "\nerror:\n") {
		t.Errorf("unexpected error section:\n%s", body)
	}
	if !strings.Contains(body, "\nwarning:\n") {
		t.Errorf("missing warning section:\n%s", body)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("lineup@example.com", []string{"a@example.com", "b@example.com"}, "Test", "line one\nline two"))

	for _, want := range []string{
		"From: lineup@example.com\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Subject: Test\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
		"\r\n\r\nline one\r\nline two\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "line one\nline two") {
		t.Error("body not normalized to CRLF")
	}
}
