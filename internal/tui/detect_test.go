package tui

import (
	"strings"
	"testing"
)

func TestDetectMode_DBPOOL_PLAIN(t *testing.T) {
	t.Setenv("DBPOOL_PLAIN", "1")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")

	if got := DetectMode(); got != ModePlain {
		t.Errorf("DetectMode() = %d, want ModePlain", got)
	}
}

func TestDetectMode_CI(t *testing.T) {
	t.Setenv("DBPOOL_PLAIN", "")
	t.Setenv("CI", "true")
	t.Setenv("NO_COLOR", "")

	if got := DetectMode(); got != ModePlain {
		t.Errorf("DetectMode() = %d, want ModePlain", got)
	}
}

func TestDetectMode_NO_COLOR(t *testing.T) {
	t.Setenv("DBPOOL_PLAIN", "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "1")

	if got := DetectMode(); got != ModePlain {
		t.Errorf("DetectMode() = %d, want ModePlain", got)
	}
}

func TestDetectMode_NoTerminal(t *testing.T) {
	// In test context, stdout is not a terminal
	t.Setenv("DBPOOL_PLAIN", "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")

	if IsColorEnabled() {
		t.Error("IsColorEnabled() = true in test environment, want false")
	}
}

func TestPrinter_Plain(t *testing.T) {
	p := NewPrinter(false)

	tests := []struct {
		got  string
		want string
	}{
		{p.Title("dbpool"), "dbpool"},
		{p.Field("source", "environment"), "source: environment"},
		{p.Success("connected"), "✓ connected"},
		{p.Failure("refused"), "✗ refused"},
		{p.Step("skipped"), "→ skipped"},
		{p.Warning("careful"), "careful"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestPrinter_ColorKeepsText(t *testing.T) {
	p := NewPrinter(true)

	if got := p.Success("connected"); !strings.Contains(got, "connected") {
		t.Errorf("Success() = %q, want it to contain the message", got)
	}
	if got := p.Field("driver", "mysql"); !strings.Contains(got, "driver") || !strings.Contains(got, "mysql") {
		t.Errorf("Field() = %q, want label and value", got)
	}
}
