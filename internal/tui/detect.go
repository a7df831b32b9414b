package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents how dbpool writes to the terminal.
type Mode int

const (
	// ModePlain is used for CI/CD pipelines, scripts, and redirected output.
	ModePlain Mode = iota
	// ModeColor is used when a human is reading stdout.
	ModeColor
)

// DetectMode determines whether status output should be styled.
//
// Returns ModePlain if:
//   - stdout is not a terminal (redirected or piped output)
//   - DBPOOL_PLAIN=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//
// Returns ModeColor otherwise.
func DetectMode() Mode {
	if os.Getenv("DBPOOL_PLAIN") == "1" {
		return ModePlain
	}
	if os.Getenv("CI") != "" {
		return ModePlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModePlain
	}

	return ModeColor
}

// IsColorEnabled is a convenience function that returns true if output should be styled.
func IsColorEnabled() bool {
	return DetectMode() == ModeColor
}
