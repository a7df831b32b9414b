package tui

import "github.com/charmbracelet/lipgloss"

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary   = lipgloss.Color("39")  // Blue
	ColorSecondary = lipgloss.Color("245") // Gray
	ColorSuccess   = lipgloss.Color("34")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorMuted     = lipgloss.Color("240") // Dark gray
)

// Styles for status output.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Width(12)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Symbols for visual feedback.
const (
	SymbolCheck      = "✓"
	SymbolCross      = "✗"
	SymbolArrowRight = "→"
	SymbolBullet     = "•"
)

// Printer renders status lines, styled only when color is enabled.
type Printer struct {
	color bool
}

// NewPrinter creates a Printer. Pass IsColorEnabled() for terminal output.
func NewPrinter(color bool) *Printer {
	return &Printer{color: color}
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

// Title renders a heading.
func (p *Printer) Title(s string) string {
	return p.render(TitleStyle, s)
}

// Field renders an aligned "label value" line.
func (p *Printer) Field(label, value string) string {
	if !p.color {
		return label + ": " + value
	}
	return LabelStyle.Render(label) + value
}

// Success renders s prefixed with a check mark.
func (p *Printer) Success(s string) string {
	return p.render(SuccessStyle, SymbolCheck+" "+s)
}

// Failure renders s prefixed with a cross.
func (p *Printer) Failure(s string) string {
	return p.render(ErrorStyle, SymbolCross+" "+s)
}

// Step renders a skipped or intermediate step.
func (p *Printer) Step(s string) string {
	return p.render(MutedStyle, SymbolArrowRight+" "+s)
}

// Warning renders s in the warning color.
func (p *Printer) Warning(s string) string {
	return p.render(WarningStyle, s)
}
