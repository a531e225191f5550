package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/haivivi/voicelock/pkg/voiceprint"
)

// Theme defines the terminal color scheme.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Good    lipgloss.Color
	Bad     lipgloss.Color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Good:    lipgloss.Color("#3fb950"),
	Bad:     lipgloss.Color("#f85149"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Match   lipgloss.Style
	NoMatch lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:   lipgloss.NewStyle().Bold(true),
		Match:   lipgloss.NewStyle().Bold(true).Foreground(t.Good),
		NoMatch: lipgloss.NewStyle().Bold(true).Foreground(t.Bad),
		Help:    lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Printer writes styled messages for humans.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Styles Styles
}

// NewPrinter creates a Printer with the default theme.
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{Out: out, Err: errOut, Styles: NewStyles(DefaultTheme)}
}

// Success prints a success message with checkmark
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Match.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Info prints an info message
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Title.Render("ℹ")+" "+fmt.Sprintf(format, args...))
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.NoMatch.Render("⚠")+" "+fmt.Sprintf(format, args...))
}

// Error prints an error message to Err
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.Err, p.Styles.NoMatch.Render("Error:")+" "+fmt.Sprintf(format, args...))
}

// Dim prints a de-emphasized line.
func (p *Printer) Dim(format string, args ...any) {
	fmt.Fprintln(p.Out, p.Styles.Help.Render(fmt.Sprintf(format, args...)))
}

// Decision prints the similarity breakdown of d. Section headings and the
// total line are styled; the verdict follows the total.
func (p *Printer) Decision(d voiceprint.Decision) {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(d.String(), "\n"), "\n") {
		switch {
		case strings.HasSuffix(line, ":") && !strings.Contains(line, " - "):
			line = p.Styles.Title.Render(line)
		case strings.HasPrefix(line, "Total Similarity:"):
			line = p.Styles.Label.Render(line)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if d.Matched {
		sb.WriteString(p.Styles.Match.Render("Voice matched"))
	} else {
		sb.WriteString(p.Styles.NoMatch.Render("Voice not matched"))
	}
	fmt.Fprintln(p.Out, sb.String())
}
