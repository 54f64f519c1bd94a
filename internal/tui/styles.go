package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B8DEF")).
			Bold(true)

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")).
			Bold(true).
			Underline(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5B8DEF")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#999999")).
				Padding(0, 1)

	helperStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#3B4261"))

	statusLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0AEC0"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4CAF50"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B4261")).
			Padding(0, 1)

	pillNeutral = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	pillInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	pillWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	pillSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	pillDanger  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

// statusPillStyles maps every backend status to a display tone, covering
// project, document, and answer lifecycles alike.
var statusPillStyles = map[string]lipgloss.Style{
	"CREATED":        pillNeutral,
	"PARSING":        pillInfo,
	"READY":          pillInfo,
	"GENERATING":     pillInfo,
	"OUTDATED":       pillWarn,
	"REVIEW":         pillSuccess,
	"EVALUATING":     pillInfo,
	"EVALUATED":      pillSuccess,
	"FAILED":         pillDanger,
	"PENDING":        pillNeutral,
	"GENERATED":      pillInfo,
	"CONFIRMED":      pillSuccess,
	"REJECTED":       pillDanger,
	"MANUAL_UPDATED": pillWarn,
	"MISSING_DATA":   pillWarn,
	"STALE":          pillWarn,
	"UPLOADED":       pillInfo,
	"PARSED":         pillInfo,
	"INDEXED":        pillSuccess,
}

// statusPill renders a status token in its tone.
func statusPill(status string) string {
	style, ok := statusPillStyles[status]
	if !ok {
		style = pillNeutral
	}
	return style.Render("[" + status + "]")
}

// shortID compresses backend ids for display.
func shortID(id string) string {
	if len(id) > 10 {
		return id[:6] + "..." + id[len(id)-4:]
	}
	return id
}

// formatDate renders a timestamp or nothing for the zero value.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// formatConfidence renders an optional confidence as a percentage.
func formatConfidence(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", int(*value*100+0.5))
}

// formatAnswerable renders the tri-state answerable flag.
func formatAnswerable(value *bool) string {
	switch {
	case value == nil:
		return "n/a"
	case *value:
		return "Yes"
	default:
		return "No"
	}
}
