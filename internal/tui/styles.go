package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/talentbridge/talentbridge/internal/proposal"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			MarginTop(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)

	faintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#5B8DEF")).
				Padding(0, 1)

	rowStyle = lipgloss.NewStyle().Padding(0, 0, 1, 0)
)

var statusStyles = map[proposal.Status]lipgloss.Style{
	proposal.StatusDraft:     lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")),
	proposal.StatusSent:      lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true),
	proposal.StatusAccepted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
	proposal.StatusRejected:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	proposal.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
	proposal.StatusHired:     lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
}

func statusBadge(s proposal.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		style = faintStyle
	}
	return style.Render(s.FriendlyName())
}

var (
	overdueBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B")).
				Bold(true)
	urgentBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F7B801")).
				Bold(true)
	deadlineBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AAAAAA"))
)
