package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/logbook"
	"github.com/talentbridge/talentbridge/internal/proposal"
)

// filterTabs cycles "all" plus each lifecycle status.
var filterTabs = []proposal.Status{
	"", proposal.StatusSent, proposal.StatusAccepted, proposal.StatusCompleted,
	proposal.StatusHired, proposal.StatusRejected, proposal.StatusDraft,
}

type proposalsLoadedMsg struct {
	page api.Page[proposal.Proposal]
	err  error
}

// proposalsView lists the caller's proposals filtered by status. Both
// roles use it; row labels show the counterparty for the active role.
type proposalsView struct {
	app       *App
	log       *logbook.Scoped
	filterIdx int
	items     []proposal.Proposal
	selection int
	loading   bool
	errMsg    string
}

func newProposalsView(app *App) *proposalsView {
	return &proposalsView{app: app, log: app.scope("proposals")}
}

func (v *proposalsView) Init() tea.Cmd {
	return v.fetch()
}

func (v *proposalsView) fetch() tea.Cmd {
	v.loading = true
	v.errMsg = ""
	client := v.app.client
	status := filterTabs[v.filterIdx]
	pageSize := v.app.cfg.PageSize()
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		page, err := client.ListProposals(ctx, status, 1, pageSize)
		return proposalsLoadedMsg{page: page, err: err}
	}
}

func (v *proposalsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case proposalsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.log.Warn("load failed: %v", msg.err)
			return nil
		}
		v.items = msg.page.Items
		if v.selection >= len(v.items) {
			v.selection = max(0, len(v.items)-1)
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			v.filterIdx = (v.filterIdx + len(filterTabs) - 1) % len(filterTabs)
			return v.fetch()
		case "right", "l":
			v.filterIdx = (v.filterIdx + 1) % len(filterTabs)
			return v.fetch()
		case "up", "k":
			if v.selection > 0 {
				v.selection--
			}
		case "down", "j":
			if v.selection < len(v.items)-1 {
				v.selection++
			}
		case "r":
			return v.fetch()
		case "enter":
			if v.selection < len(v.items) {
				return v.app.openProposalDetail(v.items[v.selection].ID)
			}
		}
	}
	return nil
}

func (v *proposalsView) counterparty(p *proposal.Proposal) string {
	if v.app.sess != nil && v.app.sess.Role.IsCompany() {
		return p.TalentName
	}
	return p.CompanyName
}

func (v *proposalsView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Proposals") + "  " + v.renderFilter() + "\n\n")
	switch {
	case v.loading && len(v.items) == 0:
		b.WriteString(faintStyle.Render("Loading proposals..."))
	case v.errMsg != "":
		b.WriteString(errorStyle.Render("⚠ " + v.errMsg))
	case len(v.items) == 0:
		b.WriteString(faintStyle.Render("No proposals here yet."))
	default:
		for i := range v.items {
			b.WriteString(v.renderRow(&v.items[i], i == v.selection) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(renderKeyHints("←/→ filter", "Enter → open", "r → refresh", "Esc → menu"))
	return b.String()
}

func (v *proposalsView) renderFilter() string {
	status := filterTabs[v.filterIdx]
	if status == "" {
		return faintStyle.Render("[ all ]")
	}
	return faintStyle.Render("[ " + status.FriendlyName() + " ]")
}

func (v *proposalsView) renderRow(p *proposal.Proposal, selected bool) string {
	line1 := fmt.Sprintf("%s · %s", v.counterparty(p), statusBadge(p.Status))
	line2 := fmt.Sprintf("%d course(s)", len(p.Courses))
	if percent, ok := p.ProgressPercent(); ok {
		line2 = fmt.Sprintf("%d/%d courses · %.0f%%", p.CompletedCount(), len(p.Courses), percent)
	}
	if p.TotalXP > 0 {
		line2 += fmt.Sprintf(" · %d XP", p.TotalXP)
	}
	content := line1 + "\n" + line2
	if selected {
		return selectedRowStyle.Render(content)
	}
	return rowStyle.Render(content)
}
