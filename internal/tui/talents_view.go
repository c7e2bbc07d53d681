// internal/tui/talents_view.go
//
// Talent discovery for companies: search by skill and jump straight into
// composing a proposal for a candidate.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/logbook"
)

type talentsLoadedMsg struct {
	talents []api.Talent
	total   int
	err     error
}

type talentsView struct {
	app *App
	log *logbook.Scoped

	talents []api.Talent
	total   int
	page    int
	cursor  int

	search    textinput.Model
	searching bool

	loading bool
	errMsg  string
}

func newTalentsView(app *App) *talentsView {
	search := textinput.New()
	search.Placeholder = "Filter by skill, e.g. golang"
	search.Prompt = "/ "
	return &talentsView{app: app, log: app.scope("talents"), page: 1, search: search}
}

func (v *talentsView) Init() tea.Cmd {
	v.loading = true
	return v.fetchTalents()
}

func (v *talentsView) fetchTalents() tea.Cmd {
	client := v.app.client
	skill := strings.TrimSpace(v.search.Value())
	page := v.page
	pageSize := v.app.cfg.PageSize()
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		out, err := client.SearchTalents(ctx, skill, page, pageSize)
		return talentsLoadedMsg{talents: out.Items, total: out.Total, err: err}
	}
}

func (v *talentsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case talentsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.log.Warn("search failed: %v", msg.err)
			return nil
		}
		v.errMsg = ""
		v.talents = msg.talents
		v.total = msg.total
		if v.cursor >= len(v.talents) {
			v.cursor = max(0, len(v.talents)-1)
		}
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	if v.searching {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return cmd
	}
	return nil
}

func (v *talentsView) handleEsc() (tea.Cmd, bool) {
	if v.searching {
		v.searching = false
		v.search.Blur()
		return nil, true
	}
	return nil, false
}

func (v *talentsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.searching {
		if msg.String() == "enter" {
			v.searching = false
			v.search.Blur()
			v.page = 1
			v.loading = true
			return v.fetchTalents()
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "/":
		v.searching = true
		v.search.Focus()
		return textinput.Blink
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.talents)-1 {
			v.cursor++
		}
	case "left", "h":
		if v.page > 1 {
			v.page--
			v.loading = true
			return v.fetchTalents()
		}
	case "right", "l":
		if v.page*v.app.cfg.PageSize() < v.total {
			v.page++
			v.loading = true
			return v.fetchTalents()
		}
	case "r":
		v.loading = true
		return v.fetchTalents()
	case "p", "enter":
		if v.cursor >= 0 && v.cursor < len(v.talents) {
			t := v.talents[v.cursor]
			return v.app.openCreateFlow(t.ID, t.DisplayName)
		}
	}
	return nil
}

func (v *talentsView) View() string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Find Talent · page %d", v.page))}
	if v.searching || v.search.Value() != "" {
		lines = append(lines, v.search.View())
	}
	if v.loading {
		lines = append(lines, faintStyle.Render("Searching..."))
	}
	if v.errMsg != "" {
		lines = append(lines, errorStyle.Render("⚠ "+v.errMsg))
	}
	if !v.loading && len(v.talents) == 0 {
		lines = append(lines, faintStyle.Render("No talents match."))
	}
	for i, t := range v.talents {
		lines = append(lines, v.renderRow(t, i == v.cursor))
	}
	lines = append(lines, renderKeyHints(
		"↑/↓ select", "p → propose a path", "/ → search", "←/→ page", "Esc → back"))
	return strings.Join(lines, "\n")
}

func (v *talentsView) renderRow(t api.Talent, selected bool) string {
	head := t.DisplayName
	if t.OpenToWork {
		head += "  " + deadlineBadgeStyle.Render("open to work")
	}
	meta := []string{t.Headline}
	if t.Location != "" {
		meta = append(meta, t.Location)
	}
	if t.TotalXP > 0 {
		meta = append(meta, fmt.Sprintf("%d XP", t.TotalXP))
	}
	body := head + "\n" + faintStyle.Render(strings.Join(meta, " · "))
	if len(t.Skills) > 0 {
		body += "\n" + faintStyle.Render("Skills: "+strings.Join(t.Skills, ", "))
	}
	if selected {
		return selectedRowStyle.Render(body)
	}
	return rowStyle.Render(body)
}
