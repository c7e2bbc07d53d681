// internal/tui/create_view.go
//
// Proposal composition for companies: pick courses from the catalog,
// order them into a path, attach a message and a budget range, submit.
// An empty path is rejected inline before any request is issued.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/logbook"
	"github.com/talentbridge/talentbridge/internal/proposal"
)

type catalogLoadedMsg struct {
	courses []api.CatalogCourse
	total   int
	err     error
}

type proposalCreatedMsg struct {
	p   *proposal.Proposal
	err error
}

type createPane int

const (
	paneCatalog createPane = iota
	panePath
	paneForm
)

// createView drives the three-pane composition flow: catalog on the
// left, the draft path in the middle, message/budget form last.
type createView struct {
	app        *App
	log        *logbook.Scoped
	talentName string
	draft      *proposal.Draft

	catalog   []api.CatalogCourse
	total     int
	page      int
	loading   bool
	errMsg    string
	formErr   string

	pane          createPane
	catalogCursor int
	pathCursor    int

	message  textarea.Model
	budget   textinput.Model
	onBudget bool

	submitting bool
}

func newCreateView(app *App, talentID, talentName string) *createView {
	message := textarea.New()
	message.Placeholder = "Why this path fits them"
	message.SetHeight(4)

	budget := textinput.New()
	budget.Placeholder = "e.g. $2,000 - $4,000"
	budget.Prompt = "Budget > "

	return &createView{
		app:        app,
		log:        app.scope("create"),
		talentName: talentName,
		draft:      proposal.NewDraft(talentID),
		page:       1,
		message:    message,
		budget:     budget,
	}
}

func (v *createView) Init() tea.Cmd {
	v.loading = true
	return v.fetchCatalog()
}

func (v *createView) fetchCatalog() tea.Cmd {
	client := v.app.client
	page := v.page
	pageSize := v.app.cfg.PageSize()
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		out, err := client.ListCourses(ctx, "", page, pageSize)
		return catalogLoadedMsg{courses: out.Items, total: out.Total, err: err}
	}
}

func (v *createView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.log.Warn("catalog load failed: %v", msg.err)
			return nil
		}
		v.errMsg = ""
		v.catalog = msg.courses
		v.total = msg.total
		if v.catalogCursor >= len(v.catalog) {
			v.catalogCursor = max(0, len(v.catalog)-1)
		}
		return nil

	case proposalCreatedMsg:
		v.submitting = false
		if msg.err != nil {
			v.formErr = msg.err.Error()
			v.log.Warn("submit failed: %v", msg.err)
			return nil
		}
		v.log.Info("proposal sent to %s", v.talentName)
		v.app.setStatus("Proposal sent to %s", v.talentName)
		return v.app.openScreen(stateProposals)

	case tea.KeyMsg:
		if v.pane == paneForm {
			return v.handleFormKey(msg)
		}
		return v.handleListKey(msg)
	}
	if v.pane == paneForm {
		return v.updateFormInput(msg)
	}
	return nil
}

func (v *createView) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		v.cyclePane()
	case "up", "k":
		v.moveCursor(-1)
	case "down", "j":
		v.moveCursor(1)
	case "left", "h":
		if v.pane == paneCatalog && v.page > 1 {
			v.page--
			v.loading = true
			return v.fetchCatalog()
		}
	case "right", "l":
		if v.pane == paneCatalog && v.page*v.app.cfg.PageSize() < v.total {
			v.page++
			v.loading = true
			return v.fetchCatalog()
		}
	case " ", "enter":
		if v.pane == paneCatalog {
			v.toggleSelected()
		}
	case "x", "backspace":
		if v.pane == panePath {
			v.draft.RemoveCourse(v.pathCursor)
			if v.pathCursor >= len(v.draft.Courses) {
				v.pathCursor = max(0, len(v.draft.Courses)-1)
			}
		}
	case "K", "shift+up":
		if v.pane == panePath {
			v.draft.MoveCourse(v.pathCursor, -1)
			if v.pathCursor > 0 {
				v.pathCursor--
			}
		}
	case "J", "shift+down":
		if v.pane == panePath {
			v.draft.MoveCourse(v.pathCursor, 1)
			if v.pathCursor < len(v.draft.Courses)-1 {
				v.pathCursor++
			}
		}
	case "ctrl+s":
		return v.submit()
	}
	return nil
}

func (v *createView) cyclePane() {
	switch v.pane {
	case paneCatalog:
		v.pane = panePath
	case panePath:
		v.pane = paneForm
		v.onBudget = false
		v.message.Focus()
	case paneForm:
		v.pane = paneCatalog
		v.message.Blur()
		v.budget.Blur()
	}
}

func (v *createView) moveCursor(delta int) {
	switch v.pane {
	case paneCatalog:
		next := v.catalogCursor + delta
		if next >= 0 && next < len(v.catalog) {
			v.catalogCursor = next
		}
	case panePath:
		next := v.pathCursor + delta
		if next >= 0 && next < len(v.draft.Courses) {
			v.pathCursor = next
		}
	}
}

// toggleSelected adds the highlighted catalog course, or removes it if it
// is already in the path.
func (v *createView) toggleSelected() {
	if v.catalogCursor < 0 || v.catalogCursor >= len(v.catalog) {
		return
	}
	course := v.catalog[v.catalogCursor]
	for i, c := range v.draft.Courses {
		if c.CourseID == course.ID {
			v.draft.RemoveCourse(i)
			return
		}
	}
	v.draft.AddCourse(course.ID, course.Title)
	v.formErr = ""
}

func (v *createView) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		if v.onBudget {
			v.budget.Blur()
			v.cyclePane()
			return nil
		}
		v.onBudget = true
		v.message.Blur()
		v.budget.Focus()
		return textinput.Blink
	case "ctrl+s":
		return v.submit()
	}
	return v.updateFormInput(msg)
}

func (v *createView) updateFormInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if v.onBudget {
		v.budget, cmd = v.budget.Update(msg)
	} else {
		v.message, cmd = v.message.Update(msg)
	}
	return cmd
}

// handleEsc backs out of the form pane; elsewhere Esc abandons the draft.
func (v *createView) handleEsc() (tea.Cmd, bool) {
	if v.pane == paneForm {
		v.pane = paneCatalog
		v.message.Blur()
		v.budget.Blur()
		return nil, true
	}
	return nil, false
}

// submit validates locally first so an empty path never issues a request,
// then posts the draft.
func (v *createView) submit() tea.Cmd {
	if v.submitting {
		return nil
	}
	v.draft.Message = strings.TrimSpace(v.message.Value())
	v.draft.BudgetRange = strings.TrimSpace(v.budget.Value())
	if err := v.draft.Validate(); err != nil {
		v.formErr = err.Error()
		return nil
	}
	v.submitting = true
	v.formErr = ""
	client := v.app.client
	draft := v.draft
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		p, err := client.CreateProposal(ctx, draft)
		return proposalCreatedMsg{p: p, err: err}
	}
}

func (v *createView) View() string {
	sections := []string{
		titleStyle.Render("New proposal for " + v.talentName),
		v.renderCatalog(),
		v.renderPath(),
		v.renderForm(),
	}
	if v.formErr != "" {
		sections = append(sections, errorStyle.Render("⚠ "+v.formErr))
	}
	if v.submitting {
		sections = append(sections, faintStyle.Render("Submitting..."))
	}
	sections = append(sections, renderKeyHints(
		"Tab → next pane", "Space → select", "J/K → reorder", "x → remove",
		"←/→ catalog page", "Ctrl+S → send", "Esc → back"))
	return strings.Join(sections, "\n\n")
}

func (v *createView) paneTitle(label string, pane createPane) string {
	if v.pane == pane {
		return titleStyle.Render("▸ " + label)
	}
	return faintStyle.Render("  " + label)
}

func (v *createView) renderCatalog() string {
	lines := []string{v.paneTitle(fmt.Sprintf("Catalog (page %d)", v.page), paneCatalog)}
	if v.loading {
		lines = append(lines, faintStyle.Render("Loading catalog..."))
	}
	if v.errMsg != "" {
		lines = append(lines, errorStyle.Render("⚠ "+v.errMsg))
	}
	selected := make(map[string]bool, len(v.draft.Courses))
	for _, c := range v.draft.Courses {
		selected[c.CourseID] = true
	}
	for i, c := range v.catalog {
		mark := "[ ]"
		if selected[c.ID] {
			mark = "[✓]"
		}
		line := fmt.Sprintf("%s %s  %s", mark, c.Title,
			faintStyle.Render(fmt.Sprintf("%s · %s · %dh", c.Provider, c.Level, c.DurationHours)))
		if v.pane == paneCatalog && i == v.catalogCursor {
			line = selectedRowStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (v *createView) renderPath() string {
	lines := []string{v.paneTitle(fmt.Sprintf("Learning path (%d)", len(v.draft.Courses)), panePath)}
	if len(v.draft.Courses) == 0 {
		lines = append(lines, faintStyle.Render("No courses selected yet."))
	}
	for i, c := range v.draft.Courses {
		line := fmt.Sprintf("%d. %s", c.Order+1, c.Title)
		if v.pane == panePath && i == v.pathCursor {
			line = selectedRowStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (v *createView) renderForm() string {
	lines := []string{
		v.paneTitle("Message & budget", paneForm),
		v.message.View(),
		v.budget.View(),
	}
	return strings.Join(lines, "\n")
}
