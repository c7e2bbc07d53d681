// internal/tui/jobs_view.go
//
// Job board for talents: search, browse, open a posting, apply, and run
// the skill-gap analysis against it.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/logbook"
)

type jobsLoadedMsg struct {
	jobs  []api.Job
	total int
	err   error
}

type jobLoadedMsg struct {
	job *api.Job
	err error
}

type jobAppliedMsg struct {
	jobID string
	err   error
}

type skillGapMsg struct {
	report *api.SkillGapReport
	err    error
}

type jobsView struct {
	app *App
	log *logbook.Scoped

	jobs   []api.Job
	total  int
	page   int
	cursor int

	search    textinput.Model
	searching bool

	// detail is non-nil while one opening is open.
	detail   *api.Job
	gap      *api.SkillGapReport
	gapErr   string
	applying bool
	applied  map[string]bool

	// Application step: an optional cover note composed before submit.
	composing bool
	coverNote textinput.Model

	loading bool
	errMsg  string
}

func newJobsView(app *App) *jobsView {
	search := textinput.New()
	search.Placeholder = "Search openings"
	search.Prompt = "/ "
	coverNote := textinput.New()
	coverNote.Placeholder = "Optional cover note"
	coverNote.Prompt = "> "
	coverNote.CharLimit = 500
	return &jobsView{
		app:       app,
		log:       app.scope("jobs"),
		page:      1,
		search:    search,
		coverNote: coverNote,
		applied:   map[string]bool{},
	}
}

func (v *jobsView) Init() tea.Cmd {
	v.loading = true
	return v.fetchJobs()
}

func (v *jobsView) fetchJobs() tea.Cmd {
	client := v.app.client
	query := strings.TrimSpace(v.search.Value())
	page := v.page
	pageSize := v.app.cfg.PageSize()
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		out, err := client.ListJobs(ctx, query, page, pageSize)
		return jobsLoadedMsg{jobs: out.Items, total: out.Total, err: err}
	}
}

func (v *jobsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case jobsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.log.Warn("load failed: %v", msg.err)
			return nil
		}
		v.errMsg = ""
		v.jobs = msg.jobs
		v.total = msg.total
		if v.cursor >= len(v.jobs) {
			v.cursor = max(0, len(v.jobs)-1)
		}
		return nil

	case jobLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			return nil
		}
		v.errMsg = ""
		v.detail = msg.job
		v.gap = nil
		v.gapErr = ""
		return nil

	case jobAppliedMsg:
		v.applying = false
		if msg.err != nil {
			v.errMsg = "apply failed: " + msg.err.Error()
			v.log.Warn("apply failed: %v", msg.err)
			return nil
		}
		v.errMsg = ""
		v.applied[msg.jobID] = true
		v.app.setStatus("Application sent")
		v.log.Info("applied to %s", msg.jobID)
		return nil

	case skillGapMsg:
		if msg.err != nil {
			v.gapErr = msg.err.Error()
			return nil
		}
		v.gapErr = ""
		v.gap = msg.report
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

// handleEsc closes the cover-note composer, the search box, or the open
// posting before the app treats Esc as "back to menu".
func (v *jobsView) handleEsc() (tea.Cmd, bool) {
	if v.composing {
		v.composing = false
		v.coverNote.Blur()
		return nil, true
	}
	if v.searching {
		v.searching = false
		v.search.Blur()
		return nil, true
	}
	if v.detail != nil {
		v.detail = nil
		v.gap = nil
		return nil, true
	}
	return nil, false
}

func (v *jobsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.searching {
		if msg.String() == "enter" {
			v.searching = false
			v.search.Blur()
			v.page = 1
			v.loading = true
			return v.fetchJobs()
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return cmd
	}

	if v.composing {
		if msg.String() == "enter" {
			return v.apply()
		}
		var cmd tea.Cmd
		v.coverNote, cmd = v.coverNote.Update(msg)
		return cmd
	}

	if v.detail != nil {
		switch msg.String() {
		case "b", "backspace":
			v.detail = nil
			v.gap = nil
		case "a":
			return v.beginApplication()
		case "g":
			return v.fetchSkillGap()
		}
		return nil
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
		if v.cursor < len(v.jobs)-1 {
			v.cursor++
		}
	case "left", "h":
		if v.page > 1 {
			v.page--
			v.loading = true
			return v.fetchJobs()
		}
	case "right", "l":
		if v.page*v.app.cfg.PageSize() < v.total {
			v.page++
			v.loading = true
			return v.fetchJobs()
		}
	case "r":
		v.loading = true
		return v.fetchJobs()
	case "enter":
		return v.openSelected()
	}
	return nil
}

func (v *jobsView) openSelected() tea.Cmd {
	if v.cursor < 0 || v.cursor >= len(v.jobs) {
		return nil
	}
	id := v.jobs[v.cursor].ID
	client := v.app.client
	v.loading = true
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		job, err := client.GetJob(ctx, id)
		return jobLoadedMsg{job: job, err: err}
	}
}

// beginApplication opens the cover-note composer for the open posting.
func (v *jobsView) beginApplication() tea.Cmd {
	if v.detail == nil || v.applying || v.applied[v.detail.ID] {
		return nil
	}
	v.composing = true
	v.coverNote.Reset()
	v.coverNote.Focus()
	return textinput.Blink
}

func (v *jobsView) apply() tea.Cmd {
	if v.detail == nil || v.applying || v.applied[v.detail.ID] {
		return nil
	}
	v.applying = true
	v.composing = false
	v.coverNote.Blur()
	client := v.app.client
	id := v.detail.ID
	note := strings.TrimSpace(v.coverNote.Value())
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		err := client.ApplyToJob(ctx, id, note)
		return jobAppliedMsg{jobID: id, err: err}
	}
}

func (v *jobsView) fetchSkillGap() tea.Cmd {
	if v.detail == nil {
		return nil
	}
	client := v.app.client
	id := v.detail.ID
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		report, err := client.SkillGap(ctx, id)
		return skillGapMsg{report: report, err: err}
	}
}

func (v *jobsView) View() string {
	if v.detail != nil {
		return v.renderDetail()
	}
	return v.renderList()
}

func (v *jobsView) renderList() string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Job Board · page %d", v.page))}
	if v.searching || v.search.Value() != "" {
		lines = append(lines, v.search.View())
	}
	if v.loading {
		lines = append(lines, faintStyle.Render("Loading..."))
	}
	if v.errMsg != "" {
		lines = append(lines, errorStyle.Render("⚠ "+v.errMsg))
	}
	if !v.loading && len(v.jobs) == 0 {
		lines = append(lines, faintStyle.Render("No openings match."))
	}
	for i, j := range v.jobs {
		row := fmt.Sprintf("%s\n%s", j.Title,
			faintStyle.Render(j.CompanyName+" · "+j.Location))
		if i == v.cursor {
			row = selectedRowStyle.Render(row)
		} else {
			row = rowStyle.Render(row)
		}
		lines = append(lines, row)
	}
	lines = append(lines, renderKeyHints(
		"↑/↓ select", "Enter → open", "/ → search", "←/→ page", "Esc → back"))
	return strings.Join(lines, "\n")
}

func (v *jobsView) renderDetail() string {
	j := v.detail
	lines := []string{
		titleStyle.Render(j.Title),
		faintStyle.Render(j.CompanyName + " · " + j.Location + " · posted " + j.PostedAt.Format("2 Jan 2006")),
	}
	if j.SalaryRange != "" {
		lines = append(lines, "Salary: "+j.SalaryRange)
	}
	if len(j.Skills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(j.Skills, ", "))
	}
	lines = append(lines, "", j.Description)
	if v.applied[j.ID] {
		lines = append(lines, "", faintStyle.Render("✓ Application sent"))
	}
	if v.gapErr != "" {
		lines = append(lines, errorStyle.Render("⚠ skill gap: "+v.gapErr))
	}
	if v.gap != nil {
		lines = append(lines, "", v.renderGap())
	}
	if v.errMsg != "" {
		lines = append(lines, errorStyle.Render("⚠ "+v.errMsg))
	}
	if v.composing {
		lines = append(lines, "",
			titleStyle.Render("Apply"),
			v.coverNote.View(),
			hintStyle.Render("Enter → submit application    Esc → cancel"))
	}
	if v.applying {
		lines = append(lines, faintStyle.Render("Applying..."))
	}
	hints := []string{"g → skill gap", "b → back to list", "Esc → menu"}
	if !v.applied[j.ID] && !v.composing {
		hints = append([]string{"a → apply"}, hints...)
	}
	lines = append(lines, "", renderKeyHints(hints...))
	return strings.Join(lines, "\n")
}

func (v *jobsView) renderGap() string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Skill gap · %d%% match", v.gap.MatchPercent))}
	if len(v.gap.MissingSkills) == 0 {
		lines = append(lines, faintStyle.Render("No missing skills."))
	} else {
		lines = append(lines, "Missing: "+strings.Join(v.gap.MissingSkills, ", "))
	}
	if len(v.gap.RecommendedCourseIDs) > 0 {
		lines = append(lines, faintStyle.Render(
			fmt.Sprintf("%d course(s) in the catalog would close the gap.", len(v.gap.RecommendedCourseIDs))))
	}
	return strings.Join(lines, "\n")
}
