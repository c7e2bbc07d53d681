// internal/tui/detail_view.go
//
// One proposal's workspace: the course tracker, lifecycle actions, the
// milestone/XP read-model, and the per-proposal chat feed. The server is
// the source of truth; every mutation returns a fresh snapshot which
// replaces the local one, and chat polls on a fixed interval while the
// proposal status keeps the channel open.

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/chat"
	"github.com/talentbridge/talentbridge/internal/logbook"
	"github.com/talentbridge/talentbridge/internal/proposal"
)

type detailLoadedMsg struct {
	p   *proposal.Proposal
	err error
}

type mutationDoneMsg struct {
	action string
	p      *proposal.Proposal
	err    error
}

type chatLoadedMsg struct {
	seq  int
	msgs []chat.Message
	err  error
}

type chatPollTickMsg struct {
	seq int
}

type chatSentMsg struct {
	err error
}

type detailFocus int

const (
	focusCourses detailFocus = iota
	focusChatInput
	focusNotesEditor
	focusHireConfirm
)

// detailView renders one proposal for whichever role is signed in.
type detailView struct {
	app        *App
	log        *logbook.Scoped
	proposalID string

	p       *proposal.Proposal
	loading bool
	errMsg  string

	selection int
	focus     detailFocus

	// busy disables every mutation affordance while one is in flight so
	// a repeated keypress cannot issue a duplicate request.
	busy bool

	// Hire confirmation step.
	hireNotes textinput.Model

	// Per-course note editor; the company variant adds a deadline field.
	notesInput      textarea.Model
	deadlineInput   textinput.Model
	editingDeadline bool

	// Chat.
	chatMsgs  []chat.Message
	chatInput textinput.Model
	sending   bool
	pollSeq   int
	chatErr   string
}

func newDetailView(app *App, proposalID string) *detailView {
	chatInput := textinput.New()
	chatInput.Placeholder = "Write a message"
	chatInput.Prompt = "> "
	chatInput.CharLimit = 2000

	hireNotes := textinput.New()
	hireNotes.Placeholder = "Hiring notes (optional)"
	hireNotes.Prompt = "> "

	notes := textarea.New()
	notes.Placeholder = "Notes"
	notes.SetHeight(4)

	deadline := textinput.New()
	deadline.Placeholder = "YYYY-MM-DD"
	deadline.Prompt = "Deadline > "

	return &detailView{
		app:           app,
		log:           app.scope("proposal"),
		proposalID:    proposalID,
		hireNotes:     hireNotes,
		notesInput:    notes,
		deadlineInput: deadline,
		chatInput:     chatInput,
	}
}

func (v *detailView) Init() tea.Cmd {
	v.loading = true
	return v.fetchProposal()
}

func (v *detailView) fetchProposal() tea.Cmd {
	client := v.app.client
	id := v.proposalID
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		p, err := client.GetProposal(ctx, id)
		return detailLoadedMsg{p: p, err: err}
	}
}

// maybePollChat issues a message fetch plus the next tick, but only
// while the proposal status keeps the channel open. A closed channel
// issues no request at all.
func (v *detailView) maybePollChat() tea.Cmd {
	if v.p == nil || !v.p.Status.ChatEnabled() {
		return nil
	}
	v.pollSeq++
	seq := v.pollSeq
	fetch := v.fetchMessages(seq)
	tick := tea.Tick(v.app.cfg.ChatPollInterval(), func(time.Time) tea.Msg {
		return chatPollTickMsg{seq: seq}
	})
	return tea.Batch(fetch, tick)
}

func (v *detailView) fetchMessages(seq int) tea.Cmd {
	client := v.app.client
	id := v.proposalID
	pageSize := v.app.cfg.PageSize()
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		msgs, err := client.ListMessages(ctx, id, 1, pageSize)
		return chatLoadedMsg{seq: seq, msgs: msgs, err: err}
	}
}

func (v *detailView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.log.Warn("load %s failed: %v", v.proposalID, msg.err)
			return nil
		}
		v.errMsg = ""
		v.p = msg.p
		if v.selection >= len(v.p.Courses) {
			v.selection = max(0, len(v.p.Courses)-1)
		}
		return v.maybePollChat()

	case mutationDoneMsg:
		v.busy = false
		if msg.err != nil {
			v.errMsg = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
			v.log.Warn("%s failed on %s: %v", msg.action, v.proposalID, msg.err)
			return nil
		}
		v.errMsg = ""
		wasEnabled := v.p != nil && v.p.Status.ChatEnabled()
		v.p = msg.p
		v.app.setStatus("%s · done", msg.action)
		v.log.Info("%s applied on %s", msg.action, v.proposalID)
		if !wasEnabled && v.p.Status.ChatEnabled() {
			return v.maybePollChat()
		}
		return nil

	case chatPollTickMsg:
		// Stale ticks from a superseded poll generation are dropped.
		if msg.seq != v.pollSeq {
			return nil
		}
		return v.maybePollChat()

	case chatLoadedMsg:
		if msg.seq != v.pollSeq {
			return nil
		}
		if msg.err != nil {
			v.chatErr = msg.err.Error()
			return nil
		}
		v.chatErr = ""
		v.chatMsgs = msg.msgs
		return nil

	case chatSentMsg:
		v.sending = false
		if msg.err != nil {
			v.chatErr = "send failed: " + msg.err.Error()
			v.log.Warn("chat send failed: %v", msg.err)
			return nil
		}
		v.chatErr = ""
		v.chatInput.Reset()
		// Refresh right away rather than waiting for the next tick.
		return v.fetchMessages(v.pollSeq)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v.updateFocusedInput(msg)
}

func (v *detailView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch v.focus {
	case focusChatInput:
		if msg.String() == "enter" {
			return v.sendChatMessage()
		}
		return v.updateFocusedInput(msg)
	case focusNotesEditor:
		return v.handleNotesKey(msg)
	case focusHireConfirm:
		if msg.String() == "enter" {
			return v.confirmHire()
		}
		return v.updateFocusedInput(msg)
	}
	return v.handleCourseKey(msg)
}

func (v *detailView) handleCourseKey(msg tea.KeyMsg) tea.Cmd {
	if v.p == nil {
		return nil
	}
	courses := v.p.SortedCourses()
	switch msg.String() {
	case "up", "k":
		if v.selection > 0 {
			v.selection--
		}
	case "down", "j":
		if v.selection < len(courses)-1 {
			v.selection++
		}
	case "r":
		return v.fetchProposal()
	case "s":
		return v.startSelectedCourse(courses)
	case "c":
		return v.completeSelectedCourse(courses)
	case "n":
		v.openNotesEditor(courses)
	case "m":
		if v.p.Status.ChatEnabled() {
			v.focus = focusChatInput
			v.chatInput.Focus()
			return textinput.Blink
		}
	case "a":
		return v.applyLifecycleAction(proposal.ActionAccept)
	case "d":
		return v.applyLifecycleAction(proposal.ActionReject)
	case "H":
		return v.beginHire()
	}
	return nil
}

// handleEsc backs out of whichever inline editor is live. Returns false
// when nothing was captured, letting the app leave the screen.
func (v *detailView) handleEsc() (tea.Cmd, bool) {
	switch v.focus {
	case focusChatInput:
		v.focus = focusCourses
		v.chatInput.Blur()
		return nil, true
	case focusNotesEditor:
		v.focus = focusCourses
		v.notesInput.Blur()
		v.deadlineInput.Blur()
		return nil, true
	case focusHireConfirm:
		v.focus = focusCourses
		v.hireNotes.Blur()
		return nil, true
	}
	return nil, false
}

func (v *detailView) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focus {
	case focusChatInput:
		v.chatInput, cmd = v.chatInput.Update(msg)
	case focusHireConfirm:
		v.hireNotes, cmd = v.hireNotes.Update(msg)
	case focusNotesEditor:
		if v.editingDeadline {
			v.deadlineInput, cmd = v.deadlineInput.Update(msg)
		} else {
			v.notesInput, cmd = v.notesInput.Update(msg)
		}
	}
	return cmd
}

// --- lifecycle actions -------------------------------------------------

// applyLifecycleAction dispatches accept/reject after checking the
// transition table for the current role, so an illegal request never
// leaves the client.
func (v *detailView) applyLifecycleAction(action proposal.Action) tea.Cmd {
	if v.p == nil || v.busy || v.app.sess == nil {
		return nil
	}
	actor := proposal.RoleActor(v.app.sess.Role)
	if err := proposal.CheckTransition(v.p.Status, action.Target(), actor); err != nil {
		v.errMsg = err.Error()
		return nil
	}
	return v.patchStatus(action.FriendlyName(), action.Target(), "")
}

// beginHire opens the confirmation step. The warning about incomplete
// courses is rendered by the confirm panel itself.
func (v *detailView) beginHire() tea.Cmd {
	if v.p == nil || v.busy || v.app.sess == nil || !v.app.sess.Role.IsCompany() {
		return nil
	}
	if err := proposal.CheckTransition(v.p.Status, proposal.StatusHired, proposal.ActorCompany); err != nil {
		v.errMsg = err.Error()
		return nil
	}
	v.focus = focusHireConfirm
	v.hireNotes.Reset()
	v.hireNotes.Focus()
	return textinput.Blink
}

func (v *detailView) confirmHire() tea.Cmd {
	if v.p == nil || v.busy {
		return nil
	}
	notes := strings.TrimSpace(v.hireNotes.Value())
	v.focus = focusCourses
	v.hireNotes.Blur()
	return v.patchStatus("Hire", proposal.StatusHired, notes)
}

func (v *detailView) patchStatus(label string, target proposal.Status, hiringNotes string) tea.Cmd {
	v.busy = true
	client := v.app.client
	id := v.proposalID
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		p, err := client.UpdateProposalStatus(ctx, id, target, hiringNotes)
		return mutationDoneMsg{action: label, p: p, err: err}
	}
}

// --- course tracker ----------------------------------------------------

func (v *detailView) selectedCourse(courses []proposal.Course) *proposal.Course {
	if v.selection < 0 || v.selection >= len(courses) {
		return nil
	}
	return &courses[v.selection]
}

func (v *detailView) startSelectedCourse(courses []proposal.Course) tea.Cmd {
	if v.busy || v.app.sess == nil || !v.app.sess.Role.IsTalent() {
		return nil
	}
	course := v.selectedCourse(courses)
	if course == nil || !course.CanStart(v.p) {
		return nil
	}
	v.busy = true
	client := v.app.client
	pid, cid := v.proposalID, course.CourseID
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		p, err := client.StartCourse(ctx, pid, cid)
		return mutationDoneMsg{action: "Start course", p: p, err: err}
	}
}

func (v *detailView) completeSelectedCourse(courses []proposal.Course) tea.Cmd {
	if v.busy || v.app.sess == nil || !v.app.sess.Role.IsTalent() {
		return nil
	}
	course := v.selectedCourse(courses)
	if course == nil || !course.CanComplete(v.p) {
		return nil
	}
	v.busy = true
	client := v.app.client
	pid, cid := v.proposalID, course.CourseID
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		p, err := client.CompleteCourse(ctx, pid, cid)
		return mutationDoneMsg{action: "Complete course", p: p, err: err}
	}
}

func (v *detailView) openNotesEditor(courses []proposal.Course) {
	course := v.selectedCourse(courses)
	if course == nil || v.app.sess == nil {
		return
	}
	v.focus = focusNotesEditor
	v.editingDeadline = false
	if v.app.sess.Role.IsCompany() {
		v.notesInput.SetValue(course.CompanyNotes)
		v.deadlineInput.SetValue(course.Deadline)
	} else {
		v.notesInput.SetValue(course.TalentNotes)
	}
	v.notesInput.Focus()
}

func (v *detailView) handleNotesKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		// Company editors toggle between notes and deadline fields.
		if v.app.sess != nil && v.app.sess.Role.IsCompany() {
			v.editingDeadline = !v.editingDeadline
			if v.editingDeadline {
				v.notesInput.Blur()
				v.deadlineInput.Focus()
			} else {
				v.deadlineInput.Blur()
				v.notesInput.Focus()
			}
			return nil
		}
	case "ctrl+s":
		return v.saveNotes()
	}
	return v.updateFocusedInput(msg)
}

// saveNotes writes the role's own note field; last write wins.
func (v *detailView) saveNotes() tea.Cmd {
	if v.p == nil || v.busy || v.app.sess == nil {
		return nil
	}
	course := v.selectedCourse(v.p.SortedCourses())
	if course == nil {
		return nil
	}
	v.busy = true
	v.focus = focusCourses
	v.notesInput.Blur()
	v.deadlineInput.Blur()

	client := v.app.client
	pid, cid := v.proposalID, course.CourseID
	notes := v.notesInput.Value()
	if v.app.sess.Role.IsCompany() {
		deadline := strings.TrimSpace(v.deadlineInput.Value())
		return func() tea.Msg {
			ctx, cancel := v.app.requestContext()
			defer cancel()
			p, err := client.SaveCompanyUpdate(ctx, pid, cid, notes, deadline)
			return mutationDoneMsg{action: "Save notes", p: p, err: err}
		}
	}
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		p, err := client.SaveTalentNotes(ctx, pid, cid, notes)
		return mutationDoneMsg{action: "Save notes", p: p, err: err}
	}
}

// --- chat --------------------------------------------------------------

func (v *detailView) sendChatMessage() tea.Cmd {
	if v.p == nil || v.sending || !v.p.Status.ChatEnabled() {
		return nil
	}
	content := strings.TrimSpace(v.chatInput.Value())
	if content == "" {
		return nil
	}
	v.sending = true
	client := v.app.client
	id := v.proposalID
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		_, err := client.SendMessage(ctx, id, content)
		return chatSentMsg{err: err}
	}
}

// --- rendering ---------------------------------------------------------

func (v *detailView) View() string {
	if v.loading && v.p == nil {
		return faintStyle.Render("Loading proposal...")
	}
	if v.p == nil {
		return errorStyle.Render("⚠ " + v.errMsg)
	}
	sections := []string{
		v.renderSummary(),
		v.renderCourses(),
		v.renderChat(),
	}
	if v.focus == focusHireConfirm {
		sections = append(sections, v.renderHireConfirm())
	}
	if v.focus == focusNotesEditor {
		sections = append(sections, v.renderNotesEditor())
	}
	if v.errMsg != "" {
		sections = append(sections, errorStyle.Render("⚠ "+v.errMsg))
	}
	sections = append(sections, v.renderHints())
	return strings.Join(sections, "\n\n")
}

func (v *detailView) renderSummary() string {
	p := v.p
	who := p.TalentName
	if v.app.sess != nil && v.app.sess.Role.IsTalent() {
		who = p.CompanyName
	}
	lines := []string{
		titleStyle.Render(who) + "  " + statusBadge(p.Status),
	}
	if p.Message != "" {
		lines = append(lines, p.Message)
	}
	if p.BudgetRange != "" {
		lines = append(lines, faintStyle.Render("Budget: "+p.BudgetRange))
	}
	if percent, ok := p.ProgressPercent(); ok {
		lines = append(lines, fmt.Sprintf("Progress: %d/%d courses (%.0f%%) · %d XP",
			p.CompletedCount(), len(p.Courses), percent, p.TotalXP))
	}
	if len(p.Milestones) > 0 {
		badges := make([]string, len(p.Milestones))
		for i, m := range p.Milestones {
			badges[i] = "★ " + m.MilestoneType
		}
		lines = append(lines, faintStyle.Render(strings.Join(badges, "  ")))
	}
	if p.Status == proposal.StatusHired {
		hired := "Hired"
		if p.HiredAt != nil {
			hired += " on " + p.HiredAt.Format("2 Jan 2006")
		}
		if p.HiringNotes != "" {
			hired += " · " + p.HiringNotes
		}
		lines = append(lines, statusStyles[proposal.StatusHired].Render(hired))
	}
	return strings.Join(lines, "\n")
}

func (v *detailView) renderCourses() string {
	courses := v.p.SortedCourses()
	if len(courses) == 0 {
		return faintStyle.Render("No courses in this path.")
	}
	rows := make([]string, 0, len(courses)+1)
	rows = append(rows, titleStyle.Render("Learning Path"))
	for i, c := range courses {
		rows = append(rows, v.renderCourseRow(c, i == v.selection))
	}
	return strings.Join(rows, "\n")
}

func (v *detailView) renderCourseRow(c proposal.Course, selected bool) string {
	marker := "○"
	switch {
	case c.IsCompleted:
		marker = "●"
	case c.StartedAt != nil:
		marker = "◐"
	}
	line1 := fmt.Sprintf("%s %d. %s", marker, c.Order+1, c.Title)
	meta := []string{c.Provider, c.Level}
	if c.DurationHours > 0 {
		meta = append(meta, fmt.Sprintf("%dh", c.DurationHours))
	}
	if c.XPEarned > 0 {
		meta = append(meta, fmt.Sprintf("+%d XP", c.XPEarned))
	}
	line2 := faintStyle.Render(strings.Join(meta, " · "))
	if badge := v.renderDeadlineBadge(c); badge != "" {
		line2 += "  " + badge
	}
	content := line1 + "\n" + line2
	if notes := v.renderCourseNotes(c); notes != "" {
		content += "\n" + notes
	}
	if selected {
		return selectedRowStyle.Render(content)
	}
	return rowStyle.Render(content)
}

// renderDeadlineBadge shows exactly one of: nothing, overdue, urgent, or
// plain days remaining.
func (v *detailView) renderDeadlineBadge(c proposal.Course) string {
	switch c.DeadlineState(v.app.cfg.UrgentDeadlineDays()) {
	case proposal.BadgeOverdue:
		return overdueBadgeStyle.Render("OVERDUE " + c.Deadline)
	case proposal.BadgeUrgent:
		return urgentBadgeStyle.Render(fmt.Sprintf("due in %d day(s)", *c.DaysRemaining))
	case proposal.BadgeRemaining:
		return deadlineBadgeStyle.Render(fmt.Sprintf("%d days left", *c.DaysRemaining))
	default:
		return ""
	}
}

func (v *detailView) renderCourseNotes(c proposal.Course) string {
	var parts []string
	if c.CompanyNotes != "" {
		parts = append(parts, faintStyle.Render("Company: "+c.CompanyNotes))
	}
	if c.TalentNotes != "" {
		parts = append(parts, faintStyle.Render("Talent: "+c.TalentNotes))
	}
	return strings.Join(parts, "\n")
}

func (v *detailView) renderChat() string {
	if !v.p.Status.ChatEnabled() {
		return titleStyle.Render("Chat") + "\n" +
			faintStyle.Render("Chat becomes available once the proposal is accepted.")
	}
	lines := []string{titleStyle.Render("Chat")}
	if v.chatErr != "" {
		lines = append(lines, errorStyle.Render("⚠ "+v.chatErr))
	}
	timeline := chat.Timeline(v.chatMsgs)
	if len(timeline) == 0 {
		lines = append(lines, faintStyle.Render("No messages yet."))
	}
	for _, item := range timeline {
		if item.IsSeparator() {
			lines = append(lines, faintStyle.Render("── "+item.Separator+" ──"))
			continue
		}
		m := item.Message
		prefix := m.SenderName
		if m.Mine(v.app.sess) {
			prefix = "you"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s",
			faintStyle.Render(m.CreatedAt.Format("15:04")), prefix, m.Content))
	}
	lines = append(lines, v.chatInput.View())
	if v.sending {
		lines = append(lines, faintStyle.Render("Sending..."))
	}
	return strings.Join(lines, "\n")
}

func (v *detailView) renderHireConfirm() string {
	lines := []string{titleStyle.Render("Confirm hire")}
	if v.p.HireNeedsWarning() {
		open := v.p.IncompleteCourses()
		names := make([]string, len(open))
		for i, c := range open {
			names[i] = c.Title
		}
		lines = append(lines, urgentBadgeStyle.Render(
			fmt.Sprintf("⚠ %d course(s) not yet complete: %s", len(open), strings.Join(names, ", "))))
	}
	lines = append(lines, v.hireNotes.View())
	lines = append(lines, hintStyle.Render("Enter → confirm hire    Esc → cancel"))
	return strings.Join(lines, "\n")
}

func (v *detailView) renderNotesEditor() string {
	lines := []string{titleStyle.Render("Course notes"), v.notesInput.View()}
	if v.app.sess != nil && v.app.sess.Role.IsCompany() {
		lines = append(lines, v.deadlineInput.View())
		lines = append(lines, hintStyle.Render("Tab → notes/deadline    Ctrl+S → save    Esc → cancel"))
	} else {
		lines = append(lines, hintStyle.Render("Ctrl+S → save    Esc → cancel"))
	}
	return strings.Join(lines, "\n")
}

// renderHints lists only the affordances the current role has right now.
func (v *detailView) renderHints() string {
	hints := []string{"↑/↓ course", "r → refresh"}
	if v.app.sess != nil {
		for _, action := range proposal.AllowedActions(v.p.Status, v.app.sess.Role) {
			switch action {
			case proposal.ActionAccept:
				hints = append(hints, "a → accept")
			case proposal.ActionReject:
				hints = append(hints, "d → decline")
			case proposal.ActionHire:
				hints = append(hints, "H → hire")
			}
		}
		if v.app.sess.Role.IsTalent() && v.p.Status == proposal.StatusAccepted {
			hints = append(hints, "s → start course", "c → complete course")
		}
		hints = append(hints, "n → notes")
	}
	if v.p.Status.ChatEnabled() {
		hints = append(hints, "m → chat")
	}
	hints = append(hints, "Esc → back")
	return renderKeyHints(hints...)
}
