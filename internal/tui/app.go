// internal/tui/app.go
//
// Main TUI for the TalentBridge client, following The Elm Architecture:
//
// 1. Model: application state (App plus one sub-view per screen)
// 2. Update: state transitions driven by messages
// 3. View: render state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen.
// All remote data arrives as snapshot messages produced by tea.Cmd
// functions; nothing blocks the event loop.

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/config"
	"github.com/talentbridge/talentbridge/internal/logbook"
	"github.com/talentbridge/talentbridge/internal/session"
)

// appState represents which screen we're on.
type appState int

const (
	stateLogin appState = iota
	stateMainMenu
	stateProposals
	stateProposalDetail
	stateCreateProposal
	stateJobs
	stateTalents
	stateProfile
	stateAdvice
	stateNotifications
)

const (
	inboxRefreshInterval = 30 * time.Second
	requestTimeout       = 30 * time.Second
)

// AppOption customizes App construction for tests.
type AppOption func(*App)

type inboxRefreshMsg struct {
	unread int
	recent []api.Notification
	err    error
}

// App is the main application model. It holds ALL state.
type App struct {
	state   appState
	cfg     *config.Config
	client  *api.Client
	sess    *session.Session
	logbook *logbook.Logbook

	// Sub-views, one per screen. Only the active one is non-nil.
	loginView     *loginView
	proposalsView *proposalsView
	detailView    *detailView
	createView    *createView
	jobsView      *jobsView
	talentsView   *talentsView
	profileView   *profileView
	adviceView    *adviceView
	notifView     *notificationsView

	mainMenu  list.Model
	statusMsg string

	// Inbox summary for the right-hand panel.
	unreadCount  int
	recentInbox  []api.Notification
	inboxErr     string

	width  int
	height int
}

// menuItem implements list.Item for the main menu.
type menuItem struct {
	title  string
	desc   string
	target appState
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates the root model. sess may be nil, in which case the app
// starts on the login screen.
func NewApp(cfg *config.Config, client *api.Client, sess *session.Session, lb *logbook.Logbook, opts ...AppOption) *App {
	app := &App{
		state:   stateLogin,
		cfg:     cfg,
		client:  client,
		sess:    sess,
		logbook: lb,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	menu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "◆ TALENTBRIDGE"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	app.mainMenu = menu

	if sess != nil {
		app.completeLogin(sess)
	} else {
		app.loginView = newLoginView(app)
	}
	return app
}

// buildMainMenu returns the role's menu. Talent and company get distinct
// dashboards; no shared branching inside the items themselves.
func buildMainMenu(role session.Role) []list.Item {
	if role.IsCompany() {
		return []list.Item{
			menuItem{title: "Proposals", desc: "Learning paths you have offered", target: stateProposals},
			menuItem{title: "Find Talent", desc: "Search talents and propose a path", target: stateTalents},
			menuItem{title: "Notifications", desc: "Your inbox", target: stateNotifications},
			menuItem{title: "Company Profile", desc: "Edit your public profile", target: stateProfile},
			menuItem{title: "Exit", desc: "Quit TalentBridge"},
		}
	}
	return []list.Item{
		menuItem{title: "My Proposals", desc: "Learning paths offered to you", target: stateProposals},
		menuItem{title: "Browse Jobs", desc: "Openings on the job board", target: stateJobs},
		menuItem{title: "Career Advice", desc: "Ask the AI advisor", target: stateAdvice},
		menuItem{title: "Notifications", desc: "Your inbox", target: stateNotifications},
		menuItem{title: "Profile", desc: "Edit your profile", target: stateProfile},
		menuItem{title: "Exit", desc: "Quit TalentBridge"},
	}
}

// completeLogin installs a session and moves to the dashboard.
func (a *App) completeLogin(sess *session.Session) {
	a.sess = sess
	a.client = a.client.WithToken(sess.Token)
	a.state = stateMainMenu
	a.loginView = nil
	a.mainMenu.SetItems(buildMainMenu(sess.Role))
	a.logInfo("Session opened · %s (%s)", sess.DisplayName, sess.Role)
}

// scope returns a logger that tags this view's entries in the shared
// session log. Safe to call with no logbook configured.
func (a *App) scope(name string) *logbook.Scoped {
	return a.logbook.Scope(name)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

func (a *App) setStatus(format string, args ...any) {
	a.statusMsg = fmt.Sprintf(format, args...)
}

// requestContext returns the context used for one remote call.
func (a *App) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	if a.state == stateLogin {
		return a.loginView.Init()
	}
	return a.fetchInboxSummary()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		return a, a.updateActiveView(msg)

	case inboxRefreshMsg:
		if msg.err != nil {
			a.inboxErr = msg.err.Error()
		} else {
			a.inboxErr = ""
			a.unreadCount = msg.unread
			a.recentInbox = msg.recent
		}
		return a, a.scheduleInboxRefresh()

	case loginResultMsg:
		if a.loginView != nil {
			return a, a.loginView.handleResult(msg)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateMainMenu {
				return a, tea.Quit
			}
		case "esc":
			if a.state != stateMainMenu && a.state != stateLogin {
				if cmd, handled := a.activeViewHandlesEsc(); handled {
					return a, cmd
				}
				return a.returnToMainMenu()
			}
		case "enter":
			if a.state == stateMainMenu {
				return a, a.handleMainMenuSelection()
			}
		}
	}

	var cmds []tea.Cmd
	if a.state == stateMainMenu {
		var menuCmd tea.Cmd
		a.mainMenu, menuCmd = a.mainMenu.Update(msg)
		if menuCmd != nil {
			cmds = append(cmds, menuCmd)
		}
	}
	if cmd := a.updateActiveView(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// escHandler lets a screen capture Esc for its own inline editors
// before the app treats it as "back to menu".
type escHandler interface {
	handleEsc() (tea.Cmd, bool)
}

func (a *App) activeViewHandlesEsc() (tea.Cmd, bool) {
	var view escHandler
	switch a.state {
	case stateProposalDetail:
		if a.detailView != nil {
			view = a.detailView
		}
	case stateCreateProposal:
		if a.createView != nil {
			view = a.createView
		}
	case stateJobs:
		if a.jobsView != nil {
			view = a.jobsView
		}
	case stateTalents:
		if a.talentsView != nil {
			view = a.talentsView
		}
	}
	if view == nil {
		return nil, false
	}
	return view.handleEsc()
}

// updateActiveView forwards a message to whichever screen is live.
func (a *App) updateActiveView(msg tea.Msg) tea.Cmd {
	switch a.state {
	case stateLogin:
		if a.loginView != nil {
			return a.loginView.Update(msg)
		}
	case stateProposals:
		if a.proposalsView != nil {
			return a.proposalsView.Update(msg)
		}
	case stateProposalDetail:
		if a.detailView != nil {
			return a.detailView.Update(msg)
		}
	case stateCreateProposal:
		if a.createView != nil {
			return a.createView.Update(msg)
		}
	case stateJobs:
		if a.jobsView != nil {
			return a.jobsView.Update(msg)
		}
	case stateTalents:
		if a.talentsView != nil {
			return a.talentsView.Update(msg)
		}
	case stateProfile:
		if a.profileView != nil {
			return a.profileView.Update(msg)
		}
	case stateAdvice:
		if a.adviceView != nil {
			return a.adviceView.Update(msg)
		}
	case stateNotifications:
		if a.notifView != nil {
			return a.notifView.Update(msg)
		}
	}
	return nil
}

func (a *App) handleMainMenuSelection() tea.Cmd {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return nil
	}
	if item.title == "Exit" {
		a.logInfo("Menu · Exit selected")
		return tea.Quit
	}
	a.logInfo("Menu · %s selected", item.title)
	return a.openScreen(item.target)
}

// openScreen constructs the sub-view for a screen and runs its initial
// fetch.
func (a *App) openScreen(target appState) tea.Cmd {
	a.statusMsg = ""
	switch target {
	case stateProposals:
		a.state = stateProposals
		a.proposalsView = newProposalsView(a)
		return a.proposalsView.Init()
	case stateJobs:
		a.state = stateJobs
		a.jobsView = newJobsView(a)
		return a.jobsView.Init()
	case stateTalents:
		a.state = stateTalents
		a.talentsView = newTalentsView(a)
		return a.talentsView.Init()
	case stateProfile:
		a.state = stateProfile
		a.profileView = newProfileView(a)
		return a.profileView.Init()
	case stateAdvice:
		a.state = stateAdvice
		a.adviceView = newAdviceView(a)
		return a.adviceView.Init()
	case stateNotifications:
		a.state = stateNotifications
		a.notifView = newNotificationsView(a)
		return a.notifView.Init()
	}
	return nil
}

// openProposalDetail switches to one proposal's workspace.
func (a *App) openProposalDetail(proposalID string) tea.Cmd {
	a.state = stateProposalDetail
	a.detailView = newDetailView(a, proposalID)
	return a.detailView.Init()
}

// openCreateFlow starts composing a proposal for a talent.
func (a *App) openCreateFlow(talentID, talentName string) tea.Cmd {
	a.state = stateCreateProposal
	a.createView = newCreateView(a, talentID, talentName)
	return a.createView.Init()
}

// returnToMainMenu tears down the active screen. Any polling tick still
// in flight is dropped because its view pointer is gone.
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	a.state = stateMainMenu
	a.proposalsView = nil
	a.detailView = nil
	a.createView = nil
	a.jobsView = nil
	a.talentsView = nil
	a.profileView = nil
	a.adviceView = nil
	a.notifView = nil
	a.statusMsg = ""
	return a, a.fetchInboxSummary()
}

func (a *App) fetchInboxSummary() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		page, err := client.ListNotifications(ctx, 1, 5)
		if err != nil {
			return inboxRefreshMsg{err: err}
		}
		unread := 0
		for _, n := range page.Items {
			if !n.IsRead {
				unread++
			}
		}
		return inboxRefreshMsg{unread: unread, recent: page.Items}
	}
}

func (a *App) scheduleInboxRefresh() tea.Cmd {
	if a.state == stateLogin {
		return nil
	}
	fetch := a.fetchInboxSummary()
	return tea.Tick(inboxRefreshInterval, func(time.Time) tea.Msg {
		return fetch()
	})
}

// View renders the current state.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.state {
	case stateLogin:
		if a.loginView != nil {
			content = a.loginView.View()
		}
	case stateMainMenu:
		content = a.mainMenu.View()
	case stateProposals:
		if a.proposalsView != nil {
			content = a.proposalsView.View()
		}
	case stateProposalDetail:
		if a.detailView != nil {
			content = a.detailView.View()
		}
	case stateCreateProposal:
		if a.createView != nil {
			content = a.createView.View()
		}
	case stateJobs:
		if a.jobsView != nil {
			content = a.jobsView.View()
		}
	case stateTalents:
		if a.talentsView != nil {
			content = a.talentsView.View()
		}
	case stateProfile:
		if a.profileView != nil {
			content = a.profileView.View()
		}
	case stateAdvice:
		if a.adviceView != nil {
			content = a.adviceView.View()
		}
	case stateNotifications:
		if a.notifView != nil {
			content = a.notifView.View()
		}
	}
	if content == "" {
		content = "Loading..."
	}
	return a.renderFrame(content, width)
}

func (a *App) renderFrame(content string, width int) string {
	header := headerStyle.Render("◆ TALENTBRIDGE") + "  " + a.renderIdentity()
	body := panelStyle.Width(max(40, width-4)).Render(content)
	sections := []string{header, body}
	if a.state == stateMainMenu {
		if inbox := a.renderInboxPanel(); inbox != "" {
			sections = append(sections, inbox)
		}
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	if a.statusMsg != "" {
		sections = append(sections, footerStyle.Render(a.statusMsg))
	}
	return strings.Join(sections, "\n")
}

func (a *App) renderIdentity() string {
	if a.sess == nil {
		return faintStyle.Render("not signed in")
	}
	return faintStyle.Render(fmt.Sprintf("%s · %s", a.sess.DisplayName, a.sess.Role.FriendlyName()))
}

func (a *App) renderInboxPanel() string {
	title := titleStyle.Render(fmt.Sprintf("Inbox (%d unread)", a.unreadCount))
	lines := []string{title}
	if a.inboxErr != "" {
		lines = append(lines, errorStyle.Render("⚠ "+a.inboxErr))
	}
	for _, n := range a.recentInbox {
		marker := " "
		if !n.IsRead {
			marker = "●"
		}
		lines = append(lines, fmt.Sprintf("%s %s", marker, n.Title))
	}
	if len(lines) == 1 && a.inboxErr == "" {
		lines = append(lines, faintStyle.Render("Nothing yet."))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(5)
	if len(lines) == 0 {
		return ""
	}
	head := titleStyle.Render("LOG")
	body := faintStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(head + "\n" + body)
}

func renderKeyHints(hints ...string) string {
	return hintStyle.Render(strings.Join(hints, "    "))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
