package tui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/config"
	"github.com/talentbridge/talentbridge/internal/logbook"
	"github.com/talentbridge/talentbridge/internal/proposal"
	"github.com/talentbridge/talentbridge/internal/session"
)

func newTestApp(t *testing.T, role session.Role) *App {
	t.Helper()
	home := t.TempDir()
	if err := config.InitBridgeDir(home); err != nil {
		t.Fatalf("init bridge dir: %v", err)
	}
	cfg, err := config.New(home)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	// The client never gets to issue a request in these tests; messages
	// are injected directly.
	client := api.New("http://bridge.test", "tok")
	sess := &session.Session{
		UserID:      "u-1",
		DisplayName: "Test User",
		Role:        role,
		Token:       "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	return NewApp(cfg, client, sess, nil)
}

func testProposal(status proposal.Status) *proposal.Proposal {
	started := time.Now().Add(-48 * time.Hour)
	return &proposal.Proposal{
		ID:          "p-1",
		CompanyID:   "c-1",
		CompanyName: "Acme",
		TalentID:    "u-1",
		TalentName:  "Test User",
		Status:      status,
		Courses: []proposal.Course{
			{ID: "pc-1", CourseID: "crs-1", Title: "Go Basics", Order: 0, IsCompleted: true, StartedAt: &started},
			{ID: "pc-2", CourseID: "crs-2", Title: "Concurrency", Order: 1},
		},
	}
}

func menuTitles(a *App) []string {
	var titles []string
	for _, item := range a.mainMenu.Items() {
		titles = append(titles, item.(menuItem).title)
	}
	return titles
}

func TestMainMenuDiffersPerRole(t *testing.T) {
	talent := newTestApp(t, session.RoleTalent)
	company := newTestApp(t, session.RoleCompany)

	talentMenu := strings.Join(menuTitles(talent), "|")
	companyMenu := strings.Join(menuTitles(company), "|")

	if !strings.Contains(talentMenu, "Browse Jobs") {
		t.Fatalf("talent menu missing job board: %s", talentMenu)
	}
	if strings.Contains(talentMenu, "Find Talent") {
		t.Fatalf("talent menu must not offer talent search: %s", talentMenu)
	}
	if !strings.Contains(companyMenu, "Find Talent") {
		t.Fatalf("company menu missing talent search: %s", companyMenu)
	}
	if strings.Contains(companyMenu, "Browse Jobs") {
		t.Fatalf("company menu must not offer the job board: %s", companyMenu)
	}
}

func TestNilSessionStartsOnLogin(t *testing.T) {
	home := t.TempDir()
	if err := config.InitBridgeDir(home); err != nil {
		t.Fatalf("init bridge dir: %v", err)
	}
	cfg, err := config.New(home)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	app := NewApp(cfg, api.New("http://bridge.test", ""), nil, nil)
	if app.state != stateLogin {
		t.Fatalf("expected login state, got %d", app.state)
	}
	if app.loginView == nil {
		t.Fatalf("login view must be constructed")
	}
}

func TestViewLogEntriesCarryScope(t *testing.T) {
	home := t.TempDir()
	if err := config.InitBridgeDir(home); err != nil {
		t.Fatalf("init bridge dir: %v", err)
	}
	cfg, err := config.New(home)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	lb, err := logbook.New(filepath.Join(home, "session.log"))
	if err != nil {
		t.Fatalf("open logbook: %v", err)
	}
	defer lb.Close()
	sess := &session.Session{UserID: "u-1", DisplayName: "Test User", Role: session.RoleTalent, Token: "tok"}
	app := NewApp(cfg, api.New("http://bridge.test", "tok"), sess, lb)

	view := newProposalsView(app)
	view.Update(proposalsLoadedMsg{err: errors.New("connection refused")})

	tail := strings.Join(lb.Tail(10), "\n")
	if !strings.Contains(tail, "proposals · load failed") {
		t.Fatalf("expected scoped log entry, got:\n%s", tail)
	}
}

func TestClosedChatIssuesNoPoll(t *testing.T) {
	app := newTestApp(t, session.RoleTalent)
	view := newDetailView(app, "p-1")

	cmd := view.Update(detailLoadedMsg{p: testProposal(proposal.StatusRejected)})
	if cmd != nil {
		t.Fatalf("rejected proposal must not schedule a chat poll")
	}
	if !strings.Contains(view.View(), "Chat becomes available") {
		t.Fatalf("closed chat must render as unavailable")
	}
}

func TestOpenChatSchedulesPoll(t *testing.T) {
	app := newTestApp(t, session.RoleTalent)
	view := newDetailView(app, "p-1")

	cmd := view.Update(detailLoadedMsg{p: testProposal(proposal.StatusAccepted)})
	if cmd == nil {
		t.Fatalf("accepted proposal must schedule a chat poll")
	}
	if view.pollSeq != 1 {
		t.Fatalf("expected poll generation 1, got %d", view.pollSeq)
	}
}

func TestStalePollTickDropped(t *testing.T) {
	app := newTestApp(t, session.RoleTalent)
	view := newDetailView(app, "p-1")
	view.Update(detailLoadedMsg{p: testProposal(proposal.StatusAccepted)})

	if cmd := view.Update(chatPollTickMsg{seq: 0}); cmd != nil {
		t.Fatalf("tick from a superseded generation must be dropped")
	}
	if cmd := view.Update(chatPollTickMsg{seq: view.pollSeq}); cmd == nil {
		t.Fatalf("current-generation tick must refetch and reschedule")
	}
}

func TestReturnToMainMenuDropsActiveView(t *testing.T) {
	app := newTestApp(t, session.RoleTalent)
	app.openProposalDetail("p-1")
	if app.detailView == nil {
		t.Fatalf("detail view should be live")
	}
	app.returnToMainMenu()
	if app.detailView != nil {
		t.Fatalf("detail view must be torn down")
	}
	// A poll tick arriving after teardown goes nowhere.
	if cmd := app.updateActiveView(chatPollTickMsg{seq: 1}); cmd != nil {
		t.Fatalf("orphan tick must be dropped after teardown")
	}
}

func TestLifecycleActionRejectedForWrongRole(t *testing.T) {
	app := newTestApp(t, session.RoleCompany)
	view := newDetailView(app, "p-1")
	view.Update(detailLoadedMsg{p: testProposal(proposal.StatusSent)})

	// Only the talent may accept a sent proposal.
	if cmd := view.applyLifecycleAction(proposal.ActionAccept); cmd != nil {
		t.Fatalf("company accept must be blocked client-side")
	}
	if view.errMsg == "" {
		t.Fatalf("blocked action must surface an error")
	}
}

func TestBusyFlagBlocksSecondMutation(t *testing.T) {
	app := newTestApp(t, session.RoleTalent)
	view := newDetailView(app, "p-1")
	view.Update(detailLoadedMsg{p: testProposal(proposal.StatusSent)})

	if cmd := view.applyLifecycleAction(proposal.ActionAccept); cmd == nil {
		t.Fatalf("first accept should produce a command")
	}
	if cmd := view.applyLifecycleAction(proposal.ActionAccept); cmd != nil {
		t.Fatalf("second accept while busy must be dropped")
	}
}

func TestHireConfirmWarnsAboutIncompleteCourses(t *testing.T) {
	app := newTestApp(t, session.RoleCompany)
	view := newDetailView(app, "p-1")
	view.Update(detailLoadedMsg{p: testProposal(proposal.StatusAccepted)})

	if cmd := view.beginHire(); cmd == nil {
		t.Fatalf("hire from accepted should open the confirm step")
	}
	if view.focus != focusHireConfirm {
		t.Fatalf("expected hire confirm focus, got %d", view.focus)
	}
	if !strings.Contains(view.View(), "not yet complete") {
		t.Fatalf("confirm panel must warn about incomplete courses")
	}
}

func TestEmptyDraftBlockedBeforeSubmit(t *testing.T) {
	app := newTestApp(t, session.RoleCompany)
	view := newCreateView(app, "t-9", "Jordan")

	if cmd := view.submit(); cmd != nil {
		t.Fatalf("empty path must be rejected without a request")
	}
	if view.formErr == "" {
		t.Fatalf("expected inline validation error")
	}
	view.draft.AddCourse("crs-1", "Go Basics")
	if cmd := view.submit(); cmd == nil {
		t.Fatalf("valid draft should submit")
	}
}

func TestJobApplicationCarriesCoverNote(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	app := newTestApp(t, session.RoleTalent)
	app.client = api.New(srv.URL, "tok")

	view := newJobsView(app)
	view.Update(jobLoadedMsg{job: &api.Job{ID: "job-1", Title: "Go Developer"}})

	if cmd := view.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}); cmd == nil {
		t.Fatalf("'a' should open the cover-note composer")
	}
	if !view.composing {
		t.Fatalf("composer should be active")
	}
	view.coverNote.SetValue("Shipped two Go services last year.")

	cmd := view.apply()
	if cmd == nil {
		t.Fatalf("apply should produce a command")
	}
	msg, ok := cmd().(jobAppliedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("apply failed: %+v", msg)
	}
	if gotPath != "/api/v1/jobs/job-1/apply" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	var body struct {
		CoverNote string `json:"cover_note"`
	}
	if err := json.Unmarshal(gotBody, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.CoverNote != "Shipped two Go services last year." {
		t.Fatalf("cover note not sent, body: %s", gotBody)
	}
}

func TestEscCapturedByInlineEditor(t *testing.T) {
	app := newTestApp(t, session.RoleTalent)
	app.openProposalDetail("p-1")
	app.detailView.Update(detailLoadedMsg{p: testProposal(proposal.StatusAccepted)})
	app.detailView.focus = focusChatInput

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a := model.(*App)
	if a.state != stateProposalDetail {
		t.Fatalf("first Esc must only close the editor, not the screen")
	}
	if a.detailView.focus != focusCourses {
		t.Fatalf("editor focus should be released")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(*App)
	if a.state != stateMainMenu {
		t.Fatalf("second Esc must leave the screen")
	}
}
