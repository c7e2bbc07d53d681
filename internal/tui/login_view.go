package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/logbook"
	"github.com/talentbridge/talentbridge/internal/session"
)

type loginResultMsg struct {
	sess *session.Session
	err  error
}

// loginView collects credentials and exchanges them for a session.
type loginView struct {
	app      *App
	log      *logbook.Scoped
	email    textinput.Model
	password textinput.Model
	focus    int
	signing  bool
	errMsg   string
}

func newLoginView(app *App) *loginView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email > "
	email.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password > "
	password.EchoMode = textinput.EchoPassword
	return &loginView{app: app, log: app.scope("login"), email: email, password: password}
}

func (v *loginView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *loginView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			v.setFocus((v.focus + 1) % 2)
			return nil
		case "shift+tab", "up":
			v.setFocus((v.focus + 1) % 2)
			return nil
		case "enter":
			if v.focus == 0 {
				v.setFocus(1)
				return nil
			}
			return v.submit()
		}
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.email, cmd = v.email.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	v.password, cmd = v.password.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (v *loginView) setFocus(idx int) {
	v.focus = idx
	if idx == 0 {
		v.email.Focus()
		v.password.Blur()
	} else {
		v.password.Focus()
		v.email.Blur()
	}
}

// submit fires the login request. The form is disabled while a request
// is in flight so enter cannot issue two.
func (v *loginView) submit() tea.Cmd {
	if v.signing {
		return nil
	}
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errMsg = "Email and password are required"
		return nil
	}
	v.signing = true
	v.errMsg = ""
	client := v.app.client
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		token, err := client.Login(ctx, email, password)
		if err != nil {
			return loginResultMsg{err: err}
		}
		sess, err := session.FromToken(token)
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{sess: sess}
	}
}

// handleResult finishes (or fails) the sign-in.
func (v *loginView) handleResult(msg loginResultMsg) tea.Cmd {
	v.signing = false
	if msg.err != nil {
		v.errMsg = "Sign in failed: " + msg.err.Error()
		v.log.Warn("sign-in failed: %v", msg.err)
		return nil
	}
	if err := msg.sess.Save(v.app.cfg.TokenPath()); err != nil {
		v.log.Warn("token not persisted: %v", err)
	}
	v.app.completeLogin(msg.sess)
	return v.app.fetchInboxSummary()
}

func (v *loginView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in") + "\n\n")
	b.WriteString(v.email.View() + "\n")
	b.WriteString(v.password.View() + "\n")
	if v.signing {
		b.WriteString(faintStyle.Render("Signing in...") + "\n")
	}
	if v.errMsg != "" {
		b.WriteString(errorStyle.Render(v.errMsg) + "\n")
	}
	b.WriteString(renderKeyHints("Tab → switch field", "Enter → sign in", "Ctrl+C → quit"))
	return b.String()
}
