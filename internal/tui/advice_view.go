// internal/tui/advice_view.go

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/logbook"
)

type adviceMsg struct {
	advice *api.Advice
	err    error
}

// adviceView is a single-question prompt against the AI advisor. The
// model lives server-side; this screen only renders the reply.
type adviceView struct {
	app *App
	log *logbook.Scoped

	question textinput.Model
	asking   bool
	advice   *api.Advice
	errMsg   string
}

func newAdviceView(app *App) *adviceView {
	question := textinput.New()
	question.Placeholder = "e.g. How do I move from QA into backend development?"
	question.Prompt = "? "
	question.CharLimit = 500
	question.Focus()
	return &adviceView{app: app, log: app.scope("advice"), question: question}
}

func (v *adviceView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *adviceView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case adviceMsg:
		v.asking = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.log.Warn("request failed: %v", msg.err)
			return nil
		}
		v.errMsg = ""
		v.advice = msg.advice
		return nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return v.ask()
		}
	}
	var cmd tea.Cmd
	v.question, cmd = v.question.Update(msg)
	return cmd
}

func (v *adviceView) ask() tea.Cmd {
	if v.asking {
		return nil
	}
	question := strings.TrimSpace(v.question.Value())
	if question == "" {
		return nil
	}
	v.asking = true
	client := v.app.client
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		advice, err := client.CareerAdvice(ctx, question)
		return adviceMsg{advice: advice, err: err}
	}
}

func (v *adviceView) View() string {
	lines := []string{
		titleStyle.Render("Career Advice"),
		v.question.View(),
	}
	if v.asking {
		lines = append(lines, faintStyle.Render("Thinking..."))
	}
	if v.errMsg != "" {
		lines = append(lines, errorStyle.Render("⚠ "+v.errMsg))
	}
	if v.advice != nil {
		lines = append(lines, "", v.advice.Answer)
		for _, s := range v.advice.Suggestions {
			lines = append(lines, faintStyle.Render("• "+s))
		}
	}
	lines = append(lines, "", renderKeyHints("Enter → ask", "Esc → back"))
	return strings.Join(lines, "\n")
}
