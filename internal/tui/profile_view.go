// internal/tui/profile_view.go

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/logbook"
)

type profileLoadedMsg struct {
	profile *api.Profile
	err     error
}

type profileSavedMsg struct {
	profile *api.Profile
	err     error
}

// profileView edits the caller's own profile. Fields map one to one onto
// the PUT payload; last write wins server-side.
type profileView struct {
	app *App
	log *logbook.Scoped

	profile *api.Profile
	loading bool
	saving  bool
	errMsg  string

	fields     []textinput.Model
	bio        textarea.Model
	cursor     int
	openToWork bool
}

const (
	fieldDisplayName = iota
	fieldHeadline
	fieldLocation
	fieldSkills
	fieldWebsite
	fieldCount
)

func newProfileView(app *App) *profileView {
	labels := []string{"Name", "Headline", "Location", "Skills (comma separated)", "Website"}
	fields := make([]textinput.Model, fieldCount)
	for i := range fields {
		in := textinput.New()
		in.Prompt = labels[i] + " > "
		fields[i] = in
	}
	bio := textarea.New()
	bio.Placeholder = "Bio"
	bio.SetHeight(3)
	return &profileView{app: app, log: app.scope("profile"), fields: fields, bio: bio}
}

func (v *profileView) Init() tea.Cmd {
	v.loading = true
	client := v.app.client
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		p, err := client.GetProfile(ctx)
		return profileLoadedMsg{profile: p, err: err}
	}
}

func (v *profileView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.log.Warn("load failed: %v", msg.err)
			return nil
		}
		v.errMsg = ""
		v.profile = msg.profile
		v.fields[fieldDisplayName].SetValue(msg.profile.DisplayName)
		v.fields[fieldHeadline].SetValue(msg.profile.Headline)
		v.fields[fieldLocation].SetValue(msg.profile.Location)
		v.fields[fieldSkills].SetValue(strings.Join(msg.profile.Skills, ", "))
		v.fields[fieldWebsite].SetValue(msg.profile.Website)
		v.bio.SetValue(msg.profile.Bio)
		v.openToWork = msg.profile.OpenToWork
		v.focusField(0)
		return textinput.Blink

	case profileSavedMsg:
		v.saving = false
		if msg.err != nil {
			v.errMsg = "save failed: " + msg.err.Error()
			v.log.Warn("save failed: %v", msg.err)
			return nil
		}
		v.errMsg = ""
		v.profile = msg.profile
		v.app.setStatus("Profile saved")
		v.log.Info("saved")
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			v.focusField((v.cursor + 1) % (fieldCount + 2))
			return textinput.Blink
		case "shift+tab", "up":
			v.focusField((v.cursor + fieldCount + 1) % (fieldCount + 2))
			return textinput.Blink
		case "ctrl+s":
			return v.save()
		case " ", "enter":
			// The open-to-work toggle is the last stop in the cycle.
			if v.cursor == fieldCount+1 {
				v.openToWork = !v.openToWork
				return nil
			}
		}
		return v.updateFocused(msg)
	}
	return v.updateFocused(msg)
}

// focusField moves focus through the text fields, then the bio, then the
// open-to-work toggle.
func (v *profileView) focusField(idx int) {
	v.cursor = idx
	for i := range v.fields {
		v.fields[i].Blur()
	}
	v.bio.Blur()
	switch {
	case idx < fieldCount:
		v.fields[idx].Focus()
	case idx == fieldCount:
		v.bio.Focus()
	}
}

func (v *profileView) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case v.cursor < fieldCount:
		v.fields[v.cursor], cmd = v.fields[v.cursor].Update(msg)
	case v.cursor == fieldCount:
		v.bio, cmd = v.bio.Update(msg)
	}
	return cmd
}

func splitSkills(raw string) []string {
	var skills []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func (v *profileView) save() tea.Cmd {
	if v.saving {
		return nil
	}
	v.saving = true
	payload := &api.Profile{
		DisplayName: strings.TrimSpace(v.fields[fieldDisplayName].Value()),
		Headline:    strings.TrimSpace(v.fields[fieldHeadline].Value()),
		Location:    strings.TrimSpace(v.fields[fieldLocation].Value()),
		Skills:      splitSkills(v.fields[fieldSkills].Value()),
		Website:     strings.TrimSpace(v.fields[fieldWebsite].Value()),
		Bio:         v.bio.Value(),
		OpenToWork:  v.openToWork,
	}
	client := v.app.client
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		p, err := client.UpdateProfile(ctx, payload)
		return profileSavedMsg{profile: p, err: err}
	}
}

func (v *profileView) View() string {
	if v.loading {
		return faintStyle.Render("Loading profile...")
	}
	lines := []string{titleStyle.Render("Profile")}
	if v.errMsg != "" {
		lines = append(lines, errorStyle.Render("⚠ "+v.errMsg))
	}
	for i := range v.fields {
		lines = append(lines, v.fields[i].View())
	}
	lines = append(lines, v.bio.View())
	toggle := "[ ] Open to work"
	if v.openToWork {
		toggle = "[✓] Open to work"
	}
	if v.cursor == fieldCount+1 {
		toggle = selectedRowStyle.Render(toggle)
	}
	lines = append(lines, toggle)
	if v.saving {
		lines = append(lines, faintStyle.Render("Saving..."))
	}
	lines = append(lines, "", renderKeyHints("Tab → next field", "Space → toggle", "Ctrl+S → save", "Esc → back"))
	return strings.Join(lines, "\n")
}
