// internal/tui/notifications_view.go

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/talentbridge/talentbridge/internal/api"
	"github.com/talentbridge/talentbridge/internal/logbook"
)

type notificationsLoadedMsg struct {
	items []api.Notification
	total int
	err   error
}

type notificationReadMsg struct {
	id  string
	err error
}

type notificationsView struct {
	app *App
	log *logbook.Scoped

	items  []api.Notification
	total  int
	page   int
	cursor int

	loading bool
	errMsg  string
}

func newNotificationsView(app *App) *notificationsView {
	return &notificationsView{app: app, log: app.scope("inbox"), page: 1}
}

func (v *notificationsView) Init() tea.Cmd {
	v.loading = true
	return v.fetch()
}

func (v *notificationsView) fetch() tea.Cmd {
	client := v.app.client
	page := v.page
	pageSize := v.app.cfg.PageSize()
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		out, err := client.ListNotifications(ctx, page, pageSize)
		return notificationsLoadedMsg{items: out.Items, total: out.Total, err: err}
	}
}

func (v *notificationsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case notificationsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = msg.err.Error()
			v.log.Warn("load failed: %v", msg.err)
			return nil
		}
		v.errMsg = ""
		v.items = msg.items
		v.total = msg.total
		if v.cursor >= len(v.items) {
			v.cursor = max(0, len(v.items)-1)
		}
		return nil

	case notificationReadMsg:
		if msg.err != nil {
			v.errMsg = "mark read failed: " + msg.err.Error()
			return nil
		}
		for i := range v.items {
			if v.items[i].ID == msg.id {
				v.items[i].IsRead = true
			}
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case "left", "h":
			if v.page > 1 {
				v.page--
				v.loading = true
				return v.fetch()
			}
		case "right", "l":
			if v.page*v.app.cfg.PageSize() < v.total {
				v.page++
				v.loading = true
				return v.fetch()
			}
		case "r":
			v.loading = true
			return v.fetch()
		case "enter":
			return v.markSelectedRead()
		}
	}
	return nil
}

func (v *notificationsView) markSelectedRead() tea.Cmd {
	if v.cursor < 0 || v.cursor >= len(v.items) {
		return nil
	}
	n := v.items[v.cursor]
	if n.IsRead {
		return nil
	}
	client := v.app.client
	return func() tea.Msg {
		ctx, cancel := v.app.requestContext()
		defer cancel()
		err := client.MarkNotificationRead(ctx, n.ID)
		return notificationReadMsg{id: n.ID, err: err}
	}
}

func (v *notificationsView) View() string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Notifications · page %d", v.page))}
	if v.loading {
		lines = append(lines, faintStyle.Render("Loading..."))
	}
	if v.errMsg != "" {
		lines = append(lines, errorStyle.Render("⚠ "+v.errMsg))
	}
	if !v.loading && len(v.items) == 0 {
		lines = append(lines, faintStyle.Render("Inbox empty."))
	}
	for i, n := range v.items {
		marker := " "
		title := faintStyle.Render(n.Title)
		if !n.IsRead {
			marker = "●"
			title = n.Title
		}
		row := fmt.Sprintf("%s %s  %s\n  %s", marker, title,
			faintStyle.Render(n.CreatedAt.Format("2 Jan 15:04")), n.Message)
		if i == v.cursor {
			row = selectedRowStyle.Render(row)
		} else {
			row = rowStyle.Render(row)
		}
		lines = append(lines, row)
	}
	lines = append(lines, renderKeyHints("↑/↓ select", "Enter → mark read", "←/→ page", "Esc → back"))
	return strings.Join(lines, "\n")
}
