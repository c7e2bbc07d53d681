// internal/chat/chat.go
//
// Per-proposal chat. Messages are append-only and owned by the server;
// the client polls while the proposal status keeps the channel open and
// renders the feed oldest-to-newest with calendar-day separators.

package chat

import (
	"sort"
	"time"

	"github.com/talentbridge/talentbridge/internal/session"
)

// Message is one chat entry within a proposal.
type Message struct {
	ID         string       `json:"id"`
	ProposalID string       `json:"proposal_id"`
	SenderID   string       `json:"sender_id"`
	SenderName string       `json:"sender_name"`
	SenderRole session.Role `json:"sender_role"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"created_at"`
}

// TimelineItem is either a date separator or a message. Exactly one of
// the two is set.
type TimelineItem struct {
	Separator string
	Message   *Message
}

// IsSeparator reports whether this item is a date divider.
func (t TimelineItem) IsSeparator() bool { return t.Separator != "" }

const separatorLayout = "Monday, 2 January 2006"

// Timeline orders messages oldest-to-newest and inserts a separator
// whenever the calendar day changes, always including one before the
// first message.
func Timeline(msgs []Message) []TimelineItem {
	if len(msgs) == 0 {
		return nil
	}
	ordered := make([]Message, len(msgs))
	copy(ordered, msgs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var items []TimelineItem
	var lastDay string
	for i := range ordered {
		day := ordered[i].CreatedAt.Format("2006-01-02")
		if day != lastDay {
			items = append(items, TimelineItem{Separator: ordered[i].CreatedAt.Format(separatorLayout)})
			lastDay = day
		}
		items = append(items, TimelineItem{Message: &ordered[i]})
	}
	return items
}

// Mine reports whether the message was sent by the current session's
// user, for left/right alignment in the feed.
func (m Message) Mine(s *session.Session) bool {
	return s != nil && m.SenderID == s.UserID
}
