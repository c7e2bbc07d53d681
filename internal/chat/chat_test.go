package chat

import (
	"testing"
	"time"

	"github.com/talentbridge/talentbridge/internal/session"
)

func msgAt(id string, ts time.Time) Message {
	return Message{ID: id, SenderID: "u1", Content: "hi " + id, CreatedAt: ts}
}

func TestTimelineEmpty(t *testing.T) {
	if items := Timeline(nil); items != nil {
		t.Fatalf("expected nil timeline, got %v", items)
	}
}

func TestTimelineInsertsSeparatorBeforeFirstMessage(t *testing.T) {
	ts := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	items := Timeline([]Message{msgAt("a", ts)})
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if !items[0].IsSeparator() {
		t.Fatal("first item must be a separator")
	}
	if items[1].Message == nil || items[1].Message.ID != "a" {
		t.Fatalf("second item = %+v", items[1])
	}
}

func TestTimelineGroupsByCalendarDay(t *testing.T) {
	day1 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	msgs := []Message{
		msgAt("a", day1),
		msgAt("b", day1.Add(2 * time.Hour)),
		msgAt("c", day2),
	}
	items := Timeline(msgs)
	// separator, a, b, separator, c
	if len(items) != 5 {
		t.Fatalf("len(items) = %d, want 5", len(items))
	}
	if !items[0].IsSeparator() || !items[3].IsSeparator() {
		t.Fatalf("separator positions wrong: %+v", items)
	}
	for idx, want := range map[int]string{1: "a", 2: "b", 4: "c"} {
		if items[idx].Message == nil || items[idx].Message.ID != want {
			t.Fatalf("items[%d] = %+v, want message %s", idx, items[idx], want)
		}
	}
}

func TestTimelineSortsOldestFirst(t *testing.T) {
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	msgs := []Message{
		msgAt("later", base.Add(time.Hour)),
		msgAt("earlier", base),
	}
	items := Timeline(msgs)
	if items[1].Message.ID != "earlier" || items[2].Message.ID != "later" {
		t.Fatalf("ordering wrong: %+v", items)
	}
}

func TestMine(t *testing.T) {
	s := &session.Session{UserID: "u1"}
	if !(Message{SenderID: "u1"}).Mine(s) {
		t.Fatal("own message not recognized")
	}
	if (Message{SenderID: "u2"}).Mine(s) {
		t.Fatal("foreign message claimed as mine")
	}
	if (Message{SenderID: "u1"}).Mine(nil) {
		t.Fatal("nil session must never own a message")
	}
}
