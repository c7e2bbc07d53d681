package proposal

import (
	"errors"
	"testing"

	"github.com/talentbridge/talentbridge/internal/session"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"draft", "sent", "accepted", "rejected", "completed", "hired"} {
		s, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", raw, err)
		}
		if s.String() != raw {
			t.Fatalf("round trip mismatch: %q -> %q", raw, s)
		}
	}
	if _, err := ParseStatus("pending"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		actor    Actor
		ok       bool
	}{
		{StatusDraft, StatusSent, ActorCompany, true},
		{StatusSent, StatusAccepted, ActorTalent, true},
		{StatusSent, StatusRejected, ActorTalent, true},
		{StatusAccepted, StatusCompleted, ActorSystem, true},
		{StatusAccepted, StatusHired, ActorCompany, true},
		{StatusCompleted, StatusHired, ActorCompany, true},

		// Wrong actor for a real edge.
		{StatusSent, StatusAccepted, ActorCompany, false},
		{StatusAccepted, StatusHired, ActorTalent, false},
		{StatusAccepted, StatusCompleted, ActorTalent, false},

		// Edges that do not exist at all.
		{StatusRejected, StatusAccepted, ActorTalent, false},
		{StatusHired, StatusSent, ActorCompany, false},
		{StatusSent, StatusHired, ActorCompany, false},
		{StatusDraft, StatusAccepted, ActorTalent, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to, tc.actor); got != tc.ok {
			t.Fatalf("CanTransition(%s, %s, %s) = %v, want %v", tc.from, tc.to, tc.actor, got, tc.ok)
		}
	}
}

func TestCheckTransitionReturnsTypedError(t *testing.T) {
	err := CheckTransition(StatusSent, StatusHired, ActorCompany)
	if err == nil {
		t.Fatal("expected error")
	}
	var illegal *ErrIllegalTransition
	if !errors.As(err, &illegal) {
		t.Fatalf("expected ErrIllegalTransition, got %T", err)
	}
	if illegal.From != StatusSent || illegal.To != StatusHired {
		t.Fatalf("wrong edge in error: %+v", illegal)
	}
}

func TestTerminalStatuses(t *testing.T) {
	for s, terminal := range map[Status]bool{
		StatusDraft:     false,
		StatusSent:      false,
		StatusAccepted:  false,
		StatusRejected:  true,
		StatusCompleted: false,
		StatusHired:     true,
	} {
		if s.IsTerminal() != terminal {
			t.Fatalf("%s.IsTerminal() = %v, want %v", s, s.IsTerminal(), terminal)
		}
	}
}

func TestChatEnabledOnlyAfterAcceptance(t *testing.T) {
	enabled := map[Status]bool{
		StatusDraft:     false,
		StatusSent:      false,
		StatusAccepted:  true,
		StatusRejected:  false,
		StatusCompleted: true,
		StatusHired:     true,
	}
	for s, want := range enabled {
		if s.ChatEnabled() != want {
			t.Fatalf("%s.ChatEnabled() = %v, want %v", s, s.ChatEnabled(), want)
		}
	}
}

func TestAllowedActionsPerRole(t *testing.T) {
	talentAtSent := AllowedActions(StatusSent, session.RoleTalent)
	if len(talentAtSent) != 2 {
		t.Fatalf("talent@sent actions = %v, want accept+reject", talentAtSent)
	}
	companyAtSent := AllowedActions(StatusSent, session.RoleCompany)
	if len(companyAtSent) != 0 {
		t.Fatalf("company@sent actions = %v, want none", companyAtSent)
	}
	companyAtAccepted := AllowedActions(StatusAccepted, session.RoleCompany)
	if len(companyAtAccepted) != 1 || companyAtAccepted[0] != ActionHire {
		t.Fatalf("company@accepted actions = %v, want hire", companyAtAccepted)
	}
	companyAtCompleted := AllowedActions(StatusCompleted, session.RoleCompany)
	if len(companyAtCompleted) != 1 || companyAtCompleted[0] != ActionHire {
		t.Fatalf("company@completed actions = %v, want hire", companyAtCompleted)
	}
	for _, s := range []Status{StatusRejected, StatusHired} {
		for _, role := range []session.Role{session.RoleTalent, session.RoleCompany} {
			if got := AllowedActions(s, role); len(got) != 0 {
				t.Fatalf("%s@%s actions = %v, want none (terminal)", role, s, got)
			}
		}
	}
}
