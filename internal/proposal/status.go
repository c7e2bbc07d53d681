// internal/proposal/status.go
//
// Proposal lifecycle state machine. The API server is the source of truth
// for stored state; the client validates transitions before dispatching a
// status patch so illegal requests never leave the machine.

package proposal

import (
	"fmt"
	"strings"

	"github.com/talentbridge/talentbridge/internal/session"
)

// Status is a stage in the proposal lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusHired     Status = "hired"
)

// ParseStatus validates a wire status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusCompleted, StatusHired:
		return s, nil
	default:
		return "", fmt.Errorf("proposal: unknown status %q", raw)
	}
}

// String returns the wire form of the status.
func (s Status) String() string { return string(s) }

// FriendlyName returns a label suitable for list and badge display.
func (s Status) FriendlyName() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSent:
		return "Awaiting Response"
	case StatusAccepted:
		return "In Progress"
	case StatusRejected:
		return "Declined"
	case StatusCompleted:
		return "Path Complete"
	case StatusHired:
		return "Hired"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether no further transitions exist. A completed
// proposal is not terminal: the company may still hire through it.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusHired
}

// ChatEnabled reports whether the per-proposal chat channel is open.
// Messaging only makes sense once both sides have committed to the path.
func (s Status) ChatEnabled() bool {
	switch s {
	case StatusAccepted, StatusCompleted, StatusHired:
		return true
	default:
		return false
	}
}

// Actor identifies who requests a transition. The completed transition is
// derived by the server once every course is done, so it gets its own
// actor instead of being attributed to either role.
type Actor string

const (
	ActorTalent  Actor = "talent"
	ActorCompany Actor = "company"
	ActorSystem  Actor = "system"
)

// RoleActor maps a session role onto its transition actor.
func RoleActor(r session.Role) Actor {
	if r.IsCompany() {
		return ActorCompany
	}
	return ActorTalent
}

type transition struct {
	from  Status
	to    Status
	actor Actor
}

// transitions is the complete edge set of the lifecycle machine.
var transitions = []transition{
	{StatusDraft, StatusSent, ActorCompany},
	{StatusSent, StatusAccepted, ActorTalent},
	{StatusSent, StatusRejected, ActorTalent},
	{StatusAccepted, StatusCompleted, ActorSystem},
	{StatusAccepted, StatusHired, ActorCompany},
	{StatusCompleted, StatusHired, ActorCompany},
}

// CanTransition reports whether actor may move a proposal from one status
// to another.
func CanTransition(from, to Status, actor Actor) bool {
	for _, t := range transitions {
		if t.from == from && t.to == to && t.actor == actor {
			return true
		}
	}
	return false
}

// ErrIllegalTransition is returned when a requested status change is not
// in the transition table for the acting role.
type ErrIllegalTransition struct {
	From  Status
	To    Status
	Actor Actor
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("proposal: %s may not move %s -> %s", e.Actor, e.From, e.To)
}

// CheckTransition returns a typed error for an illegal request so views
// can surface it without contacting the server.
func CheckTransition(from, to Status, actor Actor) error {
	if !CanTransition(from, to, actor) {
		return &ErrIllegalTransition{From: from, To: to, Actor: actor}
	}
	return nil
}

// Action is a user-triggerable lifecycle affordance.
type Action string

const (
	ActionSend   Action = "send"
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
	ActionHire   Action = "hire"
)

// Target returns the status this action requests.
func (a Action) Target() Status {
	switch a {
	case ActionSend:
		return StatusSent
	case ActionAccept:
		return StatusAccepted
	case ActionReject:
		return StatusRejected
	case ActionHire:
		return StatusHired
	default:
		return ""
	}
}

// FriendlyName returns the button label for an action.
func (a Action) FriendlyName() string {
	switch a {
	case ActionSend:
		return "Send Proposal"
	case ActionAccept:
		return "Accept"
	case ActionReject:
		return "Decline"
	case ActionHire:
		return "Hire Talent"
	default:
		return string(a)
	}
}

// AllowedActions returns the exhaustive affordance set for a role at a
// given status. Views render exactly these, nothing else.
func AllowedActions(s Status, role session.Role) []Action {
	actor := RoleActor(role)
	var actions []Action
	for _, a := range []Action{ActionSend, ActionAccept, ActionReject, ActionHire} {
		if CanTransition(s, a.Target(), actor) {
			actions = append(actions, a)
		}
	}
	return actions
}
