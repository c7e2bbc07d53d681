// internal/proposal/proposal.go
//
// Proposal and course models plus the read-model helpers the dashboards
// render. All persisted state lives on the API server; these are
// request-scoped snapshots. Derived deadline fields (is_overdue,
// days_remaining) are computed server-side and rendered as-is.

package proposal

import (
	"sort"
	"time"
)

// Proposal is an offer from a company to a talent to follow a curated
// learning path.
type Proposal struct {
	ID          string      `json:"id"`
	CompanyID   string      `json:"company_id"`
	CompanyName string      `json:"company_name"`
	TalentID    string      `json:"talent_id"`
	TalentName  string      `json:"talent_name"`
	Message     string      `json:"message,omitempty"`
	BudgetRange string      `json:"budget_range,omitempty"`
	Status      Status      `json:"status"`
	Courses     []Course    `json:"courses"`
	TotalXP     int         `json:"total_xp"`
	Milestones  []Milestone `json:"milestones,omitempty"`

	// Hiring metadata, populated only once status reaches hired.
	HiredAt     *time.Time `json:"hired_at,omitempty"`
	HiringNotes string     `json:"hiring_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Course is one entry in a proposal's learning path.
type Course struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`

	// Catalog metadata, read-only.
	Title         string `json:"title"`
	Provider      string `json:"provider"`
	Level         string `json:"level"`
	DurationHours int    `json:"duration_hours"`
	Category      string `json:"category"`

	Order       int        `json:"order"`
	IsCompleted bool       `json:"is_completed"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CompanyNotes string `json:"company_notes,omitempty"`
	TalentNotes  string `json:"talent_notes,omitempty"`

	Deadline      string `json:"deadline,omitempty"`
	IsOverdue     bool   `json:"is_overdue"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`

	XPEarned int `json:"xp_earned"`
}

// Milestone is a server-awarded badge attached to a proposal. Read-only.
type Milestone struct {
	ID            string `json:"id"`
	MilestoneType string `json:"milestone_type"`
}

// SortedCourses returns the learning path in presentation order.
func (p *Proposal) SortedCourses() []Course {
	out := make([]Course, len(p.Courses))
	copy(out, p.Courses)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// CompletedCount returns how many courses the talent has finished.
func (p *Proposal) CompletedCount() int {
	n := 0
	for _, c := range p.Courses {
		if c.IsCompleted {
			n++
		}
	}
	return n
}

// ProgressPercent derives aggregate progress. The second return is false
// when the proposal has no courses, in which case progress is not shown.
func (p *Proposal) ProgressPercent() (float64, bool) {
	total := len(p.Courses)
	if total == 0 {
		return 0, false
	}
	return float64(p.CompletedCount()) / float64(total) * 100, true
}

// AllCoursesCompleted reports whether every course in the path is done.
func (p *Proposal) AllCoursesCompleted() bool {
	if len(p.Courses) == 0 {
		return false
	}
	return p.CompletedCount() == len(p.Courses)
}

// IncompleteCourses returns the courses still open, for the hire
// confirmation warning.
func (p *Proposal) IncompleteCourses() []Course {
	var out []Course
	for _, c := range p.SortedCourses() {
		if !c.IsCompleted {
			out = append(out, c)
		}
	}
	return out
}

// HireNeedsWarning reports whether the hire confirmation step must show
// the incomplete-courses warning.
func (p *Proposal) HireNeedsWarning() bool {
	return len(p.IncompleteCourses()) > 0
}

// CanStart reports whether the talent may start this course now. Course
// actions only exist while the proposal is in progress.
func (c Course) CanStart(p *Proposal) bool {
	return p.Status == StatusAccepted && c.StartedAt == nil && !c.IsCompleted
}

// CanComplete reports whether the talent may mark this course done.
func (c Course) CanComplete(p *Proposal) bool {
	return p.Status == StatusAccepted && c.StartedAt != nil && !c.IsCompleted
}

// DeadlineBadge says which single deadline badge a course renders.
type DeadlineBadge int

const (
	BadgeNone DeadlineBadge = iota
	BadgeOverdue
	BadgeUrgent
	BadgeRemaining
)

// DeadlineState picks the badge for a course. Overdue and days-remaining
// are mutually exclusive; a deadline closer than urgentDays (and not yet
// overdue) is flagged urgent. This is the only client-side threshold
// logic in the tracker.
func (c Course) DeadlineState(urgentDays int) DeadlineBadge {
	if c.Deadline == "" {
		return BadgeNone
	}
	if c.IsOverdue {
		return BadgeOverdue
	}
	if c.DaysRemaining == nil {
		return BadgeNone
	}
	if *c.DaysRemaining < urgentDays {
		return BadgeUrgent
	}
	return BadgeRemaining
}
