// internal/proposal/draft.go
//
// Creation-flow draft: the company composes a proposal by selecting and
// ordering courses from the catalog before anything touches the network.

package proposal

import "errors"

// ErrNoCourses rejects a submission with an empty learning path. The
// check runs client-side, before any request is issued.
var ErrNoCourses = errors.New("proposal: select at least one course")

// DraftCourse is one catalog pick inside a draft, with its position.
type DraftCourse struct {
	CourseID string
	Title    string
	Order    int
}

// Draft accumulates the creation form state for one talent.
type Draft struct {
	TalentID    string
	Message     string
	BudgetRange string
	Courses     []DraftCourse
}

// NewDraft starts a draft addressed to the given talent.
func NewDraft(talentID string) *Draft {
	return &Draft{TalentID: talentID}
}

// AddCourse appends a catalog course to the path. Adding a course that is
// already selected is a no-op so double-selection cannot duplicate it.
func (d *Draft) AddCourse(courseID, title string) {
	for _, c := range d.Courses {
		if c.CourseID == courseID {
			return
		}
	}
	d.Courses = append(d.Courses, DraftCourse{CourseID: courseID, Title: title, Order: len(d.Courses)})
}

// RemoveCourse drops a course and renumbers the remainder contiguously.
func (d *Draft) RemoveCourse(index int) {
	if index < 0 || index >= len(d.Courses) {
		return
	}
	d.Courses = append(d.Courses[:index], d.Courses[index+1:]...)
	d.renumber()
}

// MoveCourse shifts the course at index one step up (-1) or down (+1),
// keeping order values contiguous 0..N-1 in array position order.
func (d *Draft) MoveCourse(index, direction int) {
	target := index + direction
	if index < 0 || index >= len(d.Courses) {
		return
	}
	if target < 0 || target >= len(d.Courses) {
		return
	}
	d.Courses[index], d.Courses[target] = d.Courses[target], d.Courses[index]
	d.renumber()
}

// Validate checks the draft is submittable.
func (d *Draft) Validate() error {
	if len(d.Courses) == 0 {
		return ErrNoCourses
	}
	return nil
}

// CourseIDs returns the selected catalog ids in path order.
func (d *Draft) CourseIDs() []string {
	ids := make([]string, len(d.Courses))
	for i, c := range d.Courses {
		ids[i] = c.CourseID
	}
	return ids
}

func (d *Draft) renumber() {
	for i := range d.Courses {
		d.Courses[i].Order = i
	}
}
