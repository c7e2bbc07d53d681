package proposal

import (
	"errors"
	"testing"
)

func draftWith(n int) *Draft {
	d := NewDraft("talent-1")
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		d.AddCourse("course-"+id, "Course "+id)
	}
	return d
}

func assertContiguous(t *testing.T, d *Draft) {
	t.Helper()
	for i, c := range d.Courses {
		if c.Order != i {
			t.Fatalf("order gap: Courses[%d].Order = %d", i, c.Order)
		}
	}
}

func TestValidateRejectsEmptyPath(t *testing.T) {
	d := NewDraft("talent-1")
	if err := d.Validate(); !errors.Is(err, ErrNoCourses) {
		t.Fatalf("Validate = %v, want ErrNoCourses", err)
	}
	d.AddCourse("course-a", "Course a")
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate with one course: %v", err)
	}
}

func TestAddCourseDeduplicates(t *testing.T) {
	d := NewDraft("talent-1")
	d.AddCourse("course-a", "Course a")
	d.AddCourse("course-a", "Course a")
	if len(d.Courses) != 1 {
		t.Fatalf("duplicate selection added: %d courses", len(d.Courses))
	}
}

func TestMoveCourseKeepsContiguousOrder(t *testing.T) {
	d := draftWith(4)

	d.MoveCourse(2, -1)
	assertContiguous(t, d)
	if d.Courses[1].CourseID != "course-c" {
		t.Fatalf("move up failed: %v", d.CourseIDs())
	}

	d.MoveCourse(0, 1)
	assertContiguous(t, d)

	// Out-of-range moves are no-ops.
	d.MoveCourse(0, -1)
	d.MoveCourse(3, 1)
	d.MoveCourse(-1, 1)
	d.MoveCourse(9, -1)
	assertContiguous(t, d)
	if len(d.Courses) != 4 {
		t.Fatalf("course count changed: %d", len(d.Courses))
	}
}

func TestMoveCourseSequenceProperty(t *testing.T) {
	d := draftWith(5)
	moves := []struct{ idx, dir int }{
		{0, 1}, {4, -1}, {2, 1}, {3, -1}, {1, -1}, {0, -1}, {4, 1},
	}
	for _, m := range moves {
		d.MoveCourse(m.idx, m.dir)
		assertContiguous(t, d)
	}
}

func TestRemoveCourseRenumbers(t *testing.T) {
	d := draftWith(3)
	d.RemoveCourse(1)
	assertContiguous(t, d)
	ids := d.CourseIDs()
	if len(ids) != 2 || ids[0] != "course-a" || ids[1] != "course-c" {
		t.Fatalf("remove failed: %v", ids)
	}
	d.RemoveCourse(5)
	if len(d.Courses) != 2 {
		t.Fatal("out-of-range remove changed the path")
	}
}
