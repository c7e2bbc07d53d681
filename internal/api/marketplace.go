// internal/api/marketplace.go
//
// Everything outside the proposal workflow: course catalog, job board,
// talent discovery, profile, AI advice, and notifications. These are
// simple list/detail/CRUD surfaces over the same transport.

package api

import (
	"context"
	"net/url"
	"time"
)

// CatalogCourse is a course catalog entry the creation flow picks from.
type CatalogCourse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Provider      string `json:"provider"`
	Level         string `json:"level"`
	DurationHours int    `json:"duration_hours"`
	Category      string `json:"category"`
}

// ListCourses fetches a page of the catalog, optionally by category.
func (c *Client) ListCourses(ctx context.Context, category string, page, pageSize int) (Page[CatalogCourse], error) {
	q := pageQuery(page, pageSize)
	if category != "" {
		q.Set("category", category)
	}
	var out Page[CatalogCourse]
	if err := c.get(ctx, "/courses", q, &out); err != nil {
		return Page[CatalogCourse]{}, err
	}
	return out, nil
}

// Job is one opening on the job board.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name"`
	Location    string    `json:"location"`
	SalaryRange string    `json:"salary_range,omitempty"`
	Description string    `json:"description"`
	Skills      []string  `json:"skills"`
	PostedAt    time.Time `json:"posted_at"`
}

// ListJobs searches the job board.
func (c *Client) ListJobs(ctx context.Context, query string, page, pageSize int) (Page[Job], error) {
	q := pageQuery(page, pageSize)
	if query != "" {
		q.Set("q", query)
	}
	var out Page[Job]
	if err := c.get(ctx, "/jobs", q, &out); err != nil {
		return Page[Job]{}, err
	}
	return out, nil
}

// GetJob fetches one opening.
func (c *Client) GetJob(ctx context.Context, id string) (*Job, error) {
	var out Job
	if err := c.get(ctx, "/jobs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type applyRequest struct {
	CoverNote string `json:"cover_note,omitempty"`
}

// ApplyToJob submits the talent's application for an opening.
func (c *Client) ApplyToJob(ctx context.Context, jobID, coverNote string) error {
	return c.post(ctx, "/jobs/"+url.PathEscape(jobID)+"/apply", applyRequest{CoverNote: coverNote}, nil)
}

// Talent is a discoverable job-seeking profile.
type Talent struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Headline    string   `json:"headline"`
	Location    string   `json:"location"`
	Skills      []string `json:"skills"`
	TotalXP     int      `json:"total_xp"`
	OpenToWork  bool     `json:"open_to_work"`
}

// SearchTalents finds talents for the company's discovery view.
func (c *Client) SearchTalents(ctx context.Context, skill string, page, pageSize int) (Page[Talent], error) {
	q := pageQuery(page, pageSize)
	if skill != "" {
		q.Set("skill", skill)
	}
	var out Page[Talent]
	if err := c.get(ctx, "/talents", q, &out); err != nil {
		return Page[Talent]{}, err
	}
	return out, nil
}

// GetTalent fetches one talent profile.
func (c *Client) GetTalent(ctx context.Context, id string) (*Talent, error) {
	var out Talent
	if err := c.get(ctx, "/talents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile is the caller's own editable profile.
type Profile struct {
	DisplayName string   `json:"display_name"`
	Headline    string   `json:"headline,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Location    string   `json:"location,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Website     string   `json:"website,omitempty"`
	OpenToWork  bool     `json:"open_to_work"`
}

// GetProfile fetches the caller's profile.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile replaces the caller's profile fields. Last write wins.
func (c *Client) UpdateProfile(ctx context.Context, p *Profile) (*Profile, error) {
	var out Profile
	if err := c.put(ctx, "/profile", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Advice is the AI career advisor's reply. Model behavior is server-side;
// the client renders whatever comes back.
type Advice struct {
	Answer      string   `json:"answer"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type adviceRequest struct {
	Question string `json:"question"`
}

// CareerAdvice asks the advisor a free-form question.
func (c *Client) CareerAdvice(ctx context.Context, question string) (*Advice, error) {
	var out Advice
	if err := c.post(ctx, "/advice", adviceRequest{Question: question}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SkillGapReport compares the caller's skills against one opening.
type SkillGapReport struct {
	JobID                string   `json:"job_id"`
	MatchPercent         int      `json:"match_percent"`
	MissingSkills        []string `json:"missing_skills"`
	RecommendedCourseIDs []string `json:"recommended_course_ids"`
}

// SkillGap runs the server's skill-gap analysis for a job.
func (c *Client) SkillGap(ctx context.Context, jobID string) (*SkillGapReport, error) {
	var out SkillGapReport
	if err := c.get(ctx, "/jobs/"+url.PathEscape(jobID)+"/skill-gap", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Notification is one inbox entry.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListNotifications fetches the caller's inbox, newest first.
func (c *Client) ListNotifications(ctx context.Context, page, pageSize int) (Page[Notification], error) {
	var out Page[Notification]
	if err := c.get(ctx, "/notifications", pageQuery(page, pageSize), &out); err != nil {
		return Page[Notification]{}, err
	}
	return out, nil
}

// MarkNotificationRead flags one inbox entry as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.patch(ctx, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}
