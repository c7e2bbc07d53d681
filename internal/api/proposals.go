// internal/api/proposals.go
//
// Proposal lifecycle and course tracking endpoints. Status patches carry
// an Idempotency-Key so a re-triggered action cannot apply twice.

package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/talentbridge/talentbridge/internal/chat"
	"github.com/talentbridge/talentbridge/internal/proposal"
)

// ListProposals fetches the caller's proposals, optionally filtered by
// status. The server scopes the list to the authenticated role.
func (c *Client) ListProposals(ctx context.Context, status proposal.Status, page, pageSize int) (Page[proposal.Proposal], error) {
	q := pageQuery(page, pageSize)
	if status != "" {
		q.Set("status", status.String())
	}
	var out Page[proposal.Proposal]
	if err := c.get(ctx, "/proposals", q, &out); err != nil {
		return Page[proposal.Proposal]{}, err
	}
	return out, nil
}

// GetProposal fetches one proposal with its courses and milestones.
func (c *Client) GetProposal(ctx context.Context, id string) (*proposal.Proposal, error) {
	var out proposal.Proposal
	if err := c.get(ctx, "/proposals/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createProposalRequest struct {
	TalentID    string   `json:"talent_id"`
	Message     string   `json:"message,omitempty"`
	BudgetRange string   `json:"budget_range,omitempty"`
	CourseIDs   []string `json:"course_ids"`
}

// CreateProposal submits a creation-flow draft. The draft is validated
// locally first: an empty course list never reaches the network.
func (c *Client) CreateProposal(ctx context.Context, d *proposal.Draft) (*proposal.Proposal, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	req := createProposalRequest{
		TalentID:    d.TalentID,
		Message:     d.Message,
		BudgetRange: d.BudgetRange,
		CourseIDs:   d.CourseIDs(),
	}
	var out proposal.Proposal
	if err := c.post(ctx, "/proposals", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type updateStatusRequest struct {
	Status      string `json:"status"`
	HiringNotes string `json:"hiring_notes,omitempty"`
}

// UpdateProposalStatus requests a lifecycle transition. Callers are
// expected to have validated the transition against the current status
// and role; the server enforces it again.
func (c *Client) UpdateProposalStatus(ctx context.Context, id string, status proposal.Status, hiringNotes string) (*proposal.Proposal, error) {
	spec := requestSpec{
		method:         "PATCH",
		path:           "/proposals/" + url.PathEscape(id),
		body:           updateStatusRequest{Status: status.String(), HiringNotes: hiringNotes},
		idempotencyKey: c.newKey(),
	}
	var out proposal.Proposal
	if err := c.do(ctx, spec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func coursePath(proposalID, courseID string) string {
	return fmt.Sprintf("/proposals/%s/courses/%s", url.PathEscape(proposalID), url.PathEscape(courseID))
}

// StartCourse marks a course as started and returns the fresh proposal.
func (c *Client) StartCourse(ctx context.Context, proposalID, courseID string) (*proposal.Proposal, error) {
	var out proposal.Proposal
	if err := c.patch(ctx, coursePath(proposalID, courseID)+"/start", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteCourse marks a course as completed. XP is awarded server-side
// and read back on the next fetch.
func (c *Client) CompleteCourse(ctx context.Context, proposalID, courseID string) (*proposal.Proposal, error) {
	var out proposal.Proposal
	if err := c.patch(ctx, coursePath(proposalID, courseID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type talentNotesRequest struct {
	TalentNotes string `json:"talent_notes"`
}

// SaveTalentNotes writes the talent's free-text notes for one course.
// Last write wins.
func (c *Client) SaveTalentNotes(ctx context.Context, proposalID, courseID, notes string) (*proposal.Proposal, error) {
	var out proposal.Proposal
	if err := c.patch(ctx, coursePath(proposalID, courseID)+"/notes", talentNotesRequest{TalentNotes: notes}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type companyUpdateRequest struct {
	CompanyNotes string `json:"company_notes"`
	Deadline     string `json:"deadline,omitempty"`
}

// SaveCompanyUpdate writes the company's notes and optional deadline
// (YYYY-MM-DD) for one course.
func (c *Client) SaveCompanyUpdate(ctx context.Context, proposalID, courseID, notes, deadline string) (*proposal.Proposal, error) {
	req := companyUpdateRequest{CompanyNotes: notes, Deadline: deadline}
	var out proposal.Proposal
	if err := c.patch(ctx, coursePath(proposalID, courseID)+"/company-update", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages fetches a page of the proposal's chat feed.
func (c *Client) ListMessages(ctx context.Context, proposalID string, page, pageSize int) ([]chat.Message, error) {
	var out Page[chat.Message]
	path := "/proposals/" + url.PathEscape(proposalID) + "/messages"
	if err := c.get(ctx, path, pageQuery(page, pageSize), &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage appends one chat message to the proposal's feed.
func (c *Client) SendMessage(ctx context.Context, proposalID, content string) (*chat.Message, error) {
	var out chat.Message
	path := "/proposals/" + url.PathEscape(proposalID) + "/messages"
	if err := c.post(ctx, path, sendMessageRequest{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
