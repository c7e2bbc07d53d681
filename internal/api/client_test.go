package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talentbridge/talentbridge/internal/proposal"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

// newTestServer records every request and replies with the configured
// handler's payload.
func newTestServer(t *testing.T, status int, payload any) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
			body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if payload != nil {
			_ = json.NewEncoder(w).Encode(payload)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestGetProposalSendsBearerToken(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, proposal.Proposal{ID: "p1", Status: proposal.StatusSent})
	client := New(srv.URL, "tok-123")

	p, err := client.GetProposal(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", p.ID)
	require.Equal(t, proposal.StatusSent, p.Status)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	require.Equal(t, http.MethodGet, req.method)
	require.Equal(t, "/api/v1/proposals/p1", req.path)
	require.Equal(t, "Bearer tok-123", req.header.Get("Authorization"))
}

func TestListProposalsStatusFilter(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, Page[proposal.Proposal]{
		Items: []proposal.Proposal{{ID: "p1"}}, Total: 1, Page: 1, PageSize: 20,
	})
	client := New(srv.URL, "tok")

	page, err := client.ListProposals(context.Background(), proposal.StatusAccepted, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)

	req := (*seen)[0]
	require.Equal(t, "/api/v1/proposals", req.path)
	require.Contains(t, req.query, "status=accepted")
	require.Contains(t, req.query, "page=1")
}

func TestCreateProposalRejectsEmptyDraftBeforeNetwork(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, nil)
	client := New(srv.URL, "tok")

	_, err := client.CreateProposal(context.Background(), proposal.NewDraft("talent-1"))
	require.ErrorIs(t, err, proposal.ErrNoCourses)
	require.Empty(t, *seen, "validation failure must not issue a request")
}

func TestCreateProposalSendsOrderedCourseIDs(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusCreated, proposal.Proposal{ID: "p9", Status: proposal.StatusSent})
	client := New(srv.URL, "tok")

	d := proposal.NewDraft("talent-7")
	d.AddCourse("course-a", "A")
	d.AddCourse("course-b", "B")
	d.Message = "come learn with us"

	created, err := client.CreateProposal(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, proposal.StatusSent, created.Status)

	req := (*seen)[0]
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, "/api/v1/proposals", req.path)

	var body struct {
		TalentID  string   `json:"talent_id"`
		Message   string   `json:"message"`
		CourseIDs []string `json:"course_ids"`
	}
	require.NoError(t, json.Unmarshal(req.body, &body))
	require.Equal(t, "talent-7", body.TalentID)
	require.Equal(t, []string{"course-a", "course-b"}, body.CourseIDs)
}

func TestUpdateProposalStatusCarriesIdempotencyKey(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, proposal.Proposal{ID: "p1", Status: proposal.StatusHired})
	client := New(srv.URL, "tok", WithIdempotencyKeys(func() string { return "fixed-key" }))

	p, err := client.UpdateProposalStatus(context.Background(), "p1", proposal.StatusHired, "great fit")
	require.NoError(t, err)
	require.Equal(t, proposal.StatusHired, p.Status)

	req := (*seen)[0]
	require.Equal(t, http.MethodPatch, req.method)
	require.Equal(t, "fixed-key", req.header.Get("Idempotency-Key"))

	var body struct {
		Status      string `json:"status"`
		HiringNotes string `json:"hiring_notes"`
	}
	require.NoError(t, json.Unmarshal(req.body, &body))
	require.Equal(t, "hired", body.Status)
	require.Equal(t, "great fit", body.HiringNotes)
}

func TestDefaultClientGeneratesIdempotencyKeys(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, proposal.Proposal{ID: "p1", Status: proposal.StatusAccepted})
	// No options: the default key generator must already be in place.
	client := New(srv.URL, "tok")

	_, err := client.UpdateProposalStatus(context.Background(), "p1", proposal.StatusAccepted, "")
	require.NoError(t, err)
	_, err = client.UpdateProposalStatus(context.Background(), "p1", proposal.StatusAccepted, "")
	require.NoError(t, err)

	first := (*seen)[0].header.Get("Idempotency-Key")
	second := (*seen)[1].header.Get("Idempotency-Key")
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	require.NotEqual(t, first, second)
}

func TestCourseEndpointsHitDocumentedPaths(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, proposal.Proposal{ID: "p1"})
	client := New(srv.URL, "tok")
	ctx := context.Background()

	_, err := client.StartCourse(ctx, "p1", "c1")
	require.NoError(t, err)
	_, err = client.CompleteCourse(ctx, "p1", "c1")
	require.NoError(t, err)
	_, err = client.SaveTalentNotes(ctx, "p1", "c1", "notes")
	require.NoError(t, err)
	_, err = client.SaveCompanyUpdate(ctx, "p1", "c1", "notes", "2026-10-01")
	require.NoError(t, err)

	paths := make([]string, 0, len(*seen))
	for _, r := range *seen {
		paths = append(paths, r.path)
	}
	require.Equal(t, []string{
		"/api/v1/proposals/p1/courses/c1/start",
		"/api/v1/proposals/p1/courses/c1",
		"/api/v1/proposals/p1/courses/c1/notes",
		"/api/v1/proposals/p1/courses/c1/company-update",
	}, paths)
}

func TestNonSuccessBecomesAPIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusForbidden, map[string]string{"detail": "talent may not hire"})
	client := New(srv.URL, "tok")

	_, err := client.GetProposal(context.Background(), "p1")
	require.Error(t, err)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "talent may not hire")
	require.False(t, IsNotFound(err))
	require.False(t, IsUnauthorized(err))
}

func TestIsUnauthorized(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
	client := New(srv.URL, "stale")
	_, err := client.Me(context.Background())
	require.True(t, IsUnauthorized(err))
}

func TestSendAndListMessages(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, Page[json.RawMessage]{Items: nil})
	client := New(srv.URL, "tok")
	ctx := context.Background()

	_, err := client.ListMessages(ctx, "p1", 1, 50)
	require.NoError(t, err)
	req := (*seen)[0]
	require.Equal(t, "/api/v1/proposals/p1/messages", req.path)
	require.Contains(t, req.query, "page_size=50")
}

func TestLoginReturnsToken(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, map[string]string{"access_token": "tok-abc"})
	client := New(srv.URL, "")

	token, err := client.Login(context.Background(), "dana@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "tok-abc", token)

	req := (*seen)[0]
	require.Equal(t, "/api/v1/auth/login", req.path)
	require.Empty(t, req.header.Get("Authorization"), "login must not send a bearer token")

	authed := client.WithToken(token)
	_, err = authed.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-abc", (*seen)[1].header.Get("Authorization"))
}
