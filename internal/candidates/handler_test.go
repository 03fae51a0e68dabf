package candidates

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"screening-backend/internal/cache"
	"screening-backend/internal/extract"
	"screening-backend/internal/jobs"
	"screening-backend/internal/scoring"
)

func newHandlerTestRouter(t *testing.T) (*gin.Engine, jobs.Requirement) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jobsSvc := &jobs.Service{Repo: jobs.NewMemoryRepo()}
	svc := &Service{
		Repo:       NewMemoryRepo(),
		Jobs:       jobsSvc,
		Normalizer: &extract.Normalizer{},
		Engine:     &scoring.Engine{},
		Cache:      cache.NewMemoryCache(),
		CacheTTL:   time.Minute,
	}

	router := gin.New()
	group := router.Group("/api/v1")
	jobs.NewHandler(jobsSvc).RegisterRoutes(group)
	NewHandler(svc).RegisterRoutes(group)

	job := createTestJob(t, jobsSvc)
	return router, job
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

const submitBody = `{
  "email": "jane@example.com",
  "fields": [
    {"label": "Full Name", "kind": "text", "value": "Jane Doe"},
    {"label": "Upload CV", "kind": "file", "value": "Jane Doe\n8 years of experience building distributed systems in Python and PostgreSQL.\nBachelor of Science. linkedin.com/in/janedoe"},
    {"label": "Why us?", "kind": "paragraph", "value": "I like collaborating with small teams and mentoring."}
  ]
}`

func TestSubmitEndpoint(t *testing.T) {
	router, job := newHandlerTestRouter(t)

	resp := postJSON(t, router, "/api/v1/jobs/"+job.ID+"/submissions", submitBody)
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var created candidateResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.CandidateID == "" || created.ScoreStatus != ScoreScored {
		t.Fatalf("created = %+v", created)
	}
	if created.Breakdown == nil || created.Grade == "" {
		t.Fatal("response missing breakdown/grade")
	}

	// Round-trip through GET.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/candidates/"+created.CandidateID, nil)
	get := httptest.NewRecorder()
	router.ServeHTTP(get, req)
	if get.Code != http.StatusOK {
		t.Fatalf("get status = %d", get.Code)
	}
}

func TestSubmitEndpointUnknownJob(t *testing.T) {
	router, _ := newHandlerTestRouter(t)
	resp := postJSON(t, router, "/api/v1/jobs/ghost/submissions", submitBody)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}

func TestRescoreEndpoint(t *testing.T) {
	router, job := newHandlerTestRouter(t)

	created := submitOne(t, router, job.ID)
	resp := postJSON(t, router, "/api/v1/candidates/"+created.CandidateID+"/rescore", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var rescored candidateResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &rescored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rescored.TotalScore != created.TotalScore || rescored.Grade != created.Grade {
		t.Fatalf("rescore changed result: %d/%s -> %d/%s",
			created.TotalScore, created.Grade, rescored.TotalScore, rescored.Grade)
	}
}

func TestPatchEndpoint(t *testing.T) {
	router, job := newHandlerTestRouter(t)
	created := submitOne(t, router, job.ID)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/candidates/"+created.CandidateID,
		strings.NewReader(`{"status":"interview_scheduled","tags":["shortlist"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var patched candidateResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &patched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if patched.Status != StatusInterviewScheduled || len(patched.Tags) != 1 {
		t.Fatalf("patched = %+v", patched)
	}
}

func TestPatchEndpointBadStatus(t *testing.T) {
	router, job := newHandlerTestRouter(t)
	created := submitOne(t, router, job.ID)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/candidates/"+created.CandidateID,
		strings.NewReader(`{"status":"maybe"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestRankingsEndpoint(t *testing.T) {
	router, job := newHandlerTestRouter(t)
	submitOne(t, router, job.ID)
	submitOne(t, router, job.ID)

	resp := postJSON(t, router, "/api/v1/jobs/"+job.ID+"/rankings", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var ranked []rankedResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &ranked); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("ranked %d, want 2", len(ranked))
	}
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Fatalf("ranks = %+v", ranked)
	}
}

func submitOne(t *testing.T, router *gin.Engine, jobID string) candidateResponse {
	t.Helper()
	resp := postJSON(t, router, "/api/v1/jobs/"+jobID+"/submissions", submitBody)
	if resp.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", resp.Code, resp.Body.String())
	}
	var created candidateResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return created
}
