package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cv-generator-backend/internal/delivery/http/api"
	"cv-generator-backend/internal/delivery/http/middleware"
	"cv-generator-backend/internal/delivery/http/response"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeVerifier accepts any token except "bad" and uses it as the subject.
type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if token == "bad" {
		return nil, errors.New("signature is invalid")
	}
	return &auth.Claims{Email: token + "@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: token}}, nil
}

type stubAuthUC struct {
	domain.AuthUsecase
	sessions map[string]*domain.Session
	synced   *domain.Identity
}

func (s *stubAuthUC) ResolveSession(_ context.Context, userID string) (*domain.Session, error) {
	if sess, ok := s.sessions[userID]; ok {
		return sess, nil
	}
	return nil, apperror.Unauthorized("User is not registered")
}

func (s *stubAuthUC) SyncUser(_ context.Context, identity domain.Identity) (*domain.User, error) {
	s.synced = &identity
	return &domain.User{ID: identity.Subject, Email: identity.Email, Role: domain.RoleUser}, nil
}

type stubDocumentUC struct {
	domain.DocumentUsecase
	generate func(actor *domain.Session) (*domain.GenerateResult, error)
}

func (s *stubDocumentUC) Generate(_ context.Context, actor *domain.Session, _ domain.GenerateRequest) (*domain.GenerateResult, error) {
	return s.generate(actor)
}

func (s *stubDocumentUC) ExportDocument(_ context.Context, _ *domain.Session, docID string, format domain.ExportFormat) (*domain.ExportedFile, error) {
	if format != domain.ExportHTML {
		return nil, apperror.BadRequest("Unsupported export format: " + string(format))
	}
	return &domain.ExportedFile{Filename: "jane-doe.html", ContentType: "text/html; charset=utf-8", Data: []byte("<h1>Jane</h1>")}, nil
}

type stubJobUC struct {
	domain.JobUsecase
}

func (stubJobUC) ListPublicJobs(_ context.Context, page, pageSize int) ([]domain.JobListing, int64, error) {
	return []domain.JobListing{{ID: "j1", Title: "Backend Engineer", Status: domain.JobStatusOpen}}, 1, nil
}

func newTestRouter(docs *stubDocumentUC, authUC *stubAuthUC, generationLimit int) *gin.Engine {
	return api.NewRouter(api.RouterDeps{
		AuthUC:     authUC,
		DocumentUC: docs,
		JobUC:      stubJobUC{},
		Verifier:   fakeVerifier{},
		GenerationLimit: middleware.RateLimitConfig{
			Limit:     generationLimit,
			Window:    time.Minute,
			KeyPrefix: "rl:test:" + time.Now().Format(time.RFC3339Nano) + ":",
		},
	})
}

func sessions(list ...*domain.Session) *stubAuthUC {
	m := make(map[string]*domain.Session, len(list))
	for _, s := range list {
		m[s.UserID] = s
	}
	return &stubAuthUC{sessions: m}
}

func do(r http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

const generateBody = `{"candidate":{"document_title":"CV","name":"Jane Doe","template_id":"pp"},"cv_text":"Go engineer"}`

func TestHealth(t *testing.T) {
	r := newTestRouter(&stubDocumentUC{}, sessions(), 5)

	w, resp := do(r, http.MethodGet, "/api/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	r := newTestRouter(&stubDocumentUC{}, sessions(), 5)

	w, resp := do(r, http.MethodPost, "/api/documents/generate", "", generateBody)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)
}

func TestInvalidTokenIsUnauthorized(t *testing.T) {
	r := newTestRouter(&stubDocumentUC{}, sessions(), 5)

	w, resp := do(r, http.MethodPost, "/api/documents/generate", "bad", generateBody)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", resp.Message)
}

func TestUnregisteredUserIsUnauthorized(t *testing.T) {
	r := newTestRouter(&stubDocumentUC{}, sessions(), 5)

	w, resp := do(r, http.MethodGet, "/api/auth/me", "ghost", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User is not registered", resp.Message)
}

func TestSyncNeedsOnlyAToken(t *testing.T) {
	authUC := sessions()
	r := newTestRouter(&stubDocumentUC{}, authUC, 5)

	w, resp := do(r, http.MethodPost, "/api/auth/sync", "newcomer", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, authUC.synced)
	assert.Equal(t, "newcomer@example.com", authUC.synced.Email)
}

func TestForbiddenEnvelope(t *testing.T) {
	docs := &stubDocumentUC{generate: func(*domain.Session) (*domain.GenerateResult, error) {
		return nil, apperror.Forbidden("candidates cannot generate recruiter documents")
	}}
	r := newTestRouter(docs, sessions(&domain.Session{UserID: "cand", Role: domain.RoleCandidate}), 5)

	w, resp := do(r, http.MethodPost, "/api/documents/generate", "cand", generateBody)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.Message, "403 Forbidden: "))
}

func TestGenerateCreated(t *testing.T) {
	var seen *domain.Session
	docs := &stubDocumentUC{generate: func(actor *domain.Session) (*domain.GenerateResult, error) {
		seen = actor
		return &domain.GenerateResult{Content: "# Jane Doe", CreatedDocs: 3}, nil
	}}
	r := newTestRouter(docs, sessions(&domain.Session{UserID: "rec", Role: domain.RoleUser, CompanyID: "c1"}), 5)

	w, resp := do(r, http.MethodPost, "/api/documents/generate", "rec", generateBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, seen)
	assert.Equal(t, "c1", seen.CompanyID)
}

func TestGenerateLimitReached(t *testing.T) {
	docs := &stubDocumentUC{generate: func(*domain.Session) (*domain.GenerateResult, error) {
		return &domain.GenerateResult{LimitReached: true, CreatedDocs: 5}, nil
	}}
	r := newTestRouter(docs, sessions(&domain.Session{UserID: "rec", Role: domain.RoleUser}), 5)

	w, resp := do(r, http.MethodPost, "/api/documents/generate", "rec", generateBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["limit_reached"])
	assert.Equal(t, float64(5), data["created_docs"])
}

func TestGenerationRateLimit(t *testing.T) {
	docs := &stubDocumentUC{generate: func(*domain.Session) (*domain.GenerateResult, error) {
		return &domain.GenerateResult{Content: "# CV", CreatedDocs: 1}, nil
	}}
	r := newTestRouter(docs, sessions(&domain.Session{UserID: "busy", Role: domain.RoleUser}), 1)

	first, _ := do(r, http.MethodPost, "/api/documents/generate", "busy", generateBody)
	second, resp := do(r, http.MethodPost, "/api/documents/generate", "busy", generateBody)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestExportDownload(t *testing.T) {
	r := newTestRouter(&stubDocumentUC{}, sessions(&domain.Session{UserID: "rec", Role: domain.RoleUser}), 5)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d/export?format=html", nil)
	req.Header.Set("Authorization", "Bearer rec")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="jane-doe.html"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "<h1>Jane</h1>", w.Body.String())
}

func TestExportRejectsBadID(t *testing.T) {
	r := newTestRouter(&stubDocumentUC{}, sessions(&domain.Session{UserID: "rec", Role: domain.RoleUser}), 5)

	w, resp := do(r, http.MethodGet, "/api/documents/not-a-uuid/export", "rec", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid document ID", resp.Message)
}

func TestPublicJobsAreAnonymous(t *testing.T) {
	r := newTestRouter(&stubDocumentUC{}, sessions(), 5)

	w, resp := do(r, http.MethodGet, "/api/jobs/public?page=1&page_size=10", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(10), data["page_size"])
}
