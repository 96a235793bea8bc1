package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cv-generator-backend/internal/domain"
	"cv-generator-backend/internal/usecase"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/llm"
	"cv-generator-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type documentDeps struct {
	users     *MockUserRepo
	templates *MockTemplateRepo
	docs      *MockDocRepo
	gen       *MockGenerator
	exporter  *MockExporter
	uc        domain.DocumentUsecase
}

func newDocumentDeps() *documentDeps {
	d := &documentDeps{
		users:     new(MockUserRepo),
		templates: new(MockTemplateRepo),
		docs:      new(MockDocRepo),
		gen:       new(MockGenerator),
		exporter:  new(MockExporter),
	}
	d.uc = usecase.NewDocumentUsecase(d.users, d.templates, d.docs, nil, d.gen, d.exporter, validation.New())
	return d
}

func recruiter() *domain.Session {
	return &domain.Session{UserID: "u1", Email: "rec@acme.com", Role: domain.RoleUser, CompanyID: "c1"}
}

func janeDoeRequest() domain.GenerateRequest {
	return domain.GenerateRequest{
		Candidate: domain.CandidateData{
			DocumentTitle:     "Senior Dev CV",
			Name:              "Jane Doe",
			Location:          "Remote",
			RightToWork:       "Citizen",
			SalaryExpectation: "£60k",
			Notes:             "5 years React",
			TemplateID:        domain.BaseTemplateID,
		},
		CVText: "Jane Doe, Software Engineer...",
	}
}

func TestGenerateLimitReached(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	d.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", CreatedDocs: 5, AllowedDocs: 5}, nil)

	result, err := d.uc.Generate(ctx, recruiter(), janeDoeRequest())

	require.NoError(t, err)
	assert.True(t, result.LimitReached)
	assert.Empty(t, result.Content)
	assert.Equal(t, 5, result.CreatedDocs)
	d.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	d.users.AssertNotCalled(t, "IncrementGenerations", mock.Anything, mock.Anything)
	d.docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateCounterAboveAllowanceIsExhausted(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	d.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", CreatedDocs: 7, AllowedDocs: 5}, nil)

	result, err := d.uc.Generate(ctx, recruiter(), janeDoeRequest())

	require.NoError(t, err)
	assert.True(t, result.LimitReached)
	d.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateSuccess(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	user := &domain.User{ID: "u1", CompanyID: "c1", CreatedDocs: 2, AllowedDocs: 5}

	d.users.On("GetByID", ctx, "u1").Return(user, nil)
	d.gen.On("Generate", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "- Name: Jane Doe") && strings.Contains(p, "Jane Doe, Software Engineer...")
	}), 0.2).Return(&llm.Completion{
		Text:  "```markdown\n# Jane Doe\n```",
		Model: "claude-test",
		Usage: llm.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil)
	d.users.On("IncrementGenerations", ctx, "u1").Return(3, nil)
	d.docs.On("Create", ctx, mock.MatchedBy(func(doc *domain.GeneratedDoc) bool {
		return doc.CandidateName == "Jane Doe" &&
			doc.DocumentTitle == "Senior Dev CV" &&
			doc.Content == "\n# Jane Doe\n" &&
			doc.CreatedBy == "u1" &&
			doc.CompanyID == "c1" &&
			!doc.IsTailoredForJob
	})).Return(nil)

	result, err := d.uc.Generate(ctx, recruiter(), janeDoeRequest())

	require.NoError(t, err)
	assert.False(t, result.LimitReached)
	assert.Equal(t, "\n# Jane Doe\n", result.Content)
	assert.Equal(t, 3, result.CreatedDocs)
	require.NotNil(t, result.Document)
	assert.NotEmpty(t, result.Document.ID)
	d.users.AssertExpectations(t)
	d.docs.AssertExpectations(t)
	d.users.AssertNotCalled(t, "DecrementGenerations", mock.Anything, mock.Anything)
}

func TestGenerateLosesRaceForLastSlot(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	d.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", CreatedDocs: 4, AllowedDocs: 5}, nil)
	d.gen.On("Generate", ctx, mock.Anything, 0.2).Return(&llm.Completion{Text: "# CV"}, nil)
	d.users.On("IncrementGenerations", ctx, "u1").Return(0, domain.ErrQuotaExhausted)

	result, err := d.uc.Generate(ctx, recruiter(), janeDoeRequest())

	require.NoError(t, err)
	assert.True(t, result.LimitReached)
	assert.Nil(t, result.Document)
	d.docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGeneratePersistFailureReleasesSlot(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	d.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", CreatedDocs: 1, AllowedDocs: 5}, nil)
	d.gen.On("Generate", ctx, mock.Anything, 0.2).Return(&llm.Completion{Text: "# CV"}, nil)
	d.users.On("IncrementGenerations", ctx, "u1").Return(2, nil)
	d.docs.On("Create", ctx, mock.Anything).Return(errors.New("connection reset"))
	d.users.On("DecrementGenerations", ctx, "u1").Return(nil)

	result, err := d.uc.Generate(ctx, recruiter(), janeDoeRequest())

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	d.users.AssertCalled(t, "DecrementGenerations", ctx, "u1")
}

func TestGenerateIncrementFailureStillStores(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	d.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", CreatedDocs: 1, AllowedDocs: 5}, nil)
	d.gen.On("Generate", ctx, mock.Anything, 0.2).Return(&llm.Completion{Text: "# CV"}, nil)
	d.users.On("IncrementGenerations", ctx, "u1").Return(0, errors.New("timeout"))
	d.docs.On("Create", ctx, mock.Anything).Return(nil)

	result, err := d.uc.Generate(ctx, recruiter(), janeDoeRequest())

	require.NoError(t, err)
	assert.Equal(t, "# CV", result.Content)
	assert.Equal(t, 2, result.CreatedDocs)
	d.users.AssertNotCalled(t, "DecrementGenerations", mock.Anything, mock.Anything)
}

func TestGenerateRequiresCVText(t *testing.T) {
	d := newDocumentDeps()
	req := janeDoeRequest()
	req.CVText = "   "

	_, err := d.uc.Generate(context.Background(), recruiter(), req)

	assert.Equal(t, apperror.KindMissingInput, apperror.KindOf(err))
}

func TestGenerateRejectsCandidates(t *testing.T) {
	d := newDocumentDeps()
	candidate := &domain.Session{UserID: "cand", Role: domain.RoleCandidate}

	_, err := d.uc.Generate(context.Background(), candidate, janeDoeRequest())

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "403 Forbidden:"))
	d.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGenerateRequiresSession(t *testing.T) {
	d := newDocumentDeps()
	_, err := d.uc.Generate(context.Background(), nil, janeDoeRequest())
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestGenerateUpstreamFailure(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	d.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", AllowedDocs: 5}, nil)
	d.gen.On("Generate", ctx, mock.Anything, 0.2).Return(nil, errors.New("503 overloaded"))

	_, err := d.uc.Generate(ctx, recruiter(), janeDoeRequest())

	assert.Equal(t, apperror.KindUpstream, apperror.KindOf(err))
	d.users.AssertNotCalled(t, "IncrementGenerations", mock.Anything, mock.Anything)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	d.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", AllowedDocs: 5}, nil)
	d.gen.On("Generate", ctx, mock.Anything, 0.2).Return(nil, apperror.Configuration("Generation API key is not configured"))

	_, err := d.uc.Generate(ctx, recruiter(), janeDoeRequest())

	assert.Equal(t, apperror.KindConfiguration, apperror.KindOf(err))
}

func TestGenerateWithOtherCompanyTemplate(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	req := janeDoeRequest()
	req.Candidate.TemplateID = "tpl-x"

	d.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", CompanyID: "c1", AllowedDocs: 5}, nil)
	d.templates.On("GetByID", ctx, "tpl-x").Return(&domain.Template{ID: "tpl-x", CompanyID: "c2", TemplateContent: "# X"}, nil)

	_, err := d.uc.Generate(ctx, recruiter(), req)

	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	d.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateWithUnknownTemplateUsesEmptyTemplate(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	req := janeDoeRequest()
	req.Candidate.TemplateID = "missing"

	d.users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", AllowedDocs: 5}, nil)
	d.templates.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound)
	d.gen.On("Generate", ctx, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Template:\nCandidate Information:")
	}), 0.2).Return(&llm.Completion{Text: "# CV"}, nil)
	d.users.On("IncrementGenerations", ctx, "u1").Return(1, nil)
	d.docs.On("Create", ctx, mock.Anything).Return(nil)

	result, err := d.uc.Generate(ctx, recruiter(), req)

	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedDocs)
	d.gen.AssertExpectations(t)
}

func TestGetDocumentOwnership(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	doc := &domain.GeneratedDoc{ID: "d1", CreatedBy: "owner", Content: "# CV"}
	d.docs.On("GetByID", ctx, "d1").Return(doc, nil)

	_, err := d.uc.GetDocument(ctx, &domain.Session{UserID: "intruder", Role: domain.RoleAdmin, CompanyID: "c1"}, "d1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	got, err := d.uc.GetDocument(ctx, &domain.Session{UserID: "owner", Role: domain.RoleUser}, "d1")
	require.NoError(t, err)
	assert.Equal(t, "# CV", got.Content)

	got, err = d.uc.GetDocument(ctx, &domain.Session{UserID: "root", Role: domain.RoleSuperAdmin}, "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.ID)
}

func TestGetDocumentNotFound(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	d.docs.On("GetByID", ctx, "nope").Return(nil, domain.ErrNotFound)

	_, err := d.uc.GetDocument(ctx, recruiter(), "nope")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteDocumentAttachedToApplication(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	d.docs.On("GetByID", ctx, "d1").Return(&domain.GeneratedDoc{ID: "d1", CreatedBy: "u1"}, nil)
	d.docs.On("Delete", ctx, "d1").Return(domain.ErrInUse)

	err := d.uc.DeleteDocument(ctx, recruiter(), "d1")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestExportDocument(t *testing.T) {
	d := newDocumentDeps()
	ctx := context.Background()
	doc := &domain.GeneratedDoc{ID: "d1", CreatedBy: "u1", DocumentTitle: "Senior Dev CV", Content: "# CV"}
	d.docs.On("GetByID", ctx, "d1").Return(doc, nil)
	d.exporter.On("Export", ctx, doc, domain.ExportPDF).Return(&domain.ExportedFile{
		Filename: "senior-dev-cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF"),
	}, nil)

	file, err := d.uc.ExportDocument(ctx, recruiter(), "d1", "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)

	_, err = d.uc.ExportDocument(ctx, recruiter(), "d1", "docx")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
