package usecase_test

import (
	"context"

	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/llm"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, companyID string) ([]domain.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) Relink(ctx context.Context, oldID, newID string) error {
	return m.Called(ctx, oldID, newID).Error(0)
}
func (m *MockUserRepo) IncrementGenerations(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *MockUserRepo) DecrementGenerations(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) Create(ctx context.Context, company *domain.Company) error {
	return m.Called(ctx, company).Error(0)
}
func (m *MockCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockCompanyRepo) List(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}
func (m *MockCompanyRepo) Update(ctx context.Context, company *domain.Company) error {
	return m.Called(ctx, company).Error(0)
}
func (m *MockCompanyRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCompanyRepo) ReserveTemplateSlot(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCompanyRepo) ReleaseTemplateSlot(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockTemplateRepo struct {
	mock.Mock
}

func (m *MockTemplateRepo) Create(ctx context.Context, tpl *domain.Template) error {
	return m.Called(ctx, tpl).Error(0)
}
func (m *MockTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}
func (m *MockTemplateRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.Template, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Template), args.Error(1)
}
func (m *MockTemplateRepo) Update(ctx context.Context, tpl *domain.Template) error {
	return m.Called(ctx, tpl).Error(0)
}
func (m *MockTemplateRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockDocRepo struct {
	mock.Mock
}

func (m *MockDocRepo) Create(ctx context.Context, doc *domain.GeneratedDoc) error {
	return m.Called(ctx, doc).Error(0)
}
func (m *MockDocRepo) ListByUser(ctx context.Context, userID string) ([]domain.DocInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocInfo), args.Error(1)
}
func (m *MockDocRepo) GetByID(ctx context.Context, id string) (*domain.GeneratedDoc, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedDoc), args.Error(1)
}
func (m *MockDocRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockDocRepo) CountByUserInCompany(ctx context.Context, companyID string) (map[string]int, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}
func (m *MockCandidateRepo) Upsert(ctx context.Context, profile *domain.CandidateProfile) error {
	return m.Called(ctx, profile).Error(0)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.JobListing) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.JobListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobListing), args.Error(1)
}
func (m *MockJobRepo) List(ctx context.Context, filter domain.JobFilter) ([]domain.JobListing, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JobListing), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.JobListing) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	return m.Called(ctx, app).Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.JobApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}
func (m *MockApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]domain.JobApplication, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobApplication), args.Error(1)
}
func (m *MockApplicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]domain.JobApplication, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobApplication), args.Error(1)
}
func (m *MockApplicationRepo) CheckExists(ctx context.Context, jobID, candidateID string) (bool, error) {
	args := m.Called(ctx, jobID, candidateID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// Mock collaborators
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, temperature float64) (*llm.Completion, error) {
	args := m.Called(ctx, prompt, temperature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Completion), args.Error(1)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, doc *domain.GeneratedDoc, format domain.ExportFormat) (*domain.ExportedFile, error) {
	args := m.Called(ctx, doc, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportedFile), args.Error(1)
}
