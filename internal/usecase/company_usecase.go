package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"cv-generator-backend/internal/access"
	"cv-generator-backend/internal/domain"
	"cv-generator-backend/internal/export"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/audit"
	"cv-generator-backend/pkg/logger"
	"cv-generator-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type companyUsecase struct {
	companyRepo domain.CompanyRepository
	userRepo    domain.UserRepository
	docRepo     domain.DocumentRepository
	cache       domain.SessionCache
	validate    *validator.Validate
	audit       *audit.Logger
}

func NewCompanyUsecase(
	companyRepo domain.CompanyRepository,
	userRepo domain.UserRepository,
	docRepo domain.DocumentRepository,
	cache domain.SessionCache,
	validate *validator.Validate,
) domain.CompanyUsecase {
	return &companyUsecase{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		docRepo:     docRepo,
		cache:       cache,
		validate:    validate,
		audit:       audit.Default(),
	}
}

func (u *companyUsecase) ListCompanies(ctx context.Context, actor *domain.Session) ([]domain.Company, error) {
	if err := authorize(ctx, u.audit, actor, access.ActionListCompanies, access.Resource{}); err != nil {
		return nil, err
	}
	companies, err := u.companyRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return companies, nil
}

func (u *companyUsecase) CreateCompany(ctx context.Context, actor *domain.Session, req domain.CompanyRequest) (*domain.Company, error) {
	if err := authorize(ctx, u.audit, actor, access.ActionCreateCompany, access.Resource{}); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	company := &domain.Company{
		ID:                  uuid.NewString(),
		Name:                strings.TrimSpace(req.Name),
		AllowedDocsPerUsers: req.AllowedDocsPerUsers,
		AllowedTemplates:    req.AllowedTemplates,
	}
	if err := u.companyRepo.Create(ctx, company); err != nil {
		return nil, apperror.Internal(err)
	}
	return company, nil
}

// EditCompany changes the company limits. allowedDocsPerUsers applies to users
// added afterwards; existing allowances are edited per user.
func (u *companyUsecase) EditCompany(ctx context.Context, actor *domain.Session, companyID string, req domain.CompanyRequest) (*domain.Company, error) {
	if err := authorize(ctx, u.audit, actor, access.ActionEditCompany, access.Resource{CompanyID: companyID}); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	company, err := u.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, translate(err, "Company not found")
	}
	if req.AllowedTemplates < company.CreatedTemplates {
		return nil, apperror.BadRequest(fmt.Sprintf("Company already has %d templates", company.CreatedTemplates))
	}

	company.Name = strings.TrimSpace(req.Name)
	company.AllowedDocsPerUsers = req.AllowedDocsPerUsers
	company.AllowedTemplates = req.AllowedTemplates
	if err := u.companyRepo.Update(ctx, company); err != nil {
		return nil, translate(err, "Company not found")
	}
	return company, nil
}

func (u *companyUsecase) DeleteCompany(ctx context.Context, actor *domain.Session, companyID string) error {
	if err := authorize(ctx, u.audit, actor, access.ActionDeleteCompany, access.Resource{CompanyID: companyID}); err != nil {
		return err
	}

	members, err := u.userRepo.List(ctx, companyID)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.companyRepo.Delete(ctx, companyID); err != nil {
		return translate(err, "Company not found")
	}
	// Members lose their company; cached sessions must not keep the old scope.
	for _, m := range members {
		u.cache.Invalidate(ctx, m.ID)
	}
	return nil
}

func (u *companyUsecase) ExportUsage(ctx context.Context, actor *domain.Session, companyID string) ([]byte, string, error) {
	if err := authorize(ctx, u.audit, actor, access.ActionViewUsage, access.Resource{CompanyID: companyID}); err != nil {
		return nil, "", err
	}

	company, err := u.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", translate(err, "Company not found")
	}
	users, err := u.userRepo.List(ctx, companyID)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	counts, err := u.docRepo.CountByUserInCompany(ctx, companyID)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	rows := make([]domain.UsageRow, 0, len(users))
	for _, usr := range users {
		rows = append(rows, domain.UsageRow{
			UserID:        usr.ID,
			Email:         usr.Email,
			Name:          usr.Name,
			Role:          usr.Role,
			CreatedDocs:   usr.CreatedDocs,
			AllowedDocs:   usr.AllowedDocs,
			GeneratedDocs: counts[usr.ID],
		})
	}

	data, err := buildUsageWorkbook(company, rows)
	if err != nil {
		logger.Log.Error("Failed to build usage report", "company_id", companyID, "error", err)
		return nil, "", apperror.Internal(err)
	}
	filename := fmt.Sprintf("usage_%s_%s.xlsx", export.Slug(company.Name), time.Now().Format("20060102_150405"))
	return data, filename, nil
}

var usageHeaders = []string{"NAME", "EMAIL", "ROLE", "CREATED DOCS", "ALLOWED DOCS", "REMAINING", "STORED DOCUMENTS"}

func buildUsageWorkbook(company *domain.Company, rows []domain.UsageRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Usage"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, h := range usageHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	// Dark blue header with white text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(usageHeaders), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	totalCreated := 0
	for i, r := range rows {
		remaining := r.AllowedDocs - r.CreatedDocs
		if remaining < 0 {
			remaining = 0
		}
		values := []interface{}{r.Name, r.Email, string(r.Role), r.CreatedDocs, r.AllowedDocs, remaining, r.GeneratedDocs}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheetName, cell, v)
		}
		totalCreated += r.CreatedDocs
	}

	summaryRow := len(rows) + 3
	labelCell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	valueCell, _ := excelize.CoordinatesToCellName(4, summaryRow)
	f.SetCellValue(sheetName, labelCell, "TOTAL ("+company.Name+")")
	f.SetCellValue(sheetName, valueCell, totalCreated)

	for i := range usageHeaders {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
