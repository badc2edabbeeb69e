package service

import (
	"context"
	"strings"

	"tasklink/internal/models"
	"tasklink/internal/observability"
	"tasklink/internal/repository"
	"tasklink/internal/validation"
)

type CompanyService struct {
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
}

// CompanyProfileInput is a partial company profile. A nil field was not
// sent; an empty string is a value.
type CompanyProfileInput struct {
	CompanyName   *string `json:"companyName"`
	CompanyType   *string `json:"companyType"`
	ContactPerson *string `json:"contactPerson"`
	ContactPhone  *string `json:"contactPhone"`
	Description   *string `json:"description"`
	Website       *string `json:"website"`
	Location      *string `json:"location"`
	LogoPath      *string `json:"logoPath"`
	DocPath       *string `json:"docPath"`
	Email         *string `json:"email"`
}

func NewCompanyService(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo, userRepo: userRepo}
}

// GetProfile returns the caller's company profile with the account email joined.
func (s *CompanyService) GetProfile(ctx context.Context, userID uint) (*models.Company, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}
	return s.companyRepo.GetByUserID(ctx, userID)
}

// UpdateProfile applies every provided field and returns the stored record.
func (s *CompanyService) UpdateProfile(ctx context.Context, userID uint, in CompanyProfileInput) (*models.Company, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}
	if in.Email == nil || strings.TrimSpace(*in.Email) == "" {
		return nil, models.NewValidationError("Email is required")
	}
	if _, err := s.companyRepo.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}
	return s.applyProfile(ctx, userID, in)
}

// SaveDetails is the onboarding write: on first call it creates the profile,
// assigns the company role and applies the email atomically; afterwards it
// behaves as a partial update.
func (s *CompanyService) SaveDetails(ctx context.Context, userID uint, in CompanyProfileInput) (*models.Company, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}

	_, err := s.companyRepo.GetByUserID(ctx, userID)
	if err == nil {
		return s.applyProfile(ctx, userID, in)
	}
	if !isNotFound(err) {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleStudent {
		return nil, models.NewValidationError("Account is registered as a student")
	}
	if in.CompanyName == nil || strings.TrimSpace(*in.CompanyName) == "" {
		return nil, models.NewValidationError("Company name is required")
	}

	email, err := normalizedEmail(in.Email)
	if err != nil {
		return nil, err
	}

	company := &models.Company{UserID: userID}
	applyCompanyFields(company, in)
	company.CompanyName = strings.TrimSpace(company.CompanyName)
	if err := s.companyRepo.Onboard(ctx, company, email); err != nil {
		return nil, err
	}

	observability.ProfileUpdates.WithLabelValues("company", "create").Inc()
	return s.companyRepo.GetByUserID(ctx, userID)
}

func (s *CompanyService) applyProfile(ctx context.Context, userID uint, in CompanyProfileInput) (*models.Company, error) {
	email, err := normalizedEmail(in.Email)
	if err != nil {
		return nil, err
	}

	patch := &models.Company{}
	columns := applyCompanyFields(patch, in)
	if err := s.companyRepo.UpdateProfile(ctx, userID, patch, columns, email); err != nil {
		return nil, err
	}

	observability.ProfileUpdates.WithLabelValues("company", "update").Inc()
	return s.companyRepo.GetByUserID(ctx, userID)
}

func normalizedEmail(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	email := validation.NormalizeEmail(*raw)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return &email, nil
}

// applyCompanyFields copies provided fields into dst and returns their columns.
func applyCompanyFields(dst *models.Company, in CompanyProfileInput) []string {
	var columns []string
	set := func(src *string, field *string, column string) {
		if src == nil {
			return
		}
		*field = *src
		columns = append(columns, column)
	}
	set(in.CompanyName, &dst.CompanyName, "company_name")
	set(in.CompanyType, &dst.CompanyType, "company_type")
	set(in.ContactPerson, &dst.ContactPerson, "contact_person")
	set(in.ContactPhone, &dst.ContactPhone, "contact_phone")
	set(in.Description, &dst.Description, "description")
	set(in.Website, &dst.Website, "website")
	set(in.Location, &dst.Location, "location")
	set(in.LogoPath, &dst.LogoPath, "logo_path")
	set(in.DocPath, &dst.DocPath, "doc_path")
	return columns
}
