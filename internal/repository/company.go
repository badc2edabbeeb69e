package repository

import (
	"context"
	"time"

	"tasklink/internal/cache"
	"tasklink/internal/models"
	"tasklink/internal/observability"

	"gorm.io/gorm"
)

// CompanyRepository defines persistence operations for recruiter profiles.
type CompanyRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Company, error)
	Create(ctx context.Context, company *models.Company) error
	// Onboard creates the profile, assigns the company role and, when email
	// is non-nil, changes the account email. Either all three commit or none.
	Onboard(ctx context.Context, company *models.Company, email *string) error
	// UpdateProfile writes the selected company columns and, when email is
	// non-nil, the owning user's email, in one transaction.
	UpdateProfile(ctx context.Context, userID uint, patch *models.Company, columns []string, email *string) error
}

type companyRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCompanyRepository returns a new CompanyRepository implementation.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db, log: observability.NewRepoLogger("companies")}
}

// GetByUserID loads the profile with the owner's email attached.
func (r *companyRepository) GetByUserID(ctx context.Context, userID uint) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "email")
		}).
		Where("user_id = ?", userID).
		First(&company).Error; err != nil {
		return nil, notFoundOrInternal(err, "Company profile", userID)
	}
	company.AttachEmail()
	return &company, nil
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(company).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Company profile already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"company_id": company.ID, "user_id": company.UserID})
	return nil
}

func (r *companyRepository) Onboard(ctx context.Context, company *models.Company, email *string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if email != nil {
			if err := setUserEmail(tx, company.UserID, *email); err != nil {
				return err
			}
		}
		if err := tx.Omit("User").Create(company).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewConflictError("Company profile already exists")
			}
			return models.NewInternalError(err)
		}
		result := tx.Model(&models.User{}).Where("id = ?", company.UserID).Update("role", models.RoleCompany)
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("User", company.UserID)
		}
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "onboard")
		return err
	}

	cache.InvalidateUser(ctx, company.UserID)
	r.log.LogCreate(ctx, map[string]interface{}{"company_id": company.ID, "user_id": company.UserID})
	return nil
}

func setUserEmail(tx *gorm.DB, userID uint, email string) error {
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("email", email).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *companyRepository) UpdateProfile(ctx context.Context, userID uint, patch *models.Company, columns []string, email *string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if email != nil {
			if err := setUserEmail(tx, userID, *email); err != nil {
				return err
			}
		}

		selected := make([]string, 0, len(columns)+1)
		selected = append(selected, columns...)
		selected = append(selected, "updated_at")
		patch.UpdatedAt = time.Now()

		result := tx.Model(&models.Company{}).
			Where("user_id = ?", userID).
			Select(selected).
			Omit("user_id").
			Updates(patch)
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Company profile", userID)
		}
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "update")
		return err
	}

	if email != nil {
		cache.InvalidateUser(ctx, userID)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"user_id": userID, "columns": columns})
	return nil
}
