package service

import (
	"context"
	"testing"

	"tasklink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existingCompanyRepo() *companyRepoStub {
	return &companyRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Company, error) {
			return &models.Company{ID: 1, UserID: userID, CompanyName: "Acme"}, nil
		},
		createFn:        func(context.Context, *models.Company) error { return nil },
		onboardFn:       func(context.Context, *models.Company, *string) error { return nil },
		updateProfileFn: func(context.Context, uint, *models.Company, []string, *string) error { return nil },
	}
}

func TestCompanyServiceGetProfile(t *testing.T) {
	t.Parallel()
	svc := NewCompanyService(existingCompanyRepo(), noopUserRepo())

	_, err := svc.GetProfile(context.Background(), 0)
	assertAppErrorCode(t, err, models.CodeUnauthorized)

	company, err := svc.GetProfile(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, uint(4), company.UserID)
}

func TestCompanyServiceUpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("email required", func(t *testing.T) {
		svc := NewCompanyService(existingCompanyRepo(), noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), 4, CompanyProfileInput{CompanyName: strPtr("x")})
		assertValidationError(t, err)
		assert.Equal(t, "Email is required", err.Error())
	})

	t.Run("not found", func(t *testing.T) {
		repo := existingCompanyRepo()
		repo.getByUserIDFn = func(_ context.Context, userID uint) (*models.Company, error) {
			return nil, models.NewNotFoundError("Company profile", userID)
		}
		_, err := NewCompanyService(repo, noopUserRepo()).UpdateProfile(context.Background(), 4,
			CompanyProfileInput{Email: strPtr("hr@acme.test")})
		assertNotFoundError(t, err)
		assert.Equal(t, "Company profile not found", err.Error())
	})

	t.Run("presence not truthiness", func(t *testing.T) {
		repo := existingCompanyRepo()
		var gotColumns []string
		var gotEmail *string
		var gotPatch *models.Company
		repo.updateProfileFn = func(_ context.Context, _ uint, patch *models.Company, columns []string, email *string) error {
			gotPatch, gotColumns, gotEmail = patch, columns, email
			return nil
		}
		_, err := NewCompanyService(repo, noopUserRepo()).UpdateProfile(context.Background(), 4, CompanyProfileInput{
			Website:  strPtr(""),
			Location: strPtr("Mumbai"),
			Email:    strPtr(" HR@Acme.Test "),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"website", "location"}, gotColumns)
		assert.Equal(t, "", gotPatch.Website)
		assert.Equal(t, "Mumbai", gotPatch.Location)
		require.NotNil(t, gotEmail)
		assert.Equal(t, "hr@acme.test", *gotEmail)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewCompanyService(existingCompanyRepo(), noopUserRepo()).UpdateProfile(context.Background(), 4,
			CompanyProfileInput{Email: strPtr("nope")})
		assertValidationError(t, err)
	})
}

func TestCompanyServiceSaveDetails(t *testing.T) {
	t.Parallel()

	missingThenCreated := func(created **models.Company) *companyRepoStub {
		repo := existingCompanyRepo()
		repo.getByUserIDFn = func(_ context.Context, userID uint) (*models.Company, error) {
			if *created == nil {
				return nil, models.NewNotFoundError("Company profile", userID)
			}
			return *created, nil
		}
		repo.onboardFn = func(_ context.Context, c *models.Company, _ *string) error {
			*created = c
			return nil
		}
		return repo
	}

	t.Run("creates through a single onboarding write", func(t *testing.T) {
		var created *models.Company
		users := noopUserRepo()
		users.setRoleFn = func(context.Context, uint, models.Role) error {
			t.Error("role must be assigned inside the onboarding transaction")
			return nil
		}
		company, err := NewCompanyService(missingThenCreated(&created), users).SaveDetails(context.Background(), 4,
			CompanyProfileInput{CompanyName: strPtr("  Acme  "), Location: strPtr("Pune")})
		require.NoError(t, err)
		assert.Equal(t, "Acme", company.CompanyName)
		assert.Equal(t, "Pune", company.Location)
		assert.Equal(t, uint(4), company.UserID)
	})

	t.Run("email conflict leaves nothing behind", func(t *testing.T) {
		repo := existingCompanyRepo()
		repo.getByUserIDFn = func(_ context.Context, userID uint) (*models.Company, error) {
			return nil, models.NewNotFoundError("Company profile", userID)
		}
		var gotEmail *string
		repo.onboardFn = func(_ context.Context, _ *models.Company, email *string) error {
			gotEmail = email
			return models.NewConflictError("Email already registered")
		}
		repo.createFn = func(context.Context, *models.Company) error {
			t.Error("profile must not be created outside the onboarding write")
			return nil
		}
		repo.updateProfileFn = func(context.Context, uint, *models.Company, []string, *string) error {
			t.Error("email must not be applied in a separate write")
			return nil
		}
		users := noopUserRepo()
		users.setRoleFn = func(context.Context, uint, models.Role) error {
			t.Error("role must not be assigned on conflict")
			return nil
		}

		_, err := NewCompanyService(repo, users).SaveDetails(context.Background(), 4,
			CompanyProfileInput{CompanyName: strPtr("Acme"), Email: strPtr("Taken@Acme.test")})
		assertAppErrorCode(t, err, models.CodeConflict)
		require.NotNil(t, gotEmail)
		assert.Equal(t, "taken@acme.test", *gotEmail)
	})

	t.Run("company name required on create", func(t *testing.T) {
		var created *models.Company
		_, err := NewCompanyService(missingThenCreated(&created), noopUserRepo()).SaveDetails(context.Background(), 4,
			CompanyProfileInput{Location: strPtr("Pune")})
		assertValidationError(t, err)
		assert.Nil(t, created)
	})

	t.Run("student account rejected", func(t *testing.T) {
		var created *models.Company
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleStudent}, nil
		}
		_, err := NewCompanyService(missingThenCreated(&created), users).SaveDetails(context.Background(), 4,
			CompanyProfileInput{CompanyName: strPtr("Acme")})
		assertValidationError(t, err)
	})

	t.Run("existing profile is updated without email", func(t *testing.T) {
		repo := existingCompanyRepo()
		called := false
		repo.updateProfileFn = func(_ context.Context, _ uint, _ *models.Company, columns []string, email *string) error {
			called = true
			assert.Equal(t, []string{"description"}, columns)
			assert.Nil(t, email)
			return nil
		}
		_, err := NewCompanyService(repo, noopUserRepo()).SaveDetails(context.Background(), 4,
			CompanyProfileInput{Description: strPtr("We build things")})
		require.NoError(t, err)
		assert.True(t, called)
	})
}
