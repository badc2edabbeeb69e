package service

import (
	"context"
	"errors"
	"testing"

	"tasklink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jobRepoStub is a stub for repository.JobRepository.
type jobRepoStub struct {
	createFn          func(context.Context, *models.Job) error
	getByIDFn         func(context.Context, uint) (*models.Job, error)
	getOwnedFn        func(context.Context, uint, uint) (*models.Job, error)
	listByRecruiterFn func(context.Context, uint) ([]models.Job, error)
	listByStatusFn    func(context.Context, models.JobStatus) ([]models.Job, error)
	listOpenFn        func(context.Context) ([]models.Job, error)
	updateOwnedFn     func(context.Context, uint, uint, *models.Job, []string) error
	deleteOwnedFn     func(context.Context, uint, uint) error
}

func (s *jobRepoStub) Create(ctx context.Context, job *models.Job) error {
	return s.createFn(ctx, job)
}
func (s *jobRepoStub) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	return s.getByIDFn(ctx, id)
}
func (s *jobRepoStub) GetOwned(ctx context.Context, id, recruiterID uint) (*models.Job, error) {
	return s.getOwnedFn(ctx, id, recruiterID)
}
func (s *jobRepoStub) ListByRecruiter(ctx context.Context, recruiterID uint) ([]models.Job, error) {
	return s.listByRecruiterFn(ctx, recruiterID)
}
func (s *jobRepoStub) ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	return s.listByStatusFn(ctx, status)
}
func (s *jobRepoStub) ListOpenWithRecruiter(ctx context.Context) ([]models.Job, error) {
	return s.listOpenFn(ctx)
}
func (s *jobRepoStub) UpdateOwned(ctx context.Context, id, recruiterID uint, patch *models.Job, columns []string) error {
	return s.updateOwnedFn(ctx, id, recruiterID, patch, columns)
}
func (s *jobRepoStub) DeleteOwned(ctx context.Context, id, recruiterID uint) error {
	return s.deleteOwnedFn(ctx, id, recruiterID)
}

func noopJobRepo() *jobRepoStub {
	return &jobRepoStub{
		createFn: func(_ context.Context, _ *models.Job) error {
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Job, error) {
			return &models.Job{ID: id}, nil
		},
		getOwnedFn: func(_ context.Context, id, rid uint) (*models.Job, error) {
			return &models.Job{ID: id, RecruiterID: rid}, nil
		},
		listByRecruiterFn: func(_ context.Context, _ uint) ([]models.Job, error) {
			return []models.Job{}, nil
		},
		listByStatusFn: func(_ context.Context, _ models.JobStatus) ([]models.Job, error) {
			return []models.Job{}, nil
		},
		listOpenFn: func(_ context.Context) ([]models.Job, error) {
			return []models.Job{}, nil
		},
		updateOwnedFn: func(_ context.Context, _, _ uint, _ *models.Job, _ []string) error {
			return nil
		},
		deleteOwnedFn: func(_ context.Context, _, _ uint) error {
			return nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	setRoleFn    func(context.Context, uint, models.Role) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) SetRole(ctx context.Context, id uint, role models.Role) error {
	return s.setRoleFn(ctx, id, role)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		setRoleFn:    func(_ context.Context, _ uint, _ models.Role) error { return nil },
	}
}

// companyRepoStub is a stub for repository.CompanyRepository.
type companyRepoStub struct {
	getByUserIDFn   func(context.Context, uint) (*models.Company, error)
	createFn        func(context.Context, *models.Company) error
	onboardFn       func(context.Context, *models.Company, *string) error
	updateProfileFn func(context.Context, uint, *models.Company, []string, *string) error
}

func (s *companyRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Company, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *companyRepoStub) Create(ctx context.Context, company *models.Company) error {
	return s.createFn(ctx, company)
}
func (s *companyRepoStub) Onboard(ctx context.Context, company *models.Company, email *string) error {
	return s.onboardFn(ctx, company, email)
}
func (s *companyRepoStub) UpdateProfile(ctx context.Context, userID uint, patch *models.Company, columns []string, email *string) error {
	return s.updateProfileFn(ctx, userID, patch, columns, email)
}

// studentRepoStub is a stub for repository.StudentRepository.
type studentRepoStub struct {
	getByUserIDFn   func(context.Context, uint) (*models.Student, error)
	createFn        func(context.Context, *models.Student) error
	updateProfileFn func(context.Context, uint, *models.Student, []string) error
}

func (s *studentRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *studentRepoStub) Create(ctx context.Context, student *models.Student) error {
	return s.createFn(ctx, student)
}
func (s *studentRepoStub) UpdateProfile(ctx context.Context, userID uint, patch *models.Student, columns []string) error {
	return s.updateProfileFn(ctx, userID, patch, columns)
}

// eventRecorder captures published job events.
type eventRecorder struct {
	events []models.JobEvent
	err    error
}

func (r *eventRecorder) PublishJobEvent(_ context.Context, event models.JobEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func strPtr(s string) *string { return &s }

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}
