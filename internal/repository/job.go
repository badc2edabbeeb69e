package repository

import (
	"context"
	"errors"
	"time"

	"tasklink/internal/cache"
	"tasklink/internal/models"
	"tasklink/internal/observability"

	"gorm.io/gorm"
)

// ownedJobPredicate scopes every job write to its recruiter.
const ownedJobPredicate = "id = ? AND recruiter_id = ?"

// JobRepository defines persistence operations for job postings.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	GetOwned(ctx context.Context, id, recruiterID uint) (*models.Job, error)
	ListByRecruiter(ctx context.Context, recruiterID uint) ([]models.Job, error)
	ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error)
	ListOpenWithRecruiter(ctx context.Context) ([]models.Job, error)
	UpdateOwned(ctx context.Context, id, recruiterID uint, patch *models.Job, columns []string) error
	DeleteOwned(ctx context.Context, id, recruiterID uint) error
}

type jobRepository struct {
	db      *gorm.DB
	openTTL time.Duration
	log     *observability.RepoLogger
}

// NewJobRepository returns a JobRepository. openTTL bounds how long the
// public open listing may be served from Redis; zero uses the default.
func NewJobRepository(db *gorm.DB, openTTL time.Duration) JobRepository {
	if openTTL <= 0 {
		openTTL = cache.DefaultOpenJobsTTL
	}
	return &jobRepository{db: db, openTTL: openTTL, log: observability.NewRepoLogger("jobs")}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	ctx, span := observability.StartRepositorySpan(ctx, "jobs", "create")
	defer span.End()
	defer observability.TrackQuery("insert", "jobs")()

	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		observability.FailSpan(span, err)
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	cache.InvalidateOpenJobs(ctx)
	r.log.LogCreate(ctx, map[string]interface{}{"job_id": job.ID, "recruiter_id": job.RecruiterID})
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := readDB(r.db).WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, notFoundOrInternal(err, "Job", id)
	}
	return &job, nil
}

func (r *jobRepository) GetOwned(ctx context.Context, id, recruiterID uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Where(ownedJobPredicate, id, recruiterID).First(&job).Error; err != nil {
		return nil, notFoundOrInternal(err, "Job", id)
	}
	return &job, nil
}

func (r *jobRepository) ListByRecruiter(ctx context.Context, recruiterID uint) ([]models.Job, error) {
	defer observability.TrackQuery("select", "jobs")()

	jobs := []models.Job{}
	if err := readDB(r.db).WithContext(ctx).
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").Order("id DESC").
		Find(&jobs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return jobs, nil
}

func (r *jobRepository) ListByStatus(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	jobs := []models.Job{}
	if err := readDB(r.db).WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").Order("id DESC").
		Find(&jobs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return jobs, nil
}

// ListOpenWithRecruiter returns Open jobs newest first with the recruiter
// projection attached, through the Redis cache when available.
func (r *jobRepository) ListOpenWithRecruiter(ctx context.Context) ([]models.Job, error) {
	ctx, span := observability.StartRepositorySpan(ctx, "jobs", "list_open")
	defer span.End()

	jobs := []models.Job{}
	hit, err := cache.Aside(ctx, cache.OpenJobsKey, &jobs, r.openTTL, func() error {
		defer observability.TrackQuery("select", "jobs")()

		if err := readDB(r.db).WithContext(ctx).
			Preload("Recruiter", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name")
			}).
			Preload("Recruiter.Company", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "user_id", "company_name")
			}).
			Where("status = ?", models.JobStatusOpen).
			Order("created_at DESC").Order("id DESC").
			Find(&jobs).Error; err != nil {
			return models.NewInternalError(err)
		}
		for i := range jobs {
			jobs[i].RecruiterInfo = recruiterSummary(&jobs[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if hit {
		observability.OpenJobsCacheResults.WithLabelValues("hit").Inc()
	} else {
		observability.OpenJobsCacheResults.WithLabelValues("miss").Inc()
	}
	return jobs, nil
}

func recruiterSummary(job *models.Job) *models.RecruiterSummary {
	summary := &models.RecruiterSummary{ID: job.RecruiterID}
	if job.Recruiter != nil {
		summary.Name = job.Recruiter.Name
		if job.Recruiter.Company != nil {
			summary.Company = job.Recruiter.Company.CompanyName
		}
	}
	return summary
}

// UpdateOwned writes the selected columns of patch to the job matching
// (id, recruiterID). Zero values in selected columns are written.
func (r *jobRepository) UpdateOwned(ctx context.Context, id, recruiterID uint, patch *models.Job, columns []string) error {
	ctx, span := observability.StartRepositorySpan(ctx, "jobs", "update")
	defer span.End()
	defer observability.TrackQuery("update", "jobs")()

	selected := make([]string, 0, len(columns)+1)
	selected = append(selected, columns...)
	selected = append(selected, "updated_at")

	patch.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where(ownedJobPredicate, id, recruiterID).
		Select(selected).
		Updates(patch)
	if result.Error != nil {
		observability.FailSpan(span, result.Error)
		r.log.LogError(ctx, result.Error, "update")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Job", id)
	}

	cache.InvalidateOpenJobs(ctx)
	r.log.LogUpdate(ctx, map[string]interface{}{"job_id": id, "columns": columns})
	return nil
}

func (r *jobRepository) DeleteOwned(ctx context.Context, id, recruiterID uint) error {
	defer observability.TrackQuery("delete", "jobs")()

	result := r.db.WithContext(ctx).Where(ownedJobPredicate, id, recruiterID).Delete(&models.Job{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Job", id)
	}

	cache.InvalidateOpenJobs(ctx)
	r.log.LogDelete(ctx, map[string]interface{}{"job_id": id, "recruiter_id": recruiterID})
	return nil
}

func notFoundOrInternal(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
