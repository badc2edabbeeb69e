package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tasklink/internal/models"
	"tasklink/internal/observability"
	"tasklink/internal/repository"
)

// JobEventPublisher receives job lifecycle events after each successful write.
type JobEventPublisher interface {
	PublishJobEvent(ctx context.Context, event models.JobEvent) error
}

type JobService struct {
	jobRepo repository.JobRepository
	events  JobEventPublisher
}

type CreateJobInput struct {
	Title       string       `json:"title"`
	Location    string       `json:"location"`
	Duration    string       `json:"duration"`
	Stipend     string       `json:"stipend"`
	Description string       `json:"description"`
	Skills      *SkillsInput `json:"skills"`
}

// UpdateJobInput carries a partial update. A nil field was not sent.
type UpdateJobInput struct {
	Title       *string      `json:"title"`
	Location    *string      `json:"location"`
	Duration    *string      `json:"duration"`
	Stipend     *string      `json:"stipend"`
	Description *string      `json:"description"`
	Skills      *SkillsInput `json:"skills"`
	Status      *string      `json:"status"`
}

// NewJobService builds a JobService. events may be nil.
func NewJobService(jobRepo repository.JobRepository, events JobEventPublisher) *JobService {
	return &JobService{jobRepo: jobRepo, events: events}
}

func (s *JobService) Create(ctx context.Context, recruiterID uint, in CreateJobInput) (*models.Job, error) {
	if recruiterID == 0 {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}

	title := strings.TrimSpace(in.Title)
	location := strings.TrimSpace(in.Location)
	duration := strings.TrimSpace(in.Duration)
	description := strings.TrimSpace(in.Description)
	if title == "" || location == "" || duration == "" || description == "" {
		return nil, models.NewValidationError("Missing required fields")
	}

	job := &models.Job{
		Title:       title,
		Location:    location,
		Duration:    duration,
		Stipend:     strings.TrimSpace(in.Stipend),
		Description: description,
		Skills:      skillsOrEmpty(in.Skills),
		Status:      models.JobStatusOpen,
		RecruiterID: recruiterID,
		PostedAt:    time.Now(),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	observability.JobsCreated.Inc()
	s.publish(ctx, models.JobEventCreated, job)
	return job, nil
}

// ListMine returns the recruiter's postings, newest first.
func (s *JobService) ListMine(ctx context.Context, recruiterID uint) ([]models.Job, error) {
	return s.jobRepo.ListByRecruiter(ctx, recruiterID)
}

func (s *JobService) Update(ctx context.Context, recruiterID, jobID uint, in UpdateJobInput) (*models.Job, error) {
	current, err := s.jobRepo.GetOwned(ctx, jobID, recruiterID)
	if err != nil {
		return nil, err
	}

	patch := &models.Job{}
	var columns []string
	if in.Title != nil {
		patch.Title = *in.Title
		columns = append(columns, "title")
	}
	if in.Location != nil {
		patch.Location = *in.Location
		columns = append(columns, "location")
	}
	if in.Duration != nil {
		patch.Duration = *in.Duration
		columns = append(columns, "duration")
	}
	if in.Stipend != nil {
		patch.Stipend = *in.Stipend
		columns = append(columns, "stipend")
	}
	if in.Description != nil {
		patch.Description = *in.Description
		columns = append(columns, "description")
	}
	if in.Skills != nil {
		patch.Skills = skillsOrEmpty(in.Skills)
		columns = append(columns, "skills")
	}
	if in.Status != nil {
		status := models.JobStatus(*in.Status)
		if !status.Valid() {
			return nil, models.NewValidationError("Invalid status")
		}
		patch.Status = status
		columns = append(columns, "status")
	}

	if len(columns) == 0 {
		return current, nil
	}
	if err := s.jobRepo.UpdateOwned(ctx, jobID, recruiterID, patch, columns); err != nil {
		return nil, err
	}

	updated, err := s.jobRepo.GetOwned(ctx, jobID, recruiterID)
	if err != nil {
		return nil, err
	}
	if updated.Status != current.Status {
		observability.JobStatusChanges.WithLabelValues(string(updated.Status)).Inc()
	}
	s.publish(ctx, models.JobEventUpdated, updated)
	return updated, nil
}

// ToggleStatus closes an Open job and reopens any other.
func (s *JobService) ToggleStatus(ctx context.Context, recruiterID, jobID uint) (*models.Job, error) {
	job, err := s.jobRepo.GetOwned(ctx, jobID, recruiterID)
	if err != nil {
		return nil, err
	}

	patch := &models.Job{Status: job.Status.Toggled()}
	if err := s.jobRepo.UpdateOwned(ctx, jobID, recruiterID, patch, []string{"status"}); err != nil {
		return nil, err
	}
	job.Status = patch.Status
	job.UpdatedAt = patch.UpdatedAt

	observability.JobStatusChanges.WithLabelValues(string(job.Status)).Inc()
	s.publish(ctx, models.JobEventStatusChanged, job)
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, recruiterID, jobID uint) error {
	job, err := s.jobRepo.GetOwned(ctx, jobID, recruiterID)
	if err != nil {
		return err
	}
	if err := s.jobRepo.DeleteOwned(ctx, jobID, recruiterID); err != nil {
		return err
	}

	observability.JobsDeleted.Inc()
	s.publish(ctx, models.JobEventDeleted, job)
	return nil
}

// ListOpen is the public listing with the recruiter projection attached.
func (s *JobService) ListOpen(ctx context.Context) ([]models.Job, error) {
	return s.jobRepo.ListOpenWithRecruiter(ctx)
}

// ListAll is the legacy listing. It returns Open jobs without the recruiter
// projection.
func (s *JobService) ListAll(ctx context.Context) ([]models.Job, error) {
	return s.jobRepo.ListByStatus(ctx, models.JobStatusOpen)
}

func (s *JobService) Get(ctx context.Context, jobID uint) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, jobID)
}

func (s *JobService) publish(ctx context.Context, eventType string, job *models.Job) {
	if s.events == nil {
		return
	}
	event := models.JobEvent{
		Type:        eventType,
		JobID:       job.ID,
		RecruiterID: job.RecruiterID,
		Title:       job.Title,
		Status:      job.Status,
		At:          time.Now().UTC(),
	}
	if err := s.events.PublishJobEvent(ctx, event); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "failed to publish job event",
			slog.String("type", eventType),
			slog.Uint64("job_id", uint64(job.ID)),
			slog.String("error", err.Error()),
		)
	}
}
