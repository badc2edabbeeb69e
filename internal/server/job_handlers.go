package server

import (
	"tasklink/internal/featureflags"
	"tasklink/internal/middleware"
	"tasklink/internal/models"
	"tasklink/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateJob handles POST /api/jobs
// @Summary Create a job posting
// @Description Skills may be a JSON array or a comma-separated string.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body service.CreateJobInput true "Job fields"
// @Success 201 {object} object{message=string,job=models.Job}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /jobs [post]
func (s *Server) CreateJob(c *fiber.Ctx) error {
	var in service.CreateJobInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	job, err := s.jobService.Create(c.UserContext(), middleware.UserIDFromLocals(c), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Job created",
		"job":     job,
	})
}

// ListMyJobs handles GET /api/jobs/mine
// @Summary List the recruiter's postings
// @Tags jobs
// @Produce json
// @Success 200 {object} object{jobs=[]models.Job}
// @Security BearerAuth
// @Router /jobs/mine [get]
func (s *Server) ListMyJobs(c *fiber.Ctx) error {
	jobs, err := s.jobService.ListMine(c.UserContext(), middleware.UserIDFromLocals(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

// UpdateJob handles PUT /api/jobs/:id. Only fields present in the body change.
func (s *Server) UpdateJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var in service.UpdateJobInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	job, err := s.jobService.Update(c.UserContext(), middleware.UserIDFromLocals(c), jobID, in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Job updated",
		"job":     job,
	})
}

// ToggleJobStatus handles PATCH /api/jobs/:id/status
func (s *Server) ToggleJobStatus(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	job, err := s.jobService.ToggleStatus(c.UserContext(), middleware.UserIDFromLocals(c), jobID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Status updated",
		"job":     job,
	})
}

// DeleteJob handles DELETE /api/jobs/:id
func (s *Server) DeleteJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.jobService.Delete(c.UserContext(), middleware.UserIDFromLocals(c), jobID); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Job deleted"})
}

// ListOpenJobs handles GET /api/jobs/open
// @Summary Public open job listing
// @Description Open jobs newest first, each with a recruiter summary.
// @Tags jobs
// @Produce json
// @Success 200 {array} models.Job
// @Failure 500 {object} models.ErrorResponse
// @Router /jobs/open [get]
func (s *Server) ListOpenJobs(c *fiber.Ctx) error {
	jobs, err := s.jobService.ListOpen(c.UserContext())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(jobs)
}

// ListAllJobs handles GET /api/jobs behind the legacy_jobs_listing flag.
func (s *Server) ListAllJobs(c *fiber.Ctx) error {
	if !s.featureFlags.EnabledForAll(featureflags.LegacyJobsListing) {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Route", c.Path()))
	}

	jobs, err := s.jobService.ListAll(c.UserContext())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(jobs)
}

// GetJob handles GET /api/jobs/:id
func (s *Server) GetJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	job, err := s.jobService.Get(c.UserContext(), jobID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(job)
}
