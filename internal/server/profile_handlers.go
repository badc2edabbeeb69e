package server

import (
	"tasklink/internal/middleware"
	"tasklink/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCompanyProfile handles GET /api/profile/company
// @Summary Recruiter company profile
// @Tags profile
// @Produce json
// @Success 200 {object} object{company=models.Company,completeness=int}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profile/company [get]
func (s *Server) GetCompanyProfile(c *fiber.Ctx) error {
	company, err := s.companyService.GetProfile(c.UserContext(), middleware.UserIDFromLocals(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"company":      company,
		"completeness": company.Completeness(),
	})
}

// UpdateCompanyProfile handles PUT and POST /api/details/company.
// @Summary Update company profile
// @Description Email is required; other fields change only when present.
// @Tags profile
// @Accept json
// @Produce json
// @Param request body service.CompanyProfileInput true "Profile fields"
// @Success 200 {object} object{company=models.Company}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /details/company [put]
func (s *Server) UpdateCompanyProfile(c *fiber.Ctx) error {
	var in service.CompanyProfileInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	company, err := s.companyService.UpdateProfile(c.UserContext(), middleware.UserIDFromLocals(c), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"company": company})
}

// GetStudentProfile handles GET /api/profile/student
func (s *Server) GetStudentProfile(c *fiber.Ctx) error {
	student, err := s.studentService.GetProfile(c.UserContext(), middleware.UserIDFromLocals(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"student": student})
}

// UpdateStudentProfile handles PUT /api/profile/student
func (s *Server) UpdateStudentProfile(c *fiber.Ctx) error {
	var in service.StudentProfileInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	student, err := s.studentService.UpdateProfile(c.UserContext(), middleware.UserIDFromLocals(c), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"student": student})
}
