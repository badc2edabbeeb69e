package server

import (
	"time"

	"tasklink/internal/cache"
	"tasklink/internal/middleware"
	"tasklink/internal/models"
	"tasklink/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup
// @Summary User signup
// @Description Register a new account. The role is chosen later during onboarding.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SignupInput true "Signup request"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var in service.SignupInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	res, err := s.authService.Signup(c.UserContext(), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var in service.LoginInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	res, err := s.authService.Login(c.UserContext(), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(res)
}

// Logout handles POST /api/auth/logout by blacklisting the token id until
// the token expires.
func (s *Server) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals("jti").(string)
	exp, _ := c.Locals("tokenExp").(time.Time)

	if err := cache.RevokeToken(c.UserContext(), jti, time.Until(exp)); err != nil {
		return mapServiceError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me handles GET /api/auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.authService.Me(c.UserContext(), middleware.UserIDFromLocals(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// SetRole handles POST /api/auth/role
// @Summary Choose account role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{role=string} true "student or company"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /auth/role [post]
func (s *Server) SetRole(c *fiber.Ctx) error {
	var req struct {
		Role string `json:"role"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.authService.SetRole(c.UserContext(), middleware.UserIDFromLocals(c), models.Role(req.Role))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(res)
}

// SaveCompanyDetails handles POST /api/auth/details/company (onboarding).
func (s *Server) SaveCompanyDetails(c *fiber.Ctx) error {
	var in service.CompanyProfileInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	company, err := s.companyService.SaveDetails(c.UserContext(), middleware.UserIDFromLocals(c), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"company": company})
}

// SaveStudentDetails handles POST /api/auth/details/student (onboarding).
func (s *Server) SaveStudentDetails(c *fiber.Ctx) error {
	var in service.StudentProfileInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	student, err := s.studentService.SaveDetails(c.UserContext(), middleware.UserIDFromLocals(c), in)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"student": student})
}
