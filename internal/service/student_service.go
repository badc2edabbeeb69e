package service

import (
	"context"
	"strings"

	"tasklink/internal/models"
	"tasklink/internal/observability"
	"tasklink/internal/repository"
	"tasklink/internal/validation"
)

type StudentService struct {
	studentRepo repository.StudentRepository
	userRepo    repository.UserRepository
}

type StudentNameInput struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
}

type StudentContactInput struct {
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// StudentProfileInput is a partial student profile. Nested blocks are
// applied field by field.
type StudentProfileInput struct {
	Name       *StudentNameInput    `json:"name"`
	Contact    *StudentContactInput `json:"contact"`
	College    *string              `json:"college"`
	Branch     *string              `json:"branch"`
	Semester   *string              `json:"semester"`
	Skills     *SkillsInput         `json:"skills"`
	ResumePath *string              `json:"resumePath"`
}

func NewStudentService(studentRepo repository.StudentRepository, userRepo repository.UserRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo, userRepo: userRepo}
}

func (s *StudentService) GetProfile(ctx context.Context, userID uint) (*models.Student, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}
	return s.studentRepo.GetByUserID(ctx, userID)
}

func (s *StudentService) UpdateProfile(ctx context.Context, userID uint, in StudentProfileInput) (*models.Student, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}
	if _, err := s.studentRepo.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}
	return s.applyProfile(ctx, userID, in)
}

// SaveDetails creates the profile and assigns the student role on first
// call; later calls are partial updates.
func (s *StudentService) SaveDetails(ctx context.Context, userID uint, in StudentProfileInput) (*models.Student, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Unauthorized")
	}

	_, err := s.studentRepo.GetByUserID(ctx, userID)
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
	if user.Role == models.RoleCompany {
		return nil, models.NewValidationError("Account is registered as a company")
	}
	if in.Name == nil || in.Name.First == nil || strings.TrimSpace(*in.Name.First) == "" {
		return nil, models.NewValidationError("First name is required")
	}

	student := &models.Student{UserID: userID, Skills: []string{}}
	applyStudentFields(student, in)
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		if err := s.userRepo.SetRole(ctx, userID, models.RoleStudent); err != nil {
			return nil, err
		}
	}

	observability.ProfileUpdates.WithLabelValues("student", "create").Inc()
	return s.studentRepo.GetByUserID(ctx, userID)
}

func (s *StudentService) applyProfile(ctx context.Context, userID uint, in StudentProfileInput) (*models.Student, error) {
	patch := &models.Student{}
	columns := applyStudentFields(patch, in)
	if len(columns) > 0 {
		if err := s.studentRepo.UpdateProfile(ctx, userID, patch, columns); err != nil {
			return nil, err
		}
		observability.ProfileUpdates.WithLabelValues("student", "update").Inc()
	}
	return s.studentRepo.GetByUserID(ctx, userID)
}

// applyStudentFields copies provided fields into dst and returns their columns.
func applyStudentFields(dst *models.Student, in StudentProfileInput) []string {
	var columns []string
	set := func(src *string, field *string, column string) {
		if src == nil {
			return
		}
		*field = *src
		columns = append(columns, column)
	}
	if in.Name != nil {
		set(in.Name.First, &dst.Name.First, "name_first")
		set(in.Name.Last, &dst.Name.Last, "name_last")
	}
	if in.Contact != nil {
		set(in.Contact.Phone, &dst.Contact.Phone, "contact_phone")
		set(in.Contact.Address, &dst.Contact.Address, "contact_address")
	}
	set(in.College, &dst.College, "college")
	set(in.Branch, &dst.Branch, "branch")
	set(in.Semester, &dst.Semester, "semester")
	set(in.ResumePath, &dst.ResumePath, "resume_path")
	if in.Skills != nil {
		dst.Skills = validation.UniqueSkills(in.Skills.Values)
		columns = append(columns, "skills")
	}
	return columns
}
