package seed

import (
	"fmt"
	"os"
	"strings"
	"time"

	"tasklink/internal/models"
	"tasklink/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is the YAML document accepted by cmd/seed -fixtures.
//
//	recruiters:
//	  - name: Priya Shah
//	    email: priya@acme.test
//	    company: { companyName: Acme, location: Pune }
//	    jobs:
//	      - { title: Backend Intern, location: Remote, duration: 3 months, description: ..., skills: [Go, SQL] }
//	students:
//	  - { email: asha@example.com, first: Asha, last: Rao, college: COEP, skills: [Go] }
type Fixtures struct {
	Password   string             `yaml:"password"`
	Recruiters []RecruiterFixture `yaml:"recruiters"`
	Students   []StudentFixture   `yaml:"students"`
}

type RecruiterFixture struct {
	Name    string         `yaml:"name"`
	Email   string         `yaml:"email"`
	Company CompanyFixture `yaml:"company"`
	Jobs    []JobFixture   `yaml:"jobs"`
}

type CompanyFixture struct {
	CompanyName   string `yaml:"companyName"`
	CompanyType   string `yaml:"companyType"`
	ContactPerson string `yaml:"contactPerson"`
	ContactPhone  string `yaml:"contactPhone"`
	Description   string `yaml:"description"`
	Website       string `yaml:"website"`
	Location      string `yaml:"location"`
}

type JobFixture struct {
	Title       string   `yaml:"title"`
	Location    string   `yaml:"location"`
	Duration    string   `yaml:"duration"`
	Stipend     string   `yaml:"stipend"`
	Description string   `yaml:"description"`
	Skills      []string `yaml:"skills"`
	Status      string   `yaml:"status"`
}

type StudentFixture struct {
	Email   string   `yaml:"email"`
	First   string   `yaml:"first"`
	Last    string   `yaml:"last"`
	College string   `yaml:"college"`
	Branch  string   `yaml:"branch"`
	Skills  []string `yaml:"skills"`
}

// LoadFixtures reads and validates a fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(raw)
}

func ParseFixtures(raw []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i, r := range fx.Recruiters {
		if err := validation.ValidateEmail(validation.NormalizeEmail(r.Email)); err != nil {
			return nil, fmt.Errorf("recruiters[%d]: %w", i, err)
		}
		if strings.TrimSpace(r.Company.CompanyName) == "" {
			return nil, fmt.Errorf("recruiters[%d]: company.companyName is required", i)
		}
		for j, job := range r.Jobs {
			if job.Status != "" && !models.JobStatus(job.Status).Valid() {
				return nil, fmt.Errorf("recruiters[%d].jobs[%d]: invalid status %q", i, j, job.Status)
			}
		}
	}
	for i, s := range fx.Students {
		if err := validation.ValidateEmail(validation.NormalizeEmail(s.Email)); err != nil {
			return nil, fmt.Errorf("students[%d]: %w", i, err)
		}
	}
	return &fx, nil
}

// ApplyFixtures writes fx in one transaction.
func ApplyFixtures(db *gorm.DB, fx *Fixtures) (*Summary, error) {
	password := fx.Password
	if password == "" {
		password = DefaultPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash fixture password: %w", err)
	}

	sum := &Summary{}
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, r := range fx.Recruiters {
			name := strings.TrimSpace(r.Name)
			if name == "" {
				name = strings.TrimSpace(r.Company.CompanyName)
			}
			user := models.User{
				Name:     name,
				Email:    validation.NormalizeEmail(r.Email),
				Password: string(hashed),
				Role:     models.RoleCompany,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("recruiter %s: %w", user.Email, err)
			}
			c := r.Company
			if err := tx.Create(&models.Company{
				UserID:        user.ID,
				CompanyName:   strings.TrimSpace(c.CompanyName),
				CompanyType:   c.CompanyType,
				ContactPerson: c.ContactPerson,
				ContactPhone:  c.ContactPhone,
				Description:   c.Description,
				Website:       c.Website,
				Location:      c.Location,
			}).Error; err != nil {
				return err
			}
			sum.Recruiters++

			for _, j := range r.Jobs {
				status := models.JobStatus(j.Status)
				if status == "" {
					status = models.JobStatusOpen
				}
				job := models.Job{
					Title:       j.Title,
					Location:    j.Location,
					Duration:    j.Duration,
					Stipend:     j.Stipend,
					Description: j.Description,
					Skills:      validation.NormalizeSkills(j.Skills),
					Status:      status,
					RecruiterID: user.ID,
					PostedAt:    time.Now(),
				}
				if err := tx.Create(&job).Error; err != nil {
					return err
				}
				sum.Jobs++
			}
		}

		for _, s := range fx.Students {
			user := models.User{
				Name:     strings.TrimSpace(s.First + " " + s.Last),
				Email:    validation.NormalizeEmail(s.Email),
				Password: string(hashed),
				Role:     models.RoleStudent,
			}
			if user.Name == "" {
				user.Name = user.Email
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("student %s: %w", user.Email, err)
			}
			if err := tx.Create(&models.Student{
				UserID:  user.ID,
				Name:    models.StudentName{First: s.First, Last: s.Last},
				College: s.College,
				Branch:  s.Branch,
				Skills:  validation.UniqueSkills(s.Skills),
			}).Error; err != nil {
				return err
			}
			sum.Students++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}
