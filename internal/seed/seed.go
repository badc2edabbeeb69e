package seed

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"tasklink/internal/models"
	"tasklink/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	Recruiters       int
	JobsPerRecruiter int
	Students         int
	ShouldClean      bool
	SeedOptions
}

// Summary counts what a run created.
type Summary struct {
	Recruiters int
	Students   int
	Jobs       int
}

// Seed populates the database with recruiters, their companies and jobs,
// and onboarded students.
func Seed(db *gorm.DB, opts Options) (*Summary, error) {
	log.Printf("🌱 Seeding %d recruiters (%d jobs each) and %d students...",
		opts.Recruiters, opts.JobsPerRecruiter, opts.Students)

	if opts.ShouldClean && !opts.DryRun {
		if err := ClearAll(db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	f := NewFactory(db, opts.SeedOptions)
	sum := &Summary{}

	for i := 0; i < opts.Recruiters; i++ {
		user, err := f.CreateUser(models.RoleCompany)
		if err != nil {
			return sum, fmt.Errorf("create recruiter: %w", err)
		}
		if _, err := f.CreateCompany(user); err != nil {
			return sum, fmt.Errorf("create company: %w", err)
		}
		sum.Recruiters++

		jobs := make([]*models.Job, 0, opts.JobsPerRecruiter)
		for j := 0; j < opts.JobsPerRecruiter; j++ {
			jobs = append(jobs, f.BuildJob(user))
		}
		if err := f.CreateJobsBatch(jobs); err != nil {
			return sum, fmt.Errorf("create jobs: %w", err)
		}
		sum.Jobs += len(jobs)
	}
	log.Printf("✓ %d recruiters, %d jobs", sum.Recruiters, sum.Jobs)

	for i := 0; i < opts.Students; i++ {
		user, err := f.CreateUser(models.RoleStudent)
		if err != nil {
			return sum, fmt.Errorf("create student user: %w", err)
		}
		if _, err := f.CreateStudent(user); err != nil {
			return sum, fmt.Errorf("create student: %w", err)
		}
		sum.Students++
	}
	log.Printf("✓ %d students", sum.Students)

	return sum, nil
}

// ClearAll removes every seeded table's rows.
func ClearAll(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE jobs, students, companies, users RESTART IDENTITY CASCADE;`).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"jobs", "students", "companies", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DemoRecruiter describes the development account created on startup.
type DemoRecruiter struct {
	Name        string
	Email       string
	Password    string
	CompanyName string
}

// EnsureDemoRecruiter creates the demo company account when it is missing.
// An existing account is left untouched.
func EnsureDemoRecruiter(db *gorm.DB, demo DemoRecruiter) (*models.User, error) {
	email := validation.NormalizeEmail(demo.Email)
	if email == "" || demo.Password == "" {
		return nil, errors.New("demo recruiter needs an email and password")
	}

	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("email = ?", email).First(&user).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(demo.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		name := strings.TrimSpace(demo.Name)
		if name == "" {
			name = "Demo Recruiter"
		}
		user = models.User{Name: name, Email: email, Password: string(hashed), Role: models.RoleCompany}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		companyName := strings.TrimSpace(demo.CompanyName)
		if companyName == "" {
			companyName = "TaskLink Demo Co"
		}
		return tx.Create(&models.Company{UserID: user.ID, CompanyName: companyName, ContactPerson: name}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
