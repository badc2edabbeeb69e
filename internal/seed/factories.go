// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"tasklink/internal/models"
	"tasklink/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password given to every seeded account.
const DefaultPassword = "password123"

// SeedOptions tunes how the Factory writes records.
type SeedOptions struct {
	// DryRun assigns synthetic IDs and skips all DB writes.
	DryRun bool
	// SkipBcrypt stores a cheap hash instead of DefaultCost.
	SkipBcrypt bool
	// MaxDays spreads PostedAt over the last MaxDays days (default 30).
	MaxDays int
}

var skillPool = []string{
	"Go", "Python", "JavaScript", "React", "Node.js", "SQL", "PostgreSQL", "Redis",
	"Docker", "Kubernetes", "AWS", "Figma", "Excel", "Communication", "Java", "C++",
}

var durations = []string{"1 month", "2 months", "3 months", "6 months"}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
	hash string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // seeding only
		nextID: 1000,
	}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	f.hash = string(hashed)
	return f.hash, nil
}

func (f *Factory) create(value any, id *uint, label string) error {
	if f.opts.DryRun {
		f.nextID++
		*id = f.nextID
		log.Printf("[dry-run] %s: id=%d", label, *id)
		return nil
	}
	return f.db.Create(value).Error
}

// CreateUser constructs and persists a sample account with the given role.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(role models.Role, overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	user := &models.User{
		Name:     first + " " + last,
		Email:    validation.NormalizeEmail(fmt.Sprintf("%s.%s%d@example.com", first, last, gofakeit.Number(100, 9999))),
		Password: hashed,
		Role:     role,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.create(user, &user.ID, "CreateUser"); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCompany attaches a generated company profile to user.
func (f *Factory) CreateCompany(user *models.User, overrides ...func(*models.Company)) (*models.Company, error) {
	name := gofakeit.Company()
	company := &models.Company{
		UserID:        user.ID,
		CompanyName:   name,
		CompanyType:   gofakeit.RandomString([]string{"Startup", "Enterprise", "Agency", "Non-profit"}),
		ContactPerson: user.Name,
		ContactPhone:  gofakeit.Phone(),
		Description:   gofakeit.Paragraph(1, 3, 12, " "),
		Website:       "https://" + strings.ToLower(strings.ReplaceAll(gofakeit.Word(), " ", "")) + ".example.com",
		Location:      gofakeit.City() + ", " + gofakeit.Country(),
	}
	for _, override := range overrides {
		override(company)
	}
	if err := f.create(company, &company.ID, "CreateCompany"); err != nil {
		return nil, err
	}
	return company, nil
}

// CreateStudent attaches a generated student profile to user.
func (f *Factory) CreateStudent(user *models.User, overrides ...func(*models.Student)) (*models.Student, error) {
	first, last, _ := strings.Cut(user.Name, " ")
	student := &models.Student{
		UserID:   user.ID,
		Name:     models.StudentName{First: first, Last: last},
		Contact:  models.StudentContact{Phone: gofakeit.Phone(), Address: gofakeit.Street()},
		College:  gofakeit.City() + " Institute of Technology",
		Branch:   gofakeit.RandomString([]string{"Computer Science", "Electronics", "Mechanical", "Design"}),
		Semester: fmt.Sprintf("%d", gofakeit.Number(1, 8)),
		Skills:   f.pickSkills(3),
	}
	for _, override := range overrides {
		override(student)
	}
	if err := f.create(student, &student.ID, "CreateStudent"); err != nil {
		return nil, err
	}
	return student, nil
}

// BuildJob constructs a job for recruiter without persisting it.
func (f *Factory) BuildJob(recruiter *models.User, overrides ...func(*models.Job)) *models.Job {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	posted := time.Now().Add(-time.Duration(f.rng.Intn(maxDays*24)) * time.Hour)

	status := models.JobStatusOpen
	switch n := f.rng.Intn(10); {
	case n == 0:
		status = models.JobStatusClosed
	case n == 1:
		status = models.JobStatusReviewing
	}

	job := &models.Job{
		Title:           gofakeit.JobDescriptor() + " " + gofakeit.JobTitle() + " Intern",
		Location:        gofakeit.RandomString([]string{"Remote", gofakeit.City()}),
		Duration:        durations[f.rng.Intn(len(durations))],
		Stipend:         fmt.Sprintf("%d", gofakeit.Number(5, 40)*1000),
		Description:     gofakeit.Paragraph(2, 3, 14, "\n\n"),
		Skills:          f.pickSkills(4),
		Status:          status,
		ApplicantsCount: f.rng.Intn(60),
		RecruiterID:     recruiter.ID,
		PostedAt:        posted,
	}
	job.CreatedAt = posted
	for _, override := range overrides {
		override(job)
	}
	return job
}

// CreateJob builds and persists a job for recruiter.
func (f *Factory) CreateJob(recruiter *models.User, overrides ...func(*models.Job)) (*models.Job, error) {
	job := f.BuildJob(recruiter, overrides...)
	if err := f.create(job, &job.ID, "CreateJob"); err != nil {
		return nil, err
	}
	return job, nil
}

// CreateJobsBatch persists multiple jobs in a single DB call when possible.
func (f *Factory) CreateJobsBatch(jobs []*models.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, j := range jobs {
			f.nextID++
			j.ID = f.nextID
		}
		log.Printf("[dry-run] CreateJobsBatch: %d jobs (no DB write)", len(jobs))
		return nil
	}
	return f.db.Create(&jobs).Error
}

func (f *Factory) pickSkills(n int) []string {
	idx := f.rng.Perm(len(skillPool))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, skillPool[i])
	}
	return out
}
