package seed

import (
	"os"
	"path/filepath"
	"testing"

	"tasklink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixtures = `
password: fixture-pass-1
recruiters:
  - name: Priya Shah
    email: Priya@Acme.test
    company:
      companyName: Acme
      location: Pune
    jobs:
      - title: Backend Intern
        location: Remote
        duration: 3 months
        description: Build APIs
        skills: [" Go", "SQL", ""]
      - title: Design Intern
        location: Pune
        duration: 2 months
        description: Draw things
        status: Closed
students:
  - email: asha@example.com
    first: Asha
    last: Rao
    skills: [Go, go, React]
`

func TestLoadAndApplyFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFixtures), 0o600))

	fx, err := LoadFixtures(path)
	require.NoError(t, err)
	require.Len(t, fx.Recruiters, 1)
	assert.Len(t, fx.Recruiters[0].Jobs, 2)

	db := setupTestDB(t)
	sum, err := ApplyFixtures(db, fx)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Recruiters: 1, Students: 1, Jobs: 2}, sum)

	var user models.User
	require.NoError(t, db.Where("email = ?", "priya@acme.test").First(&user).Error)
	assert.Equal(t, models.RoleCompany, user.Role)

	var jobs []models.Job
	require.NoError(t, db.Order("id").Find(&jobs).Error)
	require.Len(t, jobs, 2)
	assert.Equal(t, []string{"Go", "SQL"}, jobs[0].Skills)
	assert.Equal(t, models.JobStatusOpen, jobs[0].Status)
	assert.Equal(t, models.JobStatusClosed, jobs[1].Status)

	var student models.Student
	require.NoError(t, db.First(&student).Error)
	assert.Equal(t, []string{"Go", "React"}, student.Skills)
}

func TestParseFixtures_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "recruiters: [",
		"bad email":     "recruiters:\n  - email: nope\n    company: {companyName: X}\n",
		"no company":    "recruiters:\n  - email: a@b.co\n",
		"bad status":    "recruiters:\n  - email: a@b.co\n    company: {companyName: X}\n    jobs:\n      - {title: T, status: open}\n",
		"student email": "students:\n  - email: ''\n",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFixtures([]byte(raw))
			assert.Error(t, err)
		})
	}
}
