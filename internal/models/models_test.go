package models

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusToggled(t *testing.T) {
	tests := []struct {
		from JobStatus
		want JobStatus
	}{
		{JobStatusOpen, JobStatusClosed},
		{JobStatusClosed, JobStatusOpen},
		{JobStatusReviewing, JobStatusOpen},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.Toggled(), "toggle from %s", tt.from)
	}

	assert.Equal(t, JobStatusOpen, JobStatusOpen.Toggled().Toggled())
}

func TestJobStatusValid(t *testing.T) {
	assert.True(t, JobStatusReviewing.Valid())
	assert.False(t, JobStatus("open").Valid())
	assert.False(t, JobStatus("").Valid())
}

func TestCompanyCompleteness(t *testing.T) {
	assert.Equal(t, 0, (&Company{}).Completeness())
	assert.Equal(t, 0, (*Company)(nil).Completeness())

	full := &Company{
		CompanyName:   "Acme",
		Website:       "https://acme.test",
		CompanyType:   "Startup",
		Location:      "Pune",
		ContactPerson: "R. Rao",
		ContactPhone:  "+91 1234",
		Description:   "We build things",
		LogoPath:      "/logo.png",
		DocPath:       "/doc.pdf",
	}
	assert.Equal(t, 100, full.Completeness())

	partial := &Company{CompanyName: "Acme", Website: "   ", Location: "Pune"}
	assert.Equal(t, 22, partial.Completeness())
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		err     error
		message string
	}{
		{"validation", http.StatusBadRequest, NewValidationError("Missing required fields"), "Missing required fields"},
		{"not found", http.StatusNotFound, NewNotFoundError("Job", 7), "Job not found"},
		{"internal hides cause", http.StatusInternalServerError, NewInternalError(errors.New("dial tcp: refused")), ServerErrorMessage},
		{"plain 500", http.StatusInternalServerError, errors.New("boom"), ServerErrorMessage},
		{"plain 400", http.StatusBadRequest, errors.New("Invalid request body"), "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return RespondWithError(c, tt.status, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			assert.JSONEq(t, `{"message":"`+tt.message+`"}`, string(body))
		})
	}
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusForCode(CodeValidation))
	assert.Equal(t, http.StatusForbidden, StatusForCode(CodeForbidden))
	assert.Equal(t, http.StatusConflict, StatusForCode(CodeConflict))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode("SOMETHING"))
}
