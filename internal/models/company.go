package models

import (
	"math"
	"strings"
	"time"
)

// Company is the recruiter profile owned by exactly one User.
type Company struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"uniqueIndex;not null" json:"userId"`
	User          *User  `gorm:"foreignKey:UserID" json:"-"`
	CompanyName   string `gorm:"size:200" json:"companyName"`
	CompanyType   string `gorm:"size:100" json:"companyType"`
	ContactPerson string `gorm:"size:120" json:"contactPerson"`
	ContactPhone  string `gorm:"size:40" json:"contactPhone"`
	Description   string `gorm:"type:text" json:"description"`
	Website       string `gorm:"size:255" json:"website"`
	Location      string `gorm:"size:200" json:"location"`
	LogoPath      string `gorm:"size:255" json:"logoPath"`
	DocPath       string `gorm:"size:255" json:"docPath"`
	// Email is the owning account's email, joined on read.
	Email     string    `gorm:"-" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// profileCompletenessFields is the number of fields Completeness counts.
const profileCompletenessFields = 9

// Completeness returns the rounded percentage of filled profile fields.
// Whitespace-only values count as empty.
func (c *Company) Completeness() int {
	if c == nil {
		return 0
	}
	fields := []string{
		c.CompanyName,
		c.Website,
		c.CompanyType,
		c.Location,
		c.ContactPerson,
		c.ContactPhone,
		c.Description,
		c.LogoPath,
		c.DocPath,
	}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / profileCompletenessFields * 100))
}

// AttachEmail copies the owning user's email into the profile.
func (c *Company) AttachEmail() {
	if c != nil && c.User != nil {
		c.Email = c.User.Email
	}
}
