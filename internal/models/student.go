package models

import (
	"time"

	"gorm.io/gorm"
)

// StudentName is the structured name stored inline on Student.
type StudentName struct {
	First string `gorm:"size:80" json:"first"`
	Last  string `gorm:"size:80" json:"last"`
}

// StudentContact is the contact block stored inline on Student.
type StudentContact struct {
	Phone   string `gorm:"size:40" json:"phone"`
	Address string `gorm:"size:255" json:"address"`
}

// Student is the job-seeker profile owned by exactly one User.
type Student struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"uniqueIndex;not null" json:"userId"`
	User       *User          `gorm:"foreignKey:UserID" json:"-"`
	Name       StudentName    `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Contact    StudentContact `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`
	College    string         `gorm:"size:200" json:"college"`
	Branch     string         `gorm:"size:120" json:"branch"`
	Semester   string         `gorm:"size:20" json:"semester"`
	Skills     []string       `gorm:"serializer:json;type:text" json:"skills"`
	ResumePath string         `gorm:"size:255" json:"resumePath"`
	Email      string         `gorm:"-" json:"email"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// AttachEmail copies the owning user's email into the profile.
func (s *Student) AttachEmail() {
	if s != nil && s.User != nil {
		s.Email = s.User.Email
	}
}

// BeforeSave keeps skills serialized as an array rather than null.
func (s *Student) BeforeSave(tx *gorm.DB) error {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	return nil
}
