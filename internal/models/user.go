// Package models contains the TaskLink domain records and error taxonomy.
package models

import "time"

// Role identifies which side of the marketplace an account belongs to.
type Role string

const (
	RoleNone    Role = ""
	RoleCompany Role = "company"
	RoleStudent Role = "student"
)

// Valid reports whether r is an assignable role.
func (r Role) Valid() bool {
	return r == RoleCompany || r == RoleStudent
}

// User is an authenticated account. Companies and students hang off it by UserID.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:varchar(16);not null;default:''" json:"role"`
	Company   *Company  `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
