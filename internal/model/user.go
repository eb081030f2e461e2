package model

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account that can sign in. Admins manage the catalog.
//
// ResetTokenHash and ResetTokenExpiresAt form the single password-reset ticket
// of the user: both set while a ticket is outstanding, both NULL otherwise.
// Only the SHA-256 digest of the raw token is ever stored.
type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	Name                string     `json:"name" gorm:"size:255;not null"`
	Email               string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash        string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role                string     `json:"role" gorm:"size:50;not null;default:'user'"`
	IsActive            bool       `json:"is_active" gorm:"not null;index"`
	ResetTokenHash      *string    `json:"-" gorm:"type:char(64);index"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
