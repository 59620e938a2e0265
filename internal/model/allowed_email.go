package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// AllowedEmail is one allowlist entry. Email is stored lower-cased and is the
// authorization key: a valid token whose email has no active row here is
// rejected with 403.
type AllowedEmail struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Role      string    `gorm:"not null;default:'staff'"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AllowedEmail) TableName() string { return "allowed_emails" }
