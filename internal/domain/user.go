package domain

import (
	"context"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	DefaultAvatar = "default-avatar.jpg"
)

type User struct {
	ID                   string     `gorm:"primaryKey;size:36" json:"id"`
	Name                 string     `gorm:"size:64;not null" json:"name" validate:"required,max=50"`
	Email                string     `gorm:"uniqueIndex;size:191;not null" json:"email" validate:"required,email"`
	PasswordHash         string     `gorm:"size:100;not null" json:"-"`
	Role                 string     `gorm:"size:16;not null;index" json:"role" validate:"oneof=admin user"`
	Avatar               string     `gorm:"size:255" json:"avatar"`
	IsActive             bool       `gorm:"not null" json:"isActive"`
	LastLogin            *time.Time `json:"lastLogin,omitempty"`
	PasswordChangedAt    *time.Time `json:"-"`
	PasswordResetToken   string     `gorm:"size:128" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// SetPassword stores a new hash. On an existing account passwordChangedAt is
// stamped one second in the past so a token minted in the same second as the
// change keeps working.
func (u *User) SetPassword(hash string, now time.Time, isNew bool) {
	u.PasswordHash = hash
	if isNew {
		return
	}
	changed := now.Add(-time.Second)
	u.PasswordChangedAt = &changed
}

// ChangedPasswordAfter compares at second resolution, like the iat claim.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// UserRef is the public projection used when another entity points at a user.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Ref() UserRef { return UserRef{ID: u.ID, Name: u.Name, Email: u.Email} }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]User, error)
	Update(ctx context.Context, u *User) error
	UpdateColumns(ctx context.Context, id string, cols map[string]any) error
}
