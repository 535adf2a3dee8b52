package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID           uint       `gorm:"primaryKey"`
	Login        string     `gorm:"size:255;unique;not null"`
	Name         string     `gorm:"size:255;not null"`
	Email        string     `gorm:"size:255;unique;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	Role         string     `gorm:"size:50;not null;default:'user';index"`
	Enabled      bool       `gorm:"not null;default:true"`
	Birthday     *time.Time `gorm:"type:date"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	LikedFilms []*Film `gorm:"many2many:user_likes;constraint:OnDelete:CASCADE;"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the short public projection used by relationship listings.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
}
