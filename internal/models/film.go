package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Film represents a catalog entry. Rating is the aggregate of all reviews and
// is only ever written by the rating aggregator; it is NULL while the film has no reviews.
type Film struct {
	ID          uint                `gorm:"primaryKey"`
	Name        string              `gorm:"size:255;not null"`
	Description string              `gorm:"size:200"`
	ReleaseDate *time.Time          `gorm:"type:date"`
	Duration    int                 `gorm:"not null;default:0"`
	Rating      decimal.NullDecimal `gorm:"type:decimal(3,1)"`
	MpaID       *uint               `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Mpa     *Mpa     `gorm:"foreignKey:MpaID"`
	Genres  []*Genre `gorm:"many2many:film_genres;constraint:OnDelete:CASCADE;"`
	LikedBy []*User  `gorm:"many2many:user_likes;constraint:OnDelete:CASCADE;"`
}

// UserLike is a row of the user_likes join table.
type UserLike struct {
	UserID uint `gorm:"primaryKey"`
	FilmID uint `gorm:"primaryKey"`
}

func (UserLike) TableName() string { return "user_likes" }
