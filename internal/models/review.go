package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review is a single user's rating of a film. A user reviews a film at most once.
type Review struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_review_user_film"`
	FilmID    uint            `gorm:"not null;uniqueIndex:idx_review_user_film;index"`
	Text      string          `gorm:"size:1000"`
	Rating    decimal.Decimal `gorm:"type:decimal(3,1);not null"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Film Film `gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE;"`
}
