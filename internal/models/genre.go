package models

// Genre represents a film genre (e.g., "Comedy", "Thriller").
type Genre struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;unique;not null"`
}

// Mpa represents an MPA age rating (e.g., "PG-13").
type Mpa struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:20;unique;not null"`
}
