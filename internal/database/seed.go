package database

import (
	"errors"
	"fmt"

	"filmsocial/backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultGenres and DefaultMpa are the lookup rows every database starts with.
var (
	DefaultGenres = []string{"Comedy", "Drama", "Cartoon", "Thriller", "Documentary", "Action"}
	DefaultMpa    = []string{"G", "PG", "PG-13", "R", "NC-17"}
)

// Seed inserts the genre and MPA lookups. It is idempotent.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i, name := range DefaultGenres {
			genre := models.Genre{ID: uint(i + 1), Name: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&genre).Error; err != nil {
				return fmt.Errorf("seed genre %s: %w", name, err)
			}
		}
		for i, name := range DefaultMpa {
			mpa := models.Mpa{ID: uint(i + 1), Name: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mpa).Error; err != nil {
				return fmt.Errorf("seed mpa %s: %w", name, err)
			}
		}
		return nil
	})
}

// AdminAccount describes the bootstrap administrator.
type AdminAccount struct {
	Login    string
	Password string
	Email    string
}

// EnsureAdmin creates the bootstrap administrator when no user holds its login.
// An empty login or password disables the bootstrap.
func EnsureAdmin(db *gorm.DB, admin AdminAccount, log *zap.Logger) error {
	if admin.Login == "" || admin.Password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("login = ?", admin.Login).Take(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	email := admin.Email
	if email == "" {
		email = admin.Login + "@localhost"
	}

	user := models.User{
		Login:        admin.Login,
		Name:         admin.Login,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Enabled:      true,
	}
	if err := db.Omit(clause.Associations).Create(&user).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("bootstrap administrator created", zap.String("login", admin.Login), zap.Uint("id", user.ID))
	return nil
}
