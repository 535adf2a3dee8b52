package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"filmsocial/backend/internal/database"
	"filmsocial/backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// SetupTestDB creates a private in-memory sqlite database, migrates and seeds it.
// It requires no external services and is safe to use in parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "SetupTestDB: Open")

	sqlDB, err := db.DB()
	require.NoError(t, err, "SetupTestDB: DB")
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db), "SetupTestDB: Migrate")
	require.NoError(t, database.Seed(db), "SetupTestDB: Seed")
	return db
}

// testHash is computed once; bcrypt at default cost is slow.
var testHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// TestPassword is the plain password of every user made by CreateUser.
const TestPassword = "password123"

// CreateUser inserts an enabled user with the given login and role.
func CreateUser(t *testing.T, db *gorm.DB, login, role string) *models.User {
	t.Helper()
	user := &models.User{
		Login:        login,
		Name:         login,
		Email:        login + "@example.com",
		PasswordHash: testHash,
		Role:         role,
		Enabled:      true,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(user).Error, "CreateUser")
	return user
}

// CreateFilm inserts a film with no reviews.
func CreateFilm(t *testing.T, db *gorm.DB, name string) *models.Film {
	t.Helper()
	mpa := uint(1)
	film := &models.Film{Name: name, Duration: 90, MpaID: &mpa}
	require.NoError(t, db.Omit(clause.Associations).Create(film).Error, "CreateFilm")
	return film
}

// FilmRating reloads the stored aggregate of a film.
func FilmRating(t *testing.T, db *gorm.DB, filmID uint) decimal.NullDecimal {
	t.Helper()
	var film models.Film
	require.NoError(t, db.First(&film, filmID).Error, "FilmRating")
	return film.Rating
}
