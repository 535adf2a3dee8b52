// Package repository is the persistence boundary of the service. Domain
// services depend on the interfaces declared here; Store implements them on gorm.
package repository

import (
	"context"

	"filmsocial/backend/internal/models"

	"github.com/shopspring/decimal"
)

// Repositories groups the entity stores and opens transactions over them.
// Inside fn every store shares the same transaction.
type Repositories interface {
	Users() UserRepository
	Friendships() FriendshipRepository
	Films() FilmRepository
	Reviews() ReviewRepository
	Transaction(ctx context.Context, fn func(tx Repositories) error) error
}

// UserRepository stores accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	// TakenBy returns the id of a user other than excludeID holding login or email, or 0.
	TakenBy(ctx context.Context, login, email string, excludeID uint) (uint, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, req PageRequest) (*Page[models.User], error)
}

// FriendshipRepository stores the edge between a pair of users.
type FriendshipRepository interface {
	// FindPair looks the pair up in either orientation. It returns nil, nil when
	// the users have no relationship. forUpdate takes a row lock until commit.
	FindPair(ctx context.Context, a, b uint, forUpdate bool) (*models.Friendship, error)
	Create(ctx context.Context, f *models.Friendship) error
	Save(ctx context.Context, f *models.Friendship) error
	Delete(ctx context.Context, f *models.Friendship) error
	DeleteAllFor(ctx context.Context, userID uint) error

	Friends(ctx context.Context, userID uint, req PageRequest) (*Page[models.User], error)
	Followers(ctx context.Context, userID uint, req PageRequest) (*Page[models.User], error)
	Following(ctx context.Context, userID uint, req PageRequest) (*Page[models.User], error)
	Blacklist(ctx context.Context, userID uint, req PageRequest) (*Page[models.User], error)
	CommonFriends(ctx context.Context, a, b uint, req PageRequest) (*Page[models.User], error)
}

// FilmRepository stores the catalog and its lookups.
type FilmRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Film, error)
	// LockByID reads the bare film row with a row lock held until commit.
	LockByID(ctx context.Context, id uint) (*models.Film, error)
	UpdateRating(ctx context.Context, id uint, rating decimal.NullDecimal) error
	Create(ctx context.Context, film *models.Film) error
	Update(ctx context.Context, film *models.Film) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, req PageRequest) (*Page[models.Film], error)
	Popular(ctx context.Context, count int) ([]models.Film, error)

	AddLike(ctx context.Context, filmID, userID uint) error
	RemoveLike(ctx context.Context, filmID, userID uint) error
	RemoveLikesBy(ctx context.Context, userID uint) error
	IsLiked(ctx context.Context, filmID, userID uint) (bool, error)

	Genres(ctx context.Context) ([]models.Genre, error)
	GenreByID(ctx context.Context, id uint) (*models.Genre, error)
	MpaRatings(ctx context.Context) ([]models.Mpa, error)
	MpaByID(ctx context.Context, id uint) (*models.Mpa, error)
}

// ReviewRepository stores film reviews.
type ReviewRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Review, error)
	Exists(ctx context.Context, userID, filmID uint) (bool, error)
	CountByFilm(ctx context.Context, filmID uint) (int64, error)
	Create(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	DeleteByFilm(ctx context.Context, filmID uint) error
	ListByFilm(ctx context.Context, filmID uint, req PageRequest) (*Page[models.Review], error)
	// ListByUser returns the reviews of userID ordered by film id.
	ListByUser(ctx context.Context, userID uint) ([]models.Review, error)
}
