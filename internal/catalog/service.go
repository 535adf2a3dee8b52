// Package catalog manages films with their genre and MPA lookups, and film likes.
// Film ratings are owned by the rating package and never written here.
package catalog

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/hub"
	"filmsocial/backend/internal/models"
	"filmsocial/backend/internal/repository"

	"go.uber.org/zap"
)

const (
	MaxDescriptionLength = 200
	DefaultPopularCount  = 10
)

// EarliestReleaseDate is the date of the first public film screening.
var EarliestReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

// Publisher receives events after a catalog change is committed.
type Publisher interface {
	Publish(ctx context.Context, event hub.Event, recipients ...uint)
}

// FilmInput describes a new film.
type FilmInput struct {
	Name        string
	Description string
	ReleaseDate *time.Time
	Duration    int
	MpaID       *uint
	GenreIDs    []uint
}

// FilmUpdate is a partial update; nil fields keep their value.
type FilmUpdate struct {
	Name        *string
	Description *string
	ReleaseDate *time.Time
	Duration    *int
	MpaID       *uint
	GenreIDs    []uint
}

type Service struct {
	repos  repository.Repositories
	events Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repos repository.Repositories, events Publisher, log *zap.Logger) *Service {
	return &Service{repos: repos, events: events, log: log.Named("catalog"), now: time.Now}
}

func (s *Service) ListFilms(ctx context.Context, req repository.PageRequest) (*repository.Page[models.Film], error) {
	return s.repos.Films().List(ctx, req)
}

func (s *Service) GetFilm(ctx context.Context, id uint) (*models.Film, error) {
	return s.repos.Films().FindByID(ctx, id)
}

// PopularFilms returns the count most liked films.
func (s *Service) PopularFilms(ctx context.Context, count int) ([]models.Film, error) {
	if count <= 0 {
		count = DefaultPopularCount
	}
	if count > repository.MaxPageSize {
		count = repository.MaxPageSize
	}
	return s.repos.Films().Popular(ctx, count)
}

func (s *Service) CreateFilm(ctx context.Context, in FilmInput) (*models.Film, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("film name must not be empty")
	}
	if err := s.validate(in.Description, in.ReleaseDate, in.Duration); err != nil {
		return nil, err
	}

	film := &models.Film{
		Name:        in.Name,
		Description: in.Description,
		ReleaseDate: in.ReleaseDate,
		Duration:    in.Duration,
		MpaID:       in.MpaID,
	}
	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		if err := s.resolveRefs(ctx, tx, film, in.MpaID, in.GenreIDs); err != nil {
			return err
		}
		return tx.Films().Create(ctx, film)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("film created", zap.Uint("film_id", film.ID), zap.String("name", film.Name))
	s.filmChanged(ctx, film.ID)
	return s.repos.Films().FindByID(ctx, film.ID)
}

func (s *Service) UpdateFilm(ctx context.Context, id uint, in FilmUpdate) (*models.Film, error) {
	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		film, err := tx.Films().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return apperr.Validation("film name must not be empty")
			}
			film.Name = *in.Name
		}
		if in.Description != nil {
			film.Description = *in.Description
		}
		if in.ReleaseDate != nil {
			film.ReleaseDate = in.ReleaseDate
		}
		if in.Duration != nil && *in.Duration != 0 {
			film.Duration = *in.Duration
		}
		if err := s.validate(film.Description, film.ReleaseDate, film.Duration); err != nil {
			return err
		}

		mpaID := film.MpaID
		if in.MpaID != nil {
			mpaID = in.MpaID
		}
		genreIDs := make([]uint, 0, len(film.Genres))
		for _, g := range film.Genres {
			genreIDs = append(genreIDs, g.ID)
		}
		if in.GenreIDs != nil {
			genreIDs = in.GenreIDs
		}
		if err := s.resolveRefs(ctx, tx, film, mpaID, genreIDs); err != nil {
			return err
		}
		return tx.Films().Update(ctx, film)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("film updated", zap.Uint("film_id", id))
	s.filmChanged(ctx, id)
	return s.repos.Films().FindByID(ctx, id)
}

// DeleteFilm removes a film together with its reviews and likes.
func (s *Service) DeleteFilm(ctx context.Context, id uint) error {
	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Films().LockByID(ctx, id); err != nil {
			return err
		}
		if err := tx.Reviews().DeleteByFilm(ctx, id); err != nil {
			return err
		}
		return tx.Films().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("film deleted", zap.Uint("film_id", id))
	s.filmChanged(ctx, id)
	return nil
}

// Like records that userID likes filmID. Liking twice is harmless.
func (s *Service) Like(ctx context.Context, filmID, userID uint) error {
	return s.changeLike(ctx, filmID, userID, repository.FilmRepository.AddLike)
}

func (s *Service) Unlike(ctx context.Context, filmID, userID uint) error {
	return s.changeLike(ctx, filmID, userID, repository.FilmRepository.RemoveLike)
}

// IsLiked reports whether userID likes filmID.
func (s *Service) IsLiked(ctx context.Context, filmID, userID uint) (bool, error) {
	return s.repos.Films().IsLiked(ctx, filmID, userID)
}

func (s *Service) changeLike(ctx context.Context, filmID, userID uint, fn func(repository.FilmRepository, context.Context, uint, uint) error) error {
	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Users().FindByID(ctx, userID); err != nil {
			return err
		}
		if _, err := tx.Films().FindByID(ctx, filmID); err != nil {
			return err
		}
		return fn(tx.Films(), ctx, filmID, userID)
	})
	if err != nil {
		return err
	}
	s.filmChanged(ctx, filmID)
	return nil
}

func (s *Service) Genres(ctx context.Context) ([]models.Genre, error) {
	return s.repos.Films().Genres(ctx)
}

func (s *Service) Genre(ctx context.Context, id uint) (*models.Genre, error) {
	return s.repos.Films().GenreByID(ctx, id)
}

func (s *Service) MpaRatings(ctx context.Context) ([]models.Mpa, error) {
	return s.repos.Films().MpaRatings(ctx)
}

func (s *Service) Mpa(ctx context.Context, id uint) (*models.Mpa, error) {
	return s.repos.Films().MpaByID(ctx, id)
}

func (s *Service) validate(description string, releaseDate *time.Time, duration int) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return apperr.Validation("description must not exceed %d characters", MaxDescriptionLength)
	}
	if releaseDate != nil {
		if releaseDate.Before(EarliestReleaseDate) {
			return apperr.Validation("release date must not be before %s", EarliestReleaseDate.Format(time.DateOnly))
		}
		if releaseDate.After(s.now()) {
			return apperr.Validation("release date must be in the past")
		}
	}
	if duration < 0 {
		return apperr.Validation("duration must be positive")
	}
	return nil
}

// resolveRefs loads the referenced MPA rating and genres onto film.
// Unknown references are validation failures of the input.
func (s *Service) resolveRefs(ctx context.Context, tx repository.Repositories, film *models.Film, mpaID *uint, genreIDs []uint) error {
	if mpaID != nil {
		mpa, err := tx.Films().MpaByID(ctx, *mpaID)
		if err != nil {
			return asValidation(err)
		}
		film.MpaID = &mpa.ID
		film.Mpa = mpa
	}

	seen := make(map[uint]bool, len(genreIDs))
	genres := make([]*models.Genre, 0, len(genreIDs))
	for _, id := range genreIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		genre, err := tx.Films().GenreByID(ctx, id)
		if err != nil {
			return asValidation(err)
		}
		genres = append(genres, genre)
	}
	film.Genres = genres
	return nil
}

func (s *Service) filmChanged(ctx context.Context, filmID uint) {
	s.events.Publish(ctx, hub.Event{Type: hub.EventFilmChanged, Payload: hub.FilmChanged{FilmID: filmID}})
}

func asValidation(err error) error {
	if apperr.KindOf(err) == apperr.KindNotFound {
		return apperr.Validation("%s", apperr.Message(err))
	}
	return err
}
