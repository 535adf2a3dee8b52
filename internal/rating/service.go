// Package rating keeps each film's aggregate rating in step with its reviews.
//
// The aggregate is updated incrementally in fixed-point decimal, one
// fractional digit, rounding half up. Every update runs in one transaction
// holding a row lock on the film, so the review count and the stored aggregate
// it is combined with are always consistent.
package rating

import (
	"context"
	"time"

	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/hub"
	"filmsocial/backend/internal/metrics"
	"filmsocial/backend/internal/models"
	"filmsocial/backend/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Publisher receives events after a rating change is committed.
type Publisher interface {
	Publish(ctx context.Context, event hub.Event, recipients ...uint)
}

// NewReview is a review submitted by a user.
type NewReview struct {
	UserID uint
	FilmID uint
	Text   string
	Rating decimal.Decimal
}

// FilmReview is a review as listed under its film.
type FilmReview struct {
	ID        uint
	UserID    uint
	UserName  string
	Text      string
	Rating    decimal.Decimal
	CreatedAt time.Time
}

type Service struct {
	repos  repository.Repositories
	events Publisher
	log    *zap.Logger
}

func NewService(repos repository.Repositories, events Publisher, log *zap.Logger) *Service {
	return &Service{repos: repos, events: events, log: log.Named("rating")}
}

// AddReview stores a review by actingUser for filmID and folds its rating into the film aggregate.
func (s *Service) AddReview(ctx context.Context, actingUser, filmID uint, in NewReview) (*models.Review, error) {
	if in.UserID != actingUser {
		return nil, apperr.Validation("review user %d does not match the acting user %d", in.UserID, actingUser)
	}
	if in.FilmID != filmID {
		return nil, apperr.Validation("review film %d does not match film %d", in.FilmID, filmID)
	}
	if err := Validate(in.Rating); err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID: in.UserID,
		FilmID: in.FilmID,
		Text:   in.Text,
		Rating: in.Rating,
	}
	var aggregate decimal.NullDecimal

	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Users().FindByID(ctx, in.UserID); err != nil {
			return asValidation(err)
		}
		film, err := tx.Films().LockByID(ctx, filmID)
		if err != nil {
			return asValidation(err)
		}

		exists, err := tx.Reviews().Exists(ctx, in.UserID, filmID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("user %d has already reviewed film %d", in.UserID, filmID)
		}

		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}
		n, err := tx.Reviews().CountByFilm(ctx, filmID)
		if err != nil {
			return err
		}

		aggregate = Add(film.Rating, n, in.Rating)
		return tx.Films().UpdateRating(ctx, filmID, aggregate)
	})
	if err != nil {
		return nil, err
	}

	metrics.RatingUpdatesTotal.WithLabelValues("add").Inc()
	s.log.Info("review added",
		zap.Uint("film_id", filmID),
		zap.Uint("user_id", in.UserID),
		zap.String("rating", aggregate.Decimal.StringFixed(Precision)),
	)
	s.filmChanged(ctx, filmID)
	return review, nil
}

// DeleteReview removes actingUser's review reviewID of filmID and takes its rating out of the aggregate.
func (s *Service) DeleteReview(ctx context.Context, reviewID, filmID, actingUser uint) error {
	var aggregate decimal.NullDecimal

	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		film, err := tx.Films().LockByID(ctx, filmID)
		if err != nil {
			return err
		}
		review, err := tx.Reviews().FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.FilmID != filmID || review.UserID != actingUser {
			return apperr.Validation("review %d does not belong to user %d and film %d", reviewID, actingUser, filmID)
		}

		aggregate, err = s.remove(ctx, tx, film, review)
		return err
	})
	if err != nil {
		return err
	}

	s.log.Info("review deleted",
		zap.Uint("film_id", filmID),
		zap.Uint("review_id", reviewID),
		zap.Bool("rated", aggregate.Valid),
	)
	s.filmChanged(ctx, filmID)
	return nil
}

// remove deletes review and stores the recomputed aggregate. film must be locked by tx.
func (s *Service) remove(ctx context.Context, tx repository.Repositories, film *models.Film, review *models.Review) (decimal.NullDecimal, error) {
	n, err := tx.Reviews().CountByFilm(ctx, film.ID)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	aggregate := Remove(film.Rating, n, review.Rating)

	if err := tx.Reviews().Delete(ctx, review.ID); err != nil {
		return decimal.NullDecimal{}, err
	}
	if err := tx.Films().UpdateRating(ctx, film.ID, aggregate); err != nil {
		return decimal.NullDecimal{}, err
	}
	film.Rating = aggregate
	metrics.RatingUpdatesTotal.WithLabelValues("delete").Inc()
	return aggregate, nil
}

// RemoveAllByUser deletes every review of userID inside tx, keeping each
// film's aggregate consistent. It returns the ids of the affected films.
// Films are locked in ascending id order so concurrent deletions cannot deadlock.
func (s *Service) RemoveAllByUser(ctx context.Context, tx repository.Repositories, userID uint) ([]uint, error) {
	reviews, err := tx.Reviews().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filmIDs := make([]uint, 0, len(reviews))
	for i := range reviews {
		film, err := tx.Films().LockByID(ctx, reviews[i].FilmID)
		if err != nil {
			return nil, err
		}
		if _, err := s.remove(ctx, tx, film, &reviews[i]); err != nil {
			return nil, err
		}
		filmIDs = append(filmIDs, film.ID)
	}
	return filmIDs, nil
}

// ListReviews returns the reviews of a film ordered by id.
func (s *Service) ListReviews(ctx context.Context, filmID uint, req repository.PageRequest) (*repository.Page[FilmReview], error) {
	if _, err := s.repos.Films().FindByID(ctx, filmID); err != nil {
		return nil, err
	}
	page, err := s.repos.Reviews().ListByFilm(ctx, filmID, req)
	if err != nil {
		return nil, err
	}
	return repository.MapPage(page, func(r models.Review) FilmReview {
		return FilmReview{
			ID:        r.ID,
			UserID:    r.UserID,
			UserName:  r.User.Name,
			Text:      r.Text,
			Rating:    r.Rating,
			CreatedAt: r.CreatedAt,
		}
	}), nil
}

// FilmsChanged publishes a change event for each film, typically after RemoveAllByUser committed.
func (s *Service) FilmsChanged(ctx context.Context, filmIDs ...uint) {
	for _, id := range filmIDs {
		s.filmChanged(ctx, id)
	}
}

func (s *Service) filmChanged(ctx context.Context, filmID uint) {
	s.events.Publish(ctx, hub.Event{Type: hub.EventFilmChanged, Payload: hub.FilmChanged{FilmID: filmID}})
}

// asValidation reports a missing referenced entity as a validation failure of the review.
func asValidation(err error) error {
	if apperr.KindOf(err) == apperr.KindNotFound {
		return apperr.Validation("%s", apperr.Message(err))
	}
	return err
}
