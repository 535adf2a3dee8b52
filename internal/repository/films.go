package repository

import (
	"context"
	"errors"

	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type filmRepo struct {
	db *gorm.DB
}

func orderGenres(db *gorm.DB) *gorm.DB {
	return db.Order("genres.id ASC")
}

func (r *filmRepo) FindByID(ctx context.Context, id uint) (*models.Film, error) {
	var film models.Film
	err := r.db.WithContext(ctx).Preload("Genres", orderGenres).Preload("Mpa").First(&film, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("film %d not found", id)
	}
	if err != nil {
		return nil, translate(err, "film")
	}
	return &film, nil
}

func (r *filmRepo) LockByID(ctx context.Context, id uint) (*models.Film, error) {
	var film models.Film
	err := r.db.WithContext(ctx).Clauses(forUpdate).Take(&film, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("film %d not found", id)
	}
	if err != nil {
		return nil, translate(err, "film")
	}
	return &film, nil
}

func (r *filmRepo) UpdateRating(ctx context.Context, id uint, rating decimal.NullDecimal) error {
	err := r.db.WithContext(ctx).Model(&models.Film{ID: id}).Update("rating", rating).Error
	return translate(err, "film")
}

func (r *filmRepo) Create(ctx context.Context, film *models.Film) error {
	err := r.db.WithContext(ctx).Omit("Mpa", "LikedBy", "Genres.*").Create(film).Error
	return translate(err, "film")
}

// Update writes the editable columns and replaces the genre set. The rating is never touched.
func (r *filmRepo) Update(ctx context.Context, film *models.Film) error {
	db := r.db.WithContext(ctx)
	err := db.Model(&models.Film{ID: film.ID}).
		Select("name", "description", "release_date", "duration", "mpa_id").
		Updates(film).Error
	if err != nil {
		return translate(err, "film")
	}
	if err := db.Model(&models.Film{ID: film.ID}).Association("Genres").Replace(film.Genres); err != nil {
		return translate(err, "film genres")
	}
	return nil
}

func (r *filmRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Select("Genres", "LikedBy").Delete(&models.Film{ID: id})
	if result.Error != nil {
		return translate(result.Error, "film")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("film %d not found", id)
	}
	return nil
}

func (r *filmRepo) List(ctx context.Context, req PageRequest) (*Page[models.Film], error) {
	query := r.db.WithContext(ctx).Model(&models.Film{})
	page, err := paginate[models.Film](query, "id ASC", req, preload("Genres", orderGenres), preload("Mpa"))
	if err != nil {
		return nil, translate(err, "films")
	}
	return page, nil
}

// Popular returns up to count films ordered by number of likes, ties broken by id.
func (r *filmRepo) Popular(ctx context.Context, count int) ([]models.Film, error) {
	db := r.db.WithContext(ctx)

	var ids []uint
	err := db.Table("films").
		Select("films.id").
		Joins("LEFT JOIN user_likes ON user_likes.film_id = films.id").
		Group("films.id").
		Order("COUNT(user_likes.user_id) DESC, films.id ASC").
		Limit(count).
		Scan(&ids).Error
	if err != nil {
		return nil, translate(err, "films")
	}
	if len(ids) == 0 {
		return []models.Film{}, nil
	}

	var films []models.Film
	if err := db.Preload("Genres", orderGenres).Preload("Mpa").Where("id IN ?", ids).Find(&films).Error; err != nil {
		return nil, translate(err, "films")
	}

	byID := make(map[uint]models.Film, len(films))
	for _, f := range films {
		byID[f.ID] = f
	}
	ordered := make([]models.Film, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
		}
	}
	return ordered, nil
}

func (r *filmRepo) AddLike(ctx context.Context, filmID, userID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserLike{UserID: userID, FilmID: filmID}).Error
	return translate(err, "like")
}

func (r *filmRepo) RemoveLike(ctx context.Context, filmID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Delete(&models.UserLike{}).Error
	return translate(err, "like")
}

func (r *filmRepo) RemoveLikesBy(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.UserLike{}).Error
	return translate(err, "like")
}

func (r *filmRepo) IsLiked(ctx context.Context, filmID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserLike{}).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "like")
	}
	return count > 0, nil
}

func (r *filmRepo) Genres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&genres).Error; err != nil {
		return nil, translate(err, "genres")
	}
	return genres, nil
}

func (r *filmRepo) GenreByID(ctx context.Context, id uint) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.WithContext(ctx).First(&genre, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("genre %d not found", id)
	}
	if err != nil {
		return nil, translate(err, "genre")
	}
	return &genre, nil
}

func (r *filmRepo) MpaRatings(ctx context.Context) ([]models.Mpa, error) {
	var ratings []models.Mpa
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&ratings).Error; err != nil {
		return nil, translate(err, "mpa")
	}
	return ratings, nil
}

func (r *filmRepo) MpaByID(ctx context.Context, id uint) (*models.Mpa, error) {
	var mpa models.Mpa
	err := r.db.WithContext(ctx).First(&mpa, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("mpa %d not found", id)
	}
	if err != nil {
		return nil, translate(err, "mpa")
	}
	return &mpa, nil
}
