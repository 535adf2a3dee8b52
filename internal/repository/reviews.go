package repository

import (
	"context"
	"errors"

	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("review %d not found", id)
	}
	if err != nil {
		return nil, translate(err, "review")
	}
	return &review, nil
}

func (r *reviewRepo) Exists(ctx context.Context, userID, filmID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ? AND film_id = ?", userID, filmID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "review")
	}
	return count > 0, nil
}

func (r *reviewRepo) CountByFilm(ctx context.Context, filmID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Where("film_id = ?", filmID).Count(&count).Error
	if err != nil {
		return 0, translate(err, "review")
	}
	return count, nil
}

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("user %d has already reviewed film %d", review.UserID, review.FilmID)
	}
	return translate(err, "review")
}

func (r *reviewRepo) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Review{}, id).Error, "review")
}

func (r *reviewRepo) DeleteByFilm(ctx context.Context, filmID uint) error {
	return translate(r.db.WithContext(ctx).Where("film_id = ?", filmID).Delete(&models.Review{}).Error, "review")
}

func (r *reviewRepo) ListByFilm(ctx context.Context, filmID uint, req PageRequest) (*Page[models.Review], error) {
	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("film_id = ?", filmID)
	page, err := paginate[models.Review](query, "id ASC", req, preload("User"))
	if err != nil {
		return nil, translate(err, "reviews")
	}
	return page, nil
}

func (r *reviewRepo) ListByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("film_id ASC").Find(&reviews).Error; err != nil {
		return nil, translate(err, "reviews")
	}
	return reviews, nil
}
