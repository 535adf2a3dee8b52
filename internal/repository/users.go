package repository

import (
	"context"
	"errors"

	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *userRepo) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("login = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *userRepo) TakenBy(ctx context.Context, login, email string, excludeID uint) (uint, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Select("id").
		Where("(login = ? OR email = ?) AND id <> ?", login, email, excludeID).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, translate(err, "user")
	}
	return user.ID, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error, "user")
}

func (r *userRepo) Save(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error, "user")
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return translate(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("user %d not found", id)
	}
	return nil
}

func (r *userRepo) List(ctx context.Context, req PageRequest) (*Page[models.User], error) {
	page, err := paginate[models.User](r.db.WithContext(ctx).Model(&models.User{}), "id ASC", req)
	if err != nil {
		return nil, translate(err, "users")
	}
	return page, nil
}
