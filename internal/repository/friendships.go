package repository

import (
	"context"
	"errors"

	"filmsocial/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type friendshipRepo struct {
	db *gorm.DB
}

func (r *friendshipRepo) FindPair(ctx context.Context, a, b uint, lock bool) (*models.Friendship, error) {
	low, high := models.OrderedPair(a, b)
	query := r.db.WithContext(ctx).Where("user_low_id = ? AND user_high_id = ?", low, high)
	if lock {
		query = query.Clauses(forUpdate)
	}

	var f models.Friendship
	err := query.Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "friendship")
	}
	return &f, nil
}

func (r *friendshipRepo) Create(ctx context.Context, f *models.Friendship) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error, "friendship")
}

func (r *friendshipRepo) Save(ctx context.Context, f *models.Friendship) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(f).Error, "friendship")
}

func (r *friendshipRepo) Delete(ctx context.Context, f *models.Friendship) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Friendship{}, f.ID).Error, "friendship")
}

func (r *friendshipRepo) DeleteAllFor(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Delete(&models.Friendship{}).Error
	return translate(err, "friendship")
}

// counterparts selects the other party of every edge touching userID.
func (r *friendshipRepo) counterparts(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Select("CASE WHEN user_low_id = ? THEN user_high_id ELSE user_low_id END", userID).
		Where("(user_low_id = ? OR user_high_id = ?)", userID, userID)
}

func (r *friendshipRepo) friendIDs(ctx context.Context, userID uint) *gorm.DB {
	return r.counterparts(ctx, userID).Where("status = ?", models.StatusAccepted)
}

func (r *friendshipRepo) usersIn(ctx context.Context, req PageRequest, subqueries ...*gorm.DB) (*Page[models.User], error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	for _, sub := range subqueries {
		query = query.Where("id IN (?)", sub)
	}
	page, err := paginate[models.User](query, "id ASC", req)
	if err != nil {
		return nil, translate(err, "users")
	}
	return page, nil
}

func (r *friendshipRepo) Friends(ctx context.Context, userID uint, req PageRequest) (*Page[models.User], error) {
	return r.usersIn(ctx, req, r.friendIDs(ctx, userID))
}

func (r *friendshipRepo) Followers(ctx context.Context, userID uint, req PageRequest) (*Page[models.User], error) {
	sub := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Select("initiator_id").
		Where("status = ? AND initiator_id <> ?", models.StatusRequested, userID).
		Where("(user_low_id = ? OR user_high_id = ?)", userID, userID)
	return r.usersIn(ctx, req, sub)
}

func (r *friendshipRepo) Following(ctx context.Context, userID uint, req PageRequest) (*Page[models.User], error) {
	sub := r.counterparts(ctx, userID).Where("status = ? AND initiator_id = ?", models.StatusRequested, userID)
	return r.usersIn(ctx, req, sub)
}

func (r *friendshipRepo) Blacklist(ctx context.Context, userID uint, req PageRequest) (*Page[models.User], error) {
	sub := r.counterparts(ctx, userID).Where("status = ? AND initiator_id = ?", models.StatusBlocked, userID)
	return r.usersIn(ctx, req, sub)
}

func (r *friendshipRepo) CommonFriends(ctx context.Context, a, b uint, req PageRequest) (*Page[models.User], error) {
	return r.usersIn(ctx, req, r.friendIDs(ctx, a), r.friendIDs(ctx, b))
}
