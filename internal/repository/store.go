package repository

import (
	"context"
	"errors"

	"filmsocial/backend/internal/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements Repositories on a gorm connection or transaction.
type Store struct {
	db *gorm.DB
}

// NewStore wraps db. The connection should be opened with TranslateError so
// unique violations surface as gorm.ErrDuplicatedKey.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() UserRepository             { return &userRepo{db: s.db} }
func (s *Store) Friendships() FriendshipRepository { return &friendshipRepo{db: s.db} }
func (s *Store) Films() FilmRepository             { return &filmRepo{db: s.db} }
func (s *Store) Reviews() ReviewRepository         { return &reviewRepo{db: s.db} }

// Transaction runs fn inside a database transaction. Returning an error from fn rolls it back.
func (s *Store) Transaction(ctx context.Context, fn func(tx Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// forUpdate is SELECT ... FOR UPDATE. The sqlite dialect drops the clause;
// there the single writer lock already serializes transactions.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// translate maps gorm errors to application errors naming entity.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s not found", entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.AlreadyExists("%s already exists", entity)
	default:
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperr.Internal(err, "failed to access %s", entity)
	}
}
