// Package account handles registration, authentication and profile management.
package account

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/hub"
	"filmsocial/backend/internal/models"
	"filmsocial/backend/internal/repository"
	"filmsocial/backend/pkg/jwt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

var (
	ErrInvalidCredentials = apperr.AccessDenied("invalid credentials")
	ErrAccountDisabled    = apperr.AccessDenied("account is disabled")
	ErrBlockedByUser      = apperr.AccessDenied("this user has blocked you")
	ErrNotPermitted       = apperr.AccessDenied("only the account owner or an administrator may do this")
	ErrCredentialsTaken   = apperr.AlreadyExists("login or email already in use")
)

// BlockChecker reports whether target blocked viewer.
type BlockChecker interface {
	IsBlockedByTarget(ctx context.Context, viewer, target uint) (bool, error)
}

// ReviewRemover takes a user's reviews out of the film aggregates.
type ReviewRemover interface {
	RemoveAllByUser(ctx context.Context, tx repository.Repositories, userID uint) ([]uint, error)
	FilmsChanged(ctx context.Context, filmIDs ...uint)
}

// Publisher receives events after an account change is committed.
type Publisher interface {
	Publish(ctx context.Context, event hub.Event, recipients ...uint)
}

// TokenConfig configures issued access tokens.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// Registration is the input of Register.
type Registration struct {
	Login    string
	Name     string
	Email    string
	Password string
	Birthday *time.Time
}

// ProfileUpdate is a partial profile update; nil fields keep their value.
type ProfileUpdate struct {
	Login    *string
	Name     *string
	Email    *string
	Password *string
	Birthday *time.Time
}

type Service struct {
	repos   repository.Repositories
	blocks  BlockChecker
	reviews ReviewRemover
	events  Publisher
	tokens  TokenConfig
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repos repository.Repositories, blocks BlockChecker, reviews ReviewRemover, events Publisher, tokens TokenConfig, log *zap.Logger) *Service {
	return &Service{
		repos:   repos,
		blocks:  blocks,
		reviews: reviews,
		events:  events,
		tokens:  tokens,
		log:     log.Named("account"),
		now:     time.Now,
	}
}

// Register creates a user account and returns it with an access token.
func (s *Service) Register(ctx context.Context, in Registration) (*models.User, string, error) {
	if err := validateLogin(in.Login); err != nil {
		return nil, "", err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, "", err
	}
	if len(in.Password) < MinPasswordLength {
		return nil, "", apperr.Validation("password must be at least %d characters", MinPasswordLength)
	}
	if err := s.validateBirthday(in.Birthday); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal(err, "failed to hash password")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.Login
	}
	user := &models.User{
		Login:        in.Login,
		Name:         name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Enabled:      true,
		Birthday:     in.Birthday,
	}

	err = s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		taken, err := tx.Users().TakenBy(ctx, in.Login, in.Email, 0)
		if err != nil {
			return err
		}
		if taken != 0 {
			return ErrCredentialsTaken
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if apperr.KindOf(err) == apperr.KindAlreadyExists {
				return ErrCredentialsTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("login", user.Login))
	s.usersChanged(ctx, "registered", user.ID)
	return user, token, nil
}

// Login checks credentials given as login or email and returns an access token.
func (s *Service) Login(ctx context.Context, login, password string) (*models.User, string, error) {
	user, err := s.repos.Users().FindByLogin(ctx, login)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.Enabled {
		return nil, "", ErrAccountDisabled
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) issue(user *models.User) (string, error) {
	token, err := jwt.GenerateToken(user.ID, user.Role, s.tokens.Secret, s.tokens.TTL)
	if err != nil {
		return "", apperr.Internal(err, "failed to generate token")
	}
	return token, nil
}

// GetUser returns the profile of id as seen by viewer. Users who blocked the viewer stay hidden.
func (s *Service) GetUser(ctx context.Context, viewer, id uint) (*models.User, error) {
	user, err := s.repos.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blocks.IsBlockedByTarget(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlockedByUser
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, req repository.PageRequest) (*repository.Page[models.User], error) {
	return s.repos.Users().List(ctx, req)
}

// UpdateUser applies in to user id on behalf of actor, who must be that user or an administrator.
func (s *Service) UpdateUser(ctx context.Context, actor, id uint, in ProfileUpdate) (*models.User, error) {
	var user *models.User
	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		if err := authorize(ctx, tx, actor, id); err != nil {
			return err
		}
		var err error
		user, err = tx.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if in.Login != nil {
			if err := validateLogin(*in.Login); err != nil {
				return err
			}
			user.Login = *in.Login
		}
		if in.Email != nil {
			if err := validateEmail(*in.Email); err != nil {
				return err
			}
			user.Email = *in.Email
		}
		if in.Name != nil {
			user.Name = strings.TrimSpace(*in.Name)
			if user.Name == "" {
				user.Name = user.Login
			}
		}
		if in.Birthday != nil {
			if err := s.validateBirthday(in.Birthday); err != nil {
				return err
			}
			user.Birthday = in.Birthday
		}
		if in.Password != nil {
			if len(*in.Password) < MinPasswordLength {
				return apperr.Validation("password must be at least %d characters", MinPasswordLength)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return apperr.Internal(err, "failed to hash password")
			}
			user.PasswordHash = string(hash)
		}

		if in.Login != nil || in.Email != nil {
			taken, err := tx.Users().TakenBy(ctx, user.Login, user.Email, user.ID)
			if err != nil {
				return err
			}
			if taken != 0 {
				return ErrCredentialsTaken
			}
		}
		return tx.Users().Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user updated", zap.Uint("user_id", id), zap.Uint("actor_id", actor))
	s.usersChanged(ctx, "profile_updated", id)
	return user, nil
}

// DeleteUser removes user id with its reviews, likes and relationships.
// The film aggregates the user contributed to are recomputed.
func (s *Service) DeleteUser(ctx context.Context, actor, id uint) error {
	var filmIDs []uint
	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		if err := authorize(ctx, tx, actor, id); err != nil {
			return err
		}
		if _, err := tx.Users().FindByID(ctx, id); err != nil {
			return err
		}

		var err error
		if filmIDs, err = s.reviews.RemoveAllByUser(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Films().RemoveLikesBy(ctx, id); err != nil {
			return err
		}
		if err := tx.Friendships().DeleteAllFor(ctx, id); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("user deleted", zap.Uint("user_id", id), zap.Uint("actor_id", actor), zap.Int("reviews_removed", len(filmIDs)))
	s.reviews.FilmsChanged(ctx, filmIDs...)
	s.usersChanged(ctx, "account_deleted", id)
	return nil
}

// SetAdmin grants or revokes the administrator role.
func (s *Service) SetAdmin(ctx context.Context, id uint, admin bool) (*models.User, error) {
	role := models.RoleUser
	if admin {
		role = models.RoleAdmin
	}
	return s.modify(ctx, id, "role_changed", func(u *models.User) { u.Role = role })
}

// SetEnabled enables or disables login for a user.
func (s *Service) SetEnabled(ctx context.Context, id uint, enabled bool) (*models.User, error) {
	return s.modify(ctx, id, "enabled_changed", func(u *models.User) { u.Enabled = enabled })
}

func (s *Service) modify(ctx context.Context, id uint, operation string, fn func(*models.User)) (*models.User, error) {
	var user *models.User
	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		var err error
		if user, err = tx.Users().FindByID(ctx, id); err != nil {
			return err
		}
		fn(user)
		return tx.Users().Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user modified", zap.Uint("user_id", id), zap.String("operation", operation),
		zap.String("role", user.Role), zap.Bool("enabled", user.Enabled))
	s.usersChanged(ctx, operation, id)
	return user, nil
}

func (s *Service) usersChanged(ctx context.Context, operation string, id uint) {
	s.events.Publish(ctx, hub.Event{
		Type:    hub.EventRelationshipChanged,
		Payload: hub.RelationshipChanged{Operation: operation, UserID: id},
	})
}

func authorize(ctx context.Context, tx repository.Repositories, actor, id uint) error {
	if actor == id {
		return nil
	}
	acting, err := tx.Users().FindByID(ctx, actor)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return ErrNotPermitted
		}
		return err
	}
	if !acting.IsAdmin() {
		return ErrNotPermitted
	}
	return nil
}

func validateLogin(login string) error {
	if login == "" {
		return apperr.Validation("login must not be empty")
	}
	if strings.ContainsAny(login, " \t\n\r") {
		return apperr.Validation("login must not contain spaces")
	}
	return nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return apperr.Validation("email %q is invalid", email)
	}
	return nil
}

func (s *Service) validateBirthday(birthday *time.Time) error {
	if birthday != nil && birthday.After(s.now()) {
		return apperr.Validation("birthday must not be in the future")
	}
	return nil
}
