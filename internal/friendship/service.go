// Package friendship implements the relationship engine: a table driven state
// machine over the single edge stored per pair of users, and the listings
// derived from it.
package friendship

import (
	"context"
	"time"

	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/hub"
	"filmsocial/backend/internal/metrics"
	"filmsocial/backend/internal/models"
	"filmsocial/backend/internal/repository"

	"go.uber.org/zap"
)

// Publisher receives events after a transition is committed.
type Publisher interface {
	Publish(ctx context.Context, event hub.Event, recipients ...uint)
}

// Service runs relationship operations. The acting user is always an explicit argument.
type Service struct {
	repos  repository.Repositories
	events Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repos repository.Repositories, events Publisher, log *zap.Logger) *Service {
	return &Service{
		repos:  repos,
		events: events,
		log:    log.Named("friendship"),
		now:    time.Now,
	}
}

// SendRequest asks friendID to become a friend of userID. When friendID has
// already asked userID, the request accepts that pending request instead.
func (s *Service) SendRequest(ctx context.Context, userID, friendID uint) (*models.Friendship, error) {
	return s.run(ctx, OpRequest, userID, friendID)
}

// AcceptRequest accepts the pending request friendID sent to userID.
func (s *Service) AcceptRequest(ctx context.Context, userID, friendID uint) (*models.Friendship, error) {
	return s.run(ctx, OpAccept, userID, friendID)
}

// Block makes userID the blocker of friendID. Administrators cannot be blocked.
func (s *Service) Block(ctx context.Context, userID, friendID uint) (*models.Friendship, error) {
	return s.run(ctx, OpBlock, userID, friendID)
}

// Unblock erases the edge when userID blocked friendID. It is a no-op when
// the pair is not blocked.
func (s *Service) Unblock(ctx context.Context, userID, friendID uint) error {
	_, err := s.run(ctx, OpUnblock, userID, friendID)
	return err
}

// Unfriend demotes a friendship to a pending request from friendID to userID,
// so friendID keeps following userID.
func (s *Service) Unfriend(ctx context.Context, userID, friendID uint) (*models.Friendship, error) {
	return s.run(ctx, OpUnfriend, userID, friendID)
}

func (s *Service) run(ctx context.Context, op Operation, actor, target uint) (*models.Friendship, error) {
	f, changed, err := s.transition(ctx, op, actor, target)
	metrics.RecordTransition(string(op), err)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			s.log.Error("friendship operation failed",
				zap.String("operation", string(op)), zap.Uint("user_id", actor), zap.Uint("friend_id", target), zap.Error(err))
		} else {
			s.log.Warn("friendship operation rejected",
				zap.String("operation", string(op)), zap.Uint("user_id", actor), zap.Uint("friend_id", target), zap.Error(err))
		}
		return nil, err
	}
	if !changed {
		return f, nil
	}

	payload := hub.RelationshipChanged{Operation: string(op), UserID: actor, FriendID: target}
	if f != nil {
		payload.InitiatorID = f.InitiatorID
		payload.Status = string(f.Status)
	}
	s.events.Publish(ctx, hub.Event{Type: hub.EventRelationshipChanged, Payload: payload}, actor, target)
	return f, nil
}

// transition applies op inside one transaction and reports whether anything was written.
func (s *Service) transition(ctx context.Context, op Operation, actor, target uint) (*models.Friendship, bool, error) {
	if actor == target {
		return nil, false, ErrSelfTarget
	}

	var (
		result  *models.Friendship
		changed bool
	)
	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		if _, err := tx.Users().FindByID(ctx, actor); err != nil {
			return err
		}
		targetUser, err := tx.Users().FindByID(ctx, target)
		if err != nil {
			return err
		}
		if op == OpBlock && targetUser.IsAdmin() {
			return ErrBlockAdmin
		}

		current, err := tx.Friendships().FindPair(ctx, actor, target, true)
		if err != nil {
			return err
		}
		t, err := resolve(current, op, actor)
		if err != nil {
			return err
		}
		if t.err != nil {
			return t.err
		}

		switch t.effect {
		case effectNone:
			s.log.Warn("friendship operation has no effect",
				zap.String("operation", string(op)), zap.Uint("user_id", actor), zap.Uint("friend_id", target))
			result = current
			return nil

		case effectCreate:
			f := models.NewFriendship(actor, target, t.next)
			if err := tx.Friendships().Create(ctx, f); err != nil {
				if apperr.KindOf(err) == apperr.KindAlreadyExists {
					return createConflict(op, actor, target)
				}
				return err
			}
			result = f

		case effectUpdate:
			if op == OpRequest {
				s.log.Info("reverse request found, accepting it",
					zap.Uint("user_id", actor), zap.Uint("friend_id", target))
			}
			t.apply(current, actor, target)
			now := s.now()
			current.UpdatedAt = &now
			if err := tx.Friendships().Save(ctx, current); err != nil {
				return err
			}
			result = current

		case effectDelete:
			if err := tx.Friendships().Delete(ctx, current); err != nil {
				return err
			}
			result = nil
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		s.log.Info("friendship updated",
			zap.String("operation", string(op)),
			zap.Uint("user_id", actor),
			zap.Uint("friend_id", target),
			zap.String("status", statusName(result)),
		)
	}
	return result, changed, nil
}

// createConflict is returned when a concurrent transaction created the pair
// between our lookup and insert. The error is terminal: do not retry here,
// the record that won the race stands and the client may repeat the call.
func createConflict(op Operation, actor, target uint) error {
	if op == OpRequest {
		return ErrRequestAlreadySent
	}
	return apperr.AlreadyExists("relationship between users %d and %d already exists", actor, target)
}

func statusName(f *models.Friendship) string {
	if f == nil {
		return "none"
	}
	return string(f.Status)
}

// ListFriends returns users with an accepted edge to userID.
func (s *Service) ListFriends(ctx context.Context, userID uint, req repository.PageRequest) (*repository.Page[models.UserSummary], error) {
	return s.list(ctx, userID, req, repository.FriendshipRepository.Friends)
}

// ListFollowers returns users with a pending request to userID.
func (s *Service) ListFollowers(ctx context.Context, userID uint, req repository.PageRequest) (*repository.Page[models.UserSummary], error) {
	return s.list(ctx, userID, req, repository.FriendshipRepository.Followers)
}

// ListFollowing returns users userID has a pending request to.
func (s *Service) ListFollowing(ctx context.Context, userID uint, req repository.PageRequest) (*repository.Page[models.UserSummary], error) {
	return s.list(ctx, userID, req, repository.FriendshipRepository.Following)
}

// ListBlacklist returns users blocked by userID.
func (s *Service) ListBlacklist(ctx context.Context, userID uint, req repository.PageRequest) (*repository.Page[models.UserSummary], error) {
	return s.list(ctx, userID, req, repository.FriendshipRepository.Blacklist)
}

type listFunc func(repository.FriendshipRepository, context.Context, uint, repository.PageRequest) (*repository.Page[models.User], error)

func (s *Service) list(ctx context.Context, userID uint, req repository.PageRequest, fn listFunc) (*repository.Page[models.UserSummary], error) {
	if _, err := s.repos.Users().FindByID(ctx, userID); err != nil {
		return nil, err
	}
	page, err := fn(s.repos.Friendships(), ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return repository.MapPage(page, Summarize), nil
}

// CommonFriends returns the users who are friends of both a and b.
func (s *Service) CommonFriends(ctx context.Context, a, b uint, req repository.PageRequest) (*repository.Page[models.UserSummary], error) {
	for _, id := range []uint{a, b} {
		if _, err := s.repos.Users().FindByID(ctx, id); err != nil {
			return nil, err
		}
	}
	page, err := s.repos.Friendships().CommonFriends(ctx, a, b, req)
	if err != nil {
		return nil, err
	}
	return repository.MapPage(page, Summarize), nil
}

// IsBlockedByTarget reports whether target has blocked viewer.
func (s *Service) IsBlockedByTarget(ctx context.Context, viewer, target uint) (bool, error) {
	if viewer == target {
		return false, nil
	}
	f, err := s.repos.Friendships().FindPair(ctx, viewer, target, false)
	if err != nil {
		return false, err
	}
	return f != nil && f.Status == models.StatusBlocked && f.InitiatorID == target, nil
}

// Summarize projects a user onto the public listing shape.
func Summarize(u models.User) models.UserSummary {
	return models.UserSummary{ID: u.ID, Name: u.Name, Login: u.Login}
}
