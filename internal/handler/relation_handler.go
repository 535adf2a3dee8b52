package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"filmsocial/backend/internal/cache"
	"filmsocial/backend/internal/models"
	"filmsocial/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// FriendshipResponse is the state of the edge between the acting user and the friend.
type FriendshipResponse struct {
	UserID      uint       `json:"user_id" example:"1"`
	FriendID    uint       `json:"friend_id" example:"2"`
	InitiatorID uint       `json:"initiator_id" example:"1"`
	Status      string     `json:"status" example:"requested"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// endregion

// region --- Relationship Handlers ---

// SendFriendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request (follows the user). If the other user already sent one, it is accepted.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int  true  "Acting User ID"
// @Param        friendId  path      int  true  "Target User ID"
// @Success      200  {object}  FriendshipResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Blocked"
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      409  {object}  ErrorResponse "Request already sent"
// @Router       /users/{id}/friends/{friendId} [put]
func (h *Handler) SendFriendRequest(c *gin.Context) {
	h.transition(c, h.Friendships.SendRequest)
}

// AcceptFriendRequest godoc
// @Summary      Accept friend request
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int  true  "Acting User ID"
// @Param        friendId  path      int  true  "Requesting User ID"
// @Success      200  {object}  FriendshipResponse
// @Failure      404  {object}  ErrorResponse "No pending request"
// @Failure      409  {object}  ErrorResponse
// @Router       /users/{id}/friends/{friendId}/accept [put]
func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	h.transition(c, h.Friendships.AcceptRequest)
}

// Unfriend godoc
// @Summary      Remove a friend
// @Description  The former friend keeps following the acting user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int  true  "Acting User ID"
// @Param        friendId  path      int  true  "Friend User ID"
// @Success      200  {object}  FriendshipResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Not friends"
// @Router       /users/{id}/friends/{friendId} [delete]
func (h *Handler) Unfriend(c *gin.Context) {
	h.transition(c, h.Friendships.Unfriend)
}

// BlockUser godoc
// @Summary      Add a user to the blacklist
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int  true  "Acting User ID"
// @Param        friendId  path      int  true  "Blocked User ID"
// @Success      200  {object}  FriendshipResponse
// @Failure      409  {object}  ErrorResponse "Cannot block an administrator"
// @Router       /users/{id}/friends/{friendId}/block [put]
func (h *Handler) BlockUser(c *gin.Context) {
	h.transition(c, h.Friendships.Block)
}

// UnblockUser godoc
// @Summary      Remove a user from the blacklist
// @Tags         friendship
// @Security     BearerAuth
// @Param        id        path      int  true  "Acting User ID"
// @Param        friendId  path      int  true  "Blocked User ID"
// @Success      204
// @Failure      409  {object}  ErrorResponse "Only the blocker may unblock"
// @Router       /users/{id}/friends/{friendId}/block [delete]
func (h *Handler) UnblockUser(c *gin.Context) {
	me, ok := actingSelf(c)
	if !ok {
		return
	}
	friendID, ok := pathID(c, "friendId")
	if !ok {
		return
	}
	if err := h.Friendships.Unblock(c.Request.Context(), me, friendID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, userID, friendID uint) (*models.Friendship, error)) {
	me, ok := actingSelf(c)
	if !ok {
		return
	}
	friendID, ok := pathID(c, "friendId")
	if !ok {
		return
	}

	f, err := op(c.Request.Context(), me, friendID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if f == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, buildFriendshipResponse(*f, me))
}

// endregion

// region --- Relationship Listings ---

// ListFriends godoc
// @Summary      List a user's friends
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   int  true   "User ID"
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[models.UserSummary]
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/friends [get]
func (h *Handler) ListFriends(c *gin.Context) {
	h.listRelations(c, "friends", h.Friendships.ListFriends)
}

// ListFollowers godoc
// @Summary      List users with a pending request to the user
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   int  true   "User ID"
// @Success      200  {object}  PaginatedResponse[models.UserSummary]
// @Router       /users/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	h.listRelations(c, "followers", h.Friendships.ListFollowers)
}

// ListFollowing godoc
// @Summary      List users the user sent a pending request to
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   int  true   "User ID"
// @Success      200  {object}  PaginatedResponse[models.UserSummary]
// @Router       /users/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	h.listRelations(c, "following", h.Friendships.ListFollowing)
}

// ListBlacklist godoc
// @Summary      List users blocked by the user
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   int  true   "User ID"
// @Success      200  {object}  PaginatedResponse[models.UserSummary]
// @Router       /users/{id}/blacklist [get]
func (h *Handler) ListBlacklist(c *gin.Context) {
	h.listRelations(c, "blacklist", h.Friendships.ListBlacklist)
}

// ListCommonFriends godoc
// @Summary      List friends two users have in common
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   int  true   "User ID"
// @Param        otherId  path   int  true   "Other User ID"
// @Success      200  {object}  PaginatedResponse[models.UserSummary]
// @Router       /users/{id}/friends/common/{otherId} [get]
func (h *Handler) ListCommonFriends(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	otherID, ok := pathID(c, "otherId")
	if !ok {
		return
	}
	req := pageRequest(c)
	key := fmt.Sprintf("%scommon:%d:%d:%d:%d", cache.UsersPrefix, id, otherID, req.Page, req.Limit)

	resp, err := cache.Remember(c.Request.Context(), h.Cache, key, h.ShortTTL,
		func(ctx context.Context) (PaginatedResponse[models.UserSummary], error) {
			page, err := h.Friendships.CommonFriends(ctx, id, otherID, req)
			if err != nil {
				return PaginatedResponse[models.UserSummary]{}, err
			}
			return NewPaginatedResponse(page, identity[models.UserSummary]), nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type relationLister func(ctx context.Context, userID uint, req repository.PageRequest) (*repository.Page[models.UserSummary], error)

func (h *Handler) listRelations(c *gin.Context, kind string, list relationLister) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	req := pageRequest(c)
	key := fmt.Sprintf("%s%s:%d:%d:%d", cache.UsersPrefix, kind, id, req.Page, req.Limit)

	resp, err := cache.Remember(c.Request.Context(), h.Cache, key, h.ShortTTL,
		func(ctx context.Context) (PaginatedResponse[models.UserSummary], error) {
			page, err := list(ctx, id, req)
			if err != nil {
				return PaginatedResponse[models.UserSummary]{}, err
			}
			return NewPaginatedResponse(page, identity[models.UserSummary]), nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// endregion

// region --- Helpers ---

func buildFriendshipResponse(f models.Friendship, viewer uint) FriendshipResponse {
	return FriendshipResponse{
		UserID:      viewer,
		FriendID:    f.OtherParty(viewer),
		InitiatorID: f.InitiatorID,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// endregion
