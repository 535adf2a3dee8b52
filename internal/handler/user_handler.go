package handler

import (
	"context"
	"fmt"
	"net/http"

	"filmsocial/backend/internal/account"
	"filmsocial/backend/internal/cache"
	"filmsocial/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Login    string  `json:"login" binding:"required" example:"testuser"`
	Name     string  `json:"name" example:"Test User"`
	Email    string  `json:"email" binding:"required,email" example:"test@example.com"`
	Password string  `json:"password" binding:"required,min=8" example:"password123"`
	Birthday *string `json:"birthday" example:"1990-05-17"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateUserInput is a partial profile update. Omitted fields are left unchanged.
type UpdateUserInput struct {
	Login    *string `json:"login" example:"testuser"`
	Name     *string `json:"name" example:"Test User"`
	Email    *string `json:"email" binding:"omitempty,email" example:"test@example.com"`
	Password *string `json:"password" binding:"omitempty,min=8" example:"password123"`
	Birthday *string `json:"birthday" example:"1990-05-17"`
}

// UserResponse defines the structure for a user's profile.
type UserResponse struct {
	ID       uint    `json:"id" example:"1"`
	Login    string  `json:"login" example:"testuser"`
	Name     string  `json:"name" example:"Test User"`
	Email    string  `json:"email" example:"test@example.com"`
	Birthday *string `json:"birthday,omitempty" example:"1990-05-17"`
	Role     string  `json:"role" example:"user"`
	Enabled  bool    `json:"enabled" example:"true"`
}

// TokenResponse is returned by registration and login.
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	birthday, err := parseDate(input.Birthday)
	if err != nil {
		badRequest(c, "Invalid birthday, expected YYYY-MM-DD")
		return
	}

	user, token, err := h.Accounts.Register(c.Request.Context(), account.Registration{
		Login:    input.Login,
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Birthday: birthday,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{Token: token, User: buildUserResponse(*user)})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with login/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      403  {object}  ErrorResponse "Account disabled"
// @Router       /auth/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, token, err := h.Accounts.Login(c.Request.Context(), input.Login, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token, User: buildUserResponse(*user)})
}

// endregion

// region --- User Handlers ---

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[UserResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	req := pageRequest(c)
	key := fmt.Sprintf("%slist:%d:%d", cache.UsersPrefix, req.Page, req.Limit)

	resp, err := cache.Remember(c.Request.Context(), h.Cache, key, h.ShortTTL,
		func(ctx context.Context) (PaginatedResponse[UserResponse], error) {
			page, err := h.Accounts.ListUsers(ctx, req)
			if err != nil {
				return PaginatedResponse[UserResponse]{}, err
			}
			return NewPaginatedResponse(page, buildUserResponse), nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMe godoc
// @Summary      Get current user's info
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.Accounts.GetUser(c.Request.Context(), me, me)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildUserResponse(*user))
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Users on the target's blacklist are denied access.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUserByID(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.Accounts.GetUser(c.Request.Context(), me, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildUserResponse(*user))
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  Users may update their own profile. Administrators may update any profile.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  int              true  "User ID"
// @Param        input  body  UpdateUserInput  true  "Fields to change"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	birthday, err := parseDate(input.Birthday)
	if err != nil {
		badRequest(c, "Invalid birthday, expected YYYY-MM-DD")
		return
	}

	user, err := h.Accounts.UpdateUser(c.Request.Context(), me, id, account.ProfileUpdate{
		Login:    input.Login,
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Birthday: birthday,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildUserResponse(*user))
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Removes the account with its reviews, likes and relationships.
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Accounts.DeleteUser(c.Request.Context(), me, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// endregion

// region --- Admin Handlers ---

// GrantAdmin godoc
// @Summary      Grant administrator rights
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/users/{id}/role/admin [put]
func (h *Handler) GrantAdmin(c *gin.Context) {
	h.adminUpdate(c, func(ctx context.Context, id uint) (*models.User, error) {
		return h.Accounts.SetAdmin(ctx, id, true)
	})
}

// RevokeAdmin godoc
// @Summary      Revoke administrator rights
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  UserResponse
// @Router       /admin/users/{id}/role/admin [delete]
func (h *Handler) RevokeAdmin(c *gin.Context) {
	h.adminUpdate(c, func(ctx context.Context, id uint) (*models.User, error) {
		return h.Accounts.SetAdmin(ctx, id, false)
	})
}

// EnableUser godoc
// @Summary      Enable a user account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  UserResponse
// @Router       /admin/users/{id}/enabled [put]
func (h *Handler) EnableUser(c *gin.Context) {
	h.adminUpdate(c, func(ctx context.Context, id uint) (*models.User, error) {
		return h.Accounts.SetEnabled(ctx, id, true)
	})
}

// DisableUser godoc
// @Summary      Disable a user account
// @Description  Disabled users can no longer log in.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  UserResponse
// @Router       /admin/users/{id}/enabled [delete]
func (h *Handler) DisableUser(c *gin.Context) {
	h.adminUpdate(c, func(ctx context.Context, id uint) (*models.User, error) {
		return h.Accounts.SetEnabled(ctx, id, false)
	})
}

func (h *Handler) adminUpdate(c *gin.Context, fn func(ctx context.Context, id uint) (*models.User, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := fn(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildUserResponse(*user))
}

// endregion

// region --- Helpers ---

func buildUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Login:    user.Login,
		Name:     user.Name,
		Email:    user.Email,
		Birthday: formatDate(user.Birthday),
		Role:     user.Role,
		Enabled:  user.Enabled,
	}
}

// endregion
