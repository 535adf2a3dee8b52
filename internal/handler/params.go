package handler

import (
	"net/http"
	"strconv"
	"time"

	"filmsocial/backend/internal/auth"
	"filmsocial/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// pathID parses a positive numeric path parameter. It writes a 400 and returns false on failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pageRequest reads the page and limit query parameters.
func pageRequest(c *gin.Context) repository.PageRequest {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repository.DefaultPageSize)))
	if err != nil {
		limit = repository.DefaultPageSize
	}
	return repository.PageRequest{Page: page, Limit: limit}.Normalize()
}

// currentUser returns the authenticated user id. It writes a 401 and returns false when absent.
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
	}
	return id, ok
}

// actingSelf checks that the :id path parameter names the authenticated user.
// Relationship changes can only be made on one's own behalf.
func actingSelf(c *gin.Context) (uint, bool) {
	me, ok := currentUser(c)
	if !ok {
		return 0, false
	}
	id, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	if id != me {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "This action can only be performed on your own behalf"})
		return 0, false
	}
	return me, true
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
