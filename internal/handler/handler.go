// Package handler exposes the domain services over HTTP with gin.
package handler

import (
	"time"

	"filmsocial/backend/internal/account"
	"filmsocial/backend/internal/cache"
	"filmsocial/backend/internal/catalog"
	"filmsocial/backend/internal/friendship"
	"filmsocial/backend/internal/hub"
	"filmsocial/backend/internal/rating"

	"go.uber.org/zap"
)

// Handler holds the services behind the HTTP routes.
type Handler struct {
	Accounts    *account.Service
	Friendships *friendship.Service
	Catalog     *catalog.Service
	Ratings     *rating.Service
	Hub         *hub.Hub

	// Cache may be nil, in which case every read goes to the database.
	Cache    cache.Cache
	ShortTTL time.Duration
	LongTTL  time.Duration

	Log *zap.Logger

	// Heartbeat is the interval of keep-alive comments on event streams.
	Heartbeat time.Duration
}
