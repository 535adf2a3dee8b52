package handler

import (
	"net/http"

	"filmsocial/backend/internal/auth"
	"filmsocial/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterConfig configures authentication and throttling of the routes.
type RouterConfig struct {
	JWTSecret string
	// Users is consulted by the admin check on every admin request.
	Users     auth.UserFinder
	RateLimit rate.Limit
	RateBurst int
}

// RegisterRoutes mounts the API on router under /api/v1, plus /ping and /metrics.
func (h *Handler) RegisterRoutes(router *gin.Engine, cfg RouterConfig) {
	authRequired := auth.AuthMiddleware(cfg.JWTSecret)

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		authRoutes.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateBurst))
		{
			authRoutes.POST("/register", h.RegisterUser)
			authRoutes.POST("/login", h.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(authRequired)
		{
			userRoutes.GET("", h.ListUsers)
			userRoutes.GET("/me", h.GetMe)
			userRoutes.GET("/me/events", h.StreamEvents)
			userRoutes.GET("/:id", h.GetUserByID)
			userRoutes.PUT("/:id", h.UpdateUser)
			userRoutes.DELETE("/:id", h.DeleteUser)

			// Friendship routes
			userRoutes.PUT("/:id/friends/:friendId", h.SendFriendRequest)
			userRoutes.PUT("/:id/friends/:friendId/accept", h.AcceptFriendRequest)
			userRoutes.DELETE("/:id/friends/:friendId", h.Unfriend)
			userRoutes.PUT("/:id/friends/:friendId/block", h.BlockUser)
			userRoutes.DELETE("/:id/friends/:friendId/block", h.UnblockUser)

			userRoutes.GET("/:id/friends", h.ListFriends)
			userRoutes.GET("/:id/friends/common/:otherId", h.ListCommonFriends)
			userRoutes.GET("/:id/followers", h.ListFollowers)
			userRoutes.GET("/:id/following", h.ListFollowing)
			userRoutes.GET("/:id/blacklist", h.ListBlacklist)
		}

		// Public film routes
		filmRoutes := apiV1.Group("/films")
		filmRoutes.Use(auth.OptionalAuthMiddleware(cfg.JWTSecret))
		{
			filmRoutes.GET("", h.GetFilms)
			filmRoutes.GET("/popular", h.GetPopularFilms)
			filmRoutes.GET("/:id", h.GetFilmByID)
			filmRoutes.GET("/:id/reviews", h.GetFilmReviews)
		}

		// Film routes acting on behalf of the caller (protected)
		memberFilmRoutes := apiV1.Group("/films")
		memberFilmRoutes.Use(authRequired)
		{
			memberFilmRoutes.POST("/:id/reviews", h.AddReview)
			memberFilmRoutes.DELETE("/:id/reviews/:reviewId", h.DeleteReview)
			memberFilmRoutes.PUT("/:id/like", h.LikeFilm)
			memberFilmRoutes.DELETE("/:id/like", h.UnlikeFilm)
		}

		apiV1.GET("/genres", h.GetGenres)
		apiV1.GET("/genres/:id", h.GetGenreByID)
		apiV1.GET("/mpa", h.GetMpaRatings)
		apiV1.GET("/mpa/:id", h.GetMpaByID)

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(authRequired, auth.AdminMiddleware(cfg.Users))
		{
			adminUsers := adminRoutes.Group("/users")
			{
				adminUsers.PUT("/:id/role/admin", h.GrantAdmin)
				adminUsers.DELETE("/:id/role/admin", h.RevokeAdmin)
				adminUsers.PUT("/:id/enabled", h.EnableUser)
				adminUsers.DELETE("/:id/enabled", h.DisableUser)
			}

			adminFilms := adminRoutes.Group("/films")
			{
				adminFilms.POST("", h.CreateFilm)
				adminFilms.PUT("/:id", h.UpdateFilm)
				adminFilms.DELETE("/:id", h.DeleteFilm)
			}
		}
	}
}
