package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"filmsocial/backend/internal/cache"
	"filmsocial/backend/internal/rating"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// region --- DTOs ---

// ReviewInput is a new review. user_id and film_id default to the caller and
// the film in the path; when given they must match them.
type ReviewInput struct {
	UserID *uint            `json:"user_id"`
	FilmID *uint            `json:"film_id"`
	Text   string           `json:"text" binding:"max=1000"`
	Rating *decimal.Decimal `json:"rating" binding:"required" example:"7.5"`
}

type ReviewResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	FilmID    uint      `json:"film_id"`
	UserName  string    `json:"user_name,omitempty"`
	Text      string    `json:"text"`
	Rating    string    `json:"rating" example:"7.5"`
	CreatedAt time.Time `json:"created_at"`
}

// endregion

// GetFilmReviews godoc
// @Summary      List a film's reviews
// @Tags         reviews
// @Produce      json
// @Param        id    path   int  true   "Film ID"
// @Param        page  query  int  false  "Page number" default(1)
// @Param        limit query  int  false  "Items per page" default(10)
// @Success      200  {object}  PaginatedResponse[ReviewResponse]
// @Failure      404  {object}  ErrorResponse
// @Router       /films/{id}/reviews [get]
func (h *Handler) GetFilmReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	req := pageRequest(c)
	key := fmt.Sprintf("%sreviews:%d:%d:%d", cache.FilmsPrefix, id, req.Page, req.Limit)

	resp, err := cache.Remember(c.Request.Context(), h.Cache, key, h.ShortTTL,
		func(ctx context.Context) (PaginatedResponse[ReviewResponse], error) {
			page, err := h.Ratings.ListReviews(ctx, id, req)
			if err != nil {
				return PaginatedResponse[ReviewResponse]{}, err
			}
			return NewPaginatedResponse(page, func(r rating.FilmReview) ReviewResponse {
				return ReviewResponse{
					ID:        r.ID,
					UserID:    r.UserID,
					FilmID:    id,
					UserName:  r.UserName,
					Text:      r.Text,
					Rating:    r.Rating.StringFixed(rating.Precision),
					CreatedAt: r.CreatedAt,
				}
			}), nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddReview godoc
// @Summary      Review a film
// @Description  One review per user and film. The film's rating is updated.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int          true  "Film ID"
// @Param        input body  ReviewInput  true  "Review"
// @Success      201  {object}  ReviewResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Already reviewed"
// @Router       /films/{id}/reviews [post]
func (h *Handler) AddReview(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	filmID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	in := rating.NewReview{UserID: me, FilmID: filmID, Text: input.Text, Rating: *input.Rating}
	if input.UserID != nil {
		in.UserID = *input.UserID
	}
	if input.FilmID != nil {
		in.FilmID = *input.FilmID
	}

	review, err := h.Ratings.AddReview(c.Request.Context(), me, filmID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ReviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		FilmID:    review.FilmID,
		Text:      review.Text,
		Rating:    review.Rating.StringFixed(rating.Precision),
		CreatedAt: review.CreatedAt,
	})
}

// DeleteReview godoc
// @Summary      Delete own review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id        path  int  true  "Film ID"
// @Param        reviewId  path  int  true  "Review ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse "Review of another user or film"
// @Failure      404  {object}  ErrorResponse
// @Router       /films/{id}/reviews/{reviewId} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	filmID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(c, "reviewId")
	if !ok {
		return
	}
	if err := h.Ratings.DeleteReview(c.Request.Context(), reviewID, filmID, me); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
