package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"filmsocial/backend/internal/auth"
	"filmsocial/backend/internal/cache"
	"filmsocial/backend/internal/catalog"
	"filmsocial/backend/internal/models"
	"filmsocial/backend/internal/rating"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// region --- DTOs ---

type FilmInput struct {
	Name        string  `json:"name" binding:"required" example:"Heat"`
	Description string  `json:"description" binding:"max=200"`
	ReleaseDate *string `json:"release_date" example:"1995-12-15"`
	Duration    int     `json:"duration" binding:"gte=0" example:"170"`
	MpaID       *uint   `json:"mpa_id" example:"4"`
	GenreIDs    []uint  `json:"genre_ids"` // IDs of the genres to associate with the film
}

// FilmUpdateInput is a partial update. Omitted fields, including genre_ids, are left unchanged.
type FilmUpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	ReleaseDate *string `json:"release_date"`
	Duration    *int    `json:"duration" binding:"omitempty,gte=0"`
	MpaID       *uint   `json:"mpa_id"`
	GenreIDs    []uint  `json:"genre_ids"`
}

type GenreResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Comedy"`
}

type MpaResponse struct {
	ID   uint   `json:"id" example:"3"`
	Name string `json:"name" example:"PG-13"`
}

type FilmResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ReleaseDate *string         `json:"release_date,omitempty"`
	Duration    int             `json:"duration"`
	Rating      *string         `json:"rating" example:"7.5"` // null until the film has a review
	Mpa         *MpaResponse    `json:"mpa,omitempty"`
	Genres      []GenreResponse `json:"genres"`
}

// FilmDetailResponse is a film as seen by the caller. Liked is set only for authenticated callers.
type FilmDetailResponse struct {
	FilmResponse
	Liked *bool `json:"liked,omitempty"`
}

// endregion

// region --- Film Handlers ---

// GetFilms godoc
// @Summary      List films
// @Tags         films
// @Produce      json
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[FilmResponse]
// @Router       /films [get]
func (h *Handler) GetFilms(c *gin.Context) {
	req := pageRequest(c)
	key := fmt.Sprintf("%slist:%d:%d", cache.FilmsPrefix, req.Page, req.Limit)

	resp, err := cache.Remember(c.Request.Context(), h.Cache, key, h.ShortTTL,
		func(ctx context.Context) (PaginatedResponse[FilmResponse], error) {
			page, err := h.Catalog.ListFilms(ctx, req)
			if err != nil {
				return PaginatedResponse[FilmResponse]{}, err
			}
			return NewPaginatedResponse(page, newFilmResponse), nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPopularFilms godoc
// @Summary      Most liked films
// @Tags         films
// @Produce      json
// @Param        count  query  int  false  "Number of films" default(10)
// @Success      200  {array}  FilmResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /films/popular [get]
func (h *Handler) GetPopularFilms(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(catalog.DefaultPopularCount)))
	if err != nil || count < 1 {
		badRequest(c, "count must be a positive number")
		return
	}
	key := fmt.Sprintf("%spopular:%d", cache.FilmsPrefix, count)

	resp, err := cache.Remember(c.Request.Context(), h.Cache, key, h.ShortTTL,
		func(ctx context.Context) ([]FilmResponse, error) {
			films, err := h.Catalog.PopularFilms(ctx, count)
			if err != nil {
				return nil, err
			}
			resp := make([]FilmResponse, 0, len(films))
			for _, f := range films {
				resp = append(resp, newFilmResponse(f))
			}
			return resp, nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetFilmByID godoc
// @Summary      Get film details
// @Tags         films
// @Produce      json
// @Param        id   path      int  true  "Film ID"
// @Description  With a valid token the response tells whether the caller likes the film.
// @Param        Authorization  header  string  false  "Bearer token"
// @Success      200  {object}  FilmDetailResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /films/{id} [get]
func (h *Handler) GetFilmByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := cache.Remember(c.Request.Context(), h.Cache, cache.FilmKey(id), h.ShortTTL,
		func(ctx context.Context) (FilmResponse, error) {
			film, err := h.Catalog.GetFilm(ctx, id)
			if err != nil {
				return FilmResponse{}, err
			}
			return newFilmResponse(*film), nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}

	detail := FilmDetailResponse{FilmResponse: resp}
	if viewer, ok := auth.UserID(c); ok {
		liked, err := h.Catalog.IsLiked(c.Request.Context(), id, viewer)
		if err != nil {
			h.respondError(c, err)
			return
		}
		detail.Liked = &liked
	}
	c.JSON(http.StatusOK, detail)
}

// CreateFilm godoc
// @Summary      Create a new film
// @Description  Admin only.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FilmInput true "Film Info"
// @Success      201  {object}  FilmResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/films [post]
func (h *Handler) CreateFilm(c *gin.Context) {
	var input FilmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	releaseDate, err := parseDate(input.ReleaseDate)
	if err != nil {
		badRequest(c, "Invalid release_date, expected YYYY-MM-DD")
		return
	}

	film, err := h.Catalog.CreateFilm(c.Request.Context(), catalog.FilmInput{
		Name:        input.Name,
		Description: input.Description,
		ReleaseDate: releaseDate,
		Duration:    input.Duration,
		MpaID:       input.MpaID,
		GenreIDs:    input.GenreIDs,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newFilmResponse(*film))
}

// UpdateFilm godoc
// @Summary      Update an existing film
// @Description  Admin only. The aggregate rating cannot be changed.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int              true  "Film ID"
// @Param        input body  FilmUpdateInput  true  "Fields to change"
// @Success      200  {object}  FilmResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/films/{id} [put]
func (h *Handler) UpdateFilm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input FilmUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	releaseDate, err := parseDate(input.ReleaseDate)
	if err != nil {
		badRequest(c, "Invalid release_date, expected YYYY-MM-DD")
		return
	}

	film, err := h.Catalog.UpdateFilm(c.Request.Context(), id, catalog.FilmUpdate{
		Name:        input.Name,
		Description: input.Description,
		ReleaseDate: releaseDate,
		Duration:    input.Duration,
		MpaID:       input.MpaID,
		GenreIDs:    input.GenreIDs,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFilmResponse(*film))
}

// DeleteFilm godoc
// @Summary      Delete a film
// @Description  Admin only. Removes the film's reviews and likes.
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  int  true  "Film ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/films/{id} [delete]
func (h *Handler) DeleteFilm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.DeleteFilm(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LikeFilm godoc
// @Summary      Like a film
// @Tags         films
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Film ID"
// @Success      200  {object}  FilmResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /films/{id}/like [put]
func (h *Handler) LikeFilm(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.Like(c.Request.Context(), id, me); err != nil {
		h.respondError(c, err)
		return
	}
	film, err := h.Catalog.GetFilm(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFilmResponse(*film))
}

// UnlikeFilm godoc
// @Summary      Remove a like
// @Tags         films
// @Security     BearerAuth
// @Param        id   path  int  true  "Film ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /films/{id}/like [delete]
func (h *Handler) UnlikeFilm(c *gin.Context) {
	me, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Catalog.Unlike(c.Request.Context(), id, me); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// endregion

// region --- Helpers ---

func newFilmResponse(film models.Film) FilmResponse {
	genres := make([]GenreResponse, 0, len(film.Genres))
	for _, g := range film.Genres {
		if g != nil {
			genres = append(genres, newGenreResponse(*g))
		}
	}
	var mpa *MpaResponse
	if film.Mpa != nil {
		m := newMpaResponse(*film.Mpa)
		mpa = &m
	}

	return FilmResponse{
		ID:          film.ID,
		Name:        film.Name,
		Description: film.Description,
		ReleaseDate: formatDate(film.ReleaseDate),
		Duration:    film.Duration,
		Rating:      formatRating(film.Rating),
		Mpa:         mpa,
		Genres:      genres,
	}
}

func formatRating(r decimal.NullDecimal) *string {
	if !r.Valid {
		return nil
	}
	s := r.Decimal.StringFixed(rating.Precision)
	return &s
}

// endregion
