package handler

import (
	"context"
	"fmt"
	"net/http"

	"filmsocial/backend/internal/cache"
	"filmsocial/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// GetGenres godoc
// @Summary      List all genres
// @Tags         genres
// @Produce      json
// @Success      200  {array}  GenreResponse
// @Router       /genres [get]
func (h *Handler) GetGenres(c *gin.Context) {
	resp, err := cache.Remember(c.Request.Context(), h.Cache, cache.LookupPrefix+"genres", h.LongTTL,
		func(ctx context.Context) ([]GenreResponse, error) {
			genres, err := h.Catalog.Genres(ctx)
			if err != nil {
				return nil, err
			}
			resp := make([]GenreResponse, 0, len(genres))
			for _, g := range genres {
				resp = append(resp, newGenreResponse(g))
			}
			return resp, nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetGenreByID godoc
// @Summary      Get a genre
// @Tags         genres
// @Produce      json
// @Param        id   path      int  true  "Genre ID"
// @Success      200  {object}  GenreResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /genres/{id} [get]
func (h *Handler) GetGenreByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	key := fmt.Sprintf("%sgenre:%d", cache.LookupPrefix, id)
	resp, err := cache.Remember(c.Request.Context(), h.Cache, key, h.LongTTL,
		func(ctx context.Context) (GenreResponse, error) {
			g, err := h.Catalog.Genre(ctx, id)
			if err != nil {
				return GenreResponse{}, err
			}
			return newGenreResponse(*g), nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMpaRatings godoc
// @Summary      List all MPA age ratings
// @Tags         mpa
// @Produce      json
// @Success      200  {array}  MpaResponse
// @Router       /mpa [get]
func (h *Handler) GetMpaRatings(c *gin.Context) {
	resp, err := cache.Remember(c.Request.Context(), h.Cache, cache.LookupPrefix+"mpa", h.LongTTL,
		func(ctx context.Context) ([]MpaResponse, error) {
			ratings, err := h.Catalog.MpaRatings(ctx)
			if err != nil {
				return nil, err
			}
			resp := make([]MpaResponse, 0, len(ratings))
			for _, m := range ratings {
				resp = append(resp, newMpaResponse(m))
			}
			return resp, nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMpaByID godoc
// @Summary      Get an MPA age rating
// @Tags         mpa
// @Produce      json
// @Param        id   path      int  true  "MPA ID"
// @Success      200  {object}  MpaResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /mpa/{id} [get]
func (h *Handler) GetMpaByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	key := fmt.Sprintf("%smpa:%d", cache.LookupPrefix, id)
	resp, err := cache.Remember(c.Request.Context(), h.Cache, key, h.LongTTL,
		func(ctx context.Context) (MpaResponse, error) {
			m, err := h.Catalog.Mpa(ctx, id)
			if err != nil {
				return MpaResponse{}, err
			}
			return newMpaResponse(*m), nil
		})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func newGenreResponse(g models.Genre) GenreResponse {
	return GenreResponse{ID: g.ID, Name: g.Name}
}

func newMpaResponse(m models.Mpa) MpaResponse {
	return MpaResponse{ID: m.ID, Name: m.Name}
}
