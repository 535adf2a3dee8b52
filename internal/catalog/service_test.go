package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"filmsocial/backend/internal/apperr"
	"filmsocial/backend/internal/hub"
	"filmsocial/backend/internal/models"
	"filmsocial/backend/internal/repository"
	"filmsocial/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type recorder struct{ events []hub.Event }

func (r *recorder) Publish(_ context.Context, event hub.Event, _ ...uint) {
	r.events = append(r.events, event)
}

func setup(t *testing.T) (*gorm.DB, *Service, *recorder) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	events := &recorder{}
	return db, NewService(repository.NewStore(db), events, zaptest.NewLogger(t)), events
}

func ptr[T any](v T) *T { return &v }

func genreNames(f *models.Film) []string {
	names := make([]string, 0, len(f.Genres))
	for _, g := range f.Genres {
		names = append(names, g.Name)
	}
	return names
}

func TestCreateFilm(t *testing.T) {
	_, svc, events := setup(t)
	ctx := context.Background()

	film, err := svc.CreateFilm(ctx, FilmInput{
		Name:        "Alien",
		Description: "In space no one can hear you scream.",
		ReleaseDate: ptr(time.Date(1979, time.May, 25, 0, 0, 0, 0, time.UTC)),
		Duration:    117,
		MpaID:       ptr(uint(4)),
		GenreIDs:    []uint{4, 6, 4},
	})
	require.NoError(t, err)

	assert.NotZero(t, film.ID)
	require.NotNil(t, film.Mpa)
	assert.Equal(t, "R", film.Mpa.Name)
	assert.Equal(t, []string{"Thriller", "Action"}, genreNames(film))
	assert.False(t, film.Rating.Valid)
	assert.Len(t, events.events, 1)
}

func TestCreateFilm_Validation(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	cases := map[string]FilmInput{
		"empty name":       {Name: " "},
		"long description": {Name: "x", Description: strings.Repeat("a", MaxDescriptionLength+1)},
		"too early":        {Name: "x", ReleaseDate: ptr(time.Date(1895, time.December, 27, 0, 0, 0, 0, time.UTC))},
		"future":           {Name: "x", ReleaseDate: ptr(time.Now().AddDate(1, 0, 0))},
		"negative length":  {Name: "x", Duration: -1},
		"unknown genre":    {Name: "x", GenreIDs: []uint{99}},
		"unknown mpa":      {Name: "x", MpaID: ptr(uint(99))},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateFilm(ctx, in)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}

	var n int64
	require.NoError(t, db.Model(&models.Film{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateFilm_PartialAndKeepsRating(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()

	film, err := svc.CreateFilm(ctx, FilmInput{Name: "Heat", Duration: 170, MpaID: ptr(uint(4)), GenreIDs: []uint{2}})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Film{}).Where("id = ?", film.ID).Update("rating", "8.1").Error)

	updated, err := svc.UpdateFilm(ctx, film.ID, FilmUpdate{Name: ptr("Heat (1995)"), GenreIDs: []uint{4, 6}})
	require.NoError(t, err)

	assert.Equal(t, "Heat (1995)", updated.Name)
	assert.Equal(t, 170, updated.Duration)
	assert.Equal(t, "R", updated.Mpa.Name)
	assert.Equal(t, []string{"Thriller", "Action"}, genreNames(updated))
	require.True(t, updated.Rating.Valid)
	assert.Equal(t, "8.1", updated.Rating.Decimal.StringFixed(1))

	_, err = svc.UpdateFilm(ctx, 999, FilmUpdate{Name: ptr("nope")})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteFilm_RemovesReviewsAndLikes(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice", models.RoleUser)
	film := testutil.CreateFilm(t, db, "Heat")

	require.NoError(t, svc.Like(ctx, film.ID, user.ID))
	require.NoError(t, db.Omit("User", "Film").Create(&models.Review{UserID: user.ID, FilmID: film.ID, Rating: testDecimal("7.0")}).Error)

	require.NoError(t, svc.DeleteFilm(ctx, film.ID))

	var reviews, likes int64
	require.NoError(t, db.Model(&models.Review{}).Count(&reviews).Error)
	require.NoError(t, db.Model(&models.UserLike{}).Count(&likes).Error)
	assert.Zero(t, reviews)
	assert.Zero(t, likes)

	err := svc.DeleteFilm(ctx, film.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLikesAndPopular(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)
	heat := testutil.CreateFilm(t, db, "Heat")
	ronin := testutil.CreateFilm(t, db, "Ronin")
	alien := testutil.CreateFilm(t, db, "Alien")

	require.NoError(t, svc.Like(ctx, ronin.ID, alice.ID))
	require.NoError(t, svc.Like(ctx, ronin.ID, bob.ID))
	require.NoError(t, svc.Like(ctx, ronin.ID, bob.ID))
	require.NoError(t, svc.Like(ctx, alien.ID, alice.ID))

	popular, err := svc.PopularFilms(ctx, 10)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, []uint{ronin.ID, alien.ID, heat.ID}, []uint{popular[0].ID, popular[1].ID, popular[2].ID})

	require.NoError(t, svc.Unlike(ctx, ronin.ID, alice.ID))
	require.NoError(t, svc.Unlike(ctx, ronin.ID, bob.ID))
	popular, err = svc.PopularFilms(ctx, 1)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, alien.ID, popular[0].ID)

	err = svc.Like(ctx, 999, alice.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	err = svc.Like(ctx, heat.ID, 999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestIsLiked(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	bob := testutil.CreateUser(t, db, "bob", models.RoleUser)
	heat := testutil.CreateFilm(t, db, "Heat")

	require.NoError(t, svc.Like(ctx, heat.ID, alice.ID))

	liked, err := svc.IsLiked(ctx, heat.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = svc.IsLiked(ctx, heat.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, svc.Unlike(ctx, heat.ID, alice.ID))
	liked, err = svc.IsLiked(ctx, heat.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLookups(t *testing.T) {
	_, svc, _ := setup(t)
	ctx := context.Background()

	genres, err := svc.Genres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 6)
	assert.Equal(t, "Comedy", genres[0].Name)

	mpa, err := svc.Mpa(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "PG-13", mpa.Name)

	_, err = svc.Genre(ctx, 42)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	ratings, err := svc.MpaRatings(ctx)
	require.NoError(t, err)
	assert.Len(t, ratings, 5)
}

func TestListFilms(t *testing.T) {
	db, svc, _ := setup(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		testutil.CreateFilm(t, db, name)
	}

	page, err := svc.ListFilms(ctx, repository.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "C", page.Items[0].Name)
	require.NotNil(t, page.Items[0].Mpa)
	assert.Equal(t, "G", page.Items[0].Mpa.Name)
}
