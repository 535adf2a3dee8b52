package handler

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"filmsocial/backend/internal/account"
	"filmsocial/backend/internal/cache"
	"filmsocial/backend/internal/catalog"
	"filmsocial/backend/internal/friendship"
	"filmsocial/backend/internal/hub"
	"filmsocial/backend/internal/middleware"
	"filmsocial/backend/internal/models"
	"filmsocial/backend/internal/rating"
	"filmsocial/backend/internal/repository"
	"filmsocial/backend/internal/testutil"
	"filmsocial/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	hub    *hub.Hub
	router *gin.Engine
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zaptest.NewLogger(t)

	store := repository.NewStore(db)
	events := hub.New(log)
	local := cache.NewLocal(time.Minute)
	t.Cleanup(local.Close)
	events.AddListener(cache.Invalidator(local, log))

	friendships := friendship.NewService(store, events, log)
	ratings := rating.NewService(store, events, log)
	h := &Handler{
		Accounts:    account.NewService(store, friendships, ratings, events, account.TokenConfig{Secret: secret, TTL: time.Hour}, log),
		Friendships: friendships,
		Catalog:     catalog.NewService(store, events, log),
		Ratings:     ratings,
		Hub:         events,
		Cache:       local,
		ShortTTL:    time.Minute,
		LongTTL:     time.Hour,
		Log:         log,
		Heartbeat:   time.Hour,
	}

	router := gin.New()
	router.Use(middleware.TraceID(), middleware.Recovery(log))
	h.RegisterRoutes(router, RouterConfig{JWTSecret: secret, Users: store.Users()})

	return &testEnv{t: t, db: db, hub: events, router: router}
}

// user creates an account directly in the database and returns it with a token.
func (e *testEnv) user(login, role string) (*models.User, string) {
	e.t.Helper()
	u := testutil.CreateUser(e.t, e.db, login, role)
	token, err := jwt.GenerateToken(u.ID, role, secret, time.Hour)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func userPath(format string, args ...interface{}) string {
	return "/api/v1/users" + fmt.Sprintf(format, args...)
}

func TestPing(t *testing.T) {
	env := setup(t)
	w := env.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestRegisterAndLogin(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/api/v1/auth/register", "", RegisterInput{
		Login: "neo", Email: "neo@example.com", Password: "password123", Birthday: ptr("1990-05-17"),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[TokenResponse](t, w)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "neo", registered.User.Name)
	assert.Equal(t, models.RoleUser, registered.User.Role)
	require.NotNil(t, registered.User.Birthday)
	assert.Equal(t, "1990-05-17", *registered.User.Birthday)

	w = env.do(http.MethodPost, "/api/v1/auth/register", "", RegisterInput{
		Login: "neo", Email: "other@example.com", Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, "/api/v1/auth/register", "", RegisterInput{
		Login: "short", Email: "short@example.com", Password: "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/v1/auth/login", "", LoginInput{Login: "neo@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	loggedIn := decode[TokenResponse](t, w)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	w = env.do(http.MethodGet, "/api/v1/users/me", loggedIn.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "neo", decode[UserResponse](t, w).Login)

	w = env.do(http.MethodPost, "/api/v1/auth/login", "", LoginInput{Login: "neo", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setup(t)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/v1/users", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPut, "/api/v1/films/1/like", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/v1/admin/films", "", FilmInput{Name: "x"}).Code)
}

func TestFriendshipFlow(t *testing.T) {
	env := setup(t)
	alice, aliceToken := env.user("alice", models.RoleUser)
	bob, bobToken := env.user("bob", models.RoleUser)

	// Populate the cache before the relationship exists.
	w := env.do(http.MethodGet, userPath("/%d/friends", alice.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[PaginatedResponse[models.UserSummary]](t, w).Data)

	w = env.do(http.MethodPut, userPath("/%d/friends/%d", alice.ID, bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sent := decode[FriendshipResponse](t, w)
	assert.Equal(t, string(models.StatusRequested), sent.Status)
	assert.Equal(t, alice.ID, sent.InitiatorID)
	assert.Equal(t, bob.ID, sent.FriendID)

	w = env.do(http.MethodPut, userPath("/%d/friends/%d", alice.ID, bob.ID), aliceToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodGet, userPath("/%d/followers", bob.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	followers := decode[PaginatedResponse[models.UserSummary]](t, w)
	require.Len(t, followers.Data, 1)
	assert.Equal(t, alice.ID, followers.Data[0].ID)

	w = env.do(http.MethodPut, userPath("/%d/friends/%d/accept", bob.ID, alice.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(models.StatusAccepted), decode[FriendshipResponse](t, w).Status)

	w = env.do(http.MethodGet, userPath("/%d/friends", alice.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	friends := decode[PaginatedResponse[models.UserSummary]](t, w)
	require.Len(t, friends.Data, 1, "cached listing must be invalidated")
	assert.Equal(t, bob.ID, friends.Data[0].ID)
	assert.Equal(t, int64(1), friends.Meta.TotalItems)

	w = env.do(http.MethodDelete, userPath("/%d/friends/%d", alice.ID, bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	unfriended := decode[FriendshipResponse](t, w)
	assert.Equal(t, string(models.StatusRequested), unfriended.Status)
	assert.Equal(t, bob.ID, unfriended.InitiatorID)
	assert.NotNil(t, unfriended.UpdatedAt)
}

func TestFriendshipActsOnlyOnOwnBehalf(t *testing.T) {
	env := setup(t)
	alice, _ := env.user("alice", models.RoleUser)
	bob, bobToken := env.user("bob", models.RoleUser)

	w := env.do(http.MethodPut, userPath("/%d/friends/%d", alice.ID, bob.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPut, userPath("/%d/friends/%d", bob.ID, bob.ID), bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPut, userPath("/%d/friends/%d", bob.ID, 999), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlockHidesProfile(t *testing.T) {
	env := setup(t)
	alice, aliceToken := env.user("alice", models.RoleUser)
	bob, bobToken := env.user("bob", models.RoleUser)
	admin, _ := env.user("root", models.RoleAdmin)

	w := env.do(http.MethodPut, userPath("/%d/friends/%d/block", alice.ID, bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(models.StatusBlocked), decode[FriendshipResponse](t, w).Status)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, userPath("/%d", alice.ID), bobToken, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, userPath("/%d", bob.ID), aliceToken, nil).Code)

	w = env.do(http.MethodGet, userPath("/%d/blacklist", alice.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[PaginatedResponse[models.UserSummary]](t, w).Data, 1)

	// Only the blocker may unblock.
	assert.Equal(t, http.StatusConflict, env.do(http.MethodDelete, userPath("/%d/friends/%d/block", bob.ID, alice.ID), bobToken, nil).Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, userPath("/%d/friends/%d/block", alice.ID, bob.ID), aliceToken, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, userPath("/%d", alice.ID), bobToken, nil).Code)

	w = env.do(http.MethodPut, userPath("/%d/friends/%d/block", alice.ID, admin.ID), aliceToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCommonFriends(t *testing.T) {
	env := setup(t)
	a, aToken := env.user("a", models.RoleUser)
	b, bToken := env.user("b", models.RoleUser)
	c, cToken := env.user("c", models.RoleUser)

	befriend := func(from uint, fromToken string, to uint, toToken string) {
		require.Equal(t, http.StatusOK, env.do(http.MethodPut, userPath("/%d/friends/%d", from, to), fromToken, nil).Code)
		require.Equal(t, http.StatusOK, env.do(http.MethodPut, userPath("/%d/friends/%d/accept", to, from), toToken, nil).Code)
	}
	befriend(a.ID, aToken, c.ID, cToken)
	befriend(b.ID, bToken, c.ID, cToken)

	w := env.do(http.MethodGet, userPath("/%d/friends/common/%d", a.ID, b.ID), aToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	common := decode[PaginatedResponse[models.UserSummary]](t, w)
	require.Len(t, common.Data, 1)
	assert.Equal(t, c.ID, common.Data[0].ID)
}

func TestFilmAdminAndReviews(t *testing.T) {
	env := setup(t)
	_, adminToken := env.user("root", models.RoleAdmin)
	alice, aliceToken := env.user("alice", models.RoleUser)
	_, bobToken := env.user("bob", models.RoleUser)

	input := FilmInput{Name: "Heat", Description: "LA crime saga", ReleaseDate: ptr("1995-12-15"), Duration: 170, MpaID: ptr(uint(4)), GenreIDs: []uint{2, 4}}
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/v1/admin/films", aliceToken, input).Code)

	w := env.do(http.MethodPost, "/api/v1/admin/films", adminToken, input)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	film := decode[FilmResponse](t, w)
	assert.Nil(t, film.Rating)
	assert.Len(t, film.Genres, 2)
	require.NotNil(t, film.Mpa)
	assert.Equal(t, "R", film.Mpa.Name)

	filmPath := fmt.Sprintf("/api/v1/films/%d", film.ID)

	// Warm the detail cache.
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, filmPath, "", nil).Code)

	w = env.do(http.MethodPost, filmPath+"/reviews", aliceToken, map[string]interface{}{"text": "Great", "rating": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	review := decode[ReviewResponse](t, w)
	assert.Equal(t, "5.0", review.Rating)
	assert.Equal(t, alice.ID, review.UserID)

	w = env.do(http.MethodPost, filmPath+"/reviews", aliceToken, map[string]interface{}{"text": "Again", "rating": 6})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, filmPath+"/reviews", bobToken, map[string]interface{}{"rating": "10.5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, filmPath+"/reviews", bobToken, map[string]interface{}{"user_id": alice.ID, "rating": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, filmPath+"/reviews", bobToken, map[string]interface{}{"rating": "8.5"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bobReview := decode[ReviewResponse](t, w)

	w = env.do(http.MethodGet, filmPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[FilmResponse](t, w)
	require.NotNil(t, detail.Rating, "cached detail must be invalidated")
	assert.Equal(t, "6.8", *detail.Rating)

	w = env.do(http.MethodGet, filmPath+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[PaginatedResponse[ReviewResponse]](t, w).Data, 2)

	// Reviews can only be deleted by their author.
	w = env.do(http.MethodDelete, fmt.Sprintf("%s/reviews/%d", filmPath, bobReview.ID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodDelete, fmt.Sprintf("%s/reviews/%d", filmPath, review.ID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(http.MethodDelete, fmt.Sprintf("%s/reviews/%d", filmPath, bobReview.ID), bobToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, filmPath, "", nil)
	assert.Nil(t, decode[FilmResponse](t, w).Rating)

	w = env.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/films/%d", film.ID), adminToken, FilmUpdateInput{Name: ptr("Heat (1995)")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[FilmResponse](t, w)
	assert.Equal(t, "Heat (1995)", updated.Name)
	assert.Len(t, updated.Genres, 2)

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/films/%d", film.ID), adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, filmPath, "", nil).Code)
}

func TestLikesAndPopular(t *testing.T) {
	env := setup(t)
	_, aliceToken := env.user("alice", models.RoleUser)
	_, bobToken := env.user("bob", models.RoleUser)
	first := testutil.CreateFilm(t, env.db, "First")
	second := testutil.CreateFilm(t, env.db, "Second")

	w := env.do(http.MethodGet, "/api/v1/films/popular?count=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	popular := decode[[]FilmResponse](t, w)
	require.Len(t, popular, 2)
	assert.Equal(t, first.ID, popular[0].ID)

	for _, token := range []string{aliceToken, bobToken} {
		w = env.do(http.MethodPut, fmt.Sprintf("/api/v1/films/%d/like", second.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = env.do(http.MethodGet, "/api/v1/films/popular?count=2", "", nil)
	popular = decode[[]FilmResponse](t, w)
	require.Len(t, popular, 2)
	assert.Equal(t, second.ID, popular[0].ID, "cached ranking must be invalidated")

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, fmt.Sprintf("/api/v1/films/%d/like", second.ID), aliceToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPut, "/api/v1/films/999/like", aliceToken, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/v1/films/popular?count=0", "", nil).Code)

	w = env.do(http.MethodGet, "/api/v1/films?page=1&limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[PaginatedResponse[FilmResponse]](t, w)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int64(2), page.Meta.TotalItems)
	assert.Equal(t, 2, page.Meta.TotalPages)
}

func TestFilmDetailsShowViewerLike(t *testing.T) {
	env := setup(t)
	_, aliceToken := env.user("alice", models.RoleUser)
	_, bobToken := env.user("bob", models.RoleUser)
	film := testutil.CreateFilm(t, env.db, "Heat")
	filmPath := fmt.Sprintf("/api/v1/films/%d", film.ID)

	// Anonymous callers get no liked flag.
	w := env.do(http.MethodGet, filmPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"liked"`)

	require.Equal(t, http.StatusOK, env.do(http.MethodPut, filmPath+"/like", aliceToken, nil).Code)

	w = env.do(http.MethodGet, filmPath, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[FilmDetailResponse](t, w)
	assert.Equal(t, film.ID, detail.ID)
	require.NotNil(t, detail.Liked)
	assert.True(t, *detail.Liked)

	// The film itself comes from the cache now; the flag is still per caller.
	w = env.do(http.MethodGet, filmPath, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail = decode[FilmDetailResponse](t, w)
	require.NotNil(t, detail.Liked)
	assert.False(t, *detail.Liked)

	// An invalid token on a public route is treated as anonymous.
	w = env.do(http.MethodGet, filmPath, "garbage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"liked"`)
}

func TestLookups(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodGet, "/api/v1/genres", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]GenreResponse](t, w), 6)

	w = env.do(http.MethodGet, "/api/v1/mpa/3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PG-13", decode[MpaResponse](t, w).Name)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/v1/genres/42", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/v1/mpa/abc", "", nil).Code)
}

func TestAdminAccountManagement(t *testing.T) {
	env := setup(t)
	_, adminToken := env.user("root", models.RoleAdmin)
	alice, aliceToken := env.user("alice", models.RoleUser)
	bob, _ := env.user("bob", models.RoleUser)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/role/admin", bob.ID), aliceToken, nil).Code)

	w := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d/enabled", alice.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[UserResponse](t, w).Enabled)

	w = env.do(http.MethodPost, "/api/v1/auth/login", "", LoginInput{Login: "alice", Password: testutil.TestPassword})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/users/%d/role/admin", bob.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleAdmin, decode[UserResponse](t, w).Role)

	// Another user's profile can only be changed by an administrator.
	w = env.do(http.MethodPut, userPath("/%d", bob.ID), aliceToken, UpdateUserInput{Name: ptr("Robert")})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(http.MethodPut, userPath("/%d", bob.ID), adminToken, UpdateUserInput{Name: ptr("Robert")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Robert", decode[UserResponse](t, w).Name)

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, userPath("/%d", bob.ID), adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, userPath("/%d", bob.ID), adminToken, nil).Code)
}

func TestStreamEvents(t *testing.T) {
	env := setup(t)
	alice, aliceToken := env.user("alice", models.RoleUser)
	bob, bobToken := env.user("bob", models.RoleUser)

	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/users/me/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+bobToken)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readUntil := func(substr string) string {
		for lines.Scan() {
			if strings.Contains(lines.Text(), substr) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q: %v", substr, lines.Err())
		return ""
	}

	// The client is subscribed before the connected event is written.
	readUntil("event: connected")
	require.Equal(t, 1, env.hub.ClientCount(bob.ID))

	w := env.do(http.MethodPut, userPath("/%d/friends/%d", alice.ID, bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := strings.TrimPrefix(readUntil(hub.EventRelationshipChanged), "data: ")
	var event struct {
		Type    string                  `json:"type"`
		Payload hub.RelationshipChanged `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	assert.Equal(t, hub.EventRelationshipChanged, event.Type)
	assert.Equal(t, alice.ID, event.Payload.UserID)
	assert.Equal(t, bob.ID, event.Payload.FriendID)
	assert.Equal(t, string(models.StatusRequested), event.Payload.Status)
}

func ptr[T any](v T) *T { return &v }
