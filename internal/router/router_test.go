package router

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jose "gopkg.in/go-jose/go-jose.v2"

	"github.com/iliyamo/casting-agency/internal/auth"
	"github.com/iliyamo/casting-agency/internal/config"
	"github.com/iliyamo/casting-agency/internal/handler"
	"github.com/iliyamo/casting-agency/internal/middleware"
	"github.com/iliyamo/casting-agency/internal/queue"
)

var authCfg = config.AuthConfig{
	Domain:      "casting.example.com",
	Audience:    "casting-api",
	ClientID:    "client-123",
	CallbackURL: "https://localhost:8080/login-results",
}

type staticKeys struct{ set *jose.JSONWebKeySet }

func (s staticKeys) KeyFunc(context.Context) (interface{}, error) { return s.set, nil }

type server struct {
	e      *echo.Echo
	h      *handler.Handler
	db     *memDB
	events *recorder
	key    *rsa.PrivateKey
}

func newServer(t *testing.T, before ...echo.MiddlewareFunc) *server {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	set := &jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{Key: &key.PublicKey, KeyID: "k1", Algorithm: "RS256", Use: "sig"}}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := newMemDB()
	events := &recorder{}
	h := handler.New(movieStore{db}, actorStore{db}, directorStore{db}, castingStore{db}, events, logger)
	v := auth.New(staticKeys{set}, authCfg.Audience, authCfg.Issuer(), time.Second, logger)

	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	RegisterRoutes(e, authCfg, map[string]handler.Check{
		"mysql": func(context.Context) error { return nil },
	})
	RegisterResources(e, h, v, before)

	return &server{e: e, h: h, db: db, events: events, key: key}
}

func (s *server) token(t *testing.T, exp time.Time, perms ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss": authCfg.Issuer(),
		"aud": authCfg.Audience,
		"sub": "auth0|tester",
		"exp": exp.Unix(),
	}
	if perms != nil {
		claims["permissions"] = perms
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

// producer holds every permission.
func (s *server) producer(t *testing.T) string {
	var perms []string
	for _, verb := range []string{"get", "post", "put", "delete"} {
		for _, res := range []string{"movies", "actors", "directors", "movieactors"} {
			perms = append(perms, verb+":"+res)
		}
	}
	return s.token(t, time.Now().Add(time.Hour), perms...)
}

func (s *server) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(bs)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (s *server) create(t *testing.T, tok, path string, body any, key string) uint64 {
	t.Helper()
	status, out := s.do(t, http.MethodPost, path, tok, body)
	require.Equal(t, http.StatusOK, status, "%v", out)
	require.Equal(t, true, out["success"])
	return uint64(out[key].(float64))
}

func assertError(t *testing.T, out map[string]any, status int, message string) {
	t.Helper()
	assert.Equal(t, map[string]any{"success": false, "error": float64(status), "message": message}, out)
}

func TestCastingScenario(t *testing.T) {
	s := newServer(t)
	tok := s.producer(t)

	d := s.create(t, tok, "/directors", map[string]any{"name": "D"}, "new_director")
	m := s.create(t, tok, "/movies", map[string]any{"title": "M", "director_id": d, "release_date": "2021-05-01"}, "new_movie")
	a := s.create(t, tok, "/actors", map[string]any{"name": "A"}, "new_actor")
	s.create(t, tok, "/movie_actors", map[string]any{"movie_id": m, "actor_id": a, "actor_pay": 500}, "new_movie_actor")

	status, out := s.do(t, http.MethodGet, "/movies/"+itoa(m), tok, nil)
	require.Equal(t, http.StatusOK, status)
	movie := out["movie"].(map[string]any)
	assert.Equal(t, "2021-05-01", movie["release_date"])
	assert.Equal(t, float64(d), movie["director_id"])
	assert.Equal(t, "D", movie["director"].(map[string]any)["name"])
	cast := movie["actors"].([]any)
	require.Len(t, cast, 1)
	assert.Equal(t, "A", cast[0].(map[string]any)["name"])
	assert.Equal(t, float64(500), cast[0].(map[string]any)["pay"])

	status, out = s.do(t, http.MethodGet, "/actors/"+itoa(a), tok, nil)
	require.Equal(t, http.StatusOK, status)
	movies := out["actor"].(map[string]any)["movies"].([]any)
	require.Len(t, movies, 1)
	assert.Equal(t, "M", movies[0].(map[string]any)["title"])

	s.h.Wait()
	assert.Len(t, s.events.all(), 4)
}

func TestActorRoundTrip(t *testing.T) {
	s := newServer(t)
	tok := s.producer(t)

	id := s.create(t, tok, "/actors", map[string]any{"name": "A", "age": 30, "gender": "m"}, "new_actor")
	status, out := s.do(t, http.MethodGet, "/actors/"+itoa(id), tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{
		"id": float64(id), "name": "A", "age": float64(30), "gender": "m", "movies": []any{},
	}, out["actor"])
}

func TestDirectorWithMoviesCannotBeDeleted(t *testing.T) {
	s := newServer(t)
	tok := s.producer(t)

	d := s.create(t, tok, "/directors", map[string]any{"name": "D"}, "new_director")
	m := s.create(t, tok, "/movies", map[string]any{"title": "M", "director_id": d}, "new_movie")

	status, out := s.do(t, http.MethodDelete, "/directors/"+itoa(d), tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assertError(t, out, http.StatusUnprocessableEntity, "unprocessable entity")

	status, _ = s.do(t, http.MethodDelete, "/movies/"+itoa(m), tok, nil)
	require.Equal(t, http.StatusOK, status)
	status, out = s.do(t, http.MethodDelete, "/directors/"+itoa(d), tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(d), out["deleted_director"])
}

func TestDeletesCascadeToCastings(t *testing.T) {
	for _, parent := range []string{"movies", "actors"} {
		t.Run(parent, func(t *testing.T) {
			s := newServer(t)
			tok := s.producer(t)

			d := s.create(t, tok, "/directors", map[string]any{"name": "D"}, "new_director")
			m := s.create(t, tok, "/movies", map[string]any{"title": "M", "director_id": d}, "new_movie")
			a := s.create(t, tok, "/actors", map[string]any{"name": "A"}, "new_actor")
			s.create(t, tok, "/movie_actors", map[string]any{"movie_id": m, "actor_id": a}, "new_movie_actor")
			s.create(t, tok, "/movie_actors", map[string]any{"movie_id": m, "actor_id": a, "actor_pay": 10}, "new_movie_actor")

			target := m
			if parent == "actors" {
				target = a
			}
			status, out := s.do(t, http.MethodDelete, "/"+parent+"/"+itoa(target), tok, nil)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, float64(target), out["deleted_"+strings.TrimSuffix(parent, "s")])

			status, out = s.do(t, http.MethodGet, "/movie_actors", tok, nil)
			require.Equal(t, http.StatusOK, status)
			assert.Empty(t, out["movie_actors"])

			s.h.Wait()
			var deleted []queue.EntityEvent
			for _, ev := range s.events.all() {
				if ev.Type == queue.EventDeleted {
					deleted = append(deleted, ev)
				}
			}
			require.Len(t, deleted, 1)
			assert.Equal(t, parent, deleted[0].Resource)
			assert.Equal(t, target, deleted[0].ID)
			assert.Equal(t, int64(2), deleted[0].Cascaded)
		})
	}
}

func TestMissingIDsAreBadRequests(t *testing.T) {
	s := newServer(t)
	tok := s.producer(t)
	d := s.create(t, tok, "/directors", map[string]any{"name": "D"}, "new_director")
	a := s.create(t, tok, "/actors", map[string]any{"name": "A"}, "new_actor")
	m := s.create(t, tok, "/movies", map[string]any{"title": "M", "director_id": d}, "new_movie")

	bodies := map[string]any{
		"movies":       map[string]any{"title": "T", "director_id": d},
		"actors":       map[string]any{"name": "N"},
		"directors":    map[string]any{"name": "N"},
		"movie_actors": map[string]any{"actor_id": a, "movie_id": m},
	}
	for res, body := range bodies {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			t.Run(method+" "+res, func(t *testing.T) {
				var b any
				if method == http.MethodPut {
					b = body
				}
				status, out := s.do(t, method, "/"+res+"/999", tok, b)
				assert.Equal(t, http.StatusBadRequest, status)
				assertError(t, out, http.StatusBadRequest, "bad request")
			})
		}
	}

	status, out := s.do(t, http.MethodGet, "/movies/abc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assertError(t, out, http.StatusBadRequest, "bad request")
}

func TestInvalidBodies(t *testing.T) {
	s := newServer(t)
	tok := s.producer(t)
	d := s.create(t, tok, "/directors", map[string]any{"name": "D"}, "new_director")

	tests := []struct {
		name, path string
		body       any
	}{
		{"missing title", "/movies", map[string]any{"director_id": d}},
		{"unknown director", "/movies", map[string]any{"title": "M", "director_id": 777}},
		{"bad date", "/movies", map[string]any{"title": "M", "director_id": d, "release_date": "05/01/2021"}},
		{"wrong type", "/actors", map[string]any{"name": "A", "age": "thirty"}},
		{"negative age", "/directors", map[string]any{"name": "D", "age": -1}},
		{"dangling casting", "/movie_actors", map[string]any{"actor_id": 1234, "movie_id": 5678}},
		{"empty body", "/actors", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := s.do(t, http.MethodPost, tt.path, tok, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assertError(t, out, http.StatusBadRequest, "bad request")
		})
	}
}

func TestAuthorizationFailures(t *testing.T) {
	s := newServer(t)
	hour := time.Now().Add(time.Hour)

	t.Run("other permissions only", func(t *testing.T) {
		tok := s.token(t, hour, "get:movies", "post:movies", "get:actors")
		status, out := s.do(t, http.MethodDelete, "/movies/1", tok, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assertError(t, out, http.StatusForbidden, "unauthorized")
	})

	t.Run("underscore form is not the permission", func(t *testing.T) {
		tok := s.token(t, hour, "get:movie_actors")
		status, _ := s.do(t, http.MethodGet, "/movie_actors", tok, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("expired token", func(t *testing.T) {
		tok := s.token(t, time.Now().Add(-time.Minute), "get:movies")
		status, out := s.do(t, http.MethodGet, "/movies", tok, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assertError(t, out, http.StatusUnauthorized, "forbidden")
	})

	t.Run("no header", func(t *testing.T) {
		status, out := s.do(t, http.MethodGet, "/actors", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assertError(t, out, http.StatusUnauthorized, "forbidden")
	})

	t.Run("no permissions claim", func(t *testing.T) {
		tok := s.token(t, hour)
		status, _ := s.do(t, http.MethodGet, "/directors", tok, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("garbage token", func(t *testing.T) {
		status, out := s.do(t, http.MethodGet, "/directors", "garbage", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assertError(t, out, http.StatusBadRequest, "bad request")
	})

	t.Run("exact permission allowed", func(t *testing.T) {
		tok := s.token(t, hour, "get:movieactors")
		status, out := s.do(t, http.MethodGet, "/movie_actors", tok, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, []any{}, out["movie_actors"])
	})
}

func TestPreAuthLimiterRunsBeforeGuard(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       5,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		Prefix:         "test:rl",
	}
	cfg.PreAuthCapacity = 2
	s := newServer(t, middleware.NewTokenBucket(cfg.PreAuth(), nil, nil))

	for i := 0; i < 2; i++ {
		status, _ := s.do(t, http.MethodGet, "/movies", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, out := s.do(t, http.MethodGet, "/actors", "garbage", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assertError(t, out, http.StatusTooManyRequests, "too many requests")

	status, _ = s.do(t, http.MethodGet, "/directors", s.producer(t), nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestRouteErrors(t *testing.T) {
	s := newServer(t)

	status, out := s.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assertError(t, out, http.StatusNotFound, "resource not found")

	status, out = s.do(t, http.MethodPatch, "/movies/1", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assertError(t, out, http.StatusMethodNotAllowed, "method not allowed")
}

func TestPublicRoutes(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	loc := rec.Header().Get(echo.HeaderLocation)
	assert.True(t, strings.HasPrefix(loc, "https://casting.example.com/authorize?"), loc)
	assert.Contains(t, loc, "audience=casting-api")
	assert.Contains(t, loc, "response_type=token")

	for path, want := range map[string]string{"/login-results": "login successfully", "/healthz": "ok"} {
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, want, rec.Body.String())
	}

	status, out := s.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"mysql": "up"}, out["checks"])
}

func TestUpdateReplacesRecord(t *testing.T) {
	s := newServer(t)
	tok := s.producer(t)

	id := s.create(t, tok, "/actors", map[string]any{"name": "A", "age": 30, "gender": "m"}, "new_actor")
	status, out := s.do(t, http.MethodPut, "/actors/"+itoa(id), tok, map[string]any{"name": "B"})
	require.Equal(t, http.StatusOK, status)
	updated := out["updated_actor"].(map[string]any)
	assert.Equal(t, "B", updated["name"])
	assert.Nil(t, updated["age"])
	assert.Nil(t, updated["gender"])
}

func itoa(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

