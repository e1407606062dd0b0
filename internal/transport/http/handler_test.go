package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yonexus/internal/application/auth"
	"yonexus/internal/application/tracker"
	"yonexus/internal/domain"
	"yonexus/internal/infrastructure/cache"
	"yonexus/internal/infrastructure/repository"
	"yonexus/internal/infrastructure/security"
	"yonexus/internal/leveltable"
	"yonexus/internal/middleware"
	"yonexus/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type registryStub struct {
	levels map[string]int
	down   bool
}

func (r *registryStub) LookupStrict(_ context.Context, name string) (domain.ExternalInfo, error) {
	if r.down {
		return domain.ExternalInfo{}, fmt.Errorf("%w: timeout", domain.ErrOracleUnavailable)
	}
	level, ok := r.levels[domain.NormalizeName(name)]
	if !ok {
		return domain.ExternalInfo{}, domain.ErrCharacterNotFound
	}
	return domain.ExternalInfo{Name: name, Level: level, Vocation: "Druid", World: "Antica"}, nil
}

func (r *registryStub) LookupWithFallback(ctx context.Context, name string) (domain.ExternalInfo, bool, error) {
	info, err := r.LookupStrict(ctx, name)
	return info, false, err
}

type APITestSuite struct {
	suite.Suite
	router   *gin.Engine
	registry *registryStub
	access   string
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	t := s.T()

	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	table, err := leveltable.Default()
	require.NoError(t, err)

	s.registry = &registryStub{levels: map[string]int{"alfred": 50, "bruno": 20, "alfredo": 45}}
	trackerSvc := tracker.NewService(
		repository.NewCharacterRepository(db),
		repository.NewXpLogRepository(db),
		s.registry,
		table,
	)
	authSvc := auth.NewAuthUseCase(
		repository.NewAccountRepository(db),
		cache.NewTokenCache(rdb),
		security.NewPasswordHasher(),
		security.NewTokenManager("access", "refresh"),
		trackerSvc,
	)

	s.router = NewRouter(
		NewAuthHandler(authSvc, false),
		NewCharacterHandler(trackerSvc, authSvc),
		middleware.NewRateLimiter(rdb, map[string]middleware.RatePolicy{
			middleware.RouteLogin: {Limit: 5, Window: time.Minute},
		}),
		authSvc,
		[]string{"http://localhost:5173"},
	)

	w := s.do(http.MethodPost, "/api/v1/auth/register", map[string]any{
		"username":  "druid",
		"email":     "druid@example.com",
		"password":  "secret123",
		"char_name": "Alfred",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/auth/login", map[string]any{"login": "druid", "password": "secret123"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var tokens auth.Tokens
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tokens))
	s.access = tokens.AccessToken
}

func (s *APITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.access != "" {
		req.Header.Set("Authorization", "Bearer "+s.access)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (s *APITestSuite) assertCode(w *httptest.ResponseRecorder, status int, code string) {
	s.Equal(status, w.Code, w.Body.String())
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	s.decode(w, &body)
	s.Equal(code, body.Code)
	s.NotEmpty(body.Error)
}

func (s *APITestSuite) firstCharacter() domain.Character {
	w := s.do(http.MethodGet, "/api/v1/characters", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []domain.Character
	s.decode(w, &list)
	s.Require().Len(list, 1)
	return list[0]
}

func (s *APITestSuite) TestRegisterDuplicate() {
	s.access = ""
	w := s.do(http.MethodPost, "/api/v1/auth/register", map[string]any{
		"username":  "druid",
		"email":     "other@example.com",
		"password":  "secret123",
		"char_name": "Bruno",
	})
	s.assertCode(w, http.StatusConflict, "account_already_exists")
}

func (s *APITestSuite) TestRequiresToken() {
	s.access = ""
	w := s.do(http.MethodGet, "/api/v1/characters", nil)
	s.assertCode(w, http.StatusUnauthorized, "unauthorized")
}

func (s *APITestSuite) TestLevelTableIsPublic() {
	s.access = ""
	w := s.do(http.MethodGet, "/api/v1/xp-table", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Table []domain.LevelEntry `json:"experience_table"`
	}
	s.decode(w, &body)
	s.Require().NotEmpty(body.Table)
	s.Equal(domain.LevelEntry{Level: 8, Experience: 4200}, body.Table[7])
}

func (s *APITestSuite) TestFreeAccountLimit() {
	w := s.do(http.MethodPost, "/api/v1/characters", map[string]any{"char_name": "Bruno"})
	s.assertCode(w, http.StatusForbidden, "tier_limit_exceeded")
}

func (s *APITestSuite) TestRecordXpAndMetrics() {
	ch := s.firstCharacter()
	path := "/api/v1/characters/" + ch.ID.String()

	w := s.do(http.MethodPost, path+"/xp", map[string]any{"xp": 250000})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, path+"/xp", map[string]any{"xp": 50000})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, path+"/xp", map[string]any{})
	s.assertCode(w, http.StatusBadRequest, "bad_request")

	w = s.do(http.MethodGet, path+"/metrics", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var snap domain.Snapshot
	s.decode(w, &snap)
	s.Equal(ch.XpStart+300000, snap.XpCurrent)
	s.Equal(int64(300000), snap.TodayXp)
	s.Len(snap.DailyLog, 1)
	s.False(snap.CharacterStale)

	w = s.do(http.MethodPost, path+"/reset-history", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, path+"/metrics", nil)
	s.decode(w, &snap)
	s.Empty(snap.DailyLog)
}

func (s *APITestSuite) TestUpdateErrors() {
	ch := s.firstCharacter()
	path := "/api/v1/characters/" + ch.ID.String()
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, path+"/xp", map[string]any{"xp": 1000}).Code)

	w := s.do(http.MethodPut, path, map[string]any{"goal_level": 49})
	s.assertCode(w, http.StatusBadRequest, "invalid_goal")

	w = s.do(http.MethodPut, path, map[string]any{"xp_start": ch.XpStart + 1})
	s.assertCode(w, http.StatusConflict, "start_xp_locked")

	w = s.do(http.MethodPut, path, map[string]any{"char_name": "Alfredo"})
	s.assertCode(w, http.StatusConflict, "rename_needs_confirmation")

	w = s.do(http.MethodPut, path, map[string]any{"char_name": "Nobody", "confirm_history_reset": true})
	s.assertCode(w, http.StatusUnprocessableEntity, "character_not_found")

	w = s.do(http.MethodPut, path, map[string]any{"char_name": "Alfredo", "confirm_history_reset": true})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res tracker.UpdateResult
	s.decode(w, &res)
	s.True(res.HistoryCleared)
	s.Equal("Alfredo", res.Character.Name)
}

func (s *APITestSuite) TestDeleteLastProfile() {
	ch := s.firstCharacter()
	w := s.do(http.MethodDelete, "/api/v1/characters/"+ch.ID.String(), nil)
	s.assertCode(w, http.StatusConflict, "last_profile_undeletable")
}

func (s *APITestSuite) TestUnknownProfile() {
	w := s.do(http.MethodGet, "/api/v1/characters/not-a-uuid/metrics", nil)
	s.assertCode(w, http.StatusNotFound, "profile_not_found")

	w = s.do(http.MethodGet, "/api/v1/characters/00000000-0000-0000-0000-000000000001/metrics", nil)
	s.assertCode(w, http.StatusNotFound, "profile_not_found")
}

func (s *APITestSuite) TestRegistryDown() {
	ch := s.firstCharacter()
	s.registry.down = true

	w := s.do(http.MethodGet, "/api/v1/characters/"+ch.ID.String()+"/metrics", nil)
	s.assertCode(w, http.StatusServiceUnavailable, "oracle_unavailable")

	w = s.do(http.MethodPut, "/api/v1/characters/"+ch.ID.String(), map[string]any{"daily_goal": 100})
	s.assertCode(w, http.StatusServiceUnavailable, "oracle_unavailable")
}

func (s *APITestSuite) TestRefreshAndLogout() {
	s.access = ""
	w := s.do(http.MethodPost, "/api/v1/auth/login", map[string]any{"login": "druid@example.com", "password": "secret123"})
	s.Require().Equal(http.StatusOK, w.Code)
	var tokens auth.Tokens
	s.decode(w, &tokens)

	w = s.do(http.MethodPost, "/api/v1/auth/refresh", map[string]any{"refresh_token": tokens.RefreshToken})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var rotated auth.Tokens
	s.decode(w, &rotated)

	w = s.do(http.MethodPost, "/api/v1/auth/refresh", map[string]any{"refresh_token": tokens.RefreshToken})
	s.assertCode(w, http.StatusUnauthorized, "session_expired")

	w = s.do(http.MethodPost, "/api/v1/auth/logout", map[string]any{"refresh_token": rotated.RefreshToken})
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodPost, "/api/v1/auth/refresh", map[string]any{"refresh_token": rotated.RefreshToken})
	s.assertCode(w, http.StatusUnauthorized, "session_expired")
}

func (s *APITestSuite) TestLoginRateLimit() {
	s.access = ""
	// SetupTest already logged in once.
	for i := 0; i < 4; i++ {
		w := s.do(http.MethodPost, "/api/v1/auth/login", map[string]any{"login": "druid", "password": "wrong"})
		s.Equal(http.StatusUnauthorized, w.Code)
	}
	w := s.do(http.MethodPost, "/api/v1/auth/login", map[string]any{"login": "druid", "password": "secret123"})
	s.assertCode(w, http.StatusTooManyRequests, "rate_limited")
}

func TestWriteErrorReadPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	err := fmt.Errorf("%w: %w", domain.ErrOracleUnavailable, domain.ErrCharacterNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, err, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	writeError(c, err, false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
