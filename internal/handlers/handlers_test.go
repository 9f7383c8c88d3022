package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"essence-site/internal/database"
	"essence-site/internal/hub"
	"essence-site/internal/jwt"
	"essence-site/internal/keyValue"
	"essence-site/internal/models"
	"essence-site/internal/snowflake"
	"essence-site/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *models.ConfigFile {
	return &models.ConfigFile{AllowRegistration: true}
}

func setupTest(t *testing.T, cfg *models.ConfigFile) (http.Handler, *storage.Store) {
	t.Helper()

	nop := zap.NewNop().Sugar()

	db, err := database.OpenMemory(nop)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := storage.New(db)
	_, err = s.Seed(context.Background())
	require.NoError(t, err)

	keyValue.Setup(nop, nil, true)
	jwt.Setup("test-secret", false, time.Hour)

	gen, err := snowflake.New(0)
	require.NoError(t, err)
	hub.Setup(nop, nil, true, gen)

	bcryptCost = bcrypt.MinCost

	return NewRouter(cfg, nop, s), s
}

func doRequest(t *testing.T, h http.Handler, method string, path string, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == jwt.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", jwt.CookieName)
	return nil
}

func registerAdmin(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()

	rec := doRequest(t, h, http.MethodPost, "/api/register", `{"username":"admin","password":"password123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return decode[errorResponse](t, rec).Message
}

func TestHealth(t *testing.T) {
	h, _ := setupTest(t, testConfig())

	rec := doRequest(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPublicLists(t *testing.T) {
	h, _ := setupTest(t, testConfig())

	tests := []struct {
		path   string
		length int
	}{
		{path: "/api/features", length: 6},
		{path: "/api/command-categories", length: 5},
		{path: "/api/commands", length: 15},
		{path: "/api/faqs", length: 5},
		{path: "/api/testimonials", length: 3},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, tc.path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Len(t, decode[[]json.RawMessage](t, rec), tc.length)
		})
	}
}

func TestCommandsByCategory(t *testing.T) {
	h, s := setupTest(t, testConfig())

	moderation, err := s.GetCommandCategoryBySlug(context.Background(), "moderation")
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodGet, "/api/commands/moderation", "")
	require.Equal(t, http.StatusOK, rec.Code)

	commands := decode[[]models.Command](t, rec)
	require.NotEmpty(t, commands)

	var ban *models.Command
	for i := range commands {
		assert.Equal(t, moderation.ID, commands[i].CategoryID)
		if commands[i].Name == "ban" {
			ban = &commands[i]
		}
	}
	require.NotNil(t, ban, "ban command missing from moderation")
	assert.Equal(t, "Admin", ban.Permission)
}

func TestCommandsByUnknownCategory(t *testing.T) {
	h, _ := setupTest(t, testConfig())

	rec := doRequest(t, h, http.MethodGet, "/api/commands/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, errorMessage(t, rec))
}

func TestCommandsByEmptyCategory(t *testing.T) {
	h, _ := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/command-categories", `{"name":"Economy","slug":"economy"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, h, http.MethodGet, "/api/commands/economy", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStatistics(t *testing.T) {
	h, _ := setupTest(t, testConfig())

	rec := doRequest(t, h, http.MethodGet, "/api/statistics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	statistics := decode[models.Statistic](t, rec)
	assert.Equal(t, int64(25432), statistics.Servers)
	assert.Equal(t, "99.9%", statistics.Uptime)
}

func TestUpdateStatistics(t *testing.T) {
	h, s := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	current, err := s.GetStatistics(context.Background())
	require.NoError(t, err)
	path := "/api/statistics/" + jsonID(current.ID)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{name: "wrong type", path: path, body: `{"servers":"many"}`, status: http.StatusBadRequest},
		{name: "negative", path: path, body: `{"users":-1}`, status: http.StatusBadRequest},
		{name: "empty", path: path, body: `{}`, status: http.StatusBadRequest},
		{name: "unknown field", path: path, body: `{"ping":5}`, status: http.StatusBadRequest},
		{name: "missing row", path: "/api/statistics/999", body: `{"servers":1}`, status: http.StatusNotFound},
		{name: "partial", path: path, body: `{"servers":30000}`, status: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPatch, tc.path, tc.body, cookie)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	updated, err := s.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(30000), updated.Servers)
	assert.Equal(t, current.Users, updated.Users)
	assert.Equal(t, current.Uptime, updated.Uptime)
}

func TestGlobalTheme(t *testing.T) {
	h, _ := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/global-theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ThemeDefault, decode[models.GlobalTheme](t, rec).Name)

	rec = doRequest(t, h, http.MethodPost, "/api/global-theme", `{"name":"halloween"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.ThemeHalloween, decode[models.GlobalTheme](t, rec).Name)

	rejected := []struct {
		name   string
		body   string
		cookie *http.Cookie
		status int
	}{
		{name: "unknown theme", body: `{"name":"spooky"}`, cookie: cookie, status: http.StatusBadRequest},
		{name: "empty name", body: `{"name":""}`, cookie: cookie, status: http.StatusBadRequest},
		{name: "wrong case", body: `{"name":"Christmas"}`, cookie: cookie, status: http.StatusBadRequest},
		{name: "not logged in", body: `{"name":"christmas"}`, status: http.StatusUnauthorized},
	}

	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tc.cookie != nil {
				cookies = append(cookies, tc.cookie)
			}
			rec := doRequest(t, h, http.MethodPost, "/api/global-theme", tc.body, cookies...)
			assert.Equal(t, tc.status, rec.Code)
			assert.NotEmpty(t, errorMessage(t, rec))

			rec = doRequest(t, h, http.MethodGet, "/api/global-theme", "")
			assert.Equal(t, models.ThemeHalloween, decode[models.GlobalTheme](t, rec).Name)
		})
	}
}

func TestSiteConfigRejectsBadField(t *testing.T) {
	h, s := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	before, err := s.GetSiteConfig(context.Background())
	require.NoError(t, err)
	path := "/api/site-config/" + jsonID(before.ID)

	rec := doRequest(t, h, http.MethodPatch, path, `{"siteName":"Changed","maintenanceMode":"yes"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "maintenanceMode")

	after, err := s.GetSiteConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSiteConfigPartialUpdate(t *testing.T) {
	h, s := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	before, err := s.GetSiteConfig(context.Background())
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodPatch, "/api/site-config/"+jsonID(before.ID), `{"siteName":"Essence Bot","maintenanceMode":true}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[models.SiteConfig](t, rec)
	assert.Equal(t, "Essence Bot", updated.SiteName)
	assert.True(t, updated.MaintenanceMode)

	expected := before
	expected.SiteName = "Essence Bot"
	expected.MaintenanceMode = true

	rec = doRequest(t, h, http.MethodGet, "/api/site-config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, expected, decode[models.SiteConfig](t, rec))
}

func TestSiteConfigErrors(t *testing.T) {
	h, _ := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{name: "invalid id", path: "/api/site-config/abc", body: `{"siteName":"x"}`, status: http.StatusBadRequest},
		{name: "zero id", path: "/api/site-config/0", body: `{"siteName":"x"}`, status: http.StatusBadRequest},
		{name: "missing id", path: "/api/site-config/99", body: `{"siteName":"x"}`, status: http.StatusNotFound},
		{name: "empty object", path: "/api/site-config/1", body: `{}`, status: http.StatusBadRequest},
		{name: "empty body", path: "/api/site-config/1", body: ``, status: http.StatusBadRequest},
		{name: "not an object", path: "/api/site-config/1", body: `[1,2]`, status: http.StatusBadRequest},
		{name: "null field", path: "/api/site-config/1", body: `{"footerText":null}`, status: http.StatusBadRequest},
		{name: "unknown field", path: "/api/site-config/1", body: `{"theme":"dark"}`, status: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPatch, tc.path, tc.body, cookie)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, errorMessage(t, rec))
		})
	}
}

func TestCommandCategoryLifecycle(t *testing.T) {
	h, s := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/command-categories", `{"name":"Moderation 2","slug":"moderation"}`, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/command-categories", `{"name":"Bad","slug":"Not A Slug"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "slug")

	rec = doRequest(t, h, http.MethodPost, "/api/command-categories", `{"name":"Economy","slug":"economy"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	economy := decode[models.CommandCategory](t, rec)

	rec = doRequest(t, h, http.MethodPatch, "/api/command-categories/"+jsonID(economy.ID), `{"name":"Economy & Shop","slug":"economy"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Economy & Shop", decode[models.CommandCategory](t, rec).Name)

	moderation, err := s.GetCommandCategoryBySlug(context.Background(), "moderation")
	require.NoError(t, err)

	rec = doRequest(t, h, http.MethodDelete, "/api/command-categories/"+jsonID(moderation.ID), "", cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/api/command-categories/"+jsonID(economy.ID), "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/commands/economy", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommandLifecycle(t *testing.T) {
	h, s := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	fun, err := s.GetCommandCategoryBySlug(context.Background(), "fun")
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodPost, "/api/commands", `{"categoryId":9999,"name":"dice","syntax":"/dice","description":"Roll a die","permission":"Everyone"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/commands", `{"categoryId":`+jsonID(fun.ID)+`,"name":"dice"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := `{"categoryId":` + jsonID(fun.ID) + `,"name":"dice","syntax":"/dice [sides]","description":"Roll a die","permission":"Everyone"}`
	rec = doRequest(t, h, http.MethodPost, "/api/commands", body, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	dice := decode[models.Command](t, rec)

	rec = doRequest(t, h, http.MethodGet, "/api/commands/fun", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[[]models.Command](t, rec), dice)

	updated := `{"categoryId":` + jsonID(fun.ID) + `,"name":"dice","syntax":"/dice [sides] [count]","description":"Roll dice","permission":"Everyone"}`
	rec = doRequest(t, h, http.MethodPatch, "/api/commands/"+jsonID(dice.ID), updated, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/dice [sides] [count]", decode[models.Command](t, rec).Syntax)

	rec = doRequest(t, h, http.MethodDelete, "/api/commands/"+jsonID(dice.ID), "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/api/commands/"+jsonID(dice.ID), "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMutationsRequireSession(t *testing.T) {
	h, _ := setupTest(t, testConfig())

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodPost, path: "/api/global-theme"},
		{method: http.MethodPatch, path: "/api/site-config/1"},
		{method: http.MethodPost, path: "/api/command-categories"},
		{method: http.MethodPatch, path: "/api/command-categories/1"},
		{method: http.MethodDelete, path: "/api/command-categories/1"},
		{method: http.MethodPost, path: "/api/commands"},
		{method: http.MethodPatch, path: "/api/commands/1"},
		{method: http.MethodDelete, path: "/api/commands/1"},
		{method: http.MethodPatch, path: "/api/statistics/1"},
		{method: http.MethodGet, path: "/api/user"},
	}

	forged := &http.Cookie{Name: jwt.CookieName, Value: "forged"}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := doRequest(t, h, tc.method, tc.path, `{}`)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = doRequest(t, h, tc.method, tc.path, `{}`, forged)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthFlow(t *testing.T) {
	h, _ := setupTest(t, testConfig())

	cookie := registerAdmin(t, h)

	rec := doRequest(t, h, http.MethodGet, "/api/user", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decode[models.User](t, rec).Username)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = doRequest(t, h, http.MethodPost, "/api/register", `{"username":"admin","password":"password456"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/login", `{"username":"admin","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/login", `{"username":"nobody","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/login", `{"username":"admin","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	second := sessionCookie(t, rec)

	rec = doRequest(t, h, http.MethodPost, "/api/logout", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/user", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// other sessions survive
	rec = doRequest(t, h, http.MethodGet, "/api/user", "", second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutDeletesStoredSession(t *testing.T) {
	h, _ := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	sessionID, err := jwt.VerifyToken(cookie.Value)
	require.NoError(t, err)

	value, err := keyValue.Get(context.Background(), sessionKey(sessionID))
	require.NoError(t, err)
	require.NotEmpty(t, value)

	rec := doRequest(t, h, http.MethodPost, "/api/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	value, err = keyValue.Get(context.Background(), sessionKey(sessionID))
	require.NoError(t, err)
	assert.Empty(t, value)

	// logging out twice is harmless
	rec = doRequest(t, h, http.MethodPost, "/api/logout", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginUnknownUserDoesBcryptWork(t *testing.T) {
	h, s := setupTest(t, testConfig())
	registerAdmin(t, h)

	rec := doRequest(t, h, http.MethodPost, "/api/login", `{"username":"ghost","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	unknownMessage := errorMessage(t, rec)

	rec = doRequest(t, h, http.MethodPost, "/api/login", `{"username":"admin","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, errorMessage(t, rec), unknownMessage)

	require.NotEmpty(t, dummyHash)
	admin, err := s.GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)

	dummyCost, err := bcrypt.Cost(dummyHash)
	require.NoError(t, err)
	adminCost, err := bcrypt.Cost(admin.Password)
	require.NoError(t, err)
	assert.Equal(t, adminCost, dummyCost)
}

func TestTrailingBodyDataRejected(t *testing.T) {
	h, _ := setupTest(t, testConfig())
	cookie := registerAdmin(t, h)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "theme", method: http.MethodPost, path: "/api/global-theme", body: `{"name":"halloween"}garbage`},
		{name: "second object", method: http.MethodPost, path: "/api/global-theme", body: `{"name":"halloween"}{"name":"christmas"}`},
		{name: "site config", method: http.MethodPatch, path: "/api/site-config/1", body: `{"maintenanceMode":true} true`},
		{name: "login", method: http.MethodPost, path: "/api/login", body: `{"username":"admin","password":"password123"}x`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, tc.method, tc.path, tc.body, cookie)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, errorMessage(t, rec))
		})
	}

	rec := doRequest(t, h, http.MethodGet, "/api/global-theme", "")
	assert.Equal(t, models.ThemeDefault, decode[models.GlobalTheme](t, rec).Name)

	rec = doRequest(t, h, http.MethodGet, "/api/site-config", "")
	assert.False(t, decode[models.SiteConfig](t, rec).MaintenanceMode)

	// trailing whitespace is still a single value
	rec = doRequest(t, h, http.MethodPost, "/api/global-theme", "{\"name\":\"halloween\"}\n", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	h, _ := setupTest(t, testConfig())

	tests := []struct {
		name string
		body string
	}{
		{name: "short password", body: `{"username":"someone","password":"abc"}`},
		{name: "short username", body: `{"username":"ab","password":"password123"}`},
		{name: "bad username", body: `{"username":"some one","password":"password123"}`},
		{name: "malformed", body: `{"username":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, errorMessage(t, rec))
		})
	}
}

func TestRegistrationDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AllowRegistration = false
	h, _ := setupTest(t, cfg)

	rec := doRequest(t, h, http.MethodPost, "/api/register", `{"username":"admin","password":"password123"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBootstrapAdmin(t *testing.T) {
	h, s := setupTest(t, testConfig())
	ctx := context.Background()

	user, created, err := BootstrapAdmin(ctx, s, "owner", "owner-password")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := BootstrapAdmin(ctx, s, "owner", "owner-password")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)

	rec := doRequest(t, h, http.MethodPost, "/api/login", `{"username":"owner","password":"owner-password"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, _, err = BootstrapAdmin(ctx, s, "owner", "short")
	assert.Error(t, err)
}

func TestUnknownApiRoute(t *testing.T) {
	h, _ := setupTest(t, testConfig())

	rec := doRequest(t, h, http.MethodGet, "/api/text-styles", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, errorMessage(t, rec))
}

func TestStaticSiteFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>essence</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	cfg := testConfig()
	cfg.Server.StaticDir = dir
	h, _ := setupTest(t, cfg)

	rec := doRequest(t, h, http.MethodGet, "/app.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())

	rec = doRequest(t, h, http.MethodGet, "/commands", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "essence")

	// api routes are never answered by the frontend
	rec = doRequest(t, h, http.MethodGet, "/api/features", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "["))
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
