package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/jury/config"
	"github.com/Payphone-Digital/jury/internal/handler"
	"github.com/Payphone-Digital/jury/internal/middleware"
	"github.com/Payphone-Digital/jury/internal/repository"
	"github.com/Payphone-Digital/jury/internal/service"
	"github.com/Payphone-Digital/jury/internal/testutil"
	"github.com/Payphone-Digital/jury/pkg/database"
	"github.com/Payphone-Digital/jury/pkg/health"
	"github.com/Payphone-Digital/jury/pkg/queue"
	"github.com/Payphone-Digital/jury/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Register(nil)
}

type app struct {
	engine  *gin.Engine
	gate    *middleware.Gate
	monitor *health.Monitor
}

func newApp(t *testing.T, auth config.AuthConfig) *app {
	t.Helper()

	db := testutil.NewDB(t)
	broker := queue.NewMemory(64)
	t.Cleanup(func() { _ = broker.Close() })

	cfg := &config.Config{Auth: auth}
	provider := config.StaticProvider(cfg)

	users := repository.NewUserRepository(db)
	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	tokens := service.NewTokenService(provider)
	notifier := service.NewNotifier(broker, "notifications")

	monitor := health.NewMonitor(time.Minute, zap.NewNop())
	monitor.Register("database", true, func(ctx context.Context) error { return database.Ping(ctx, db) })

	gate := middleware.NewGate(provider, tokens, middleware.NewAccessTable())
	r := NewRouter(Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(users, repository.NewRefreshTokenRepository(db), tokens, hasher)),
		User:     handler.NewUserHandler(service.NewUserService(users, hasher)),
		Penalty:  handler.NewPenaltyHandler(service.NewPenaltyService(repository.NewPenaltyRepository(db), users, notifier)),
		Expense:  handler.NewExpenseHandler(service.NewExpenseService(repository.NewExpenseRepository(db), users, notifier)),
		Log:      handler.NewLogHandler(service.NewAuditLogService(repository.NewAuditLogRepository(db), users)),
		Tier:     handler.NewTierHandler(service.NewTierService(repository.NewTierRepository(db))),
		Activity: handler.NewActivityHandler(service.NewActivityService(repository.NewActivityRepository(db))),
		Health:   handler.NewHealthHandler(monitor),
	}, gate, cfg)

	return &app{engine: r.SetupRoutes(), gate: gate, monitor: monitor}
}

func (a *app) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type session struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (a *app) register(t *testing.T, name, email, role string) session {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1", "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[session](t, rec)
}

func TestRouter_AccessTableCoversEveryRoute(t *testing.T) {
	a := newApp(t, testutil.AuthConfig())
	entries := a.gate.Table().Entries()

	for _, route := range a.engine.Routes() {
		if strings.HasPrefix(route.Path, "/api/health") {
			continue
		}
		_, ok := entries[route.Method+" "+route.Path]
		assert.True(t, ok, "no policy for %s %s", route.Method, route.Path)
	}

	assert.Equal(t, middleware.PolicyPublic, entries["POST /api/v1/auth/login"])
	assert.Equal(t, middleware.PolicyAuthenticated, entries["POST /api/v1/auth/revoke"])
	assert.Equal(t, middleware.PolicyJuryOnly, entries["POST /api/v1/users/appoint-jury"])
	assert.Equal(t, middleware.PolicyJuryOnly, entries["POST /api/v1/penalties/:id/restore"])
	assert.Equal(t, middleware.PolicyAuthenticated, entries["POST /api/v1/penalties"])
	assert.Equal(t, middleware.PolicyAuthenticated, entries["PUT /api/v1/expenses/:id"])
	assert.Equal(t, middleware.PolicyJuryOnly, entries["POST /api/v1/tiers"])
}

func TestRouter_AuthFlow(t *testing.T) {
	a := newApp(t, testutil.AuthConfig())
	jury := a.register(t, "Jury One", "jury@example.com", "JURY")
	assert.Equal(t, "JURY", jury.User.Role)
	assert.NotEmpty(t, jury.Token)

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name": "Again", "email": "JURY@example.com", "password": "secret1",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrong := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "jury@example.com", "password": "nope",
		})
		ghost := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "ghost@x.com", "password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, ghost.Code)
		assert.JSONEq(t, wrong.Body.String(), ghost.Body.String())
	})

	t.Run("malformed login body lists fields", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "not-an-email"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.NotEmpty(t, body["details"])
	})

	t.Run("refresh rotates and the old token dies", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refreshToken": jury.RefreshToken})
		require.Equal(t, http.StatusOK, rec.Code)
		next := decode[session](t, rec)
		assert.NotEqual(t, jury.RefreshToken, next.RefreshToken)

		again := a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refreshToken": jury.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, again.Code)

		revoke := a.do(t, http.MethodPost, "/api/v1/auth/revoke", next.Token, map[string]string{"refreshToken": next.RefreshToken})
		assert.Equal(t, http.StatusNoContent, revoke.Code)

		twice := a.do(t, http.MethodPost, "/api/v1/auth/revoke", next.Token, map[string]string{"refreshToken": next.RefreshToken})
		assert.Equal(t, http.StatusBadRequest, twice.Code)
	})

	t.Run("revoke needs a caller", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/v1/auth/revoke", "", map[string]string{"refreshToken": "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/api/v1/auth/me", jury.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, jury.User.ID, decode[map[string]any](t, rec)["id"])
	})
}

func TestRouter_RoleGate(t *testing.T) {
	a := newApp(t, testutil.AuthConfig())
	jury := a.register(t, "Jury", "jury@example.com", "JURY")
	employee := a.register(t, "Employee", "emp@example.com", "")
	assert.Equal(t, "EMPLOYEE", employee.User.Role)

	newUser := map[string]string{"name": "New", "email": "new@example.com", "password": "secret1", "role": "EMPLOYEE"}

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/v1/users", "", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/v1/users", employee.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/api/v1/users", employee.Token, newUser).Code)
	assert.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/v1/users", jury.Token, newUser).Code)

	t.Run("employees record penalties and expenses", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/v1/penalties", employee.Token, map[string]any{
			"userId": employee.User.ID, "category": "Late", "reason": "Late arrival", "amount": 500, "status": "Pending",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		penaltyID := decode[map[string]any](t, rec)["id"].(string)

		rec = a.do(t, http.MethodPost, "/api/v1/expenses", employee.Token, map[string]any{
			"userId": employee.User.ID, "totalCollection": "100.50", "bill": "40", "arrears": "0", "status": "Open",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/api/v1/penalties/"+penaltyID, employee.Token, nil).Code)
		assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/api/v1/penalties/"+penaltyID+"/restore", employee.Token, nil).Code)
		assert.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/v1/penalties/"+penaltyID+"/restore", jury.Token, nil).Code)
	})

	t.Run("tiers stay jury only", func(t *testing.T) {
		tier := map[string]any{"name": "Gold", "costsJson": `{"monthly":10}`}
		assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/api/v1/tiers", employee.Token, tier).Code)
	})
}

func TestRouter_KillSwitchOpensEverything(t *testing.T) {
	a := newApp(t, config.AuthConfig{})

	rec := a.do(t, http.MethodPost, "/api/v1/users", "", map[string]string{
		"name": "New", "email": "new@example.com", "password": "secret1", "role": "JURY",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Reg", "email": "reg@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, decode[session](t, rec).Token)
}

func TestRouter_JuryAppointmentAndCascade(t *testing.T) {
	a := newApp(t, testutil.AuthConfig())
	jury := a.register(t, "Jury", "jury@example.com", "JURY")
	alice := a.register(t, "Alice", "alice@example.com", "")
	bob := a.register(t, "Bob", "bob@example.com", "")

	t.Run("one id is rejected", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/v1/users/appoint-jury", jury.Token, map[string]any{
			"userIds": []string{alice.User.ID},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("penalty then cascade delete", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/v1/penalties", jury.Token, map[string]any{
			"userId": bob.User.ID, "category": "Late", "reason": "Late arrival", "amount": 500, "status": "Pending",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		penaltyID := decode[map[string]any](t, rec)["id"].(string)

		assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/api/v1/users/"+bob.User.ID, jury.Token, nil).Code)
		assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/penalties/"+penaltyID, jury.Token, nil).Code)
		assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, "/api/v1/users/"+bob.User.ID, jury.Token, nil).Code)

		restore := a.do(t, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/restore", jury.Token, nil)
		require.Equal(t, http.StatusOK, restore.Code)
		assert.Equal(t, "User restored successfully.", decode[map[string]any](t, restore)["message"])

		assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/v1/penalties/"+penaltyID, jury.Token, nil).Code)
		assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/restore", jury.Token, nil).Code)
	})

	t.Run("two ids appoint a new jury", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/api/v1/users/appoint-jury", jury.Token, map[string]any{
			"userIds": []string{alice.User.ID, bob.User.ID},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Jury members have been successfully appointed.", decode[map[string]any](t, rec)["message"])
	})
}

func TestRouter_ListAndIdentifierChecks(t *testing.T) {
	a := newApp(t, testutil.AuthConfig())
	jury := a.register(t, "Jury", "jury@example.com", "JURY")

	rec := a.do(t, http.MethodGet, "/api/v1/users?page=0&pageSize=500", jury.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, page["page"])
	assert.EqualValues(t, 100, page["pageSize"])
	assert.EqualValues(t, 1, page["totalCount"])

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/api/v1/users/not-a-uuid", jury.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/api/v1/penalties?userId=nope", jury.Token, nil).Code)

	mismatch := a.do(t, http.MethodPut, "/api/v1/users/"+jury.User.ID, jury.Token, map[string]string{
		"id":    "00000000-0000-0000-0000-000000000001",
		"name":  "Jury",
		"email": "jury@example.com",
		"role":  "JURY",
	})
	assert.Equal(t, http.StatusBadRequest, mismatch.Code)
}

func TestRouter_Health(t *testing.T) {
	a := newApp(t, testutil.AuthConfig())

	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/health", "", nil).Code)

	rec := a.do(t, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, rec)["status"])

	a.monitor.Register("broker", false, func(context.Context) error { return errors.New("connection refused") })

	t.Run("aggregate reports the degraded optional check", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/api/v1/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "degraded", decode[map[string]any](t, rec)["status"])
	})

	t.Run("ready covers critical checks only", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/api/health/ready", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[healthBody](t, rec)
		assert.Equal(t, "healthy", body.Status)
		require.Len(t, body.Checks, 1)
		assert.Equal(t, "database", body.Checks[0].Name)
	})

	t.Run("live touches nothing", func(t *testing.T) {
		a.monitor.Register("database", true, func(context.Context) error { return errors.New("down") })

		assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/health/live", "", nil).Code)
		assert.Equal(t, http.StatusServiceUnavailable, a.do(t, http.MethodGet, "/api/health/ready", "", nil).Code)
	})
}

type healthBody struct {
	Status string `json:"status"`
	Checks []struct {
		Name string `json:"name"`
	} `json:"checks"`
}
