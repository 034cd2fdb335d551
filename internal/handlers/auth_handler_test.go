package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hisaab/internal/config"
	apperrors "hisaab/internal/errors"
	"hisaab/internal/logger"
	"hisaab/internal/middleware"
	"hisaab/internal/models"
	"hisaab/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn        func(username, password string) (*models.User, error)
	getUserByIDFn       func(id uint) (*models.User, error)
	getUserByUsernameFn func(username string) (*models.User, error)
	verifyPasswordFn    func(user *models.User, password string) bool
	attemptLoginFn      func(username, password string) (*models.User, error)
	setBiometricFn      func(userID uint, enabled bool) (*models.User, error)
	clearDataFn         func(userID uint) int
}

func (m *mockUserService) CreateUser(username, password string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByUsername(username string) (*models.User, error) {
	if m.getUserByUsernameFn != nil {
		return m.getUserByUsernameFn(username)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) AttemptLogin(username, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) SetBiometric(userID uint, enabled bool) (*models.User, error) {
	if m.setBiometricFn != nil {
		return m.setBiometricFn(userID, enabled)
	}
	return &models.User{ID: userID, BiometricEnabled: enabled}, nil
}

func (m *mockUserService) ClearData(userID uint) int {
	if m.clearDataFn != nil {
		return m.clearDataFn(userID)
	}
	return 0
}

type mockAuditService struct{}

func (m *mockAuditService) Log(_ uint, _, _ string, _ uint, _ string, _ map[string]interface{}) {}

type mockRevoker struct {
	revoked   map[string]time.Time
	revokeErr error
}

func (m *mockRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if m.revokeErr != nil {
		return m.revokeErr
	}
	if m.revoked == nil {
		m.revoked = make(map[string]time.Time)
	}
	m.revoked[tokenID] = expiresAt
	return nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	logger.Init("test")
	config.Set(&config.Config{
		Env:              "test",
		JWTSecret:        "handler-test-secret",
		JWTExpirationDur: time.Hour,
	})
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.GET("/profile", injectUserID(1), handler.GetProfile)
	r.PUT("/profile/biometric", injectUserID(1), handler.SetBiometric)
	r.DELETE("/profile/data", injectUserID(1), handler.ClearData)
	r.POST("/auth/logout", injectSession(1, "session-jti"), handler.Logout)
	return r
}

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uid)
		c.Next()
	}
}

func injectSession(uid uint, tokenID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uid)
		c.Set(middleware.ContextTokenID, tokenID)
		c.Set(middleware.ContextTokenExpiry, time.Now().Add(time.Hour))
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with token and session cookie", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(username, _ string) (*models.User, error) {
				return &models.User{ID: 1, Username: username}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, &mockRevoker{}))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"username":"meera","password":"secret123"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		result := parseJSON(t, rec)
		token, _ := result["token"].(string)
		if token == "" {
			t.Fatal("expected token in response")
		}
		claims, err := middleware.ParseAccessToken(token)
		if err != nil {
			t.Fatalf("expected a valid token: %v", err)
		}
		if claims.UserID != 1 || claims.Username != "meera" {
			t.Errorf("unexpected claims: %+v", claims)
		}

		cookie := sessionCookie(rec)
		if cookie == nil || cookie.Value != token || !cookie.HttpOnly {
			t.Errorf("expected HttpOnly session cookie carrying the token, got %+v", cookie)
		}
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}, &mockRevoker{}))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"username":"meera","password":"123"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate username", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateUsername
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, &mockRevoker{}))

		rec := doRequest(r, http.MethodPost, "/auth/register", `{"username":"meera","password":"secret123"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_USERNAME")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		loginErr   error
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"username":"meera","password":"secret123"}`, wantStatus: http.StatusOK},
		{name: "missing_password", body: `{"username":"meera"}`, wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "bad_credentials", body: `{"username":"meera","password":"nope"}`, loginErr: apperrors.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantCode: "INVALID_CREDENTIALS"},
		{name: "locked", body: `{"username":"meera","password":"nope"}`, loginErr: apperrors.ErrAccountLocked, wantStatus: http.StatusLocked, wantCode: "ACCOUNT_LOCKED"},
		{name: "unexpected_error", body: `{"username":"meera","password":"nope"}`, loginErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userSvc := &mockUserService{
				attemptLoginFn: func(username, _ string) (*models.User, error) {
					if tt.loginErr != nil {
						return nil, tt.loginErr
					}
					return &models.User{ID: 3, Username: username}, nil
				},
			}
			r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, &mockRevoker{}))

			rec := doRequest(r, http.MethodPost, "/auth/login", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			result := parseJSON(t, rec)
			if tt.wantCode != "" {
				assertErrorCode(t, result, tt.wantCode)
				return
			}
			user, _ := result["user"].(map[string]interface{})
			if user["username"] != "meera" {
				t.Errorf("expected username meera, got %v", user["username"])
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the session token and clears the cookie", func(t *testing.T) {
		revoker := &mockRevoker{}
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}, revoker))

		rec := doRequest(r, http.MethodPost, "/auth/logout", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if _, ok := revoker.revoked["session-jti"]; !ok {
			t.Error("expected session token to be revoked")
		}
		if cookie := sessionCookie(rec); cookie == nil || cookie.MaxAge >= 0 {
			t.Errorf("expected session cookie to be expired, got %+v", cookie)
		}
	})

	t.Run("returns 500 when the blocklist fails", func(t *testing.T) {
		revoker := &mockRevoker{revokeErr: errors.New("redis down")}
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}, revoker))

		rec := doRequest(r, http.MethodPost, "/auth/logout", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("get_profile", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id uint) (*models.User, error) {
				return &models.User{ID: id, Username: "meera", DriveEmail: "meera@example.com"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, &mockRevoker{}))

		rec := doRequest(r, http.MethodGet, "/profile", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user, _ := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["drive_email"] != "meera@example.com" {
			t.Errorf("expected drive email in profile, got %v", user)
		}
		if _, ok := user["password"]; ok {
			t.Error("password hash must never be returned")
		}
	})

	t.Run("user_not_found", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(uint) (*models.User, error) { return nil, apperrors.ErrUserNotFound },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, &mockRevoker{}))

		rec := doRequest(r, http.MethodGet, "/profile", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("set_biometric_requires_flag", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}, &mockRevoker{}))

		rec := doRequest(r, http.MethodPut, "/profile/biometric", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}

		rec = doRequest(r, http.MethodPut, "/profile/biometric", `{"enabled":false}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("clear_data_reports_count", func(t *testing.T) {
		userSvc := &mockUserService{clearDataFn: func(uint) int { return 12 }}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}, &mockRevoker{}))

		rec := doRequest(r, http.MethodDelete, "/profile/data", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := parseJSON(t, rec)["removed"]; got != float64(12) {
			t.Errorf("expected removed=12, got %v", got)
		}
	})
}
