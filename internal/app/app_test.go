package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hisaab/internal/cache"
	"hisaab/internal/config"
	"hisaab/internal/logger"
	"hisaab/internal/middleware"
	"hisaab/internal/objectstore"
	"hisaab/internal/store"
	"hisaab/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Store  *store.Store
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by a fresh store and
// in-memory blocklist and object storage.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		Env:              "test",
		JWTSecret:        "integration-test-secret",
		JWTExpirationDur: time.Hour,
		BackupRetention:  3,
		MetricsAPIKey:    "scrape-key",
	}
	config.Set(cfg)

	blocklist := cache.NewInMemoryBlocklist(time.Minute)
	t.Cleanup(func() { _ = blocklist.Close() })

	s := store.New()
	router := NewRouter(Dependencies{
		Config:    cfg,
		Store:     s,
		Blocklist: blocklist,
		Objects:   objectstore.NewMemoryObjectStorage(),
		Log:       logger.Get(),
	})
	return &testApp{Store: s, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, username, password string) (string, uint) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), uint(user["id"].(float64))
}

func (app *testApp) mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) map[string]interface{} {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupApp(t)

	app.mustStatus(t, app.request(http.MethodGet, "/api/health", "", ""), http.StatusOK)

	rec := app.request(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without API key, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	req.Header.Set("X-API-Key", "scrape-key")
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with API key, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hisaab_http_requests_total") {
		t.Error("expected HTTP request counter in metrics output")
	}
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "meera", "secret123")

	t.Run("duplicate_username", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/v1/auth/register", `{"username":"MEERA","password":"secret123"}`, "")
		app.mustStatus(t, rec, http.StatusConflict)
	})

	t.Run("protected_route_requires_token", func(t *testing.T) {
		app.mustStatus(t, app.request(http.MethodGet, "/api/v1/profile", "", ""), http.StatusUnauthorized)
		app.mustStatus(t, app.request(http.MethodGet, "/api/v1/profile", "", token), http.StatusOK)
	})

	t.Run("login_sets_session_cookie", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/v1/auth/login", `{"username":"meera","password":"secret123"}`, "")
		app.mustStatus(t, rec, http.StatusOK)

		var session *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == middleware.SessionCookie {
				session = c
			}
		}
		if session == nil {
			t.Fatal("expected session cookie")
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", http.NoBody)
		req.AddCookie(session)
		cookieRec := httptest.NewRecorder()
		app.Router.ServeHTTP(cookieRec, req)
		if cookieRec.Code != http.StatusOK {
			t.Fatalf("expected cookie session to authenticate, got %d", cookieRec.Code)
		}
	})

	t.Run("logout_revokes_token", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/v1/auth/login", `{"username":"meera","password":"secret123"}`, "")
		session := app.mustStatus(t, rec, http.StatusOK)["token"].(string)

		app.mustStatus(t, app.request(http.MethodPost, "/api/v1/auth/logout", "", session), http.StatusOK)
		app.mustStatus(t, app.request(http.MethodGet, "/api/v1/profile", "", session), http.StatusUnauthorized)

		// Other sessions stay valid.
		app.mustStatus(t, app.request(http.MethodGet, "/api/v1/profile", "", token), http.StatusOK)
	})

	t.Run("lockout", func(t *testing.T) {
		app.registerUser(t, "locked", "secret123")
		for i := 0; i < 5; i++ {
			app.mustStatus(t, app.request(http.MethodPost, "/api/v1/auth/login", `{"username":"locked","password":"wrong"}`, ""), http.StatusUnauthorized)
		}
		app.mustStatus(t, app.request(http.MethodPost, "/api/v1/auth/login", `{"username":"locked","password":"secret123"}`, ""), http.StatusLocked)
	})
}

func TestLoanRepaymentFlow(t *testing.T) {
	app := setupApp(t)
	alice, _ := app.registerUser(t, "alice", "secret123")
	bob, _ := app.registerUser(t, "bob", "secret123")

	loan := app.mustStatus(t, app.request(http.MethodPost, "/api/v1/loans",
		`{"person_name":"Ravi","amount":"1000","type":"given"}`, alice), http.StatusCreated)["loan"].(map[string]interface{})
	loanPath := fmt.Sprintf("/api/v1/loans/%d", uint(loan["id"].(float64)))

	app.mustStatus(t, app.request(http.MethodPost, loanPath+"/repayments", `{"amount":400}`, alice), http.StatusCreated)
	rep := app.mustStatus(t, app.request(http.MethodPost, loanPath+"/repayments", `{"amount":600}`, alice), http.StatusCreated)
	repaymentID := uint(rep["repayment"].(map[string]interface{})["id"].(float64))

	list := app.mustStatus(t, app.request(http.MethodGet, loanPath+"/repayments", "", alice), http.StatusOK)
	if list["total_repaid"] != "1000" {
		t.Errorf("expected 1000 repaid, got %v", list["total_repaid"])
	}

	// Bob can neither see nor touch Alice's loan or its repayments.
	app.mustStatus(t, app.request(http.MethodGet, loanPath, "", bob), http.StatusNotFound)
	app.mustStatus(t, app.request(http.MethodDelete, fmt.Sprintf("/api/v1/repayments/%d", repaymentID), "", bob), http.StatusNotFound)

	app.mustStatus(t, app.request(http.MethodDelete, loanPath, "", alice), http.StatusOK)
	app.mustStatus(t, app.request(http.MethodGet, fmt.Sprintf("/api/v1/repayments/%d", repaymentID), "", alice), http.StatusNotFound)
}

func TestRecordsAndClearData(t *testing.T) {
	app := setupApp(t)
	token, userID := app.registerUser(t, "shop", "secret123")

	app.mustStatus(t, app.request(http.MethodPost, "/api/v1/daily-sales",
		`{"date":"2024-03-15","cash_amount":10,"card_amount":5,"upi_amount":3}`, token), http.StatusCreated)
	app.mustStatus(t, app.request(http.MethodPost, "/api/v1/passwords",
		`{"service_name":"mail","secret":"hunter2","is_actual_password":true}`, token), http.StatusCreated)
	app.mustStatus(t, app.request(http.MethodPost, "/api/v1/debit-cards",
		`{"card_name":"Salary","card_number":"6521000000000000","expiry":"04/29","network":"RuPay"}`, token), http.StatusCreated)

	sales := app.mustStatus(t, app.request(http.MethodGet, "/api/v1/daily-sales", "", token), http.StatusOK)
	first := sales["data"].([]interface{})[0].(map[string]interface{})
	if first["total_amount"] != "18" {
		t.Errorf("expected total 18, got %v", first["total_amount"])
	}

	cleared := app.mustStatus(t, app.request(http.MethodDelete, "/api/v1/profile/data", "", token), http.StatusOK)
	if cleared["removed"] != float64(3) {
		t.Errorf("expected 3 records removed, got %v", cleared["removed"])
	}
	if got := app.Store.Passwords.List(userID); len(got) != 0 {
		t.Errorf("expected no passwords after clearing, got %d", len(got))
	}
	app.mustStatus(t, app.request(http.MethodGet, "/api/v1/profile", "", token), http.StatusOK)
}

func TestBackupFlow(t *testing.T) {
	app := setupApp(t)
	token, userID := app.registerUser(t, "alice", "secret123")
	other, _ := app.registerUser(t, "bob", "secret123")

	app.mustStatus(t, app.request(http.MethodPost, "/api/v1/backup", "", token), http.StatusBadRequest)

	app.mustStatus(t, app.request(http.MethodPut, "/api/v1/backup/link", `{"email":"Alice@Example.com"}`, token), http.StatusOK)
	app.mustStatus(t, app.request(http.MethodPut, "/api/v1/backup/link", `{"email":"alice@example.com"}`, other), http.StatusConflict)

	loan := app.mustStatus(t, app.request(http.MethodPost, "/api/v1/loans",
		`{"person_name":"Ravi","amount":1000,"type":"given"}`, token), http.StatusCreated)["loan"].(map[string]interface{})
	loanPath := fmt.Sprintf("/api/v1/loans/%d", uint(loan["id"].(float64)))
	app.mustStatus(t, app.request(http.MethodPost, loanPath+"/repayments", `{"amount":250}`, token), http.StatusCreated)

	backup := app.mustStatus(t, app.request(http.MethodPost, "/api/v1/backup", "", token), http.StatusCreated)["backup"].(map[string]interface{})
	backupID := backup["id"].(string)

	app.mustStatus(t, app.request(http.MethodDelete, loanPath, "", token), http.StatusOK)

	listed := app.mustStatus(t, app.request(http.MethodGet, "/api/v1/backup", "", token), http.StatusOK)
	if data := listed["data"].([]interface{}); len(data) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(data))
	}

	restored := app.mustStatus(t, app.request(http.MethodPost, "/api/v1/backup/"+backupID+"/restore", "", token), http.StatusOK)
	summary := restored["restore"].(map[string]interface{})
	if summary["restored"] != float64(2) || summary["failed"] != float64(0) {
		t.Errorf("unexpected restore summary: %v", summary)
	}

	loans := app.Store.ListLoans(userID)
	if len(loans) != 1 {
		t.Fatalf("expected restored loan, got %d", len(loans))
	}
	if repayments := app.Store.ListRepayments(userID, loans[0].ID); len(repayments) != 1 {
		t.Fatalf("expected restored repayment on new loan, got %v", repayments)
	}

	app.mustStatus(t, app.request(http.MethodDelete, "/api/v1/backup/"+backupID, "", token), http.StatusOK)
	app.mustStatus(t, app.request(http.MethodPost, "/api/v1/backup/"+backupID+"/restore", "", token), http.StatusNotFound)
}
