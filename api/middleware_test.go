package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/billing/api"
	"github.com/garnizeh/billing/internal/billing"
	"github.com/garnizeh/billing/pkg/models"
	"github.com/garnizeh/billing/pkg/repository/mock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

func TestLoggingMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	})

	handler := api.LoggingMiddleware(next)
	req := httptest.NewRequest(http.MethodGet, "/log", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if string(b) != "ok" {
		t.Fatalf("unexpected body: %q", string(b))
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = api.RequestIDFromContext(r.Context())
	})
	handler := api.RequestIDMiddleware(next)

	// generated when absent
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	got := w.Result().Header.Get(api.RequestIDHeader)
	if got == "" || got != seen {
		t.Fatalf("expected generated request id in header and context, got %q and %q", got, seen)
	}

	// propagated when present
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Result().Header.Get(api.RequestIDHeader); got != "abc-123" || seen != "abc-123" {
		t.Fatalf("expected propagated request id, got %q and %q", got, seen)
	}
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := api.CORSMiddleware([]string{"http://allowed.test"})(next)

	// preflight is answered without calling next
	reqOpt := httptest.NewRequest(http.MethodOptions, "/contracts", nil)
	reqOpt.Header.Set("Origin", "http://allowed.test")
	reqOpt.Header.Set("Access-Control-Request-Method", http.MethodGet)
	reqOpt.Header.Set("Access-Control-Request-Headers", "profile_id")
	wOpt := httptest.NewRecorder()
	handler.ServeHTTP(wOpt, reqOpt)
	resOpt := wOpt.Result()
	defer resOpt.Body.Close()
	if called {
		t.Fatalf("preflight should not reach the handler")
	}
	if resOpt.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resOpt.StatusCode)
	}
	if got := resOpt.Header.Get("Access-Control-Allow-Origin"); got != "http://allowed.test" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}

	// GET from an allowed origin passes through with headers
	reqGet := httptest.NewRequest(http.MethodGet, "/contracts", nil)
	reqGet.Header.Set("Origin", "http://allowed.test")
	wGet := httptest.NewRecorder()
	handler.ServeHTTP(wGet, reqGet)
	if !called || wGet.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected GET to reach handler")
	}
	if got := wGet.Result().Header.Get("Access-Control-Allow-Origin"); got != "http://allowed.test" {
		t.Fatalf("expected CORS header set, got %q", got)
	}

	// other origins get no CORS headers
	reqOther := httptest.NewRequest(http.MethodGet, "/contracts", nil)
	reqOther.Header.Set("Origin", "http://evil.test")
	wOther := httptest.NewRecorder()
	handler.ServeHTTP(wOther, reqOther)
	if got := wOther.Result().Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	// handler that panics
	pan := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := api.RecoveryMiddleware(pan)
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 from panic recovery, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"status":"INTERNAL_SERVER_ERROR"`) || strings.Contains(string(b), "boom") {
		t.Fatalf("unexpected body for recovery: %s", string(b))
	}

	// normal handler should pass through
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler2 := api.RecoveryMiddleware(ok)
	w2 := httptest.NewRecorder()
	handler2.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w2.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for normal path, got %d", w2.Result().StatusCode)
	}
}

func TestProfileAuthMiddleware(t *testing.T) {
	repo := mock.New()
	repo.Profiles[1] = &models.Profile{ID: 1, FirstName: "Ada", Balance: decimal.NewFromInt(10), Type: models.ProfileTypeClient}
	svc := billing.NewService(billing.Repos{Profiles: repo, Contracts: repo, Jobs: repo, Reports: repo, Tx: repo})

	var got *models.Profile
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = api.ProfileFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := api.ProfileAuthMiddleware(svc)(next)

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "MissingHeader", header: "", wantStatus: http.StatusUnauthorized},
		{name: "NotANumber", header: "abc", wantStatus: http.StatusUnauthorized},
		{name: "UnknownProfile", header: "2", wantStatus: http.StatusUnauthorized},
		{name: "KnownProfile", header: "1", wantStatus: http.StatusOK},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/contracts", nil)
			if c.header != "" {
				req.Header.Set(api.ProfileHeader, c.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Result().StatusCode != c.wantStatus {
				t.Fatalf("%s: want %d got %d", c.name, c.wantStatus, w.Result().StatusCode)
			}
			if c.wantStatus == http.StatusOK && (got == nil || got.ID != 1) {
				t.Fatalf("expected profile in context, got %#v", got)
			}
			if c.wantStatus == http.StatusUnauthorized && !strings.Contains(w.Body.String(), `"status":"FORBIDDEN"`) {
				t.Fatalf("unexpected body: %s", w.Body.String())
			}
		})
	}

	// storage failures are not reported as auth failures
	repo.Err = context.DeadlineExceeded
	req := httptest.NewRequest(http.MethodGet, "/contracts", nil)
	req.Header.Set(api.ProfileHeader, "1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 on storage error, got %d", w.Result().StatusCode)
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	secret := "0123456789abcdef"
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mw := api.AdminAuthMiddleware(secret)
	handler := mw(next)

	sign := func(claims jwt.MapClaims, key string) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		return tok
	}
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "MissingHeader", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "EmptyBearer", authHeader: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "BadToken", authHeader: "Bearer bad.token.here", wantStatus: http.StatusUnauthorized},
		{name: "WrongSecret", authHeader: "Bearer " + sign(jwt.MapClaims{"role": "admin", "exp": exp}, "another-secret-value"), wantStatus: http.StatusUnauthorized},
		{name: "NotAdmin", authHeader: "Bearer " + sign(jwt.MapClaims{"role": "client", "exp": exp}, secret), wantStatus: http.StatusUnauthorized},
		{name: "NoExpiry", authHeader: "Bearer " + sign(jwt.MapClaims{"role": "admin"}, secret), wantStatus: http.StatusUnauthorized},
		{name: "Expired", authHeader: "Bearer " + sign(jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}, secret), wantStatus: http.StatusUnauthorized},
		{name: "Admin", authHeader: "Bearer " + sign(jwt.MapClaims{"role": "admin", "exp": exp}, secret), wantStatus: http.StatusOK},
		{name: "LowercaseScheme", authHeader: "bearer " + sign(jwt.MapClaims{"role": "admin", "exp": exp}, secret), wantStatus: http.StatusOK},
		{name: "UppercaseScheme", authHeader: "BEARER " + sign(jwt.MapClaims{"role": "admin", "exp": exp}, secret), wantStatus: http.StatusOK},
		{name: "BasicScheme", authHeader: "Basic " + sign(jwt.MapClaims{"role": "admin", "exp": exp}, secret), wantStatus: http.StatusUnauthorized},
		{name: "TokenOnly", authHeader: sign(jwt.MapClaims{"role": "admin", "exp": exp}, secret), wantStatus: http.StatusUnauthorized},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if c.authHeader != "" {
				req.Header.Set("Authorization", c.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Result().StatusCode != c.wantStatus {
				t.Fatalf("%s: want %d got %d", c.name, c.wantStatus, w.Result().StatusCode)
			}
		})
	}

	// tokens minted by NewAdminToken are accepted
	tokStr, err := api.NewAdminToken(secret, "ops", time.Minute)
	if err != nil {
		t.Fatalf("NewAdminToken error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokStr)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("minted token: expected 200 got %d", w.Result().StatusCode)
	}
}
