package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/rewards-onboarding/internal/entity"
)

func TestVisitorIssuesCookieOnce(t *testing.T) {
	var seen string
	h := Visitor(time.Hour, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = VisitorID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/onboarding/search", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, VisitorCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, cookies[0].Value, seen)

	req := httptest.NewRequest(http.MethodGet, "/onboarding/search", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, cookies[0].Value, seen)
}

func TestVisitorReplacesForgedCookie(t *testing.T) {
	var seen string
	h := Visitor(time.Hour, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = VisitorID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEqual(t, "../../etc", seen)
	assert.Len(t, seen, 36)
}

func TestSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, &entity.Session{Token: "jwt", ExpiresAt: time.Now().Add(7 * 24 * time.Hour)}, false)

	c := rec.Result().Cookies()[0]
	assert.Equal(t, SessionCookie, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.True(t, c.HttpOnly)
	assert.InDelta(t, 7*24*3600, c.MaxAge, 5)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.Empty(t, SessionToken(req))
	req.AddCookie(c)
	assert.Equal(t, "jwt", SessionToken(req))
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Now()
	l.now = func() time.Time { return now }

	h := l.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/places/search", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/api/places/search", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/business/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/business/42/status", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, http.StatusBadGateway, hook.LastEntry().Data["status"])
}
