package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestToInt64(t *testing.T) {
	for _, value := range []interface{}{int64(7), int(7), int32(7), uint64(7)} {
		got, ok := toInt64(value)
		if !ok || got != 7 {
			t.Fatalf("toInt64(%T) = %d %v", value, got, ok)
		}
	}
	if _, ok := toInt64("7"); ok {
		t.Fatalf("strings must not convert")
	}
	if _, ok := toInt64(nil); ok {
		t.Fatalf("nil must not convert")
	}
}

func jsonFieldContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/login", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestReadJSONFieldRestoresBody(t *testing.T) {
	c := jsonFieldContext(t, `{"email":" Farmer@Example.com ","password":"x"}`)

	if got := readJSONField(c, "email"); got != "Farmer@Example.com" {
		t.Fatalf("expected trimmed field value, got %q", got)
	}
	// The body must still be readable by the handler's binder.
	var payload struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		t.Fatalf("body was consumed: %v", err)
	}
	if payload.Email != " Farmer@Example.com " {
		t.Fatalf("unexpected rebound body: %q", payload.Email)
	}
}

func TestReadJSONFieldEdgeCases(t *testing.T) {
	if got := readJSONField(jsonFieldContext(t, "not json"), "email"); got != "" {
		t.Fatalf("invalid JSON must yield empty, got %q", got)
	}
	if got := readJSONField(jsonFieldContext(t, `{"email":42}`), "email"); got != "" {
		t.Fatalf("non-string field must yield empty, got %q", got)
	}
	if got := readJSONField(jsonFieldContext(t, `{}`), "email"); got != "" {
		t.Fatalf("missing field must yield empty, got %q", got)
	}
}

func TestKeyByIPAndJSONField(t *testing.T) {
	c := jsonFieldContext(t, `{"email":"Farmer@Example.com"}`)
	key := KeyByIPAndJSONField("email")(c)
	if !strings.HasPrefix(key, "farmer@example.com|") {
		t.Fatalf("expected lowercased email plus IP, got %q", key)
	}

	// Without the field the key falls back to the client IP alone.
	c = jsonFieldContext(t, `{}`)
	if key := KeyByIPAndJSONField("email")(c); strings.Contains(key, "|") {
		t.Fatalf("expected bare IP fallback, got %q", key)
	}
}

func TestRateLimitMiddlewarePassThroughWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rule := RateLimitRule{Prefix: "test", WindowSeconds: 60, MaxRequests: 1}
	r.Use(RateLimitMiddleware(nil, rule, KeyByIP))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		if w.Code != http.StatusOK || w.Body.String() != "ok" {
			t.Fatalf("request %d: expected pass-through, got %d %q", i, w.Code, w.Body.String())
		}
	}
}
