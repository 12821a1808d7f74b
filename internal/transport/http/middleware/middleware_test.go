package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"it-inventory/internal/core/auth"
	"it-inventory/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func testTokens() *auth.Tokens {
	return auth.NewTokens("a-secret", "r-secret", "it-inventory", 15*time.Minute, time.Hour)
}

func bearerFor(t *testing.T, tk *auth.Tokens, id, role string) string {
	t.Helper()
	p, err := tk.Issue(auth.Identity{ID: id, Email: id + "@x.com", Role: role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + p.AccessToken
}

func serve(r http.Handler, method, path, authz, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }

func TestAuthenticateAndAuthorize(t *testing.T) {
	tk := testTokens()
	r := gin.New()
	g := r.Group("", Authenticate(tk))
	g.DELETE("/hardware/:id", Authorize(domain.RoleAdmin), ok)
	g.DELETE("/users/:id", ForbidSelf(), Authorize(domain.RoleAdmin), ok)

	refresh, _ := tk.Issue(auth.Identity{ID: "u1", Role: domain.RoleAdmin})
	tests := []struct {
		name, method, path, authz string
		code                      int
		body                      string
	}{
		{"no token", "DELETE", "/hardware/1", "", 401, `{"error":"Token de acesso requerido"}`},
		{"garbage token", "DELETE", "/hardware/1", "Bearer nope", 401, `{"error":"Token inválido"}`},
		{"refresh as access", "DELETE", "/hardware/1", "Bearer " + refresh.RefreshToken, 401, `{"error":"Token inválido"}`},
		{"colaborador", "DELETE", "/hardware/1", bearerFor(t, tk, "u2", domain.RoleColaborador), 403, `{"error":"Acesso negado"}`},
		{"admin", "DELETE", "/hardware/1", bearerFor(t, tk, "u1", domain.RoleAdmin), 200, `{"ok":true}`},
		{"self delete admin", "DELETE", "/users/u1", bearerFor(t, tk, "u1", domain.RoleAdmin), 400, `{"error":"Não é possível excluir sua própria conta"}`},
		{"self delete colaborador", "DELETE", "/users/u2", bearerFor(t, tk, "u2", domain.RoleColaborador), 400, `{"error":"Não é possível excluir sua própria conta"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, tt.authz, "")
			if w.Code != tt.code || w.Body.String() != tt.body {
				t.Fatalf("got %d %s, want %d %s", w.Code, w.Body.String(), tt.code, tt.body)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tk := testTokens()
	r := gin.New()
	r.POST("/register", OptionalAuth(tk), func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "role": id.Role})
	})
	if w := serve(r, "POST", "/register", "Bearer junk", ""); w.Body.String() != `{"ok":false,"role":""}` {
		t.Fatalf("invalid token should be anonymous: %s", w.Body.String())
	}
	if w := serve(r, "POST", "/register", bearerFor(t, tk, "a", domain.RoleAdmin), ""); w.Body.String() != `{"ok":true,"role":"ADMIN"}` {
		t.Fatalf("admin token ignored: %s", w.Body.String())
	}
}

type memSink struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (s *memSink) Record(e domain.AuditLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func TestAudit(t *testing.T) {
	tk := testTokens()
	sink := &memSink{}
	r := gin.New()
	g := r.Group("", Authenticate(tk))
	g.PUT("/users/:id", Audit(domain.EntityUser, sink), func(c *gin.Context) {
		var in map[string]any
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
			return
		}
		c.JSON(http.StatusOK, in)
	})
	g.POST("/hardware", Audit(domain.EntityHardware, sink), func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dup"})
	})

	authz := bearerFor(t, tk, "admin-1", domain.RoleAdmin)
	w := serve(r, "PUT", "/users/u9", authz, `{"name":"Zé","password":"x","oldValues":{"name":"José"}}`)
	if w.Code != 200 || !strings.Contains(w.Body.String(), `"name":"Zé"`) {
		t.Fatalf("handler did not see body: %d %s", w.Code, w.Body.String())
	}
	serve(r, "POST", "/hardware", authz, `{"assetTag":"A"}`)

	if len(sink.entries) != 1 {
		t.Fatalf("expected only the successful request audited, got %d", len(sink.entries))
	}
	e := sink.entries[0]
	if *e.UserID != "admin-1" || e.EntityType != domain.EntityUser || e.EntityID != "u9" || e.Action != "PUT /users/:id" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.NewValues == nil || strings.Contains(*e.NewValues, `"x"`) || !strings.Contains(*e.NewValues, `"password":"****"`) {
		t.Fatalf("password not masked: %v", e.NewValues)
	}
	if e.OldValues == nil || *e.OldValues != `{"name":"José"}` {
		t.Fatalf("oldValues = %v", e.OldValues)
	}
}

func TestMemoryLimiterWindow(t *testing.T) {
	lim := NewMemoryLimiter(5, 15*time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lim.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if ok, _ := lim.Allow(ctx, "1.2.3.4"); !ok {
			t.Fatalf("attempt %d rejected", i+1)
		}
	}
	if ok, _ := lim.Allow(ctx, "1.2.3.4"); ok {
		t.Fatalf("6th attempt allowed")
	}
	if ok, _ := lim.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatalf("other ip should have its own window")
	}
	now = now.Add(15 * time.Minute)
	if ok, _ := lim.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatalf("counter should reset after the window")
	}
}

func TestMemoryLimiterSpreadAttempts(t *testing.T) {
	lim := NewMemoryLimiter(5, 15*time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	lim.now = func() time.Time { return now }
	ctx := context.Background()

	// 每分钟一次，窗口内也只能放行 max 次
	allowed := 0
	for m := 0; m < 15; m++ {
		if ok, _ := lim.Allow(ctx, "1.2.3.4"); ok {
			allowed++
		}
		now = now.Add(time.Minute)
	}
	if allowed != 5 {
		t.Fatalf("allowed = %d, want 5", allowed)
	}
	if ok, _ := lim.Allow(ctx, "1.2.3.4"); !ok {
		t.Fatalf("new window should allow again")
	}
	if n := len(lim.counters); n != 1 {
		t.Fatalf("counters = %d, want 1", n)
	}
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimitPerIP("auth", NewMemoryLimiter(2, time.Minute), "Muitas tentativas", zap.NewNop()), ok)
	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, "POST", "/login", "", "").Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != 429 {
		t.Fatalf("codes = %v", codes)
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.POST("/x", MaxBodyBytes(8), ok)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/x", bytes.NewReader(make([]byte, 64)))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestRecoveryReturnsGeneric500(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	w := serve(r, "GET", "/panic", "", "")
	if w.Code != 500 || w.Body.String() != `{"error":"Erro interno do servidor"}` {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}
