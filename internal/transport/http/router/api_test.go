package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"it-inventory/internal/core/auth"
	"it-inventory/internal/core/config"
	"it-inventory/internal/core/database"
	"it-inventory/internal/core/llm"
	"it-inventory/internal/domain"
	"it-inventory/internal/repo"
	"it-inventory/internal/service"
	"it-inventory/pkg/utils"
)

func init() { gin.SetMode(gin.TestMode) }

type env struct {
	t        *testing.T
	engine   *gin.Engine
	users    *repo.UserRepo
	recorder *service.AuditRecorder
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.App{Name: "it-inventory", Env: "test", HTTP: config.HTTP{
			MaxBodyMB: 1, MaxConcurrent: 50, RequestTimeoutSec: 10,
		}},
		CORS: config.CORS{AllowedOrigins: []string{"http://localhost:5173"}},
		RateLimit: config.RateLimit{
			Store: "memory", GlobalRPS: 1000, Burst: 1000,
			Auth: config.Window{Max: 5, WindowSec: 900},
			Chat: config.Window{Max: 10, WindowSec: 60},
		},
	}
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + t.Name() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	rec := service.NewAuditRecorder(repo.NewAuditRepo(db), zap.NewNop())
	e := NewAPIEngine(Deps{
		Config: testConfig(),
		Log:    zap.NewNop(),
		DB:     db,
		Tokens: auth.NewTokens("access-secret", "refresh-secret", "it-inventory", 15*time.Minute, 7*24*time.Hour),
		LLM:    llm.Unavailable{},
		Audit:  rec,
	})
	return &env{t: t, engine: e, users: repo.NewUserRepo(db), recorder: rec}
}

func (e *env) do(method, path, token, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	e.engine.ServeHTTP(w, req)
	return w
}

// user 直接写库后登录，拿 access token
func (e *env) user(role, email string) (id, token string) {
	e.t.Helper()
	hash, err := utils.HashPassword("secret1")
	if err != nil {
		e.t.Fatalf("hash: %v", err)
	}
	u := &domain.User{ID: utils.NewID(), Name: role, Email: email, PasswordHash: hash, Role: role}
	if err := e.users.Create(context.Background(), u); err != nil {
		e.t.Fatalf("create user: %v", err)
	}
	w := e.do(http.MethodPost, "/api/auth/login", "", `{"email":"`+email+`","password":"secret1"}`)
	if w.Code != http.StatusOK {
		e.t.Fatalf("login %s: %d %s", email, w.Code, w.Body.String())
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	decode(e.t, w, &out)
	return u.ID, out.AccessToken
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("status = %d, want %d (%s)", w.Code, code, w.Body.String())
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	if body.Error != msg {
		t.Fatalf("error = %q, want %q", body.Error, msg)
	}
}

func TestHealthAndUnknownRoute(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"OK"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
	wantError(t, e.do(http.MethodGet, "/api/nope", "", ""), http.StatusNotFound, "Rota não encontrada")
}

func TestRegisterLoginAndEmptyHardwareList(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodPost, "/api/auth/register", "", `{"name":"Ana","email":"ana@x.com","password":"secret1","role":"ADMIN"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register = %d %s", w.Code, w.Body.String())
	}
	var reg struct {
		User domain.User `json:"user"`
	}
	decode(t, w, &reg)
	if reg.User.Role != domain.RoleColaborador {
		t.Fatalf("anonymous register got role %s", reg.User.Role)
	}
	if strings.Contains(w.Body.String(), "passwordHash") {
		t.Fatalf("password hash leaked: %s", w.Body.String())
	}

	w = e.do(http.MethodPost, "/api/auth/login", "", `{"email":"ana@x.com","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d %s", w.Code, w.Body.String())
	}
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	decode(t, w, &login)

	wantError(t, e.do(http.MethodGet, "/api/hardware", "", ""), http.StatusUnauthorized, "Token de acesso requerido")

	w = e.do(http.MethodGet, "/api/hardware", login.AccessToken, "")
	want := `{"items":[],"pagination":{"page":1,"limit":10,"total":0,"pages":0}}`
	if w.Code != http.StatusOK || w.Body.String() != want {
		t.Fatalf("list = %d %s, want %s", w.Code, w.Body.String(), want)
	}

	w = e.do(http.MethodGet, "/api/dashboard/stats", login.AccessToken, "")
	var stats domain.DashboardStats
	decode(t, w, &stats)
	if w.Code != http.StatusOK || stats.TotalAssets != 0 || stats.TopVendors == nil {
		t.Fatalf("stats = %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"assetsByStatus":{"DESATIVADO":0,`) || stats.AssetsByStatus[domain.StatusEmUso] != 0 {
		t.Fatalf("assetsByStatus should be an object keyed by status: %s", w.Body.String())
	}

	wantError(t, e.do(http.MethodPost, "/api/auth/login", "", `{"email":"ana@x.com","password":"wrong"}`),
		http.StatusUnauthorized, "Credenciais inválidas")
}

func TestDuplicateAssetTag(t *testing.T) {
	e := newEnv(t)
	_, tok := e.user(domain.RoleGestor, "gestor@x.com")
	body := `{"assetTag":"NB-001","type":"LAPTOP"}`

	w := e.do(http.MethodPost, "/api/hardware", tok, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create = %d %s", w.Code, w.Body.String())
	}
	wantError(t, e.do(http.MethodPost, "/api/hardware", tok, body), http.StatusBadRequest, "Tag do ativo já está em uso")
	wantError(t, e.do(http.MethodPost, "/api/hardware", tok, `{"assetTag":"NB-002","type":"TORRADEIRA"}`),
		http.StatusBadRequest, "Dados inválidos")
}

func TestHardwareDetailShape(t *testing.T) {
	e := newEnv(t)
	_, tok := e.user(domain.RoleGestor, "gestor@x.com")

	w := e.do(http.MethodPost, "/api/hardware", tok,
		`{"assetTag":"NB-010","type":"LAPTOP","purchaseDate":"2024-01-15","warrantyEndDate":"","vendorId":""}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	var item domain.HardwareItem
	decode(t, w, &item)

	w = e.do(http.MethodGet, "/api/hardware/"+item.ID, tok, "")
	if w.Code != http.StatusOK {
		t.Fatalf("detail = %d %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{
		`"assetTag":"NB-010"`,
		`"purchaseDate":"2024-01-15T00:00:00`,
		`"warrantyEndDate":null`,
		`"vendorId":null`,
		`"attachments":[]`,
		`"maintenances":[]`,
		`"allocations":[]`,
		`"softwareInstalls":[]`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("detail missing %s: %s", want, body)
		}
	}

	wantError(t, e.do(http.MethodPost, "/api/hardware", tok, `{"assetTag":"NB-011","type":"LAPTOP","purchaseDate":"15/01/2024"}`),
		http.StatusBadRequest, "Dados inválidos")
}

func TestDeleteHardwareRolesAndAudit(t *testing.T) {
	e := newEnv(t)
	_, admin := e.user(domain.RoleAdmin, "admin@x.com")
	_, colab := e.user(domain.RoleColaborador, "colab@x.com")

	w := e.do(http.MethodPost, "/api/hardware", admin, `{"assetTag":"MN-7","type":"MONITOR"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", w.Code, w.Body.String())
	}
	var item domain.HardwareItem
	decode(t, w, &item)

	wantError(t, e.do(http.MethodDelete, "/api/hardware/"+item.ID, colab, ""), http.StatusForbidden, "Acesso negado")

	w = e.do(http.MethodDelete, "/api/hardware/"+item.ID, admin, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Item excluído com sucesso") {
		t.Fatalf("delete = %d %s", w.Code, w.Body.String())
	}
	wantError(t, e.do(http.MethodDelete, "/api/hardware/"+item.ID, admin, ""), http.StatusNotFound, "Item não encontrado")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.recorder.Close(ctx); err != nil {
		t.Fatalf("drain audit: %v", err)
	}
	w = e.do(http.MethodGet, "/api/dashboard/activity", admin, "")
	var logs []domain.AuditLog
	decode(t, w, &logs)
	// 创建 + 删除成功；403 与 404 不记录
	if len(logs) != 2 {
		t.Fatalf("audit entries = %d, want 2: %s", len(logs), w.Body.String())
	}
	if logs[0].Action != "DELETE /api/hardware/:id" && logs[1].Action != "DELETE /api/hardware/:id" {
		t.Fatalf("delete not audited: %+v", logs)
	}
}

func TestSelfDeleteIsRejected(t *testing.T) {
	e := newEnv(t)
	adminID, admin := e.user(domain.RoleAdmin, "admin@x.com")
	colabID, colab := e.user(domain.RoleColaborador, "colab@x.com")

	wantError(t, e.do(http.MethodDelete, "/api/users/"+adminID, admin, ""), http.StatusBadRequest, "Não é possível excluir sua própria conta")
	wantError(t, e.do(http.MethodDelete, "/api/users/"+colabID, colab, ""), http.StatusBadRequest, "Não é possível excluir sua própria conta")

	w := e.do(http.MethodDelete, "/api/users/"+colabID, admin, "")
	if w.Code != http.StatusOK {
		t.Fatalf("admin delete other = %d %s", w.Code, w.Body.String())
	}
}

func TestRefreshCookieRoundTrip(t *testing.T) {
	e := newEnv(t)
	e.user(domain.RoleGestor, "g@x.com")

	w := e.do(http.MethodPost, "/api/auth/login", "", `{"email":"g@x.com","password":"secret1"}`)
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "refreshToken" {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("refresh cookie = %+v", cookie)
	}

	wantError(t, e.do(http.MethodPost, "/api/auth/refresh", "", ""), http.StatusUnauthorized, "Refresh token não encontrado")

	w = e.do(http.MethodPost, "/api/auth/refresh", "", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh = %d %s", w.Code, w.Body.String())
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	decode(t, w, &out)
	w = e.do(http.MethodGet, "/api/auth/me", out.AccessToken, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "g@x.com") {
		t.Fatalf("me = %d %s", w.Code, w.Body.String())
	}
}

func TestLoginRateLimit(t *testing.T) {
	e := newEnv(t)
	body := `{"email":"nobody@x.com","password":"secret1"}`
	for i := 0; i < 5; i++ {
		if w := e.do(http.MethodPost, "/api/auth/login", "", body); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d", i, w.Code)
		}
	}
	wantError(t, e.do(http.MethodPost, "/api/auth/login", "", body), http.StatusTooManyRequests, msgAuthLimited)
}

func TestChatFallsBackWithoutModel(t *testing.T) {
	e := newEnv(t)
	_, tok := e.user(domain.RoleColaborador, "c@x.com")

	w := e.do(http.MethodPost, "/api/chat/ask", tok, `{"message":"Quantos notebooks temos?"}`)
	var out struct {
		Response string `json:"response"`
	}
	decode(t, w, &out)
	if w.Code != http.StatusOK || out.Response != service.ChatFallback {
		t.Fatalf("ask = %d %s", w.Code, w.Body.String())
	}
	wantError(t, e.do(http.MethodPost, "/api/chat/ask", tok, `{}`), http.StatusBadRequest, "Não foi possível processar sua mensagem")

	w = e.do(http.MethodGet, "/api/chat/suggestions", tok, "")
	var sugg []string
	decode(t, w, &sugg)
	if len(sugg) != 8 {
		t.Fatalf("suggestions = %d", len(sugg))
	}
}
