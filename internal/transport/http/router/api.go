package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"it-inventory/internal/core/auth"
	"it-inventory/internal/core/cache"
	"it-inventory/internal/core/config"
	"it-inventory/internal/core/server"
	"it-inventory/internal/repo"
	"it-inventory/internal/service"
	"it-inventory/internal/transport/http/handler"
	mdw "it-inventory/internal/transport/http/middleware"
	resp "it-inventory/internal/transport/http/response"
)

const (
	msgAuthLimited = "Muitas tentativas de login. Tente novamente em 15 minutos."
	msgChatLimited = "Muitas mensagens enviadas. Aguarde um momento."
)

// Deps 引擎依赖；Cache 可为空（限流退回内存）
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Cache  *cache.Cache
	Tokens *auth.Tokens
	LLM    service.Generator
	Audit  *service.AuditRecorder
}

// limiter 按配置选择窗口计数的存储
func (d Deps) limiter(name string, w config.Window) mdw.Limiter {
	window := time.Duration(w.WindowSec) * time.Second
	if d.Config.RateLimit.Store == "redis" && d.Cache != nil {
		return mdw.NewRedisLimiter(d.Cache, name, w.Max, window)
	}
	return mdw.NewMemoryLimiter(w.Max, window)
}

// Modules 组装 repo → service → handler
func Modules(d Deps) []APIModule {
	users := repo.NewUserRepo(d.DB)
	vendors := repo.NewVendorRepo(d.DB)
	items := repo.NewHardwareRepo(d.DB)
	audits := repo.NewAuditRepo(d.DB)
	dash := service.NewDashboardService(repo.NewStatsRepo(d.DB), audits)

	kit := handler.Kit{Log: d.Log, Tokens: d.Tokens, Audit: d.Audit}
	rl := d.Config.RateLimit
	authLimit := mdw.RateLimitPerIP("auth", d.limiter("auth", rl.Auth), msgAuthLimited, d.Log)
	chatLimit := mdw.RateLimitPerIP("chat", d.limiter("chat", rl.Chat), msgChatLimited, d.Log)

	return []APIModule{
		handler.NewAuthHandler(kit, service.NewAuthService(users, d.Tokens), authLimit, d.Config.App.Production()),
		handler.NewDashboardHandler(kit, dash),
		handler.NewHardwareHandler(kit, service.NewHardwareService(items, vendors, users, repo.NewCatalogRepo(d.DB))),
		handler.NewVendorHandler(kit, service.NewVendorService(vendors)),
		handler.NewUserHandler(kit, service.NewUserService(users)),
		handler.NewChatHandler(kit, service.NewChatService(d.LLM, dash, d.Log), chatLimit),
	}
}

func NewAPIEngine(d Deps) *gin.Engine {
	cfg := d.Config
	mode := "" // 非生产沿用当前模式，测试里是 TestMode
	if cfg.App.Production() {
		mode = gin.ReleaseMode
	}
	r := server.NewRouter(d.Log, server.Options{
		Mode:           mode,
		Production:     cfg.App.Production(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.App.HTTP.TrustedProxies,
		Recovery:       mdw.Recovery(d.Log),
	})

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		mdw.RateLimit(rate.Limit(cfg.RateLimit.GlobalRPS), cfg.RateLimit.Burst),
		mdw.ConcurrencyLimit(cfg.App.HTTP.MaxConcurrent),
		mdw.MaxBodyBytes(cfg.App.HTTP.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(cfg.App.HTTP.RequestTimeoutSec)*time.Second),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, "") })

	var reg Registry
	reg.Register(Modules(d)...)
	reg.MountAll(r.Group("/api"))

	return r
}
