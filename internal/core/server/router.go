package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Mode           string   // gin 模式：debug / release / test
	Production     bool     // 生产环境开启 HSTS 等严格头
	AllowedOrigins []string // CORS 白名单，允许携带 cookie
	TrustedProxies []string
	Recovery       gin.HandlerFunc // 为空时使用 ginzap 默认恢复
}

// NewRouter 基础引擎：恢复、安全头、CORS、压缩
func NewRouter(l *zap.Logger, opt Options) *gin.Engine {
	if opt.Mode != "" {
		gin.SetMode(opt.Mode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(opt.TrustedProxies); err != nil {
		l.Warn("invalid trusted proxies, trusting none", zap.Strings("proxies", opt.TrustedProxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	rec := opt.Recovery
	if rec == nil {
		rec = ginzap.RecoveryWithZap(l, true)
	}
	r.Use(rec)

	r.Use(secure.New(secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'",
		STSSeconds:            stsSeconds(opt.Production),
		STSIncludeSubdomains:  opt.Production,
	}))

	if len(opt.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opt.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(gzip.Gzip(gzip.DefaultCompression))
	return r
}

func stsSeconds(prod bool) int64 {
	if prod {
		return 180 * 24 * 3600
	}
	return 0
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
