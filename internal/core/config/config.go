package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
	MaxBodyMB         int64
	MaxConcurrent     int64
	TrustedProxies    []string // 为空时不信任任何代理头
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

// Production 生产环境下 cookie 带 Secure
func (a App) Production() bool { return strings.EqualFold(a.Env, "production") }

type FileLog struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  FileLog
}

type JWT struct {
	Secret               string
	RefreshSecret        string
	Issuer               string
	AccessTokenTTLMin    int
	RefreshTokenTTLHours int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type CORS struct {
	AllowedOrigins []string
}

// Window 窗口限流：Window 秒内最多 Max 次
type Window struct {
	Max       int
	WindowSec int
}

type RateLimit struct {
	Store     string // memory | redis
	GlobalRPS float64
	Burst     int
	Auth      Window
	Chat      Window
}

type Gemini struct {
	APIKey     string
	Model      string
	TimeoutSec int
}

type Seed struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Redis     Redis `mapstructure:"redis"`
	CORS      CORS
	RateLimit RateLimit
	Gemini    Gemini
	Seed      Seed
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "it-inventory")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3001)
	v.SetDefault("app.http.readTimeoutSec", 10)
	v.SetDefault("app.http.writeTimeoutSec", 60)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.requestTimeoutSec", 45)
	v.SetDefault("app.http.maxBodyMB", 10)
	v.SetDefault("app.http.maxConcurrent", 300)
	v.SetDefault("app.http.trustedProxies", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.compress", true)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 7)
	v.SetDefault("log.file.maxAgeDays", 30)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.refreshSecret", "")
	v.SetDefault("jwt.issuer", "it-inventory")
	v.SetDefault("jwt.accessTokenTTLMin", 15)
	v.SetDefault("jwt.refreshTokenTTLHours", 7*24)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 5)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("db.dsn", "")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")

	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetDefault("ratelimit.store", "memory")
	v.SetDefault("ratelimit.globalRPS", 200)
	v.SetDefault("ratelimit.burst", 400)
	v.SetDefault("ratelimit.auth.max", 5)
	v.SetDefault("ratelimit.auth.windowSec", 15*60)
	v.SetDefault("ratelimit.chat.max", 10)
	v.SetDefault("ratelimit.chat.windowSec", 60)

	v.SetDefault("gemini.apiKey", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeoutSec", 30)

	v.SetDefault("seed.adminName", "Administrador")
	v.SetDefault("seed.adminEmail", "admin@mbconsultoria.com")
	v.SetDefault("seed.adminPassword", "")
}

// Load 读取 yaml + APP_ 前缀环境变量；文件不存在时只用默认值和环境变量
func Load(path string) *Config {
	c, err := load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("jwt.secret and jwt.refreshSecret are required")
	}
	if c.JWT.Secret == c.JWT.RefreshSecret {
		return errors.New("jwt.refreshSecret must differ from jwt.secret")
	}
	for name, w := range map[string]Window{"auth": c.RateLimit.Auth, "chat": c.RateLimit.Chat} {
		if w.Max <= 0 || w.WindowSec <= 0 {
			return fmt.Errorf("ratelimit.%s.max and ratelimit.%s.windowSec must be positive", name, name)
		}
	}
	return nil
}
