package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type ContentAPIConfig struct {
	BaseURL        string
	AssetBaseURL   string
	RequestTimeout time.Duration
}

type SessionConfig struct {
	CookieName    string
	CookieSecure  bool
	CookieMaxAge  time.Duration
	VerifyTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CacheConfig struct {
	TTL          time.Duration
	WarmSchedule string
}

type SiteConfig struct {
	Title       string
	AdminUserID int
}

type AppConfig struct {
	Environment string
	HTTP        HTTPConfig
	ContentAPI  ContentAPIConfig
	Session     SessionConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Site        SiteConfig
	TemplateDir string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("ATELIER")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("contentapi.baseurl", "http://localhost:8000/api")
	v.SetDefault("contentapi.assetbaseurl", "http://localhost:8000")
	v.SetDefault("contentapi.requesttimeout", "10s")

	v.SetDefault("session.cookiename", "atelier_token")
	v.SetDefault("session.cookiesecure", false)
	v.SetDefault("session.cookiemaxage", "24h")
	v.SetDefault("session.verifytimeout", "5s")

	// empty addr leaves the listing cache disabled
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.ttl", "60s")
	v.SetDefault("cache.warmschedule", "0 */5 * * * *")

	v.SetDefault("site.title", "atelier")
	v.SetDefault("site.adminuserid", 1)

	v.SetDefault("templatedir", "web/templates")
}
