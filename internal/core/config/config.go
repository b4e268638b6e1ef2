package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

func (a App) IsProduction() bool { return a.Env == "production" }

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
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
	CookieName        string
	CookieTTLHours    int
	CookieSecure      bool
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttlsec"`
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

type Mail struct {
	Enabled    bool
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
	SiteURL    string
	TimeoutSec int
}

type Limits struct {
	GlobalRPS      float64
	GlobalBurst    int
	AuthRPS        float64
	AuthBurst      int
	ContactRPS     float64
	ContactBurst   int
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout int
}

type CORS struct {
	AllowOrigins []string
}

type Tracing struct {
	Endpoint    string
	ServiceName string
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Mail    Mail
	Limits  Limits
	CORS    CORS `mapstructure:"cors"`
	Tracing Tracing
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "studio-site-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "studio-site-api")
	v.SetDefault("jwt.accesstokenttlmin", 7*24*60)
	v.SetDefault("jwt.cookiename", "jwt")
	v.SetDefault("jwt.cookiettlhours", 7*24)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "./data/studio.db")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("redis.ttlsec", 60)
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.timeoutsec", 15)
	v.SetDefault("limits.globalrps", 200)
	v.SetDefault("limits.globalburst", 400)
	v.SetDefault("limits.authrps", 5.0/60)
	v.SetDefault("limits.authburst", 5)
	v.SetDefault("limits.contactrps", 3.0/3600)
	v.SetDefault("limits.contactburst", 3)
	v.SetDefault("limits.maxconcurrent", 300)
	v.SetDefault("limits.maxbodybytes", 10<<20)
	v.SetDefault("limits.requesttimeout", 10)
	v.SetDefault("tracing.servicename", "studio-site-api")
}
