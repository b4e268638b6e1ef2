package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"studio-site-api/internal/core/auth"
	"studio-site-api/internal/core/cache"
	"studio-site-api/internal/core/config"
	"studio-site-api/internal/core/database"
	"studio-site-api/internal/core/logger"
	"studio-site-api/internal/core/mailer"
	"studio-site-api/internal/core/server"
	"studio-site-api/internal/core/tracing"
	"studio-site-api/internal/repo"
	"studio-site-api/internal/service"
	"studio-site-api/internal/transport/http/handler"
	"studio-site-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	ctx := context.Background()
	shutdownTracer, err := tracing.Init(ctx, log, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName, cfg.App.Env)
	if err != nil {
		log.Fatal("tracing init", zap.Error(err))
	}

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, time.Duration(cfg.Redis.TTLSec)*time.Second)
	if rc != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, serving without cache", zap.Error(err))
		}
		cancel()
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	users := repo.NewUserRepo(db)
	team := repo.NewTeamRepo(db)
	authSvc := service.NewAuthService(users, jwter)
	teamSvc := service.NewTeamService(team, rc)
	projectSvc := service.NewProjectService(repo.NewProjectRepo(db), team, rc)
	contactSvc := service.NewContactService(repo.NewContactRepo(db), users, newNotifier(cfg, log), log)

	mode := gin.DebugMode
	if cfg.App.IsProduction() {
		mode = gin.ReleaseMode
	}
	r := router.NewAPIEngine(router.Deps{
		Log:      log,
		Auth:     authSvc,
		Team:     teamSvc,
		Projects: projectSvc,
		Contact:  contactSvc,
		Cookie: handler.CookieConfig{
			Name:   cfg.JWT.CookieName,
			TTL:    time.Duration(cfg.JWT.CookieTTLHours) * time.Hour,
			Secure: cfg.JWT.CookieSecure || cfg.App.IsProduction(),
		},
		Limits:      cfg.Limits,
		AllowOrigin: cfg.CORS.AllowOrigins,
		Env:         cfg.App.Env,
		Mode:        mode,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, tracing.Handler(r, cfg.Tracing.ServiceName),
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("env", cfg.App.Env),
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx, srv, log); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if err := contactSvc.Close(ctx); err != nil {
		log.Warn("pending notifications abandoned", zap.Error(err))
	}
	if err := shutdownTracer(ctx); err != nil {
		log.Warn("tracer shutdown", zap.Error(err))
	}
	if err := rc.Close(); err != nil {
		log.Warn("redis close", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Warn("db close", zap.Error(err))
	}
	log.Info("api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	opt := logger.Options{
		Level:   cfg.Log.Level,
		JSON:    cfg.Log.JSON,
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
	}
	if cfg.Log.File.Enable {
		opt.Rotate = &logger.FileRotate{
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		}
	}
	return logger.Build(opt)
}

// newNotifier wires SMTP when mail is enabled; otherwise submissions are
// stored without email.
func newNotifier(cfg *config.Config, l *zap.Logger) service.Notifier {
	if !cfg.Mail.Enabled {
		l.Info("mail disabled: contact notifications are skipped")
		return service.NopNotifier{}
	}
	return mailer.New(mailer.Config{
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port,
		Username:   cfg.Mail.Username,
		Password:   cfg.Mail.Password,
		From:       cfg.Mail.From,
		AdminEmail: cfg.Mail.AdminEmail,
		SiteURL:    cfg.Mail.SiteURL,
		Timeout:    time.Duration(cfg.Mail.TimeoutSec) * time.Second,
	})
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, l)
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
