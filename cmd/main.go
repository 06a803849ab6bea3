package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	httpctx "github.com/dtroode/blog-server/internal/api/http/context"
	"github.com/dtroode/blog-server/internal/api/http/handler"
	"github.com/dtroode/blog-server/internal/api/http/router"
	httpServer "github.com/dtroode/blog-server/internal/api/http/server"
	"github.com/dtroode/blog-server/internal/config"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/observability"
	"github.com/dtroode/blog-server/internal/password"
	"github.com/dtroode/blog-server/internal/repository/memory"
	"github.com/dtroode/blog-server/internal/repository/postgres"
	"github.com/dtroode/blog-server/internal/server"
	"github.com/dtroode/blog-server/internal/service"
	storage "github.com/dtroode/blog-server/internal/storage/minio"
	"github.com/dtroode/blog-server/internal/token"
	"github.com/dtroode/blog-server/internal/verification"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := observability.InitSentry(cfg.Sentry.DSN, cfg.Sentry.Environment, buildVersion); err != nil {
		logger.Fatal("failed to initialize sentry", "error", err)
	}
	defer observability.FlushSentry()

	accounts, closeStore := openAccountStore(ctx, cfg, logger)
	defer closeStore()

	issuer := token.NewJWT(
		token.Key{Secret: cfg.AccessToken.Secret, ExpiresIn: cfg.AccessToken.Expiry},
		token.Key{Secret: cfg.RefreshToken.Secret, ExpiresIn: cfg.RefreshToken.Expiry},
	)
	hasher := password.NewHasher(password.Params{
		N:      cfg.KDF.N,
		R:      cfg.KDF.R,
		P:      cfg.KDF.P,
		KeyLen: cfg.KDF.KeyLen,
	})

	var avatars model.Storage
	if cfg.Storage.Enabled {
		avatars, err = storage.NewClient(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
	} else {
		logger.Warn("object storage disabled, avatars will not be stored")
	}

	var verifier model.Verifier
	if cfg.Twilio.AccountSID != "" {
		verifier = verification.NewTwilio(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.ServiceID)
	} else {
		logger.Warn("twilio not configured, two-step verification disabled")
	}

	tokenService := service.NewTokenService(issuer, accounts, logger)
	authService := service.NewAuth(accounts, hasher, tokenService, avatars, verifier, logger)

	gin.SetMode(gin.ReleaseMode)
	r := router.New(authService, tokenService, httpctx.NewManager(), metrics.New(), router.Options{
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		Cookies: handler.CookieOptions{
			Secure:        cfg.Cookie.Secure,
			Domain:        cfg.Cookie.Domain,
			AccessMaxAge:  cfg.AccessToken.Expiry,
			RefreshMaxAge: cfg.RefreshToken.Expiry,
		},
	}, logger)

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openAccountStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.AccountStore, func()) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("using in-memory account store, data is lost on restart")
		return memory.NewAccountRepository(), func() {}
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}

	return postgres.NewAccountRepository(db), func() { _ = db.Close() }
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
