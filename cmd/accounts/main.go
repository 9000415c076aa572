package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ssarthaks/gym-webapp/internal/config"
	"github.com/ssarthaks/gym-webapp/internal/mailer"
	"github.com/ssarthaks/gym-webapp/internal/observability/logging"
	"github.com/ssarthaks/gym-webapp/internal/observability/metrics"
	impl "github.com/ssarthaks/gym-webapp/internal/service/impl"
	"github.com/ssarthaks/gym-webapp/internal/store"
	"github.com/ssarthaks/gym-webapp/internal/token"
	httpx "github.com/ssarthaks/gym-webapp/internal/transport/http"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "accounts",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)
	if err := st.AutoMigrate(); err != nil {
		logger.Error("auto migrate", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister("accounts")

	pw := impl.NewPasswordServiceBcrypt()

	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		TTL:        cfg.TokenTTL,
		SigningKey: []byte(cfg.SigningKey),
	})

	mail := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		User:        cfg.SMTPUser,
		Pass:        cfg.SMTPPass,
		From:        cfg.SMTPUser,
		FrontendURL: cfg.FrontendURL,
	})

	vs := impl.NewVerificationServiceImpl(st, token.SecureSource{}, mail, impl.VerificationConfig{
		OTPTTL:    cfg.OTPTTL,
		VerifyTTL: cfg.VerifyTTL,
		ResetTTL:  cfg.ResetTTL,
	})

	as := impl.NewAuthServiceImpl(st, pw, ts, vs, cfg.SessionTTL)
	us := impl.NewUserServiceImpl(st)

	var authn httpx.Authenticator
	switch cfg.AuthStrategy {
	case "stateless":
		authn = &httpx.StatelessAuthenticator{Tokens: ts, Users: st.Users()}
	default:
		authn = &httpx.StatefulAuthenticator{Sessions: st.Sessions(), Users: st.Users(), TTL: cfg.SessionTTL}
	}
	logger.Info("auth strategy selected", "strategy", cfg.AuthStrategy)

	go sweepExpired(st, vs, cfg.SweepEvery, logger)

	mux := httpx.NewRouter(as, us, authn)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("accounts service listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// sweepExpired periodically clears dead verification rows and sessions so the
// tables do not grow without bound.
func sweepExpired(st *store.Store, vs *impl.VerificationServiceImpl, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := vs.CleanupExpired(ctx); err != nil {
			logger.Error("verification cleanup", "error", err)
		}
		if n, err := st.Sessions().DeleteExpired(ctx, time.Now()); err != nil {
			logger.Error("session cleanup", "error", err)
		} else if n > 0 {
			logger.Info("expired sessions removed", "count", n)
		}
		cancel()
	}
}
