package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/msomdec/zedny-portal/internal/client/authapi"
	"github.com/msomdec/zedny-portal/internal/config"
	"github.com/msomdec/zedny-portal/internal/handler"
	"github.com/msomdec/zedny-portal/internal/service"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			setupLogger(cfg.SlogLevel())
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	creds, closeCreds, err := buildCredentials(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCreds()

	sessions := service.NewSessionStore(cfg.LoginDelay, cfg.SessionTTL)
	defer sessions.Close()

	limiter := service.NewTokenBucket(cfg.LoginRate, cfg.LoginBurst)
	defer limiter.Stop()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Sessions:     sessions,
		Tokens:       service.NewSessionTokens(cfg.JWTSecret, cfg.SessionTTL),
		Login:        service.NewLoginController(creds, sessions),
		Limiter:      limiter,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.RequestLogger(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
	// Closing the store ends open /events streams so Shutdown is not held up.
	srv.RegisterOnShutdown(sessions.Close)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr, "credentials", cfg.CredentialsSource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// buildCredentials selects the credential checker for cfg. The returned
// func releases whatever the checker holds open.
func buildCredentials(ctx context.Context, cfg *config.Config) (service.CredentialChecker, func(), error) {
	switch cfg.CredentialsSource {
	case config.SourceDB:
		accounts, err := openAccounts(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}

		creds := service.NewUserCredentials(accounts.Users(), cfg.BcryptCost)
		if created, err := creds.Seed(ctx, service.AdminEmail, service.AdminPassword); err != nil {
			accounts.Close()
			return nil, nil, fmt.Errorf("seed admin: %w", err)
		} else if created {
			slog.Info("admin account seeded", "email", service.AdminEmail)
		}
		return creds, func() { accounts.Close() }, nil

	case config.SourceRemote:
		return service.NewRemoteCredentials(authapi.New(cfg.AuthAPIURL, nil)), func() {}, nil

	default:
		return service.DefaultCredentials(), func() {}, nil
	}
}
