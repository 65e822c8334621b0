package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lexflow/lexflow-web/internal/auth"
	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/config"
	"github.com/lexflow/lexflow-web/internal/handler"
	"github.com/lexflow/lexflow-web/internal/logging"
	"github.com/lexflow/lexflow-web/internal/repository"
	"github.com/lexflow/lexflow-web/internal/router"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configPath string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v, configPath)
		},
	}

	rootCmd := &cobra.Command{
		Use:           "lexflow-web",
		Short:         "LexFlow client intake web front end",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("addr", "", "HTTP listen address (default :3000)")
	v.BindPFlag(config.KeyHTTPAddr, rootCmd.PersistentFlags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "lexflow-web", version)
		},
	})
	return rootCmd
}

func serve(ctx context.Context, v *viper.Viper, configPath string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.GelfAddr)
	if err != nil {
		return err
	}
	defer logger.Sync()

	views, err := view.New()
	if err != nil {
		return err
	}
	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	if err != nil {
		return err
	}

	// Backend
	api := backend.New(cfg.APIURL, cfg.APITimeout)
	monitor := backend.NewMonitor(api, cfg.HealthInterval, logger)
	monitor.Start()
	defer monitor.Close()
	if !monitor.Healthy() {
		logger.Warn("backend not reachable at startup", zap.String("url", cfg.APIURL))
	}

	// Repositories
	userRepo := repository.NewUserRepo(api)
	firmRepo := repository.NewFirmRepo(api)
	formRepo := repository.NewFormRepo(api)
	clientRepo := repository.NewClientRepo(api)
	subRepo := repository.NewSubmissionRepo(api)
	sigRepo := repository.NewSignatureRepo(api)

	// Services
	authSvc := service.NewAuthService(userRepo, sessions)
	formSvc := service.NewFormService(formRepo, subRepo)
	intakeSvc := service.NewIntakeService(formRepo, subRepo)
	sigSvc := service.NewSignatureService(sigRepo)
	dashSvc := service.NewDashboardService(formRepo, subRepo, clientRepo)
	settingsSvc := service.NewSettingsService(firmRepo)
	clientSvc := service.NewClientService(clientRepo, subRepo)
	subSvc := service.NewSubmissionService(subRepo, formRepo, clientRepo, logger)
	exportSvc := service.NewExportService(subRepo, formRepo, clientRepo)
	verifier := service.NewPaymentVerifier(cfg.StripeSecretKey)
	if !verifier.Enabled() {
		logger.Info("stripe verification disabled, payment pages trust the backend status")
	}

	// Handlers
	rs := handler.NewResponder(views, logger)
	pageH := handler.NewPageHandler(rs, monitor)
	authH := handler.NewAuthHandler(rs, authSvc, sessions)
	intakeH := handler.NewIntakeHandler(rs, intakeSvc)
	sigH := handler.NewSignatureHandler(rs, intakeSvc, sigSvc, verifier)
	dashH := handler.NewDashboardHandler(rs, dashSvc, settingsSvc)
	formH := handler.NewFormHandler(rs, formSvc, cfg.PublicURL)
	clientH := handler.NewClientHandler(rs, clientSvc)
	subH := handler.NewSubmissionHandler(rs, subSvc, exportSvc)

	// Router
	r := router.New(logger, sessions, cfg.CookieSecure, pageH, authH, intakeH, sigH, dashH, formH, clientH, subH)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("lexflow-web starting", zap.String("addr", cfg.HTTPAddr), zap.String("api_url", cfg.APIURL), zap.String("version", version))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
