package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"workcafe/config"
	"workcafe/database"
	"workcafe/mail"
	"workcafe/route"
	"workcafe/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	cfg := config.Load()
	utils.ConfigureLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		utils.Log.Info("Running in debug mode")
	}

	persisted, err := cfg.ResolveSecretKey()
	if err != nil {
		return err
	}
	if !persisted {
		utils.Log.Warn("SECRET_KEY not set and key file not writable: sessions end on restart")
	}

	db, err := database.InitDatabase(cfg)
	if err != nil {
		return err
	}

	if cfg.MailUsername == "" {
		utils.Log.Warn("MAIL_USERNAME not set: cafe requests cannot be e-mailed")
	}
	mailer := &mail.SMTPSender{
		Host:     cfg.MailHost,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		From:     cfg.MailFrom,
		Timeout:  cfg.MailTimeout,
	}

	router := route.Setup(route.Dependencies{Config: cfg, DB: db, Mailer: mailer})
	utils.Log.Info("Routes configured successfully")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utils.Log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.Log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
