package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	walog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"

	"github.com/dsagrinders/tracker/internal/app/usecase"
	"github.com/dsagrinders/tracker/internal/config"
	"github.com/dsagrinders/tracker/internal/httpapi"
	"github.com/dsagrinders/tracker/internal/infra/leetcode"
	"github.com/dsagrinders/tracker/internal/infra/mail"
	"github.com/dsagrinders/tracker/internal/infra/sqlite"
	"github.com/dsagrinders/tracker/internal/infra/wa"
	"github.com/dsagrinders/tracker/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()

	db, err := sqlite.Open(ctx, "sqlite", cfg.SQLitePath)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	statRepo := sqlite.NewDailyStatRepository(db)
	settingRepo := sqlite.NewSettingRepository(db)

	lcClient := leetcode.NewClient(zlog)
	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, cfg.SiteURL, zlog)

	waService := wa.NewService(cfg.SQLitePath, walog.Stdout("WhatsApp", "INFO", true))
	if err := waService.Initialize(ctx); err != nil {
		zlog.Fatal("failed to initialize whatsapp service", zap.Error(err))
	}
	connectWhatsApp(ctx, cfg, zlog, waService)

	syncUC := usecase.NewSyncStatsUsecase(lcClient, statRepo)
	automationUC := usecase.NewRunAutomationUsecase(
		userRepo, settingRepo, syncUC, mailer, waService, cfg.SiteURL, zlog)
	automationUC.Delay = time.Duration(cfg.UserDelayMs) * time.Millisecond
	leaderboardUC := usecase.NewGetLeaderboardUsecase(userRepo, statRepo)
	roastsUC := usecase.NewSendRoastsUsecase(userRepo, mailer, waService, cfg.SiteURL, zlog)

	server, err := httpapi.NewServer(cfg, zlog,
		automationUC, leaderboardUC, syncUC, roastsUC,
		userRepo, settingRepo, mailer, waService)
	if err != nil {
		zlog.Fatal("failed to build http server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server failed", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("http shutdown failed", zap.Error(err))
	}
	waService.Disconnect()
}

// connectWhatsApp brings the WhatsApp client online. A missing login is not
// fatal: the server still runs, sends fail until the device is paired.
func connectWhatsApp(ctx context.Context, cfg config.Config, zlog *zap.Logger, svc *wa.Service) {
	if svc.IsLoggedIn() {
		if err := svc.Connect(); err != nil {
			zlog.Warn("whatsapp connect failed", zap.Error(err))
		}
		return
	}

	if cfg.BotPhone != "" {
		// Pair-code mode requires a live connection first.
		if err := svc.Connect(); err != nil {
			zlog.Warn("whatsapp connect for pairing failed", zap.Error(err))
			return
		}
		code, err := svc.Pair(ctx, cfg.BotPhone)
		if err != nil {
			zlog.Warn("whatsapp pairing failed", zap.Error(err))
			return
		}
		zlog.Info("whatsapp pair code generated, confirm on Linked Devices",
			zap.String("code", code))
		return
	}

	zlog.Info("whatsapp not logged in, printing QR to stdout")
	go svc.PrintQR(ctx)
}
