package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"nexusshop/internal/config"
	"nexusshop/internal/jobs"
	applog "nexusshop/internal/log"
	"nexusshop/internal/mail"
	"nexusshop/internal/repos"
	"nexusshop/internal/server"
)

func main() {
	cfg := config.Load()
	applog.Setup(cfg.LogLevel, cfg.LogFile)
	defer applog.Sync()
	zap.L().Info("config.loaded", zap.Any("config", cfg.Fields()))

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		zap.L().Fatal("db.open", zap.Error(err))
	}
	defer db.Close()

	sender := mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	app, sessions := server.New(cfg, db, sender)

	sched, err := jobs.Start(sessions, jobs.SweepSpec)
	if err != nil {
		zap.L().Fatal("jobs.start", zap.Error(err))
	}
	defer sched.Stop()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zap.L().Info("server.shutdown")
		_ = app.Shutdown()
	}()

	zap.L().Info("server.listen", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zap.L().Error("server.listen", zap.Error(err))
	}
}
