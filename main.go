package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "travelbooking/internal/config"
	intdb "travelbooking/internal/db"
	router "travelbooking/internal/http"
	"travelbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	release := gin.Mode() == gin.ReleaseMode
	utils.ConfigureLogger(release)
	log := utils.Log

	if err := env.CheckRelease(release); err != nil {
		log.WithError(err).Fatal("refusing to start")
	}

	db, err := intconfig.ConnectDB(env.DB)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer db.Close()

	if env.AutoMigrate {
		if err := intdb.Migrate(db.DB); err != nil {
			log.WithError(err).Fatal("failed to run migrations")
		}
		log.Info("migrations applied")
	}

	r := router.NewRouter(env, router.Wire(db))

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", env.AppAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server shutdown failed")
	}

	log.Info("server stopped")
}
