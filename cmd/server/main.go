package main

import (
	"context"   // Shutdown and store contexts
	"errors"    // Error matching
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Server timeouts

	"expense_tracker/internal/api"     // Custom package for API handlers
	"expense_tracker/internal/config"  // Custom package for configuration
	"expense_tracker/internal/session" // Custom package for the session layer
	"expense_tracker/internal/store"   // Custom package for storage backends
	"expense_tracker/internal/utils"   // Password hashing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"golang.org/x/sync/errgroup" // Serve and shutdown goroutines
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := cfg.Validate(true); err != nil {
		logrus.Fatal(err)
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel) // Already checked by Validate
	logrus.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the configured key-value backend
	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		logrus.Fatalf("failed to open store: %v", err) // Fatal error if the store is unreachable
	}
	defer func() {
		if err := store.Close(st); err != nil {
			logrus.WithError(err).Warn("Closing store failed")
		}
	}()

	// One session per process, resumed from the last login
	sess := session.New(st,
		session.WithPasswordHasher(utils.NewPasswordHasher(cfg.PasswordHashing)),
		session.WithReregistration(cfg.AllowReregister),
	)
	if ok, err := sess.Restore(ctx); err != nil {
		logrus.Fatalf("failed to restore session: %v", err)
	} else if ok {
		user, _ := sess.User()
		logrus.WithField("username", user).Info("Resuming previous session")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}
	api.RegisterRoutes(r, sess, cfg.JWTSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.AppPort,      // Listening port
			"backend": cfg.StoreBackend, // Store backend
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("Server stopped with error")
		return
	}
	logrus.Info("Server stopped gracefully")
}
