package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia/internal/app"
	"trivia/internal/db"
	"trivia/internal/question"
	"trivia/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "trivia",
	Short:         "Trivia question bank and quiz API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: postgres or sqlite (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().String("db-dsn", "", "Database DSN (overrides DB_DSN)")
	rootCmd.PersistentFlags().String("addr", "", "HTTP listen address (overrides HTTP_ADDR)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadConfig reads the environment, then lets flags win.
func loadConfig(cmd *cobra.Command) app.Config {
	cfg := app.LoadConfig()
	if v, _ := cmd.Flags().GetString("db-driver"); v != "" {
		cfg.DBDriver = v
	}
	if v, _ := cmd.Flags().GetString("db-dsn"); v != "" {
		cfg.DBDSN = v
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.HTTPAddr = v
	}
	return cfg
}

func openStore(ctx context.Context, cfg app.Config) (*sql.DB, *store.SQLStore, error) {
	dialect, err := store.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifeMins) * time.Minute,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}

	if cfg.DBAutoSchema {
		if err := store.EnsureSchema(ctx, conn, dialect); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
	}
	return conn, store.New(conn, dialect), nil
}

// openRedis returns nil when no address is configured or Redis is down; the
// API then reads categories straight from the database.
func openRedis(ctx context.Context, cfg app.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client, err := db.OpenRedis(ctx, db.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Printf("redis unavailable, category cache disabled: %v", err)
		return nil
	}
	return client
}

func runServe(cmd *cobra.Command) error {
	cfg := loadConfig(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	conn, sqlStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	var questions question.Store = sqlStore
	if rdb := openRedis(ctx, cfg); rdb != nil {
		defer rdb.Close()
		questions = store.WithCategoryCache(sqlStore, rdb, cfg.CategoryCacheTTL)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.NewRouter(cfg, conn, questions),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("trivia api listening on %s (driver=%s)", cfg.HTTPAddr, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("trivia api stopped")
	return nil
}
