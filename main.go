package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/buildsite-backend/api"
	"github.com/rpupo63/buildsite-backend/auth"
	"github.com/rpupo63/buildsite-backend/config"
	"github.com/rpupo63/buildsite-backend/metrics"
	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/notify"
	"github.com/rpupo63/buildsite-backend/storage"
	"github.com/rpupo63/buildsite-backend/storage/backend"
	"github.com/rpupo63/buildsite-backend/storage/gormstore"
	"github.com/rpupo63/buildsite-backend/validation"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	settings := config.Load(config.New())
	configureLogging(settings)

	rootCmd := &cobra.Command{
		Use:   "buildsite",
		Short: "API server for the construction company site",
		Long: `buildsite serves the JSON API behind the company site: projects, services,
company information, contact messages, the waitlist and page analytics.

Storage is chosen from DATABASE_URL: mysql://, postgres:// and sqlite:// URLs
select a relational backend, and an empty value keeps everything in memory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), settings)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), settings)
		},
	}
	rootCmd.AddCommand(serveCmd)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, _ := cmd.Flags().GetBool("report")
			return migrate(cmd.Context(), settings, report)
		},
	}
	migrateCmd.Flags().Bool("report", false, "List database columns that no model field maps to (gorm backends)")
	rootCmd.AddCommand(migrateCmd)

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample projects, services and company information into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), settings, func(store storage.Storage) error {
				return seed(cmd.Context(), store)
			})
		},
	}
	rootCmd.AddCommand(seedCmd)

	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user for the protected routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			return withStore(cmd.Context(), settings, func(store storage.Storage) error {
				return createAdmin(cmd.Context(), store, username, password)
			})
		},
	}
	createAdminCmd.Flags().String("username", "admin", "Admin username")
	createAdminCmd.Flags().String("password", "", "Admin password (defaults to $ADMIN_PASSWORD)")
	rootCmd.AddCommand(createAdminCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func configureLogging(settings config.Settings) {
	level, err := zerolog.ParseLevel(strings.ToLower(settings.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if settings.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func serve(ctx context.Context, settings config.Settings) error {
	log.Info().Msg("Initializing app...")

	store, err := backend.Open(ctx, settings.Database)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("error closing storage")
		}
	}()
	metrics.SetStorageBackend(store.Name())

	notifier, err := notify.FromSettings(settings.Notify)
	if err != nil {
		return fmt.Errorf("configure notifications: %w", err)
	}

	secret := settings.JWTSecret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET is not set; using a random secret, admin tokens will not survive a restart")
		secret = auth.RandomSecret()
	}
	tokens, err := auth.NewTokens(secret, settings.JWTTTL)
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Dependencies{
		Store:    store,
		Tokens:   tokens,
		Notifier: notifier,
	}, settings)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	errChannel := make(chan error, 2)
	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)

	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	notifier.Wait(waitCtx)

	if errors.Is(fatalErr, http.ErrServerClosed) || errors.Is(fatalErr, errInterrupted) {
		return nil
	}
	return fatalErr
}

var errInterrupted = errors.New("interrupted")

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%w: %s", errInterrupted, <-c)
}

func migrate(ctx context.Context, settings config.Settings, report bool) error {
	db := settings.Database
	db.AutoMigrate = true

	return withStoreSettings(ctx, db, func(store storage.Storage) error {
		log.Info().Str("storage", store.Name()).Msg("migrations applied")
		if !report {
			return nil
		}
		gs, ok := store.(*gormstore.Store)
		if !ok {
			log.Warn().Str("storage", store.Name()).Msg("column report is only available for gorm backends")
			return nil
		}
		mismatches, err := gs.ColumnReport(ctx)
		if err != nil {
			return err
		}
		if len(mismatches) == 0 {
			log.Info().Msg("every database column maps to a model field")
		}
		return nil
	})
}

func withStore(ctx context.Context, settings config.Settings, fn func(storage.Storage) error) error {
	return withStoreSettings(ctx, settings.Database, fn)
}

func withStoreSettings(ctx context.Context, db config.DatabaseSettings, fn func(storage.Storage) error) error {
	store, err := backend.Open(ctx, db)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func createAdmin(ctx context.Context, store storage.Storage, username, password string) error {
	input, err := validation.Decode[models.UserInput](mustJSON(map[string]string{
		"username": username,
		"password": password,
	}))
	if err != nil {
		return err
	}

	existing, err := store.GetUserByUsername(ctx, input.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Info().Str("username", input.Username).Msg("admin user already exists")
		return nil
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return err
	}
	user, err := store.CreateUser(ctx, models.NewUser{Username: input.Username, PasswordHash: hash})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info().Int64("userId", user.ID).Str("username", user.Username).Msg("admin user created")
	return nil
}
