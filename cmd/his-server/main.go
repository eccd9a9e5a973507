package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/his/his/internal/config"
	"github.com/his/his/internal/domain/doctor"
	"github.com/his/his/internal/domain/medication"
	"github.com/his/his/internal/domain/patient"
	"github.com/his/his/internal/domain/prescription"
	"github.com/his/his/internal/platform/db"
	"github.com/his/his/internal/platform/middleware"
	"github.com/his/his/internal/platform/seed"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "his-server",
		Short: "Hospital information system API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(catalogCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HIS API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d migration(s)\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo reference data into empty tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			seeder := seed.NewSeeder(
				doctor.NewRepoPG(pool),
				medication.NewRepoPG(pool),
				patient.NewRepoPG(pool),
				logger,
			)
			return seeder.Run(ctx)
		},
	}
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Medication catalog files",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the medication catalog to an xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := medication.NewService(medication.NewRepoPG(pool))
			data, err := svc.ExportCatalog(ctx)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}
	exportCmd.Flags().String("out", "medications.xlsx", "Output file path")
	cmd.AddCommand(exportCmd)

	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Write an empty catalog import template",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			data, err := medication.GenerateCatalogTemplate()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}
	templateCmd.Flags().String("out", "medications_template.xlsx", "Output file path")
	cmd.AddCommand(templateCmd)

	return cmd
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", db.HealthHandler(pool))

	// Repositories. All of them resolve a transaction from context, so the
	// prescription service can span every store in one unit of work.
	doctorRepo := doctor.NewRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)
	medicationRepo := medication.NewRepoPG(pool)
	prescriptionRepo := prescription.NewRepoPG(pool)

	if cfg.SeedOnStart {
		seeder := seed.NewSeeder(doctorRepo, medicationRepo, patientRepo, logger)
		if err := seeder.Run(ctx); err != nil {
			logger.Fatal().Err(err).Msg("seeding failed")
		}
	}

	api := e.Group("/api")

	doctor.NewHandler(doctorRepo).RegisterRoutes(api)

	patientSvc := patient.NewService(patientRepo)
	patient.NewHandler(patientSvc).RegisterRoutes(api)

	medicationSvc := medication.NewService(medicationRepo)
	medication.NewHandler(medicationSvc).RegisterRoutes(api)

	prescriptionSvc := prescription.NewService(
		db.PoolRunner{Pool: pool},
		prescriptionRepo,
		patientRepo,
		medicationRepo,
	)
	prescription.NewHandler(prescriptionSvc).RegisterRoutes(api)

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
