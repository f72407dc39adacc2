// hrctl herramienta de operación: migraciones embebidas y seed de datos base.
//
// Uso:
//
//	hrctl migrate up|down|version
//	hrctl seed [--users extra.csv] [--latin1] [--password secreto]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/hr-onboarding-api/internal/app"
	"github.com/jhoicas/hr-onboarding-api/internal/application/bootstrap"
	"github.com/jhoicas/hr-onboarding-api/internal/infrastructure/postgres"
	"github.com/jhoicas/hr-onboarding-api/pkg/config"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "hrctl",
		Short:         "Operator CLI for the HR onboarding API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "hrctl"})
	return cfg, log, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the embedded SQL migrations",
	}
	run := func(fn func(*postgres.Migrator, *logger.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := postgres.NewMigrator(cfg.DB.ConnectionString())
			if err != nil {
				return err
			}
			defer func() {
				if err := m.Close(); err != nil {
					log.Warn().Err(err).Msg("cerrar migrador")
				}
			}()
			return fn(m, log)
		}
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(m *postgres.Migrator, log *logger.Logger) error {
			if err := m.Up(); err != nil {
				return err
			}
			log.Info().Msg("migraciones aplicadas")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		Args:  cobra.NoArgs,
		RunE: run(func(m *postgres.Migrator, log *logger.Logger) error {
			if err := m.Down(); err != nil {
				return err
			}
			log.Info().Msg("última migración revertida")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		Args:  cobra.NoArgs,
		RunE: run(func(m *postgres.Migrator, _ *logger.Logger) error {
			v, dirty, applied, err := m.Version()
			if err != nil {
				return err
			}
			if !applied {
				fmt.Println("no migrations applied")
				return nil
			}
			fmt.Printf("version %d (dirty=%t)\n", v, dirty)
			return nil
		}),
	})
	return cmd
}

func seedCmd() *cobra.Command {
	var (
		usersFile string
		latin1    bool
		password  string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the canonical departments, published templates and one user per department",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			var extra []bootstrap.UserSeed
			if usersFile != "" {
				f, err := os.Open(usersFile)
				if err != nil {
					return fmt.Errorf("abrir %s: %w", usersFile, err)
				}
				defer f.Close()
				if extra, err = bootstrap.ReadUsersCSV(f, latin1); err != nil {
					return err
				}
			}
			stores, err := app.OpenStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			res, err := app.Seed(cmd.Context(), stores, log, password, extra)
			if err != nil {
				return err
			}
			fmt.Printf("departments=%d templates=%d users=%d\n", res.Departments, res.Templates, res.Users)
			return nil
		},
	}
	cmd.Flags().StringVar(&usersFile, "users", "", "CSV with extra users (email,fullName,department,permissions[,password])")
	cmd.Flags().BoolVar(&latin1, "latin1", false, "Decode the users CSV as ISO-8859-1")
	cmd.Flags().StringVar(&password, "password", os.Getenv("SEED_PASSWORD"), "Password for seeded users without one")
	return cmd
}
