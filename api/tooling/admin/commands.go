package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"github.com/victor-shvetsov/getd-cmd-sub002/app/sdk/auth"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/clientbus/stores/clientdb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/sdk/sqldb"
	"github.com/victor-shvetsov/getd-cmd-sub002/business/types/pin"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
)

// Config replicates the parts of the service config the tool needs.
type Config struct {
	DB struct {
		URL          string `envconfig:"DB_URL"`
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Name         string `envconfig:"DB_NAME" default:"postgres"`
		Schema       string `envconfig:"DB_SCHEMA" default:"public"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"0"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
		DisableTLS   bool   `envconfig:"DB_DISABLE_TLS" default:"true"`
	}
	Admin struct {
		Password string `envconfig:"ADMIN_PASSWORD"`
	}
}

func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("processing config: %w", err)
	}

	return cfg, nil
}

func migratePINsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate-pins",
		Short: "Hash every plaintext client PIN that has no hash yet",
		Long: `Hash every plaintext client PIN that has no hash yet.

The command talks to the database directly and asks for no admin token.
Whoever holds the DB_* credentials is treated as an operator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := sqldb.Open(sqldb.Config{
				URL:          cfg.DB.URL,
				User:         cfg.DB.User,
				Password:     cfg.DB.Password,
				Host:         cfg.DB.Host,
				Name:         cfg.DB.Name,
				Schema:       cfg.DB.Schema,
				MaxIdleConns: cfg.DB.MaxIdleConns,
				MaxOpenConns: cfg.DB.MaxOpenConns,
				DisableTLS:   cfg.DB.DisableTLS,
			})
			if err != nil {
				return fmt.Errorf("connecting to db: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			if err := sqldb.StatusCheck(ctx, db); err != nil {
				return fmt.Errorf("status check database: %w", err)
			}

			log := logger.New(os.Stderr, logger.LevelInfo, "ADMIN", nil)
			clientBus := clientbus.NewCore(log, clientdb.NewStore(log, db))

			n, err := clientBus.MigratePINs(ctx)
			if err != nil {
				return fmt.Errorf("migrating pins after %d rows: %w", n, err)
			}

			fmt.Printf("%s %d client PINs hashed\n", color.New(color.FgGreen).Sprint("OK"), n)
			return nil
		},
	}

	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print the admin bearer token for ADMIN_PASSWORD",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := auth.New(cfg.Admin.Password)
			if err != nil {
				return err
			}

			fmt.Println(a.Token())
			return nil
		},
	}

	return cmd
}

func hashPINCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-pin",
		Short: "Print a bcrypt hash for a client PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("pin")

			p, err := pin.Parse(raw)
			if err != nil {
				return err
			}

			hash, err := clientbus.HashPIN(p.String())
			if err != nil {
				return err
			}

			fmt.Println(hash)
			return nil
		},
	}

	cmd.Flags().String("pin", "", "PIN to hash, 4 to 8 digits")
	cmd.MarkFlagRequired("pin")

	return cmd
}
