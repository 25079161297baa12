package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	identityapp "github.com/zreport/backend/internal/application/identity"
	"github.com/zreport/backend/internal/domain/identity"
	"github.com/zreport/backend/internal/infrastructure/auth"
	"github.com/zreport/backend/internal/infrastructure/config"
	"github.com/zreport/backend/internal/infrastructure/logger"
	"github.com/zreport/backend/internal/infrastructure/persistence"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("driver", cfg.Database.Driver),
	)

	ctx := context.Background()
	switch command {
	case "up":
		migrate(db, log)
	case "seed":
		seed(ctx, db, cfg, log)
	case "all":
		migrate(db, log)
		seed(ctx, db, cfg, log)
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func migrate(db *persistence.Database, log *zap.Logger) {
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Schema migration failed", zap.Error(err))
	}
	log.Info("Schema is up to date")
}

// seed creates the two default accounts. Accounts that already exist are
// left alone, so it is safe to run on every deploy.
func seed(ctx context.Context, db *persistence.Database, cfg *config.Config, log *zap.Logger) {
	users := identityapp.NewAuthService(
		persistence.NewGormUserRepository(db.DB),
		auth.NewJWTService(cfg.JWT),
		nil,
		log,
	)

	accounts := []identityapp.EnsureUserInput{
		{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword, Role: identity.RoleAdmin},
		{Email: cfg.Seed.AccountingEmail, Password: cfg.Seed.AccountingPassword, Role: identity.RoleAccounting},
	}
	for _, account := range accounts {
		if account.Email == "" || account.Password == "" {
			log.Warn("Seed account skipped, email or password not configured",
				zap.String("role", account.Role.String()))
			continue
		}
		created, err := users.EnsureUser(ctx, account)
		if err != nil {
			log.Fatal("Failed to seed user", zap.String("email", account.Email), zap.Error(err))
		}
		if !created {
			log.Info("Seed user already exists", zap.String("email", account.Email))
		}
	}
}

func printUsage() {
	fmt.Println(`Z-report database tool

Usage:
  migrate [flags] <command>

Commands:
  up      Create or update the schema
  seed    Create the default admin and accounting users if missing
  all     up, then seed

Flags:
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  ZR_DATABASE_DRIVER, ZR_DATABASE_PATH, ZR_DATABASE_HOST, ...
  ZR_SEED_ADMIN_EMAIL, ZR_SEED_ADMIN_PASSWORD,
  ZR_SEED_ACCOUNTING_EMAIL, ZR_SEED_ACCOUNTING_PASSWORD`)
}
