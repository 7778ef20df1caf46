package database

import (
	"context"
	"fmt"
	"time"

	"ludora/internal/config"
	"ludora/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver (pure Go), registered as "oracle"
	"go.uber.org/zap"
)

const (
	DriverGoOra  = "oracle"
	DriverGodror = "godror"
)

func init() {
	// go-ora registers as "oracle", which sqlx does not know; queries built
	// with sqlx.In must be rebound to :argN placeholders.
	sqlx.BindDriver(DriverGoOra, sqlx.NAMED)
}

// NewDB opens and pings the database for the configured driver.
func NewDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	driver := cfg.DB.Driver
	if driver == "" {
		driver = DriverGoOra
	}
	if driver != DriverGoOra && driver != DriverGodror {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	logger.Get().Info("Connected to database",
		zap.String("driver", driver),
		zap.String("host", cfg.DB.Host),
		zap.String("service", cfg.DB.DBName),
	)
	return db, nil
}
