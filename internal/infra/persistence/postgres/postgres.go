// Package postgres contains the concrete implementation of the persistence layer using GORM.
// PostgreSQL is the production engine; SQLite is accepted for local runs and tests.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"passport/config"
	"passport/internal/domain/lifecycle"
	"passport/internal/errors"
	"passport/internal/infra/persistence/model"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the GORM client for the configured driver and ties it to the fx lifecycle.
func New(params Params) (*gorm.DB, error) {
	db, err := open(params.Config, newGormSlogLogger(params.Logger, params.Config))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping database")
			}

			if params.Config.Database.AutoMigrate {
				if err := Migrate(db.WithContext(ctx)); err != nil {
					return err
				}
				params.Logger.Info("Database schema migrated", slog.String("driver", params.Config.Database.Driver))
			}

			go monitorDBPool(monitorCtx, params.Logger, sqlDB, dbPoolMonitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

func open(cfg *config.Config, gormLogger logger.Interface) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.Database.SQLitePath, gormLogger)
	case config.DriverPostgres, "":
		db, err := pgLib.New(cfg.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create PostgreSQL client")
		}

		return db.Session(&gorm.Session{
			// Disable GORM's per-statement implicit transaction.
			SkipDefaultTransaction: true,
			Logger:                 gormLogger,
		}), nil
	default:
		return nil, errors.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}

// OpenSQLite opens a SQLite database at path with foreign keys enforced.
func OpenSQLite(path string, gormLogger logger.Interface) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=1"
	}

	if gormLogger == nil {
		gormLogger = logger.Discard
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open SQLite database %s", path)
	}

	return db, nil
}

// Migrate creates or updates the tables backing users and passports.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	return nil
}

// poolWaitMonitor reports connection pool contention between two samples.
type poolWaitMonitor struct {
	logger    *slog.Logger
	threshold time.Duration
	prev      sql.DBStats
}

// observe logs when requests had to wait for a connection since the last sample:
// at warn level once the accumulated wait reaches the threshold, at debug otherwise.
func (m *poolWaitMonitor) observe(ctx context.Context, cur sql.DBStats) {
	waits := cur.WaitCount - m.prev.WaitCount
	waited := cur.WaitDuration - m.prev.WaitDuration
	m.prev = cur

	if waits <= 0 {
		return
	}

	level := slog.LevelDebug
	if waited >= m.threshold {
		level = slog.LevelWarn
	}

	m.logger.LogAttrs(ctx, level, "Database pool wait",
		slog.Int64("waitCountDelta", waits),
		slog.Duration("waitDurationDelta", waited),
		slog.Duration("avgWait", waited/time.Duration(waits)),
		slog.Int("openConns", cur.OpenConnections),
		slog.Int("inUseConns", cur.InUse),
	)
}

func monitorDBPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	if logger == nil || sqlDB == nil {
		return
	}

	monitor := &poolWaitMonitor{logger: logger, threshold: dbPoolWarnDurationThreshold, prev: sqlDB.Stats()}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			monitor.observe(ctx, sqlDB.Stats())
		}
	}
}
