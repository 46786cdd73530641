package database

import (
	"context"
	"embed"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/config"
	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Connect abre el pool de PostgreSQL y aplica el tamaño configurado
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, errx.Wrap(err, "failed to connect to database", errx.TypeExternal).
			WithDetail("host", cfg.Host).
			WithDetail("database", cfg.Name)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Migrate aplica las migraciones embebidas pendientes
func Migrate(ctx context.Context, db *sqlx.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return errx.Wrap(err, "failed to set migration dialect", errx.TypeInternal)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := goose.UpContext(ctx, db.DB, migrationsDir); err != nil {
		return errx.Wrap(err, "failed to apply migrations", errx.TypeInternal)
	}

	version, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return errx.Wrap(err, "failed to read migration version", errx.TypeInternal)
	}
	logx.Infof("database schema at version %d", version)
	return nil
}

// gooseLogger envía la salida de goose a logx
type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...any) { logx.Fatalf(format, v...) }
func (gooseLogger) Printf(format string, v ...any) { logx.Debugf(format, v...) }
