package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tasklink/internal/config"
	"tasklink/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaPlan is the set of schema steps a given configuration allows.
type SchemaPlan struct {
	Mode    string
	SQL     bool
	Auto    bool
	Release bool
}

// SchemaStatus is a SchemaPlan plus the migration state of a live database.
type SchemaStatus struct {
	SchemaPlan
	Environment string
	Applied     []int
	Pending     []Migration
}

func releaseEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// PlanSchema resolves DB_SCHEMA_MODE against the driver and environment.
// Embedded SQL is PostgreSQL dialect, so SQLite is always AutoMigrated.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{
		Mode:    strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)),
		Release: releaseEnv(cfg.Env),
	}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}

	if cfg.DBDriver == config.DriverSQLite {
		if plan.Mode == SchemaModeSQL {
			return plan, fmt.Errorf("DB_SCHEMA_MODE=sql requires DB_DRIVER=postgres")
		}
		plan.Auto = true
		return plan, nil
	}

	switch plan.Mode {
	case SchemaModeSQL:
		plan.SQL = true
	case SchemaModeAuto:
		if plan.Release {
			return plan, fmt.Errorf("DB_SCHEMA_MODE=auto is not allowed in %q", cfg.Env)
		}
		plan.Auto = true
	case SchemaModeHybrid:
		plan.SQL = true
		plan.Auto = !plan.Release
	default:
		return plan, fmt.Errorf("unknown DB_SCHEMA_MODE %q", plan.Mode)
	}
	return plan, nil
}

// ApplySchema runs the steps PlanSchema allows: SQL migrations first, then
// AutoMigrate for the persistent models.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.SQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
	}
	if plan.Auto {
		middleware.Logger.Info("auto-migrating models",
			slog.String("mode", plan.Mode),
			slog.Int("models", len(PersistentModels())),
		)
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{SchemaPlan: plan, Environment: cfg.Env}
	if !plan.SQL {
		return status, nil
	}

	if status.Applied, err = NewMigrator(db, registry).Applied(ctx); err != nil {
		return nil, err
	}
	if status.Pending, err = pendingMigrations(status.Applied, registry); err != nil {
		return nil, err
	}
	return status, nil
}
