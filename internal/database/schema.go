package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"petchef/internal/config"
	"petchef/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaPlan is the set of steps ApplySchema will run for a configuration.
type SchemaPlan struct {
	Driver string
	Mode   string
	SQL    bool
	Auto   bool
}

// TableState reports whether a table AutoMigrate manages is present.
type TableState struct {
	Name   string
	Exists bool
}

// SchemaReport is what the migrate command's status subcommand prints.
type SchemaReport struct {
	SchemaPlan
	Environment string
	Applied     []AppliedMigration
	Pending     []Migration
	Tables      []TableState
}

// MissingTables names the managed tables that do not exist yet.
func (r *SchemaReport) MissingTables() []string {
	var missing []string
	for _, t := range r.Tables {
		if !t.Exists {
			missing = append(missing, t.Name)
		}
	}
	return missing
}

func isProdLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// PlanSchema decides which schema steps run. SQLite is always built by
// AutoMigrate and is refused outright in production-like environments.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{
		Driver: strings.ToLower(strings.TrimSpace(cfg.DBDriver)),
		Mode:   strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)),
	}
	if plan.Driver == "" {
		plan.Driver = "postgres"
	}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}
	prodLike := isProdLikeEnv(cfg.Env)

	if plan.Driver == "sqlite" {
		if prodLike {
			return plan, fmt.Errorf("refusing DB_DRIVER=sqlite in %q", cfg.Env)
		}
		plan.Auto = true
		return plan, nil
	}

	switch plan.Mode {
	case SchemaModeSQL:
		plan.SQL = true
	case SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateAllowDestructive {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.Auto = true
	case SchemaModeHybrid:
		plan.SQL = true
		plan.Auto = !prodLike
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}
	return plan, nil
}

// AutoMigrate creates or widens every persistent model's table.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// ApplySchema brings the database schema up to date according to the plan.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.SQL {
		if _, err := NewMigrator(db).Up(ctx); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if plan.Auto {
		if plan.Mode == SchemaModeAuto && cfg.DBAutoMigrateAllowDestructive {
			middleware.Logger.Warn("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true set for DB_SCHEMA_MODE=auto; review schema diffs before production deployment")
		}
		middleware.Logger.Info("Running GORM AutoMigrate",
			slog.String("driver", plan.Driver), slog.String("mode", plan.Mode), slog.String("env", cfg.Env))
		return AutoMigrate(ctx, db)
	}
	return nil
}

// ManagedTables resolves the table name of every persistent model.
func ManagedTables(db *gorm.DB) ([]string, error) {
	names := make([]string, 0, len(PersistentModels()))
	for _, model := range PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse %T: %w", model, err)
		}
		names = append(names, stmt.Schema.Table)
	}
	return names, nil
}

// InspectSchema reports what ApplySchema would do without changing anything.
// The SQL ledger is only read when the plan includes SQL migrations.
func InspectSchema(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaReport, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	report := &SchemaReport{SchemaPlan: plan, Environment: cfg.Env}

	tables, err := ManagedTables(db)
	if err != nil {
		return nil, err
	}
	for _, name := range tables {
		report.Tables = append(report.Tables, TableState{Name: name, Exists: db.Migrator().HasTable(name)})
	}

	if !plan.SQL {
		return report, nil
	}
	migrator := NewMigrator(db)
	if report.Applied, err = migrator.Applied(ctx); err != nil {
		return nil, err
	}
	if report.Pending, err = migrator.Pending(ctx); err != nil {
		return nil, err
	}
	return report, nil
}
