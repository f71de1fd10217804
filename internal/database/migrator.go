package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"petchef/internal/middleware"

	"gorm.io/gorm"
)

// ErrAutoMigrateOnly is returned when SQL migrations are requested against
// SQLite. The embedded scripts are PostgreSQL; SQLite schemas come from
// AutoMigrate.
var ErrAutoMigrateOnly = errors.New("embedded SQL migrations target postgres; sqlite schemas are built by AutoMigrate")

// AppliedMigration is one row of the schema_migrations ledger.
type AppliedMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false" json:"version"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	AppliedAt time.Time `gorm:"autoCreateTime;index" json:"applied_at"`
}

func (AppliedMigration) TableName() string {
	return "schema_migrations"
}

// Migrator applies and reverts numbered SQL scripts and records each one in
// schema_migrations.
type Migrator struct {
	db      *gorm.DB
	dialect string
	scripts []Migration
}

// NewMigrator returns a Migrator over the embedded migrations.
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db, dialect: db.Dialector.Name(), scripts: migrations}
}

func (m *Migrator) supported() error {
	if m.dialect == "sqlite" {
		return ErrAutoMigrateOnly
	}
	return nil
}

func (m *Migrator) ensureLedger(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&AppliedMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// Applied lists the ledger in version order. A missing ledger reads as empty.
func (m *Migrator) Applied(ctx context.Context) ([]AppliedMigration, error) {
	if !m.db.Migrator().HasTable(&AppliedMigration{}) {
		return nil, nil
	}
	var rows []AppliedMigration
	if err := m.db.WithContext(ctx).Order("version ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return rows, nil
}

// Pending returns the scripts not yet in the ledger. Ledger rows with no
// matching script are an error; they mean the database was built by a
// different binary.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	versions := make([]int, 0, len(applied))
	for _, row := range applied {
		versions = append(versions, row.Version)
	}
	if err := validateAppliedVersions(versions, m.scripts); err != nil {
		return nil, err
	}

	var pending []Migration
	for _, script := range m.scripts {
		if !slices.Contains(versions, script.Version) {
			pending = append(pending, script)
		}
	}
	return pending, nil
}

// Up applies every pending script in version order and returns the ones it ran.
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	if err := m.supported(); err != nil {
		return nil, err
	}
	if err := m.ensureLedger(ctx); err != nil {
		return nil, err
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	for i, script := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(script.UpScript).Error; err != nil {
				return fmt.Errorf("apply %s: %w", script.String(), err)
			}
			return tx.Create(&AppliedMigration{Version: script.Version, Name: script.Name}).Error
		})
		if err != nil {
			return pending[:i], err
		}
		middleware.Logger.InfoContext(ctx, "Migration applied", slog.String("migration", script.String()))
	}
	return pending, nil
}

// Down reverts one applied script and removes its ledger row.
func (m *Migrator) Down(ctx context.Context, version int) error {
	if err := m.supported(); err != nil {
		return err
	}
	idx := slices.IndexFunc(m.scripts, func(s Migration) bool { return s.Version == version })
	if idx < 0 {
		return fmt.Errorf("migration version %d not found", version)
	}
	script := m.scripts[idx]

	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(applied, func(a AppliedMigration) bool { return a.Version == version }) {
		return fmt.Errorf("migration %s has not been applied", script.String())
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(script.DownScript).Error; err != nil {
			return fmt.Errorf("revert %s: %w", script.String(), err)
		}
		return tx.Delete(&AppliedMigration{}, "version = ?", version).Error
	})
	if err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "Migration reverted", slog.String("migration", script.String()))
	return nil
}

func validateAppliedVersions(applied []int, registered []Migration) error {
	var unknown []string
	for _, version := range applied {
		if !slices.ContainsFunc(registered, func(m Migration) bool { return m.Version == version }) {
			unknown = append(unknown, fmt.Sprintf("%06d", version))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return fmt.Errorf("schema_migrations lists versions this build does not know: %v (rebuild the database with cmd/migrate)", unknown)
}
