package database

import (
	"context"
	"testing"
	"testing/fstest"

	"petchef/internal/config"
	"petchef/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open("file::memory:?_foreign_keys=1"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestConfigurePool(t *testing.T) {
	db := openMemory(t)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections, "sqlite is pinned to a single connection")
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: "sqlite", SQLitePath: "file::memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(&config.Config{DBDriver: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestPlanSchema(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		wantSQL     bool
		wantAuto    bool
		expectError bool
	}{
		{"Hybrid development", config.Config{DBDriver: "postgres", Env: "development"}, true, true, false},
		{"Hybrid production", config.Config{DBDriver: "postgres", Env: "production", DBSchemaMode: "hybrid"}, true, false, false},
		{"SQL only", config.Config{DBDriver: "postgres", Env: "development", DBSchemaMode: "sql"}, true, false, false},
		{"Auto in staging refused", config.Config{DBDriver: "postgres", Env: "staging", DBSchemaMode: "auto"}, false, false, true},
		{"Auto in staging allowed", config.Config{DBDriver: "postgres", Env: "staging", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"Unknown mode", config.Config{DBDriver: "postgres", DBSchemaMode: "yolo"}, false, false, true},
		{"Sqlite always auto", config.Config{DBDriver: "sqlite", Env: "test", DBSchemaMode: "sql"}, false, true, false},
		{"Sqlite in production", config.Config{DBDriver: "sqlite", Env: "production"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanSchema(&tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, plan.SQL)
			assert.Equal(t, tt.wantAuto, plan.Auto)
		})
	}
}

func TestApplySchema_SQLite(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, configurePool(db, &config.Config{}))
	ctx := context.Background()
	cfg := &config.Config{DBDriver: "sqlite", Env: "test", DBSchemaMode: "sql"}

	before, err := InspectSchema(ctx, db, cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", before.Driver)
	assert.False(t, before.SQL, "sqlite never runs the postgres scripts")
	assert.True(t, before.Auto)
	assert.ElementsMatch(t, []string{"users", "pets", "recipes", "comments", "favorites", "followers"}, before.MissingTables())
	assert.Empty(t, before.Pending)

	require.NoError(t, ApplySchema(ctx, db, cfg))
	assert.True(t, db.Migrator().HasIndex("favorites", "idx_favorites_user_recipe"))
	assert.False(t, db.Migrator().HasTable(&AppliedMigration{}), "AutoMigrate leaves no SQL ledger")

	after, err := InspectSchema(ctx, db, cfg)
	require.NoError(t, err)
	assert.Empty(t, after.MissingTables())
}

func TestMigrator_RefusesSQLite(t *testing.T) {
	db := openMemory(t)
	m := NewMigrator(db)

	_, err := m.Up(context.Background())
	assert.ErrorIs(t, err, ErrAutoMigrateOnly)
	assert.ErrorIs(t, m.Down(context.Background(), 1), ErrAutoMigrateOnly)
}

// newScriptMigrator runs driver-neutral fixture scripts against SQLite.
func newScriptMigrator(t *testing.T, scripts ...Migration) (*Migrator, *gorm.DB) {
	t.Helper()
	db := openMemory(t)
	require.NoError(t, configurePool(db, &config.Config{}))
	return &Migrator{db: db, dialect: "postgres", scripts: scripts}, db
}

func TestMigrator_UpDown(t *testing.T) {
	ctx := context.Background()
	m, db := newScriptMigrator(t,
		Migration{Version: 1, Name: "pantry", UpScript: "CREATE TABLE pantry (id INTEGER PRIMARY KEY)", DownScript: "DROP TABLE pantry"},
		Migration{Version: 2, Name: "treats", UpScript: "CREATE TABLE treats (id INTEGER PRIMARY KEY)", DownScript: "DROP TABLE treats"},
	)

	ran, err := m.Up(ctx)
	require.NoError(t, err)
	require.Len(t, ran, 2)
	assert.True(t, db.Migrator().HasTable("pantry"))
	assert.True(t, db.Migrator().HasTable("treats"))

	ran, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, ran, "a second run is a no-op")

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "treats", applied[1].Name)
	assert.False(t, applied[0].AppliedAt.IsZero())

	require.NoError(t, m.Down(ctx, 2))
	assert.False(t, db.Migrator().HasTable("treats"))
	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Version)

	assert.ErrorContains(t, m.Down(ctx, 2), "has not been applied")
	assert.ErrorContains(t, m.Down(ctx, 9), "not found")
}

func TestMigrator_FailedScriptLeavesNoLedgerRow(t *testing.T) {
	ctx := context.Background()
	m, db := newScriptMigrator(t,
		Migration{Version: 1, Name: "pantry", UpScript: "CREATE TABLE pantry (id INTEGER PRIMARY KEY)", DownScript: "DROP TABLE pantry"},
		Migration{Version: 2, Name: "broken", UpScript: "CREATE TABLE", DownScript: "SELECT 1"},
	)

	ran, err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002_broken")
	require.Len(t, ran, 1)
	assert.True(t, db.Migrator().HasTable("pantry"))

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, 1, applied[0].Version)
}

func TestMigrator_UnknownLedgerVersion(t *testing.T) {
	ctx := context.Background()
	m, db := newScriptMigrator(t,
		Migration{Version: 1, Name: "pantry", UpScript: "CREATE TABLE pantry (id INTEGER PRIMARY KEY)", DownScript: "DROP TABLE pantry"},
	)
	require.NoError(t, db.AutoMigrate(&AppliedMigration{}))
	require.NoError(t, db.Create(&AppliedMigration{Version: 7, Name: "from_another_branch"}).Error)

	_, err := m.Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")
	assert.False(t, db.Migrator().HasTable("pantry"))
}

func TestEmbeddedMigrations(t *testing.T) {
	all := GetMigrations()
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "init", all[0].Name)
	assert.Contains(t, all[0].UpScript, "CREATE TABLE IF NOT EXISTS recipes")
	assert.Contains(t, all[0].DownScript, "DROP TABLE IF EXISTS users")
	assert.Equal(t, "000001_init", all[0].String())
	assert.NotNil(t, GetMigrationByVersion(1))
	assert.Nil(t, GetMigrationByVersion(999))
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/000002_add_tags.up.sql":   {Data: []byte("ALTER TABLE recipes ADD COLUMN tags TEXT;")},
		"migrations/000002_add_tags.down.sql": {Data: []byte("ALTER TABLE recipes DROP COLUMN tags;")},
		"migrations/000001_init.up.sql":       {Data: []byte("CREATE TABLE a (id INT);")},
		"migrations/000001_init.down.sql":     {Data: []byte("DROP TABLE a;")},
		"migrations/README.md":                {Data: []byte("ignored")},
	}

	loaded, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].Version)
	assert.Equal(t, "add_tags", loaded[1].Name)

	delete(fsys, "migrations/000002_add_tags.down.sql")
	_, err = LoadMigrations(fsys)
	assert.Error(t, err, "an up script without its down script is rejected")
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1, Name: "init"}}

	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1}, registered))

	err := validateAppliedVersions([]int{1, 7}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")
}

func TestGormLogger_LogMode(t *testing.T) {
	l := NewGormLogger(middleware.Logger, logger.Warn)
	silent := l.LogMode(logger.Silent).(*CustomGormLogger)

	assert.Equal(t, logger.Silent, silent.Config.LogLevel)
	assert.Equal(t, logger.Warn, l.Config.LogLevel, "LogMode returns a copy")
}
