package migration

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/InteliJR/pricehub/internal/config"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return conn
}

func TestRunAutoMigratesNonPostgres(t *testing.T) {
	conn := setupTestDB(t)

	require.NoError(t, Run(conn, config.Config{DBType: "sqlite"}))

	for _, table := range []string{
		"freights",
		"freight_taxes",
		"raw_materials",
		"raw_material_tax_items",
		"raw_material_change_logs",
		"fixed_costs",
		"product_groups",
		"products",
		"product_raw_materials",
	} {
		require.True(t, conn.Migrator().HasTable(table), table)
	}
	require.True(t, conn.Migrator().HasColumn("raw_materials", "price_converted_brl"))
	require.True(t, conn.Migrator().HasColumn("products", "product_group_id"))

	// Running twice is a no-op.
	require.NoError(t, Run(conn, config.Config{DBType: "sqlite"}))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	require.NotEmpty(t, ups)
	require.Equal(t, ups, downs)
}

func TestRunRequiresHandle(t *testing.T) {
	require.Error(t, Run(nil, config.Config{}))
	require.Error(t, RunMigrations(nil))
}
