package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/InteliJR/pricehub/internal/config"
	fixedcostdomain "github.com/InteliJR/pricehub/internal/fixedcost/domain"
	freightdomain "github.com/InteliJR/pricehub/internal/freight/domain"
	productdomain "github.com/InteliJR/pricehub/internal/product/domain"
	productgroupdomain "github.com/InteliJR/pricehub/internal/productgroup/domain"
	rawmaterialdomain "github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	"github.com/InteliJR/pricehub/pkg/db"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&freightdomain.Freight{},
		&freightdomain.FreightTax{},
		&rawmaterialdomain.RawMaterial{},
		&rawmaterialdomain.TaxItem{},
		&rawmaterialdomain.ChangeLog{},
		&fixedcostdomain.FixedCost{},
		&productgroupdomain.ProductGroup{},
		&productdomain.Product{},
		&productdomain.ProductRawMaterial{},
	}
}

// Run brings the schema up to date. Postgres uses the embedded SQL files;
// mysql and sqlite fall back to AutoMigrate.
func Run(conn *gorm.DB, cfg config.Config) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if cfg.DBType != db.TypePostgres {
		return AutoMigrate(conn)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(sqlDB *sql.DB) error {
	if sqlDB == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.
	return nil
}
