package persistence

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/litovianka/bike-service/internal/infrastructure/persistence/models"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

// RunMigrations applies the pending SQL migrations from migrationsDir to the
// connected PostgreSQL database. A database that is already up to date is not
// an error.
func RunMigrations(db *gorm.DB, migrationsDir string, logger logger.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get raw DB connection: %w", err)
	}

	driver, err := migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations from %s: %w", migrationsDir, err)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("No migrations to apply")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("Applied pending migrations from ", migrationsDir)
	return nil
}

// AutoMigrateSchema creates or repairs the schema from the GORM models.
// Intended for SQLite development databases and tests; PostgreSQL schemas
// are managed by the versioned migrations under migrations/.
func AutoMigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.CustomerModel{},
		&models.BikeModel{},
		&models.ServiceOrderModel{},
		&models.ServiceOrderPhotoModel{},
		&models.TicketModel{},
		&models.TicketMessageModel{},
		&models.ServiceOrderLogModel{},
	)
}
