package infra

import (
	"fmt"

	"comprasverdu/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the SQL patches that GORM cannot
// express (sequences for business numbering).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations migrates the schema and applies the sequence patches. Also
// used by integration tests against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Proveedor{},
		&model.Articulo{},
		&model.Compra{},
		&model.CompraItem{},
		&model.Recepcion{},
		&model.RecepcionItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches creates the business-numbering sequences. Numbers come
// from the database, not from MAX(numero)+1 in Go: two requests in the same
// instant can never draw the same number. Each statement is idempotent.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// gen_random_uuid() necesita pgcrypto en Postgres < 13.
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		`CREATE SEQUENCE IF NOT EXISTS compras_numero_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS recepciones_numero_seq START 1`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql, err)
		}
	}
	return nil
}
