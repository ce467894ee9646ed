// Package mock provides test doubles for BDD integration tests.
//
// Every constructor in this package returns an independent handle. A
// scenario opens its own database and Redis instance and closes them
// in its teardown; nothing is shared between scenarios.
package mock

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Db is a fresh in-memory SQLite database scoped to one scenario.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
}

// NewDb opens a new private in-memory database and migrates the given
// models. Each call returns an isolated instance; the caller owns it
// and must Close it when the scenario finishes.
func NewDb(models map[string]any) (*Db, error) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	// A single connection keeps the private :memory: database alive
	// and visible to every gorm session.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	modelList := make([]any, 0, len(models))
	for _, m := range models {
		modelList = append(modelList, m)
	}
	if err := conn.AutoMigrate(modelList...); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return &Db{DbConn: conn, models: models}, nil
}

// Reset truncates every migrated table. Useful for scenarios that
// need a clean slate without reopening the database.
func (d *Db) Reset() error {
	for _, m := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying connection and with it the in-memory
// database itself.
func (d *Db) Close() error {
	sqlDB, err := d.DbConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetModel returns the model registered for the given table name.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
