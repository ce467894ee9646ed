// Package db provides database connection and management.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/receipt-ledger/backend/config"
	"github.com/receipt-ledger/backend/internal/integration/persistence/model"
)

// Database wraps the gorm database connection.
type Database struct {
	conn *gorm.DB
}

// NewPostgresConnection creates a new PostgreSQL database connection.
func NewPostgresConnection(cfg config.DatabaseConfig) (*Database, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	conn, err := gorm.Open(postgres.Open(cfg.URL), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return &Database{conn: conn}, nil
}

// DB returns the underlying gorm database connection.
func (d *Database) DB() *gorm.DB {
	return d.conn
}

// HealthCheck verifies the database connection is alive.
func (d *Database) HealthCheck() bool {
	sqlDB, err := d.conn.DB()
	if err != nil {
		return false
	}
	return sqlDB.Ping() == nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	sqlDB, err := d.conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// AutoMigrate runs schema migrations for all persistence models.
func (d *Database) AutoMigrate() error {
	return d.conn.AutoMigrate(
		&model.UserModel{},
		&model.RefreshTokenModel{},
		&model.SharedGroupModel{},
		&model.GroupMemberModel{},
		&model.PendingInvitationModel{},
		&model.GroupActivityModel{},
		&model.TransactionModel{},
		&model.TransactionItemModel{},
		&model.MappingModel{},
		&model.EmailQueueModel{},
	)
}
