package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"finstatements.com/internal/infrastructure/config"
	"finstatements.com/internal/infrastructure/logger"
)

const (
	mysqlConnectAttempts = 10
	mysqlRetryInterval   = 2 * time.Second
)

// MySQLClient wraps the GORM handle
type MySQLClient struct {
	db *gorm.DB
}

// NewMySQLClient opens a GORM connection, retrying while the server comes up
func NewMySQLClient(ctx context.Context, cfg config.MySQL, log logger.Logger) (*MySQLClient, error) {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 newGormLogger(cfg.LogLevel),
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= mysqlConnectAttempts; attempt++ {
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
		if err == nil {
			err = ping(ctx, db)
			if err == nil {
				break
			}
		}

		if attempt < mysqlConnectAttempts {
			log.LogWarning(ctx, "MySQL not reachable, retrying",
				"attempt", attempt,
				"max_attempts", mysqlConnectAttempts,
				"error", err.Error())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(mysqlRetryInterval):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql after %d attempts: %w", mysqlConnectAttempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &MySQLClient{db: db}, nil
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// NewMySQLClientFromDB wraps an already opened handle
func NewMySQLClientFromDB(db *gorm.DB) *MySQLClient {
	return &MySQLClient{db: db}
}

// DB returns the underlying *gorm.DB
func (c *MySQLClient) DB() *gorm.DB {
	return c.db
}

// Close closes the connection pool
func (c *MySQLClient) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormLogger(level string) gormlogger.Interface {
	var logLevel gormlogger.LogLevel
	switch level {
	case "info":
		logLevel = gormlogger.Info
	case "warn":
		logLevel = gormlogger.Warn
	case "silent":
		logLevel = gormlogger.Silent
	default:
		logLevel = gormlogger.Error
	}

	return gormlogger.Default.LogMode(logLevel)
}
