package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

// DB wraps the GORM database connection
type DB struct {
	*gorm.DB
}

// Connect opens the catalog database. DSNs starting with postgres:// use
// the PostgreSQL driver; anything else is treated as a SQLite path
// (":memory:" included), which keeps local and test setups driverless.
func Connect(dsn string) (*DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if _, ok := dialector.(*sqlite.Dialector); ok {
		// SQLite allows one writer; a single connection avoids
		// SQLITE_BUSY under concurrent reservation calls.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &DB{DB: db}, nil
}

// RunMigrations creates or updates the three catalog relations.
func RunMigrations(db *DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Book{},
		&domain.Reservation{},
	)
}

// Ping checks if the database connection is alive
func (db *DB) Ping() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
