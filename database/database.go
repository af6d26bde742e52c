package database

import (
	"fmt"
	"log"
	"time"

	"workcafe/config"
	"workcafe/model"
	"workcafe/utils"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase opens the configured database, verifies the connection and
// migrates the schema.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	db, err := Open(dialector, gormLogger(cfg.LogLevel))
	if err != nil {
		return nil, err
	}

	if cfg.DBDriver == "sqlite" {
		// SQLite allows one writer; a single connection avoids "database is locked".
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	utils.Log.WithField("driver", cfg.DBDriver).Info("database connected and migrated")
	return db, nil
}

func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql)", driver)
	}
}

// Open connects with the given dialector. TranslateError makes unique
// constraint violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, l logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         l,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Cafe{}, &model.User{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// OpenMemory returns a migrated private in-memory SQLite database. name
// keeps databases of parallel callers apart.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := Open(sqlite.Open(dsn), logger.Default.LogMode(logger.Silent))
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func gormLogger(level string) logger.Interface {
	mode := logger.Warn
	switch level {
	case "debug", "trace":
		mode = logger.Info
	case "error", "fatal", "panic":
		mode = logger.Error
	}
	return logger.New(
		log.New(utils.Log.Writer(), "", 0),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  mode,
			IgnoreRecordNotFoundError: true,
		},
	)
}
