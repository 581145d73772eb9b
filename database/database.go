package database

import (
	"careerhub/config"
	"careerhub/logger"
	"careerhub/models"
	courseModels "careerhub/models/course"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, migrates it and stores it globally
func ConnectDb(cfg *config.Config) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}

	if err := RunMigrations(db); err != nil {
		return err
	}

	Database = DbInstance{Db: db}
	return nil
}

// Open connects to PostgreSQL, or SQLite when DB_DRIVER=sqlite
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		// a single writer avoids SQLITE_BUSY between pooled connections
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxLifetime(0)

	logger.Log.Info("database connected", "driver", cfg.DBDriver)
	return db, nil
}

// Models lists every table managed by AutoMigrate
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.LoginHistory{},
		&courseModels.Course{},
		&courseModels.CourseEnrollment{},
		&courseModels.Lesson{},
		&courseModels.CourseProgress{},
		&courseModels.CompletedLesson{},
		&courseModels.QuizResult{},
		&courseModels.Quiz{},
		&courseModels.QuizQuestion{},
		&courseModels.QuizOption{},
		&courseModels.QuizAttempt{},
		&courseModels.Certificate{},
	}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	logger.Log.Info("running migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Log.Info("migrations completed")
	return nil
}
