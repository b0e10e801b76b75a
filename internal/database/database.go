package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/portfolio-cms/internal/config"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the database named by cfg.DatabaseURL and verifies it answers.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if dialector.Name() == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Log.Infow("database connection established", "dialect", dialector.Name())
	return db, nil
}

// Dialector picks the GORM driver from the URL scheme. Bare paths are
// treated as SQLite files.
func Dialector(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "mysql://"):
		dsn := strings.TrimPrefix(url, "mysql://")
		if !strings.Contains(dsn, "parseTime=") {
			dsn = appendQuery(dsn, "parseTime=True")
		}
		return mysql.Open(dsn), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(sqliteDSN(strings.TrimPrefix(url, "sqlite://"))), nil
	case url == "":
		return nil, fmt.Errorf("database url is empty")
	case strings.Contains(url, "://"):
		return nil, fmt.Errorf("unsupported database url scheme: %q", url)
	default:
		return sqlite.Open(sqliteDSN(url)), nil
	}
}

// Migrate creates or updates every table the application uses.
func Migrate(db *gorm.DB) error {
	logger.Log.Info("running database migrations")

	if err := db.SetupJoinTable(&models.Project{}, "Tags", &models.ProjectTag{}); err != nil {
		return fmt.Errorf("failed to set up project tags join table: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Project{},
		&models.ProjectTag{},
		&models.Achievement{},
		&models.Comment{},
		&models.Like{},
		&models.ContactMessage{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return err
	}

	logger.Log.Info("database migrations completed")
	return nil
}

func sqliteDSN(path string) string {
	return appendQuery(path, "_foreign_keys=on")
}

func appendQuery(dsn, kv string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + kv
	}
	return dsn + "?" + kv
}

func newGormLogger(level string) gormlogger.Interface {
	gormLevel := gormlogger.Warn
	switch level {
	case "debug":
		gormLevel = gormlogger.Info
	case "error":
		gormLevel = gormlogger.Error
	}

	return gormlogger.New(
		zap.NewStdLog(logger.Log.Desugar()),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
