package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/arnold/simlegacy-api/internal/config"
	"github.com/arnold/simlegacy-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to PostgreSQL when the URL starts with postgres, otherwise
// to the SQLite file it names.
func Open(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func Connect(cfg *config.Config, log *zap.Logger) error {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}
	db, err := Open(cfg.DatabaseURL, level)
	if err != nil {
		return err
	}
	driver := "sqlite"
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		driver = "postgres"
	}
	log.Info("Database connected", zap.String("driver", driver))

	DB = db
	return nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserPreferences{},
		&models.Challenge{},
		&models.Sim{},
		&models.Goal{},
		&models.Progress{},
		&models.SimAchievement{},
		&models.Notification{},
	)
}
