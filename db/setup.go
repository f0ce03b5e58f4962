package db

import (
	"fmt"

	"github.com/JakubEth/gramytu/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(driver, dsn string) error {
	var err error
	var dialector gorm.Dialector

	switch driver {
	case "postgres", "postgresql", "":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}

	DB, err = gorm.Open(dialector, &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Follow{},
		&models.Event{},
		&models.EventParticipant{},
		&models.EventLike{},
		&models.EventTag{},
		&models.EventComment{},
		&models.ChatMessage{},
		&models.MessageRead{},
		&models.UserReview{},
		&models.UserActivity{},
	}
}

// MigrateDatabase creates missing tables and adds columns that new model
// fields introduce.
func MigrateDatabase() error {
	return DB.AutoMigrate(Models()...)
}

func Ping() error {
	sqlDB, err := DB.DB()

	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
