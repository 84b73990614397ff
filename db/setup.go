package db

import (
	"github.com/sigo-dev/sigo/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Group{},
		&models.Membership{},
		&models.Dashboard{},
	}

	migrator := db.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := db.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
