package db

import (
	"artezaar-backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func Open(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.OTP{},
		&models.ArtisanProfile{},
		&models.Product{},
	); err != nil {
		return nil, err
	}

	return database, nil
}
