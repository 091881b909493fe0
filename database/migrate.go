package database

import (
	"gorm.io/gorm"

	"donorlink/internal/models"
)

// Migrate прогоняет автомиграции всех моделей
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.DonationRequest{},
		&models.Offer{},
		&models.Message{},
		&models.Notification{},
	)
}
