package config

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"creditline/internal/adapters/persistence/models"
)

// SeedDemoData inserts a couple of demo customers. Development only.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	customers := []models.Customer{
		{
			Name:            "John",
			Surname:         "Doe",
			CreditLimit:     decimal.NewFromInt(20000),
			UsedCreditLimit: decimal.Zero,
		},
		{
			Name:            "Jane",
			Surname:         "Roe",
			CreditLimit:     decimal.NewFromInt(50000),
			UsedCreditLimit: decimal.Zero,
		},
	}

	if err := db.Create(&customers).Error; err != nil {
		return err
	}

	logrus.WithField("count", len(customers)).Info("demo customers seeded")
	return nil
}
