package database

import (
	"fmt"
	"log"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/config"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Customer{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.InvoiceAttachment{},
		&entity.Payment{},
		&entity.PaymentMode{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (admin user, payment modes)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	var admin entity.User
	if err := db.Where("email = ?", "admin@localhost").First(&admin).Error; err != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash default password: %w", err)
		}
		admin = entity.User{
			FirstName: "Default",
			LastName:  "Admin",
			Email:     "admin@localhost",
			Password:  string(hashed),
			Role:      "admin",
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("Warning: failed to create default admin: %v", err)
		}
	}

	defaultModes := []string{"Bank Transfer", "Cash", "Card"}
	for _, name := range defaultModes {
		var existing entity.PaymentMode
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			mode := entity.PaymentMode{Name: name, Enabled: true}
			if err := db.Create(&mode).Error; err != nil {
				log.Printf("Warning: failed to create payment mode %s: %v", name, err)
			}
		}
	}

	log.Println("Default data seeded")
	return nil
}
