package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/CUknot/dorm_backend/config"
	"github.com/CUknot/dorm_backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the database
func Connect(cfg config.Config) {
	var err error

	if cfg.DBDriver == "sqlite" {
		err = ConnectSQLite(cfg.SQLitePath)
	} else {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort)
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connection established")
}

// ConnectSQLite opens a sqlite database, used for local runs and tests.
// Pass "file:<name>?mode=memory&cache=shared" for a private in-memory database.
func ConnectSQLite(dsn string) error {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Migrate automatically migrates the database schema
func Migrate() error {
	if err := DB.AutoMigrate(&models.User{}, &models.Room{}, &models.SleepoverRequest{}, &models.Notification{}); err != nil {
		return err
	}
	log.Println("Database migration completed")
	return nil
}

// SeedAdmin creates the configured admin account if it does not exist yet
func SeedAdmin(email, password string) error {
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	err := DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return DB.Model(&existing).Update("role", models.RoleAdmin).Error
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("Seeded admin account %s", email)
	return nil
}
