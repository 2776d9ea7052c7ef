package repository

import (
	"fmt"

	"github.com/AndrewHnidets/demo-repositories/internal/config"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Init opens the postgres connection and migrates the schema.
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Migrate runs automigration for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Country{},
		&model.Area{},
		&model.City{},
		&model.User{},
		&model.UserSetting{},
		&model.ProjectArea{},
		&model.Project{},
		&model.ProjectPhoto{},
		&model.PartnerRole{},
		&model.Partner{},
		&model.Vacancy{},
		&model.ChatRoom{},
		&model.ChatUserRoom{},
		&model.ChatMessage{},
		&model.LocalizedText{},
	)
}
