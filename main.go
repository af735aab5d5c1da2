package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/config"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/router"
	"github.com/seatserve/seatserve-backend/utils"
)

func main() {
	utils.InitLogger()

	if err := godotenv.Load(); err != nil {
		// Fine in production where the environment is set by the platform.
		utils.InfoLogger.Println("No .env file found, reading environment directly")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.JWTSecret != "" {
		utils.SetJWTSecret(cfg.JWTSecret)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := autoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	r := router.SetupRouter(db, cfg)

	utils.InfoLogger.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatalf("Server stopped: %v", err)
	}
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Plan{},
		&models.Subscription{},
		&models.Table{},
		&models.Category{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.StaffMember{},
	)
}
