package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/hazirlageldim/pickup-app/config"
	"github.com/hazirlageldim/pickup-app/models"
	"github.com/hazirlageldim/pickup-app/router"
	"github.com/hazirlageldim/pickup-app/services"
	"github.com/hazirlageldim/pickup-app/utils"
)

func main() {
	// .env opsional, environment langsung juga jalan
	godotenv.Load()
	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.Errorf("Failed to connect database: %v", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Message{},
		&models.ChangeLog{},
	); err != nil {
		utils.Errorf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	monitor := services.NewChangeMonitor(db)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.Infof("Pickup dev gateway listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		utils.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
}
