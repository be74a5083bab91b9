package main

import (
	"fmt"
	"log/slog"
	"os"

	"startech-backend/config"
	"startech-backend/models"
	"startech-backend/routes"
	"startech-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}
	config.InitLogger()

	db, err := config.ConnectDB()
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderProduct{},
		&models.Service{},
		&models.ServiceHistory{},
		&models.Task{},
		&models.TaskHistory{},
		&models.Ticket{},
		&models.TicketHistory{},
		&models.Comment{},
		&models.ActivityLog{},
	); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	sync := services.NewWooSyncService(db, services.NewWooClientFromEnv())
	sync.StartScheduler()

	notifier := services.NewNotifierFromEnv()

	r := routes.SetupRouter(db, sync, notifier)
	printRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
