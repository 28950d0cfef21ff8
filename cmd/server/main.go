package main

import (
	"log"
	"time"

	"campus-restaurant/internal/auth"
	"campus-restaurant/internal/config"
	"campus-restaurant/internal/database"
	"campus-restaurant/internal/handlers"
	"campus-restaurant/internal/middleware"
	"campus-restaurant/internal/migrations"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/redis"
	"campus-restaurant/internal/repository"
	"campus-restaurant/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Ensure schema and default data
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis. The change-token cache is an optimization; run
	// without it if Redis is unreachable.
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Redis unavailable, change tokens disabled: %v", err)
		redisClient = nil
	}

	// Token manager
	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	archivedRepo := repository.NewArchivedOrderRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)

	// Initialize services
	var signals services.ChangeSignaler
	if redisClient != nil {
		signals = redisClient
	}
	userService := services.NewUserService(userRepo, orderRepo)
	orderService := services.NewOrderService(orderRepo, signals)
	menuService := services.NewMenuService(menuRepo, signals)
	reportService := services.NewReportService(orderRepo)
	archiveService := services.NewArchiveService(orderRepo, archivedRepo, signals)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	orderHandler := handlers.NewOrderHandler(orderService)
	staffHandler := handlers.NewStaffHandler(orderService)
	menuHandler := handlers.NewMenuHandler(menuService)
	managerHandler := handlers.NewManagerHandler(userService, orderService, reportService, archiveService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		// Public
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/menu", middleware.OptionalAuth(tokens, userService), menuHandler.List)
		api.GET("/menu/:id", menuHandler.Get)
		if redisClient != nil {
			syncHandler := handlers.NewSyncHandler(redisClient)
			api.GET("/updates", syncHandler.Updates)
		}

		// Student orders
		orders := api.Group("/orders", middleware.RequireAuth(tokens, userService))
		{
			orders.POST("", middleware.RequireRoles(models.RoleStudent), orderHandler.Create)
			orders.GET("/current", middleware.RequireRoles(models.RoleStudent), orderHandler.Current)
			orders.GET("/history", middleware.RequireRoles(models.RoleStudent), orderHandler.History)
			orders.GET("/:id", orderHandler.Get)
			orders.PATCH("/:id", middleware.RequireRoles(models.RoleStudent), orderHandler.Update)
			orders.PATCH("/:id/cancel", middleware.RequireRoles(models.RoleStudent), orderHandler.Cancel)
		}

		// Staff order board (staff and managers)
		staff := api.Group("/staff", middleware.RequireAuth(tokens, userService),
			middleware.RequireRoles(models.RoleStaff, models.RoleManager))
		{
			staff.GET("/orders", staffHandler.Orders)
			staff.GET("/orders/cancelled", staffHandler.CancelledOrders)
			staff.PATCH("/orders/:id/status", staffHandler.UpdateStatus)
			staff.PATCH("/orders/:id/cancel", staffHandler.Cancel)
		}

		// Menu management
		menu := api.Group("/menu", middleware.RequireAuth(tokens, userService))
		{
			menu.PATCH("/:id/toggle", middleware.RequireRoles(models.RoleStaff, models.RoleManager), menuHandler.Toggle)
			menu.POST("", middleware.RequireRoles(models.RoleManager), menuHandler.Create)
			menu.PATCH("/:id", middleware.RequireRoles(models.RoleManager), menuHandler.Update)
			menu.DELETE("/:id", middleware.RequireRoles(models.RoleManager), menuHandler.Delete)
		}

		// Manager administration
		manager := api.Group("/manager", middleware.RequireAuth(tokens, userService),
			middleware.RequireRoles(models.RoleManager))
		{
			manager.GET("/users", managerHandler.Users)
			manager.POST("/users", managerHandler.CreateUser)
			manager.PATCH("/users/:id", managerHandler.UpdateUser)
			manager.DELETE("/users/:id", managerHandler.DeleteUser)

			manager.GET("/orders", managerHandler.Orders)
			manager.GET("/orders/cancelled", managerHandler.CancelledOrders)
			manager.DELETE("/orders/cancelled", managerHandler.ClearCancelledOrders)

			manager.GET("/reports", managerHandler.DailyReport)

			manager.POST("/archive/bulk", managerHandler.BulkArchive)
			manager.POST("/archive/:orderNumber", managerHandler.ArchiveOrder)
			manager.GET("/archive", managerHandler.ArchivedOrders)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
