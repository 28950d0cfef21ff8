package migrations

import (
	"log"

	"campus-restaurant/internal/database"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunMigrations ensures the schema exists and seeds default data.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := createDefaultData(db); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// createDefaultData creates the default manager account and a starter menu.
func createDefaultData(db *gorm.DB) error {
	log.Println("Creating default data...")

	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)

	// Check if the manager account already exists
	if existing, err := userRepo.GetByUsername("admin"); err == nil && existing != nil {
		log.Println("Default manager account already exists")
		return nil
	}

	log.Println("Creating default manager account...")
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	manager := &models.User{
		Username:     "admin",
		Email:        "admin@system.com",
		PasswordHash: string(hash),
		Role:         string(models.RoleManager),
	}
	if err := userRepo.Create(manager); err != nil {
		log.Printf("Warning: Failed to create default manager: %v", err)
	} else {
		log.Println("Default manager account created successfully")
		log.Println("Username: admin")
		log.Println("Password: admin123")
	}

	log.Println("Creating starter menu...")
	starter := []models.MenuItem{
		{Name: "Chicken Shawarma", Price: 12.00, Category: "Sandwiches", Available: true},
		{Name: "Beef Burger", Price: 15.00, Category: "Sandwiches", Available: true},
		{Name: "Margherita Pizza", Price: 18.00, Category: "Mains", Available: true},
		{Name: "French Fries", Price: 6.00, Category: "Sides", Available: true},
		{Name: "Soft Drink", Price: 3.00, Category: "Drinks", Available: true},
	}
	for i := range starter {
		if err := menuRepo.Create(&starter[i]); err != nil {
			log.Printf("Warning: Failed to create menu item %q: %v", starter[i].Name, err)
		}
	}

	log.Println("Default data created successfully!")
	return nil
}
