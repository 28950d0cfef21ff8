package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"campus-restaurant/internal/authz"
	"campus-restaurant/internal/database"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "x",
		Role:         string(role),
	}
	if err := repository.NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func actorFor(user *models.User) authz.Actor {
	return authz.Actor{UserID: user.ID, Role: models.UserRole(user.Role)}
}

// createTestOrder inserts an order with the given status and creation
// time, bypassing the lifecycle rules.
func createTestOrder(t *testing.T, db *gorm.DB, userID uint, status models.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		OrderNumber: fmt.Sprintf("ORD-test-%d", atomic.AddInt64(&testDBCounter, 1)),
		UserID:      userID,
		Items: []models.OrderItem{
			{Name: "Burger", Quantity: 1, UnitPrice: 5.99},
			{Name: "Soda", Quantity: 2, UnitPrice: 1.50},
		},
		PickupTime: "12:30",
		Status:     status,
		CreatedAt:  createdAt,
	}
	if status == models.OrderCancelled {
		now := time.Now()
		order.CancelledAt = &now
		order.CanceledBy = string(models.RoleStaff)
	}
	if err := repository.NewOrderRepository(db).Create(order); err != nil {
		t.Fatalf("failed to create test order: %v", err)
	}
	return order
}
