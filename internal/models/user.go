package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"unique;not null"`
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"default:'student'"` // student, staff, manager
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleStaff   UserRole = "staff"
	RoleManager UserRole = "manager"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleStudent, RoleStaff, RoleManager:
		return true
	}
	return false
}
