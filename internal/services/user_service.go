package services

import (
	"errors"
	"fmt"

	"campus-restaurant/internal/authz"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	RegisterStudent(username, email, password string) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	StaffUsers(actor authz.Actor) ([]models.User, error)
	CreateStaffUser(actor authz.Actor, username, password, role string) (*models.User, error)
	UpdateStaffUser(actor authz.Actor, id uint, username, password, role string) (*models.User, error)
	DeleteUser(actor authz.Actor, id uint) error
}

type userService struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

func NewUserService(userRepo repository.UserRepository, orderRepo repository.OrderRepository) UserService {
	return &userService{userRepo: userRepo, orderRepo: orderRepo}
}

// RegisterStudent creates a student account with a bcrypt-hashed password.
func (s *userService) RegisterStudent(username, email, password string) (*models.User, error) {
	if err := s.checkTaken(username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         string(models.RoleStudent),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, s.createError(err, username, email)
	}
	return user, nil
}

func (s *userService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// StaffUsers lists staff and manager accounts, newest first.
func (s *userService) StaffUsers(actor authz.Actor) ([]models.User, error) {
	if !authz.Can(actor, 0, authz.ActionManageUsers) {
		return nil, ErrForbidden
	}
	return s.userRepo.GetByRoles([]string{string(models.RoleStaff), string(models.RoleManager)})
}

// CreateStaffUser creates a staff or manager account. The email is
// derived from the username.
func (s *userService) CreateStaffUser(actor authz.Actor, username, password, role string) (*models.User, error) {
	if !authz.Can(actor, 0, authz.ActionManageUsers) {
		return nil, ErrForbidden
	}
	if role != string(models.RoleStaff) && role != string(models.RoleManager) {
		return nil, ErrInvalidRole
	}

	email := username + "@system.com"
	if err := s.checkTaken(username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, s.createError(err, username, email)
	}
	return user, nil
}

// UpdateStaffUser updates username, password and/or role. Empty fields
// are left alone; demoting to student is not allowed.
func (s *userService) UpdateStaffUser(actor authz.Actor, id uint, username, password, role string) (*models.User, error) {
	if !authz.Can(actor, 0, authz.ActionManageUsers) {
		return nil, ErrForbidden
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if role != "" {
		if role != string(models.RoleStaff) && role != string(models.RoleManager) {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if username != "" && username != user.Username {
		email := username + "@system.com"
		if err := s.checkTaken(username, email); err != nil {
			return nil, err
		}
		user.Username = username
		user.Email = email
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes an account. A student with live orders cannot be
// deleted; staff and managers always can, their historical orders keep a
// dangling owner reference.
func (s *userService) DeleteUser(actor authz.Actor, id uint) error {
	if !authz.Can(actor, 0, authz.ActionManageUsers) {
		return ErrForbidden
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	if user.Role == string(models.RoleStudent) {
		count, err := s.orderRepo.CountByUserID(user.ID)
		if err != nil {
			return fmt.Errorf("failed to count orders: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %d order(s)", ErrStudentHasOrders, count)
		}
	}

	return s.userRepo.Delete(user.ID)
}

// createError maps a failed insert onto a field-specific error. The
// pre-insert checkTaken race means a concurrent duplicate can still hit
// the unique index.
func (s *userService) createError(err error, username, email string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if cerr := s.checkTaken(username, email); cerr != nil {
			return cerr
		}
		return ErrUsernameTaken
	}
	return fmt.Errorf("failed to create user: %w", err)
}

func (s *userService) checkTaken(username, email string) error {
	existing, err := s.userRepo.GetByUsernameOrEmail(username, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.Username == username {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}
