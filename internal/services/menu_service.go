package services

import (
	"errors"
	"fmt"
	"log"

	"campus-restaurant/internal/authz"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/redis"
	"campus-restaurant/internal/repository"

	"gorm.io/gorm"
)

// MenuScope says how much of the menu a viewer gets. It is chosen
// explicitly by the route layer from the actor's role, never inferred
// from whether a token happened to be present.
type MenuScope int

const (
	ScopeAvailableOnly MenuScope = iota // guests and students
	ScopeAll                            // staff and managers
)

// MenuItemInput carries the writable fields of a menu item. Nil pointers
// and empty strings leave the field untouched on update.
type MenuItemInput struct {
	Name        string
	Price       *float64
	Category    string
	Available   *bool
	ImagePath   string
	Description string
}

type MenuService interface {
	List(scope MenuScope) ([]models.MenuItem, error)
	Get(id uint) (*models.MenuItem, error)
	Create(actor authz.Actor, input MenuItemInput) (*models.MenuItem, error)
	Update(actor authz.Actor, id uint, input MenuItemInput) (*models.MenuItem, error)
	ToggleAvailability(actor authz.Actor, id uint) (*models.MenuItem, error)
	Delete(actor authz.Actor, id uint) error
}

type menuService struct {
	menuRepo repository.MenuItemRepository
	signals  ChangeSignaler
}

func NewMenuService(menuRepo repository.MenuItemRepository, signals ChangeSignaler) MenuService {
	return &menuService{menuRepo: menuRepo, signals: signals}
}

func (s *menuService) List(scope MenuScope) ([]models.MenuItem, error) {
	if scope == ScopeAll {
		return s.menuRepo.GetAll()
	}
	return s.menuRepo.GetAvailable()
}

func (s *menuService) Get(id uint) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *menuService) Create(actor authz.Actor, input MenuItemInput) (*models.MenuItem, error) {
	if !authz.Can(actor, 0, authz.ActionManageMenu) {
		return nil, ErrForbidden
	}
	if input.Name == "" || input.Price == nil || *input.Price < 0 {
		return nil, ErrInvalidMenuItem
	}
	if err := s.checkNameTaken(input.Name, 0); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		Name:        input.Name,
		Price:       *input.Price,
		Category:    input.Category,
		Available:   true,
		ImagePath:   input.ImagePath,
		Description: input.Description,
	}
	if input.Available != nil {
		item.Available = *input.Available
	}

	if err := s.menuRepo.Create(item); err != nil {
		// checkNameTaken races with concurrent creates; the unique index
		// has the final say.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMenuItemExists
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.bumpMenu()
	return item, nil
}

func (s *menuService) Update(actor authz.Actor, id uint, input MenuItemInput) (*models.MenuItem, error) {
	if !authz.Can(actor, 0, authz.ActionManageMenu) {
		return nil, ErrForbidden
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" && input.Name != item.Name {
		if err := s.checkNameTaken(input.Name, item.ID); err != nil {
			return nil, err
		}
		item.Name = input.Name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidMenuItem
		}
		item.Price = *input.Price
	}
	if input.Category != "" {
		item.Category = input.Category
	}
	if input.Available != nil {
		item.Available = *input.Available
	}
	if input.ImagePath != "" {
		item.ImagePath = input.ImagePath
	}
	if input.Description != "" {
		item.Description = input.Description
	}

	if err := s.menuRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	s.bumpMenu()
	return item, nil
}

// ToggleAvailability flips the availability flag. Staff may do this even
// though the rest of menu management is manager-only.
func (s *menuService) ToggleAvailability(actor authz.Actor, id uint) (*models.MenuItem, error) {
	if !authz.Can(actor, 0, authz.ActionToggleMenuItem) {
		return nil, ErrForbidden
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	item.Available = !item.Available
	if err := s.menuRepo.Update(item); err != nil {
		return nil, fmt.Errorf("failed to toggle menu item: %w", err)
	}

	s.bumpMenu()
	return item, nil
}

// Delete removes a menu item permanently. Already-placed orders keep
// their value copies of the item.
func (s *menuService) Delete(actor authz.Actor, id uint) error {
	if !authz.Can(actor, 0, authz.ActionManageMenu) {
		return ErrForbidden
	}

	item, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.menuRepo.Delete(item.ID); err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	s.bumpMenu()
	return nil
}

func (s *menuService) checkNameTaken(name string, selfID uint) error {
	existing, err := s.menuRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrMenuItemExists
	}
	return nil
}

func (s *menuService) bumpMenu() {
	if s.signals == nil {
		return
	}
	if err := s.signals.BumpChangeToken(redis.ScopeMenu); err != nil {
		log.Printf("Warning: failed to bump menu change token: %v", err)
	}
}
