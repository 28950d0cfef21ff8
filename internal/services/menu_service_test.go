package services

import (
	"errors"
	"testing"

	"campus-restaurant/internal/models"
	"campus-restaurant/internal/repository"

	"gorm.io/gorm"
)

func fptr(v float64) *float64 { return &v }

func newMenuServiceForTest(t *testing.T) (MenuService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	return NewMenuService(repository.NewMenuItemRepository(db), nil), db
}

func TestMenuScope(t *testing.T) {
	svc, db := newMenuServiceForTest(t)
	manager := actorFor(createTestUser(t, db, "boss", models.RoleManager))

	if _, err := svc.Create(manager, MenuItemInput{Name: "Burger", Price: fptr(5.99), Category: "Mains"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	unavailable := false
	if _, err := svc.Create(manager, MenuItemInput{Name: "Soup", Price: fptr(4), Category: "Mains", Available: &unavailable}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	available, err := svc.List(ScopeAvailableOnly)
	if err != nil {
		t.Fatalf("List available: %v", err)
	}
	if len(available) != 1 || available[0].Name != "Burger" {
		t.Errorf("available scope = %+v, want only Burger", available)
	}

	all, err := svc.List(ScopeAll)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("full scope = %d items, want 2", len(all))
	}
}

func TestMenuDuplicateName(t *testing.T) {
	svc, db := newMenuServiceForTest(t)
	manager := actorFor(createTestUser(t, db, "boss", models.RoleManager))

	if _, err := svc.Create(manager, MenuItemInput{Name: "Burger", Price: fptr(5.99), Category: "Mains"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(manager, MenuItemInput{Name: "Burger", Price: fptr(7), Category: "Mains"}); !errors.Is(err, ErrMenuItemExists) {
		t.Errorf("duplicate name error = %v, want ErrMenuItemExists", err)
	}
}

// racingMenuRepo misses the duplicate-name pre-check a set number of
// times, standing in for a concurrent create landing between check and
// insert.
type racingMenuRepo struct {
	repository.MenuItemRepository
	misses int
}

func (r *racingMenuRepo) GetByName(name string) (*models.MenuItem, error) {
	if r.misses > 0 {
		r.misses--
		return nil, gorm.ErrRecordNotFound
	}
	return r.MenuItemRepository.GetByName(name)
}

func TestMenuCreateDuplicateRace(t *testing.T) {
	db := setupTestDB(t)
	repo := &racingMenuRepo{MenuItemRepository: repository.NewMenuItemRepository(db)}
	svc := NewMenuService(repo, nil)
	manager := actorFor(createTestUser(t, db, "boss", models.RoleManager))

	if _, err := svc.Create(manager, MenuItemInput{Name: "Burger", Price: fptr(5.99), Category: "Mains"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	repo.misses = 1
	if _, err := svc.Create(manager, MenuItemInput{Name: "Burger", Price: fptr(7), Category: "Mains"}); !errors.Is(err, ErrMenuItemExists) {
		t.Errorf("racing duplicate error = %v, want ErrMenuItemExists", err)
	}
}

func TestMenuToggle(t *testing.T) {
	svc, db := newMenuServiceForTest(t)
	manager := actorFor(createTestUser(t, db, "boss", models.RoleManager))
	staff := actorFor(createTestUser(t, db, "staff1", models.RoleStaff))
	student := actorFor(createTestUser(t, db, "student1", models.RoleStudent))

	item, err := svc.Create(manager, MenuItemInput{Name: "Burger", Price: fptr(5.99), Category: "Mains"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	toggled, err := svc.ToggleAvailability(staff, item.ID)
	if err != nil {
		t.Fatalf("staff toggle: %v", err)
	}
	if toggled.Available {
		t.Error("toggle did not flip availability")
	}

	if _, err := svc.ToggleAvailability(student, item.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("student toggle error = %v, want ErrForbidden", err)
	}
}

func TestMenuManagerOnlyMutations(t *testing.T) {
	svc, db := newMenuServiceForTest(t)
	manager := actorFor(createTestUser(t, db, "boss", models.RoleManager))
	staff := actorFor(createTestUser(t, db, "staff1", models.RoleStaff))

	item, err := svc.Create(manager, MenuItemInput{Name: "Burger", Price: fptr(5.99), Category: "Mains"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Create(staff, MenuItemInput{Name: "Soup", Price: fptr(4), Category: "Mains"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("staff create error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Update(staff, item.ID, MenuItemInput{Price: fptr(6)}); !errors.Is(err, ErrForbidden) {
		t.Errorf("staff update error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(staff, item.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("staff delete error = %v, want ErrForbidden", err)
	}
}

func TestMenuUpdateAndDelete(t *testing.T) {
	svc, db := newMenuServiceForTest(t)
	manager := actorFor(createTestUser(t, db, "boss", models.RoleManager))

	item, err := svc.Create(manager, MenuItemInput{Name: "Burger", Price: fptr(5.99), Category: "Mains"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(manager, item.ID, MenuItemInput{Name: "Double Burger", Price: fptr(8.99), Description: "two patties"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Double Burger" || updated.Price != 8.99 || updated.Description != "two patties" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := svc.Delete(manager, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(item.ID); !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("deleted item lookup error = %v, want ErrMenuItemNotFound", err)
	}
}
