package handlers

import (
	"net/http"

	"campus-restaurant/internal/middleware"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/services"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService services.MenuService
}

func NewMenuHandler(menuService services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

type menuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Category    string  `json:"category" binding:"required"`
	Available   *bool   `json:"available"`
	ImagePath   string  `json:"image_path"`
	Description string  `json:"description"`
}

type menuItemUpdateRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Category    string   `json:"category"`
	Available   *bool    `json:"available"`
	ImagePath   string   `json:"image_path"`
	Description string   `json:"description"`
}

// List serves the menu. Staff and managers get the full menu including
// unavailable items; everyone else gets available items only.
func (h *MenuHandler) List(c *gin.Context) {
	scope := services.ScopeAvailableOnly
	if actor, ok := middleware.GetActor(c); ok {
		if actor.Role == models.RoleStaff || actor.Role == models.RoleManager {
			scope = services.ScopeAll
		}
	}

	items, err := h.menuService.List(scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.menuService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Create(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	item, err := h.menuService.Create(actor, services.MenuItemInput{
		Name:        req.Name,
		Price:       &req.Price,
		Category:    req.Category,
		Available:   req.Available,
		ImagePath:   req.ImagePath,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) Update(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req menuItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	item, err := h.menuService.Update(actor, id, services.MenuItemInput{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Available:   req.Available,
		ImagePath:   req.ImagePath,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Toggle(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.menuService.ToggleAvailability(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Delete(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.menuService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}
