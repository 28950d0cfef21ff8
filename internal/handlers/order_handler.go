package handlers

import (
	"net/http"
	"strconv"

	"campus-restaurant/internal/middleware"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/services"

	"github.com/gin-gonic/gin"
)

// OrderHandler serves the student-facing order endpoints.
type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type orderItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

type createOrderRequest struct {
	Items               []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	PickupTime          string             `json:"pickup_time" binding:"required"`
	SpecialInstructions string             `json:"special_instructions"`
}

type updateOrderRequest struct {
	Items               []orderItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	PickupTime          *string            `json:"pickup_time"`
	SpecialInstructions *string            `json:"special_instructions"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	order, err := h.orderService.PlaceOrder(actor, toItems(req.Items), req.PickupTime, req.SpecialInstructions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Current returns the student's active (pending/preparing/ready) orders.
func (h *OrderHandler) Current(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	orders, err := h.orderService.CurrentOrders(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// History returns the student's terminal (picked/cancelled) orders.
func (h *OrderHandler) History(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	orders, err := h.orderService.OrderHistory(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Update(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	update := services.OrderUpdate{
		PickupTime:          req.PickupTime,
		SpecialInstructions: req.SpecialInstructions,
	}
	if req.Items != nil {
		update.Items = toItems(req.Items)
	}

	order, err := h.orderService.EditOrder(actor, id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func toItems(reqs []orderItemRequest) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, models.OrderItem{
			Name:      r.Name,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
		})
	}
	return items
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
