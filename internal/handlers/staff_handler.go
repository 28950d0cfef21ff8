package handlers

import (
	"net/http"

	"campus-restaurant/internal/middleware"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/services"

	"github.com/gin-gonic/gin"
)

// StaffHandler serves the order board shared by staff and managers.
type StaffHandler struct {
	orderService services.OrderService
}

func NewStaffHandler(orderService services.OrderService) *StaffHandler {
	return &StaffHandler{orderService: orderService}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Orders returns every live order, newest first.
func (h *StaffHandler) Orders(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	orders, err := h.orderService.AllOrders(actor, "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *StaffHandler) CancelledOrders(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	orders, err := h.orderService.CancelledOrders(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateStatus advances an order one step along the lifecycle.
func (h *StaffHandler) UpdateStatus(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	order, err := h.orderService.AdvanceStatus(actor, id, models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *StaffHandler) Cancel(c *gin.Context) {
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
