package handlers

import (
	"fmt"
	"net/http"

	"campus-restaurant/internal/middleware"
	"campus-restaurant/internal/models"
	"campus-restaurant/internal/services"

	"github.com/gin-gonic/gin"
)

// ManagerHandler serves user administration, manager order views, daily
// reports and archival.
type ManagerHandler struct {
	userService    services.UserService
	orderService   services.OrderService
	reportService  services.ReportService
	archiveService services.ArchiveService
}

func NewManagerHandler(
	userService services.UserService,
	orderService services.OrderService,
	reportService services.ReportService,
	archiveService services.ArchiveService,
) *ManagerHandler {
	return &ManagerHandler{
		userService:    userService,
		orderService:   orderService,
		reportService:  reportService,
		archiveService: archiveService,
	}
}

type createUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=staff manager"`
}

type updateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"omitempty,oneof=staff manager"`
}

type bulkArchiveRequest struct {
	DaysOld *int `json:"daysOld" binding:"required,gte=0"`
}

// ===== user management =====

func (h *ManagerHandler) Users(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	users, err := h.userService.StaffUsers(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *ManagerHandler) CreateUser(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.userService.CreateStaffUser(actor, req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *ManagerHandler) UpdateUser(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	user, err := h.userService.UpdateStaffUser(actor, id, req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *ManagerHandler) DeleteUser(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ===== order views =====

func (h *ManagerHandler) Orders(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	orders, err := h.orderService.AllOrders(actor, models.OrderStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *ManagerHandler) CancelledOrders(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	orders, err := h.orderService.CancelledOrders(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *ManagerHandler) ClearCancelledOrders(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	deleted, err := h.orderService.ClearCancelled(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Successfully deleted %d cancelled order(s)", deleted),
		"deleted_count": deleted,
	})
}

// ===== reports =====

func (h *ManagerHandler) DailyReport(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	report, err := h.reportService.DailyReport(actor, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ===== archive =====

func (h *ManagerHandler) ArchiveOrder(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	if err := h.archiveService.ArchiveOrder(actor, c.Param("orderNumber")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order archived successfully"})
}

func (h *ManagerHandler) BulkArchive(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req bulkArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := h.archiveService.BulkArchive(actor, *req.DaysOld)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        fmt.Sprintf("Successfully archived %d order(s)", result.ArchivedCount),
		"archived_count": result.ArchivedCount,
		"total_found":    result.TotalFound,
		"errors":         result.Errors,
	})
}

func (h *ManagerHandler) ArchivedOrders(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	archived, err := h.archiveService.ListArchived(actor, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, archived)
}
