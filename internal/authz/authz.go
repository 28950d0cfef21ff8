// Package authz holds the single capability check evaluated before every
// core operation: (actor role, resource owner, action) -> allow/deny.
package authz

import (
	"campus-restaurant/internal/models"
)

type Action string

const (
	ActionPlaceOrder     Action = "place_order"
	ActionViewOrder      Action = "view_order"
	ActionEditOrder      Action = "edit_order"
	ActionCancelOwnOrder Action = "cancel_own_order"
	ActionAdvanceOrder   Action = "advance_order"
	ActionCancelAnyOrder Action = "cancel_any_order"
	ActionToggleMenuItem Action = "toggle_menu_item"
	ActionManageMenu     Action = "manage_menu"
	ActionManageUsers    Action = "manage_users"
	ActionViewReports    Action = "view_reports"
	ActionArchiveOrders  Action = "archive_orders"
	ActionViewAllOrders  Action = "view_all_orders"
	ActionClearCancelled Action = "clear_cancelled"
)

// Actor identifies who is performing an operation.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

// Can reports whether the actor may perform action on a resource owned by
// ownerID. For actions without an owned resource, pass ownerID 0.
func Can(actor Actor, ownerID uint, action Action) bool {
	switch action {
	case ActionPlaceOrder:
		return actor.Role == models.RoleStudent
	case ActionViewOrder:
		// Owners see their own orders; staff and managers see all.
		if actor.Role == models.RoleStaff || actor.Role == models.RoleManager {
			return true
		}
		return actor.UserID == ownerID
	case ActionEditOrder, ActionCancelOwnOrder:
		return actor.Role == models.RoleStudent && actor.UserID == ownerID
	case ActionAdvanceOrder, ActionCancelAnyOrder, ActionToggleMenuItem, ActionViewAllOrders:
		return actor.Role == models.RoleStaff || actor.Role == models.RoleManager
	case ActionManageMenu, ActionManageUsers, ActionViewReports, ActionArchiveOrders, ActionClearCancelled:
		return actor.Role == models.RoleManager
	}
	return false
}
