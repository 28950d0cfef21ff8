package services

import "errors"

var (
	// auth / users
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidRole        = errors.New("role must be staff or manager")
	ErrStudentHasOrders   = errors.New("cannot delete student with existing orders")

	// orders
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrder      = errors.New("order must have at least one item with quantity >= 1 and price >= 0")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOrderNotEditable  = errors.New("only pending orders can be edited")
	ErrForbidden         = errors.New("not allowed")

	// menu
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrMenuItemExists   = errors.New("menu item name already in use")
	ErrInvalidMenuItem  = errors.New("menu item must have a name and a price >= 0")

	// archive
	ErrOrderNotPicked  = errors.New("only picked orders can be archived")
	ErrAlreadyArchived = errors.New("order already archived")
	ErrInvalidDaysOld  = errors.New("daysOld must be 0 or greater")

	// reports
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
)

// ChangeSignaler is bumped after every successful mutation so polling
// clients know to refetch. A nil signaler disables signaling; a failed
// bump is logged by the caller and never fails the mutation.
type ChangeSignaler interface {
	BumpChangeToken(scope string) error
}
