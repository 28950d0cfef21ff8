package services

import (
	"errors"
	"math"
	"testing"

	"campus-restaurant/internal/models"
	"campus-restaurant/internal/repository"

	"gorm.io/gorm"
)

func newOrderServiceForTest(t *testing.T) (OrderService, *orderFixture) {
	t.Helper()

	db := setupTestDB(t)
	f := &orderFixture{
		student: createTestUser(t, db, "student1", models.RoleStudent),
		other:   createTestUser(t, db, "student2", models.RoleStudent),
		staff:   createTestUser(t, db, "staff1", models.RoleStaff),
		manager: createTestUser(t, db, "manager1", models.RoleManager),
	}
	return NewOrderService(repository.NewOrderRepository(db), nil), f
}

type orderFixture struct {
	student *models.User
	other   *models.User
	staff   *models.User
	manager *models.User
}

func sampleItems() []models.OrderItem {
	return []models.OrderItem{
		{Name: "Burger", Quantity: 1, UnitPrice: 5.99},
		{Name: "Soda", Quantity: 2, UnitPrice: 1.50},
	}
}

func TestPlaceOrder(t *testing.T) {
	svc, f := newOrderServiceForTest(t)

	order, err := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "no onions")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if order.Status != models.OrderPending {
		t.Errorf("new order status = %s, want pending", order.Status)
	}
	if order.OrderNumber == "" {
		t.Error("new order has no order number")
	}
	if got, want := order.Total(), 8.99; math.Abs(got-want) > 1e-9 {
		t.Errorf("order total = %v, want %v", got, want)
	}
	if order.CancelledAt != nil || order.CanceledBy != "" {
		t.Error("new order has cancellation fields set")
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	student := actorFor(f.student)

	cases := []struct {
		name       string
		items      []models.OrderItem
		pickupTime string
	}{
		{"no items", nil, "12:30"},
		{"zero quantity", []models.OrderItem{{Name: "Burger", Quantity: 0, UnitPrice: 5.99}}, "12:30"},
		{"negative price", []models.OrderItem{{Name: "Burger", Quantity: 1, UnitPrice: -1}}, "12:30"},
		{"missing pickup time", sampleItems(), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.PlaceOrder(student, tc.items, tc.pickupTime, ""); !errors.Is(err, ErrInvalidOrder) {
				t.Errorf("PlaceOrder error = %v, want ErrInvalidOrder", err)
			}
		})
	}
}

// collidingOrderRepo rejects the first create as a duplicate key,
// standing in for an order number collision on the unique index.
type collidingOrderRepo struct {
	repository.OrderRepository
	collisions int
	attempts   []string
}

func (r *collidingOrderRepo) Create(order *models.Order) error {
	r.attempts = append(r.attempts, order.OrderNumber)
	if r.collisions > 0 {
		r.collisions--
		return gorm.ErrDuplicatedKey
	}
	return r.OrderRepository.Create(order)
}

func TestPlaceOrderRetriesOnNumberCollision(t *testing.T) {
	db := setupTestDB(t)
	student := createTestUser(t, db, "student1", models.RoleStudent)
	repo := &collidingOrderRepo{OrderRepository: repository.NewOrderRepository(db), collisions: 1}
	svc := NewOrderService(repo, nil)

	order, err := svc.PlaceOrder(actorFor(student), sampleItems(), "12:30", "")
	if err != nil {
		t.Fatalf("PlaceOrder after collision: %v", err)
	}

	if len(repo.attempts) != 2 || repo.attempts[0] == repo.attempts[1] {
		t.Errorf("create attempts = %v, want two distinct order numbers", repo.attempts)
	}
	if order.OrderNumber != repo.attempts[1] {
		t.Errorf("order number = %s, want the retried %s", order.OrderNumber, repo.attempts[1])
	}
}

func TestPlaceOrderRequiresStudent(t *testing.T) {
	svc, f := newOrderServiceForTest(t)

	if _, err := svc.PlaceOrder(actorFor(f.staff), sampleItems(), "12:30", ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("staff PlaceOrder error = %v, want ErrForbidden", err)
	}
}

func TestAdvanceStatusChain(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	staff := actorFor(f.staff)

	order, err := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "")
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	for _, next := range []models.OrderStatus{models.OrderPreparing, models.OrderReady, models.OrderPicked} {
		updated, err := svc.AdvanceStatus(staff, order.ID, next)
		if err != nil {
			t.Fatalf("AdvanceStatus to %s: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("status = %s, want %s", updated.Status, next)
		}
	}

	// picked is terminal
	if _, err := svc.AdvanceStatus(staff, order.ID, models.OrderPicked); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("advance out of picked error = %v, want ErrInvalidTransition", err)
	}
}

func TestAdvanceStatusRejectsSkips(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	staff := actorFor(f.staff)

	order, _ := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "")

	for _, next := range []models.OrderStatus{models.OrderReady, models.OrderPicked, models.OrderPending} {
		if _, err := svc.AdvanceStatus(staff, order.ID, next); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("pending -> %s error = %v, want ErrInvalidTransition", next, err)
		}
	}

	if _, err := svc.AdvanceStatus(staff, order.ID, "shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown status error = %v, want ErrInvalidStatus", err)
	}

	// cancellation is not an advance
	if _, err := svc.AdvanceStatus(staff, order.ID, models.OrderCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("advance to cancelled error = %v, want ErrInvalidTransition", err)
	}
}

func TestAdvanceStatusAuthorization(t *testing.T) {
	svc, f := newOrderServiceForTest(t)

	order, _ := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "")

	if _, err := svc.AdvanceStatus(actorFor(f.student), order.ID, models.OrderPreparing); !errors.Is(err, ErrForbidden) {
		t.Errorf("student AdvanceStatus error = %v, want ErrForbidden", err)
	}
	if _, err := svc.AdvanceStatus(actorFor(f.manager), order.ID, models.OrderPreparing); err != nil {
		t.Errorf("manager AdvanceStatus: %v", err)
	}
}

func TestAdvanceStatusUnknownOrder(t *testing.T) {
	svc, f := newOrderServiceForTest(t)

	if _, err := svc.AdvanceStatus(actorFor(f.staff), 9999, models.OrderPreparing); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("unknown order error = %v, want ErrOrderNotFound", err)
	}
}

func TestStudentCancelOwnPendingOrder(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	student := actorFor(f.student)

	order, _ := svc.PlaceOrder(student, sampleItems(), "12:30", "")

	cancelled, err := svc.Cancel(student, order.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != models.OrderCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Error("CancelledAt not set on cancelled order")
	}
	if cancelled.CanceledBy != string(models.RoleStudent) {
		t.Errorf("CanceledBy = %q, want student", cancelled.CanceledBy)
	}

	// terminal: no second cancellation
	if _, err := svc.Cancel(student, order.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double cancel error = %v, want ErrInvalidTransition", err)
	}
}

func TestStudentCannotCancelNonPending(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	student := actorFor(f.student)

	order, _ := svc.PlaceOrder(student, sampleItems(), "12:30", "")
	if _, err := svc.AdvanceStatus(actorFor(f.staff), order.ID, models.OrderPreparing); err != nil {
		t.Fatalf("AdvanceStatus: %v", err)
	}

	if _, err := svc.Cancel(student, order.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel preparing order error = %v, want ErrInvalidTransition", err)
	}
}

func TestStudentCannotCancelOthersOrder(t *testing.T) {
	svc, f := newOrderServiceForTest(t)

	order, _ := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "")

	if _, err := svc.Cancel(actorFor(f.other), order.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner cancel error = %v, want ErrForbidden", err)
	}
}

func TestStaffCancelActiveOrder(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	staff := actorFor(f.staff)

	order, _ := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "")
	svc.AdvanceStatus(staff, order.ID, models.OrderPreparing)
	svc.AdvanceStatus(staff, order.ID, models.OrderReady)

	cancelled, err := svc.Cancel(staff, order.ID)
	if err != nil {
		t.Fatalf("staff Cancel: %v", err)
	}
	if cancelled.CanceledBy != string(models.RoleStaff) {
		t.Errorf("CanceledBy = %q, want staff", cancelled.CanceledBy)
	}
}

func TestStaffCannotCancelPickedOrder(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	staff := actorFor(f.staff)

	order, _ := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "")
	svc.AdvanceStatus(staff, order.ID, models.OrderPreparing)
	svc.AdvanceStatus(staff, order.ID, models.OrderReady)
	svc.AdvanceStatus(staff, order.ID, models.OrderPicked)

	if _, err := svc.Cancel(staff, order.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel picked order error = %v, want ErrInvalidTransition", err)
	}
}

func TestEditOrderWhilePending(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	student := actorFor(f.student)

	order, _ := svc.PlaceOrder(student, sampleItems(), "12:30", "")

	pickup := "13:00"
	notes := "extra ketchup"
	updated, err := svc.EditOrder(student, order.ID, OrderUpdate{
		Items:               []models.OrderItem{{Name: "Pizza", Quantity: 2, UnitPrice: 10}},
		PickupTime:          &pickup,
		SpecialInstructions: &notes,
	})
	if err != nil {
		t.Fatalf("EditOrder: %v", err)
	}

	if updated.Status != models.OrderPending {
		t.Errorf("edit changed status to %s", updated.Status)
	}
	if updated.PickupTime != "13:00" || updated.SpecialInstructions != "extra ketchup" {
		t.Errorf("edit did not apply: %+v", updated)
	}
	if len(updated.Items) != 1 || updated.Items[0].Name != "Pizza" {
		t.Errorf("items not replaced: %+v", updated.Items)
	}
	if got, want := updated.Total(), 20.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("total after edit = %v, want %v", got, want)
	}
}

func TestEditOrderRejectedOutsidePending(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	student := actorFor(f.student)
	staff := actorFor(f.staff)

	order, _ := svc.PlaceOrder(student, sampleItems(), "12:30", "")
	svc.AdvanceStatus(staff, order.ID, models.OrderPreparing)

	pickup := "13:00"
	if _, err := svc.EditOrder(student, order.ID, OrderUpdate{PickupTime: &pickup}); !errors.Is(err, ErrOrderNotEditable) {
		t.Errorf("edit preparing order error = %v, want ErrOrderNotEditable", err)
	}
}

func TestEditOrderOwnerOnly(t *testing.T) {
	svc, f := newOrderServiceForTest(t)

	order, _ := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "")

	pickup := "13:00"
	if _, err := svc.EditOrder(actorFor(f.other), order.ID, OrderUpdate{PickupTime: &pickup}); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner edit error = %v, want ErrForbidden", err)
	}
	if _, err := svc.EditOrder(actorFor(f.staff), order.ID, OrderUpdate{PickupTime: &pickup}); !errors.Is(err, ErrForbidden) {
		t.Errorf("staff edit error = %v, want ErrForbidden", err)
	}
}

func TestCurrentAndHistoryViews(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	student := actorFor(f.student)
	staff := actorFor(f.staff)

	active, _ := svc.PlaceOrder(student, sampleItems(), "12:30", "")
	done, _ := svc.PlaceOrder(student, sampleItems(), "12:45", "")
	svc.AdvanceStatus(staff, done.ID, models.OrderPreparing)
	svc.AdvanceStatus(staff, done.ID, models.OrderReady)
	svc.AdvanceStatus(staff, done.ID, models.OrderPicked)

	// other student's order must not leak into the views
	svc.PlaceOrder(actorFor(f.other), sampleItems(), "12:50", "")

	current, err := svc.CurrentOrders(student)
	if err != nil {
		t.Fatalf("CurrentOrders: %v", err)
	}
	if len(current) != 1 || current[0].ID != active.ID {
		t.Errorf("current orders = %+v, want only the active order", current)
	}

	history, err := svc.OrderHistory(student)
	if err != nil {
		t.Fatalf("OrderHistory: %v", err)
	}
	if len(history) != 1 || history[0].ID != done.ID {
		t.Errorf("history = %+v, want only the picked order", history)
	}
}

func TestGetOrderVisibility(t *testing.T) {
	svc, f := newOrderServiceForTest(t)

	order, _ := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "")

	if _, err := svc.GetOrder(actorFor(f.student), order.ID); err != nil {
		t.Errorf("owner GetOrder: %v", err)
	}
	if _, err := svc.GetOrder(actorFor(f.staff), order.ID); err != nil {
		t.Errorf("staff GetOrder: %v", err)
	}
	if _, err := svc.GetOrder(actorFor(f.other), order.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner GetOrder error = %v, want ErrForbidden", err)
	}
}

func TestClearCancelled(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	student := actorFor(f.student)
	manager := actorFor(f.manager)

	first, _ := svc.PlaceOrder(student, sampleItems(), "12:30", "")
	svc.Cancel(student, first.ID)
	second, _ := svc.PlaceOrder(student, sampleItems(), "12:45", "")
	svc.Cancel(student, second.ID)
	kept, _ := svc.PlaceOrder(student, sampleItems(), "13:00", "")

	deleted, err := svc.ClearCancelled(manager)
	if err != nil {
		t.Fatalf("ClearCancelled: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, _ := svc.AllOrders(manager, "")
	if len(remaining) != 1 || remaining[0].ID != kept.ID {
		t.Errorf("remaining orders = %+v, want only the pending one", remaining)
	}

	if _, err := svc.ClearCancelled(actorFor(f.staff)); !errors.Is(err, ErrForbidden) {
		t.Errorf("staff ClearCancelled error = %v, want ErrForbidden", err)
	}
}

func TestAllOrdersStatusFilter(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	student := actorFor(f.student)
	staff := actorFor(f.staff)

	svc.PlaceOrder(student, sampleItems(), "12:30", "")
	prepping, _ := svc.PlaceOrder(student, sampleItems(), "12:45", "")
	svc.AdvanceStatus(staff, prepping.ID, models.OrderPreparing)

	pending, err := svc.AllOrders(staff, models.OrderPending)
	if err != nil {
		t.Fatalf("AllOrders: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending orders = %d, want 1", len(pending))
	}

	if _, err := svc.AllOrders(staff, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bogus filter error = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.AllOrders(student, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("student AllOrders error = %v, want ErrForbidden", err)
	}
}

func TestCancellationFieldsOnlyOnCancelled(t *testing.T) {
	svc, f := newOrderServiceForTest(t)
	staff := actorFor(f.staff)

	order, _ := svc.PlaceOrder(actorFor(f.student), sampleItems(), "12:30", "")
	for _, next := range []models.OrderStatus{models.OrderPreparing, models.OrderReady, models.OrderPicked} {
		updated, err := svc.AdvanceStatus(staff, order.ID, next)
		if err != nil {
			t.Fatalf("AdvanceStatus: %v", err)
		}
		if updated.CancelledAt != nil || updated.CanceledBy != "" {
			t.Errorf("status %s has cancellation fields set", next)
		}
	}
}
