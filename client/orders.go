package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hazirlageldim/pickup-app/models"
)

// PickupChoices are the offered "ready in N minutes" options.
var PickupChoices = []int{15, 30, 45, 60, 90, 120}

var (
	ErrBadPickupChoice   = errors.New("client: pickup time must be one of the offered choices")
	ErrPaymentNotOffered = errors.New("client: business does not accept this payment method")
	ErrNoCustomerName    = errors.New("client: customer name is required")
)

// OrderService drives placement and the status lifecycle.
type OrderService struct {
	gw      Gateway
	session *Session
}

func NewOrderService(gw Gateway, session *Session) *OrderService {
	return &OrderService{gw: gw, session: session}
}

// PlaceRequest is everything checkout collects. CustomerName is captured
// per order and defaults to the profile name; later profile edits never
// touch old orders.
type PlaceRequest struct {
	Business       models.Business
	Cart           *Cart
	Notes          string
	PickupAfterMin int
	PaymentMethod  string
	CustomerName   string
}

// Place validates checkout and writes the order in two steps: the order row
// first, then its item rows. When the second step fails the caller gets an
// OrphanOrderError carrying the already-written order id.
func (s *OrderService) Place(ctx context.Context, req PlaceRequest) (models.Order, error) {
	user, ok := s.session.Current()
	if !ok {
		return models.Order{}, ErrNotSignedIn
	}
	if req.Cart == nil || req.Cart.Empty() {
		return models.Order{}, ErrEmptyCart
	}
	if req.Cart.BusinessID() != req.Business.ID {
		return models.Order{}, ErrCartBusinessMismatch
	}

	valid := false
	for _, m := range PickupChoices {
		if m == req.PickupAfterMin {
			valid = true
			break
		}
	}
	if !valid {
		return models.Order{}, ErrBadPickupChoice
	}

	if req.PaymentMethod != "" && len(req.Business.PaymentMethods) > 0 &&
		!req.Business.PaymentMethods.Contains(req.PaymentMethod) {
		return models.Order{}, ErrPaymentNotOffered
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = strings.TrimSpace(user.FullName)
	}
	if name == "" {
		return models.Order{}, ErrNoCustomerName
	}

	if !req.Business.Open() {
		return models.Order{}, ErrBusinessClosed
	}

	notes := req.Notes
	if req.PaymentMethod != "" {
		if notes != "" {
			notes += " | "
		}
		notes += "Ödeme: " + req.PaymentMethod
	}

	pickup := time.Now().Add(time.Duration(req.PickupAfterMin) * time.Minute)

	row := map[string]interface{}{
		"customer_id":   user.ID,
		"business_id":   req.Business.ID,
		"total_amount":  req.Cart.Total(),
		"notes":         notes,
		"pickup_time":   pickup,
		"customer_name": name,
	}

	var order models.Order
	if err := s.gw.Insert(ctx, "orders", row, &order); err != nil {
		return models.Order{}, err
	}

	items := req.Cart.Items()
	for i := range items {
		items[i].OrderID = order.ID
	}
	var created []models.OrderItem
	if err := s.gw.InsertMany(ctx, "order_items", items, &created); err != nil {
		return models.Order{}, &OrphanOrderError{OrderID: order.ID, Err: err}
	}
	order.Items = created

	req.Cart.Clear()
	return order, nil
}

// Get refetches a single order with items.
func (s *OrderService) Get(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	found, err := s.gw.ReadOne(ctx, "orders", Filters{"id": Eq(orderID)}, &order)
	if err != nil {
		return models.Order{}, err
	}
	if !found {
		return models.Order{}, fmt.Errorf("order %s not found", orderID)
	}
	return order, nil
}

// Advance moves the order to the next status in the chain. The current
// status is refetched first so a stale screen cannot skip a stage.
func (s *OrderService) Advance(ctx context.Context, orderID string) (models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	next, ok := order.Status.Next()
	if !ok {
		return models.Order{}, models.ErrTerminalStatus
	}

	var updated models.Order
	patch := map[string]interface{}{"status": string(next)}
	if err := s.gw.Update(ctx, "orders", order.ID, patch, &updated); err != nil {
		return models.Order{}, err
	}
	return updated, nil
}

// CancelIntent is the confirm step of cancellation: nothing is written
// until Confirm.
type CancelIntent struct {
	svc     *OrderService
	OrderID string
}

// BeginCancel checks the order is still cancellable and hands back an
// intent for the confirmation dialog.
func (s *OrderService) BeginCancel(order models.Order) (*CancelIntent, error) {
	if !order.Status.CanCancel() {
		return nil, models.ErrTerminalStatus
	}
	return &CancelIntent{svc: s, OrderID: order.ID}, nil
}

func (ci *CancelIntent) Confirm(ctx context.Context) (models.Order, error) {
	var updated models.Order
	patch := map[string]interface{}{"status": string(models.StatusCancelled)}
	if err := ci.svc.gw.Update(ctx, "orders", ci.OrderID, patch, &updated); err != nil {
		return models.Order{}, err
	}
	return updated, nil
}

// Abort drops the intent; provided for symmetry with Confirm.
func (ci *CancelIntent) Abort() {}
