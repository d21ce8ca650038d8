package client

import (
	"context"
	"sync"
	"time"

	"github.com/hazirlageldim/pickup-app/models"
)

const (
	customerFeedInterval = 30 * time.Second
	businessFeedInterval = 10 * time.Second
)

// FeedNotice announces a change worth surfacing: a brand new order on the
// business side, a status change on the customer side.
type FeedNotice struct {
	Order models.Order
	New   bool // true for a first sighting, false for a status change
}

// OrdersFeed keeps a polled list of orders for one side of the app.
type OrdersFeed struct {
	gw      Gateway
	session *Session
	filters func() Filters

	poller *Poller

	mu     sync.Mutex
	orders []models.Order
	known  map[string]models.OrderStatus
	primed bool

	notices chan FeedNotice
}

// NewCustomerFeed follows the signed-in customer's orders, newest first.
func NewCustomerFeed(gw Gateway, session *Session) *OrdersFeed {
	f := newFeed(gw, session, customerFeedInterval)
	f.filters = func() Filters {
		return Filters{"customer_id": Eq(session.UserID())}
	}
	return f
}

// NewBusinessFeed follows the incoming orders of one business.
func NewBusinessFeed(gw Gateway, session *Session, businessID string) *OrdersFeed {
	f := newFeed(gw, session, businessFeedInterval)
	f.filters = func() Filters {
		return Filters{"business_id": Eq(businessID)}
	}
	return f
}

func newFeed(gw Gateway, session *Session, interval time.Duration) *OrdersFeed {
	f := &OrdersFeed{
		gw:      gw,
		session: session,
		known:   make(map[string]models.OrderStatus),
		notices: make(chan FeedNotice, 16),
	}
	f.poller = NewPoller(interval, f.refresh)
	return f
}

func (f *OrdersFeed) Start(ctx context.Context) { f.poller.Start(ctx) }
func (f *OrdersFeed) Stop()                     { f.poller.Stop() }

// Reload asks for an immediate refetch, used on pull-to-refresh.
func (f *OrdersFeed) Reload() { f.poller.Refresh() }

func (f *OrdersFeed) refresh(ctx context.Context) error {
	var orders []models.Order
	opts := ReadOpts{Order: "created_at.desc"}
	if err := f.gw.ReadFiltered(ctx, "orders", f.filters(), opts, &orders); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	f.mu.Lock()
	var pending []FeedNotice
	for _, o := range orders {
		prev, seen := f.known[o.ID]
		switch {
		case !seen && f.primed:
			pending = append(pending, FeedNotice{Order: o, New: true})
		case seen && prev != o.Status:
			pending = append(pending, FeedNotice{Order: o})
		}
		f.known[o.ID] = o.Status
	}
	f.orders = orders
	f.primed = true
	f.mu.Unlock()

	for _, n := range pending {
		select {
		case f.notices <- n:
		default:
		}
	}
	return nil
}

// FollowChanges layers push on top of the poll: every change event triggers
// an immediate refetch, so the interval only matters when the socket drops.
func (f *OrdersFeed) FollowChanges(ctx context.Context, events <-chan ChangeEvent) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				f.poller.Refresh()
			}
		}
	}()
}

// Notices delivers new-order and status-change events. The first fetch only
// primes the feed and emits nothing.
func (f *OrdersFeed) Notices() <-chan FeedNotice { return f.notices }

// Orders returns a copy of the snapshot, newest first.
func (f *OrdersFeed) Orders() []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Order, len(f.orders))
	copy(out, f.orders)
	return out
}

// ActiveCount is the badge number: orders not yet completed or cancelled.
func (f *OrdersFeed) ActiveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, o := range f.orders {
		if !o.Status.Terminal() {
			n++
		}
	}
	return n
}
