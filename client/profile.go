package client

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hazirlageldim/pickup-app/models"
)

var validate = validator.New()

const dashboardInterval = 30 * time.Second

// BusinessForm is the editable profile. Times are "HH:MM"; empty means no
// bound on that side.
type BusinessForm struct {
	Name           string   `validate:"required"`
	Description    string   `validate:"max=500"`
	Address        string   `validate:"required"`
	Latitude       float64  `validate:"gte=-90,lte=90"`
	Longitude      float64  `validate:"gte=-180,lte=180"`
	Phone          string   `validate:"max=20"`
	PaymentMethods []string `validate:"dive,oneof=cash card"`
	OpeningTime    string   `validate:"omitempty,datetime=15:04"`
	ClosingTime    string   `validate:"omitempty,datetime=15:04"`
}

// TodayStats is the dashboard header for the current day.
type TodayStats struct {
	OrderCount   int
	PendingCount int
	Revenue      float64 // sum over non-cancelled orders
}

// BusinessProfile loads and saves the owner's business and keeps the
// dashboard stats fresh.
type BusinessProfile struct {
	gw      Gateway
	session *Session

	dashboard *Poller

	mu       sync.Mutex
	business *models.Business
	stats    TodayStats
}

func NewBusinessProfile(gw Gateway, session *Session) *BusinessProfile {
	p := &BusinessProfile{gw: gw, session: session}
	p.dashboard = NewPoller(dashboardInterval, p.refreshStats)
	return p
}

// Load fetches the business owned by the signed-in user. ErrNoBusiness
// means the owner has not created one yet.
func (p *BusinessProfile) Load(ctx context.Context) error {
	userID := p.session.UserID()
	if userID == "" {
		return ErrNotSignedIn
	}

	var business models.Business
	found, err := p.gw.ReadOne(ctx, "businesses", Filters{"owner_id": Eq(userID)}, &business)
	if err != nil {
		return err
	}
	if !found {
		p.mu.Lock()
		p.business = nil
		p.mu.Unlock()
		return ErrNoBusiness
	}

	p.mu.Lock()
	p.business = &business
	p.mu.Unlock()
	return nil
}

// Current returns the loaded business, false when none exists.
func (p *BusinessProfile) Current() (models.Business, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.business == nil {
		return models.Business{}, false
	}
	return *p.business, true
}

// Save validates locally first, so a bad coordinate or clock never reaches
// the backend, then creates or patches the row.
func (p *BusinessProfile) Save(ctx context.Context, form BusinessForm) (models.Business, error) {
	if err := validate.Struct(form); err != nil {
		return models.Business{}, err
	}

	opening := models.NormalizeClock(form.OpeningTime)
	closing := models.NormalizeClock(form.ClosingTime)

	var clockPtr = func(s string) interface{} {
		if s == "" {
			return nil
		}
		return s
	}

	p.mu.Lock()
	existing := p.business
	p.mu.Unlock()

	var business models.Business
	if existing != nil {
		patch := map[string]interface{}{
			"name":            form.Name,
			"description":     form.Description,
			"address":         form.Address,
			"latitude":        form.Latitude,
			"longitude":       form.Longitude,
			"phone":           form.Phone,
			"payment_methods": form.PaymentMethods,
			"opening_time":    clockPtr(opening),
			"closing_time":    clockPtr(closing),
		}
		if err := p.gw.Update(ctx, "businesses", existing.ID, patch, &business); err != nil {
			return models.Business{}, err
		}
	} else {
		row := map[string]interface{}{
			"owner_id":        p.session.UserID(),
			"name":            form.Name,
			"description":     form.Description,
			"address":         form.Address,
			"latitude":        form.Latitude,
			"longitude":       form.Longitude,
			"phone":           form.Phone,
			"payment_methods": form.PaymentMethods,
			"opening_time":    clockPtr(opening),
			"closing_time":    clockPtr(closing),
		}
		if err := p.gw.Insert(ctx, "businesses", row, &business); err != nil {
			return models.Business{}, err
		}
	}

	p.mu.Lock()
	p.business = &business
	p.mu.Unlock()
	return business, nil
}

func (p *BusinessProfile) refreshStats(ctx context.Context) error {
	p.mu.Lock()
	business := p.business
	p.mu.Unlock()
	if business == nil {
		return nil
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var orders []models.Order
	filters := Filters{
		"business_id": Eq(business.ID),
		"created_at":  Gte(dayStart.Format(time.RFC3339)),
	}
	if err := p.gw.ReadFiltered(ctx, "orders", filters, ReadOpts{}, &orders); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	var stats TodayStats
	for _, o := range orders {
		if !o.CreatedAt.Before(dayEnd) {
			continue
		}
		stats.OrderCount++
		if o.Status == models.StatusPending {
			stats.PendingCount++
		}
		if o.Status != models.StatusCancelled {
			stats.Revenue += o.TotalAmount
		}
	}

	p.mu.Lock()
	p.stats = stats
	p.mu.Unlock()
	return nil
}

// RefreshStats forces one synchronous stats fetch.
func (p *BusinessProfile) RefreshStats(ctx context.Context) error {
	return p.refreshStats(ctx)
}

func (p *BusinessProfile) Stats() TodayStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *BusinessProfile) StartDashboard(ctx context.Context) { p.dashboard.Start(ctx) }
func (p *BusinessProfile) StopDashboard()                     { p.dashboard.Stop() }
