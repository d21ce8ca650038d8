package client

import (
	"sync"

	"github.com/hazirlageldim/pickup-app/models"
)

// CartLine is one product with its quantity.
type CartLine struct {
	Product  models.Product
	Quantity int
}

// Cart is bound to a single business: the first Add pins the business, and
// lines from another business are refused until Clear.
type Cart struct {
	mu         sync.Mutex
	businessID string
	lines      []CartLine
	index      map[string]int // product id -> position in lines
}

func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add puts qty units of p in the cart, merging into an existing line.
func (c *Cart) Add(p models.Product, qty int) error {
	if qty <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.businessID != "" && c.businessID != p.BusinessID {
		return ErrCartBusinessMismatch
	}
	c.businessID = p.BusinessID

	if i, ok := c.index[p.ID]; ok {
		c.lines[i].Quantity += qty
		return nil
	}
	c.index[p.ID] = len(c.lines)
	c.lines = append(c.lines, CartLine{Product: p, Quantity: qty})
	return nil
}

// SetQuantity pins the line to qty; qty <= 0 removes it.
func (c *Cart) SetQuantity(productID string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[productID]
	if !ok {
		return
	}
	if qty <= 0 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity = qty
}

// Decrement takes one unit off the line, removing it at zero.
func (c *Cart) Decrement(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[productID]
	if !ok {
		return
	}
	if c.lines[i].Quantity <= 1 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity--
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.index[productID]; ok {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	delete(c.index, c.lines[i].Product.ID)
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].Product.ID] = j
	}
	if len(c.lines) == 0 {
		c.businessID = ""
	}
}

func (c *Cart) Quantity(productID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.index[productID]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Count is the total number of units across lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Empty() bool { return c.Len() == 0 }

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, l := range c.lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return total
}

func (c *Cart) BusinessID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.businessID
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Items snapshots the cart as order item rows, prices frozen at add time.
func (c *Cart) Items() []models.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.OrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, models.OrderItem{
			ProductID:   l.Product.ID,
			Quantity:    l.Quantity,
			Price:       l.Product.Price,
			ProductName: l.Product.Name,
		})
	}
	return out
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.businessID = ""
	c.lines = nil
	c.index = make(map[string]int)
}
