package cart

import (
	"fmt"
	"sync"

	"datamart-service/internal/models"
)

// Cart holds at most one line per catalog entry, in the order entries were
// first added. Mutations come from the storefront and from the post-delivery
// sweep; each runs to completion under the lock.
type Cart struct {
	mu    sync.Mutex
	lines []models.CartLine
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// Add puts an entry in the cart with quantity 1, or bumps the quantity if a
// line for it already exists
func (c *Cart) Add(entry models.CatalogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == entry.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, models.CartLine{CatalogEntry: entry, Quantity: 1})
}

// SetQuantity replaces the quantity of an existing line. Quantities below 1
// are rejected; Remove is the way to drop a line.
func (c *Cart) SetQuantity(id string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("no cart line for entry: %s", id)
}

// Remove drops the line for the given entry, if present
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Sweep removes every line whose entry id is in ids. Used by the
// post-delivery auto-clear, which operates on the ids captured at
// settlement, not on whatever the cart holds at clear time.
func (c *Cart) Sweep(ids map[string]struct{}) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	removed := 0
	for _, line := range c.lines {
		if _, ok := ids[line.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	c.lines = kept
	return removed
}

// Lines returns a snapshot of the cart lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count returns the total requested quantity across all lines
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// Len returns the number of lines in the cart
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
