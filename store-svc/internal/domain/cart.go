package domain

import "sort"

// Cart is keyed by menu item id. Every mutation drops the applied coupon
// because the subtotal it was priced against no longer holds.
type Cart struct {
	UserID string              `json:"user_id"`
	Lines  map[string]CartLine `json:"lines"`
	Coupon *AppliedCoupon      `json:"coupon,omitempty"`
}

func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Lines: map[string]CartLine{}}
}

func (c *Cart) Add(item MenuItem, qty int) {
	if qty <= 0 {
		return
	}
	if c.Lines == nil {
		c.Lines = map[string]CartLine{}
	}
	line, ok := c.Lines[item.ID]
	if !ok {
		line = CartLine{Item: item}
	}
	line.Quantity += qty
	c.Lines[item.ID] = line
	c.Coupon = nil
}

// SetQuantity removes the line when qty drops to zero or below.
func (c *Cart) SetQuantity(itemID string, qty int) bool {
	line, ok := c.Lines[itemID]
	if !ok {
		return false
	}
	if qty <= 0 {
		delete(c.Lines, itemID)
	} else {
		line.Quantity = qty
		c.Lines[itemID] = line
	}
	c.Coupon = nil
	return true
}

func (c *Cart) Remove(itemID string) bool {
	if _, ok := c.Lines[itemID]; !ok {
		return false
	}
	delete(c.Lines, itemID)
	c.Coupon = nil
	return true
}

func (c *Cart) Clear() {
	c.Lines = map[string]CartLine{}
	c.Coupon = nil
}

func (c *Cart) ApplyCoupon(coupon AppliedCoupon) {
	c.Coupon = &coupon
}

func (c *Cart) RemoveCoupon() {
	c.Coupon = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// SortedLines returns the lines ordered by item id so snapshots are stable.
func (c *Cart) SortedLines() []CartLine {
	lines := make([]CartLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Item.ID < lines[j].Item.ID })
	return lines
}
