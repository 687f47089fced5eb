// Package cart models the client-held cart: a serializable value object with
// pure merge and derive operations. Persistence is a side effect behind the
// Store interface and is strictly best-effort; the in-memory state stays
// authoritative for the session.
package cart

type Item struct {
	ProductID  string            `json:"product_id"`
	VendorID   string            `json:"vendor_id"`
	VariantID  string            `json:"variant_id,omitempty"`
	Name       string            `json:"name"`
	UnitAmount int64             `json:"unit_amount"` // minor units
	Quantity   int64             `json:"quantity"`
	Options    map[string]string `json:"options,omitempty"`
}

type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add merges by (product id, variant id), summing quantities. An add with a
// non-positive quantity is ignored so the positive-quantity invariant holds.
func (c *Cart) Add(item Item) {
	if item.Quantity <= 0 {
		return
	}
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID && c.items[i].VariantID == item.VariantID {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// SetQuantity sets the line's quantity; n <= 0 removes the line.
func (c *Cart) SetQuantity(productID, variantID string, n int64) {
	if n <= 0 {
		c.Remove(productID, variantID)
		return
	}
	for i := range c.items {
		if c.items[i].ProductID == productID && c.items[i].VariantID == variantID {
			c.items[i].Quantity = n
			return
		}
	}
}

func (c *Cart) Remove(productID, variantID string) {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ProductID == productID && it.VariantID == variantID {
			continue
		}
		kept = append(kept, it)
	}
	c.items = kept
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Subtotal is derived from the current lines on every call, never cached.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, it := range c.items {
		sum += it.UnitAmount * it.Quantity
	}
	return sum
}

func (c *Cart) ItemCount() int64 {
	var n int64
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}
