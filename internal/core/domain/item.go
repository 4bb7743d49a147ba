package domain

import "time"

type Item struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Quantity  uint32  `json:"quantity"`
	Price     float64 `json:"price"`
	CreatedAt uint64  `json:"created_at"`
	UpdatedAt *uint64 `json:"updated_at"` // nil until the first update
}

// Payload carries the caller-supplied fields for create and update.
type Payload struct {
	Name     string  `json:"name"`
	Quantity uint32  `json:"quantity"`
	Price    float64 `json:"price"`
}

// NewItem builds a never-updated item from a payload.
func NewItem(id uint64, p Payload, now uint64) Item {
	return Item{
		ID:        id,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		CreatedAt: now,
	}
}

// Apply overwrites the mutable fields and stamps UpdatedAt, never earlier than CreatedAt.
func (i Item) Apply(p Payload, now uint64) Item {
	if now < i.CreatedAt {
		now = i.CreatedAt
	}
	i.Name = p.Name
	i.Quantity = p.Quantity
	i.Price = p.Price
	i.UpdatedAt = &now
	return i
}

// Clone returns a copy that shares no memory with i.
func (i Item) Clone() Item {
	if i.UpdatedAt != nil {
		t := *i.UpdatedAt
		i.UpdatedAt = &t
	}
	return i
}

// Now returns the current time in nanoseconds since the Unix epoch.
func Now() uint64 {
	return uint64(time.Now().UnixNano())
}
