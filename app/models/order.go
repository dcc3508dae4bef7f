package models

import (
	"time"

	"gorm.io/gorm"
)

// Order and service-order statuses.
const (
	StatusPending     = "PENDING"
	StatusDispatched  = "DISPATCHED"
	StatusBeingServed = "BEING_SERVED"
	StatusDelivered   = "DELIVERED"
	StatusCancelled   = "CANCELLED"
)

// statusRank orders the happy path. CANCELLED is terminal but sits
// outside the progression, so it gets no rank here.
var statusRank = map[string]int{
	StatusPending:     0,
	StatusDispatched:  1,
	StatusBeingServed: 1,
	StatusDelivered:   2,
}

// transitions is the allowed next-status table. Anything absent is
// rejected, so status can never regress and terminal states absorb.
var transitions = map[string]map[string]bool{
	StatusPending: {
		StatusDispatched:  true,
		StatusBeingServed: true,
		StatusCancelled:   true,
	},
	StatusDispatched: {
		StatusDelivered: true,
		StatusCancelled: true,
	},
	StatusBeingServed: {
		StatusDelivered: true,
		StatusCancelled: true,
	},
}

// CanTransition reports whether an order may move from one status to the
// next.
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

// itemPackNext is the shipping path an item pack may walk through the
// status endpoint. BEING_SERVED belongs to service orders, and
// cancellation has its own operation so the popularity tally and
// notifications fire exactly once.
var itemPackNext = map[string]string{
	StatusPending:    StatusDispatched,
	StatusDispatched: StatusDelivered,
}

// CanTransitionItemPack reports whether an item pack may move from one
// status to the next along the shipping path.
func CanTransitionItemPack(from, to string) bool {
	return to != "" && itemPackNext[from] == to
}

// TerminalStatus reports whether status accepts no further transitions.
func TerminalStatus(status string) bool {
	return len(transitions[status]) == 0
}

// ItemOrder is the parent order a user placed; its packs carry the
// per-shopkeeper slices. Price is fixed at placement and never
// recomputed.
type ItemOrder struct {
	gorm.Model
	UserID     uint      `gorm:"not null;index" json:"userId"`
	PlacedDate time.Time `gorm:"not null"       json:"placedDate"`
	Price      float64   `gorm:"not null"       json:"price"`

	Packs []OrderItemPack `gorm:"foreignKey:OrderID" json:"orderItemPacks,omitempty"`
}

// OrderItemPack is the slice of an order belonging to one shopkeeper.
// Status moves independently per pack; Version guards concurrent
// transitions.
type OrderItemPack struct {
	gorm.Model
	OrderID       uint       `gorm:"not null;index" json:"orderId"`
	ShopkeeperID  uint       `gorm:"not null;index" json:"shopkeeperId"`
	ItemID        uint       `gorm:"not null;index" json:"itemId"`
	Count         int        `gorm:"not null"       json:"count"`
	Price         float64    `gorm:"not null"       json:"price"`
	Status        string     `gorm:"size:20;not null;default:PENDING" json:"status"`
	DeliveredDate *time.Time `json:"deliveredDate"`
	Version       int64      `gorm:"not null;default:0" json:"-"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// AggregateStatus derives the status of a whole order from its packs:
// the least-advanced non-cancelled pack wins, and the order is CANCELLED
// only when every pack is.
func AggregateStatus(packs []OrderItemPack) string {
	if len(packs) == 0 {
		return StatusCancelled
	}

	best := ""
	bestRank := int(^uint(0) >> 1)
	for _, p := range packs {
		if p.Status == StatusCancelled {
			continue
		}
		if r := statusRank[p.Status]; best == "" || r < bestRank {
			best, bestRank = p.Status, r
		}
	}
	if best == "" {
		return StatusCancelled
	}
	return best
}
