package inventory

import (
	"time"

	inventoryerrors "go-hrops/internal/inventory/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Item struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU          string         `gorm:"column:sku;type:varchar(60);not null;uniqueIndex:uq_inventory_items_sku"`
	Name         string         `gorm:"type:varchar(255);not null"`
	Category     *string        `gorm:"type:varchar(100);index"`
	Quantity     int            `gorm:"not null;default:0;check:chk_inventory_quantity,quantity >= 0"`
	Unit         string         `gorm:"type:varchar(30);not null;default:'pcs'"`
	ReorderLevel int            `gorm:"not null;default:0"`
	Location     *string        `gorm:"type:varchar(120)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Item) TableName() string {
	return "inventory_items"
}

func (i Item) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

// Take removes qty units, refusing to go below zero.
func (i *Item) Take(qty int) error {
	if qty <= 0 {
		return inventoryerrors.ErrInvalidQuantity
	}
	if qty > i.Quantity {
		return inventoryerrors.ErrInsufficientStock
	}
	i.Quantity -= qty
	return nil
}

// Adjust applies a signed delta with the same non-negative guard.
func (i *Item) Adjust(delta int) error {
	if delta == 0 {
		return inventoryerrors.ErrInvalidDelta
	}
	if i.Quantity+delta < 0 {
		return inventoryerrors.ErrInsufficientStock
	}
	i.Quantity += delta
	return nil
}
