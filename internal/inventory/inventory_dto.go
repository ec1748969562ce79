package inventory

type CreateItemRequest struct {
	SKU          string  `json:"sku" binding:"required,max=60"`
	Name         string  `json:"name" binding:"required,max=255"`
	Category     *string `json:"category" binding:"omitempty,max=100"`
	Quantity     int     `json:"quantity" binding:"min=0"`
	Unit         string  `json:"unit" binding:"omitempty,max=30"`
	ReorderLevel int     `json:"reorder_level" binding:"min=0"`
	Location     *string `json:"location" binding:"omitempty,max=120"`
}

type UpdateItemRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	Category     *string `json:"category" binding:"omitempty,max=100"`
	Unit         *string `json:"unit" binding:"omitempty,max=30"`
	ReorderLevel *int    `json:"reorder_level" binding:"omitempty,min=0"`
	Location     *string `json:"location" binding:"omitempty,max=120"`
}

type AdjustRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

type ListFilter struct {
	Search   string
	Category string
	LowStock bool
}

type ItemResponse struct {
	ID           string  `json:"id"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Category     *string `json:"category,omitempty"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit"`
	ReorderLevel int     `json:"reorder_level"`
	Location     *string `json:"location,omitempty"`
	LowStock     bool    `json:"low_stock"`
	UpdatedAt    string  `json:"updated_at"`
}
