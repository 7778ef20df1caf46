package dto

import "time"

// ItemResponse represents a shop item.
// @Description Shop item
type ItemResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Price       int64                  `json:"price"`
	ItemType    string                 `json:"item_type"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// PurchaseRequest represents the request body for buying an item.
type PurchaseRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=99"`
}

// PurchaseResponse is returned after a successful purchase.
type PurchaseResponse struct {
	PurchaseID        string    `json:"purchase_id"`
	ItemID            string    `json:"item_id"`
	Quantity          int       `json:"quantity"`
	TotalPrice        int64     `json:"total_price"`
	RemainingCurrency int64     `json:"remaining_currency"`
	PurchaseDate      time.Time `json:"purchase_date"`
}

// InventoryItemResponse is one owned item stack.
type InventoryItemResponse struct {
	ItemID     string    `json:"item_id"`
	Name       string    `json:"name"`
	ItemType   string    `json:"item_type"`
	Quantity   int       `json:"quantity"`
	AcquiredAt time.Time `json:"acquired_at"`
}
