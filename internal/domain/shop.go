package domain

import (
	"context"
	"time"
)

type ItemType string

const (
	ItemTypePowerUp     ItemType = "power_up"
	ItemTypeTheme       ItemType = "theme"
	ItemTypeTicket      ItemType = "ticket"
	ItemTypeConsumable  ItemType = "consumable"
	ItemTypeCollectible ItemType = "collectible"
)

type Item struct {
	ID          string
	Name        string
	Description string
	Price       int64
	ItemType    ItemType
	Metadata    map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type InventoryItem struct {
	ID         string
	UserID     string
	ItemID     string
	Quantity   int
	AcquiredAt time.Time
	Item       *Item
}

type Purchase struct {
	ID           string
	UserID       string
	ItemID       string
	Quantity     int
	TotalPrice   int64
	PurchaseDate time.Time
}

type ShopRepository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItemByID(ctx context.Context, id string) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	// AddInventory creates or increments the (user, item) inventory row.
	AddInventory(ctx context.Context, userID, itemID string, quantity int, at time.Time) error
	ListInventory(ctx context.Context, userID string) ([]*InventoryItem, error)
	CreatePurchase(ctx context.Context, purchase *Purchase) error
}
