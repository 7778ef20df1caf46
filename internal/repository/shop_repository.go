package repository

import (
	"context"
	"fmt"
	"time"

	"ludora/internal/domain"
	"ludora/internal/repository/models"
	"ludora/internal/util"

	"github.com/jmoiron/sqlx"
)

const itemColumns = `id, name, description, price, item_type, metadata, created_at, updated_at`

// ShopDatabaseAdapter implements domain.ShopRepository.
type ShopDatabaseAdapter struct {
	db DBTX
}

func NewShopDatabaseAdapter(db *sqlx.DB) domain.ShopRepository {
	return &ShopDatabaseAdapter{db: db}
}

func (a *ShopDatabaseAdapter) CreateItem(ctx context.Context, item *domain.Item) error {
	query := `INSERT INTO items (` + itemColumns + `)
	          VALUES (:ID, :NAME, :DESCRIPTION, :PRICE, :ITEM_TYPE, :METADATA, :CREATED_AT, :UPDATED_AT)`
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, fromDomainItem(item)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError(domain.CodeDuplicateName, fmt.Sprintf("item %q already exists", item.Name))
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (a *ShopDatabaseAdapter) GetItemByID(ctx context.Context, id string) (*domain.Item, error) {
	var row models.Item
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, `SELECT `+itemColumns+` FROM items WHERE id = :1`, id); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return toDomainItem(&row), nil
}

func (a *ShopDatabaseAdapter) ListItems(ctx context.Context) ([]*domain.Item, error) {
	var rows []models.Item
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, `SELECT `+itemColumns+` FROM items ORDER BY price, name`); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	items := make([]*domain.Item, 0, len(rows))
	for i := range rows {
		items = append(items, toDomainItem(&rows[i]))
	}
	return items, nil
}

func (a *ShopDatabaseAdapter) AddInventory(ctx context.Context, userID, itemID string, quantity int, at time.Time) error {
	query := `MERGE INTO inventory_items inv
	          USING (SELECT :1 AS user_id, :2 AS item_id FROM dual) src
	          ON (inv.user_id = src.user_id AND inv.item_id = src.item_id)
	          WHEN MATCHED THEN UPDATE SET inv.quantity = inv.quantity + :3
	          WHEN NOT MATCHED THEN INSERT (id, user_id, item_id, quantity, acquired_at)
	               VALUES (:4, src.user_id, src.item_id, :5, :6)`
	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, userID, itemID, quantity, util.NewULID(), quantity, at)
	if err != nil {
		return fmt.Errorf("failed to add inventory: %w", err)
	}
	return nil
}

func (a *ShopDatabaseAdapter) ListInventory(ctx context.Context, userID string) ([]*domain.InventoryItem, error) {
	query := `SELECT inv.id, inv.user_id, inv.item_id, inv.quantity, inv.acquired_at,
	                 i.name AS item_name, i.description AS item_description, i.price AS item_price, i.item_type
	          FROM inventory_items inv
	          JOIN items i ON i.id = inv.item_id
	          WHERE inv.user_id = :1
	          ORDER BY inv.acquired_at DESC`
	var rows []models.InventoryItem
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	inventory := make([]*domain.InventoryItem, 0, len(rows))
	for _, r := range rows {
		inventory = append(inventory, &domain.InventoryItem{
			ID:         r.ID,
			UserID:     r.UserID,
			ItemID:     r.ItemID,
			Quantity:   r.Quantity,
			AcquiredAt: r.AcquiredAt,
			Item: &domain.Item{
				ID:          r.ItemID,
				Name:        r.ItemName,
				Description: r.ItemDescription.String,
				Price:       r.ItemPrice,
				ItemType:    domain.ItemType(r.ItemType),
			},
		})
	}
	return inventory, nil
}

func (a *ShopDatabaseAdapter) CreatePurchase(ctx context.Context, p *domain.Purchase) error {
	query := `INSERT INTO purchases (id, user_id, item_id, quantity, total_price, purchase_date)
	          VALUES (:ID, :USER_ID, :ITEM_ID, :QUANTITY, :TOTAL_PRICE, :PURCHASE_DATE)`
	row := &models.Purchase{
		ID:           p.ID,
		UserID:       p.UserID,
		ItemID:       p.ItemID,
		Quantity:     p.Quantity,
		TotalPrice:   p.TotalPrice,
		PurchaseDate: p.PurchaseDate,
	}
	if _, err := GetExecutor(ctx, a.db).NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}
	return nil
}

func toDomainItem(m *models.Item) *domain.Item {
	return &domain.Item{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description.String,
		Price:       m.Price,
		ItemType:    domain.ItemType(m.ItemType),
		Metadata:    map[string]interface{}(m.Metadata),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromDomainItem(i *domain.Item) *models.Item {
	return &models.Item{
		ID:          i.ID,
		Name:        i.Name,
		Description: util.StringToNullString(i.Description),
		Price:       i.Price,
		ItemType:    string(i.ItemType),
		Metadata:    models.JSONMap(i.Metadata),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
