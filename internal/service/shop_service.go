package service

import (
	"context"
	"fmt"
	"time"

	"ludora/internal/domain"
	"ludora/internal/dto"
	"ludora/internal/logger"
	"ludora/internal/util"

	"go.uber.org/zap"
)

const maxPurchaseQuantity = 99

// ShopService defines the interface for shop and inventory operations.
type ShopService interface {
	ListItems(ctx context.Context) ([]dto.ItemResponse, error)
	GetItem(ctx context.Context, itemID string) (*dto.ItemResponse, error)
	Purchase(ctx context.Context, userID, itemID string, quantity int) (*dto.PurchaseResponse, error)
	ListInventory(ctx context.Context, userID string) ([]dto.InventoryItemResponse, error)
}

type shopServiceImpl struct {
	shopRepo    domain.ShopRepository
	profileRepo domain.ProfileRepository
	txManager   domain.TransactionManager
	now         func() time.Time
}

func NewShopService(shopRepo domain.ShopRepository, profileRepo domain.ProfileRepository, txManager domain.TransactionManager) ShopService {
	return &shopServiceImpl{
		shopRepo:    shopRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		now:         time.Now,
	}
}

func (s *shopServiceImpl) ListItems(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := s.shopRepo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out, nil
}

func (s *shopServiceImpl) GetItem(ctx context.Context, itemID string) (*dto.ItemResponse, error) {
	item, err := s.shopRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFoundError("item", itemID)
	}
	resp := toItemResponse(item)
	return &resp, nil
}

// Purchase deducts price*quantity from the buyer's locked balance and adds the
// item to their inventory. Nothing changes when the balance is too low.
func (s *shopServiceImpl) Purchase(ctx context.Context, userID, itemID string, quantity int) (*dto.PurchaseResponse, error) {
	if quantity < 1 || quantity > maxPurchaseQuantity {
		return nil, domain.ValidationErrors{domain.NewOutOfRangeError("quantity", quantity, 1, maxPurchaseQuantity)}
	}

	var (
		purchase  *domain.Purchase
		remaining int64
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		item, err := s.shopRepo.GetItemByID(txCtx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NewNotFoundError("item", itemID)
		}

		profile, err := s.profileRepo.GetProfileForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.NewNotFoundError("profile", userID)
		}

		cost := item.Price * int64(quantity)
		if cost > profile.Currency {
			return domain.NewInsufficientCurrencyError(cost, profile.Currency)
		}

		remaining = profile.Currency - cost
		if err := s.profileRepo.SetCurrency(txCtx, userID, remaining); err != nil {
			return err
		}
		now := s.now()
		if err := s.shopRepo.AddInventory(txCtx, userID, itemID, quantity, now); err != nil {
			return err
		}
		purchase = &domain.Purchase{
			ID:           util.NewULID(),
			UserID:       userID,
			ItemID:       itemID,
			Quantity:     quantity,
			TotalPrice:   cost,
			PurchaseDate: now,
		}
		return s.shopRepo.CreatePurchase(txCtx, purchase)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Item purchased",
		zap.String("userID", userID),
		zap.String("itemID", itemID),
		zap.Int("quantity", quantity),
		zap.Int64("totalPrice", purchase.TotalPrice))
	return &dto.PurchaseResponse{
		PurchaseID:        purchase.ID,
		ItemID:            purchase.ItemID,
		Quantity:          purchase.Quantity,
		TotalPrice:        purchase.TotalPrice,
		RemainingCurrency: remaining,
		PurchaseDate:      purchase.PurchaseDate,
	}, nil
}

func (s *shopServiceImpl) ListInventory(ctx context.Context, userID string) ([]dto.InventoryItemResponse, error) {
	inventory, err := s.shopRepo.ListInventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	out := make([]dto.InventoryItemResponse, 0, len(inventory))
	for _, inv := range inventory {
		resp := dto.InventoryItemResponse{
			ItemID:     inv.ItemID,
			Quantity:   inv.Quantity,
			AcquiredAt: inv.AcquiredAt,
		}
		if inv.Item != nil {
			resp.Name = inv.Item.Name
			resp.ItemType = string(inv.Item.ItemType)
		}
		out = append(out, resp)
	}
	return out, nil
}

func toItemResponse(item *domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		ItemType:    string(item.ItemType),
		Metadata:    item.Metadata,
	}
}
