package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/repo"

	"github.com/google/uuid"
)

type CartRepo interface {
	Create(ctx context.Context, item entities.CartItem) error
	GetByID(ctx context.Context, id string) (entities.CartItem, error)
	GetByUserAndProduct(ctx context.Context, userID, productID string) (entities.CartItem, error)
	ListByUser(ctx context.Context, userID string, params repo.ListParams) ([]entities.CartItem, int, error)
	IncrementQuantity(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type cartService struct {
	logger   *slog.Logger
	repo     CartRepo
	products ProductRepo
}

func NewCartService(logger *slog.Logger, repo CartRepo, products ProductRepo) *cartService {
	return &cartService{
		logger:   logger.With(slog.String("service", "cart")),
		repo:     repo,
		products: products,
	}
}

// List returns the caller's cart with products populated and the price
// breakdown computed from catalog prices.
func (s *cartService) List(ctx context.Context, userID string, params repo.ListParams) ([]entities.CartItem, int, entities.CartSummary, error) {
	items, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, 0, entities.CartSummary{}, err
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, entities.CartSummary{}, err
	}
	for i := range items {
		if p, ok := products[items[i].ProductID]; ok {
			items[i].Product = &p
		}
	}

	return items, total, entities.SummarizeCart(items), nil
}

func (s *cartService) Get(ctx context.Context, principal entities.Principal, id string) (entities.CartItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return entities.CartItem{}, err
	}
	if !principal.IsAdmin() && item.UserID != principal.UserID {
		return entities.CartItem{}, entities.ErrCartItemNotFound
	}
	return item, nil
}

// Add puts a product into the cart, bumping quantity when it is already there.
func (s *cartService) Add(ctx context.Context, userID, productID string) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}

	existing, err := s.repo.GetByUserAndProduct(ctx, userID, productID)
	if err == nil {
		return s.repo.IncrementQuantity(ctx, existing.ID)
	}
	if !errors.Is(err, entities.ErrCartItemNotFound) {
		return err
	}

	return s.repo.Create(ctx, entities.CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	})
}

func (s *cartService) Remove(ctx context.Context, principal entities.Principal, id string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !principal.IsAdmin() && item.UserID != principal.UserID {
		return entities.ErrCartItemNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}
