package service

import (
	"context"
	"log/slog"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/repo"

	"github.com/google/uuid"
)

type ProductRepo interface {
	Create(ctx context.Context, p entities.Product) error
	GetByID(ctx context.Context, id string) (entities.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]entities.Product, error)
	List(ctx context.Context, params repo.ListParams) ([]entities.Product, int, error)
	Update(ctx context.Context, p entities.Product) error
	UpdateStatus(ctx context.Context, id string, status entities.ProductStatus) error
	SoftDelete(ctx context.Context, id string) error
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

type productService struct {
	logger *slog.Logger
	repo   ProductRepo
	cache  Cache
}

func NewProductService(logger *slog.Logger, repo ProductRepo, cache Cache) *productService {
	return &productService{
		logger: logger.With(slog.String("service", "product")),
		repo:   repo,
		cache:  cache,
	}
}

func (s *productService) List(ctx context.Context, params repo.ListParams) ([]entities.Product, int, error) {
	return s.repo.List(ctx, params)
}

// Get serves hot reads from the in-process cache.
func (s *productService) Get(ctx context.Context, id string) (entities.Product, error) {
	if data, ok := s.cache.Get(id); ok {
		var product entities.Product
		if err := product.Unmarshal(data); err == nil {
			return product, nil
		}
		// broken cache entry: fall through to the repo
		s.cache.Delete(id)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Product{}, err
	}

	if data, err := product.Marshal(); err == nil {
		s.cache.Set(id, data)
	} else {
		s.logger.ErrorContext(ctx, "failed to marshal product", slog.Any("error", err))
	}
	return product, nil
}

type ProductInput struct {
	Name        string
	Price       float64
	Description string
	Category    string
	Image       string
}

func (s *productService) Create(ctx context.Context, in ProductInput) (entities.Product, error) {
	product := entities.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Image:       in.Image,
		Status:      entities.ProductStatusActive,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return entities.Product{}, err
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id string, in ProductInput) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Price > 0 {
		product.Price = in.Price
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.Category != "" {
		product.Category = in.Category
	}
	if in.Image != "" {
		product.Image = in.Image
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	s.cache.Delete(id)
	return nil
}

func (s *productService) UpdateStatus(ctx context.Context, id string, status entities.ProductStatus) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.cache.Delete(id)
	return nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(id)
	return nil
}
