package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkochetov/storefront/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

var productColumns = []string{
	"id", "name", "price", "description", "category",
	"image", "status", "created_at", "updated_at",
}

type productRepo struct {
	pgBase
}

func NewProductRepo(db *sqlx.DB) *productRepo {
	return &productRepo{pgBase: newPgBase(db)}
}

func (r *productRepo) Create(ctx context.Context, p entities.Product) error {
	query, args := r.qb.Insert("products").
		Columns("id", "name", "price", "description", "category", "image", "status").
		Values(p.ID, p.Name, p.Price, p.Description, p.Category, p.Image, string(p.Status)).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (entities.Product, error) {
	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	var product Product
	err := r.getContext(ctx, &product, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return ProductToEntity(product), nil
}

// GetByIDs returns the non-deleted products matching ids, keyed by id.
// Missing ids are simply absent from the map.
func (r *productRepo) GetByIDs(ctx context.Context, ids []string) (map[string]entities.Product, error) {
	if len(ids) == 0 {
		return map[string]entities.Product{}, nil
	}

	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": ids, "deleted_at": nil}).
		MustSql()

	var products []Product
	if err := r.selectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	result := make(map[string]entities.Product, len(products))
	for _, p := range products {
		result[p.ID] = ProductToEntity(p)
	}
	return result, nil
}

func (r *productRepo) List(ctx context.Context, params ListParams) ([]entities.Product, int, error) {
	where := sq.And{sq.Eq{"deleted_at": nil}}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"category": pattern},
		})
	}

	q := r.qb.Select(productColumns...).
		From("products").
		Where(where).
		OrderBy("created_at DESC")
	if !params.FetchAll {
		q = q.Limit(uint64(params.Limit)).Offset(params.offset())
	}
	query, args := q.MustSql()

	countQuery, countArgs := r.qb.Select("COUNT(*)").From("products").Where(where).MustSql()

	var (
		products []Product
		total    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.selectContext(gctx, &products, query, args...)
	})
	g.Go(func() error {
		return r.getContext(gctx, &total, countQuery, countArgs...)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	result := make([]entities.Product, 0, len(products))
	for _, p := range products {
		result = append(result, ProductToEntity(p))
	}
	return result, total, nil
}

func (r *productRepo) Update(ctx context.Context, p entities.Product) error {
	query, args := r.qb.Update("products").
		Set("name", p.Name).
		Set("price", p.Price).
		Set("description", p.Description).
		Set("category", p.Category).
		Set("image", p.Image).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": p.ID, "deleted_at": nil}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrProductNotFound)
}

func (r *productRepo) UpdateStatus(ctx context.Context, id string, status entities.ProductStatus) error {
	query, args := r.qb.Update("products").
		Set("status", string(status)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrProductNotFound)
}

func (r *productRepo) SoftDelete(ctx context.Context, id string) error {
	query, args := r.qb.Update("products").
		Set("deleted_at", time.Now()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrProductNotFound)
}
