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

var cartColumns = []string{
	"id", "user_id", "product_id", "quantity", "created_at", "updated_at",
}

type cartRepo struct {
	pgBase
}

func NewCartRepo(db *sqlx.DB) *cartRepo {
	return &cartRepo{pgBase: newPgBase(db)}
}

func (r *cartRepo) Create(ctx context.Context, item entities.CartItem) error {
	query, args := r.qb.Insert("cart_items").
		Columns("id", "user_id", "product_id", "quantity").
		Values(item.ID, item.UserID, item.ProductID, item.Quantity).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

func (r *cartRepo) GetByID(ctx context.Context, id string) (entities.CartItem, error) {
	query, args := r.qb.Select(cartColumns...).
		From("cart_items").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	var item CartItem
	err := r.getContext(ctx, &item, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.CartItem{}, entities.ErrCartItemNotFound
	}
	if err != nil {
		return entities.CartItem{}, fmt.Errorf("failed to get cart item: %w", err)
	}
	return CartItemToEntity(item), nil
}

func (r *cartRepo) GetByUserAndProduct(ctx context.Context, userID, productID string) (entities.CartItem, error) {
	query, args := r.qb.Select(cartColumns...).
		From("cart_items").
		Where(sq.Eq{"user_id": userID, "product_id": productID, "deleted_at": nil}).
		MustSql()

	var item CartItem
	err := r.getContext(ctx, &item, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.CartItem{}, entities.ErrCartItemNotFound
	}
	if err != nil {
		return entities.CartItem{}, fmt.Errorf("failed to get cart item: %w", err)
	}
	return CartItemToEntity(item), nil
}

// ListByUser returns the caller's cart, newest first.
func (r *cartRepo) ListByUser(ctx context.Context, userID string, params ListParams) ([]entities.CartItem, int, error) {
	where := sq.Eq{"user_id": userID, "deleted_at": nil}

	q := r.qb.Select(cartColumns...).
		From("cart_items").
		Where(where).
		OrderBy("created_at DESC")
	if !params.FetchAll {
		q = q.Limit(uint64(params.Limit)).Offset(params.offset())
	}
	query, args := q.MustSql()

	countQuery, countArgs := r.qb.Select("COUNT(*)").From("cart_items").Where(where).MustSql()

	var (
		items []CartItem
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.selectContext(gctx, &items, query, args...)
	})
	g.Go(func() error {
		return r.getContext(gctx, &total, countQuery, countArgs...)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to list cart items: %w", err)
	}

	result := make([]entities.CartItem, 0, len(items))
	for _, it := range items {
		result = append(result, CartItemToEntity(it))
	}
	return result, total, nil
}

func (r *cartRepo) IncrementQuantity(ctx context.Context, id string) error {
	query, args := r.qb.Update("cart_items").
		Set("quantity", sq.Expr("quantity + 1")).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrCartItemNotFound)
}

func (r *cartRepo) Delete(ctx context.Context, id string) error {
	query, args := r.qb.Delete("cart_items").
		Where(sq.Eq{"id": id}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrCartItemNotFound)
}

func (r *cartRepo) DeleteByUser(ctx context.Context, userID string) error {
	query, args := r.qb.Delete("cart_items").
		Where(sq.Eq{"user_id": userID}).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
