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

var orderColumns = []string{
	"id", "user_id", "total_amount", "payment_method", "status",
	"return_status", "return_reason", "ship_full_name", "ship_address",
	"ship_city", "ship_state", "ship_zip_code", "created_at", "updated_at",
}

// OrderFilter narrows order listings. Zero values mean "no constraint".
type OrderFilter struct {
	UserID  string // non-empty: only orders owned by this user
	OrderID string // non-empty: only this order id
}

type orderRepo struct {
	pgBase
}

func NewOrderRepo(db *sqlx.DB) *orderRepo {
	return &orderRepo{pgBase: newPgBase(db)}
}

// Create inserts the order and its line items. Callers wrap it in a
// transaction so both writes land atomically.
func (r *orderRepo) Create(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns("id", "user_id", "total_amount", "payment_method", "status",
			"ship_full_name", "ship_address", "ship_city", "ship_state", "ship_zip_code").
		Values(o.ID, o.UserID, o.TotalAmount, string(o.PaymentMethod), string(o.Status),
			o.ShippingDetails.FullName, o.ShippingDetails.Address,
			o.ShippingDetails.City, o.ShippingDetails.State, o.ShippingDetails.ZipCode).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if len(o.Items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").Columns("order_id", "product_id", "quantity")
	for _, it := range o.Items {
		q = q.Values(o.ID, it.ProductID, it.Quantity)
	}
	query, args = q.MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create order items: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	query, args = r.qb.Select("order_id", "product_id", "quantity").
		From("order_items").
		Where(sq.Eq{"order_id": id}).
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order items: %w", err)
	}

	return OrderToEntity(order, items), nil
}

// List returns orders matching filter, newest first, with line items attached.
func (r *orderRepo) List(ctx context.Context, filter OrderFilter, params ListParams) ([]entities.Order, int, error) {
	where := sq.And{sq.Eq{"deleted_at": nil}}
	if filter.UserID != "" {
		where = append(where, sq.Eq{"user_id": filter.UserID})
	}
	if filter.OrderID != "" {
		where = append(where, sq.Eq{"id": filter.OrderID})
	}

	q := r.qb.Select(orderColumns...).
		From("orders").
		Where(where).
		OrderBy("created_at DESC")
	if !params.FetchAll {
		q = q.Limit(uint64(params.Limit)).Offset(params.offset())
	}
	query, args := q.MustSql()

	countQuery, countArgs := r.qb.Select("COUNT(*)").From("orders").Where(where).MustSql()

	var (
		orders []Order
		total  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.selectContext(gctx, &orders, query, args...)
	})
	g.Go(func() error {
		return r.getContext(gctx, &total, countQuery, countArgs...)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, total, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	query, args = r.qb.Select("order_id", "product_id", "quantity").
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to select order items: %w", err)
	}
	itemsMap := make(map[string][]OrderItem, len(ids))
	for _, it := range items {
		itemsMap[it.OrderID] = append(itemsMap[it.OrderID], it)
	}

	result := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderToEntity(o, itemsMap[o.ID]))
	}
	return result, total, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus, returnStatus entities.ReturnStatus) error {
	query, args := r.qb.Update("orders").
		Set("status", string(status)).
		Set("return_status", nullString(string(returnStatus))).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrOrderNotFound)
}

// SetReturnRequested records a return request without touching the order status.
func (r *orderRepo) SetReturnRequested(ctx context.Context, id string, reason string) error {
	query, args := r.qb.Update("orders").
		Set("return_status", string(entities.ReturnStatusPending)).
		Set("return_reason", reason).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrOrderNotFound)
}
