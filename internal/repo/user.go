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

var userColumns = []string{
	"id", "name", "email", "phone", "password_hash",
	"profile", "role", "status", "created_at", "updated_at",
}

type userRepo struct {
	pgBase
}

func NewUserRepo(db *sqlx.DB) *userRepo {
	return &userRepo{pgBase: newPgBase(db)}
}

func (r *userRepo) Create(ctx context.Context, u entities.User) error {
	query, args := r.qb.Insert("users").
		Columns("id", "name", "email", "phone", "password_hash", "profile", "role", "status").
		Values(u.ID, u.Name, u.Email, nullString(u.Phone), u.PasswordHash,
			nullString(u.Profile), string(u.Role), string(u.Status)).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (entities.User, error) {
	query, args := r.qb.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	var user User
	err := r.getContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, entities.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return UserToEntity(user), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (entities.User, error) {
	query, args := r.qb.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email, "deleted_at": nil}).
		MustSql()

	var user User
	err := r.getContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, entities.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return UserToEntity(user), nil
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (entities.User, error) {
	query, args := r.qb.Select(userColumns...).
		From("users").
		Where(sq.Eq{"phone": phone, "deleted_at": nil}).
		MustSql()

	var user User
	err := r.getContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.User{}, entities.ErrUserNotFound
	}
	if err != nil {
		return entities.User{}, fmt.Errorf("failed to get user by phone: %w", err)
	}
	return UserToEntity(user), nil
}

// List returns non-admin, non-deleted users, newest first. Search matches
// name, email or phone.
func (r *userRepo) List(ctx context.Context, params ListParams) ([]entities.User, int, error) {
	where := sq.And{
		sq.Eq{"deleted_at": nil},
		sq.NotEq{"role": string(entities.RoleAdmin)},
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"phone": pattern},
		})
	}

	q := r.qb.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("created_at DESC")
	if !params.FetchAll {
		q = q.Limit(uint64(params.Limit)).Offset(params.offset())
	}
	query, args := q.MustSql()

	countQuery, countArgs := r.qb.Select("COUNT(*)").From("users").Where(where).MustSql()

	var (
		users []User
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.selectContext(gctx, &users, query, args...)
	})
	g.Go(func() error {
		return r.getContext(gctx, &total, countQuery, countArgs...)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]entities.User, 0, len(users))
	for _, u := range users {
		result = append(result, UserToEntity(u))
	}
	return result, total, nil
}

func (r *userRepo) Update(ctx context.Context, u entities.User) error {
	query, args := r.qb.Update("users").
		Set("name", u.Name).
		Set("email", u.Email).
		Set("phone", nullString(u.Phone)).
		Set("profile", nullString(u.Profile)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": u.ID, "deleted_at": nil}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrUserNotFound)
}

func (r *userRepo) UpdateStatus(ctx context.Context, id string, status entities.UserStatus) error {
	query, args := r.qb.Update("users").
		Set("status", string(status)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrUserNotFound)
}

func (r *userRepo) SoftDelete(ctx context.Context, id string) error {
	query, args := r.qb.Update("users").
		Set("deleted_at", time.Now()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		MustSql()

	return r.mustAffect(ctx, query, args, entities.ErrUserNotFound)
}

func (b pgBase) mustAffect(ctx context.Context, query string, args []any, notFound error) error {
	res, err := b.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
