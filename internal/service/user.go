package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/internal/repo"
)

type UserRepo interface {
	GetByID(ctx context.Context, id string) (entities.User, error)
	GetByEmail(ctx context.Context, email string) (entities.User, error)
	GetByPhone(ctx context.Context, phone string) (entities.User, error)
	List(ctx context.Context, params repo.ListParams) ([]entities.User, int, error)
	Update(ctx context.Context, u entities.User) error
	UpdateStatus(ctx context.Context, id string, status entities.UserStatus) error
	SoftDelete(ctx context.Context, id string) error
}

type userService struct {
	logger *slog.Logger
	repo   UserRepo
}

func NewUserService(logger *slog.Logger, repo UserRepo) *userService {
	return &userService{
		logger: logger.With(slog.String("service", "user")),
		repo:   repo,
	}
}

func (s *userService) List(ctx context.Context, params repo.ListParams) ([]entities.User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *userService) Get(ctx context.Context, id string) (entities.User, error) {
	return s.repo.GetByID(ctx, id)
}

type UpdateUserInput struct {
	Name    string
	Email   string
	Phone   string
	Profile string
}

// Update rejects email/phone values already claimed by another account.
func (s *userService) Update(ctx context.Context, id string, in UpdateUserInput) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if in.Email != "" && in.Email != user.Email {
		existing, err := s.repo.GetByEmail(ctx, in.Email)
		if err == nil && existing.ID != id {
			return entities.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
			return err
		}
		user.Email = in.Email
	}

	if in.Phone != "" && in.Phone != user.Phone {
		existing, err := s.repo.GetByPhone(ctx, in.Phone)
		if err == nil && existing.ID != id {
			return entities.ErrPhoneTaken
		}
		if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
			return err
		}
		user.Phone = in.Phone
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Profile != "" {
		user.Profile = in.Profile
	}

	return s.repo.Update(ctx, user)
}

func (s *userService) UpdateStatus(ctx context.Context, id string, status entities.UserStatus) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user soft-deleted", slog.String("user_id", id))
	return nil
}
