package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkochetov/storefront/internal/config"
	"github.com/dkochetov/storefront/internal/entities"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthUserRepo interface {
	Create(ctx context.Context, u entities.User) error
	GetByEmail(ctx context.Context, email string) (entities.User, error)
	GetByPhone(ctx context.Context, phone string) (entities.User, error)
}

type authService struct {
	logger *slog.Logger
	repo   AuthUserRepo
	secret []byte
	ttl    time.Duration
}

func NewAuthService(logger *slog.Logger, repo AuthUserRepo, cfg config.JWT) *authService {
	return &authService{
		logger: logger.With(slog.String("service", "auth")),
		repo:   repo,
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (entities.User, error) {
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return entities.User{}, entities.ErrEmailTaken
	} else if !errors.Is(err, entities.ErrUserNotFound) {
		return entities.User{}, err
	}

	if in.Phone != "" {
		if _, err := s.repo.GetByPhone(ctx, in.Phone); err == nil {
			return entities.User{}, entities.ErrPhoneTaken
		} else if !errors.Is(err, entities.ErrUserNotFound) {
			return entities.User{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return entities.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entities.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         entities.RoleUser,
		Status:       entities.UserStatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return entities.User{}, err
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, entities.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, entities.ErrUserNotFound) {
		return "", entities.User{}, entities.ErrInvalidCredentials
	}
	if err != nil {
		return "", entities.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", entities.User{}, entities.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", entities.User{}, err
	}
	return token, user, nil
}

func (s *authService) IssueToken(user entities.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses a bearer token and returns the identity it carries.
func (s *authService) VerifyToken(token string) (entities.Principal, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return entities.Principal{}, entities.ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return entities.Principal{}, entities.ErrInvalidCredentials
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return entities.Principal{}, entities.ErrInvalidCredentials
	}

	return entities.Principal{UserID: userID, Role: entities.Role(role)}, nil
}
