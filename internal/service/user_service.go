package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoaoPedroVicentin/daily-diet-api/internal/domain"
	"github.com/JoaoPedroVicentin/daily-diet-api/internal/repository"
)

// UserService crea usuarios y emite su token de sesión opaco.
type UserService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	sessions   SessionStore
	sessionTTL time.Duration
}

var (
	ErrInvalidName  = errors.New("name invalid")
	ErrInvalidEmail = errors.New("email invalid")
)

func NewUserService(logger *zap.Logger, users repository.UserRepository, sessions SessionStore, sessionTTL time.Duration) *UserService {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &UserService{
		logger:     logger,
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// Create persiste el usuario y guarda un token de sesión nuevo en el
// SessionStore. Devuelve el token para que el handler lo entregue como cookie.
func (s *UserService) Create(ctx context.Context, name, email string) (domain.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, "", ErrInvalidName
	}
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, "", ErrInvalidEmail
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, "", err
	}

	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, user.ID, s.sessionTTL); err != nil {
		if s.logger != nil {
			s.logger.Error("save session failed", zap.Error(err), zap.String("user_id", user.ID))
		}
		return domain.User{}, "", err
	}

	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
