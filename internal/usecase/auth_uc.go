package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ AuthUseCase = (*authUC)(nil)

// Claims is the JWT payload attached to every authenticated request.
type Claims struct {
	UserID string         `json:"sub"`
	Email  string         `json:"email"`
	Role   model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthUseCase interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	// Login returns a signed access token on success.
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	// ParseToken validates a token string and returns its claims.
	ParseToken(tokenString string) (*Claims, error)
}

type authUC struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	log      *zerolog.Logger
}

func NewAuthUseCase(users repository.UserRepository, secret string, tokenTTL time.Duration, logger *zerolog.Logger) *authUC {
	l := logger.With().Str("component", "AuthUC").Logger()
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authUC{users: users, secret: []byte(secret), tokenTTL: tokenTTL, log: &l}
}

func (u *authUC) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if len(password) < 6 {
		return nil, domain.ErrInvalidArgument
	}
	if existing, err := u.users.FindByEmail(ctx, nil, email); err == nil && !existing.IsZero() {
		return nil, domain.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := model.NewUser("", name, email, string(hash))
	if err != nil {
		return nil, err
	}
	if err := u.users.Save(ctx, nil, user); err != nil {
		return nil, err
	}
	u.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (u *authUC) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := u.users.FindByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if user.IsBlocked {
		return "", nil, domain.ErrUserBlocked
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (u *authUC) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return u.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return claims, nil
}
