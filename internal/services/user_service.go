package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmastock/internal/caching"
	"pharmastock/internal/models"
	"pharmastock/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type UserService interface {
	Create(ctx context.Context, user *models.User, password string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type userService struct {
	userRepo     repositories.UserRepository
	cacheService caching.CacheService
	jwtSecret    []byte
}

func NewUserService(userRepo repositories.UserRepository, cacheService caching.CacheService, jwtSecret []byte) UserService {
	return &userService{userRepo: userRepo, cacheService: cacheService, jwtSecret: jwtSecret}
}

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RolePharmacist, models.RoleClerk:
		return true
	}
	return false
}

func (s *userService) Create(ctx context.Context, user *models.User, password string) error {
	if strings.TrimSpace(user.Email) == "" {
		return errors.New("email is required")
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !validRole(user.Role) {
		return errors.New("invalid role")
	}
	if _, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return errors.New("email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.ID = uuid.New()
	user.Active = true
	user.PasswordHash = string(hashedPassword)
	return s.userRepo.Create(ctx, user)
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Update(ctx context.Context, user *models.User) error {
	if !validRole(user.Role) {
		return errors.New("invalid role")
	}
	if _, err := s.userRepo.GetByID(ctx, user.ID); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// Authenticate verifies credentials and returns a signed JWT. Each token
// carries a unique jti so it can be revoked individually on logout.
func (s *userService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}
	if !user.Active {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"jti":  uuid.New().String(),
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func revokedTokenKey(tokenID string) string {
	return "pharmastock:token:revoked:" + tokenID
}

// RevokeToken denylists a token until its natural expiry. The entry's TTL
// matches the token's remaining lifetime, so the denylist cleans itself up.
func (s *userService) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token id is required")
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return s.cacheService.SetString(ctx, revokedTokenKey(tokenID), "revoked", ttl)
}

// IsTokenRevoked reports whether a token's jti has been denylisted.
func (s *userService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	value, err := s.cacheService.GetString(ctx, revokedTokenKey(tokenID))
	if err != nil {
		return false, err
	}
	return value != "", nil
}
