package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"pharmastock/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

var testJWTSecret = []byte("test-secret")

func newUserServiceFixture() (UserService, *MockUserRepository, *MockCacheService) {
	repo := new(MockUserRepository)
	cache := new(MockCacheService)
	return NewUserService(repo, cache, testJWTSecret), repo, cache
}

func bcryptHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestUserCreateStoresBcryptHash(t *testing.T) {
	svc, repo, _ := newUserServiceFixture()

	user := &models.User{Email: "admin@pharmacy.test", FullName: "Admin", Role: models.RoleAdmin}
	repo.On("GetByEmail", mock.Anything, user.Email).Return(nil, errors.New("no rows"))
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Active && bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")) == nil
	})).Return(nil)

	err := svc.Create(context.Background(), user, "correct-horse")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUserCreateRejectsShortPassword(t *testing.T) {
	svc, repo, _ := newUserServiceFixture()

	err := svc.Create(context.Background(), &models.User{Email: "a@b.test", Role: models.RoleClerk}, "short")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	svc, repo, _ := newUserServiceFixture()

	existing := &models.User{ID: uuid.New(), Email: "taken@pharmacy.test"}
	repo.On("GetByEmail", mock.Anything, existing.Email).Return(existing, nil)

	err := svc.Create(context.Background(), &models.User{Email: existing.Email, Role: models.RoleClerk}, "long-enough")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create")
}

func TestAuthenticateIssuesTokenWithClaims(t *testing.T) {
	svc, repo, _ := newUserServiceFixture()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "pharmacist@pharmacy.test",
		Role:         models.RolePharmacist,
		Active:       true,
		PasswordHash: bcryptHash(t, "correct-horse"),
	}
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	tokenStr, err := svc.Authenticate(context.Background(), user.Email, "correct-horse")
	assert.NoError(t, err)

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return testJWTSecret, nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, models.RolePharmacist, claims["role"])
	assert.NotEmpty(t, claims["jti"], "tokens must carry a revocable id")
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	svc, repo, _ := newUserServiceFixture()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "pharmacist@pharmacy.test",
		Active:       true,
		PasswordHash: bcryptHash(t, "correct-horse"),
	}
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := svc.Authenticate(context.Background(), user.Email, "wrong")
	assert.Error(t, err)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	svc, repo, _ := newUserServiceFixture()

	user := &models.User{
		ID:           uuid.New(),
		Email:        "former@pharmacy.test",
		Active:       false,
		PasswordHash: bcryptHash(t, "correct-horse"),
	}
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := svc.Authenticate(context.Background(), user.Email, "correct-horse")
	assert.Error(t, err)
}

func TestRevokeTokenDenylistsUntilExpiry(t *testing.T) {
	svc, _, cache := newUserServiceFixture()
	tokenID := uuid.New().String()

	cache.On("SetString", mock.Anything, "pharmastock:token:revoked:"+tokenID, "revoked", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= time.Hour
	})).Return(nil)

	err := svc.RevokeToken(context.Background(), tokenID, time.Now().Add(time.Hour))
	assert.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestRevokeTokenSkipsExpiredToken(t *testing.T) {
	svc, _, cache := newUserServiceFixture()

	err := svc.RevokeToken(context.Background(), uuid.New().String(), time.Now().Add(-time.Minute))
	assert.NoError(t, err)
	cache.AssertNotCalled(t, "SetString")
}

func TestIsTokenRevoked(t *testing.T) {
	svc, _, cache := newUserServiceFixture()
	revokedID := uuid.New().String()
	freshID := uuid.New().String()

	cache.On("GetString", mock.Anything, "pharmastock:token:revoked:"+revokedID).Return("revoked", nil)
	cache.On("GetString", mock.Anything, "pharmastock:token:revoked:"+freshID).Return("", nil)

	revoked, err := svc.IsTokenRevoked(context.Background(), revokedID)
	assert.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = svc.IsTokenRevoked(context.Background(), freshID)
	assert.NoError(t, err)
	assert.False(t, revoked)
}
