package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/models"
	"storefront/repositories"
	"storefront/utils"
)

// Denylist records revoked token ids.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *utils.TokenIssuer
	hasher   *utils.PasswordHasher
	denylist Denylist
}

func NewAuthService(users repositories.UserRepository, tokens *utils.TokenIssuer, hasher *utils.PasswordHasher, denylist Denylist) *AuthService {
	return &AuthService{
		userRepo: users,
		tokens:   tokens,
		hasher:   hasher,
		denylist: denylist,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		Role:     models.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := s.hasher.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Logout revokes the token id when a denylist is configured. Tokens are
// stateless otherwise and simply expire.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	until := time.Now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.denylist.Revoke(ctx, claims.ID, until)
}

func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.denylist == nil || jti == "" {
		return false, nil
	}
	return s.denylist.IsRevoked(ctx, jti)
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthService) Tokens() *utils.TokenIssuer {
	return s.tokens
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}
