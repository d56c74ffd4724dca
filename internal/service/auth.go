package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"drops_api/internal/domain"
	"drops_api/internal/utils"

	"gorm.io/gorm"
)

// AuthService registers users, logs them in and resolves request principals
type AuthService struct {
	db     *gorm.DB
	tokens *utils.TokenService
}

// NewAuthService creates an AuthService
func NewAuthService(db *gorm.DB, tokens *utils.TokenService) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// RegisterInput is the data needed to create a user
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
}

// Register validates in, hashes the password and stores a new user
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, fmt.Errorf("%w: first and last name are required", domain.ErrValidation)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, in.Role)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}
	user := domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, err
	}
	return &user, nil
}

// Login checks credentials and returns a fresh access token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	} else if err != nil {
		return "", nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}
	token, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// ResolvePrincipal validates token and loads the user it was issued for
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}
	var user domain.User
	err = s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthenticated)
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}

// RequireRole fails with domain.ErrForbidden unless principal holds one of allowed
func RequireRole(principal *domain.User, allowed ...domain.Role) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	switch principal.Role {
	case domain.RoleClient, domain.RoleVendeur, domain.RoleAdmin:
		for _, r := range allowed {
			if r == principal.Role {
				return nil
			}
		}
		return fmt.Errorf("%w: role %s not allowed", domain.ErrForbidden, principal.Role)
	default:
		return fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, principal.Role)
	}
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Address != strings.TrimSpace(raw) {
		return "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return strings.ToLower(addr.Address), nil
}
