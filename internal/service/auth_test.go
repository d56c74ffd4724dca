package service

import (
	"context"
	"testing"
	"time"

	"drops_api/internal/domain"
	"drops_api/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *utils.TokenService) {
	tokens := utils.NewTokenService("test-secret-that-is-long-enough", time.Hour)
	return NewAuthService(newTestDB(t), tokens), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	user, err := svc.Register(ctx, RegisterInput{FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com", Password: "secret123", Role: domain.RoleClient})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	token, logged, err := svc.Login(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	principal, err := svc.ResolvePrincipal(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, domain.RoleClient, principal.Role)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	ok := RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.io", Password: "secret123", Role: domain.RoleClient}
	_, err := svc.Register(ctx, ok)
	require.NoError(t, err)

	_, err = svc.Register(ctx, ok)
	assert.ErrorIs(t, err, domain.ErrConflict)

	bad := ok
	bad.Email = "not-an-email"
	_, err = svc.Register(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad = ok
	bad.Email = "other@b.io"
	bad.Role = "SUPERUSER"
	_, err = svc.Register(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad = ok
	bad.Email = "third@b.io"
	bad.Password = "123"
	_, err = svc.Register(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	_, err := svc.Register(ctx, RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.io", Password: "secret123", Role: domain.RoleClient})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@b.io", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, _, err = svc.Login(ctx, "nobody@b.io", "secret123")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResolvePrincipalFailures(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService(t)

	expired, err := tokens.IssueToken(1, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = svc.ResolvePrincipal(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	ghost, err := tokens.IssueAccessToken(9999)
	require.NoError(t, err)
	_, err = svc.ResolvePrincipal(ctx, ghost)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.ResolvePrincipal(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResolvePrincipalAfterUserDeleted(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newAuthService(t)
	user := createUser(t, svc.db, domain.RoleClient)
	token, err := tokens.IssueAccessToken(user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.db.Delete(&domain.User{}, user.ID).Error)
	_, err = svc.ResolvePrincipal(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRequireRole(t *testing.T) {
	client := &domain.User{Role: domain.RoleClient}
	admin := &domain.User{Role: domain.RoleAdmin}
	vendor := &domain.User{Role: domain.RoleVendeur}

	assert.NoError(t, RequireRole(admin, domain.RoleAdmin))
	assert.NoError(t, RequireRole(vendor, domain.RoleVendeur, domain.RoleAdmin))
	assert.ErrorIs(t, RequireRole(client, domain.RoleAdmin), domain.ErrForbidden)
	assert.ErrorIs(t, RequireRole(client), domain.ErrForbidden)
	assert.ErrorIs(t, RequireRole(&domain.User{Role: "admin"}, domain.RoleAdmin), domain.ErrForbidden)
	assert.ErrorIs(t, RequireRole(nil, domain.RoleAdmin), domain.ErrUnauthenticated)
}
