package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/jury/config"
	"github.com/Payphone-Digital/jury/internal/dto"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, &dto.RegisterRequest{Name: " Ann ", Email: "Ann@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, model.RoleEmployee, user.Role)

	session, err := f.auth.Login(ctx, "ANN@example.com", "secret1", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, user.ID, session.User.ID)
	assert.WithinDuration(t, time.Now().Add(AccessTokenTTL), session.ExpiresAt, 5*time.Second)

	p, err := f.tokens.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.UserID)

	stored, err := f.tokensRepo.GetByHash(ctx, HashRefreshToken(session.RefreshToken))
	require.NoError(t, err)
	assert.False(t, stored.IsRevoked)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, &dto.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Name: "Other", Email: "ANN@EXAMPLE.COM", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrEmailExists)
}

func TestAuthService_RegisterRole(t *testing.T) {
	f := newFixture(t)

	user, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Name: "J", Email: "j@example.com", Password: "secret1", Role: "JURY"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleJury, user.Role)

	_, err = f.auth.Register(context.Background(), &dto.RegisterRequest{Name: "K", Email: "k@example.com", Password: "secret1", Role: "jury"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "Ann", "ann@example.com", model.RoleEmployee)

	tests := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@example.com", "secret1"},
		{"wrong password", "ann@example.com", "wrong-password"},
		{"empty password", "ann@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Login(context.Background(), tt.email, tt.password, "ip")
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_GhostLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "Ghost", "ghost@example.com", model.RoleEmployee)

	session, err := f.auth.Login(ctx, "ghost@example.com", "secret1", "ip")
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, user.ID, nil))

	_, err = f.auth.Login(ctx, "ghost@example.com", "secret1", "ip")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.auth.RefreshToken(ctx, session.RefreshToken, "ip")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)

	_, err = f.auth.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAuthService_RefreshRotation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "Ann", "ann@example.com", model.RoleJury)

	first, err := f.auth.Login(ctx, "ann@example.com", "secret1", "1.1.1.1")
	require.NoError(t, err)

	second, err := f.auth.RefreshToken(ctx, first.RefreshToken, "2.2.2.2")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	old, err := f.tokensRepo.GetByHash(ctx, HashRefreshToken(first.RefreshToken))
	require.NoError(t, err)
	assert.True(t, old.IsRevoked)
	assert.Equal(t, "2.2.2.2", old.RevokedByIP)
	assert.Equal(t, HashRefreshToken(second.RefreshToken), old.ReplacedByTokenHash)

	_, err = f.auth.RefreshToken(ctx, first.RefreshToken, "3.3.3.3")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken, "replayed token")

	_, err = f.auth.RefreshToken(ctx, "not-a-token", "3.3.3.3")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestAuthService_RefreshExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "Ann", "ann@example.com", model.RoleJury)

	session, err := f.auth.Login(ctx, "ann@example.com", "secret1", "ip")
	require.NoError(t, err)

	f.auth.now = func() time.Time { return time.Now().UTC().Add(RefreshTokenTTL + time.Minute) }
	_, err = f.auth.RefreshToken(ctx, session.RefreshToken, "ip")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestAuthService_RefreshRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "Ann", "ann@example.com", model.RoleJury)

	session, err := f.auth.Login(ctx, "ann@example.com", "secret1", "ip")
	require.NoError(t, err)

	const racers = 4
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.auth.RefreshToken(ctx, session.RefreshToken, "ip"); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestAuthService_Revoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "Ann", "ann@example.com", model.RoleJury)

	session, err := f.auth.Login(ctx, "ann@example.com", "secret1", "ip")
	require.NoError(t, err)

	require.NoError(t, f.auth.RevokeToken(ctx, session.RefreshToken, "9.9.9.9"))
	assert.ErrorIs(t, f.auth.RevokeToken(ctx, session.RefreshToken, "9.9.9.9"), apperrors.ErrRevokeFailed)
	assert.ErrorIs(t, f.auth.RevokeToken(ctx, "unknown", "9.9.9.9"), apperrors.ErrRevokeFailed)

	_, err = f.auth.RefreshToken(ctx, session.RefreshToken, "ip")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestAuthService_AuthDisabled(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "Ann", "ann@example.com", model.RoleJury)

	disabled := NewTokenService(testProvider(config.AuthConfig{}))
	svc := NewAuthService(f.usersRepo, f.tokensRepo, disabled, f.hasher)

	_, err := svc.Login(context.Background(), "ann@example.com", "secret1", "ip")
	assert.ErrorIs(t, err, apperrors.ErrAuthConfig)
}
