package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/jury/internal/dto"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/Payphone-Digital/jury/internal/repository"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/google/uuid"
)

type AuthService struct {
	users  *repository.UserRepository
	tokens *repository.RefreshTokenRepository
	issuer *TokenService
	hasher *PasswordHasher
	now    func() time.Time
}

func NewAuthService(users *repository.UserRepository, tokens *repository.RefreshTokenRepository, issuer *TokenService, hasher *PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		issuer: issuer,
		hasher: hasher,
		now:    utcNow,
	}
}

// Login authenticates a live user. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*dto.SessionResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.LogAuth("", "login", false)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		logger.LogAuth(user.ID.String(), "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.LogAuth(user.ID.String(), "login", true)
	return session, nil
}

// openSession mints tokens and stores the refresh token. A storage
// failure is logged and the login still succeeds.
func (s *AuthService) openSession(ctx context.Context, user *model.User) (*dto.SessionResponse, error) {
	pair, err := s.issuer.GenerateTokens(user)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue tokens").
			String("user_id", user.ID.String()).
			Err(err).
			Log()
		return nil, err
	}

	record := &model.RefreshToken{
		TokenHash: HashRefreshToken(pair.RefreshToken),
		UserID:    user.ID,
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: s.now(),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		logger.WarnWithContext(ctx, "Refresh token not persisted; session continues without it").
			String("user_id", user.ID.String()).
			Err(err).
			Log()
	}

	return newSession(pair, user), nil
}

func newSession(pair *TokenPair, user *model.User) *dto.SessionResponse {
	return &dto.SessionResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         dto.NewUserResponse(user),
	}
}

// Register creates an account. The caller logs it in afterwards.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Register")

	role := model.RoleEmployee
	if req.Role != "" {
		parsed, ok := model.ParseRole(req.Role)
		if !ok {
			return nil, apperrors.ErrInvalidInput.WithDetails([]string{"role must be EMPLOYEE or JURY"})
		}
		role = parsed
	}

	user, err := createUser(ctx, s.users, s.hasher, req.Name, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User registered").
		String("user_id", user.ID.String()).
		String("role", role.String()).
		Log()
	return user, nil
}

// createUser is shared by registration and the users endpoint.
func createUser(ctx context.Context, users *repository.UserRepository, hasher *PasswordHasher, name, email, password string, role model.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := users.EmailExists(ctx, email, uuid.Nil)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		return nil, apperrors.ErrEmailExists
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := users.Create(ctx, user); err != nil {
		// lost a race with a concurrent insert of the same email
		if again, checkErr := users.EmailExists(ctx, email, uuid.Nil); checkErr == nil && again {
			return nil, apperrors.ErrEmailExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return user, nil
}

// RefreshToken exchanges an active refresh token for a new session. The
// old token is retired atomically, so a replayed or raced token fails.
func (s *AuthService) RefreshToken(ctx context.Context, token, ip string) (*dto.SessionResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "RefreshToken")

	now := s.now()
	hash := HashRefreshToken(token)

	current, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !current.IsActive(now) {
		logger.WarnWithContext(ctx, "Inactive refresh token presented").
			String("user_id", current.UserID.String()).
			Bool("revoked", current.IsRevoked).
			Log()
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	pair, err := s.issuer.GenerateTokens(user)
	if err != nil {
		return nil, err
	}

	next := &model.RefreshToken{
		TokenHash: HashRefreshToken(pair.RefreshToken),
		UserID:    user.ID,
		ExpiresAt: pair.RefreshExpiresAt,
		CreatedAt: now,
	}
	if err := s.tokens.Rotate(ctx, hash, ip, now, next); err != nil {
		if errors.Is(err, repository.ErrStaleToken) {
			return nil, apperrors.ErrInvalidRefreshToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(user.ID.String(), "refresh", true)
	return newSession(pair, user), nil
}

// RevokeToken retires a refresh token that has not been revoked yet.
func (s *AuthService) RevokeToken(ctx context.Context, token, ip string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "RevokeToken")

	err := s.tokens.Revoke(ctx, HashRefreshToken(token), ip, s.now())
	switch {
	case err == nil:
		logger.InfoWithContext(ctx, "Refresh token revoked").Log()
		return nil
	case errors.Is(err, repository.ErrStaleToken):
		return apperrors.ErrRevokeFailed
	default:
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrUserNotFound)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}
