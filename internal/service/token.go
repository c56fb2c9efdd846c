package service

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Payphone-Digital/jury/config"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	refreshTokenBytes = 64
	envelopeVersion   = byte(0x01)
	envelopeInfo      = "jury.access-token.enc.v1"
)

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the caller identified by a validated access token. Role
// holds the raw claim; the gate decides whether it is usable.
type Principal struct {
	UserID    uuid.UUID
	Name      string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// ParsedRole returns the role if the claim names a known role exactly.
func (p *Principal) ParsedRole() (model.Role, bool) {
	if p == nil {
		return "", false
	}
	return model.ParseRole(p.Role)
}

// TokenPair is the credential set handed to a client on login.
type TokenPair struct {
	AccessToken      string
	ExpiresAt        time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenService mints and validates access tokens with the keys of the
// current configuration snapshot.
type TokenService struct {
	cfg *config.Provider
	now func() time.Time
}

func NewTokenService(cfg *config.Provider) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

// WithClock replaces time.Now, for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// GenerateTokens issues an access token and a fresh refresh token.
func (s *TokenService) GenerateTokens(user *model.User) (*TokenPair, error) {
	access, expiresAt, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		ExpiresAt:        expiresAt,
		RefreshToken:     refresh,
		RefreshExpiresAt: s.now().UTC().Add(RefreshTokenTTL),
	}, nil
}

// GenerateAccessToken signs a 15 minute HS256 token for user, sealed when
// token encryption is on.
func (s *TokenService) GenerateAccessToken(user *model.User) (string, time.Time, error) {
	auth := s.cfg.Auth()
	if !config.IsAuthEnabled(auth) {
		return "", time.Time{}, apperrors.ErrAuthConfig
	}
	signingKey, err := auth.SigningKeyBytes()
	if err != nil {
		return "", time.Time{}, apperrors.WrapError(apperrors.ErrAuthConfig, err)
	}

	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(AccessTokenTTL)

	claims := AccessClaims{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if auth.Issuer != "" {
		claims.Issuer = auth.Issuer
	}
	if auth.Audience != "" {
		claims.Audience = jwt.ClaimStrings{auth.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	if !auth.EncryptAccessToken {
		return signed, expiresAt, nil
	}
	sealed, err := seal(auth, []byte(signed))
	if err != nil {
		return "", time.Time{}, err
	}
	return sealed, expiresAt, nil
}

// ValidateToken checks signature, algorithm, expiry with clock skew, and
// issuer and audience when configured. Every failure is ErrInvalidToken.
func (s *TokenService) ValidateToken(token string) (*Principal, error) {
	auth := s.cfg.Auth()
	if !config.IsAuthEnabled(auth) {
		return nil, apperrors.ErrAuthConfig
	}

	raw, err := s.open(auth, token)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithLeeway(auth.ClockSkew()),
		jwt.WithExpirationRequired(),
	}
	if auth.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(auth.Issuer))
	}
	if auth.Audience != "" {
		opts = append(opts, jwt.WithAudience(auth.Audience))
	}

	claims, err := s.parse(auth, raw, opts...)
	if err != nil {
		return nil, err
	}
	return claimsToPrincipal(claims)
}

// PrincipalFromExpiredToken verifies the signature and algorithm, plus
// issuer and audience when configured, but ignores expiry.
func (s *TokenService) PrincipalFromExpiredToken(token string) (*Principal, error) {
	auth := s.cfg.Auth()
	if !config.IsAuthEnabled(auth) {
		return nil, apperrors.ErrAuthConfig
	}

	raw, err := s.open(auth, token)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	claims, err := s.parse(auth, raw,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, err
	}

	// claims validation is off, so iss and aud are checked here
	if auth.Issuer != "" && claims.Issuer != auth.Issuer {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, jwt.ErrTokenInvalidIssuer)
	}
	if auth.Audience != "" && !containsString(claims.Audience, auth.Audience) {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, jwt.ErrTokenInvalidAudience)
	}
	return claimsToPrincipal(claims)
}

func (s *TokenService) parse(auth config.AuthConfig, raw string, opts ...jwt.ParserOption) (*AccessClaims, error) {
	signingKey, err := auth.SigningKeyBytes()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrAuthConfig, err)
	}

	claims := &AccessClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return signingKey, nil
	}, opts...)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}
	return claims, nil
}

// open undoes seal when encryption is on.
func (s *TokenService) open(auth config.AuthConfig, token string) (string, error) {
	if token == "" {
		return "", errors.New("empty token")
	}
	if !auth.EncryptAccessToken {
		return token, nil
	}

	blob, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("decode envelope: %w", err)
	}
	if len(blob) < 1+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead || blob[0] != envelopeVersion {
		return "", errors.New("malformed envelope")
	}

	aead, err := envelopeCipher(auth)
	if err != nil {
		return "", err
	}
	nonce := blob[1 : 1+chacha20poly1305.NonceSizeX]
	plain, err := aead.Open(nil, nonce, blob[1+chacha20poly1305.NonceSizeX:], blob[:1])
	if err != nil {
		return "", fmt.Errorf("open envelope: %w", err)
	}
	return string(plain), nil
}

// seal encrypts with XChaCha20-Poly1305. The blob is the version byte,
// the nonce, then the ciphertext; the version byte is the associated data.
func seal(auth config.AuthConfig, plaintext []byte) (string, error) {
	aead, err := envelopeCipher(auth)
	if err != nil {
		return "", err
	}

	blob := make([]byte, 1+chacha20poly1305.NonceSizeX, 1+chacha20poly1305.NonceSizeX+len(plaintext)+aead.Overhead())
	blob[0] = envelopeVersion
	if _, err := rand.Read(blob[1:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	blob = aead.Seal(blob, blob[1:], plaintext, blob[:1])
	return base64.RawURLEncoding.EncodeToString(blob), nil
}

func envelopeCipher(auth config.AuthConfig) (cipher.AEAD, error) {
	secret, err := auth.EncryptionKeyBytes()
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrAuthConfig, err)
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(envelopeInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return chacha20poly1305.NewX(key)
}

func claimsToPrincipal(claims *AccessClaims) (*Principal, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	p := &Principal{
		UserID:  userID,
		Name:    claims.Name,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// GenerateRefreshToken returns 64 random bytes in standard base64.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// HashRefreshToken is the digest stored in place of the token.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
