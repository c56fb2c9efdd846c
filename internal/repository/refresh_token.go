package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"gorm.io/gorm"
)

type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateRefreshToken")

	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to store refresh token").
			String("user_id", token.UserID.String()).
			Err(err).
			Log()
		return err
	}
	return nil
}

// GetByHash looks a token up by its digest, in any state.
func (r *RefreshTokenRepository) GetByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	var token model.RefreshToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Rotate retires oldHash in favour of next within one transaction. The
// retirement is a conditional update on the token still being active at
// now, so of two concurrent rotations exactly one succeeds and the other
// gets ErrStaleToken.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldHash, ip string, now time.Time, next *model.RefreshToken) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "RotateRefreshToken")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.RefreshToken{}).
			Where("token_hash = ? AND is_revoked = ? AND expires_at > ?", oldHash, false, now).
			Updates(map[string]interface{}{
				"is_revoked":             true,
				"revoked_at":             now,
				"revoked_by_ip":          ip,
				"replaced_by_token_hash": next.TokenHash,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrStaleToken
		}
		return tx.Create(next).Error
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh token rotation rejected").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Refresh token rotated").
		String("user_id", next.UserID.String()).
		Duration(time.Since(start)).
		Log()
	return nil
}

// Revoke marks a not yet revoked token as revoked. Expired tokens can
// still be revoked. A missing or already revoked token yields
// ErrStaleToken.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, hash, ip string, now time.Time) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "RevokeRefreshToken")

	res := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("token_hash = ? AND is_revoked = ?", hash, false).
		Updates(map[string]interface{}{
			"is_revoked":    true,
			"revoked_at":    now,
			"revoked_by_ip": ip,
		})
	if res.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke refresh token").
			Err(res.Error).
			Log()
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleToken
	}
	return nil
}
