package database

import (
	"context"

	"github.com/Payphone-Digital/jury/pkg/logger"
	"gorm.io/gorm"
)

// partialIndexes cover the hot list queries, which all filter on
// is_deleted = false.
var partialIndexes = []string{
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_penalties_user_date_live ON penalties(user_id, date DESC, created_at DESC) WHERE is_deleted = false;",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_expenses_user_date_live ON expenses(user_id, date DESC, created_at DESC) WHERE is_deleted = false;",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_logs_user_created_live ON logs(user_id, created_at DESC) WHERE is_deleted = false;",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_activities_date_live ON activities(date) WHERE is_deleted = false;",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_users_role_live ON users(role) WHERE is_deleted = false;",
	"CREATE UNIQUE INDEX CONCURRENTLY IF NOT EXISTS idx_tiers_name_live ON tiers(lower(name)) WHERE is_deleted = false;",
	"CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_refresh_tokens_user_active ON refresh_tokens(user_id, expires_at) WHERE is_revoked = false;",
}

// OptimizedIndexes creates the partial indexes on postgres. Other drivers
// rely on the indexes declared on the models.
func OptimizedIndexes(ctx context.Context, db *gorm.DB) {
	if db.Dialector.Name() != DriverPostgres {
		return
	}

	for _, indexSQL := range partialIndexes {
		if err := db.WithContext(ctx).Exec(indexSQL).Error; err != nil {
			logger.WarnWithContext(ctx, "Failed to create index").
				String("sql", indexSQL).
				Err(err).
				Log()
		}
	}
}
