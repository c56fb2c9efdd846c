package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Payphone-Digital/jury/internal/constants"
	"github.com/Payphone-Digital/jury/internal/repository"
	"github.com/Payphone-Digital/jury/pkg/cache"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/Payphone-Digital/jury/pkg/redis"
)

// Deduper claims a key for ttl. It reports false when the key was
// already claimed.
type Deduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type redisDeduper struct{ client *redis.Client }

func (d redisDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return d.client.SetNX(ctx, key, 1, ttl)
}

type cacheDeduper struct{ cache *cache.Cache }

func (d cacheDeduper) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	return d.cache.SetIfAbsent(key, struct{}{}, ttl), nil
}

// NewDeduper prefers Redis so replicas share claims, falling back to the
// in-process cache when Redis is off.
func NewDeduper(client *redis.Client, fallback *cache.Cache) Deduper {
	if client.Enabled() {
		return redisDeduper{client: client}
	}
	return cacheDeduper{cache: fallback}
}

// ReminderScheduler enqueues reminders for activities close to now.
type ReminderScheduler struct {
	activities *repository.ActivityRepository
	users      *repository.UserRepository
	notifier   *Notifier
	dedupe     Deduper
	interval   time.Duration
	window     time.Duration
	now        func() time.Time
}

func NewReminderScheduler(activities *repository.ActivityRepository, users *repository.UserRepository, notifier *Notifier, dedupe Deduper, interval, window time.Duration) *ReminderScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if window <= 0 {
		window = time.Hour
	}
	return &ReminderScheduler{
		activities: activities,
		users:      users,
		notifier:   notifier,
		dedupe:     dedupe,
		interval:   interval,
		window:     window,
		now:        utcNow,
	}
}

// Run ticks until ctx is cancelled. A failed tick is logged and the loop
// carries on.
func (s *ReminderScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.GetLogger().Info("Reminder scheduler started")
	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.ErrorWithContext(ctx, "Reminder tick failed").Err(err).Log()
		}
		select {
		case <-ctx.Done():
			logger.GetLogger().Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce enqueues one reminder per live user for each live activity in
// [now-window, now+window] and returns how many were enqueued.
func (s *ReminderScheduler) RunOnce(ctx context.Context) (int, error) {
	ctx = ctxutil.WithFunction(ctx, "worker", "ActivityReminders")

	now := s.now()
	activities, err := s.activities.ListInWindow(ctx, now.Add(-s.window), now.Add(s.window))
	if err != nil {
		return 0, err
	}
	if len(activities) == 0 {
		return 0, nil
	}

	users, err := s.users.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range activities {
		activity := &activities[i]
		for j := range users {
			user := &users[j]
			key := fmt.Sprintf("%s%s:%s", constants.CacheKeyReminder, activity.ID, user.ID)
			first, err := s.dedupe.Claim(ctx, key, 3*s.window)
			if err != nil {
				logger.WarnWithContext(ctx, "Reminder dedupe unavailable; skipping").
					String("activity_id", activity.ID.String()).
					Err(err).
					Log()
				continue
			}
			if !first {
				continue
			}

			s.notifier.Notify(ctx, NotifyActivityReminder, recipientOf(user), map[string]any{
				"activityId":  activity.ID,
				"name":        activity.Name,
				"description": activity.Description,
				"date":        activity.Date,
			})
			sent++
		}
	}

	logger.InfoWithContext(ctx, "Activity reminders enqueued").
		Int("activities", len(activities)).
		Int("users", len(users)).
		Int("sent", sent).
		Log()
	return sent, nil
}
