package service

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/jury/config"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/Payphone-Digital/jury/internal/repository"
	"github.com/Payphone-Digital/jury/internal/testutil"
	"github.com/Payphone-Digital/jury/pkg/mailer"
	"github.com/Payphone-Digital/jury/pkg/queue"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testTopic = "jury.notifications.test"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SigningKey:         base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		EncryptionKey:      base64.StdEncoding.EncodeToString([]byte("fedcba9876543210fedcba9876543210")),
		ClockSkewMinutes:   config.DefaultClockSkewMinutes,
		EncryptAccessToken: true,
	}
}

func testProvider(auth config.AuthConfig) *config.Provider {
	return config.StaticProvider(&config.Config{Auth: auth})
}

type fixture struct {
	db     *gorm.DB
	broker *queue.Memory

	usersRepo      *repository.UserRepository
	tokensRepo     *repository.RefreshTokenRepository
	penaltiesRepo  *repository.PenaltyRepository
	expensesRepo   *repository.ExpenseRepository
	logsRepo       *repository.AuditLogRepository
	tiersRepo      *repository.TierRepository
	activitiesRepo *repository.ActivityRepository

	provider *config.Provider
	hasher   *PasswordHasher
	tokens   *TokenService
	notifier *Notifier

	auth       *AuthService
	users      *UserService
	penalties  *PenaltyService
	expenses   *ExpenseService
	logs       *AuditLogService
	tiers      *TierService
	activities *ActivityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	broker := queue.NewMemory(64)
	t.Cleanup(func() { _ = broker.Close() })

	f := &fixture{
		db:             db,
		broker:         broker,
		usersRepo:      repository.NewUserRepository(db),
		tokensRepo:     repository.NewRefreshTokenRepository(db),
		penaltiesRepo:  repository.NewPenaltyRepository(db),
		expensesRepo:   repository.NewExpenseRepository(db),
		logsRepo:       repository.NewAuditLogRepository(db),
		tiersRepo:      repository.NewTierRepository(db),
		activitiesRepo: repository.NewActivityRepository(db),
		provider:       testProvider(testAuthConfig()),
		hasher:         NewPasswordHasher(bcrypt.MinCost),
	}
	f.tokens = NewTokenService(f.provider)
	f.notifier = NewNotifier(broker, testTopic)

	f.auth = NewAuthService(f.usersRepo, f.tokensRepo, f.tokens, f.hasher)
	f.users = NewUserService(f.usersRepo, f.hasher)
	f.penalties = NewPenaltyService(f.penaltiesRepo, f.usersRepo, f.notifier)
	f.expenses = NewExpenseService(f.expensesRepo, f.usersRepo, f.notifier)
	f.logs = NewAuditLogService(f.logsRepo, f.usersRepo)
	f.tiers = NewTierService(f.tiersRepo)
	f.activities = NewActivityService(f.activitiesRepo)
	return f
}

func (f *fixture) createUser(t *testing.T, name, email string, role model.Role) *model.User {
	t.Helper()
	user, err := createUser(context.Background(), f.usersRepo, f.hasher, name, email, "secret1", role)
	require.NoError(t, err)
	return user
}

// drain returns the notifications waiting on the test topic.
func (f *fixture) drain(t *testing.T) []queue.Message {
	t.Helper()
	var out []queue.Message
	n := f.broker.Len(testTopic)
	if n == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = f.broker.Consume(ctx, testTopic, func(_ context.Context, msg queue.Message) error {
		out = append(out, msg)
		if len(out) == n {
			cancel()
		}
		return nil
	})
	return out
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}
