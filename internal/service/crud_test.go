package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Payphone-Digital/jury/internal/dto"
	apperrors "github.com/Payphone-Digital/jury/internal/errors"
	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPenaltyService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "Ann", "ann@example.com", model.RoleEmployee)

	t.Run("unknown owner", func(t *testing.T) {
		_, err := f.penalties.Create(ctx, &dto.CreatePenaltyRequest{UserID: uuid.New(), Category: "c", Reason: "r", Status: "Open"})
		assert.ErrorIs(t, err, apperrors.ErrOwnerNotFound)
		assert.Empty(t, f.drain(t))
	})

	t.Run("stores and notifies", func(t *testing.T) {
		resp, err := f.penalties.Create(ctx, &dto.CreatePenaltyRequest{UserID: owner.ID, Category: "Late", Reason: "Missed standup", Amount: 500, Status: "Open"})
		require.NoError(t, err)
		require.NotNil(t, resp.User)
		assert.Equal(t, owner.ID, resp.User.ID)
		assert.False(t, resp.Date.IsZero(), "date defaults to now")

		got, err := f.penalties.GetByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, 500, got.Amount)
		assert.Equal(t, "ann@example.com", got.User.Email)

		msgs := f.drain(t)
		require.Len(t, msgs, 1)
		var n Notification
		require.NoError(t, json.Unmarshal(msgs[0].Body, &n))
		assert.Equal(t, NotifyPenaltyCreated, n.Type)
		assert.Equal(t, owner.Email, n.To.Email)
		assert.Equal(t, "Late", n.Data["category"])
		assert.EqualValues(t, 500, n.Data["amount"])
	})
}

func TestPenaltyService_UpdateDeleteRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "Ann", "ann@example.com", model.RoleEmployee)
	created, err := f.penalties.Create(ctx, &dto.CreatePenaltyRequest{UserID: owner.ID, Category: "c", Reason: "r", Amount: 1, Status: "Open"})
	require.NoError(t, err)

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	req := &dto.UpdatePenaltyRequest{ID: created.ID, UserID: owner.ID, Category: "c2", Reason: "r2", Amount: 7, Status: "Paid", Date: date}

	assert.ErrorIs(t, f.penalties.Update(ctx, uuid.New(), req), apperrors.ErrIdentifierMismatch)
	require.NoError(t, f.penalties.Update(ctx, created.ID, req))

	got, err := f.penalties.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paid", got.Status)
	assert.Equal(t, 7, got.Amount)
	assert.True(t, date.Equal(got.Date))

	require.NoError(t, f.penalties.Delete(ctx, created.ID, &owner.ID))
	assert.ErrorIs(t, f.penalties.Delete(ctx, created.ID, &owner.ID), apperrors.ErrNotFound)
	_, err = f.penalties.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, f.penalties.Restore(ctx, created.ID))
	assert.ErrorIs(t, f.penalties.Restore(ctx, created.ID), apperrors.ErrNotDeleted)
}

func TestExpenseService_Amounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "Ann", "ann@example.com", model.RoleEmployee)

	_, err := f.expenses.Create(ctx, &dto.CreateExpenseRequest{
		UserID: owner.ID,
		Bill:   decimal.NewFromInt(-1),
		Status: "Open",
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, []string{"bill must be greater than or equal to 0"}, apperrors.GetDomainError(err).Details)

	resp, err := f.expenses.Create(ctx, &dto.CreateExpenseRequest{
		UserID:          owner.ID,
		TotalCollection: decimal.RequireFromString("1200.50"),
		Bill:            decimal.RequireFromString("800.25"),
		Arrears:         decimal.Zero,
		Status:          "Open",
	})
	require.NoError(t, err)

	got, err := f.expenses.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("800.25").Equal(got.Bill))

	msgs := f.drain(t)
	require.Len(t, msgs, 1)
	var n Notification
	require.NoError(t, json.Unmarshal(msgs[0].Body, &n))
	assert.Equal(t, NotifyExpenseCreated, n.Type)
	assert.Equal(t, "1200.50", n.Data["totalCollection"])
}

func TestAuditLogService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "Ann", "ann@example.com", model.RoleEmployee)

	_, err := f.logs.Create(ctx, &dto.CreateLogRequest{UserID: uuid.New(), Action: "a"})
	assert.ErrorIs(t, err, apperrors.ErrOwnerNotFound)

	entry, err := f.logs.Create(ctx, &dto.CreateLogRequest{UserID: owner.ID, Action: "login", Result: "ok"})
	require.NoError(t, err)

	require.NoError(t, f.logs.Update(ctx, entry.ID, &dto.UpdateLogRequest{ID: entry.ID, UserID: owner.ID, Action: "logout"}))
	page, err := f.logs.List(ctx, &owner.ID, PageQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "logout", page.Items[0].Action)
	assert.Equal(t, owner.ID, page.Items[0].User.ID)
}

func TestTierService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tiers.Create(ctx, &dto.CreateTierRequest{Name: "Gold", CostsJSON: "{not json"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	gold, err := f.tiers.Create(ctx, &dto.CreateTierRequest{Name: "Gold", CostsJSON: `{"monthly":100}`})
	require.NoError(t, err)
	assert.JSONEq(t, `{"monthly":100}`, gold.CostsJSON)

	_, err = f.tiers.Create(ctx, &dto.CreateTierRequest{Name: "gold", CostsJSON: `{}`})
	assert.ErrorIs(t, err, apperrors.ErrTierNameExists)

	silver, err := f.tiers.Create(ctx, &dto.CreateTierRequest{Name: "Silver", CostsJSON: `[]`})
	require.NoError(t, err)

	err = f.tiers.Update(ctx, silver.ID, &dto.UpdateTierRequest{ID: silver.ID, Name: "GOLD", CostsJSON: `[]`})
	assert.ErrorIs(t, err, apperrors.ErrTierNameExists)

	require.NoError(t, f.tiers.Update(ctx, gold.ID, &dto.UpdateTierRequest{ID: gold.ID, Name: "gold", CostsJSON: `{"monthly":120}`}), "renaming to itself")

	require.NoError(t, f.tiers.Delete(ctx, gold.ID, nil))
	_, err = f.tiers.Create(ctx, &dto.CreateTierRequest{Name: "Gold", CostsJSON: `{}`})
	assert.NoError(t, err, "name is free once the tier is deleted")
}

func TestActivityService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	created, err := f.activities.Create(ctx, &dto.CreateActivityRequest{Name: "Retro"})
	require.NoError(t, err)
	assert.True(t, created.Date.After(before))

	later := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	require.NoError(t, f.activities.Update(ctx, created.ID, &dto.UpdateActivityRequest{ID: created.ID, Name: "Retro 2", Date: later}))

	got, err := f.activities.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Retro 2", got.Name)
	assert.True(t, later.Equal(got.Date))

	require.NoError(t, f.activities.Delete(ctx, created.ID, nil))
	_, err = f.activities.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, f.activities.Restore(ctx, created.ID))
}
