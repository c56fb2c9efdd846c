package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/jury/internal/model"
	"github.com/Payphone-Digital/jury/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSoftDeleteAndRestore(t *testing.T) {
	db := testutil.NewDB(t)
	tiers := NewTierRepository(db)
	ctx := context.Background()

	tier := &model.Tier{Name: "Gold", Costs: datatypes.JSON(`{"monthly":10}`)}
	require.NoError(t, tiers.Create(ctx, tier))

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"restore live row", func() error { return tiers.Restore(ctx, tier.ID) }, ErrNotDeleted},
		{"delete", func() error { return tiers.SoftDelete(ctx, tier.ID, time.Now().UTC(), nil) }, nil},
		{"delete twice", func() error { return tiers.SoftDelete(ctx, tier.ID, time.Now().UTC(), nil) }, ErrNotFound},
		{"restore", func() error { return tiers.Restore(ctx, tier.ID) }, nil},
		{"restore twice", func() error { return tiers.Restore(ctx, tier.ID) }, ErrNotDeleted},
		{"delete unknown", func() error { return tiers.SoftDelete(ctx, uuid.New(), time.Now().UTC(), nil) }, ErrNotFound},
		{"restore unknown", func() error { return tiers.Restore(ctx, uuid.New()) }, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTierRepository_NameExists(t *testing.T) {
	db := testutil.NewDB(t)
	tiers := NewTierRepository(db)
	ctx := context.Background()

	gold := &model.Tier{Name: "Gold"}
	require.NoError(t, tiers.Create(ctx, gold))

	exists, err := tiers.NameExists(ctx, "gOLD", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = tiers.NameExists(ctx, "gold", gold.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, tiers.SoftDelete(ctx, gold.ID, time.Now().UTC(), nil))
	exists, err = tiers.NameExists(ctx, "Gold", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestActivityRepository_ListInWindow(t *testing.T) {
	db := testutil.NewDB(t)
	activities := NewActivityRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	soon := &model.Activity{Name: "soon", Date: now.Add(30 * time.Minute)}
	late := &model.Activity{Name: "late", Date: now.Add(5 * time.Hour)}
	gone := &model.Activity{Name: "gone", Date: now.Add(10 * time.Minute)}
	for _, a := range []*model.Activity{soon, late, gone} {
		require.NoError(t, activities.Create(ctx, a))
	}
	require.NoError(t, activities.SoftDelete(ctx, gone.ID, now, nil))

	found, err := activities.ListInWindow(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "soon", found[0].Name)
}
