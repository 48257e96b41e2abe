package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()
	s := newTestSale(t)
	_, err := s.AddItem(uuid.New(), "Mouse", 2, dec("50"))
	require.NoError(t, err)

	require.NoError(t, storage.Create(ctx, s))

	got, err := storage.Read(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Number, got.Number)
	require.Len(t, got.Items, 1)
	assertDecimal(t, "100", got.Total)

	_, err = storage.Read(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_DoesNotShareState(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()
	s := newTestSale(t)
	item, err := s.AddItem(uuid.New(), "Mouse", 2, dec("50"))
	require.NoError(t, err)
	require.NoError(t, storage.Create(ctx, s))

	require.NoError(t, s.CancelItem(item.ID))

	got, err := storage.Read(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.Items[0].IsCancelled)

	got.Cancel()
	again, err := storage.Read(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, again.IsCancelled)
}

func TestLocalStorage_CreateErrors(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()

	s := newTestSale(t)
	s.ID = uuid.Nil
	assert.ErrorIs(t, storage.Create(ctx, s), ErrEmptyID)

	first := newTestSale(t)
	require.NoError(t, storage.Create(ctx, first))
	second := newTestSale(t)
	assert.ErrorIs(t, storage.Create(ctx, second), ErrDuplicateNumber)
}

func TestLocalStorage_Set(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()
	s := newTestSale(t)

	assert.ErrorIs(t, storage.Set(ctx, s), ErrNotFound)

	require.NoError(t, storage.Create(ctx, s))
	_, err := s.AddItem(uuid.New(), "Cable", 3, dec("10"))
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, s))

	got, err := storage.Read(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assertDecimal(t, "30", got.Total)
}

func TestLocalStorage_GetAll(t *testing.T) {
	ctx := context.Background()
	storage := NewLocalStorage()

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, number := range []string{"S-3", "S-1", "S-2"} {
		s, err := NewSale(number, base, uuid.New(), "Alice", uuid.New(), "Downtown")
		require.NoError(t, err)
		s.CreatedAt = base.Add(time.Duration(3-i) * time.Hour)
		require.NoError(t, storage.Create(ctx, s))
	}

	all, err = storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "S-2", all[0].Number)
	assert.Equal(t, "S-1", all[1].Number)
	assert.Equal(t, "S-3", all[2].Number)
}
