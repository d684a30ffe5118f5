package store

import (
	"context"
	"testing"
	"time"

	cerrors "github.com/prasit/catalog_service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InMemory_InsertAssignsIDAndEnforcesUniqueness(t *testing.T) {
	s := NewInMemoryStore()
	now := time.Now().UTC()

	first, err := s.Insert(context.Background(), InsertParams{
		ProductCode: "P001", Name: "Widget", Price: 9.99, CreatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, now, first.CreatedAt)

	_, err = s.Insert(context.Background(), InsertParams{
		ProductCode: "P001", Name: "Copy", Price: 1, CreatedAt: now,
	})
	assert.ErrorIs(t, err, cerrors.ErrDuplicateCode)
}

func Test_InMemory_FindByCode(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.Insert(context.Background(), InsertParams{
		ProductCode: "P001", Name: "Widget", Price: 9.99, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	found, err := s.FindByCode(context.Background(), "P001")
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Name)

	_, err = s.FindByCode(context.Background(), "P002")
	assert.ErrorIs(t, err, cerrors.ErrProductNotFound)
}

func Test_InMemory_FindAll_NewestFirstWithTieBreak(t *testing.T) {
	s := NewInMemoryStore()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, p := range []InsertParams{
		{ProductCode: "A", Name: "a", Price: 1, CreatedAt: base},
		{ProductCode: "B", Name: "b", Price: 2, CreatedAt: base.Add(time.Minute)},
		{ProductCode: "C", Name: "c", Price: 3, CreatedAt: base.Add(time.Minute)},
	} {
		_, err := s.Insert(context.Background(), p)
		require.NoError(t, err)
	}

	list, err := s.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].ProductCode)
	assert.Equal(t, "B", list[1].ProductCode)
	assert.Equal(t, "A", list[2].ProductCode)
}

func Test_InMemory_DeleteByCode(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.Insert(context.Background(), InsertParams{
		ProductCode: "P001", Name: "Widget", Price: 9.99, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteByCode(context.Background(), "P001"))
	// second delete on the same code reports not-found
	assert.ErrorIs(t, s.DeleteByCode(context.Background(), "P001"), cerrors.ErrProductNotFound)
}
