package drafts

import (
	"context"
	"testing"
	"time"

	"recepcion/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	d := New(types.FormRecord{OrderID: 1100, Department: "Tesorería"}, time.Now())
	require.NotEmpty(t, d.Token)
	require.NoError(t, s.Save(ctx, d))

	got, err := s.Load(ctx, d.Token)
	require.NoError(t, err)
	assert.Equal(t, "Tesorería", got.Record.Department)

	got.Record.Department = "changed"
	again, err := s.Load(ctx, d.Token)
	require.NoError(t, err)
	assert.Equal(t, "Tesorería", again.Record.Department)

	require.NoError(t, s.Delete(ctx, d.Token))
	_, err = s.Load(ctx, d.Token)
	assert.ErrorIs(t, err, types.ErrDraftNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2025, 5, 15, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	d := New(types.FormRecord{OrderID: 1100}, now)
	require.NoError(t, s.Save(ctx, d))

	now = now.Add(2 * time.Minute)
	_, err := s.Load(ctx, d.Token)
	assert.ErrorIs(t, err, types.ErrDraftNotFound)
}

func TestMemoryStore_Lock(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	unlock, err := s.Lock(ctx, "abc")
	require.NoError(t, err)

	_, err = s.Lock(ctx, "abc")
	assert.ErrorIs(t, err, types.ErrDraftLocked)

	_, err = s.Lock(ctx, "other")
	assert.NoError(t, err)

	unlock()
	unlock2, err := s.Lock(ctx, "abc")
	require.NoError(t, err)
	unlock2()
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "recepcion:draft:abc", draftKey("abc"))
	assert.Equal(t, "recepcion:draft:abc:lock", lockKey("abc"))
}
