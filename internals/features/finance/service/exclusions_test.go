package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"edupay_backend/internals/kv"
)

func TestExclusionLedger(t *testing.T) {
	t.Run("missing scope reads as empty set", func(t *testing.T) {
		l := NewExclusionLedger(kv.NewMemoryStore())
		ids, err := l.Read(1, 2)
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("toggle flips membership", func(t *testing.T) {
		l := NewExclusionLedger(kv.NewMemoryStore())

		excluded, err := l.Toggle(1, 2, 77)
		require.NoError(t, err)
		require.True(t, excluded)

		ids, err := l.Read(1, 2)
		require.NoError(t, err)
		require.Equal(t, []int{77}, ids)

		excluded, err = l.Toggle(1, 2, 77)
		require.NoError(t, err)
		require.False(t, excluded)

		ids, err = l.Read(1, 2)
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("bulk mark adds without touching the rest", func(t *testing.T) {
		l := NewExclusionLedger(kv.NewMemoryStore())
		_, err := l.Toggle(1, 2, 5)
		require.NoError(t, err)

		ids, err := l.BulkSet(1, 2, []int{9, 3, 9, 1}, true)
		require.NoError(t, err)
		require.Equal(t, []int{1, 3, 5, 9}, ids)
	})

	t.Run("bulk unmark removes only the given ids", func(t *testing.T) {
		l := NewExclusionLedger(kv.NewMemoryStore())
		_, err := l.BulkSet(1, 2, []int{1, 3, 5, 9}, true)
		require.NoError(t, err)

		ids, err := l.BulkSet(1, 2, []int{3, 9, 42}, false)
		require.NoError(t, err)
		require.Equal(t, []int{1, 5}, ids)
	})

	t.Run("bulk unmark of everything clears the key", func(t *testing.T) {
		store := kv.NewMemoryStore()
		l := NewExclusionLedger(store)
		_, err := l.BulkSet(1, 2, []int{7}, true)
		require.NoError(t, err)

		ids, err := l.BulkSet(1, 2, []int{7}, false)
		require.NoError(t, err)
		require.Empty(t, ids)
		_, err = store.Get(ExclusionKey(1, 2))
		require.ErrorIs(t, err, kv.ErrKeyNotFound)
	})

	t.Run("scopes are independent", func(t *testing.T) {
		l := NewExclusionLedger(kv.NewMemoryStore())
		_, err := l.Toggle(1, 2, 7)
		require.NoError(t, err)

		ids, err := l.Read(1, 3)
		require.NoError(t, err)
		require.Empty(t, ids)

		ids, err = l.Read(2, 2)
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("clear all drops the scope", func(t *testing.T) {
		store := kv.NewMemoryStore()
		l := NewExclusionLedger(store)
		_, err := l.BulkSet(1, 2, []int{4, 5}, true)
		require.NoError(t, err)

		require.NoError(t, l.ClearAll(1, 2))
		_, err = store.Get(ExclusionKey(1, 2))
		require.ErrorIs(t, err, kv.ErrKeyNotFound)
	})
}
