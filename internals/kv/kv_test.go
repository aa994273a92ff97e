package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Run("get missing key", func(t *testing.T) {
		s := NewMemoryStore()
		_, err := s.Get("nope")
		require.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set("a", []byte(`{"x":1}`)))
		v, err := s.Get("a")
		require.NoError(t, err)
		require.JSONEq(t, `{"x":1}`, string(v))
	})

	t.Run("overwrite", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set("a", []byte(`1`)))
		require.NoError(t, s.Set("a", []byte(`2`)))
		v, err := s.Get("a")
		require.NoError(t, err)
		require.Equal(t, "2", string(v))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set("a", []byte(`1`)))
		require.NoError(t, s.Delete("a"))
		require.NoError(t, s.Delete("a"))
		_, err := s.Get("a")
		require.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("stored value is isolated from caller slice", func(t *testing.T) {
		s := NewMemoryStore()
		buf := []byte(`abc`)
		require.NoError(t, s.Set("a", buf))
		buf[0] = 'z'
		v, err := s.Get("a")
		require.NoError(t, err)
		require.Equal(t, "abc", string(v))
	})
}
