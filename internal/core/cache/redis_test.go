package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestNilCacheLoadsEveryTime(t *testing.T) {
	var c *Cache
	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{Name: "a"}}, nil
	}
	for i := 0; i < 3; i++ {
		got, err := GetOrLoadJSON(c, context.Background(), "team", "k", load)
		require.NoError(t, err)
		assert.Equal(t, "a", got[0].Name)
	}
	assert.Equal(t, 3, calls)

	c.Bump(context.Background(), "team")
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}

func TestNewWithoutAddrDisables(t *testing.T) {
	assert.Nil(t, New("", "", 0, time.Minute))
}

func TestUnreachableRedisFallsBackToLoad(t *testing.T) {
	c := New("127.0.0.1:1", "", 0, time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := GetOrLoadJSON(c, ctx, "projects", "featured", func(context.Context) (item, error) {
		return item{Name: "p"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "p", got.Name)

	boom := errors.New("boom")
	_, err = GetOrLoadJSON(c, ctx, "projects", "other", func(context.Context) (item, error) {
		return item{}, boom
	})
	assert.ErrorIs(t, err, boom)
}
