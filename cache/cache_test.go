package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"voterlookup/records"
)

func TestMemoize(t *testing.T) {
	mr := miniredis.RunT(t)
	client := New(mr.Addr())
	ctx := context.Background()

	calls := 0
	lookup := func() ([]records.Summary, error) {
		calls++
		return []records.Summary{{Name: "Jane Doe", City: "Austin"}}, nil
	}

	key := Key("Jane Doe", "", "78701")

	first, err := Memoize(ctx, client, key, time.Minute, lookup)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, calls)

	second, err := Memoize(ctx, client, key, time.Minute, lookup)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls, "a warm cache must not re-run the lookup")
}

func TestMemoizeDistinctKeys(t *testing.T) {
	require.NotEqual(t, Key("Jane Doe"), Key("John Doe"))
	require.NotEqual(t, Key("Jane", "Doe"), Key("JaneDoe"))
}

func TestMemoizeUnreachableRedis(t *testing.T) {
	client := New("127.0.0.1:1") // nothing listens here
	calls := 0
	out, err := Memoize(context.Background(), client, Key("x"), time.Minute, func() (string, error) {
		calls++
		return "fresh", nil
	})
	require.NoError(t, err)
	require.Equal(t, "fresh", out)
	require.Equal(t, 1, calls, "a broken cache falls through to the function")
}
