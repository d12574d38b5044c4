package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voterlookup/records"
)

func TestRunDirectPausesBetweenQueries(t *testing.T) {
	var calls []time.Time
	search := func(name string) ([]records.Summary, error) {
		calls = append(calls, time.Now())
		if name == "John Doe" {
			return nil, errors.New("portal hiccup")
		}
		return []records.Summary{{Name: name}}, nil
	}

	const pause = 50 * time.Millisecond
	err := runDirect([]string{"Jane Doe", "John Doe", "Mary Major"}, search, pause, zap.NewNop())
	require.NoError(t, err)

	// Every name is queried, a failed one included, with the fixed pause
	// between consecutive submissions.
	require.Len(t, calls, 3)
	for i := 1; i < len(calls); i++ {
		require.GreaterOrEqual(t, calls[i].Sub(calls[i-1]), pause,
			"queries %d and %d ran back to back", i-1, i)
	}
}
