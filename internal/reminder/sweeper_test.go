package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperStopsOnCancel(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Add("due now", time.Now().Add(-time.Second), "")
	require.NoError(t, err)

	s := NewSweeper(f.engine, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}

	// The immediate tick on start already fired the due reminder.
	all, err := f.engine.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}
