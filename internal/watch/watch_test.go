package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/xoniq/internal/testutil"
)

const waitFor = 5 * time.Second

// startWatcher runs w in the background and returns a stop function that
// waits for Run to return.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	var once sync.Once
	var stopErr error
	stop := func() error {
		once.Do(func() {
			cancel()
			select {
			case stopErr = <-done:
			case <-time.After(waitFor):
				stopErr = errors.New("watcher did not stop")
			}
		})
		return stopErr
	}
	t.Cleanup(func() { _ = stop() })
	return stop
}

func TestWatcher_InitialRunAndChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0750))

	runs := make(chan struct{}, 16)
	w := New(Options{
		Dir:        dir,
		Extensions: []string{".sql"},
		Debounce:   20 * time.Millisecond,
		Logger:     testutil.NewTestLogger(t),
	}, func(context.Context) error {
		runs <- struct{}{}
		return nil
	})
	stop := startWatcher(t, w)

	waitRun := func(msg string) {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(waitFor):
			t.Fatal(msg)
		}
	}

	waitRun("initial run did not happen")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a.sql"), []byte("select 1"), 0600))
	waitRun("change to a .sql file did not trigger a run")

	require.NoError(t, stop())
	assert.GreaterOrEqual(t, w.Runs(), int64(2))
}

func TestWatcher_CoalescesTriggersDuringRun(t *testing.T) {
	dir := t.TempDir()

	started := make(chan struct{}, 16)
	release := make(chan struct{})
	var active, overlapped atomic.Int32

	w := New(Options{Dir: dir, Extensions: []string{".sql"}}, func(context.Context) error {
		if active.Add(1) > 1 {
			overlapped.Store(1)
		}
		defer active.Add(-1)
		started <- struct{}{}
		<-release
		return nil
	})
	stop := startWatcher(t, w)

	select {
	case <-started:
	case <-time.After(waitFor):
		t.Fatal("initial run did not start")
	}

	// Three triggers while the first run is blocked.
	w.Trigger()
	w.Trigger()
	w.Trigger()
	close(release)

	select {
	case <-started:
	case <-time.After(waitFor):
		t.Fatal("follow-up run did not start")
	}

	// No further run is queued.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(2), w.Runs())
	assert.Zero(t, overlapped.Load(), "runs must not overlap")

	require.NoError(t, stop())
}

func TestWatcher_RunErrorsDoNotStop(t *testing.T) {
	dir := t.TempDir()
	runs := make(chan struct{}, 16)

	w := New(Options{Dir: dir, Extensions: []string{".sql"}}, func(context.Context) error {
		runs <- struct{}{}
		return errors.New("handler failed")
	})
	stop := startWatcher(t, w)

	<-runs
	w.Trigger()
	select {
	case <-runs:
	case <-time.After(waitFor):
		t.Fatal("watcher stopped after a failed run")
	}
	require.NoError(t, stop())
}

func TestWatcher_MissingDir(t *testing.T) {
	w := New(Options{Dir: filepath.Join(t.TempDir(), "missing")}, func(context.Context) error { return nil })
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}
