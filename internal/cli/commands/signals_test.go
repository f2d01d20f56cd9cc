package commands

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSignals_FirstSignalCancels(t *testing.T) {
	sigs := make(chan os.Signal, 2)
	var exitCode atomic.Int32
	exitCode.Store(-1)

	ctx, stop := watchSignals(context.Background(), sigs, time.Hour, func(code int) {
		exitCode.Store(int32(code))
	})

	sigs <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled by first signal")
	}

	stop()
	assert.Equal(t, int32(-1), exitCode.Load(), "graceful stop must not force an exit")
}

func TestWatchSignals_SecondSignalExits(t *testing.T) {
	sigs := make(chan os.Signal, 2)
	exited := make(chan int, 1)

	ctx, stop := watchSignals(context.Background(), sigs, time.Hour, func(code int) {
		exited <- code
	})
	defer stop()

	sigs <- os.Interrupt
	<-ctx.Done()
	sigs <- os.Interrupt

	select {
	case code := <-exited:
		assert.Equal(t, interruptedExitCode, code)
	case <-time.After(time.Second):
		t.Fatal("second signal did not force an exit")
	}
}

func TestWatchSignals_GraceExpires(t *testing.T) {
	sigs := make(chan os.Signal, 2)
	exited := make(chan int, 1)

	_, stop := watchSignals(context.Background(), sigs, 10*time.Millisecond, func(code int) {
		exited <- code
	})
	defer stop()

	sigs <- os.Interrupt

	select {
	case code := <-exited:
		assert.Equal(t, interruptedExitCode, code)
	case <-time.After(time.Second):
		t.Fatal("grace period did not force an exit")
	}
}

func TestWatchSignals_StopWithoutSignal(t *testing.T) {
	sigs := make(chan os.Signal, 2)
	called := false

	ctx, stop := watchSignals(context.Background(), sigs, time.Millisecond, func(int) {
		called = true
	})

	stop()
	stop() // idempotent

	require.Error(t, ctx.Err())
	assert.False(t, called)
}

func TestWatchSignals_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := watchSignals(parent, make(chan os.Signal), time.Hour, func(int) {})
	defer stop()

	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("parent cancellation not propagated")
	}
}
