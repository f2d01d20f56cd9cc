package commands

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const (
	// shutdownGrace bounds how long a graceful stop may take.
	shutdownGrace = 3 * time.Second
	// interruptedExitCode is the conventional status for a SIGINT kill.
	interruptedExitCode = 130
)

// signalContext returns a context cancelled by the first SIGINT or SIGTERM.
// A second signal, or shutdownGrace elapsing after the first, terminates
// the process with exit code 130. The returned stop function must be
// called once the command is done.
func signalContext(parent context.Context) (context.Context, func()) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	ctx, stop := watchSignals(parent, sigs, shutdownGrace, exitFunc)
	return ctx, func() {
		signal.Stop(sigs)
		stop()
	}
}

// watchSignals implements signalContext over an arbitrary signal channel.
func watchSignals(parent context.Context, sigs <-chan os.Signal, grace time.Duration, exit func(int)) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)

		select {
		case <-sigs:
			cancel()
		case <-done:
			return
		}

		timer := time.NewTimer(grace)
		defer timer.Stop()

		select {
		case <-sigs:
			exit(interruptedExitCode)
		case <-timer.C:
			exit(interruptedExitCode)
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			close(done)
			<-finished
			cancel()
		})
	}
}
