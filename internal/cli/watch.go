package cli

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dkalnins/trackdesk/internal/realtime"
)

// Watch streams live issue changes into the view model and prints the
// refreshed list on every change, until the user presses Enter.
//
// The channel itself never reconnects; this caller layer owns the policy:
// fibonacci backoff capped by ReconnectMaxWait, retrying until the user
// stops watching. Realtime being disabled or unreachable degrades to a
// message, never to a crash.
func (a *App) Watch(ctx context.Context) error {
	if a.config.DisableRealtime {
		printlnFn("Realtime is disabled; watch is unavailable")
		return nil
	}

	if err := a.vm.Hydrate(ctx); err != nil {
		printlnFn("Could not load issues:", err.Error())
		return err
	}

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()

	unsubscribe := a.vm.Subscribe(func() {
		for _, issue := range a.vm.Snapshot() {
			printlnFn(formatIssueLine(issue))
		}
	})
	defer unsubscribe()

	// The user stops watching with Enter; the shared reader is ours until
	// then.
	go func() {
		_, _ = a.reader.ReadString('\n')
		stop()
	}()

	printlnFn("Watching for changes (press Enter to stop)")

	backoff := retry.WithCappedDuration(a.config.ReconnectMaxWait, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(watchCtx, backoff, func(ctx context.Context) error {
		channel, err := realtime.Dial(ctx, a.config.RealtimeURL, a.log)
		if err != nil {
			a.log.Warn(ctx, "realtime dial failed, will retry", "err", err)
			return retry.RetryableError(err)
		}
		defer channel.Close()

		_, events := channel.Subscribe()
		a.vm.Run(ctx, events)

		if ctx.Err() != nil {
			return nil
		}
		cause := channel.Err()
		if cause == nil {
			cause = errors.New("channel closed")
		}
		a.log.Warn(ctx, "channel lost, will retry", "err", cause)
		return retry.RetryableError(cause)
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		printlnFn("Stopped watching:", err.Error())
		return err
	}
	printlnFn("Stopped watching")
	return nil
}
