// Package issues keeps the authoritative in-memory issue list shown to the
// user, reconciling REST snapshots with realtime change hints. Events are
// never trusted as issue state; they only tell us what to refetch.
package issues

import (
	"context"
	"errors"
	"sync"

	"github.com/dkalnins/trackdesk/internal/api"
	"github.com/dkalnins/trackdesk/internal/logging"
	"github.com/dkalnins/trackdesk/internal/models"
)

// GenerationSource reports the session's login/logout transition counter.
// The view model captures it before every fetch and discards results when
// it moved, so data from a torn-down session never lands in the list.
type GenerationSource interface {
	Generation() uint64
}

// ViewModel owns the reconciled issue collection. The gateway and the
// realtime channel only feed it; nothing else mutates the list.
type ViewModel struct {
	client api.Client
	gen    GenerationSource
	log    logging.Logger

	mu      sync.Mutex
	items   []models.Issue
	pending map[int64]struct{}
	subs    map[int]func()
	nextSub int
}

func New(client api.Client, gen GenerationSource, log logging.Logger) *ViewModel {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ViewModel{
		client:  client,
		gen:     gen,
		log:     log.With("component", "issues"),
		pending: make(map[int64]struct{}),
		subs:    make(map[int]func()),
	}
}

// Snapshot returns a copy of the current list in server order.
func (vm *ViewModel) Snapshot() []models.Issue {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]models.Issue, len(vm.items))
	copy(out, vm.items)
	return out
}

// Subscribe registers a change observer. The returned function removes it.
func (vm *ViewModel) Subscribe(fn func()) func() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	id := vm.nextSub
	vm.nextSub++
	vm.subs[id] = fn
	return func() {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		delete(vm.subs, id)
	}
}

// Hydrate replaces the collection wholesale from a fresh list fetch. Used
// on initial load and whenever an event gives no usable issue id.
func (vm *ViewModel) Hydrate(ctx context.Context) error {
	before := vm.gen.Generation()
	fetched, err := vm.client.ListIssues(ctx)
	if err != nil {
		return err
	}
	if vm.gen.Generation() != before {
		vm.log.Debug(ctx, "discarding stale list fetch")
		return nil
	}

	vm.mu.Lock()
	vm.items = fetched
	notify := vm.snapshotSubs()
	vm.mu.Unlock()

	vm.notifyAll(notify)
	return nil
}

// Apply reconciles one realtime event. An event naming an issue triggers a
// targeted refetch of just that entry; anything else forces a full
// rehydrate. Rapid events for the same issue coalesce: while a refetch for
// an id is pending, further events for it are absorbed.
func (vm *ViewModel) Apply(ctx context.Context, ev models.Event) error {
	if ev.IssueID <= 0 {
		return vm.Hydrate(ctx)
	}

	vm.mu.Lock()
	if _, inFlight := vm.pending[ev.IssueID]; inFlight {
		vm.mu.Unlock()
		return nil
	}
	vm.pending[ev.IssueID] = struct{}{}
	vm.mu.Unlock()

	defer func() {
		vm.mu.Lock()
		delete(vm.pending, ev.IssueID)
		vm.mu.Unlock()
	}()

	before := vm.gen.Generation()
	issue, err := vm.client.GetIssue(ctx, ev.IssueID)
	if err != nil {
		var serr *api.StatusError
		if errors.As(err, &serr) && serr.Status == 404 {
			// The issue is gone; drop our copy.
			vm.remove(ev.IssueID)
			return nil
		}
		return err
	}
	if vm.gen.Generation() != before {
		vm.log.Debug(ctx, "discarding stale issue fetch", "id", ev.IssueID)
		return nil
	}

	vm.mu.Lock()
	replaced := false
	for i := range vm.items {
		if vm.items[i].ID == issue.ID {
			vm.items[i] = issue
			replaced = true
			break
		}
	}
	if !replaced {
		vm.items = append(vm.items, issue)
	}
	notify := vm.snapshotSubs()
	vm.mu.Unlock()

	vm.notifyAll(notify)
	return nil
}

// Run consumes events until the context ends or the channel closes. Apply
// failures are logged and skipped; a broken refetch must not kill the
// consumer loop.
func (vm *ViewModel) Run(ctx context.Context, events <-chan models.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := vm.Apply(ctx, ev); err != nil {
				vm.log.Warn(ctx, "event reconciliation failed", "id", ev.IssueID, "err", err)
			}
		}
	}
}

func (vm *ViewModel) remove(id int64) {
	vm.mu.Lock()
	for i := range vm.items {
		if vm.items[i].ID == id {
			vm.items = append(vm.items[:i], vm.items[i+1:]...)
			break
		}
	}
	notify := vm.snapshotSubs()
	vm.mu.Unlock()
	vm.notifyAll(notify)
}

func (vm *ViewModel) snapshotSubs() []func() {
	out := make([]func(), 0, len(vm.subs))
	for _, fn := range vm.subs {
		out = append(out, fn)
	}
	return out
}

func (vm *ViewModel) notifyAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
