// Package watcher follows one order by polling its status at a pace that
// depends on how close the order is to delivery.
package watcher

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// Fetcher reads the current status of an order.
type Fetcher interface {
	FetchStatus(ctx context.Context, orderID string) (model.OrderStatus, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, orderID string) (model.OrderStatus, error)

// FetchStatus calls f.
func (f FetcherFunc) FetchStatus(ctx context.Context, orderID string) (model.OrderStatus, error) {
	return f(ctx, orderID)
}

// Options tunes a watcher. The zero value uses DefaultIntervals.
type Options struct {
	// Intervals overrides the polling interval of individual statuses.
	Intervals map[model.OrderStatus]time.Duration
	Logger    *slog.Logger
}

// DefaultIntervals returns the polling interval per non-terminal status.
func DefaultIntervals() map[model.OrderStatus]time.Duration {
	return map[model.OrderStatus]time.Duration{
		model.OrderStatusPending:    30 * time.Second,
		model.OrderStatusConfirmed:  15 * time.Second,
		model.OrderStatusProcessing: 3 * time.Second,
		model.OrderStatusDelivered:  5 * time.Second,
	}
}

type timerFunc func(d time.Duration) (<-chan time.Time, func() bool)

func realTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// Watcher is a running poll loop for one order.
type Watcher struct {
	orderID   string
	fetcher   Fetcher
	onChange  func(from, to model.OrderStatus)
	onNotify  func(Notification)
	intervals map[model.OrderStatus]time.Duration
	logger    *slog.Logger
	newTimer  timerFunc

	cancel   context.CancelFunc
	refresh  chan chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// inCallback is set while onChange or onNotify runs on the loop.
	inCallback atomic.Bool
	again      atomic.Bool

	mu    sync.Mutex
	last  model.OrderStatus
	known bool
}

// Watch starts polling orderID. The first fetch only records the baseline;
// later fetches that observe a different status call onChange and emit one
// notification. Polling ends on a terminal status, when ctx is done, or on Stop.
func Watch(ctx context.Context, fetcher Fetcher, orderID string, onChange func(from, to model.OrderStatus), onNotify func(Notification), opts Options) *Watcher {
	return start(ctx, fetcher, orderID, onChange, onNotify, opts, realTimer)
}

func start(ctx context.Context, fetcher Fetcher, orderID string, onChange func(from, to model.OrderStatus), onNotify func(Notification), opts Options, newTimer timerFunc) *Watcher {
	intervals := DefaultIntervals()
	for status, d := range opts.Intervals {
		if d > 0 {
			intervals[status] = d
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		orderID:   orderID,
		fetcher:   fetcher,
		onChange:  onChange,
		onNotify:  onNotify,
		intervals: intervals,
		logger:    logger.With(slog.String("order_id", orderID)),
		newTimer:  newTimer,
		cancel:    cancel,
		refresh:   make(chan chan struct{}),
		done:      make(chan struct{}),
	}
	go w.run(ctx)
	return w
}

// Stop cancels the loop and waits for it to exit. Safe to call repeatedly.
func (w *Watcher) Stop() {
	w.stopOnce.Do(w.cancel)
	<-w.done
}

// Done is closed once the loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Refresh performs one fetch now without touching the pending timer.
// It returns after the fetch, or immediately when the watcher has stopped.
// Called while a callback runs, it queues the fetch for when the callback
// returns and does not wait.
func (w *Watcher) Refresh() {
	if w.inCallback.Load() {
		w.again.Store(true)
		return
	}
	ack := make(chan struct{})
	select {
	case w.refresh <- ack:
	case <-w.done:
		return
	}
	select {
	case <-ack:
	case <-w.done:
	}
}

// Last returns the most recently observed status.
func (w *Watcher) Last() (model.OrderStatus, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.known
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.stopOnce.Do(w.cancel)

	w.poll(ctx)
	for !w.finished() {
		timerC, stop := w.newTimer(w.interval())
		if !w.wait(ctx, timerC) {
			stop()
			return
		}
		w.poll(ctx)
	}
	w.logger.Debug("order reached a final status, polling stopped")
}

// wait blocks until the timer fires, serving refresh requests meanwhile.
// It reports false when the loop must exit.
func (w *Watcher) wait(ctx context.Context, timerC <-chan time.Time) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ack := <-w.refresh:
			w.poll(ctx)
			close(ack)
			if w.finished() {
				return false
			}
		case <-timerC:
			return true
		}
	}
}

// poll fetches once, then serves refreshes queued by callbacks.
func (w *Watcher) poll(ctx context.Context) {
	w.fetch(ctx)
	for w.again.Swap(false) && !w.finished() && ctx.Err() == nil {
		w.fetch(ctx)
	}
}

func (w *Watcher) fetch(ctx context.Context) {
	status, err := w.fetcher.FetchStatus(ctx, w.orderID)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("order status fetch failed", slog.Any("error", err))
		}
		return
	}

	w.mu.Lock()
	prev, known := w.last, w.known
	w.last, w.known = status, true
	w.mu.Unlock()

	if !known || prev == status {
		return
	}
	w.logger.Info("order status changed", slog.String("from", string(prev)), slog.String("to", string(status)))
	w.inCallback.Store(true)
	defer w.inCallback.Store(false)
	if w.onChange != nil {
		w.onChange(prev, status)
	}
	if w.onNotify != nil {
		w.onNotify(NotificationFor(w.orderID, status))
	}
}

func (w *Watcher) finished() bool {
	status, known := w.Last()
	return known && status.Terminal()
}

// interval is the delay before the next scheduled fetch. Until a baseline
// is known the pending interval applies.
func (w *Watcher) interval() time.Duration {
	status, known := w.Last()
	if !known {
		status = model.OrderStatusPending
	}
	if d, ok := w.intervals[status]; ok {
		return d
	}
	return w.intervals[model.OrderStatusPending]
}
