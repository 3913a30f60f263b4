package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/domain/repository"
)

const changeRefreshTimeout = 10 * time.Second

// Rotator keeps one pickup code timer per accepted order.
type Rotator interface {
	Reconcile(orderIDs []int64)
	Stop()
}

// Snapshot is a consistent copy of the view state.
type Snapshot struct {
	DriverID  string
	Driver    *model.Driver
	Pending   []model.Order
	Accepted  []model.Order
	ActiveTab model.Tab
	Loading   bool
	NotFound  bool
	Err       error
	Version   uint64
}

// DriverView is the live view model behind one driver's page.
//
// It owns a change feed subscription and a code rotator from Open until
// Close. Refreshes may run concurrently; the result of a fetch is applied
// only when no newer fetch has been applied before it.
type DriverView struct {
	driverID string
	drivers  repository.DriverRepository
	orders   repository.OrderRepository
	feed     repository.ChangeFeed
	rotator  Rotator
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	issued atomic.Uint64

	mu        sync.Mutex
	applied   uint64 // newest fetch whose lists were applied
	settled   uint64 // newest fetch whose outcome, lists or error, was recorded
	driver    *model.Driver
	partition Partition
	activeTab model.Tab
	loading   bool
	notFound  bool
	lastErr   error
	sub       repository.Subscription
	closed    bool
	watchers  map[int]chan struct{}
	nextWatch int
}

// NewDriverView constructs an unopened view for driverID.
func NewDriverView(
	driverID string,
	drivers repository.DriverRepository,
	orders repository.OrderRepository,
	feed repository.ChangeFeed,
	rotator Rotator,
	logger *slog.Logger,
) *DriverView {
	ctx, cancel := context.WithCancel(context.Background())
	return &DriverView{
		driverID:  driverID,
		drivers:   drivers,
		orders:    orders,
		feed:      feed,
		rotator:   rotator,
		logger:    logger.With(slog.String("driver_id", driverID)),
		ctx:       ctx,
		cancel:    cancel,
		partition: Classify(nil, driverID),
		activeTab: model.TabPending,
		watchers:  make(map[int]chan struct{}),
	}
}

// DriverID returns the driver this view belongs to.
func (v *DriverView) DriverID() string {
	return v.driverID
}

// Open loads the driver, subscribes to order changes and performs the first refresh.
//
// A missing driver yields ErrNotFound and the view stays in the not-found state.
// A failed first refresh is recorded and does not fail Open; the next change
// notification retries it.
func (v *DriverView) Open(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return domainErrors.ErrViewClosed
	}
	v.loading = true
	v.mu.Unlock()

	driver, err := v.drivers.GetByID(ctx, v.driverID)

	v.mu.Lock()
	v.loading = false
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			v.notFound = true
		} else {
			v.lastErr = err
		}
		v.mu.Unlock()
		v.broadcast()
		return err
	}
	v.driver = driver
	v.mu.Unlock()

	sub, err := v.feed.Subscribe(ctx, v.onChange)
	if err != nil {
		v.recordError(err)
		return err
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		sub.Unsubscribe()
		return domainErrors.ErrViewClosed
	}
	v.sub = sub
	v.mu.Unlock()

	if err := v.Refresh(ctx); err != nil {
		v.logger.Warn("initial orders fetch failed", slog.String("error", err.Error()))
	}
	return nil
}

func (v *DriverView) onChange(change model.OrderChange) {
	v.logger.Debug("order change received",
		slog.String("op", string(change.Op)),
		slog.Int64("order_id", change.OrderID),
	)

	ctx, cancel := context.WithTimeout(v.ctx, changeRefreshTimeout)
	defer cancel()
	if err := v.Refresh(ctx); err != nil && v.ctx.Err() == nil {
		v.logger.Warn("refresh after change failed", slog.String("error", err.Error()))
	}
}

// Refresh fetches the called orders and reclassifies them.
//
// On failure the previous lists are kept and the error is recorded. A fetch
// that completes after a newer one has settled is dropped, whether it
// succeeded or failed.
func (v *DriverView) Refresh(ctx context.Context) error {
	seq := v.issued.Add(1)

	orders, err := v.orders.ListCalled(ctx)
	if err != nil {
		v.recordFetchError(seq, err)
		return err
	}
	partition := Classify(orders, v.driverID)

	v.mu.Lock()
	if v.closed || seq <= v.applied {
		v.mu.Unlock()
		return nil
	}
	v.applied = seq
	v.partition = partition
	if seq > v.settled {
		v.settled = seq
		v.lastErr = nil
	}
	// Reconciled under the lock so timers follow the order in which
	// classifications were applied.
	v.rotator.Reconcile(partition.AcceptedIDs())
	v.mu.Unlock()

	v.broadcast()
	return nil
}

// Accept marks orderID as taken by this driver and refreshes the lists.
func (v *DriverView) Accept(ctx context.Context, orderID int64) error {
	driverID := v.driverID
	return v.setAcceptance(ctx, orderID, true, &driverID)
}

// Reject returns orderID to the pending pool and refreshes the lists.
func (v *DriverView) Reject(ctx context.Context, orderID int64) error {
	return v.setAcceptance(ctx, orderID, false, nil)
}

func (v *DriverView) setAcceptance(ctx context.Context, orderID int64, accepted bool, driverID *string) error {
	if orderID <= 0 {
		return domainErrors.ErrInvalidOrderID
	}
	if err := v.ready(); err != nil {
		return err
	}

	if err := v.orders.SetAcceptance(ctx, orderID, accepted, driverID); err != nil {
		v.logger.Error("update order acceptance failed",
			slog.Int64("order_id", orderID),
			slog.Bool("accepted", accepted),
			slog.String("error", err.Error()),
		)
		return err
	}
	v.logger.Info("order acceptance updated", slog.Int64("order_id", orderID), slog.Bool("accepted", accepted))

	return v.Refresh(ctx)
}

func (v *DriverView) ready() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.closed:
		return domainErrors.ErrViewClosed
	case v.driver == nil:
		return domainErrors.ErrNotFound
	}
	return nil
}

// SetTab selects which list is shown.
func (v *DriverView) SetTab(tab model.Tab) {
	v.mu.Lock()
	changed := v.activeTab != tab
	v.activeTab = tab
	v.mu.Unlock()

	if changed {
		v.broadcast()
	}
}

// Snapshot returns a copy of the current state.
func (v *DriverView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := Snapshot{
		DriverID:  v.driverID,
		Pending:   append([]model.Order(nil), v.partition.Pending...),
		Accepted:  append([]model.Order(nil), v.partition.Accepted...),
		ActiveTab: v.activeTab,
		Loading:   v.loading,
		NotFound:  v.notFound,
		Err:       v.lastErr,
		Version:   v.applied,
	}
	if v.driver != nil {
		d := *v.driver
		snap.Driver = &d
	}
	return snap
}

// Watch returns a channel signalled after every state change. The channel is
// closed when the view closes or stop is called.
func (v *DriverView) Watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := v.nextWatch
	v.nextWatch++
	v.watchers[id] = ch
	v.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if w, ok := v.watchers[id]; ok {
				delete(v.watchers, id)
				close(w)
			}
		})
	}
}

func (v *DriverView) broadcast() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, ch := range v.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (v *DriverView) recordFetchError(seq uint64, err error) {
	v.mu.Lock()
	if v.closed || seq <= v.settled {
		v.mu.Unlock()
		return
	}
	v.settled = seq
	v.lastErr = err
	v.mu.Unlock()
	v.broadcast()
}

func (v *DriverView) recordError(err error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.lastErr = err
	v.mu.Unlock()
	v.broadcast()
}

// Close releases the subscription and stops all code timers. Safe to call repeatedly.
func (v *DriverView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	sub := v.sub
	v.sub = nil
	for id, ch := range v.watchers {
		delete(v.watchers, id)
		close(ch)
	}
	v.mu.Unlock()

	v.cancel()
	if sub != nil {
		sub.Unsubscribe()
	}
	v.rotator.Stop()
}
