package test

import (
	"context"
	"slices"
	"sync"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/domain/repository"
)

// DriverRepositoryStub stores drivers in-memory for tests.
type DriverRepositoryStub struct {
	mu      sync.Mutex
	Drivers map[string]*model.Driver
	Err     error
}

// NewDriverRepositoryStub constructs stub repository holding drivers.
func NewDriverRepositoryStub(drivers ...model.Driver) *DriverRepositoryStub {
	s := &DriverRepositoryStub{Drivers: make(map[string]*model.Driver)}
	for i := range drivers {
		d := drivers[i]
		s.Drivers[d.ID] = &d
	}
	return s
}

// GetByID fetches driver by identifier or returns not found.
func (s *DriverRepositoryStub) GetByID(ctx context.Context, id string) (*model.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if d, ok := s.Drivers[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderStoreStub is an in-memory order store with a synchronous change feed.
//
// ListCalledFn, when set, replaces the default listing and may block to
// simulate slow fetches.
type OrderStoreStub struct {
	mu             sync.Mutex
	orders         map[int64]model.Order
	subscribers    map[int]func(model.OrderChange)
	nextSub        int
	Unsubscribed   int
	ListErr        error
	AcceptanceErr  error
	SubscribeErr   error
	ListCalledFn   func(context.Context) ([]model.Order, error)
	CodeWrites     map[int64][]string
	AcceptanceLogs []AcceptanceCall
}

// AcceptanceCall records one SetAcceptance invocation.
type AcceptanceCall struct {
	OrderID  int64
	Accepted bool
	DriverID *string
}

// NewOrderStoreStub constructs store pre-filled with orders.
func NewOrderStoreStub(orders ...model.Order) *OrderStoreStub {
	s := &OrderStoreStub{
		orders:      make(map[int64]model.Order),
		subscribers: make(map[int]func(model.OrderChange)),
		CodeWrites:  make(map[int64][]string),
	}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

// Put inserts or replaces an order without notifying subscribers.
func (s *OrderStoreStub) Put(o model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

// Get returns the stored order.
func (s *OrderStoreStub) Get(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// Snapshot lists the called orders ordered by id.
func (s *OrderStoreStub) Snapshot() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.CalledDriver {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b model.Order) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// ListCalled returns the called orders or the configured failure.
func (s *OrderStoreStub) ListCalled(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	fn, err := s.ListCalledFn, s.ListErr
	s.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	if err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// SetListCalledFn swaps the listing hook.
func (s *OrderStoreStub) SetListCalledFn(fn func(context.Context) ([]model.Order, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalledFn = fn
}

// SetListErr makes subsequent listings fail with err.
func (s *OrderStoreStub) SetListErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListErr = err
}

// SetAcceptance updates the acceptance fields of an existing order.
func (s *OrderStoreStub) SetAcceptance(ctx context.Context, orderID int64, accepted bool, driverID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AcceptanceLogs = append(s.AcceptanceLogs, AcceptanceCall{OrderID: orderID, Accepted: accepted, DriverID: driverID})
	if s.AcceptanceErr != nil {
		return s.AcceptanceErr
	}
	o, ok := s.orders[orderID]
	if !ok {
		return domainErrors.NewStoreError("set acceptance", domainErrors.ErrNotFound)
	}
	o.DriverAccepted = accepted
	if driverID != nil {
		id := *driverID
		o.AcceptedDriverID = &id
	} else {
		o.AcceptedDriverID = nil
	}
	s.orders[orderID] = o
	return nil
}

// SetCode records the code and stores it on the order.
func (s *OrderStoreStub) SetCode(ctx context.Context, orderID int64, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CodeWrites[orderID] = append(s.CodeWrites[orderID], code)
	if o, ok := s.orders[orderID]; ok {
		o.Code = code
		s.orders[orderID] = o
	}
	return nil
}

// Subscribe registers onChange until the returned subscription is released.
func (s *OrderStoreStub) Subscribe(ctx context.Context, onChange func(model.OrderChange)) (repository.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SubscribeErr != nil {
		return nil, s.SubscribeErr
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = onChange
	return &subscriptionStub{store: s, id: id}, nil
}

// Subscribers reports the number of live subscriptions.
func (s *OrderStoreStub) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// Emit delivers change to every subscriber on the calling goroutine.
func (s *OrderStoreStub) Emit(change model.OrderChange) {
	s.mu.Lock()
	subs := make([]func(model.OrderChange), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(change)
	}
}

type subscriptionStub struct {
	store *OrderStoreStub
	id    int
	once  sync.Once
}

func (s *subscriptionStub) Unsubscribe() {
	s.once.Do(func() {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
		delete(s.store.subscribers, s.id)
		s.store.Unsubscribed++
	})
}

// RotatorStub records reconcile calls.
type RotatorStub struct {
	mu      sync.Mutex
	Calls   [][]int64
	Stopped int
}

// Reconcile stores a copy of orderIDs.
func (r *RotatorStub) Reconcile(orderIDs []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, slices.Clone(orderIDs))
}

// Stop counts stop calls.
func (r *RotatorStub) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stopped++
}

// Last returns the ids of the most recent reconcile, or nil.
func (r *RotatorStub) Last() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Calls) == 0 {
		return nil
	}
	return r.Calls[len(r.Calls)-1]
}

// StopCount returns how many times Stop was called.
func (r *RotatorStub) StopCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Stopped
}
