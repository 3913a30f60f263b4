package worker

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/polkiloo/driverdesk/internal/domain/repository"
)

const defaultWriteTimeout = 5 * time.Second

// CodeRotator keeps one periodic code refresh per accepted order.
type CodeRotator struct {
	writer       repository.CodeWriter
	interval     time.Duration
	writeTimeout time.Duration
	intn         func(int) int
	logger       *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[int64]rotation
	stopped bool
}

// rotation is one scheduled order. cancel aborts a write still in flight
// once the order leaves the accepted set.
type rotation struct {
	entry  cron.EntryID
	cancel context.CancelFunc
}

// NewCodeRotator constructs a rotator writing codes through writer every interval.
// Intervals below one second are rounded up to one second by the scheduler.
func NewCodeRotator(writer repository.CodeWriter, interval time.Duration, logger *slog.Logger) *CodeRotator {
	logger = logger.With(slog.String("component", "code_rotator"))
	ctx, cancel := context.WithCancel(context.Background())
	return &CodeRotator{
		writer:       writer,
		interval:     interval,
		writeTimeout: defaultWriteTimeout,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		cron: cron.New(
			cron.WithLogger(cronLogger{logger: logger}),
			cron.WithChain(cron.Recover(cronLogger{logger: logger}), cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		entries: make(map[int64]rotation),
	}
}

// Reconcile makes the active timers match orderIDs exactly.
// Timers of orders still present are left untouched.
func (r *CodeRotator) Reconcile(orderIDs []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}

	wanted := make(map[int64]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = struct{}{}
	}

	for id, rot := range r.entries {
		if _, ok := wanted[id]; !ok {
			r.cron.Remove(rot.entry)
			rot.cancel()
			delete(r.entries, id)
			r.logger.Debug("code rotation stopped", slog.Int64("order_id", id))
		}
	}

	for id := range wanted {
		if _, ok := r.entries[id]; ok {
			continue
		}
		orderID := id
		ctx, cancel := context.WithCancel(r.ctx)
		entry := r.cron.Schedule(cron.Every(r.interval), cron.FuncJob(func() { r.rotate(ctx, orderID) }))
		r.entries[id] = rotation{entry: entry, cancel: cancel}
		r.logger.Debug("code rotation started", slog.Int64("order_id", id), slog.Duration("interval", r.interval))
	}

	if len(r.entries) > 0 {
		r.cron.Start()
	}
}

// ActiveOrders returns the order ids that currently have a timer, sorted.
func (r *CodeRotator) ActiveOrders() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Stop cancels every timer and waits for running writes. Later calls to Reconcile are ignored.
func (r *CodeRotator) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	for id, rot := range r.entries {
		r.cron.Remove(rot.entry)
		rot.cancel()
		delete(r.entries, id)
	}
	r.cancel()
	r.mu.Unlock()

	<-r.cron.Stop().Done()
}

func (r *CodeRotator) rotate(parent context.Context, orderID int64) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, r.writeTimeout)
	defer cancel()

	code := GenerateCode(r.intn)
	if err := r.writer.SetCode(ctx, orderID, code); err != nil {
		if parent.Err() != nil {
			r.logger.Debug("pickup code rotation cancelled", slog.Int64("order_id", orderID))
			return
		}
		r.logger.Warn("pickup code rotation failed", slog.Int64("order_id", orderID), slog.String("error", err.Error()))
		return
	}
	r.logger.Debug("pickup code rotated", slog.Int64("order_id", orderID))
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err.Error())...)
}
