package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
	"github.com/polkiloo/driverdesk/internal/domain/model"
	"github.com/polkiloo/driverdesk/internal/domain/repository"
)

const unlistenTimeout = 2 * time.Second

var errFeedUnavailable = errors.New("change feed unavailable")

// listenConn is a dedicated connection holding a LISTEN registration.
type listenConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Release()
	Discard(ctx context.Context)
}

type listenerFunc func(ctx context.Context) (listenConn, error)

type pooledConn struct {
	conn *pgxpool.Conn
}

func poolListener(pool *pgxpool.Pool) listenerFunc {
	return func(ctx context.Context) (listenConn, error) {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return pooledConn{conn: conn}, nil
	}
}

func (c pooledConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.conn.Exec(ctx, sql, args...)
}

func (c pooledConn) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	return c.conn.Conn().WaitForNotification(ctx)
}

func (c pooledConn) Release() {
	c.conn.Release()
}

// Discard removes the connection from the pool and closes it.
func (c pooledConn) Discard(ctx context.Context) {
	_ = c.conn.Hijack().Close(ctx)
}

type changeFeed struct {
	storage *Storage
}

// Subscribe opens a LISTEN channel and calls onChange once per notification.
// onChange runs on the listener goroutine and must not call Unsubscribe.
func (f *changeFeed) Subscribe(ctx context.Context, onChange func(model.OrderChange)) (repository.Subscription, error) {
	s := f.storage
	if s.listen == nil {
		return nil, domainErrors.NewStoreError("subscribe", errFeedUnavailable)
	}

	conn, err := s.listen(ctx)
	if err != nil {
		return nil, domainErrors.NewStoreError("subscribe", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, domainErrors.NewStoreError("subscribe", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		conn:   conn,
		cancel: cancel,
		done:   make(chan struct{}),
		logger: s.logger.With(slog.String("channel", s.channel)),
	}
	go sub.run(runCtx, onChange)
	return sub, nil
}

type subscription struct {
	conn   listenConn
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func (s *subscription) run(ctx context.Context, onChange func(model.OrderChange)) {
	defer close(s.done)
	for {
		n, err := s.conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Error("change feed stopped", slog.String("error", err.Error()))
			}
			return
		}
		change, err := decodeChange(n.Payload)
		if err != nil {
			s.logger.Warn("undecodable change notification", slog.String("payload", n.Payload), slog.String("error", err.Error()))
		}
		onChange(change)
	}
}

// Unsubscribe stops the listener and returns the connection. Safe to call repeatedly.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.done

		ctx, cancel := context.WithTimeout(context.Background(), unlistenTimeout)
		defer cancel()
		if _, err := s.conn.Exec(ctx, "UNLISTEN *"); err != nil {
			s.logger.Debug("unlisten failed, discarding connection", slog.String("error", err.Error()))
			s.conn.Discard(ctx)
			return
		}
		s.conn.Release()
	})
}

type changePayload struct {
	Op string `json:"op"`
	ID int64  `json:"id"`
}

func decodeChange(payload string) (model.OrderChange, error) {
	var p changePayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return model.OrderChange{}, err
	}
	return model.OrderChange{Op: model.ChangeOp(p.Op), OrderID: p.ID}, nil
}
