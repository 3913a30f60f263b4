package app

import (
	"context"
	"log/slog"
	"sync"

	domainErrors "github.com/polkiloo/driverdesk/internal/domain/errors"
	"github.com/polkiloo/driverdesk/internal/usecase"
)

// ViewFactory builds unopened driver views.
type ViewFactory interface {
	New(driverID string) *usecase.DriverView
}

type session struct {
	view  *usecase.DriverView
	refs  int
	ready chan struct{}
	err   error
}

// Sessions shares one open DriverView per driver among concurrent users.
type Sessions struct {
	factory ViewFactory
	logger  *slog.Logger

	mu     sync.Mutex
	views  map[string]*session
	closed bool
}

// NewSessions constructs an empty registry.
func NewSessions(factory ViewFactory, logger *slog.Logger) *Sessions {
	return &Sessions{
		factory: factory,
		logger:  logger.With(slog.String("component", "sessions")),
		views:   make(map[string]*session),
	}
}

// Acquire returns the open view for driverID, opening it on first use.
// The returned release must be called once the caller is done with the view.
func (s *Sessions) Acquire(ctx context.Context, driverID string) (*usecase.DriverView, func(), error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, nil, domainErrors.ErrSessionsClosed
	}

	if sess, ok := s.views[driverID]; ok {
		sess.refs++
		s.mu.Unlock()
		select {
		case <-sess.ready:
		case <-ctx.Done():
			s.release(driverID, sess)
			return nil, nil, ctx.Err()
		}
		if sess.err != nil {
			s.release(driverID, sess)
			return nil, nil, sess.err
		}
		return sess.view, s.releaseFunc(driverID, sess), nil
	}

	sess := &session{view: s.factory.New(driverID), refs: 1, ready: make(chan struct{})}
	s.views[driverID] = sess
	s.mu.Unlock()

	err := sess.view.Open(ctx)
	sess.err = err
	close(sess.ready)

	if err != nil {
		s.mu.Lock()
		if s.views[driverID] == sess {
			delete(s.views, driverID)
		}
		s.mu.Unlock()
		s.release(driverID, sess)
		return nil, nil, err
	}

	s.logger.Info("driver view opened", slog.String("driver_id", driverID))
	return sess.view, s.releaseFunc(driverID, sess), nil
}

func (s *Sessions) releaseFunc(driverID string, sess *session) func() {
	var once sync.Once
	return func() {
		once.Do(func() { s.release(driverID, sess) })
	}
}

func (s *Sessions) release(driverID string, sess *session) {
	s.mu.Lock()
	sess.refs--
	if sess.refs > 0 {
		s.mu.Unlock()
		return
	}
	if s.views[driverID] == sess {
		delete(s.views, driverID)
	}
	s.mu.Unlock()

	sess.view.Close()
	if sess.err == nil {
		s.logger.Info("driver view closed", slog.String("driver_id", driverID))
	}
}

// Active reports how many driver views are open.
func (s *Sessions) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Close closes every open view and rejects further acquisitions.
func (s *Sessions) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	views := s.views
	s.views = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range views {
		<-sess.ready
		sess.view.Close()
	}
}
