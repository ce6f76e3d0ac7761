package screen

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped is returned by Loop methods once Run has returned.
var ErrStopped = errors.New("screen loop stopped")

type request struct {
	intent *Intent
	reply  chan response
}

type response struct {
	state State
	err   error
}

// Loop confines a Screen to a single goroutine. Transports that receive
// gestures concurrently (HTTP handlers, WebSocket readers) send them through
// Dispatch, and every state change is published to subscribers.
type Loop struct {
	screen   *Screen
	logger   *zap.Logger
	requests chan request
	done     chan struct{}

	mu          sync.Mutex
	stopped     bool
	nextSubID   int
	subscribers map[int]chan State
}

// NewLoop creates a Loop for screen. Call Run to start it.
func NewLoop(screen *Screen, logger *zap.Logger) *Loop {
	return &Loop{
		screen:      screen,
		logger:      logger,
		requests:    make(chan request),
		done:        make(chan struct{}),
		subscribers: make(map[int]chan State),
	}
}

// Run processes intents until ctx is cancelled. It owns the Screen for its
// whole lifetime and must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.closeSubscribers()

	l.logger.Info("screen loop started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("screen loop stopped")
			return nil
		case req := <-l.requests:
			req.reply <- l.handle(req)
		}
	}
}

func (l *Loop) handle(req request) response {
	if req.intent == nil {
		return response{state: l.screen.State()}
	}

	before := l.screen.version
	state, err := l.screen.Apply(*req.intent)
	if state.Version != before {
		l.publish(state)
	}

	return response{state: state, err: err}
}

// Dispatch applies in on the loop goroutine and returns the resulting state.
func (l *Loop) Dispatch(ctx context.Context, in Intent) (State, error) {
	return l.do(ctx, request{intent: &in, reply: make(chan response, 1)})
}

// Snapshot returns the current state.
func (l *Loop) Snapshot(ctx context.Context) (State, error) {
	return l.do(ctx, request{reply: make(chan response, 1)})
}

func (l *Loop) do(ctx context.Context, req request) (State, error) {
	select {
	case l.requests <- req:
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-l.done:
		return State{}, ErrStopped
	}

	// The loop always replies to an accepted request before it can exit, and
	// the reply channel is buffered.
	select {
	case resp := <-req.reply:
		return resp.state, resp.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Subscribe returns a channel receiving the latest state after every change,
// and a function to unsubscribe. A subscriber that falls behind only sees the
// most recent state. The channel is closed when the loop stops or the
// subscriber unsubscribes.
func (l *Loop) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		close(ch)
		return ch, func() {}
	}

	id := l.nextSubID
	l.nextSubID++
	l.subscribers[id] = ch

	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		if sub, ok := l.subscribers[id]; ok {
			delete(l.subscribers, id)
			close(sub)
		}
	}
}

// publish hands state to every subscriber without blocking the loop.
func (l *Loop) publish(state State) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ch := range l.subscribers {
		select {
		case ch <- state:
			continue
		default:
		}

		// Replace the stale state the subscriber has not read yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}

func (l *Loop) closeSubscribers() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopped = true
	for id, ch := range l.subscribers {
		close(ch)
		delete(l.subscribers, id)
	}
}
