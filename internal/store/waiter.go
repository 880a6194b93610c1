package store

import (
	"context"
	"time"
)

// waiter is a single BLPOP client parked on a list key. ch is buffered so a
// producer can hand off an element without blocking while holding s.mu.
type waiter struct {
	ch chan []byte
}

// BLPop implements C5's register/wake/timeout protocol for a single key.
// timeout == 0 means wait indefinitely; ctx is cancelled when the owning
// session's connection closes, which must also remove the waiter (§5
// Cancellation).
func (s *Store) BLPop(ctx context.Context, key string, timeout time.Duration) (value []byte, ok bool, err error) {
	s.mu.Lock()
	if r, found := s.lookup(key); found {
		if r.kind != kindList {
			s.mu.Unlock()
			return nil, false, ErrWrongType
		}
		if len(r.list) > 0 {
			value = r.list[0]
			r.list = r.list[1:]
			if len(r.list) == 0 {
				delete(s.keys, key)
			}
			s.mu.Unlock()
			return value, true, nil
		}
	}

	w := &waiter{ch: make(chan []byte, 1)}
	s.waiters[key] = append(s.waiters[key], w)
	s.mu.Unlock()

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case value = <-w.ch:
		return value, true, nil
	case <-timeoutCh:
		if s.removeWaiter(key, w) {
			return nil, false, nil
		}
		// A push claimed w in the instant the timer fired; the element is
		// already committed to w.ch, so the receive below cannot block long.
		return <-w.ch, true, nil
	case <-ctx.Done():
		if s.removeWaiter(key, w) {
			return nil, false, nil
		}
		return <-w.ch, true, nil
	}
}

// removeWaiter deletes w from key's waiter queue if it is still there,
// reporting whether it found it. A false result means a push already
// dequeued w (and is about to, or already did, send on w.ch).
func (s *Store) removeWaiter(key string, w *waiter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.waiters[key]
	for i, cand := range ws {
		if cand == w {
			s.waiters[key] = append(ws[:i], ws[i+1:]...)
			if len(s.waiters[key]) == 0 {
				delete(s.waiters, key)
			}
			return true
		}
	}
	return false
}

// wakeWaiters hands off as many list-head elements as there are waiters on
// key, FIFO, removing both the waiter and the element it received. Callers
// hold s.mu and have already mutated r.list for this push. It deletes the
// key if the list empties out.
func (s *Store) wakeWaiters(key string, r *record) {
	ws := s.waiters[key]
	for len(ws) > 0 && len(r.list) > 0 {
		w := ws[0]
		ws = ws[1:]
		value := r.list[0]
		r.list = r.list[1:]
		w.ch <- value
	}
	if len(ws) == 0 {
		delete(s.waiters, key)
	} else {
		s.waiters[key] = ws
	}
	if len(r.list) == 0 {
		delete(s.keys, key)
	}
}
