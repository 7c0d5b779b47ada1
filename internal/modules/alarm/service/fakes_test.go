package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"reader365/internal/modules/alarm/domain"
)

type memoryStore struct {
	mu      sync.Mutex
	saved   []domain.Schedule
	saves   int
	loadErr error
	saveErr error
}

func (m *memoryStore) Load(context.Context) ([]domain.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.Schedule(nil), m.saved...), nil
}

func (m *memoryStore) Save(_ context.Context, schedules []domain.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = append([]domain.Schedule(nil), schedules...)
	return nil
}

type recordingPlayer struct {
	mu        sync.Mutex
	available bool
	plays     []domain.Tone
	err       error
}

func (p *recordingPlayer) Available() bool { return p.available }

func (p *recordingPlayer) Play(_ context.Context, tone domain.Tone) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays = append(p.plays, tone)
	return p.err
}

func (p *recordingPlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.plays)
}

type memoryHistory struct {
	mu       sync.Mutex
	events   []domain.FireEvent
	err      error
	countErr error
}

func (h *memoryHistory) Append(_ context.Context, event domain.FireEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.events = append(h.events, event)
	return nil
}

func (h *memoryHistory) Recent(_ context.Context, limit int) ([]domain.FireEvent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := []domain.FireEvent{}
	for i := len(h.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.events[i])
	}
	return out, nil
}

func (h *memoryHistory) CountSince(_ context.Context, since time.Time) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.countErr != nil {
		return 0, h.countErr
	}
	n := 0
	for _, e := range h.events {
		if !e.FiredAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (h *memoryHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

type recordingSink struct {
	notifications []domain.Notification
}

func (s *recordingSink) Dispatch(_ context.Context, n domain.Notification) {
	s.notifications = append(s.notifications, n)
}

var errBroken = errors.New("device broken")
