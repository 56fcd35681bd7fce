package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gst-billing-backend/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScanner struct {
	buckets map[string]Buckets
	err     error
}

func (f fakeScanner) ScanAll(context.Context, time.Time) (map[string]Buckets, error) {
	return f.buckets, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	failOn uint
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	if ev.DocumentID == p.failOn {
		return errors.New("topic unavailable")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func TestDispatcherRunOnce(t *testing.T) {
	scanner := fakeScanner{buckets: map[string]Buckets{
		"c1": {
			Reminders: []ReminderEntry{{DocumentID: 1, CompanyID: "c1"}},
			Overdue:   []ReminderEntry{{DocumentID: 2, CompanyID: "c1"}},
		},
	}}
	pub := &recordingPublisher{}

	d := NewReminderDispatcher(scanner, pub, nil, time.Hour)
	n, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, pub.events, 2)
	types := map[uint]string{}
	for _, ev := range pub.events {
		types[ev.DocumentID] = ev.Type
		assert.Equal(t, "c1", ev.CompanyID)
	}
	assert.Equal(t, events.TypeDocumentReminder, types[1])
	assert.Equal(t, events.TypeDocumentOverdue, types[2])
}

func TestDispatcherContinuesAfterPublishFailure(t *testing.T) {
	scanner := fakeScanner{buckets: map[string]Buckets{
		"c1": {Overdue: []ReminderEntry{{DocumentID: 1}, {DocumentID: 2}, {DocumentID: 3}}},
	}}
	pub := &recordingPublisher{failOn: 2}

	n, err := NewReminderDispatcher(scanner, pub, nil, time.Hour).RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, pub.events, 2)
}

func TestDispatcherScanError(t *testing.T) {
	d := NewReminderDispatcher(fakeScanner{err: errors.New("db down")}, &recordingPublisher{}, nil, time.Hour)
	n, err := d.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestDispatcherRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pub := &recordingPublisher{}
	scanner := fakeScanner{buckets: map[string]Buckets{"c1": {Reminders: []ReminderEntry{{DocumentID: 9}}}}}

	done := make(chan struct{})
	go func() {
		NewReminderDispatcher(scanner, pub, nil, time.Hour).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return len(pub.events) == 1
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDispatcherSendsOncePerDay(t *testing.T) {
	scanner := fakeScanner{buckets: map[string]Buckets{
		"c1": {Reminders: []ReminderEntry{{DocumentID: 1, CompanyID: "c1"}}},
	}}
	pub := &recordingPublisher{}
	d := NewReminderDispatcher(scanner, pub, nil, time.Hour)
	day := time.Date(2026, 4, 27, 8, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return day }

	n, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for i := 0; i < 23; i++ {
		day = day.Add(time.Hour)
		n, err = d.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	}
	assert.Len(t, pub.events, 1)

	day = time.Date(2026, 4, 28, 8, 0, 0, 0, time.UTC)
	n, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, pub.events, 2)
}

func TestDispatcherRetriesFailedPublish(t *testing.T) {
	scanner := fakeScanner{buckets: map[string]Buckets{
		"c1": {Overdue: []ReminderEntry{{DocumentID: 1, CompanyID: "c1"}, {DocumentID: 2, CompanyID: "c1"}}},
	}}
	pub := &recordingPublisher{failOn: 2}
	d := NewReminderDispatcher(scanner, pub, nil, time.Hour)

	n, err := d.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, n)

	pub.failOn = 0
	n, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, pub.events, 2)
	assert.Equal(t, uint(2), pub.events[1].DocumentID)
}

func TestDispatcherMarksReminderAndOverdueSeparately(t *testing.T) {
	m := newMemoryDispatchMarker()
	ctx := context.Background()

	first, err := m.Mark(ctx, "c1:1:document.reminder:2026-04-27")
	require.NoError(t, err)
	assert.True(t, first)
	first, _ = m.Mark(ctx, "c1:1:document.overdue:2026-04-27")
	assert.True(t, first)
	first, _ = m.Mark(ctx, "c1:1:document.reminder:2026-04-27")
	assert.False(t, first)

	first, _ = m.Mark(ctx, "c1:1:document.reminder:2026-04-28")
	assert.True(t, first)
	assert.Len(t, m.keys, 1)
}

func TestDispatcherLockTTLExpiresBeforeNextTick(t *testing.T) {
	d := NewReminderDispatcher(fakeScanner{}, &recordingPublisher{}, nil, time.Hour)
	assert.Equal(t, 54*time.Minute, d.lockTTL())

	d = NewReminderDispatcher(fakeScanner{}, &recordingPublisher{}, nil, 0)
	assert.Equal(t, time.Minute, d.lockTTL())
}
