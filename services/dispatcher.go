package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gst-billing-backend/events"
	"gst-billing-backend/logger"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	dispatchLockKey   = "lock:reminder-dispatch"
	dispatchMarkTTL   = 24 * time.Hour
	dispatchDayLayout = "2006-01-02"
)

// ReminderScanner is satisfied by *ReminderService.
type ReminderScanner interface {
	ScanAll(ctx context.Context, now time.Time) (map[string]Buckets, error)
}

// DispatchMarker records which documents were already notified on a given day.
// Mark returns false when the key was already marked.
type DispatchMarker interface {
	Mark(ctx context.Context, key string) (bool, error)
	Unmark(ctx context.Context, key string) error
}

// RedisDispatchMarker shares marks between instances with SET NX and a 24h expiry.
type RedisDispatchMarker struct {
	Client *redis.Client
	Prefix string
}

func (m RedisDispatchMarker) Mark(ctx context.Context, key string) (bool, error) {
	return m.Client.SetNX(ctx, m.Prefix+key, 1, dispatchMarkTTL).Result()
}

func (m RedisDispatchMarker) Unmark(ctx context.Context, key string) error {
	return m.Client.Del(ctx, m.Prefix+key).Err()
}

// memoryDispatchMarker keeps marks for the current process. Keys of earlier days are pruned
// whenever a new day is marked.
type memoryDispatchMarker struct {
	mu   sync.Mutex
	day  string
	keys map[string]struct{}
}

func newMemoryDispatchMarker() *memoryDispatchMarker {
	return &memoryDispatchMarker{keys: map[string]struct{}{}}
}

func (m *memoryDispatchMarker) Mark(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if day := key[strings.LastIndexByte(key, ':')+1:]; day != m.day {
		m.day = day
		m.keys = map[string]struct{}{}
	}
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = struct{}{}
	return true, nil
}

func (m *memoryDispatchMarker) Unmark(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

// ReminderDispatcher periodically publishes reminder and overdue events, at most once per
// document and event type per day.
//
// With Redis the dispatch lock is never released; it expires shortly before the next tick, so
// at most one instance runs a round per interval, and the day marks are shared between
// instances. Without Redis the marks live in the process.
type ReminderDispatcher struct {
	scanner   ReminderScanner
	publisher events.Publisher
	locker    *redislock.Client
	marker    DispatchMarker
	interval  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewReminderDispatcher returns a dispatcher. rdb may be nil for a single instance.
func NewReminderDispatcher(scanner ReminderScanner, publisher events.Publisher, rdb *redis.Client, interval time.Duration) *ReminderDispatcher {
	d := &ReminderDispatcher{
		scanner:   scanner,
		publisher: publisher,
		marker:    newMemoryDispatchMarker(),
		interval:  interval,
		log:       logger.WithComponent("reminders"),
		now:       time.Now,
	}
	if rdb != nil {
		d.locker = redislock.New(rdb)
		d.marker = RedisDispatchMarker{Client: rdb, Prefix: "reminder:"}
	}
	return d
}

// Run dispatches once immediately and then on every tick until ctx is done.
func (d *ReminderDispatcher) Run(ctx context.Context) {
	if d.interval <= 0 {
		return
	}
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		if n, err := d.RunOnce(ctx); err != nil {
			d.log.Error().Err(err).Int("published", n).Msg("reminder dispatch finished with errors")
		} else if n > 0 {
			d.log.Info().Int("published", n).Msg("reminder dispatch finished")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// lockTTL is slightly shorter than the interval so the holder's next tick finds it expired.
func (d *ReminderDispatcher) lockTTL() time.Duration {
	ttl := d.interval - d.interval/10
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
}

// RunOnce scans every company and publishes one event per reminder or overdue document not yet
// notified today. It returns how many events were published. A failed publish does not stop
// the round, and its mark is removed so the next round retries it.
func (d *ReminderDispatcher) RunOnce(ctx context.Context) (int, error) {
	if d.locker != nil {
		_, err := d.locker.Obtain(ctx, dispatchLockKey, d.lockTTL(), nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			d.log.Debug().Msg("another instance dispatched this interval")
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("obtain dispatch lock: %w", err)
		}
	}

	now := d.now()
	all, err := d.scanner.ScanAll(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("scan reminders: %w", err)
	}

	var (
		published int
		errs      []error
	)
	day := now.Format(dispatchDayLayout)
	send := func(typ string, entries []ReminderEntry) {
		for _, e := range entries {
			key := fmt.Sprintf("%s:%d:%s:%s", e.CompanyID, e.DocumentID, typ, day)
			first, err := d.marker.Mark(ctx, key)
			if err != nil {
				errs = append(errs, fmt.Errorf("mark %s for document %d: %w", typ, e.DocumentID, err))
				continue
			}
			if !first {
				continue
			}
			ev := events.Event{
				Type:       typ,
				CompanyID:  e.CompanyID,
				DocumentID: e.DocumentID,
				OccurredAt: now.UTC(),
				Payload:    e,
			}
			if err := d.publisher.Publish(ctx, ev); err != nil {
				errs = append(errs, fmt.Errorf("%s for document %d: %w", typ, e.DocumentID, err))
				if uerr := d.marker.Unmark(context.WithoutCancel(ctx), key); uerr != nil {
					d.log.Warn().Err(uerr).Str("key", key).Msg("unmark failed reminder")
				}
				continue
			}
			published++
		}
	}
	for _, b := range all {
		send(events.TypeDocumentReminder, b.Reminders)
		send(events.TypeDocumentOverdue, b.Overdue)
	}
	return published, errors.Join(errs...)
}
