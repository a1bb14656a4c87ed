package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle state of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Key identifies a cached resource.
type Key struct {
	Endpoint string
	Param    string
}

func (k Key) String() string {
	if k.Param == "" {
		return k.Endpoint
	}
	return k.Endpoint + ":" + k.Param
}

// Entry is a snapshot of one cached resource. Consumers must treat Data as read-only.
type Entry[T any] struct {
	Key       Key
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
}

// Ready reports whether Data holds a fetched value.
func (e Entry[T]) Ready() bool {
	return e.Status == StatusSuccess
}

// Fetcher loads the resource for param.
type Fetcher[T any] func(ctx context.Context, param string) (T, error)

type options struct {
	gate   func() bool
	skip   func(param string) bool
	logger *log.Logger
	now    func() time.Time
}

// Option configures a [Query].
type Option func(*options)

// WithGate suppresses every fetch while fn reports false.
func WithGate(fn func() bool) Option {
	return func(o *options) { o.gate = fn }
}

// WithSkip suppresses the fetch for parameters where fn reports true.
func WithSkip(fn func(param string) bool) Option {
	return func(o *options) { o.skip = fn }
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock overrides the clock used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

type slot[T any] struct {
	entry Entry[T]
	gen   uint64
}

// Query caches the results of one endpoint, keyed by parameter.
type Query[T any] struct {
	endpoint string
	fetch    Fetcher[T]
	opts     options

	mu    sync.Mutex
	slots map[string]slot[T]
	gen   uint64
	group singleflight.Group
}

// NewQuery creates a cache for endpoint backed by fetch.
func NewQuery[T any](endpoint string, fetch Fetcher[T], opts ...Option) *Query[T] {
	o := options{
		gate:   func() bool { return true },
		skip:   func(string) bool { return false },
		logger: shared.NewLogger(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Query[T]{endpoint: endpoint, fetch: fetch, opts: o, slots: make(map[string]slot[T])}
}

func (q *Query[T]) key(param string) Key {
	return Key{Endpoint: q.endpoint, Param: param}
}

// Resolve returns the cached entry for param, fetching it when it is not cached.
//
// When ctx ends before the shared fetch completes, the Pending entry is returned.
func (q *Query[T]) Resolve(ctx context.Context, param string) Entry[T] {
	key := q.key(param)
	if !q.opts.gate() || q.opts.skip(param) {
		return Entry[T]{Key: key, Status: StatusIdle}
	}

	q.mu.Lock()
	s, ok := q.slots[param]
	switch {
	case ok && s.entry.Status == StatusSuccess:
		q.mu.Unlock()
		q.opts.logger.Debug("cache hit", "key", key)
		return s.entry
	case ok && s.entry.Status == StatusPending:
	default:
		q.gen++
		s = slot[T]{entry: Entry[T]{Key: key, Status: StatusPending, UpdatedAt: q.opts.now()}, gen: q.gen}
		q.slots[param] = s
	}
	pending := s.entry
	q.mu.Unlock()

	ch := q.group.DoChan(param, func() (any, error) {
		return q.run(context.WithoutCancel(ctx), param), nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			q.opts.logger.Debug("cache shared fetch", "key", key)
		}
		return res.Val.(Entry[T])
	case <-ctx.Done():
		q.opts.logger.Debug("cache wait abandoned", "key", key, "err", ctx.Err())
		return pending
	}
}

// run performs the fetch for param unless a previous flight already stored a result.
func (q *Query[T]) run(ctx context.Context, param string) Entry[T] {
	key := q.key(param)

	q.mu.Lock()
	s, ok := q.slots[param]
	if ok && s.entry.Status == StatusSuccess {
		q.mu.Unlock()
		return s.entry
	}
	if !ok || s.entry.Status != StatusPending {
		q.gen++
		s = slot[T]{entry: Entry[T]{Key: key, Status: StatusPending, UpdatedAt: q.opts.now()}, gen: q.gen}
		q.slots[param] = s
	}
	gen := s.gen
	q.mu.Unlock()

	id := shared.GenerateID()
	q.opts.logger.Debug("cache miss", "key", key, "request_id", id)
	started := q.opts.now()

	data, err := q.fetch(ctx, param)

	entry := Entry[T]{Key: key, Data: data, Err: err, UpdatedAt: q.opts.now()}
	switch {
	case err == nil:
		entry.Status = StatusSuccess
	case errors.Is(err, shared.ErrUnauthenticated):
		var zero T
		entry.Status, entry.Data, entry.Err = StatusIdle, zero, nil
	default:
		entry.Status = StatusError
		q.opts.logger.Debug("cache fetch failed", "key", key, "request_id", id, "err", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	cur, ok := q.slots[param]
	if !ok || cur.gen != gen {
		q.opts.logger.Debug("cache result discarded", "key", key, "request_id", id)
		return entry
	}
	if entry.Status == StatusIdle {
		delete(q.slots, param)
	} else {
		q.slots[param] = slot[T]{entry: entry, gen: gen}
	}
	q.opts.logger.Debug("cache stored", "key", key, "request_id", id, "status", entry.Status, "took", q.opts.now().Sub(started))
	return entry
}

// Peek returns the current entry for param without fetching.
func (q *Query[T]) Peek(param string) Entry[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	if s, ok := q.slots[param]; ok {
		return s.entry
	}
	return Entry[T]{Key: q.key(param), Status: StatusIdle}
}

// Invalidate drops the entry for param. An in-flight fetch for it will not be stored.
func (q *Query[T]) Invalidate(param string) {
	q.mu.Lock()
	delete(q.slots, param)
	q.mu.Unlock()
	q.group.Forget(param)
}

// Reset drops every entry.
func (q *Query[T]) Reset() {
	q.mu.Lock()
	params := make([]string, 0, len(q.slots))
	for p := range q.slots {
		params = append(params, p)
	}
	clear(q.slots)
	q.mu.Unlock()

	for _, p := range params {
		q.group.Forget(p)
	}
}
