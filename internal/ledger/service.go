// Package ledger implements the bookkeeping operations of the launch
// platform: protocol bootstrap, launch registration, position tracking,
// reward claims, and the bundler registry.
package ledger

import (
	"context"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"diamondpad/internal/event"
	"diamondpad/internal/observability"
	"diamondpad/internal/storage"
)

// Service executes ledger operations against the record store. Each
// operation runs its reads, invariant checks, and arithmetic before the
// first write, so a failed operation leaves every record unchanged.
type Service struct {
	protocol  storage.ProtocolStore
	launches  storage.LaunchStore
	positions storage.PositionStore
	bundlers  storage.BundlerStore

	notifier event.Notifier
	clock    Clock
	log      *logrus.Logger

	locks keyedMutex
}

// Options configures a Service.
type Options struct {
	ProtocolStore storage.ProtocolStore
	LaunchStore   storage.LaunchStore
	PositionStore storage.PositionStore
	BundlerStore  storage.BundlerStore

	// Notifier receives an event after each successful mutation.
	// Defaults to event.Nop.
	Notifier event.Notifier

	// Clock supplies "now". Defaults to SystemClock.
	Clock Clock

	// Log defaults to the standard logrus logger.
	Log *logrus.Logger
}

// New creates a new Service.
func New(opts Options) *Service {
	if opts.Notifier == nil {
		opts.Notifier = event.Nop{}
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Service{
		protocol:  opts.ProtocolStore,
		launches:  opts.LaunchStore,
		positions: opts.PositionStore,
		bundlers:  opts.BundlerStore,
		notifier:  opts.Notifier,
		clock:     opts.Clock,
		log:       opts.Log,
	}
}

// emit delivers an event to observers. Delivery runs after the operation's
// writes have committed; a failed delivery is logged, never propagated.
func (s *Service) emit(ctx context.Context, e event.Event) {
	if err := s.notifier.Notify(ctx, e); err != nil {
		s.log.WithError(err).WithField("event_type", e.Type).Warn("event delivery failed")
		return
	}
	observability.RecordEventEmitted(e.Type)
}

// keyedMutex serializes operations per record set. One entry per key; the
// key space is bounded by the number of launches plus the protocol key, so
// entries are never released.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

const protocolKey = "protocol"

// lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// lockLaunch serializes all operations touching one launch and its
// positions. When an operation also mutates protocol counters it must take
// the protocol lock second, via lock(protocolKey); the launch-then-protocol
// order is fixed to keep lock acquisition deadlock free.
func (k *keyedMutex) lockLaunch(launchID uint64) func() {
	return k.lock("launch/" + strconv.FormatUint(launchID, 10))
}
