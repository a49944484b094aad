// Package namespace manages the partitions of the DN space. Each namespace
// owns one ordered key-value container, a single write-transaction slot,
// and a bounded FIFO queue of requests waiting for that slot.
package namespace

import (
	"errors"
	"sync"

	"github.com/gleydsonsoares/openbsd-ldapd/internal/logging"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/metrics"
	"github.com/gleydsonsoares/openbsd-ldapd/internal/storage"
)

// Namespace errors.
var (
	// ErrBusy is returned by Begin while another write transaction holds
	// the namespace's slot.
	ErrBusy = errors.New("namespace: write transaction in progress")
	// ErrQueueFull is returned by Queue when the retry queue is at
	// capacity.
	ErrQueueFull = errors.New("namespace: retry queue full")
)

// DefaultQueueDepth is the retry-queue capacity used when the
// configuration does not set one.
const DefaultQueueDepth = 64

// Config describes one namespace.
type Config struct {
	// Suffix is the normalized DN suffix the namespace serves.
	Suffix string
	// Relax downgrades unknown-attribute errors to tolerated
	// pass-through during validation.
	Relax bool
	// QueueDepth bounds the retry queue; zero means DefaultQueueDepth.
	QueueDepth int
}

// Namespace is one partition of the DN space. At most one write
// transaction is open against a namespace at any instant; requests that
// find the slot taken are queued and replayed in arrival order when it
// frees up.
type Namespace struct {
	suffix    string
	relax     bool
	container storage.Container
	log       logging.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	busy     bool
	queue    []func()
	maxQueue int
}

// New creates a namespace over the given container.
func New(cfg Config, container storage.Container, log logging.Logger, m *metrics.Metrics) *Namespace {
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Namespace{
		suffix:    cfg.Suffix,
		relax:     cfg.Relax,
		container: container,
		log:       log.WithFields("suffix", cfg.Suffix),
		metrics:   m,
		maxQueue:  depth,
	}
}

// Suffix returns the namespace's DN suffix.
func (ns *Namespace) Suffix() string { return ns.suffix }

// Relax reports whether unknown attributes are tolerated here.
func (ns *Namespace) Relax() bool { return ns.relax }

// Container exposes the backing store container, for read paths outside
// the write slot.
func (ns *Namespace) Container() storage.Container { return ns.container }

// Begin opens the namespace's single write transaction. It never blocks:
// when the slot is held it fails with ErrBusy and the caller decides
// whether to queue.
func (ns *Namespace) Begin() (*WriteTxn, error) {
	ns.mu.Lock()
	if ns.busy {
		ns.mu.Unlock()
		return nil, ErrBusy
	}
	ns.busy = true
	ns.mu.Unlock()

	txn, err := ns.container.Begin()
	if err != nil {
		ns.release()
		return nil, err
	}
	return &WriteTxn{ns: ns, txn: txn}, nil
}

// Queue appends a deferred replay of a request that lost the race for the
// write slot. Replays run strictly in arrival order, one at a time, when
// the slot frees. ErrQueueFull means the caller must answer busy
// immediately instead.
func (ns *Namespace) Queue(replay func()) error {
	ns.mu.Lock()
	if len(ns.queue) >= ns.maxQueue {
		ns.mu.Unlock()
		ns.metrics.QueueRejected.WithLabelValues(ns.suffix).Inc()
		return ErrQueueFull
	}
	ns.queue = append(ns.queue, replay)
	depth := len(ns.queue)
	busy := ns.busy
	// Published under mu so concurrent queue/kick cannot reorder stale
	// depths past each other.
	ns.metrics.QueueDepth.WithLabelValues(ns.suffix).Set(float64(depth))
	ns.mu.Unlock()

	ns.metrics.QueuedRequests.WithLabelValues(ns.suffix).Inc()
	ns.log.Debug("queued write request", "depth", depth)

	// The slot may have freed between the failed Begin and the append;
	// kick the queue so the request is not stranded.
	if !busy {
		ns.kick()
	}
	return nil
}

// QueueLen returns the current retry-queue length.
func (ns *Namespace) QueueLen() int {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return len(ns.queue)
}

// release frees the write slot and replays the queue head, if any.
func (ns *Namespace) release() {
	ns.mu.Lock()
	ns.busy = false
	ns.mu.Unlock()
	ns.kick()
}

// kick pops the queue head and runs it on its own goroutine. A replayed
// request re-enters the full handler state machine; if it loses a race
// for the slot it queues again.
func (ns *Namespace) kick() {
	ns.mu.Lock()
	if ns.busy || len(ns.queue) == 0 {
		ns.mu.Unlock()
		return
	}
	replay := ns.queue[0]
	ns.queue = ns.queue[1:]
	ns.metrics.QueueDepth.WithLabelValues(ns.suffix).Set(float64(len(ns.queue)))
	ns.mu.Unlock()

	go replay()
}

// WriteTxn couples a storage transaction with the namespace slot that
// guards it. Commit and Abort terminate the transaction and release the
// slot exactly once; the zero-value-safe Abort makes it usable as a
// deferred guard on every handler exit path.
type WriteTxn struct {
	ns   *Namespace
	txn  storage.Txn
	done bool
}

// Get returns the entry value stored under key, or storage.ErrNotFound.
func (t *WriteTxn) Get(key string) ([]byte, error) {
	return t.txn.Get(key)
}

// Put stores value under key. See storage.Txn.
func (t *WriteTxn) Put(key string, value []byte, overwrite bool) error {
	return t.txn.Put(key, value, overwrite)
}

// Delete removes key, or returns storage.ErrNotFound.
func (t *WriteTxn) Delete(key string) error {
	return t.txn.Delete(key)
}

// Cursor opens a cursor over the transaction's view.
func (t *WriteTxn) Cursor() storage.Cursor {
	return t.txn.Cursor()
}

// Commit publishes the transaction and releases the namespace slot.
func (t *WriteTxn) Commit() error {
	if t.done {
		return storage.ErrTxnDone
	}
	t.done = true
	err := t.txn.Commit()
	t.ns.release()
	return err
}

// Abort discards the transaction and releases the namespace slot. Abort
// after Commit or a prior Abort is a no-op, so handlers can defer it
// unconditionally.
func (t *WriteTxn) Abort() {
	if t.done {
		return
	}
	t.done = true
	_ = t.txn.Abort()
	t.ns.release()
}
