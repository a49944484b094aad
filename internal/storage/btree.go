package storage

import (
	"sync"

	"github.com/google/btree"
)

// btree degree for the in-memory container. Directory write sets are
// small; 16 keeps nodes compact.
const memDegree = 16

type memItem struct {
	key   string
	value []byte
}

func memLess(a, b memItem) bool {
	return reverseLess(a.key, b.key)
}

// reverseLess orders keys by their reversed byte sequence. A DN's
// descendants carry it as a trailing suffix, so under this ordering they
// form one contiguous run immediately after the DN itself, which is what
// the single-probe leaf check relies on.
func reverseLess(a, b string) bool {
	i, j := len(a)-1, len(b)-1
	for i >= 0 && j >= 0 {
		if a[i] != b[j] {
			return a[i] < b[j]
		}
		i--
		j--
	}
	return i < j
}

// memContainer is an in-memory Container on a copy-on-write btree. A write
// transaction clones the tree, mutates the clone, and publishes it on
// commit, so readers of the previous root never observe intermediate
// states.
type memContainer struct {
	mu     sync.Mutex
	tree   *btree.BTreeG[memItem]
	closed bool
}

// NewMemContainer creates an empty in-memory container.
func NewMemContainer() Container {
	return &memContainer{
		tree: btree.NewG(memDegree, memLess),
	}
}

func (c *memContainer) Begin() (Txn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrTxnDone
	}
	return &memTxn{c: c, tree: c.tree.Clone()}, nil
}

func (c *memContainer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.Len()
}

func (c *memContainer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.tree = btree.NewG(memDegree, memLess)
	return nil
}

type memTxn struct {
	c    *memContainer
	tree *btree.BTreeG[memItem]
	done bool
}

func (t *memTxn) Get(key string) ([]byte, error) {
	if t.done {
		return nil, ErrTxnDone
	}
	it, ok := t.tree.Get(memItem{key: key})
	if !ok {
		return nil, ErrNotFound
	}
	return it.value, nil
}

func (t *memTxn) Put(key string, value []byte, overwrite bool) error {
	if t.done {
		return ErrTxnDone
	}
	if !overwrite {
		if _, ok := t.tree.Get(memItem{key: key}); ok {
			return ErrExists
		}
	}
	t.tree.ReplaceOrInsert(memItem{key: key, value: value})
	return nil
}

func (t *memTxn) Delete(key string) error {
	if t.done {
		return ErrTxnDone
	}
	if _, ok := t.tree.Delete(memItem{key: key}); !ok {
		return ErrNotFound
	}
	return nil
}

func (t *memTxn) Cursor() Cursor {
	return &memCursor{tree: t.tree}
}

func (t *memTxn) Commit() error {
	if t.done {
		return ErrTxnDone
	}
	t.done = true
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.c.closed {
		return ErrTxnDone
	}
	t.c.tree = t.tree
	return nil
}

func (t *memTxn) Abort() error {
	if t.done {
		return ErrTxnDone
	}
	t.done = true
	t.tree = nil
	return nil
}

// memCursor iterates one transaction's tree. The cursor stays valid while
// the owning transaction mutates the tree; it re-probes on every call.
type memCursor struct {
	tree *btree.BTreeG[memItem]
	pos  string
	set  bool
}

func (cur *memCursor) Seek(key string) bool {
	if _, ok := cur.tree.Get(memItem{key: key}); !ok {
		return false
	}
	cur.pos = key
	cur.set = true
	return true
}

func (cur *memCursor) Next() (string, bool) {
	var (
		next  string
		found bool
	)
	pivot := memItem{key: cur.pos}
	cur.tree.AscendGreaterOrEqual(pivot, func(it memItem) bool {
		if cur.set && it.key == cur.pos {
			return true
		}
		next = it.key
		found = true
		return false
	})
	if !found {
		return "", false
	}
	cur.pos = next
	cur.set = true
	return next, true
}
