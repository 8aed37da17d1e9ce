package rmp

import (
	"net"
	"sync"
	"time"
)

// pendingSend is a DATA frame that has been emitted but not yet
// acknowledged. It is created on Send, refreshed by the retransmitter
// on resend, and removed by the receiver on a matching ACK (or by
// Close tearing down the whole table).
type pendingSend struct {
	seq      uint32
	payload  []byte
	peer     net.Addr
	lastSend time.Time
}

// pendingTable is the pending-send table of §4.4: a map keyed by
// sequence number, sharded into a fixed number of buckets each guarded
// by its own RWMutex — the Go restatement of the original's
// NUM_BUCKETS hashtable, with one rwlock per bucket where the original
// has one per table. The retransmitter's scan and the receiver's
// remove only ever contend within a shared bucket, not across the
// whole table.
type pendingTable struct {
	buckets []pendingBucket
}

type pendingBucket struct {
	mu      sync.RWMutex
	entries map[uint32]*pendingSend
}

func newPendingTable(numBuckets int) *pendingTable {
	t := &pendingTable{buckets: make([]pendingBucket, numBuckets)}
	for i := range t.buckets {
		t.buckets[i].entries = make(map[uint32]*pendingSend)
	}
	return t
}

func (t *pendingTable) bucketFor(seq uint32) *pendingBucket {
	return &t.buckets[int(seq)%len(t.buckets)]
}

// insert adds a new pending-send entry. It returns ErrDuplicateSeq if
// an entry with the same sequence number is already present — this
// should never occur given the socket's monotonic sequence counter.
func (t *pendingTable) insert(entry *pendingSend) error {
	b := t.bucketFor(entry.seq)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.entries[entry.seq]; exists {
		return ErrDuplicateSeq
	}
	b.entries[entry.seq] = entry
	return nil
}

// remove deletes the entry for seq, if present. It is idempotent: a
// missing key (e.g. a duplicate ACK arriving after the first already
// removed it) is a no-op.
func (t *pendingTable) remove(seq uint32) {
	b := t.bucketFor(seq)
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, seq)
}

// scan invokes fn on every entry in the table, one bucket at a time,
// holding that bucket's read lock while fn runs; it takes no snapshot,
// so an entry inserted or removed in a bucket not yet visited may or
// may not be seen. fn may mutate an entry's lastSend timestamp but
// must not attempt to add/remove entries itself.
func (t *pendingTable) scan(fn func(*pendingSend)) {
	for i := range t.buckets {
		b := &t.buckets[i]
		b.mu.RLock()
		for _, entry := range b.entries {
			fn(entry)
		}
		b.mu.RUnlock()
	}
}

// len reports the total number of outstanding pending-send entries
// across all buckets. Advisory only — used for metrics, not for
// correctness.
func (t *pendingTable) len() int {
	n := 0
	for i := range t.buckets {
		b := &t.buckets[i]
		b.mu.RLock()
		n += len(b.entries)
		b.mu.RUnlock()
	}
	return n
}
