package rmp

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Family mirrors the address family argument of a BSD socket() call.
// RMP only ever opens UDP sockets underneath, so Open accepts the
// value without validating or dispatching on it; it is kept in the
// API to mirror the source's r_socket(family, type, protocol) shape.
type Family int

// FamilyINET is the only supported address family.
const FamilyINET Family = 2 // matches AF_INET's conventional value

// SocketType is the second argument to Open, mirroring a BSD socket()
// type argument. Open rejects anything other than SocketTypeRMP.
type SocketType int

// SocketTypeRMP is the RMP socket-type marker — the literal value 12
// (SOCK_MRP) from the original implementation, kept unchanged since
// any sentinel is equally valid per the protocol's design notes.
const SocketTypeRMP SocketType = 12

// Socket is an open RMP handle: one underlying UDP transport, one
// inbound queue, one pending-send table, one sequence counter, one
// loss oracle, and the receiver/retransmitter tasks that animate them.
// All per-socket state lives on this struct rather than in package
// globals, so a process may open as many concurrent Sockets as it
// likes — see the "Globals" design note this redesigns away.
type Socket struct {
	id  uuid.UUID
	cfg *Config

	conn atomic.Pointer[net.UDPConn]

	pending *pendingTable
	inbound *inboundQueue
	loss    *lossOracle
	nextSeq atomic.Uint32

	closed    atomic.Bool
	closeOnce sync.Once
	tasksWG   sync.WaitGroup
	stopCh    chan struct{}

	log *zap.SugaredLogger
	met *Metrics
}

// Open creates the underlying datagram socket, initializes the
// inbound queue and pending-send table, and spawns the receiver and
// retransmitter background tasks. It returns ErrInvalidType if
// socketType is not SocketTypeRMP. cfg may be nil to accept all
// package defaults.
func Open(family Family, socketType SocketType, protocol int, cfg *Config) (*Socket, error) {
	if socketType != SocketTypeRMP {
		return nil, ErrInvalidType
	}

	cfg = cfg.withDefaults()

	// A BSD socket() call returns an unbound descriptor; the OS
	// auto-binds an ephemeral port on first use. net.ListenUDP with an
	// address of nil port reproduces that: the socket is usable
	// immediately and Bind (below) rebinds it to an explicit address.
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, newTransportError("open", err)
	}

	id := uuid.New()
	s := &Socket{
		id:      id,
		cfg:     cfg,
		pending: newPendingTable(cfg.PendingBuckets),
		inbound: newInboundQueue(),
		loss:    newLossOracle(cfg.DropProbability),
		log:     cfg.Logger.With("socket_id", shortID(id)),
		met:     cfg.Metrics,
		stopCh:  make(chan struct{}),
	}
	s.conn.Store(conn)

	s.log.Infow("socket opened", "local_addr", conn.LocalAddr().String())

	s.tasksWG.Add(2)
	go s.receiverLoop()
	go s.retransmitterLoop()

	return s, nil
}

// shortID formats a uuid for compact log/metric labels.
func shortID(id uuid.UUID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// Bind delegates to the underlying transport's bind by re-listening on
// localAddr: the ephemeral socket created by Open is closed and
// replaced, and the receiver task (which always reads through the
// atomic conn pointer) picks up the new listener on its next loop
// iteration.
func (s *Socket) Bind(localAddr *net.UDPAddr) error {
	if s.closed.Load() {
		return ErrClosed
	}
	newConn, err := net.ListenUDP("udp", localAddr)
	if err != nil {
		return newTransportError("bind", err)
	}
	old := s.conn.Swap(newConn)
	if old != nil {
		_ = old.Close()
	}
	s.log.Infow("socket bound", "local_addr", newConn.LocalAddr().String())
	return nil
}

// Send assigns the next sequence number, encodes and emits a DATA
// frame, and records a pending-send entry awaiting acknowledgement. It
// returns the number of payload bytes written, mirroring a datagram
// socket's sendto return value (the frame header is not counted).
// The pending-send entry is not created if the initial transport send
// fails.
func (s *Socket) Send(payload []byte, peer net.Addr) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	seq := s.nextSeq.Add(1) - 1
	frame := encode(seq, MessageData, payload)

	conn := s.conn.Load()
	n, err := conn.WriteTo(frame, peer)
	if err != nil {
		return 0, newTransportError("sendto", err)
	}
	s.met.frameSent(shortID(s.id), MessageData)

	owned := make([]byte, len(payload))
	copy(owned, payload)
	if insertErr := s.pending.insert(&pendingSend{
		seq:      seq,
		payload:  owned,
		peer:     peer,
		lastSend: s.cfg.Clock.Now(),
	}); insertErr != nil {
		// Should not occur given the monotonic counter invariant; log
		// rather than fail the call the caller already observed as sent.
		s.log.Errorw("pending-send insert failed", "seq", seq, "error", insertErr)
	}
	s.met.setPendingSends(shortID(s.id), s.pending.len())

	return n - FrameHeaderSize, nil
}

// Recv blocks until an inbound payload is available, copies up to
// len(buf) bytes into it, reports the sender's address, and returns
// the number of bytes copied. A payload longer than buf is silently
// truncated — matching the source's MIN(nbytes, msg->buf_len) copy —
// never an error.
func (s *Socket) Recv(buf []byte) (int, net.Addr, error) {
	if s.closed.Load() {
		return 0, nil, ErrClosed
	}
	entry, err := s.inbound.popFront()
	if err != nil {
		return 0, nil, err
	}
	n := copy(buf, entry.payload)
	s.met.setInboundQueueLen(shortID(s.id), s.inbound.len())
	return n, entry.peer, nil
}

// Close cancels both background tasks, releases the inbound queue and
// pending-send table, and closes the underlying transport. Any call
// blocked in Recv is woken with ErrClosed. Close is idempotent.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.stopCh)
		s.inbound.close()
		if conn := s.conn.Load(); conn != nil {
			err = newTransportError("close", conn.Close())
		}
		s.tasksWG.Wait()
		s.log.Infow("socket closed")
	})
	return err
}

// LocalAddr reports the underlying transport's current local address.
func (s *Socket) LocalAddr() net.Addr {
	if conn := s.conn.Load(); conn != nil {
		return conn.LocalAddr()
	}
	return nil
}

// ID returns the socket's handle identifier, used to label its logs
// and metrics.
func (s *Socket) ID() uuid.UUID {
	return s.id
}
