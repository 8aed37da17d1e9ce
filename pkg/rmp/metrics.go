package rmp

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects Prometheus observations across every component of
// a Socket's data path: the loss oracle's drop counter, the receiver
// and retransmitter tasks, and the pending-send table's occupancy. One Metrics may be shared across several Sockets opened
// in the same process — each observation is labeled with the owning
// socket's handle ID so per-socket series stay distinguishable.
type Metrics struct {
	framesSent      *prometheus.CounterVec
	framesReceived  *prometheus.CounterVec
	simulatedDrops  *prometheus.CounterVec
	retransmits     *prometheus.CounterVec
	pendingSends    *prometheus.GaugeVec
	inboundQueueLen *prometheus.GaugeVec
}

// NewMetrics registers the rmp_* collectors with reg and returns a
// Metrics ready to pass via Config.Metrics. Sharing one Metrics across
// every Socket in a process is the common case; registration panics if
// reg already holds the rmp_* collectors, so NewMetrics is called once
// per registry. Passing a fresh prometheus.NewRegistry() isolates a
// Socket's metrics (as tests do).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rmp_frames_sent_total",
			Help: "DATA and ACK frames written to the underlying transport, by socket and frame type.",
		}, []string{"socket", "type"}),
		framesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rmp_frames_received_total",
			Help: "Frames accepted by the receiver loop (post loss-oracle), by socket and frame type.",
		}, []string{"socket", "type"}),
		simulatedDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rmp_simulated_drops_total",
			Help: "Inbound datagrams discarded by the loss oracle, by socket.",
		}, []string{"socket"}),
		retransmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rmp_retransmits_total",
			Help: "DATA frames re-emitted by the retransmitter task, by socket.",
		}, []string{"socket"}),
		pendingSends: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rmp_pending_sends",
			Help: "Current size of the pending-send table, by socket.",
		}, []string{"socket"}),
		inboundQueueLen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rmp_inbound_queue_length",
			Help: "Current length of the inbound queue, by socket.",
		}, []string{"socket"}),
	}
	reg.MustRegister(m.framesSent, m.framesReceived, m.simulatedDrops, m.retransmits, m.pendingSends, m.inboundQueueLen)
	return m
}

// newNopMetrics returns a Metrics registered against a private
// registry, so Sockets opened without an explicit Metrics never
// contend over prometheus.DefaultRegisterer or collide with each
// other's collector registration.
func newNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func (m *Metrics) frameSent(socket string, typ MessageType) {
	if m == nil {
		return
	}
	m.framesSent.WithLabelValues(socket, typ.String()).Inc()
}

func (m *Metrics) frameReceived(socket string, typ MessageType) {
	if m == nil {
		return
	}
	m.framesReceived.WithLabelValues(socket, typ.String()).Inc()
}

func (m *Metrics) simulatedDrop(socket string) {
	if m == nil {
		return
	}
	m.simulatedDrops.WithLabelValues(socket).Inc()
}

func (m *Metrics) retransmit(socket string) {
	if m == nil {
		return
	}
	m.retransmits.WithLabelValues(socket).Inc()
}

func (m *Metrics) setPendingSends(socket string, n int) {
	if m == nil {
		return
	}
	m.pendingSends.WithLabelValues(socket).Set(float64(n))
}

func (m *Metrics) setInboundQueueLen(socket string, n int) {
	if m == nil {
		return
	}
	m.inboundQueueLen.WithLabelValues(socket).Set(float64(n))
}
