package rmp

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Default tuning constants, mirroring the original implementation's
// compile-time constants (T, TIMEOUT, DROP_PROBABILITY, RECV_BUF_SIZE,
// NUM_BUCKETS).
const (
	DefaultRetransmitInterval = 2 * time.Second
	DefaultRetransmitTimeout  = 2 * DefaultRetransmitInterval
	DefaultDropProbability    = 0.10
	DefaultRecvBufSize        = 1600
	DefaultPendingBuckets     = 50
)

// Config tunes a Socket's background tasks and ambient stack. Pass nil
// to Open to get DefaultConfig(). Zero-valued duration/size fields are
// filled in from the defaults; DropProbability 0 is a legitimate
// explicit choice (a lossless socket) and is never defaulted away.
type Config struct {
	// RetransmitInterval is how often the retransmitter task scans the
	// pending-send table.
	RetransmitInterval time.Duration
	// RetransmitTimeout is the minimum age of a pending-send entry
	// before it is re-emitted.
	RetransmitTimeout time.Duration
	// DropProbability is the probability, in [0,1], that the loss
	// oracle discards an inbound datagram before it is processed.
	DropProbability float64
	// RecvBufSize is the size of the receiver task's read buffer.
	RecvBufSize int
	// PendingBuckets is the number of shards in the pending-send table.
	PendingBuckets int

	// Logger receives structured logs for lifecycle events and
	// absorbed receive-path failures. A nil Logger is replaced with a
	// no-op logger.
	Logger *zap.SugaredLogger
	// Metrics receives Prometheus observations for every component in
	// the data path. A nil Metrics is replaced with a no-op Metrics.
	Metrics *Metrics

	// Clock supplies Now() and the retransmitter's ticker. A nil Clock
	// is replaced with clockwork.NewRealClock(); tests substitute
	// clockwork.NewFakeClock() to exercise the retransmit timeout
	// deterministically without sleeping.
	Clock clockwork.Clock
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		RetransmitInterval: DefaultRetransmitInterval,
		RetransmitTimeout:  DefaultRetransmitTimeout,
		DropProbability:    DefaultDropProbability,
		RecvBufSize:        DefaultRecvBufSize,
		PendingBuckets:     DefaultPendingBuckets,
	}
}

// withDefaults returns a Config derived from cfg (or the package
// defaults if cfg is nil) with every unset duration/size field filled
// in, and a non-nil Logger and Metrics.
func (cfg *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	merged := *cfg
	if merged.RetransmitInterval <= 0 {
		merged.RetransmitInterval = defaults.RetransmitInterval
	}
	if merged.RetransmitTimeout <= 0 {
		merged.RetransmitTimeout = defaults.RetransmitTimeout
	}
	if merged.RecvBufSize <= 0 {
		merged.RecvBufSize = defaults.RecvBufSize
	}
	if merged.PendingBuckets <= 0 {
		merged.PendingBuckets = defaults.PendingBuckets
	}
	if merged.Logger == nil {
		merged.Logger = zap.NewNop().Sugar()
	}
	if merged.Metrics == nil {
		merged.Metrics = newNopMetrics()
	}
	if merged.Clock == nil {
		merged.Clock = clockwork.NewRealClock()
	}
	return &merged
}
