package rmp

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// lossOracle simulates an unreliable channel by discarding a fraction
// of inbound datagrams at the receiver. Each Socket owns one oracle,
// seeded independently at Open time — the original implementation
// seeds a single process-wide rand() from time(NULL); per §9's
// "Globals" redesign note, state that precludes more than one socket
// per process is bundled per-handle instead, so the RNG is no
// exception.
type lossOracle struct {
	rng *rand.Rand
	p   float64
}

func newLossOracle(p float64) *lossOracle {
	var seed [32]byte
	// crypto/rand entropy in place of the source's time(NULL) seed:
	// time-based seeding is cheap to correlate when several sockets
	// open in the same process tick, which defeats the point of an
	// independent oracle per socket.
	if _, err := crand.Read(seed[:]); err != nil {
		// Extremely unlikely; fall back to a fixed seed rather than a
		// weaker time-based one so drop() still works deterministically.
		binary.NativeEndian.PutUint64(seed[:8], 0x5eed)
	}
	s1 := binary.NativeEndian.Uint64(seed[0:8])
	s2 := binary.NativeEndian.Uint64(seed[8:16])
	return &lossOracle{
		rng: rand.New(rand.NewPCG(s1, s2)),
		p:   p,
	}
}

// drop reports whether the next datagram should be discarded,
// returning true with probability p.
func (o *lossOracle) drop() bool {
	if o.p <= 0 {
		return false
	}
	if o.p >= 1 {
		return true
	}
	return o.rng.Float64() < o.p
}
