package rmp

// retransmitterLoop is the retransmitter task of §4.3: every
// RetransmitInterval it scans the pending-send table and re-emits any
// entry whose lastSend age has reached RetransmitTimeout. One task per
// Socket, started by Open, running until Close.
func (s *Socket) retransmitterLoop() {
	defer s.tasksWG.Done()

	ticker := s.cfg.Clock.NewTicker(s.cfg.RetransmitInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.Chan():
			s.scanAndResend()
		}
	}
}

func (s *Socket) scanAndResend() {
	now := s.cfg.Clock.Now()
	s.pending.scan(func(entry *pendingSend) {
		if now.Sub(entry.lastSend) < s.cfg.RetransmitTimeout {
			return
		}
		frame := encode(entry.seq, MessageData, entry.payload)
		conn := s.conn.Load()
		if _, err := conn.WriteTo(frame, entry.peer); err != nil {
			if s.closed.Load() {
				return
			}
			// §9 relaxes the source's fatal-on-resend-failure behavior:
			// log and retry on the next scan instead of aborting.
			s.log.Errorw("retransmit failed, will retry next scan", "seq", entry.seq, "error", err)
			return
		}
		entry.lastSend = now
		s.met.retransmit(shortID(s.id))
		s.met.frameSent(shortID(s.id), MessageData)
		s.log.Debugw("retransmitted", "seq", entry.seq)
	})
}
