// Package rmp implements a reliable message protocol layered on an
// unreliable datagram transport.
//
// RMP exposes a small socket-like API — Open, Bind, Send, Recv, Close —
// and guarantees at-least-once delivery of every payload handed to Send:
// a background receiver task enqueues inbound payloads and acknowledges
// them, while a background retransmitter task re-emits any outbound
// payload that has gone unacknowledged for too long. RMP does not provide
// connection handshakes, ordered delivery across distinct Send calls,
// flow/congestion control, fragmentation, or encryption.
package rmp
