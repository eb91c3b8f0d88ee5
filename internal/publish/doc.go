// Package publish abstracts the pub/sub frame transport behind a small
// channel adapter interface and provides the UDP implementation: best-effort,
// one datagram per frame, no acknowledgment and no retransmission.
package publish
