// Package notify implements the status notification contract: an explicit,
// transport-independent registry of observers with broadcast fan-out and the
// event payload types pushed to them. The WebSocket binding lives in the
// server package; this package only guarantees delivery semantics.
package notify
