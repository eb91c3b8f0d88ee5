// Package server implements the HTTP control surface for playback commands,
// the observer WebSocket endpoint, and monitoring/metrics endpoints.
package server
