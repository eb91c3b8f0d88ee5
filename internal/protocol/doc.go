// Package protocol defines the publish transport wire format: headerless raw
// binary frames of little-endian IEEE-754 float32 samples, mono, up to 1024
// samples (4096 bytes) per message. Receivers reconstruct timing and order
// from arrival order alone.
package protocol
