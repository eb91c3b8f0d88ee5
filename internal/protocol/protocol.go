package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Wire format constants
const (
	// BytesPerSample is the size of one little-endian IEEE-754 float32 sample
	BytesPerSample = 4

	// MaxFrameSamples is the maximum number of samples per published frame
	MaxFrameSamples = 1024

	// MaxFrameBytes is the maximum payload size of a published frame
	MaxFrameBytes = MaxFrameSamples * BytesPerSample
)

// EncodeFrame serializes normalized float32 samples into the raw publish
// payload: little-endian IEEE-754 floats, no header, no length prefix.
// The final frame of a session may be shorter than MaxFrameSamples and is
// never padded.
func EncodeFrame(samples []float32) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty frame")
	}

	if len(samples) > MaxFrameSamples {
		return nil, fmt.Errorf("frame too large: %d samples exceeds maximum of %d", len(samples), MaxFrameSamples)
	}

	data := make([]byte, len(samples)*BytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[i*BytesPerSample:], math.Float32bits(s))
	}

	return data, nil
}

// DecodeFrame deserializes a raw publish payload back into float32 samples
func DecodeFrame(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot decode empty frame")
	}

	if len(data)%BytesPerSample != 0 {
		return nil, fmt.Errorf("frame size %d is not a multiple of %d bytes", len(data), BytesPerSample)
	}

	if len(data) > MaxFrameBytes {
		return nil, fmt.Errorf("frame too large: %d bytes exceeds maximum of %d", len(data), MaxFrameBytes)
	}

	samples := make([]float32, len(data)/BytesPerSample)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*BytesPerSample:]))
	}

	return samples, nil
}

// FrameBytes returns the encoded payload size for a frame of n samples
func FrameBytes(n int) int {
	return n * BytesPerSample
}
