package protocol

import (
	"bytes"
	"testing"
)

func TestEncodeFrame(t *testing.T) {
	samples := []float32{0.0, 0.5, -0.5, 1.0, -1.0}

	data, err := EncodeFrame(samples)
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	if len(data) != len(samples)*BytesPerSample {
		t.Errorf("Expected %d bytes, got %d", len(samples)*BytesPerSample, len(data))
	}

	// 1.0 as little-endian IEEE-754 float32 is 00 00 80 3F
	one := data[3*BytesPerSample : 4*BytesPerSample]
	if !bytes.Equal(one, []byte{0x00, 0x00, 0x80, 0x3F}) {
		t.Errorf("Expected little-endian encoding of 1.0, got % X", one)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	samples := make([]float32, MaxFrameSamples)
	for i := range samples {
		samples[i] = float32(i%200)/100.0 - 1.0
	}

	data, err := EncodeFrame(samples)
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	if len(data) != MaxFrameBytes {
		t.Errorf("Expected full frame of %d bytes, got %d", MaxFrameBytes, len(data))
	}

	decoded, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}

	if len(decoded) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(decoded))
	}

	for i := range samples {
		if decoded[i] != samples[i] {
			t.Fatalf("Sample %d mismatch: expected %f, got %f", i, samples[i], decoded[i])
		}
	}
}

func TestEncodeFrameErrors(t *testing.T) {
	if _, err := EncodeFrame(nil); err == nil {
		t.Error("Expected error for empty frame")
	}

	if _, err := EncodeFrame(make([]float32, MaxFrameSamples+1)); err == nil {
		t.Error("Expected error for oversized frame")
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	if _, err := DecodeFrame(nil); err == nil {
		t.Error("Expected error for empty payload")
	}

	if _, err := DecodeFrame([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Error("Expected error for payload not a multiple of sample size")
	}

	if _, err := DecodeFrame(make([]byte, MaxFrameBytes+BytesPerSample)); err == nil {
		t.Error("Expected error for oversized payload")
	}
}

func TestFrameBytes(t *testing.T) {
	if got := FrameBytes(1024); got != 4096 {
		t.Errorf("Expected 4096 bytes for a full frame, got %d", got)
	}
	if got := FrameBytes(452); got != 1808 {
		t.Errorf("Expected 1808 bytes for a 452-sample frame, got %d", got)
	}
}
