package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// WAVHeader represents the header structure of a canonical WAV file
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16  // Number of channels
	SampleRate    uint32  // Sample rate
	ByteRate      uint32  // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16  // NumChannels * BitsPerSample / 8
	BitsPerSample uint16  // Bits per sample
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

// Info describes a decoded sample source
type Info struct {
	SampleRate    int     `json:"sample_rate"`
	Channels      int     `json:"channels"`
	BitsPerSample int     `json:"bits_per_sample"`
	NumSamples    int     `json:"num_samples"` // per channel
	Duration      float64 `json:"duration_seconds"`
}

// headerSize is the canonical WAV header length in bytes
const headerSize = 44

// Decode decodes PCM-16 WAV data into normalized float32 amplitudes in the
// range [-1.0, 1.0]. Stereo sources are reduced to mono by taking the first
// channel only.
func Decode(data []byte) ([]float32, *Info, error) {
	header, err := parseHeader(data)
	if err != nil {
		return nil, nil, err
	}

	if header.AudioFormat != 1 {
		return nil, nil, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", header.AudioFormat)
	}

	if header.BitsPerSample != 16 {
		return nil, nil, fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", header.BitsPerSample)
	}

	if header.NumChannels != 1 && header.NumChannels != 2 {
		return nil, nil, fmt.Errorf("unsupported channel count: %d (only mono and stereo are supported)", header.NumChannels)
	}

	channels := int(header.NumChannels)

	// Interleaved frame count; clamp to the bytes actually present
	dataBytes := int(header.Subchunk2Size)
	if available := len(data) - headerSize; dataBytes > available {
		dataBytes = available
	}
	numFrames := dataBytes / (2 * channels)
	if numFrames <= 0 {
		return nil, nil, fmt.Errorf("no audio data found")
	}

	raw := make([]int16, numFrames*channels)
	if err := binary.Read(bytes.NewReader(data[headerSize:]), binary.LittleEndian, raw); err != nil {
		return nil, nil, fmt.Errorf("failed to read audio samples: %w", err)
	}

	samples := make([]float32, numFrames)
	for i := 0; i < numFrames; i++ {
		samples[i] = float32(raw[i*channels]) / 32768.0
	}

	info := &Info{
		SampleRate:    int(header.SampleRate),
		Channels:      channels,
		BitsPerSample: int(header.BitsPerSample),
		NumSamples:    numFrames,
		Duration:      float64(numFrames) / float64(header.SampleRate),
	}

	return samples, info, nil
}

// GetInfo extracts metadata from WAV data without decoding the samples
func GetInfo(data []byte) (*Info, error) {
	header, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	if header.NumChannels == 0 || header.BitsPerSample == 0 {
		return nil, fmt.Errorf("invalid WAV header: zero channels or bit depth")
	}

	numFrames := int(header.Subchunk2Size) / (int(header.BitsPerSample) / 8 * int(header.NumChannels))

	return &Info{
		SampleRate:    int(header.SampleRate),
		Channels:      int(header.NumChannels),
		BitsPerSample: int(header.BitsPerSample),
		NumSamples:    numFrames,
		Duration:      float64(numFrames) / float64(header.SampleRate),
	}, nil
}

// EncodeWAV encodes PCM-16 samples into canonical mono WAV format
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio samples")
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	numChannels := uint16(1)
	bitsPerSample := uint16(16)
	dataSize := uint32(len(samples) * 2)

	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   numChannels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(samples)*2))

	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}

	return buf.Bytes(), nil
}

// parseHeader reads and validates the canonical 44-byte WAV header
func parseHeader(data []byte) (*WAVHeader, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("WAV data too short: need at least %d bytes, got %d", headerSize, len(data))
	}

	var header WAVHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read WAV header: %w", err)
	}

	if string(header.ChunkID[:]) != "RIFF" {
		return nil, fmt.Errorf("invalid WAV file: missing RIFF header")
	}

	if string(header.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("invalid WAV file: missing WAVE format")
	}

	if string(header.Subchunk1ID[:]) != "fmt " {
		return nil, fmt.Errorf("invalid WAV file: missing fmt chunk")
	}

	if string(header.Subchunk2ID[:]) != "data" {
		return nil, fmt.Errorf("invalid WAV file: missing data chunk")
	}

	if header.SampleRate == 0 {
		return nil, fmt.Errorf("invalid sample rate: 0")
	}

	return &header, nil
}
