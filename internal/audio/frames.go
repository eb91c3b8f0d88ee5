package audio

// FrameCount returns the number of frames needed to emit totalSamples in
// chunks of chunkSize: ceil(totalSamples / chunkSize)
func FrameCount(totalSamples, chunkSize int) int {
	if totalSamples <= 0 || chunkSize <= 0 {
		return 0
	}
	return (totalSamples + chunkSize - 1) / chunkSize
}

// FrameAt returns the frame starting at cursor, clipped to the end of the
// sample sequence. The returned slice aliases samples; callers must not
// mutate it. Returns nil when the cursor is at or past the end.
func FrameAt(samples []float32, cursor, chunkSize int) []float32 {
	if cursor < 0 || cursor >= len(samples) || chunkSize <= 0 {
		return nil
	}

	end := cursor + chunkSize
	if end > len(samples) {
		end = len(samples)
	}

	return samples[cursor:end]
}
