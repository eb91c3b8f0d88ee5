// Package audio handles sample source decoding and frame arithmetic.
// It decodes PCM-16 WAV data into normalized mono float32 amplitudes and
// provides the chunk-boundary math used by the emission loop.
package audio
