package playback

import (
	"errors"
	"fmt"

	"github.com/skypro1111/audio-cast-service/internal/audio"
	"github.com/skypro1111/audio-cast-service/internal/library"
)

// Source resolves a reference to an already-decoded ordered sequence of
// normalized amplitude values and its sample rate
type Source interface {
	Decode(ref string) (samples []float32, sampleRate int, err error)
}

// LibrarySource decodes WAV sample sources from a library directory
type LibrarySource struct {
	Library *library.Library
}

// Decode loads and decodes the referenced WAV file. Unknown references map
// to ErrNotFound, undecodable data to DecodeError.
func (s *LibrarySource) Decode(ref string) ([]float32, int, error) {
	data, err := s.Library.Load(ref)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return nil, 0, err
	}

	samples, info, err := audio.Decode(data)
	if err != nil {
		return nil, 0, &DecodeError{Ref: ref, Err: err}
	}

	return samples, info.SampleRate, nil
}
