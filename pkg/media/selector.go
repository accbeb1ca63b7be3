// ABOUTME: Audio stream selection
// ABOUTME: Ranks a container's audio streams and picks the best candidate
package media

// BestAudioStream returns the audio stream most likely to give usable audio.
// Streams with an available decoder win, then the container's default track,
// then more channels, then higher bitrate. Ties keep the lower index.
func BestAudioStream(c Container) (Stream, error) {
	var best Stream
	var bestParams CodecParameters

	for _, s := range c.Streams() {
		params := s.CodecParameters()
		if params.MediaType != MediaTypeAudio {
			continue
		}
		if best == nil || betterAudio(params, bestParams) {
			best = s
			bestParams = params
		}
	}

	if best == nil {
		return nil, ErrNoAudioStream
	}
	return best, nil
}

// betterAudio reports whether a strictly outranks b
func betterAudio(a, b CodecParameters) bool {
	if a.Decodable != b.Decodable {
		return a.Decodable
	}
	if a.Default != b.Default {
		return a.Default
	}
	if a.Channels != b.Channels {
		return a.Channels > b.Channels
	}
	return a.BitRate > b.BitRate
}
