package audio

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// BeepSynth plays tones through the system speaker using faiface/beep.
// Speaker initialization is deferred to the first cue so a machine without
// an audio device costs nothing until a sound is actually wanted, and the
// init error is remembered so every later cue fails fast and silent.
type BeepSynth struct {
	once    sync.Once
	initErr error
}

// NewBeepSynth creates an uninitialized speaker-backed synth
func NewBeepSynth() *BeepSynth {
	return &BeepSynth{}
}

// Play schedules the tones back to back and returns without waiting for
// playback to finish.
func (b *BeepSynth) Play(tones ...Tone) error {
	b.once.Do(func() {
		b.initErr = speaker.Init(sampleRate, sampleRate.N(20*time.Millisecond))
	})
	if b.initErr != nil {
		return b.initErr
	}

	streamers := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		streamers = append(streamers, sine(t.Freq, sampleRate.N(t.Duration)))
	}
	speaker.Play(beep.Seq(streamers...))
	return nil
}

// sine returns a streamer producing n samples of a fixed-amplitude sine wave
func sine(freq float64, n int) beep.Streamer {
	pos := 0
	step := 2 * math.Pi * freq / float64(sampleRate)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		for i := range samples {
			if pos >= n {
				return i, true
			}
			v := 0.2 * math.Sin(step*float64(pos))
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	})
}
