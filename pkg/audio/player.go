package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 1
)

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	globalAudioCtxErr  error
)

// Note is one tone of a chime.
type Note struct {
	Frequency float64
	Duration  time.Duration
}

// JoinChime is played after a meeting has been opened.
var JoinChime = []Note{
	{Frequency: 660, Duration: 120 * time.Millisecond},
	{Frequency: 880, Duration: 180 * time.Millisecond},
}

func initAudioContext() error {
	globalAudioCtxOnce.Do(func() {
		ctx, readyChan, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			globalAudioCtxErr = err
			return
		}
		// Wait for the hardware audio devices to be ready
		<-readyChan
		globalAudioCtx = ctx
	})
	return globalAudioCtxErr
}

// Play renders notes and blocks until playback ends or timeout elapses.
func Play(notes []Note, timeout time.Duration) error {
	if err := initAudioContext(); err != nil {
		return err
	}

	player := globalAudioCtx.NewPlayer(bytes.NewReader(Synthesize(notes)))
	defer player.Close()
	player.Play()

	deadline := time.After(timeout)
	for player.IsPlaying() {
		select {
		case <-deadline:
			player.Pause()
			return errors.New("chime playback timed out")
		case <-time.After(10 * time.Millisecond):
		}
	}
	return player.Err()
}

// Synthesize renders notes as signed 16-bit little endian mono PCM with a
// short fade on both ends of each note to avoid clicks.
func Synthesize(notes []Note) []byte {
	var buf bytes.Buffer
	for _, n := range notes {
		samples := int(n.Duration.Seconds() * sampleRate)
		fade := samples / 10
		for i := 0; i < samples; i++ {
			amp := 0.3
			if fade > 0 {
				switch {
				case i < fade:
					amp *= float64(i) / float64(fade)
				case i > samples-fade:
					amp *= float64(samples-i) / float64(fade)
				}
			}
			v := amp * math.Sin(2*math.Pi*n.Frequency*float64(i)/sampleRate)
			_ = binary.Write(&buf, binary.LittleEndian, int16(v*math.MaxInt16))
		}
	}
	return buf.Bytes()
}
