package timer

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/maruel/natural"

	"github.com/sramzz/pomodorowithsound/config"
	"github.com/sramzz/pomodorowithsound/internal/pathutil"
	"github.com/sramzz/pomodorowithsound/internal/static"
)

// The speaker is initialized once for the lifetime of the process (the
// underlying audio context cannot be recreated), so every stream is
// played at this rate and resampled when its source rate differs.
const speakerSampleRate beep.SampleRate = 44100

const resampleQuality = 4

var (
	speakerInitOnce sync.Once
	speakerInitErr  error
)

func initSpeaker() error {
	speakerInitOnce.Do(func() {
		speakerInitErr = speaker.Init(
			speakerSampleRate,
			speakerSampleRate.N(time.Second/10),
		)
	})

	return speakerInitErr
}

// SoundOpts returns the selectable ambient sounds: the embedded
// defaults plus any sound files in the user's data directory. The first
// entry always disables sound.
func SoundOpts() []string {
	seen := make(map[string]struct{})

	add := func(names []string) {
		for _, name := range names {
			switch filepath.Ext(name) {
			case ".ogg", ".mp3", ".flac", ".wav":
			default:
				continue
			}

			seen[pathutil.StripExtension(name)] = struct{}{}
		}
	}

	embedded, err := static.List()
	if err == nil {
		add(embedded)
	}

	entries, err := os.ReadDir(
		filepath.Join(xdg.DataHome, config.Dir(), "static"),
	)
	if err == nil {
		names := make([]string, 0, len(entries))

		for _, entry := range entries {
			names = append(names, entry.Name())
		}

		add(names)
	}

	opts := make([]string, 0, len(seen)+1)

	for name := range seen {
		opts = append(opts, name)
	}

	sort.Sort(natural.StringSlice(opts))

	return append([]string{config.SoundOff}, opts...)
}

// prepSoundStream returns an audio stream for the specified sound and
// readies the speaker to play it. The stream owns the underlying file
// and releases it on Close.
func prepSoundStream(
	sound string,
) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		f      fs.File
		err    error
		stream beep.StreamSeekCloser
		format beep.Format
	)

	ext := filepath.Ext(sound)
	// without an extension, treat as an embedded WAV file
	if ext == "" {
		sound += ".wav"

		f, err = static.Files.Open(static.FilePath(sound))
		if err != nil {
			return nil, format, err
		}
	} else {
		f, err = os.Open(sound)
		if err != nil {
			return nil, format, err
		}
	}

	ext = filepath.Ext(sound)

	switch ext {
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		_ = f.Close()

		return nil, format, errInvalidSoundFormat
	}

	if err != nil {
		_ = f.Close()

		return nil, format, err
	}

	err = initSpeaker()
	if err != nil {
		_ = stream.Close()

		return nil, format, err
	}

	err = stream.Seek(0)
	if err != nil {
		_ = stream.Close()

		return nil, format, err
	}

	return stream, format, nil
}

// playable adapts a decoded stream to the speaker's sample rate.
func playable(stream beep.Streamer, format beep.Format) beep.Streamer {
	if format.SampleRate == speakerSampleRate {
		return stream
	}

	return beep.Resample(
		resampleQuality,
		format.SampleRate,
		speakerSampleRate,
		stream,
	)
}

// setAmbientSound loads the configured ambient sound as an endless
// stream. The stream is left untouched when no sound is configured.
func (t *Timer) setAmbientSound() error {
	var infiniteStream beep.Streamer

	if t.Opts.AmbientSound != "" {
		stream, format, err := prepSoundStream(t.Opts.AmbientSound)
		if err != nil {
			return err
		}

		infiniteStream = playable(beep.Loop(-1, stream), format)
	}

	t.mu.Lock()
	t.SoundStream = infiniteStream
	t.mu.Unlock()

	return nil
}
