package probe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Mythic-botz/Rename/internal/deps"
	"github.com/Mythic-botz/Rename/internal/language"
	"github.com/Mythic-botz/Rename/internal/logging"
	"github.com/Mythic-botz/Rename/internal/media/ffprobe"
	"github.com/Mythic-botz/Rename/internal/quality"
	"github.com/Mythic-botz/Rename/internal/services"
)

// ErrProbeUnavailable reports that the ffprobe binary could not be found.
var ErrProbeUnavailable = errors.New("ffprobe unavailable")

// Profile summarizes the audio and subtitle tracks of one file.
type Profile struct {
	AudioStreams     int
	SubtitleStreams  int
	JapaneseAudio    int
	EnglishAudio     int
	EnglishSubtitles int
	// VideoResolution is filled in by callers that also ran VideoResolution.
	VideoResolution string
}

// Prober inspects media files with ffprobe.
type Prober struct {
	binary string
	logger *slog.Logger
}

// New creates a Prober for the given ffprobe command.
func New(binary string, logger *slog.Logger) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary, logger: logging.NewComponentLogger(logger, "probe")}
}

func (p *Prober) resolve() (string, error) {
	path, err := deps.Resolve(p.binary)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "probe", "resolve ffprobe", "", errors.Join(ErrProbeUnavailable, err))
	}
	return path, nil
}

// Audio counts audio and subtitle streams and tallies their languages.
func (p *Prober) Audio(ctx context.Context, path string) (Profile, error) {
	binary, err := p.resolve()
	if err != nil {
		return Profile{}, err
	}
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		logging.WithContext(ctx, p.logger).Warn("audio probe failed; assuming no streams",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return Profile{}, nil
	}
	return profileFrom(result), nil
}

func profileFrom(result ffprobe.Result) Profile {
	audio := result.StreamsOfType("audio")
	subs := result.StreamsOfType("subtitle")
	profile := Profile{AudioStreams: len(audio), SubtitleStreams: len(subs)}
	for _, stream := range audio {
		tag := language.ExtractFromTags(stream.Tags)
		switch {
		case language.IsJapanese(tag):
			profile.JapaneseAudio++
		case language.IsEnglish(tag):
			profile.EnglishAudio++
		}
	}
	for _, stream := range subs {
		if language.IsEnglish(language.ExtractFromTags(stream.Tags)) {
			profile.EnglishSubtitles++
		}
	}
	return profile
}

// Track is one audio or subtitle stream.
type Track struct {
	Index    int
	Kind     string
	Codec    string
	Language string
	Name     string
}

// Tracks lists the audio and subtitle streams of path in stream order.
// Language holds the ISO 639-1 code when the tag is recognised.
func (p *Prober) Tracks(ctx context.Context, path string) ([]Track, error) {
	binary, err := p.resolve()
	if err != nil {
		return nil, err
	}
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		logging.WithContext(ctx, p.logger).Warn("track probe failed",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return nil, nil
	}
	var tracks []Track
	for _, stream := range result.Streams {
		if stream.CodecType != "audio" && stream.CodecType != "subtitle" {
			continue
		}
		tag := language.ExtractFromTags(stream.Tags)
		tracks = append(tracks, Track{
			Index:    stream.Index,
			Kind:     stream.CodecType,
			Codec:    stream.CodecName,
			Language: language.ToISO2(tag),
			Name:     language.DisplayName(tag),
		})
	}
	return tracks, nil
}

// VideoResolution maps the first video stream onto the resolution ladder.
func (p *Prober) VideoResolution(ctx context.Context, path string) (string, error) {
	binary, err := p.resolve()
	if err != nil {
		return quality.Unknown, err
	}
	result, err := ffprobe.Inspect(ctx, binary, path, ffprobe.SelectStreams("v"))
	if err != nil {
		logging.WithContext(ctx, p.logger).Warn("resolution probe failed",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return quality.Unknown, nil
	}
	if len(result.Streams) == 0 {
		return quality.Unknown, nil
	}
	video := result.Streams[0]
	return quality.FromDimensions(video.Width, video.Height), nil
}

// Container describes the file as a whole.
type Container struct {
	Duration   time.Duration
	Size       int64
	VideoCodec string
}

// Container reads the container duration and size along with the codec of
// the first video stream. Unparseable output yields a zero Container.
func (p *Prober) Container(ctx context.Context, path string) (Container, error) {
	binary, err := p.resolve()
	if err != nil {
		return Container{}, err
	}
	result, err := ffprobe.Inspect(ctx, binary, path, ffprobe.WithFormat())
	if err != nil {
		logging.WithContext(ctx, p.logger).Warn("container probe failed",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return Container{}, nil
	}
	info := Container{Size: result.SizeBytes()}
	if seconds := result.DurationSeconds(); seconds > 0 {
		info.Duration = time.Duration(seconds * float64(time.Second))
	}
	if video, ok := result.FirstOfType("video"); ok {
		info.VideoCodec = video.CodecName
	}
	return info, nil
}

// AudioLabel names the audio configuration of a profile. Single-track files
// are checked before the track-count labels.
func AudioLabel(p Profile) string {
	if p.AudioStreams == 1 {
		if p.JapaneseAudio >= 1 && p.EnglishSubtitles >= 1 {
			if p.SubtitleStreams > 1 {
				return "Subs"
			}
			return "Sub"
		}
		if p.EnglishAudio >= 1 {
			return "Dub"
		}
	}
	switch {
	case p.AudioStreams == 2:
		return "Dual"
	case p.AudioStreams == 3:
		return "Tri"
	case p.AudioStreams >= 4:
		return "Multi"
	default:
		return "Unknown"
	}
}
