package ffmpeg

import "time"

// VideoInfo describes a probed video. Width and Height are display
// dimensions, already swapped for rotated streams.
type VideoInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	Rotation   int
	VideoCodec string
	HasVideo   bool
	HasAudio   bool
	AudioCodec string
}

// Vertical reports a portrait frame, the native short-video layout.
func (v VideoInfo) Vertical() bool {
	return v.Height > v.Width
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame   int
	FPS     float64
	Bitrate string
	Speed   string
	Time    time.Duration
	// Percentage is set only when RunOptions.Total is known.
	Percentage float64
}

// ProgressFunc is called once per ffmpeg progress block.
type ProgressFunc func(*Progress)

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	Total           time.Duration
	ProgressHandler ProgressFunc
	LogHandler      func(line string)
}

// FrameOptions configures frame sampling.
type FrameOptions struct {
	// Interval between sampled frames. Defaults to DefaultFrameInterval.
	Interval time.Duration
	// MaxWidth downscales wider frames, keeping the aspect ratio. Zero keeps
	// the source size.
	MaxWidth int
	// Total is the input duration, used for progress percentages.
	Total        time.Duration
	ProgressFunc ProgressFunc
}

// DefaultFrameInterval is one sampled frame every two seconds.
const DefaultFrameInterval = 2 * time.Second
