package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/keagan/tagcannon/pkg/util"
)

// ProbeVideo reads duration, display size, frame rate and stream presence.
func (e *Executor) ProbeVideo(ctx context.Context, filePath string) (*VideoInfo, error) {
	if filePath == "" {
		return nil, errors.New("file path is required")
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_entries", "format=duration:stream=codec_type,codec_name,width,height,r_frame_rate:stream_tags=rotate:stream_side_data=rotation",
		filePath,
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	info, err := parseProbeOutput(output)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	info.FilePath = filePath

	e.logger.Debug().
		Str("file", filePath).
		Dur("duration", info.Duration).
		Int("rotation", info.Rotation).
		Bool("has_audio", info.HasAudio).
		Msg("probed video")

	return info, nil
}

func parseProbeOutput(output []byte) (*VideoInfo, error) {
	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &VideoInfo{}
	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil && dur > 0 {
		info.Duration = time.Duration(dur * float64(time.Second))
	}

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if info.HasVideo {
				continue
			}
			info.HasVideo = true
			info.VideoCodec = stream.CodecName
			info.FPS = util.ParseFrameRate(stream.RFrameRate)
			info.Rotation = stream.rotation()
			info.Width, info.Height = stream.Width, stream.Height
			// Phones store portrait video as rotated landscape.
			if info.Rotation == 90 || info.Rotation == 270 {
				info.Width, info.Height = info.Height, info.Width
			}
		case "audio":
			if info.HasAudio {
				continue
			}
			info.HasAudio = true
			info.AudioCodec = stream.CodecName
		}
	}

	if !info.HasVideo && !info.HasAudio {
		return nil, errors.New("no audio or video streams found")
	}

	return info, nil
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	Tags       struct {
		Rotate string `json:"rotate"`
	} `json:"tags"`
	SideData []struct {
		Rotation *float64 `json:"rotation"`
	} `json:"side_data_list"`
}

// rotation normalizes the display rotation to 0, 90, 180 or 270. Newer
// ffprobe reports it as side data, older builds as a "rotate" tag.
func (s probeStream) rotation() int {
	deg := 0
	if r, err := strconv.Atoi(s.Tags.Rotate); err == nil {
		deg = r
	}
	for _, sd := range s.SideData {
		if sd.Rotation != nil {
			deg = int(*sd.Rotation)
			break
		}
	}
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []probeStream `json:"streams"`
}
