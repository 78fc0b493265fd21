package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestResults stores results from the exec-backed tests for the final summary
type TestResults struct {
	ExecutorPath string
	ProbeResults *VideoInfo
	FramesCount  int
	AudioBytes   int64
	VolumeStats  *VolumeStats
	Errors       []string
}

var globalResults = &TestResults{
	Errors: make([]string, 0),
}

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

// generateTestVideo renders a short test pattern with a sine tone.
func generateTestVideo(t *testing.T, withAudio bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mp4")

	args := []string{"-f", "lavfi", "-i", "testsrc=duration=5:size=320x240:rate=30"}
	if withAudio {
		args = append(args, "-f", "lavfi", "-i", "sine=frequency=1000:duration=5")
	}
	args = append(args, "-pix_fmt", "yuv420p", "-shortest", "-y", path)

	if out, err := exec.Command("ffmpeg", args...).CombinedOutput(); err != nil {
		t.Skipf("could not generate test video: %v\n%s", err, out)
	}
	return path
}

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	e, err := New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	return e
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	e := newTestExecutor(t)
	if e.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if e.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}

	globalResults.ExecutorPath = e.ffmpegPath
}

func TestRunWithoutArgs(t *testing.T) {
	e := &Executor{logger: zerolog.Nop(), ffmpegPath: "ffmpeg"}
	if err := e.Run(context.Background(), RunOptions{}); err == nil {
		t.Error("expected error for empty args")
	}
}

func TestProbeVideo(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := generateTestVideo(t, true)
	e := newTestExecutor(t)

	info, err := e.ProbeVideo(context.Background(), video)
	if err != nil {
		globalResults.Errors = append(globalResults.Errors, fmt.Sprintf("ProbeVideo failed: %v", err))
		t.Fatalf("ProbeVideo failed: %v", err)
	}
	globalResults.ProbeResults = info

	if info.Width != 320 || info.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", info.Width, info.Height)
	}
	if info.Duration < 4*time.Second {
		t.Errorf("duration too short: %v", info.Duration)
	}
	if !info.HasVideo || !info.HasAudio {
		t.Errorf("expected video and audio streams, got video=%v audio=%v", info.HasVideo, info.HasAudio)
	}
}

func TestProbeVideoInvalidFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	e := newTestExecutor(t)
	ctx := context.Background()

	if _, err := e.ProbeVideo(ctx, ""); err == nil {
		t.Error("ProbeVideo should fail for empty path")
	}
	if _, err := e.ProbeVideo(ctx, "nonexistent.mp4"); err == nil {
		t.Error("ProbeVideo should fail for non-existent file")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.mp4")
	if err := os.WriteFile(invalid, []byte("not a video"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ProbeVideo(ctx, invalid); err == nil {
		t.Error("ProbeVideo should fail for invalid video file")
	}
}

func TestSampleFrames(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := generateTestVideo(t, false)
	e := newTestExecutor(t)
	outDir := filepath.Join(t.TempDir(), "frames")

	var progressCalls int
	frames, err := e.SampleFrames(context.Background(), video, outDir, FrameOptions{
		Interval:     2 * time.Second,
		MaxWidth:     160,
		Total:        5 * time.Second,
		ProgressFunc: func(*Progress) { progressCalls++ },
	})
	if err != nil {
		globalResults.Errors = append(globalResults.Errors, fmt.Sprintf("SampleFrames failed: %v", err))
		t.Fatalf("SampleFrames failed: %v", err)
	}
	globalResults.FramesCount = len(frames)

	// 5s at one frame per 2s
	if len(frames) < 2 || len(frames) > 4 {
		t.Errorf("expected 2-4 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if !strings.HasPrefix(filepath.Base(f), "frame_") {
			t.Errorf("unexpected frame name %s", f)
		}
		if i > 0 && frames[i-1] >= f {
			t.Errorf("frames out of order: %s >= %s", frames[i-1], f)
		}
	}
	if progressCalls == 0 {
		t.Error("expected at least one progress callback")
	}
}

func TestExtractAudio(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := generateTestVideo(t, true)
	e := newTestExecutor(t)
	output := filepath.Join(t.TempDir(), "audio.wav")

	if err := e.ExtractAudio(context.Background(), video, output, DefaultWhisperFormat(), nil); err != nil {
		globalResults.Errors = append(globalResults.Errors, fmt.Sprintf("ExtractAudio failed: %v", err))
		t.Fatalf("ExtractAudio failed: %v", err)
	}

	stat, err := os.Stat(output)
	if err != nil {
		t.Fatalf("audio file was not created: %v", err)
	}
	globalResults.AudioBytes = stat.Size()

	// 5s of 16kHz mono s16le is ~160KB
	if stat.Size() < 100_000 {
		t.Errorf("audio file too small: %d bytes", stat.Size())
	}
}

func TestExtractAudioWithoutAudioStream(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := generateTestVideo(t, false)
	e := newTestExecutor(t)
	output := filepath.Join(t.TempDir(), "audio.wav")

	if err := e.ExtractAudio(context.Background(), video, output, DefaultWhisperFormat(), nil); err == nil {
		t.Error("expected error extracting audio from a silent video")
	}
}

func TestAnalyzeVolume(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := generateTestVideo(t, true)
	e := newTestExecutor(t)

	stats, err := e.AnalyzeVolume(context.Background(), video)
	if err != nil {
		globalResults.Errors = append(globalResults.Errors, fmt.Sprintf("AnalyzeVolume failed: %v", err))
		t.Fatalf("AnalyzeVolume failed: %v", err)
	}
	globalResults.VolumeStats = stats

	if stats.Silent(-60) {
		t.Errorf("sine tone reported silent: %+v", stats)
	}
}

func TestFilterBuilder(t *testing.T) {
	tests := []struct {
		name string
		fb   *FilterBuilder
		want string
	}{
		{"empty", NewFilterBuilder(), ""},
		{"whole seconds", NewFilterBuilder().SampleEvery(2 * time.Second), "fps=1/2"},
		{"sub-second", NewFilterBuilder().SampleEvery(500 * time.Millisecond), "fps=2"},
		{"chained", NewFilterBuilder().SampleEvery(time.Second).MaxWidth(1280), "fps=1/1,scale='min(1280,iw)':-2"},
		{"ignores invalid", NewFilterBuilder().SampleEvery(0).MaxWidth(-1).Custom(""), ""},
		{"custom", NewFilterBuilder().Custom("format=gray"), "format=gray"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fb.Build(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseProbeOutputRotation(t *testing.T) {
	tests := []struct {
		name     string
		stream   string
		rotation int
		vertical bool
	}{
		{"side data", `"side_data_list": [{"rotation": -90}]`, 270, true},
		{"legacy tag", `"tags": {"rotate": "90"}`, 90, true},
		{"upside down", `"tags": {"rotate": "180"}`, 180, false},
		{"none", `"tags": {}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(`{"format": {"duration": "3.0"}, "streams": [
				{"codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30/1", ` + tt.stream + `}
			]}`)
			info, err := parseProbeOutput(data)
			if err != nil {
				t.Fatalf("parseProbeOutput failed: %v", err)
			}
			if info.Rotation != tt.rotation {
				t.Errorf("expected rotation %d, got %d", tt.rotation, info.Rotation)
			}
			if info.Vertical() != tt.vertical {
				t.Errorf("expected vertical=%v, got %dx%d", tt.vertical, info.Width, info.Height)
			}
		})
	}
}

func TestParseProbeOutput(t *testing.T) {
	data := []byte(`{
		"format": {"duration": "12.500000"},
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1080, "height": 1920, "r_frame_rate": "30000/1001"},
			{"codec_type": "audio", "codec_name": "aac"}
		]
	}`)

	info, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput failed: %v", err)
	}
	if info.Duration != 12500*time.Millisecond {
		t.Errorf("expected 12.5s, got %v", info.Duration)
	}
	if info.Width != 1080 || info.Height != 1920 {
		t.Errorf("expected 1080x1920, got %dx%d", info.Width, info.Height)
	}
	if math.Abs(info.FPS-29.97) > 0.01 {
		t.Errorf("expected ~29.97 fps, got %f", info.FPS)
	}
	if !info.HasAudio || info.AudioCodec != "aac" {
		t.Errorf("expected aac audio, got %+v", info)
	}

	if !info.Vertical() {
		t.Error("expected vertical video")
	}

	if _, err := parseProbeOutput([]byte(`{"format": {}, "streams": []}`)); err == nil {
		t.Error("expected error for file without streams")
	}
	if _, err := parseProbeOutput([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestParseVolumeOutput(t *testing.T) {
	output := strings.Join([]string{
		"[Parsed_volumedetect_0 @ 0x1] n_samples: 80000",
		"[Parsed_volumedetect_0 @ 0x1] mean_volume: -21.3 dB",
		"[Parsed_volumedetect_0 @ 0x1] max_volume: -3.0 dB",
	}, "\n")

	stats, ok := parseVolumeOutput(output)
	if !ok {
		t.Fatal("expected statistics")
	}
	if stats.MeanVolume != -21.3 || stats.MaxVolume != -3.0 {
		t.Errorf("unexpected stats %+v", stats)
	}

	silent, ok := parseVolumeOutput("mean_volume: -inf dB\nmax_volume: -inf dB\n")
	if !ok || !silent.Silent(-60) {
		t.Errorf("expected digital silence, got %+v ok=%v", silent, ok)
	}

	if _, ok := parseVolumeOutput("nothing here"); ok {
		t.Error("expected no statistics")
	}
}

func TestStreamProgress(t *testing.T) {
	input := strings.Join([]string{
		"frame=30",
		"fps=29.5",
		"bitrate=N/A",
		"out_time_us=1000000",
		"speed=2.0x",
		"progress=continue",
		"frame=60",
		"out_time_us=2000000",
		"progress=end",
	}, "\n")

	var got []Progress
	var lines int
	streamProgress(strings.NewReader(input), RunOptions{
		Total:           4 * time.Second,
		ProgressHandler: func(p *Progress) { got = append(got, *p) },
		LogHandler:      func(string) { lines++ },
	})

	if lines != 9 {
		t.Errorf("expected 9 log lines, got %d", lines)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 progress blocks, got %d", len(got))
	}
	if got[0].Frame != 30 || got[0].Time != time.Second || got[0].Percentage != 25 || got[0].Speed != "2.0x" {
		t.Errorf("unexpected first block %+v", got[0])
	}
	if got[1].Frame != 60 || got[1].Percentage != 50 || got[1].FPS != 0 {
		t.Errorf("unexpected second block %+v", got[1])
	}
}

// TestMain runs after all tests and prints summary
func TestMain(m *testing.M) {
	code := m.Run()
	if testing.Verbose() {
		printTestSummary()
	}
	os.Exit(code)
}

func printTestSummary() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("TEST SUMMARY - FFmpeg Layer")
	fmt.Println(strings.Repeat("=", 80))

	if globalResults.ExecutorPath != "" {
		fmt.Printf("\nFFmpeg Binary: %s\n", globalResults.ExecutorPath)
	}

	if p := globalResults.ProbeResults; p != nil {
		fmt.Println("\nVIDEO PROBE RESULTS:")
		fmt.Printf("  Resolution:    %dx%d @ %.2f fps\n", p.Width, p.Height, p.FPS)
		fmt.Printf("  Duration:      %v\n", p.Duration)
		fmt.Printf("  Video Codec:   %s\n", p.VideoCodec)
		fmt.Printf("  Audio Codec:   %s\n", p.AudioCodec)
	}

	fmt.Println("\nEXTRACTION RESULTS:")
	fmt.Printf("  Frames sampled:   %d\n", globalResults.FramesCount)
	fmt.Printf("  Audio bytes:      %d\n", globalResults.AudioBytes)
	if v := globalResults.VolumeStats; v != nil {
		fmt.Printf("  Mean volume:      %6.2f dB\n", v.MeanVolume)
		fmt.Printf("  Peak volume:      %6.2f dB\n", v.MaxVolume)
	}

	if len(globalResults.Errors) > 0 {
		fmt.Println("\nERRORS ENCOUNTERED:")
		for i, err := range globalResults.Errors {
			fmt.Printf("  %d. %s\n", i+1, err)
		}
	} else {
		fmt.Println("\nNo critical errors")
	}

	fmt.Println(strings.Repeat("=", 80))
}
