package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FilterBuilder helps construct ffmpeg filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]string, 0),
	}
}

// SampleEvery adds an fps filter that keeps one frame per interval.
// Sub-second intervals are expressed as a frame rate.
func (fb *FilterBuilder) SampleEvery(interval time.Duration) *FilterBuilder {
	if interval <= 0 {
		return fb
	}
	if interval%time.Second == 0 {
		fb.filters = append(fb.filters, fmt.Sprintf("fps=1/%d", interval/time.Second))
		return fb
	}
	rate := strconv.FormatFloat(float64(time.Second)/float64(interval), 'f', -1, 64)
	fb.filters = append(fb.filters, "fps="+rate)
	return fb
}

// MaxWidth adds a scale filter that shrinks frames wider than width and
// keeps the height even.
func (fb *FilterBuilder) MaxWidth(width int) *FilterBuilder {
	if width <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("scale='min(%d,iw)':-2", width))
	return fb
}

// Custom adds a custom filter string
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	if filter != "" {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	return strings.Join(fb.filters, ",")
}
