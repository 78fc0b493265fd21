package ocr

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	// Frames may arrive as JPEG when sampled by other tools.
	_ "image/jpeg"

	"github.com/nfnt/resize"
)

// Frames whose luminance standard deviation is below this hold no
// readable text (solid color, fades).
const minContrast = 4.0

// loadImage decodes a PNG or JPEG file.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// prepareFrame downscales img to at most maxWidth and converts it to
// grayscale, which is what the recognizer works on.
func prepareFrame(img image.Image, maxWidth uint) *image.Gray {
	if maxWidth > 0 && uint(img.Bounds().Dx()) > maxWidth {
		img = resize.Resize(maxWidth, 0, img, resize.Bilinear)
	}

	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// contrast is the standard deviation of luminance.
func contrast(img *image.Gray) float64 {
	n := float64(len(img.Pix))
	if n == 0 {
		return 0
	}

	var sum, sumSq float64
	for _, p := range img.Pix {
		v := float64(p)
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	return math.Sqrt(math.Max(0, sumSq/n-mean*mean))
}

// writePNG stores img in a new temp file under dir and returns its path.
func writePNG(dir string, img image.Image) (string, error) {
	f, err := os.CreateTemp(dir, "ocr_*.png")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}
	return f.Name(), nil
}
