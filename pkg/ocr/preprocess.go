package ocr

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// ThresholdMode selects the binarization applied after enhancement.
type ThresholdMode string

const (
	ThresholdNone     ThresholdMode = ""
	ThresholdGlobal   ThresholdMode = "global"
	ThresholdAdaptive ThresholdMode = "adaptive"
)

// ParseThresholdMode accepts "", "none", "global" and "adaptive".
func ParseThresholdMode(s string) (ThresholdMode, error) {
	switch m := ThresholdMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ThresholdNone, "none":
		return ThresholdNone, nil
	case ThresholdGlobal, ThresholdAdaptive:
		return m, nil
	}
	return ThresholdNone, fmt.Errorf("unknown threshold mode %q", s)
}

// minHeight is the height below which screenshots are upscaled before OCR.
const minHeight = 900

// enhance converts to grayscale, lifts contrast, sharpens and upscales short
// images, then applies the threshold mode.
func enhance(img image.Image, mode ThresholdMode) *image.NRGBA {
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < minHeight {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}
	switch mode {
	case ThresholdGlobal:
		return binarize(gray, 210)
	case ThresholdAdaptive:
		return dilate(adaptiveThreshold(gray, 15, 7), 1)
	}
	return gray
}

// prepareImage writes the enhanced image to a temp PNG and returns its path.
// The caller removes it.
func prepareImage(path string, mode ThresholdMode) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	f, err := os.CreateTemp("", "fitocr-*.png")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	tmp := f.Name()
	_ = f.Close()
	if err := imaging.Save(enhance(img, mode), tmp); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("save preprocessed: %w", err)
	}
	return tmp, nil
}

// luma reads the gray level of pixel (x, y) of a grayscale NRGBA image.
func luma(img *image.NRGBA, x, y int) int {
	return int(img.Pix[img.PixOffset(x, y)])
}

func setLevel(img *image.NRGBA, x, y int, v uint8) {
	i := img.PixOffset(x, y)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
}

// binarize maps every pixel at or below threshold to black, the rest to white.
func binarize(gray *image.NRGBA, threshold uint8) *image.NRGBA {
	b := gray.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var v uint8 = 255
			if luma(gray, x, y) <= int(threshold) {
				v = 0
			}
			setLevel(out, x, y, v)
		}
	}
	return out
}

// adaptiveThreshold blackens pixels darker than the mean of their window
// minus bias. The mean comes from a summed-area table.
func adaptiveThreshold(gray *image.NRGBA, window, bias int) *image.NRGBA {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	sat := make([]int, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		row := 0
		for x := 0; x < w; x++ {
			row += luma(gray, b.Min.X+x, b.Min.Y+y)
			sat[(y+1)*(w+1)+x+1] = sat[y*(w+1)+x+1] + row
		}
	}
	half := window / 2
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		y0, y1 := max(y-half, 0), min(y+half, h-1)
		for x := 0; x < w; x++ {
			x0, x1 := max(x-half, 0), min(x+half, w-1)
			sum := sat[(y1+1)*(w+1)+x1+1] - sat[y0*(w+1)+x1+1] - sat[(y1+1)*(w+1)+x0] + sat[y0*(w+1)+x0]
			mean := sum / ((x1 - x0 + 1) * (y1 - y0 + 1))
			var v uint8 = 255
			if luma(gray, b.Min.X+x, b.Min.Y+y) < max(mean-bias, 0) {
				v = 0
			}
			setLevel(out, x, y, v)
		}
	}
	return out
}

// dilate grows black strokes by radius pixels over the 4-neighborhood.
func dilate(img *image.NRGBA, radius int) *image.NRGBA {
	cur := img
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for r := 0; r < radius; r++ {
		next := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var v uint8 = 255
				for _, d := range [5][2]int{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					x2, y2 := x+d[0], y+d[1]
					if x2 >= 0 && y2 >= 0 && x2 < w && y2 < h && luma(cur, x2, y2) == 0 {
						v = 0
						break
					}
				}
				setLevel(next, x, y, v)
			}
		}
		cur = next
	}
	return cur
}
