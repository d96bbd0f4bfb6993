package batch

import (
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"fitocr/pkg/ocr"
)

// DefaultArchiveMaxBytes is the size above which archived images are shrunk.
const DefaultArchiveMaxBytes = 1_000_000

// Archive moves a processed image into dstDir. Images above maxBytes are
// downscaled on the way; anything that cannot be decoded is moved as is.
// The sidecar transcript, if any, follows the image.
func Archive(src, dstDir string, maxBytes int64) error {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return err
	}
	name := filepath.Base(src)
	dst := filepath.Join(dstDir, name)
	if err := moveImage(src, dst, maxBytes); err != nil {
		return err
	}
	if _, err := os.Stat(src + ocr.SidecarExt); err == nil {
		return moveFile(src+ocr.SidecarExt, dst+ocr.SidecarExt)
	}
	return nil
}

func moveImage(src, dst string, maxBytes int64) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if maxBytes <= 0 || fi.Size() <= maxBytes {
		return moveFile(src, dst)
	}
	img, err := imaging.Open(src)
	if err != nil {
		return moveFile(src, dst)
	}
	// encoded size scales roughly with area
	scale := math.Sqrt(float64(maxBytes) / float64(fi.Size()))
	scale = math.Max(0.1, math.Min(scale, 0.95))
	w := int(math.Max(1, math.Round(float64(img.Bounds().Dx())*scale)))
	h := int(math.Max(1, math.Round(float64(img.Bounds().Dy())*scale)))
	if err := imaging.Save(imaging.Resize(img, w, h, imaging.Lanczos), dst); err != nil {
		return moveFile(src, dst)
	}
	return os.Remove(src)
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	return copyRemove(src, dst)
}

func copyRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
