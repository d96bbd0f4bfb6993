package batch

import (
	"os"
	"sort"
	"strings"

	"fitocr/pkg/ocr"
)

// isCandidate accepts Tesseract-readable images and ignores preprocessing
// temp files.
func isCandidate(name string) bool {
	if strings.Contains(name, ".ocr.") || strings.HasPrefix(name, ".") {
		return false
	}
	return ocr.IsSupported(name)
}

// ListImages returns the candidate image names in dir, sorted.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isCandidate(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}
