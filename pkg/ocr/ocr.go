// Package ocr turns workout screenshots into plain-text transcripts.
package ocr

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Transcriber produces the text of one image.
type Transcriber interface {
	Transcribe(ctx context.Context, imagePath string) (string, error)
}

// DefaultLanguages are tried in order until one yields text.
var DefaultLanguages = []string{"ita", "eng"}

var supportedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// IsSupported reports whether path has an image extension Tesseract is fed.
func IsSupported(path string) bool {
	return supportedExt[strings.ToLower(filepath.Ext(path))]
}

// Options configure a Tesseract transcriber.
type Options struct {
	Languages []string
	// PageSegMode defaults to a single uniform block of text.
	PageSegMode gosseract.PageSegMode
	Whitelist   string
	// Preprocess runs grayscale/contrast/upscale before recognition.
	Preprocess bool
	Threshold  ThresholdMode
	Verbose    bool
}

// Tesseract transcribes images through libtesseract.
type Tesseract struct {
	opts Options
}

// NewTesseract fills unset options with defaults.
func NewTesseract(opts Options) *Tesseract {
	if len(opts.Languages) == 0 {
		opts.Languages = append([]string(nil), DefaultLanguages...)
	}
	if opts.PageSegMode == 0 {
		opts.PageSegMode = gosseract.PSM_SINGLE_BLOCK
	}
	return &Tesseract{opts: opts}
}

// Languages returns the effective language order.
func (t *Tesseract) Languages() []string { return t.opts.Languages }

// Transcribe runs one recognition per language and returns the first
// non-empty transcript. Engine failures for a language are logged and the next
// language is tried; if none succeeds the result is "" and ErrEmptyTranscript.
func (t *Tesseract) Transcribe(ctx context.Context, path string) (string, error) {
	if !IsSupported(path) {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedImage)
	}
	src := path
	if t.opts.Preprocess {
		tmp, err := prepareImage(path, t.opts.Threshold)
		if err != nil {
			log.Printf("OCR preprocess failed for %s: %v (using original)", path, err)
		} else {
			defer os.Remove(tmp)
			src = tmp
		}
	}

	for _, lang := range t.opts.Languages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := t.recognize(src, lang)
		if err != nil {
			log.Printf("OCR %s lang=%s failed: %v", filepath.Base(path), lang, err)
			continue
		}
		text = cleanTranscript(text)
		if t.opts.Verbose {
			log.Printf("OCR RAW %s lang=%s snippet=%q", filepath.Base(path), lang, snippet(text, 180))
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyTranscript)
}

func (t *Tesseract) recognize(path, lang string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(t.opts.PageSegMode); err != nil {
		return "", fmt.Errorf("set psm: %w", err)
	}
	if t.opts.Whitelist != "" {
		if err := client.SetWhitelist(t.opts.Whitelist); err != nil {
			return "", fmt.Errorf("set whitelist: %w", err)
		}
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	return client.Text()
}
