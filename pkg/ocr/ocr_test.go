package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/disintegration/imaging"
)

type fixedTranscriber struct {
	text  string
	calls int
}

func (f *fixedTranscriber) Transcribe(context.Context, string) (string, error) {
	f.calls++
	return f.text, nil
}

func TestSidecarPrefersStoredTranscript(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "2024-05-01 corsa - Milano Monza.jpg")
	if err := WriteSidecar(img, "Tempo totale\r\n1:02:03\r\n\r\n"); err != nil {
		t.Fatal(err)
	}
	next := &fixedTranscriber{text: "unused"}
	got, err := Sidecar{Next: next}.Transcribe(context.Background(), img)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got != "Tempo totale\n1:02:03" {
		t.Fatalf("expected cleaned sidecar text got %q", got)
	}
	if next.calls != 0 {
		t.Fatalf("expected no delegation got %d calls", next.calls)
	}
}

func TestSidecarDelegatesWhenMissing(t *testing.T) {
	next := &fixedTranscriber{text: "612 kcal"}
	got, err := Sidecar{Next: next}.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.png"))
	if err != nil || got != "612 kcal" {
		t.Fatalf("expected delegated text got %q err=%v", got, err)
	}
}

func TestSidecarWithoutNextIsEmpty(t *testing.T) {
	_, err := Sidecar{}.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.png"))
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript got %v", err)
	}
}

func TestCleanTranscriptKeepsLines(t *testing.T) {
	got := cleanTranscript("07:42  \r\nCorsa\t\f8,4 km\n\n")
	if got != "07:42\nCorsa\n8,4 km" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestParseThresholdMode(t *testing.T) {
	for in, want := range map[string]ThresholdMode{"": ThresholdNone, "none": ThresholdNone, " Global ": ThresholdGlobal, "adaptive": ThresholdAdaptive} {
		got, err := ParseThresholdMode(in)
		if err != nil || got != want {
			t.Fatalf("%q: expected %q got %q err=%v", in, want, got, err)
		}
	}
	if _, err := ParseThresholdMode("otsu"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func halfDark(w, h int) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.Set(x, y, color.NRGBA{40, 40, 40, 255})
		}
	}
	return img
}

func TestBinarize(t *testing.T) {
	out := binarize(imaging.Grayscale(halfDark(8, 4)), 128)
	if luma(out, 0, 0) != 0 || luma(out, 7, 3) != 255 {
		t.Fatalf("expected black left / white right got %d/%d", luma(out, 0, 0), luma(out, 7, 3))
	}
}

func TestAdaptiveThresholdAndDilate(t *testing.T) {
	img := imaging.New(9, 9, color.NRGBA{255, 255, 255, 255})
	img.Set(4, 4, color.NRGBA{0, 0, 0, 255})
	adv := adaptiveThreshold(imaging.Grayscale(img), 3, 7)
	if luma(adv, 4, 4) != 0 || luma(adv, 0, 0) != 255 {
		t.Fatalf("expected a single dark dot")
	}
	grown := dilate(adv, 1)
	for _, p := range [][2]int{{4, 4}, {3, 4}, {5, 4}, {4, 3}, {4, 5}} {
		if luma(grown, p[0], p[1]) != 0 {
			t.Fatalf("expected %v black after dilate", p)
		}
	}
	if luma(grown, 3, 3) != 255 {
		t.Fatalf("diagonal must stay white")
	}
}

func TestEnhanceUpscalesShortImages(t *testing.T) {
	out := enhance(halfDark(100, 50), ThresholdNone)
	if out.Bounds().Dy() != 1300 {
		t.Fatalf("expected height 1300 got %d", out.Bounds().Dy())
	}
}

func TestTesseractRejectsUnsupported(t *testing.T) {
	_, err := NewTesseract(Options{}).Transcribe(context.Background(), "notes.pdf")
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage got %v", err)
	}
}

func TestTesseractBlankImageIsEmpty(t *testing.T) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed")
	}
	f, err := os.CreateTemp(t.TempDir(), "blank-*.png")
	if err != nil {
		t.Skip("temp file")
	}
	_ = f.Close()
	if err := imaging.Save(imaging.New(400, 200, color.NRGBA{255, 255, 255, 255}), f.Name()); err != nil {
		t.Fatal(err)
	}
	tess := NewTesseract(Options{Languages: []string{"eng"}, Preprocess: true})
	_, err = tess.Transcribe(context.Background(), f.Name())
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript got %v", err)
	}
}

func TestSnippet_CutsOnRuneBoundary(t *testing.T) {
	if got := snippet("città", 5); got != "citt…" || !utf8.ValidString(got) {
		t.Fatalf("snippet = %q, want %q", got, "citt…")
	}
	if got := snippet("corsa", 10); got != "corsa" {
		t.Fatalf("snippet = %q, want unchanged", got)
	}
}
