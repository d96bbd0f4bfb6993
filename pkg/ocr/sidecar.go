package ocr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// SidecarExt is appended to an image path to find its stored transcript.
const SidecarExt = ".txt"

// Sidecar serves transcripts saved next to the image as "<image>.txt" and
// delegates to Next when none exists. A nil Next makes a missing sidecar an
// ErrEmptyTranscript.
type Sidecar struct {
	Next Transcriber
}

func (s Sidecar) Transcribe(ctx context.Context, path string) (string, error) {
	b, err := os.ReadFile(path + SidecarExt)
	switch {
	case err == nil:
		text := cleanTranscript(string(b))
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("%s%s: %w", path, SidecarExt, ErrEmptyTranscript)
		}
		return text, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read sidecar: %w", err)
	}
	if s.Next == nil {
		return "", fmt.Errorf("%s: no sidecar: %w", path, ErrEmptyTranscript)
	}
	return s.Next.Transcribe(ctx, path)
}

// WriteSidecar stores text as the transcript of path.
func WriteSidecar(path, text string) error {
	return os.WriteFile(path+SidecarExt, []byte(text), 0o644)
}
