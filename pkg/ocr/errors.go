package ocr

import "errors"

// ErrEmptyTranscript is returned when no language produced any text.
var ErrEmptyTranscript = errors.New("empty transcript")

// ErrUnsupportedImage is returned for files the transcriber will not open.
var ErrUnsupportedImage = errors.New("unsupported image type")
