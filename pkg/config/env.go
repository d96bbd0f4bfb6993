package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"fitocr/pkg/extract"
	"fitocr/pkg/ocr"
)

const devJWTSecret = "dev-insecure-secret-change"

// Env holds the environment-driven settings.
type Env struct {
	DSN         string
	AutoMigrate bool
	UploadBase  string
	JWTSecret   string
	ConfigPath  string
	Languages   []string
}

// LoadDotEnv loads ./.env if present without overwriting set variables.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// FromEnv reads Env from the process environment.
func FromEnv() Env {
	e := Env{
		DSN:         os.Getenv("DB_DSN"),
		AutoMigrate: true,
		UploadBase:  os.Getenv("UPLOAD_BASE"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ConfigPath:  os.Getenv("FITOCR_CONFIG"),
	}
	if v := strings.ToLower(os.Getenv("DB_AUTO_MIGRATE")); v == "false" || v == "0" || v == "no" {
		e.AutoMigrate = false
	}
	if e.UploadBase == "" {
		e.UploadBase = "uploads"
	}
	if e.JWTSecret == "" {
		e.JWTSecret = devJWTSecret
	}
	if e.ConfigPath == "" {
		e.ConfigPath = DefaultConfigPath()
	}
	if v := os.Getenv("FITOCR_LANGS"); v != "" {
		for _, l := range strings.Split(v, ",") {
			if l = strings.TrimSpace(l); l != "" {
				e.Languages = append(e.Languages, l)
			}
		}
	}
	return e
}

// Settings is the resolved extraction and OCR configuration.
type Settings struct {
	Extract extract.Config
	OCR     ocr.Options
}

// Resolve combines defaults, the TOML file at e.ConfigPath and FITOCR_LANGS,
// which wins over the file's languages.
func (e Env) Resolve() (Settings, error) {
	s := Settings{
		Extract: extract.DefaultConfig(),
		OCR:     ocr.Options{Languages: append([]string(nil), ocr.DefaultLanguages...), Preprocess: true},
	}
	fc, err := LoadConfig(e.ConfigPath)
	if err != nil {
		return s, err
	}
	if s.Extract, err = fc.Extract.Apply(s.Extract); err != nil {
		return s, err
	}
	if s.OCR, err = fc.OCR.Apply(s.OCR); err != nil {
		return s, err
	}
	if len(e.Languages) > 0 {
		s.OCR.Languages = e.Languages
	}
	return s, nil
}

// Transcriber returns the OCR chain: stored sidecar transcripts first, then Tesseract.
func (s Settings) Transcriber() ocr.Transcriber {
	return ocr.Sidecar{Next: ocr.NewTesseract(s.OCR)}
}

// Extractor returns an extractor for the resolved heuristics.
func (s Settings) Extractor() *extract.Extractor {
	return extract.New(s.Extract)
}
