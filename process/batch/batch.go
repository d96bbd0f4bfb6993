// Package batch turns a directory of workout screenshots into rows: filename
// context, OCR, extraction, then writers and sinks.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"fitocr/pkg/extract"
	"fitocr/pkg/naming"
	"fitocr/pkg/ocr"
	"fitocr/pkg/workout"
)

// Options tune a Processor.
type Options struct {
	// Workers defaults to NumCPU.
	Workers int
	Verbose bool
}

// Processor runs the per-file pipeline. It is safe for concurrent use when
// its Transcriber is.
type Processor struct {
	ocr     ocr.Transcriber
	ex      *extract.Extractor
	workers int
	verbose bool
}

// Result is the outcome for one file.
type Result struct {
	Name string
	Row  workout.Row
	Err  error
}

// Skipped reports whether the file was not a workout screenshot.
func (r Result) Skipped() bool {
	return errors.Is(r.Err, naming.ErrNotWorkout) || errors.Is(r.Err, naming.ErrNoRoute)
}

func New(t ocr.Transcriber, ex *extract.Extractor, opts Options) *Processor {
	return &Processor{ocr: t, ex: ex, workers: effectiveWorkers(opts.Workers), verbose: opts.Verbose}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func (p *Processor) logV(format string, args ...any) {
	if p.verbose {
		log.Printf(format, args...)
	}
}

// ProcessFile builds the row for dir/name. Transcription failures are logged
// and leave every OCR field empty; only filename and context errors are
// returned.
func (p *Processor) ProcessFile(ctx context.Context, dir, name string) (workout.Row, error) {
	if err := ctx.Err(); err != nil {
		return workout.Row{}, err
	}
	c, err := naming.Parse(name)
	if err != nil {
		return workout.Row{}, err
	}
	path := filepath.Join(dir, name)
	fi, err := os.Stat(path)
	if err != nil {
		return workout.Row{}, fmt.Errorf("stat %s: %w", name, err)
	}
	log.Printf("processing: %s", name)

	text, err := p.ocr.Transcribe(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return workout.Row{}, ctxErr
		}
		log.Printf("OCR fail %s: %v", name, err)
		text = ""
	}
	row := workout.Build(c, p.ex.Extract(text), fi.ModTime())

	log.Printf("  mode=%s route=%s->%s total=%s kcal=%s", row.Mode, row.StartLocation, row.EndLocation, row.TotalTime, row.Calories)
	for i, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), "cal") {
			p.logV("    OCR cal line %d: %s", i, line)
		}
	}
	return row, nil
}

// Run processes names with the worker pool. Results keep the order of names
// whatever the completion order.
func (p *Processor) Run(ctx context.Context, dir string, names []string) []Result {
	results := make([]Result, len(names))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < min(p.workers, max(len(names), 1)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				row, err := p.ProcessFile(ctx, dir, names[idx])
				results[idx] = Result{Name: names[idx], Row: row, Err: err}
			}
		}()
	}
feed:
	for i := range names {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(names); j++ {
				results[j] = Result{Name: names[j], Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

// Rows keeps the successful results, logging skips and failures.
func Rows(results []Result) []workout.Row {
	var out []workout.Row
	for _, r := range results {
		switch {
		case r.Err == nil:
			out = append(out, r.Row)
		case r.Skipped():
			log.Printf("SKIP %s: %v", r.Name, r.Err)
		default:
			log.Printf("ERROR %s: %v", r.Name, r.Err)
		}
	}
	return out
}
