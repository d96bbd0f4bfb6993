// Package retry re-runs OCR over stored uploads that produced no workout
// data, usually with a more aggressive preprocessing chain.
package retry

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"fitocr/models"
	"fitocr/pkg/extract"
	"fitocr/pkg/naming"
	"fitocr/pkg/ocr"
	"fitocr/pkg/workout"
)

// Repo is the part of the store a retry needs.
type Repo interface {
	RetryCandidates(userID *uint) ([]models.Screenshot, error)
	SaveWorkout(w *models.Workout) error
	UpdateScreenshot(sc *models.Screenshot) error
}

// Options controls a retry run.
type Options struct {
	UploadBase string
	UserID     *uint
	DryRun     bool
}

// Stats counts the outcomes of a run.
type Stats struct {
	Candidates int
	Updated    int
	StillEmpty int
	Errors     int
}

// Run transcribes every candidate again. A screenshot is updated only when the
// new transcript yields a total time; dry runs print the proposed rows to w.
func Run(ctx context.Context, w io.Writer, repo Repo, t ocr.Transcriber, ex *extract.Extractor, opts Options) (Stats, error) {
	var st Stats
	shots, err := repo.RetryCandidates(opts.UserID)
	if err != nil {
		return st, fmt.Errorf("query candidates: %w", err)
	}
	st.Candidates = len(shots)
	for i := range shots {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		sc := &shots[i]
		path := filepath.Join(opts.UploadBase, filepath.FromSlash(sc.StorePath))
		fi, err := os.Stat(path)
		if err != nil {
			log.Printf("open %s: %v", path, err)
			st.Errors++
			continue
		}
		text, err := t.Transcribe(ctx, path)
		if err != nil {
			log.Printf("ocr id=%d %s: %v", sc.ID, sc.FileName, err)
			st.StillEmpty++
			continue
		}
		c, _ := naming.Parse(sc.FileName)
		row := workout.Build(c, ex.Extract(text), fi.ModTime())
		if row.TotalTime == "" {
			log.Printf("no total time for id=%d file=%s", sc.ID, sc.FileName)
			st.StillEmpty++
			continue
		}
		if opts.DryRun {
			fmt.Fprintf(w, "DRY: would update screenshot id=%d file=%s total=%s kcal=%s\n", sc.ID, sc.FileName, row.TotalTime, row.Calories)
			st.Updated++
			continue
		}
		wk := models.NewWorkout(sc.UserID, sc.FileName, models.SourceUpload, row)
		if err := repo.SaveWorkout(&wk); err != nil {
			log.Printf("failed update workout %s: %v", sc.FileName, err)
			st.Errors++
			continue
		}
		sc.WorkoutID = &wk.ID
		sc.Failed = false
		sc.FailedReason = ""
		if err := repo.UpdateScreenshot(sc); err != nil {
			log.Printf("WARN link screenshot %d: %v", sc.ID, err)
		}
		fmt.Fprintf(w, "updated screenshot id=%d file=%s total=%s kcal=%s\n", sc.ID, sc.FileName, row.TotalTime, row.Calories)
		st.Updated++
	}
	return st, nil
}
