package batch

import (
	"context"
	"errors"
	"log"

	"fitocr/models"
	"fitocr/pkg/store"
	"fitocr/pkg/workout"
)

// Sink receives every successfully built row.
type Sink interface {
	Save(ctx context.Context, name string, row workout.Row) error
}

// DBSink upserts rows as workouts of one user.
type DBSink struct {
	Store  *store.Store
	UserID uint
}

func (s DBSink) Save(_ context.Context, name string, row workout.Row) error {
	w := models.NewWorkout(s.UserID, name, models.SourceBatch, row)
	if err := s.Store.SaveWorkout(&w); err != nil {
		return err
	}
	log.Printf("NEW workout id=%d file=%s", w.ID, name)
	return nil
}

// Sinks fans a row out to every sink, joining their errors.
type Sinks []Sink

func (ss Sinks) Save(ctx context.Context, name string, row workout.Row) error {
	var errs []error
	for _, s := range ss {
		if err := s.Save(ctx, name, row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Deliver sends each successful result to sink, logging failures.
func Deliver(ctx context.Context, sink Sink, results []Result) {
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := sink.Save(ctx, r.Name, r.Row); err != nil {
			log.Printf("WARN sink %s: %v", r.Name, err)
		}
	}
}
