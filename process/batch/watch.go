package batch

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce timings for watch mode.
var (
	watchTick   = 250 * time.Millisecond
	watchStable = 300 * time.Millisecond
)

// Watch processes images created in dir until ctx is done. A file is picked
// up once no event touched it for the stable interval; handle runs for each
// result from the pool's goroutines.
func (p *Processor) Watch(ctx context.Context, dir string, handle func(Result)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	done := make(chan struct{})
	for i := 0; i < p.workers; i++ {
		go func() {
			for name := range fileCh {
				row, err := p.ProcessFile(ctx, dir, name)
				handle(Result{Name: name, Row: row, Err: err})
			}
			done <- struct{}{}
		}()
	}
	defer func() {
		close(fileCh)
		for i := 0; i < p.workers; i++ {
			<-done
		}
	}()

	pending := map[string]time.Time{}
	ticker := time.NewTicker(watchTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !isCandidate(name) {
				continue
			}
			pending[name] = time.Now()
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) > watchStable {
					delete(pending, name)
					select {
					case fileCh <- name:
					case <-ctx.Done():
						return nil
					}
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}
