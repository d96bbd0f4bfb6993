package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"fitocr/pkg/config"
	"fitocr/process/batch"
)

type sinkFlags struct {
	ledger  string
	db      bool
	user    string
	archive string
}

func (f *sinkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ledger, "ledger", "", "SQLite ledger of processed files; files already in it are skipped")
	cmd.Flags().BoolVar(&f.db, "db", false, "also store workouts in Postgres (DB_DSN)")
	cmd.Flags().StringVar(&f.user, "user", "", "owner of stored workouts (required with --db)")
	cmd.Flags().StringVar(&f.archive, "archive", "", "move processed images to this directory, shrinking large ones")
}

// open builds the sinks. The returned cleanup closes whatever was opened.
func (f *sinkFlags) open(env config.Env) (*batch.Ledger, batch.Sinks, func(), error) {
	var (
		ledger  *batch.Ledger
		sinks   batch.Sinks
		closers []func() error
	)
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	if f.ledger != "" {
		l, err := batch.OpenLedger(f.ledger)
		if err != nil {
			return nil, nil, cleanup, err
		}
		ledger = l
		sinks = append(sinks, l)
		closers = append(closers, l.Close)
	}
	if f.db {
		if f.user == "" {
			return nil, nil, cleanup, fmt.Errorf("--db requires --user")
		}
		st, err := openStore(env)
		if err != nil {
			return nil, nil, cleanup, err
		}
		closers = append(closers, st.Close)
		u, err := st.FindUser(f.user)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("user %s: %w", f.user, err)
		}
		sinks = append(sinks, batch.DBSink{Store: st, UserID: u.ID})
	}
	return ledger, sinks, cleanup, nil
}

func (f *sinkFlags) archiveResult(dir string, r batch.Result) {
	if f.archive == "" || r.Err != nil {
		return
	}
	if err := batch.Archive(filepath.Join(dir, r.Name), f.archive, batch.DefaultArchiveMaxBytes); err != nil {
		log.Printf("WARN archive %s: %v", r.Name, err)
	}
}

func newBatchCmd(g *globals) *cobra.Command {
	var (
		input   string
		output  string
		format  string
		workers int
		verbose bool
		sf      sinkFlags
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process every screenshot in a directory into one table",
		Example: `  fitocr batch --input images --output output.csv
  fitocr batch --variant training --output month.parquet --ledger seen.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, s, err := g.settings()
			if err != nil {
				return err
			}
			ft, err := batch.DetectFormat(output, format)
			if err != nil {
				return err
			}
			ledger, sinks, cleanup, err := sf.open(env)
			defer cleanup()
			if err != nil {
				return err
			}
			return runBatch(cmd.Context(), s, batchJob{
				input: input, output: output, format: ft,
				opts:   batch.Options{Workers: workers, Verbose: verbose},
				ledger: ledger, sinks: sinks, sf: &sf,
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "images", "directory of screenshots")
	cmd.Flags().StringVar(&output, "output", "output.csv", "output file")
	cmd.Flags().StringVar(&format, "format", "", "csv, parquet or yaml (default from the output extension)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent OCR workers (default NumCPU)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log transcript lines mentioning calories")
	sf.register(cmd)
	return cmd
}

type batchJob struct {
	input, output string
	format        batch.Format
	opts          batch.Options
	ledger        *batch.Ledger
	sinks         batch.Sinks
	sf            *sinkFlags
}

func runBatch(ctx context.Context, s config.Settings, job batchJob) error {
	names, err := batch.ListImages(job.input)
	if err != nil {
		return err
	}
	if job.ledger != nil {
		if names, err = job.ledger.Pending(ctx, names); err != nil {
			return err
		}
	}
	p := batch.New(s.Transcriber(), s.Extractor(), job.opts)
	results := p.Run(ctx, job.input, names)
	rows := batch.Rows(results)
	if len(job.sinks) > 0 {
		batch.Deliver(ctx, job.sinks, results)
	}
	// The ledger keeps earlier rows so the output stays complete across runs.
	if job.ledger != nil {
		if rows, err = job.ledger.Rows(ctx); err != nil {
			return err
		}
	}
	if err := batch.WriteFile(job.output, job.format, rows); err != nil {
		return err
	}
	for _, r := range results {
		job.sf.archiveResult(job.input, r)
	}
	log.Printf("wrote %d rows to %s", len(rows), job.output)
	return ctx.Err()
}

func newWatchCmd(g *globals) *cobra.Command {
	var (
		input   string
		workers int
		verbose bool
		sf      sinkFlags
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process screenshots as they appear in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, s, err := g.settings()
			if err != nil {
				return err
			}
			ledger, sinks, cleanup, err := sf.open(env)
			defer cleanup()
			if err != nil {
				return err
			}
			if len(sinks) == 0 {
				return fmt.Errorf("watch needs a sink: --ledger or --db")
			}
			p := batch.New(s.Transcriber(), s.Extractor(), batch.Options{Workers: workers, Verbose: verbose})
			return p.Watch(cmd.Context(), input, func(r batch.Result) {
				ctx := cmd.Context()
				if ledger != nil && r.Err == nil {
					if seen, err := ledger.Seen(ctx, r.Name); err == nil && seen {
						return
					}
				}
				batch.Rows([]batch.Result{r})
				batch.Deliver(ctx, sinks, []batch.Result{r})
				sf.archiveResult(input, r)
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "images", "directory to watch")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent OCR workers (default NumCPU)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log transcript lines mentioning calories")
	sf.register(cmd)
	return cmd
}

